package pipeline

import "errors"

var (
	// ErrCompleterRequired is returned when a completer is not provided.
	ErrCompleterRequired = errors.New("completer required")

	// ErrSearcherRequired is returned when a web searcher is not provided.
	ErrSearcherRequired = errors.New("web searcher required")

	// ErrNotifierRequired is returned when a notifier is not provided.
	ErrNotifierRequired = errors.New("notifier required")

	// ErrDelivery is returned when the Notification Service rejects a page.
	ErrDelivery = errors.New("digest delivery failed")

	// ErrInvalidConfig is returned for unusable pipeline settings.
	ErrInvalidConfig = errors.New("invalid pipeline config")
)
