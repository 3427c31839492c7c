package config

import "errors"

var (
	// ErrMissingWebhook indicates that no notification webhook is configured.
	ErrMissingWebhook = errors.New("slack webhook URL is not set")

	// ErrMissingAPIKey indicates that the completion provider needs a key.
	ErrMissingAPIKey = errors.New("completion API key is not set")

	// ErrInvalidValue indicates an out-of-range setting.
	ErrInvalidValue = errors.New("invalid configuration value")
)
