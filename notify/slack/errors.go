package slack

import "errors"

// ErrMissingURL is returned by New when no webhook URL is configured.
var ErrMissingURL = errors.New("slack webhook URL is required")
