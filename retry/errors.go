package retry

import (
	"context"
	"errors"
)

var (
	// ErrInvalidPolicy is returned when a Policy has negative retries or delays.
	ErrInvalidPolicy = errors.New("invalid retry policy")
)

type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying.
// Do returns the wrapped error unchanged once it sees a permanent failure.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Retryable is the default failure predicate.
// Cancellation and permanent failures stop retrying; everything else,
// including a per-call deadline, qualifies for another attempt.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return !IsPermanent(err)
}

// unwrapPermanent strips the Permanent marker, including one wrapped by
// another error.
func unwrapPermanent(err error) error {
	var p *permanentError
	if errors.As(err, &p) {
		return p.err
	}
	return err
}
