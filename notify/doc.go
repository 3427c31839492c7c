// Package notify defines the Notification Service boundary.
//
// A Message is an ordered list of digest blocks plus a plain-text fallback.
// Implementations deliver one message per Send call and report success or
// failure for the whole message; there is no partial success.
package notify
