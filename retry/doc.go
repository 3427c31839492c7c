// Package retry provides a reusable exponential-backoff wrapper for calls to
// external services.
//
// A Policy describes how many times a failed call is retried, how long to
// wait between attempts and which failures qualify for another attempt. The
// same Policy type is applied explicitly at every external call site (keyword
// extraction, web search, chunk summarization and enrichment notes) rather
// than being hidden behind implicit wrapping.
//
// Delays follow min(BaseDelay * 2^attempt, MaxDelay), optionally scaled by a
// uniform random factor in [0.5, 1.0). Waiting honours context cancellation.
package retry
