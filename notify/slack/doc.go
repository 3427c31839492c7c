// Package slack delivers notify messages to a Slack incoming webhook.
//
// Digest blocks are converted to Block Kit blocks with slack-go. Rate
// limited and server-side failures are retried; other rejections are
// returned immediately.
package slack
