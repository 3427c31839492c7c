// Package pipeline runs one digest end to end.
//
// A run loads the bookmark export, drops already processed records, enriches
// and summarizes the remainder, assembles and renders the digest and delivers
// it page by page to the Notification Service. Enrichment and summarization
// run concurrently on a worker pool and are joined before assembly.
//
// The processed-id watermark is only written after every page was delivered,
// so a failed delivery leaves the records eligible for the next run.
package pipeline
