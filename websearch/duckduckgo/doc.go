// Package duckduckgo implements websearch.Searcher by scraping the
// JavaScript-free DuckDuckGo results page with goquery.
package duckduckgo
