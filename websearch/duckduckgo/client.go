package duckduckgo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/poiesic/bookdigest/core"
	"github.com/poiesic/bookdigest/websearch"
)

const (
	// DefaultEndpoint is the HTML-only results page.
	DefaultEndpoint = "https://html.duckduckgo.com/html/"

	defaultUserAgent = "Mozilla/5.0 (compatible; bookdigest/1.0)"
)

// ErrUnexpectedStatus is returned for any non-200 response.
var ErrUnexpectedStatus = errors.New("duckduckgo: unexpected status")

// Client scrapes DuckDuckGo search results.
type Client struct {
	endpoint  string
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoint points the client at another results page, e.g. an httptest server.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient replaces the default HTTP client (20s timeout).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger. Nil keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		endpoint:  DefaultEndpoint,
		client:    &http.Client{Timeout: 20 * time.Second},
		userAgent: defaultUserAgent,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "duckduckgo")
	return c
}

// Search fetches the results page for q and returns up to q.MaxResults organic results.
func (c *Client) Search(ctx context.Context, q websearch.Query) ([]core.WebResult, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" || q.MaxResults <= 0 {
		return []core.WebResult{}, nil
	}
	region := q.Region
	if region == "" {
		region = websearch.DefaultRegion
	}

	doc, err := c.fetchDocument(ctx, text, region)
	if err != nil {
		return nil, err
	}

	results := extractResults(doc, q.MaxResults)
	c.logger.Debug("search finished", "query", text, "region", region, "results", len(results))
	return results, nil
}

func (c *Client) fetchDocument(ctx context.Context, query, region string) (*goquery.Document, error) {
	form := url.Values{}
	form.Set("q", query)
	form.Set("kl", region)
	// moderate safe search
	form.Set("kp", "-1")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

func extractResults(doc *goquery.Document, max int) []core.WebResult {
	results := make([]core.WebResult, 0, max)
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}
		link := s.Find("a.result__a").First()
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if title == "" && href == "" {
			return true
		}
		results = append(results, core.WebResult{
			Title:   title,
			URL:     resolveHref(href),
			Snippet: strings.Join(strings.Fields(s.Find(".result__snippet").First().Text()), " "),
		})
		return len(results) < max
	})
	return results
}

// resolveHref unwraps DuckDuckGo's /l/?uddg= redirect links.
func resolveHref(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" && strings.HasPrefix(u.Path, "/l/") {
		return target
	}
	return href
}

var _ websearch.Searcher = (*Client)(nil)
