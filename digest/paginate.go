// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package digest

import (
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/bookdigest/core"
)

// Page is one message worth of blocks with its plain-text fallback.
type Page struct {
	Blocks []Block
	Text   string
}

// Paginate splits blocks into ordered pages. A list of at most ceiling
// blocks is returned as a single page. Longer lists are split into pages of
// ceiling-margin blocks; a margin that leaves no room is ignored. Page
// slices share the backing array of blocks but cannot grow into each other.
func Paginate(blocks []Block, ceiling, margin int) [][]Block {
	if len(blocks) == 0 {
		return nil
	}
	if ceiling <= 0 || len(blocks) <= ceiling {
		return [][]Block{blocks[:len(blocks):len(blocks)]}
	}
	size := ceiling - margin
	if size <= 0 {
		size = ceiling
	}
	pages := make([][]Block, 0, (len(blocks)+size-1)/size)
	for start := 0; start < len(blocks); start += size {
		end := min(start+size, len(blocks))
		pages = append(pages, blocks[start:end:end])
	}
	return pages
}

// Pages renders result and splits it into pages ready for delivery.
// config: nil uses DefaultRenderConfig().
func Pages(result *core.DigestResult, config *RenderConfig) []Page {
	if config == nil {
		config = DefaultRenderConfig()
	}
	chunks := Paginate(Render(result, config), config.MaxBlocks, config.PageMargin)
	base := FallbackText(result, config.Title)
	pages := make([]Page, len(chunks))
	for i, chunk := range chunks {
		pages[i] = Page{Blocks: chunk, Text: PageText(base, i, len(chunks))}
	}
	return pages
}

// FallbackText is the plain-text summary of a digest message.
func FallbackText(result *core.DigestResult, title string) string {
	d := result.Date
	return fmt.Sprintf("%s %d/%d/%d (%d posts)", title, d.Year(), int(d.Month()), d.Day(), result.TotalCount)
}

// PageText annotates base with "(i/N)" when there is more than one page.
// index is zero-based.
func PageText(base string, index, total int) string {
	if total <= 1 {
		return base
	}
	return fmt.Sprintf("%s (%d/%d)", base, index+1, total)
}

// FailureText is the text-only message sent when a run fails.
func FailureText(title, message string) string {
	return fmt.Sprintf(":red_circle: *%s error*\n```%s```", title, message)
}

// ConsoleSummary writes a plain-text rendering of result to w.
func ConsoleSummary(w io.Writer, result *core.DigestResult, title string) error {
	rule := strings.Repeat("=", 60)
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", rule)
	fmt.Fprintf(&b, "📚 %s (%s)\n", title, result.Date.Format("2006/01/02"))
	fmt.Fprintf(&b, "Total: %d\n", result.TotalCount)
	fmt.Fprintf(&b, "%s\n", rule)
	for _, rec := range result.Records {
		fmt.Fprintf(&b, "\n[%s][%s] @%s\n", rec.Tier, rec.Category, rec.Record.AuthorUsername)
		fmt.Fprintf(&b, "  Summary: %s\n", rec.Summary)
		if rec.EnrichmentNote != "" {
			fmt.Fprintf(&b, "  Note: %s\n", rec.EnrichmentNote)
		}
		if len(rec.Keywords) > 0 {
			fmt.Fprintf(&b, "  Keywords: %s\n", strings.Join(rec.Keywords, ", "))
		}
	}
	fmt.Fprintf(&b, "%s\n", rule)
	_, err := io.WriteString(w, b.String())
	return err
}
