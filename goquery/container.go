// Package goquery provides goquery-based implementations of the HTML
// extraction and conversion services: content-area selection, metadata
// extraction, and block conversion.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mkowal/inkport"
)

// SelectorConfig defines a CSS selector for a content area with a
// source label for diagnostics.
type SelectorConfig struct {
	Selector string
	Source   string
}

// DefaultContentSelectors returns the content-area cascade, most
// specific first. The Substack export selectors lead because that is
// the archive shape this tool imports; the generic article/main
// selectors cover other export systems.
func DefaultContentSelectors() []SelectorConfig {
	return []SelectorConfig{
		{Selector: ".available-content .body.markup", Source: "substack"},
		{Selector: ".body.markup", Source: "substack"},
		{Selector: "article .post-content", Source: "generic"},
		{Selector: ".post-content", Source: "generic"},
		{Selector: ".entry-content", Source: "wordpress"},
		{Selector: "article", Source: "generic"},
		{Selector: "main", Source: "generic"},
	}
}

// Ensure ContentSelector implements inkport.ContentSelector.
var _ inkport.ContentSelector = (*ContentSelector)(nil)

// ContentSelector locates the content area of a source document by
// trying a prioritized selector cascade, falling back to the document
// body, and finally to an optional secondary selector (e.g. the
// trafilatura extractor) when the document has no recognizable shape.
type ContentSelector struct {
	configs  []SelectorConfig
	fallback inkport.ContentSelector
}

// NewContentSelector creates a ContentSelector with the default
// cascade. The fallback may be nil.
func NewContentSelector(fallback inkport.ContentSelector) *ContentSelector {
	return &ContentSelector{configs: DefaultContentSelectors(), fallback: fallback}
}

// SelectContent returns the inner HTML of the most specific non-empty
// content area.
func (s *ContentSelector) SelectContent(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", inkport.Errorf(inkport.EINVALID, "failed to parse HTML: %v", err)
	}

	for _, cfg := range s.configs {
		sel := doc.Find(cfg.Selector).First()
		if sel.Length() == 0 || strings.TrimSpace(sel.Text()) == "" {
			continue
		}
		return sel.Html()
	}

	body := doc.Find("body").First()
	if strings.TrimSpace(body.Text()) != "" {
		return body.Html()
	}

	if s.fallback != nil {
		return s.fallback.SelectContent(rawHTML)
	}
	return "", nil
}
