// Package trafilatura provides a content-area selector backed by
// go-trafilatura's boilerplate removal. It is the last resort of the
// selection cascade, for export documents with no recognizable
// content-area markup.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/mkowal/inkport"
	"golang.org/x/net/html"
)

// Ensure Selector implements inkport.ContentSelector at compile time.
var _ inkport.ContentSelector = (*Selector)(nil)

// Selector wraps go-trafilatura to locate the main content of HTML.
type Selector struct{}

// NewSelector creates a new Selector.
func NewSelector() *Selector {
	return &Selector{}
}

// SelectContent extracts the main content area and returns it as HTML.
func (s *Selector) SelectContent(rawHTML string) (string, error) {
	if rawHTML == "" {
		return "", inkport.Errorf(inkport.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return "", err
	}

	if result.ContentNode == nil {
		return "", nil
	}
	return renderNode(result.ContentNode)
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
