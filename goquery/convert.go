package goquery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mkowal/inkport"
	"golang.org/x/net/html"
)

// Ensure Converter implements inkport.BlockConverter.
var _ inkport.BlockConverter = (*Converter)(nil)

// Converter converts an HTML fragment into structured blocks. It walks
// the direct children of the fragment and classifies them by tag,
// delegating inline runs to a recursive span parser.
type Converter struct {
	// PreserveFormatting keeps inline marks and links inside headings
	// and blockquotes. When false those blocks carry a single unmarked
	// span of their plain text.
	PreserveFormatting bool
}

// NewConverter creates a Converter that preserves inline formatting.
func NewConverter() *Converter {
	return &Converter{PreserveFormatting: true}
}

// Convert parses the fragment and returns the block sequence. A
// fragment with no extractable text yields an empty sequence.
func (c *Converter) Convert(fragment string) ([]inkport.Block, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, inkport.Errorf(inkport.EINVALID, "failed to parse HTML: %v", err)
	}

	container := doc.Find("body").First()
	if container.Length() == 0 {
		return []inkport.Block{}, nil
	}

	blocks := c.convertChildren(container)

	// Nothing recognizable at the top level: treat the whole container
	// as one inline run.
	if len(blocks) == 0 {
		if b, ok := c.inlineBlock(container.Nodes[0], inkport.StyleNormal, ""); ok {
			blocks = append(blocks, b)
		}
	}
	return blocks, nil
}

func (c *Converter) convertChildren(container *goquery.Selection) []inkport.Block {
	var blocks []inkport.Block

	container.Children().Each(func(_ int, sel *goquery.Selection) {
		n := sel.Nodes[0]
		switch n.Data {
		case "h1", "h2", "h3", "h4":
			if b, ok := c.headingBlock(sel, inkport.Style(n.Data)); ok {
				blocks = append(blocks, b)
			}
		case "blockquote":
			if b, ok := c.headingBlock(sel, inkport.StyleBlockquote); ok {
				blocks = append(blocks, b)
			}
		case "ul":
			blocks = append(blocks, c.listBlocks(sel, inkport.ListBullet)...)
		case "ol":
			blocks = append(blocks, c.listBlocks(sel, inkport.ListNumber)...)
		case "img":
			if b, ok := imageBlock(sel); ok {
				blocks = append(blocks, b)
			}
		case "p", "div":
			if b, ok := c.inlineBlock(n, inkport.StyleNormal, ""); ok {
				blocks = append(blocks, b)
			}
		case "pre":
			if b, ok := codeBlock(sel); ok {
				blocks = append(blocks, b)
			}
		}
	})
	return blocks
}

// headingBlock builds a heading or blockquote block. Without
// PreserveFormatting the element contributes one plain-text span.
func (c *Converter) headingBlock(sel *goquery.Selection, style inkport.Style) (inkport.Block, bool) {
	if c.PreserveFormatting {
		return c.inlineBlock(sel.Nodes[0], style, "")
	}
	text := strings.TrimSpace(sel.Text())
	if text == "" {
		return inkport.Block{}, false
	}
	return inkport.NewTextBlock(style, inkport.NewSpan(text)), true
}

// listBlocks flattens a list to one normal block per li descendant.
// Nested lists are not modeled; their items surface at the same level.
func (c *Converter) listBlocks(sel *goquery.Selection, item inkport.ListItem) []inkport.Block {
	var blocks []inkport.Block
	sel.Find("li").Each(func(_ int, li *goquery.Selection) {
		if b, ok := c.inlineBlock(li.Nodes[0], inkport.StyleNormal, item); ok {
			blocks = append(blocks, b)
		}
	})
	return blocks
}

func (c *Converter) inlineBlock(n *html.Node, style inkport.Style, item inkport.ListItem) (inkport.Block, bool) {
	spans, markDefs := parseInline(n)
	if len(spans) == 0 {
		return inkport.Block{}, false
	}
	b := inkport.NewTextBlock(style, spans...)
	b.ListItem = item
	b.MarkDefs = markDefs
	return b, true
}

func imageBlock(sel *goquery.Selection) (inkport.Block, bool) {
	src, ok := sel.Attr("src")
	if !ok || src == "" {
		src, _ = sel.Attr("data-src")
	}
	if src == "" {
		return inkport.Block{}, false
	}
	alt, _ := sel.Attr("alt")
	return inkport.Block{
		Type:  inkport.TypeImage,
		Asset: &inkport.Asset{URL: src},
		Alt:   alt,
	}, true
}

func codeBlock(sel *goquery.Selection) (inkport.Block, bool) {
	code := sel.Find("code").First()
	if code.Length() == 0 {
		return inkport.Block{}, false
	}
	text := code.Text()
	if strings.TrimSpace(text) == "" {
		return inkport.Block{}, false
	}
	return inkport.Block{
		Type:     inkport.TypeCode,
		Code:     strings.TrimRight(text, "\n"),
		Language: codeLanguage(code),
	}, true
}

// codeLanguage sniffs a language-<id> class on the code element.
func codeLanguage(code *goquery.Selection) string {
	class, _ := code.Attr("class")
	for _, c := range strings.Fields(class) {
		if lang, ok := strings.CutPrefix(c, "language-"); ok && lang != "" {
			return lang
		}
	}
	return "text"
}

// inlineState accumulates spans and link mark definitions during one
// inline parse. Link keys are scoped to the call.
type inlineState struct {
	spans    []inkport.Span
	markDefs []inkport.MarkDef
	links    int
}

// parseInline walks the subtree rooted at the element and produces the
// ordered spans and mark definitions of one text block.
func parseInline(root *html.Node) ([]inkport.Span, []inkport.MarkDef) {
	st := &inlineState{markDefs: []inkport.MarkDef{}}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		st.walk(c, nil)
	}
	return st.spans, st.markDefs
}

func (st *inlineState) walk(n *html.Node, marks []string) {
	switch n.Type {
	case html.TextNode:
		text := trimTextNode(n)
		if text == "" {
			return
		}
		st.spans = append(st.spans, inkport.NewSpan(text, marks...))

	case html.ElementNode:
		switch n.Data {
		case "strong", "b":
			marks = appendMark(marks, inkport.MarkStrong)
		case "em", "i":
			marks = appendMark(marks, inkport.MarkEm)
		case "code":
			marks = appendMark(marks, inkport.MarkCode)
		case "a":
			// An anchor without href is a plain inline container.
			if href := attrValue(n, "href"); href != "" {
				key := fmt.Sprintf("link-%d", st.links)
				st.links++
				st.markDefs = append(st.markDefs, inkport.MarkDef{
					Key:  key,
					Type: inkport.TypeLink,
					Href: href,
				})
				marks = appendMark(marks, key)
			}
		case "br":
			if n.FirstChild == nil {
				st.spans = append(st.spans, inkport.NewSpan("\n"))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			st.walk(c, marks)
		}
	}
}

// trimTextNode applies the whitespace policy: a sole child is fully
// trimmed; a first child loses leading whitespace and a last child
// trailing whitespace, except next to an anchor, where trimming would
// destroy the natural spacing around an inline link. Interior nodes are
// untouched.
func trimTextNode(n *html.Node) string {
	text := n.Data
	switch {
	case n.PrevSibling == nil && n.NextSibling == nil:
		return strings.TrimSpace(text)
	case isAnchor(n.PrevSibling) || isAnchor(n.NextSibling):
		return text
	case n.PrevSibling == nil:
		return strings.TrimLeft(text, " \t\n\r")
	case n.NextSibling == nil:
		return strings.TrimRight(text, " \t\n\r")
	default:
		return text
	}
}

func isAnchor(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == "a"
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func appendMark(marks []string, mark string) []string {
	out := make([]string, len(marks), len(marks)+1)
	copy(out, marks)
	return append(out, mark)
}
