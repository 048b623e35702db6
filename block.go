package inkport

import (
	"encoding/json"
	"strings"
)

// Node type discriminators used in the stored JSON shape. These field
// values (together with the _type/_key/style/listItem/children/markDefs
// key names) are a compatibility contract with content already in the
// store and must not change.
const (
	TypeBlock = "block"
	TypeImage = "image"
	TypeCode  = "code"
	TypeSpan  = "span"
	TypeLink  = "link"
)

// Style identifies the visual style of a text block.
type Style string

// Text block styles.
const (
	StyleNormal     Style = "normal"
	StyleH1         Style = "h1"
	StyleH2         Style = "h2"
	StyleH3         Style = "h3"
	StyleH4         Style = "h4"
	StyleBlockquote Style = "blockquote"
)

// ListItem identifies the list membership of a text block. Consecutive
// blocks with the same list item type form one logical list.
type ListItem string

// List item types.
const (
	ListBullet ListItem = "bullet"
	ListNumber ListItem = "number"
)

// Inline style mark names. Marks referencing a MarkDef use the
// definition's key instead.
const (
	MarkStrong = "strong"
	MarkEm     = "em"
	MarkCode   = "code"
)

// Block is one structural unit of a document body. It is a tagged union
// over Type: "block" uses Style/ListItem/Children/MarkDefs, "image" uses
// Asset/Alt, "code" uses Code/Language/Filename.
type Block struct {
	Type     string
	Key      string
	Style    Style
	ListItem ListItem
	Children []Span
	MarkDefs []MarkDef

	Asset *Asset
	Alt   string

	Code     string
	Language string
	Filename string
}

// Span is one run of inline text sharing the same formatting marks.
type Span struct {
	Type  string   `json:"_type"`
	Key   string   `json:"_key,omitempty"`
	Text  string   `json:"text"`
	Marks []string `json:"marks"`
}

// MarkDef is the out-of-line record holding a link's target URL,
// referenced by key from one or more spans in the owning block.
type MarkDef struct {
	Key  string `json:"_key"`
	Type string `json:"_type"`
	Href string `json:"href,omitempty"`
}

// Asset references an image either by store asset reference or by the
// temporary source URL captured during import.
type Asset struct {
	Ref string `json:"_ref,omitempty"`
	URL string `json:"url,omitempty"`
}

// NewTextBlock returns a text block with the given style and spans.
func NewTextBlock(style Style, children ...Span) Block {
	if children == nil {
		children = []Span{}
	}
	return Block{Type: TypeBlock, Style: style, Children: children, MarkDefs: []MarkDef{}}
}

// NewSpan returns a span with the given text and marks.
func NewSpan(text string, marks ...string) Span {
	if marks == nil {
		marks = []string{}
	}
	return Span{Type: TypeSpan, Text: text, Marks: marks}
}

// IsText reports whether the block is a text block.
func (b *Block) IsText() bool { return b.Type == TypeBlock }

// PlainText concatenates all span text in a text block.
func (b *Block) PlainText() string {
	var sb strings.Builder
	for _, c := range b.Children {
		sb.WriteString(c.Text)
	}
	return sb.String()
}

// PlainText concatenates the plain text of all text blocks, separated by
// single spaces. Image and code blocks contribute nothing.
func PlainText(blocks []Block) string {
	parts := make([]string, 0, len(blocks))
	for i := range blocks {
		if !blocks[i].IsText() {
			continue
		}
		if t := blocks[i].PlainText(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// textBlockJSON is the wire shape of a text block. Children and MarkDefs
// are always emitted, matching existing stored content.
type textBlockJSON struct {
	Type     string    `json:"_type"`
	Key      string    `json:"_key,omitempty"`
	Style    Style     `json:"style"`
	ListItem ListItem  `json:"listItem,omitempty"`
	Children []Span    `json:"children"`
	MarkDefs []MarkDef `json:"markDefs"`
}

type imageBlockJSON struct {
	Type  string `json:"_type"`
	Key   string `json:"_key,omitempty"`
	Asset *Asset `json:"asset,omitempty"`
	Alt   string `json:"alt,omitempty"`
}

type codeBlockJSON struct {
	Type     string `json:"_type"`
	Key      string `json:"_key,omitempty"`
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
	Filename string `json:"filename,omitempty"`
}

type blockJSON struct {
	Type     string    `json:"_type"`
	Key      string    `json:"_key"`
	Style    Style     `json:"style"`
	ListItem ListItem  `json:"listItem"`
	Children []Span    `json:"children"`
	MarkDefs []MarkDef `json:"markDefs"`
	Asset    *Asset    `json:"asset"`
	Alt      string    `json:"alt"`
	Code     string    `json:"code"`
	Language string    `json:"language"`
	Filename string    `json:"filename"`
}

// MarshalJSON emits only the fields meaningful for the block's variant.
func (b Block) MarshalJSON() ([]byte, error) {
	switch b.Type {
	case TypeImage:
		return json.Marshal(imageBlockJSON{Type: b.Type, Key: b.Key, Asset: b.Asset, Alt: b.Alt})
	case TypeCode:
		return json.Marshal(codeBlockJSON{Type: b.Type, Key: b.Key, Code: b.Code, Language: b.Language, Filename: b.Filename})
	default:
		children := b.Children
		if children == nil {
			children = []Span{}
		}
		markDefs := b.MarkDefs
		if markDefs == nil {
			markDefs = []MarkDef{}
		}
		return json.Marshal(textBlockJSON{
			Type:     b.Type,
			Key:      b.Key,
			Style:    b.Style,
			ListItem: b.ListItem,
			Children: children,
			MarkDefs: markDefs,
		})
	}
}

// UnmarshalJSON accepts any block variant.
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw blockJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = Block{
		Type:     raw.Type,
		Key:      raw.Key,
		Style:    raw.Style,
		ListItem: raw.ListItem,
		Children: raw.Children,
		MarkDefs: raw.MarkDefs,
		Asset:    raw.Asset,
		Alt:      raw.Alt,
		Code:     raw.Code,
		Language: raw.Language,
		Filename: raw.Filename,
	}
	return nil
}

// MarkKind discriminates the Mark variant.
type MarkKind int

// Mark variants.
const (
	MarkKindStyle MarkKind = iota
	MarkKindLink
)

// Mark is the normalized form of a span mark reference: either an inline
// style (strong, em, code) or a resolved link definition. Normalizing
// once at ingestion removes the dual string-or-object branching that
// documents from older pipeline versions would otherwise force on every
// consumer.
type Mark struct {
	Kind  MarkKind
	Style string   // set for MarkKindStyle
	Def   *MarkDef // set for MarkKindLink
}

// ResolveMarks normalizes a span's raw mark references against the
// owning block's mark definitions. Two historical key shapes resolve
// identically: legacy "link-<n>" keys and opaque keys are both looked up
// in markDefs and accepted when the definition's type is "link".
// Unresolvable references are dropped.
func ResolveMarks(span Span, markDefs []MarkDef) []Mark {
	marks := make([]Mark, 0, len(span.Marks))
	for _, raw := range span.Marks {
		if def := findMarkDef(markDefs, raw); def != nil && def.Type == TypeLink {
			marks = append(marks, Mark{Kind: MarkKindLink, Def: def})
			continue
		}
		switch raw {
		case MarkStrong, MarkEm, MarkCode:
			marks = append(marks, Mark{Kind: MarkKindStyle, Style: raw})
		}
	}
	return marks
}

func findMarkDef(defs []MarkDef, key string) *MarkDef {
	for i := range defs {
		if defs[i].Key == key {
			return &defs[i]
		}
	}
	return nil
}
