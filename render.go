package inkport

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// RenderHTML renders a stored block sequence back into an HTML fragment
// suitable for CDATA embedding in RSS content or email bodies.
// Consecutive list item blocks of the same type are wrapped in one
// ul/ol; a type change or a non-list block closes the open list. Blocks
// with no renderable content emit nothing.
func RenderHTML(blocks []Block) string {
	var sb strings.Builder
	var openList ListItem

	closeList := func() {
		switch openList {
		case ListBullet:
			sb.WriteString("</ul>")
		case ListNumber:
			sb.WriteString("</ol>")
		}
		openList = ""
	}

	for i := range blocks {
		b := &blocks[i]
		switch b.Type {
		case TypeImage:
			src := imageURL(b)
			if src == "" {
				continue
			}
			closeList()
			sb.WriteString(`<img src="` + escapeAttr(src) + `" alt="` + escapeAttr(b.Alt) + `"/>`)

		case TypeCode:
			if b.Code == "" {
				continue
			}
			closeList()
			lang := b.Language
			if lang == "" {
				lang = "text"
			}
			sb.WriteString(`<pre><code class="language-` + escapeAttr(lang) + `">`)
			sb.WriteString(escapeCode(b.Code))
			sb.WriteString("</code></pre>")

		case TypeBlock:
			inner := renderSpans(b)
			if inner == "" {
				continue
			}
			if b.ListItem != "" {
				if openList != b.ListItem {
					closeList()
					if b.ListItem == ListNumber {
						sb.WriteString("<ol>")
					} else {
						sb.WriteString("<ul>")
					}
					openList = b.ListItem
				}
				sb.WriteString("<li>" + inner + "</li>")
				continue
			}
			closeList()
			tag := styleTag(b.Style)
			sb.WriteString("<" + tag + ">" + inner + "</" + tag + ">")
		}
	}
	closeList()

	return sb.String()
}

// RenderPlainText renders a block sequence with formatting marks
// stripped. Links survive as literal anchor tags so description fields
// keep their targets after XML escaping. Text blocks are separated by
// blank lines; image and code blocks are dropped.
func RenderPlainText(blocks []Block) string {
	var parts []string
	for i := range blocks {
		b := &blocks[i]
		if !b.IsText() {
			continue
		}
		var sb strings.Builder
		for _, span := range b.Children {
			if span.Text == "" {
				continue
			}
			if href, ok := spanLink(span, b.MarkDefs); ok {
				sb.WriteString(`<a href="` + href + `">` + span.Text + `</a>`)
			} else {
				sb.WriteString(span.Text)
			}
		}
		if sb.Len() > 0 {
			parts = append(parts, sb.String())
		}
	}
	return strings.Join(parts, "\n\n")
}

// RenderExcerpt renders plain text truncated to at most limit bytes
/// without ending inside an open tag: it prefers cutting at the last
// complete closing anchor before the limit, otherwise hard-truncates at
// a rune boundary and appends an ellipsis.
func RenderExcerpt(blocks []Block, limit int) string {
	s := RenderPlainText(blocks)
	if limit <= 0 || len(s) <= limit {
		return s
	}
	if i := strings.LastIndex(s[:limit], "</a>"); i >= 0 {
		return s[:i+len("</a>")]
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit] + "…"
}

func styleTag(style Style) string {
	switch style {
	case StyleH1, StyleH2, StyleH3, StyleH4:
		return string(style)
	case StyleBlockquote:
		return "blockquote"
	default:
		return "p"
	}
}

// renderSpans renders a text block's children: escaped text, style
// wraps applied in mark order, and the link anchor outermost so style
// tags nest inside it.
func renderSpans(b *Block) string {
	var sb strings.Builder
	for _, span := range b.Children {
		if span.Text == "" {
			continue
		}
		text := escapeText(span.Text)

		var link *MarkDef
		for _, mark := range ResolveMarks(span, b.MarkDefs) {
			switch mark.Kind {
			case MarkKindStyle:
				text = "<" + mark.Style + ">" + text + "</" + mark.Style + ">"
			case MarkKindLink:
				if link == nil {
					link = mark.Def
				}
			}
		}
		if link != nil {
			if href, ok := sanitizeHref(link.Href); ok {
				text = `<a href="` + escapeAttr(href) + `">` + text + `</a>`
			}
		}
		sb.WriteString(text)
	}
	return sb.String()
}

func spanLink(span Span, markDefs []MarkDef) (string, bool) {
	for _, mark := range ResolveMarks(span, markDefs) {
		if mark.Kind == MarkKindLink {
			return sanitizeHref(mark.Def.Href)
		}
	}
	return "", false
}

// sanitizeHref validates a link target before emission. Absolute
// http(s) URLs need a dotted host; site-relative, fragment, and mailto
// targets pass as-is; a schemeless target gets https:// prepended and is
// re-checked. Anything else is rejected and renders unlinked.
func sanitizeHref(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	if strings.HasPrefix(href, "/") || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") {
		return href, true
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	switch u.Scheme {
	case "http", "https":
		if hostHasDomain(u.Host) {
			return href, true
		}
		return "", false
	case "":
		candidate := "https://" + href
		if cu, err := url.Parse(candidate); err == nil && hostHasDomain(cu.Host) {
			return candidate, true
		}
	}
	return "", false
}

func hostHasDomain(host string) bool {
	return host != "" && strings.Contains(host, ".")
}

func imageURL(b *Block) string {
	if b.Asset == nil {
		return ""
	}
	return b.Asset.URL
}

// escapeText escapes span text for markup embedding: ampersands that do
// not already start an entity, and the CDATA terminator.
func escapeText(s string) string {
	if !strings.ContainsAny(s, "&]<>") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '&':
			if entityAt(s, i) {
				sb.WriteByte(c)
			} else {
				sb.WriteString("&amp;")
			}
		case ']':
			if strings.HasPrefix(s[i:], "]]>") {
				sb.WriteString("]]&gt;")
				i += 2
			} else {
				sb.WriteByte(c)
			}
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// entityAt reports whether s[i:] starts with a complete character
// entity such as &amp; or &#8217;.
func entityAt(s string, i int) bool {
	rest := s[i+1:]
	end := strings.IndexByte(rest, ';')
	if end <= 0 || end > 10 {
		return false
	}
	for _, r := range rest[:end] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '#':
		default:
			return false
		}
	}
	return true
}

func escapeCode(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func escapeAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", `"`, "&quot;", "<", "&lt;")
	return r.Replace(s)
}
