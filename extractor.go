package inkport

import (
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// ExternalDocument is one file of an export archive: the raw HTML of a
// post plus the name it was archived under. It is consumed once by the
// extraction and conversion pipeline and then discarded.
type ExternalDocument struct {
	FileName string
	HTML     string
}

// PostMeta holds the metadata extracted from an external document. Every
// field is guaranteed non-zero: extraction never fails, it falls back.
type PostMeta struct {
	Title        string
	Slug         string
	PublishedAt  time.Time
	Excerpt      string
	HeroImageURL string
}

// MetaExtractor pulls post metadata out of raw export HTML using a
// prioritized cascade of structured-data sources (meta tags, JSON-LD,
// element selectors, filename heuristics). Implementations never fail;
// every field has a defined fallback.
type MetaExtractor interface {
	Extract(html, fileName string, dates DateIndex) *PostMeta
}

// DefaultTitle is the last-resort title when no source yields one.
const DefaultTitle = "Untitled Post"

var (
	titlePrefixRE = regexp.MustCompile(`^[\d\s.,_\-#:;]+`)
	slugStripRE   = regexp.MustCompile(`[^\w-]`)
	hyphenRunRE   = regexp.MustCompile(`-{2,}`)
	whitespaceRE  = regexp.MustCompile(`\s+`)
)

// CleanTitle normalizes a resolved title: strips the leading run of
// digits and punctuation that export systems prefix (numeric post IDs),
// de-slugs titles that carry no spaces, and sentence-cases the result.
// Casing is apostrophe-safe: "it's" stays "it's", never "It'S".
func CleanTitle(title string) string {
	title = strings.TrimSpace(title)
	title = titlePrefixRE.ReplaceAllString(title, "")
	if title == "" {
		return DefaultTitle
	}

	// A title with separators but no spaces is a slug in disguise.
	if !strings.ContainsAny(title, " \t") && strings.ContainsAny(title, "-_") {
		title = strings.NewReplacer("-", " ", "_", " ").Replace(title)
	}

	words := strings.Fields(title)
	for i, w := range words {
		if i == 0 {
			words[i] = capitalize(w)
		} else {
			words[i] = strings.ToLower(w)
		}
	}
	return strings.Join(words, " ")
}

// TitleFromFileName derives a human-readable title from an export
// filename: URL-decode, drop the extension, replace separators with
// spaces, and title-case each word.
func TitleFromFileName(fileName string) string {
	base := fileBase(fileName)
	if decoded, err := url.QueryUnescape(base); err == nil {
		base = decoded
	}
	base = strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(base)
	words := strings.Fields(base)
	if len(words) == 0 {
		return ""
	}
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// Slugify converts a title to a URL slug: lowercase, whitespace to
// single hyphens, word characters and hyphens only, no repeated or
// dangling hyphens.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = whitespaceRE.ReplaceAllString(s, "-")
	s = slugStripRE.ReplaceAllString(s, "")
	s = hyphenRunRE.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}
