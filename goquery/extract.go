package goquery

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mkowal/inkport"
)

// Ensure Extractor implements inkport.MetaExtractor.
var _ inkport.MetaExtractor = (*Extractor)(nil)

// Extractor pulls post metadata out of raw export HTML. Extraction
// never fails: every field resolves through a prioritized cascade and
// ends in a defined fallback.
type Extractor struct {
	now func() time.Time
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{now: time.Now}
}

// NewExtractorAt creates an Extractor with a fixed clock, used by tests
// and deterministic re-runs.
func NewExtractorAt(now func() time.Time) *Extractor {
	return &Extractor{now: now}
}

// Extract resolves title, slug, publish date, excerpt, and hero image
// for one external document.
func (e *Extractor) Extract(rawHTML, fileName string, dates inkport.DateIndex) *inkport.PostMeta {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(""))
	}

	title := e.extractTitle(doc, fileName)
	return &inkport.PostMeta{
		Title:        title,
		Slug:         inkport.Slugify(title),
		PublishedAt:  e.extractDate(doc, fileName, dates),
		Excerpt:      extractExcerpt(doc),
		HeroImageURL: extractHeroImage(doc),
	}
}

var titleMetaSelectors = []string{
	`meta[property="og:title"]`,
	`meta[name="twitter:title"]`,
	`meta[property="article:title"]`,
}

var titleElementSelectors = []string{
	"h1.post-title",
	"h1.entry-title",
	".post-title",
	"article h1",
	"h1",
	"h2",
}

func (e *Extractor) extractTitle(doc *goquery.Document, fileName string) string {
	for _, sel := range titleMetaSelectors {
		if content := metaContent(doc, sel); content != "" {
			return inkport.CleanTitle(content)
		}
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return inkport.CleanTitle(t)
	}
	for _, sel := range titleElementSelectors {
		if t := strings.TrimSpace(doc.Find(sel).First().Text()); t != "" {
			return inkport.CleanTitle(t)
		}
	}
	if t := inkport.TitleFromFileName(fileName); t != "" {
		return inkport.CleanTitle(t)
	}
	return inkport.DefaultTitle
}

var (
	fileDateRE   = regexp.MustCompile(`(20\d{2})[-_](\d{2})[-_](\d{2})`)
	fileUnixRE   = regexp.MustCompile(`^(\d{13}|\d{10})\b`)
	isoDateRE    = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	usTextDateRE = regexp.MustCompile(`\b[A-Z][a-z]+ \d{1,2}, \d{4}\b`)
	euTextDateRE = regexp.MustCompile(`\b\d{1,2} [A-Z][a-z]+ \d{4}\b`)
)

// dateSelector pairs a selector with the attribute carrying the date;
// an empty attribute means element text.
type dateSelector struct {
	selector string
	attr     string
}

var dateSelectors = []dateSelector{
	{`meta[property="article:published_time"]`, "content"},
	{`meta[name="publish-date"]`, "content"},
	{`meta[name="date"]`, "content"},
	{`time[datetime]`, "datetime"},
	{`time`, ""},
	{`[data-publish-date]`, "data-publish-date"},
	{`.post-date`, ""},
	{`.published-date`, ""},
}

func (e *Extractor) extractDate(doc *goquery.Document, fileName string, dates inkport.DateIndex) time.Time {
	if t, ok := dates.Lookup(fileName); ok {
		return t
	}
	if t, ok := e.dateFromFileName(fileName); ok {
		return t
	}
	if t, ok := dateFromJSONLD(doc); ok {
		return t
	}
	for _, ds := range dateSelectors {
		sel := doc.Find(ds.selector).First()
		if sel.Length() == 0 {
			continue
		}
		candidate := ""
		if ds.attr != "" {
			candidate, _ = sel.Attr(ds.attr)
		} else {
			candidate = sel.Text()
		}
		if t, err := inkport.NormalizeDate(candidate); err == nil {
			return t
		}
	}
	if t, ok := e.dateFromText(doc); ok {
		return t
	}
	return e.now().UTC()
}

func (e *Extractor) dateFromFileName(fileName string) (time.Time, bool) {
	base := fileName
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(base, ".html")
	if m := fileDateRE.FindStringSubmatch(base); m != nil {
		if t, err := inkport.NormalizeDate(m[1] + "-" + m[2] + "-" + m[3]); err == nil {
			return t, true
		}
	}
	if m := fileUnixRE.FindString(base); m != "" {
		if t, err := inkport.NormalizeDate(m); err == nil && t.Year() >= 2000 && t.Year() <= 2100 {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateFromJSONLD reads datePublished from embedded JSON-LD, accepting a
// scalar value or the first element of an array.
func dateFromJSONLD(doc *goquery.Document) (time.Time, bool) {
	var found time.Time
	var ok bool
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var payload any
		if err := json.Unmarshal([]byte(sel.Text()), &payload); err != nil {
			return true
		}
		if t, hit := datePublishedIn(payload); hit {
			found, ok = t, true
			return false
		}
		return true
	})
	return found, ok
}

func datePublishedIn(payload any) (time.Time, bool) {
	switch v := payload.(type) {
	case map[string]any:
		if raw, present := v["datePublished"]; present {
			if t, ok := scalarDate(raw); ok {
				return t, true
			}
		}
		if graph, present := v["@graph"]; present {
			return datePublishedIn(graph)
		}
	case []any:
		for _, item := range v {
			if t, ok := datePublishedIn(item); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func scalarDate(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case string:
		if t, err := inkport.NormalizeDate(v); err == nil {
			return t, true
		}
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				if t, err := inkport.NormalizeDate(s); err == nil {
					return t, true
				}
			}
		}
	}
	return time.Time{}, false
}

// dateFromText scans the visible document text for date-shaped strings,
// accepting the first whose parsed value is plausible.
func (e *Extractor) dateFromText(doc *goquery.Document) (time.Time, bool) {
	text := doc.Text()
	for _, re := range []*regexp.Regexp{isoDateRE, usTextDateRE, euTextDateRE} {
		for _, m := range re.FindAllString(text, 5) {
			t, err := inkport.NormalizeDate(m)
			if err != nil {
				continue
			}
			if t.Year() >= 2000 && !t.After(e.now()) {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

var excerptSelectors = []string{
	`.subtitle`,
	`.post-excerpt`,
	`.excerpt`,
}

func extractExcerpt(doc *goquery.Document) string {
	if c := metaContent(doc, `meta[name="description"]`); c != "" {
		return c
	}
	if c := metaContent(doc, `meta[property="og:description"]`); c != "" {
		return c
	}
	for _, sel := range excerptSelectors {
		if t := strings.TrimSpace(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	body := strings.TrimSpace(doc.Find("body").Text())
	body = strings.Join(strings.Fields(body), " ")
	return truncateRunes(body, 200)
}

func extractHeroImage(doc *goquery.Document) string {
	if c := metaContent(doc, `meta[property="og:image"]`); c != "" {
		return c
	}
	if c := metaContent(doc, `meta[name="twitter:image"]`); c != "" {
		return c
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return src
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
