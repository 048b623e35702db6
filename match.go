package inkport

import (
	"regexp"
	"strings"
)

// MatchConfidence identifies which strategy of the matching cascade
// produced a match. Callers can treat low-confidence matches (partial)
// as review candidates rather than applying them silently.
type MatchConfidence string

// Match confidence levels, strongest first.
const (
	MatchSlug          MatchConfidence = "slug"
	MatchSlugStripped  MatchConfidence = "slug-stripped"
	MatchTitle         MatchConfidence = "title"
	MatchPartial       MatchConfidence = "partial"
	MatchTitleStripped MatchConfidence = "title-stripped"
)

// RecordRef is one entry of the store's slug/title index.
type RecordRef struct {
	ID    string
	Slug  string
	Title string
}

// Match is a resolved record reference with the confidence of the
// strategy that found it.
type Match struct {
	ID         string
	Confidence MatchConfidence
}

// RecordIndex is an in-memory slug/title index over existing records.
// Callers build it once from a bulk fetch and reuse it across a
// migration run instead of querying the store per document.
type RecordIndex struct {
	records []RecordRef
	bySlug  map[string]string
	byTitle map[string]string
}

// NewRecordIndex builds an index over the given records. When two
// records share a slug or normalized title the earlier one wins.
func NewRecordIndex(records []RecordRef) *RecordIndex {
	idx := &RecordIndex{
		records: records,
		bySlug:  make(map[string]string, len(records)),
		byTitle: make(map[string]string, len(records)),
	}
	for _, r := range records {
		slug := strings.ToLower(r.Slug)
		if slug != "" {
			if _, ok := idx.bySlug[slug]; !ok {
				idx.bySlug[slug] = r.ID
			}
		}
		title := normalizeTitle(r.Title)
		if title != "" {
			if _, ok := idx.byTitle[title]; !ok {
				idx.byTitle[title] = r.ID
			}
		}
	}
	return idx
}

var numeralPhraseRE = regexp.MustCompile(`^\d+[\s.:\-]*`)

// Match locates the record corresponding to an external document using
// a cascade of strategies, short-circuiting on the first hit: exact
// filename-derived slug, digit-stripped slug, normalized title, partial
// keyword containment, and numeral-stripped title. A miss returns
// ENOTFOUND; it is a normal reportable outcome, not a failure.
func (idx *RecordIndex) Match(fileName, title string) (*Match, error) {
	if slug := FileNameSlug(fileName); slug != "" {
		if id, ok := idx.bySlug[slug]; ok {
			return &Match{ID: id, Confidence: MatchSlug}, nil
		}
		if stripped := strings.TrimLeft(slug, "0123456789"); stripped != "" && stripped != slug {
			if id, ok := idx.bySlug[stripped]; ok {
				return &Match{ID: id, Confidence: MatchSlugStripped}, nil
			}
		}
	}

	normalized := normalizeTitle(title)
	if normalized != "" {
		if id, ok := idx.byTitle[normalized]; ok {
			return &Match{ID: id, Confidence: MatchTitle}, nil
		}

		if keywords := meaningfulWords(normalized, 3); len(keywords) > 0 {
			for _, r := range idx.records {
				candidate := normalizeTitle(r.Title)
				if containsAll(candidate, keywords) {
					return &Match{ID: r.ID, Confidence: MatchPartial}, nil
				}
			}
		}

		if stripped := numeralPhraseRE.ReplaceAllString(normalized, ""); stripped != "" && stripped != normalized {
			if id, ok := idx.byTitle[stripped]; ok {
				return &Match{ID: id, Confidence: MatchTitleStripped}, nil
			}
		}
	}

	return nil, Errorf(ENOTFOUND, "no record matches %q", fileName)
}

// FileNameSlug derives a lookup slug from "<id>.<slug>"-style export
// filenames by concatenating the digits and the slugified remainder:
// "220.my-post.html" yields "220my-post".
func FileNameSlug(fileName string) string {
	base := fileBase(fileName)
	if base == "" {
		return ""
	}
	if m := compositeKeyRE.FindStringSubmatch(base); m != nil {
		return m[1] + Slugify(m[2])
	}
	return Slugify(base)
}

// normalizeTitle lowercases and collapses internal whitespace.
func normalizeTitle(title string) string {
	return whitespaceRE.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), " ")
}

// meaningfulWords returns up to max words that are longer than two
// characters and not purely numeric.
func meaningfulWords(s string, max int) []string {
	var words []string
	for _, w := range strings.Fields(s) {
		if len(w) <= 2 || isDigits(w) {
			continue
		}
		words = append(words, w)
		if len(words) == max {
			break
		}
	}
	return words
}

func containsAll(s string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(s, w) {
			return false
		}
	}
	return true
}
