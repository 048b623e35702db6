package inkport

import (
	"bufio"
	"encoding/csv"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// NormalizeDate parses a date string of unknown provenance into a
// canonical UTC instant. It accepts Unix timestamps (10 digits =
// seconds, 13 digits = milliseconds), ISO strings, and the common
// textual formats handled by dateparse.
func NormalizeDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, Errorf(EINVALID, "empty date string")
	}

	if isDigits(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, Errorf(EINVALID, "invalid numeric date %q", s)
		}
		switch len(s) {
		case 10:
			return time.Unix(n, 0).UTC(), nil
		case 13:
			return time.UnixMilli(n).UTC(), nil
		default:
			return time.Time{}, Errorf(EINVALID, "numeric date %q is not a unix timestamp", s)
		}
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, Errorf(EINVALID, "unparseable date %q", s)
	}
	return t.UTC(), nil
}

// DateIndex maps export post identifiers to publish times. It is built
// once from the companion CSV of an export archive and consulted by
// filename during metadata extraction.
type DateIndex map[string]time.Time

// ParseDateIndex reads postId,publishDate rows. Both comma- and
// pipe-delimited files are accepted; quoting follows CSV rules. Rows
// with an unparseable date are skipped rather than failing the import.
func ParseDateIndex(r io.Reader) (DateIndex, error) {
	br := bufio.NewReader(r)
	delim, err := sniffDelimiter(br)
	if err != nil {
		return nil, Errorf(EINVALID, "reading date index: %v", err)
	}

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.FieldsPerRecord = -1

	idx := make(DateIndex)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, Errorf(EINVALID, "reading date index: %v", err)
		}
		if len(record) < 2 {
			continue
		}
		id := strings.TrimSpace(record[0])
		if id == "" || strings.EqualFold(id, "post_id") || strings.EqualFold(id, "postid") {
			continue
		}
		t, err := NormalizeDate(record[1])
		if err != nil {
			continue
		}
		idx[id] = t
	}
	return idx, nil
}

// sniffDelimiter peeks at the first line to decide between comma and
// pipe separation.
func sniffDelimiter(br *bufio.Reader) (rune, error) {
	peek, err := br.Peek(512)
	if err != nil && err != io.EOF {
		return 0, err
	}
	line := string(peek)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, "|") > strings.Count(line, ",") {
		return '|', nil
	}
	return ',', nil
}

var (
	leadingDigitsRE = regexp.MustCompile(`^\d+[._-]*`)
	compositeKeyRE  = regexp.MustCompile(`^(\d+)[._-](.+)$`)
)

// Lookup resolves a publish time for an export filename. The index is
// tried with the bare file base, the base with leading digits stripped,
// and the "digits.rest" composite shape used by some export systems.
func (idx DateIndex) Lookup(fileName string) (time.Time, bool) {
	base := fileBase(fileName)
	if base == "" {
		return time.Time{}, false
	}

	for _, key := range dateIndexKeys(base) {
		if t, ok := idx[key]; ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func dateIndexKeys(base string) []string {
	keys := []string{base}
	if stripped := leadingDigitsRE.ReplaceAllString(base, ""); stripped != "" && stripped != base {
		keys = append(keys, stripped)
	}
	if m := compositeKeyRE.FindStringSubmatch(base); m != nil {
		keys = append(keys, m[1]+"."+m[2])
	}
	return keys
}

func fileBase(fileName string) string {
	base := filepath.Base(fileName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
