package inkport

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AssignKeys fills in the _key of every block, span, and mark definition
// that lacks one. Nodes that already carry a key are left untouched, so
// re-running on already-keyed input changes nothing. The slice is
// mutated in place and returned for convenience.
//
// Keys only need to be collision-resistant within one document; a
// timestamp prefix plus a random suffix is sufficient.
func AssignKeys(blocks []Block) []Block {
	for i := range blocks {
		b := &blocks[i]
		if b.Key == "" {
			b.Key = newKey()
		}
		for j := range b.Children {
			if b.Children[j].Key == "" {
				b.Children[j].Key = newKey()
			}
		}
		for j := range b.MarkDefs {
			if b.MarkDefs[j].Key == "" {
				b.MarkDefs[j].Key = newKey()
			}
		}
	}
	return blocks
}

func newKey() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + suffix
}
