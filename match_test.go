package inkport_test

import (
	"testing"

	"github.com/mkowal/inkport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex() *inkport.RecordIndex {
	return inkport.NewRecordIndex([]inkport.RecordRef{
		{ID: "p1", Slug: "220my-post", Title: "My Post"},
		{ID: "p2", Slug: "coffee-rituals", Title: "Coffee rituals of remote workers"},
		{ID: "p3", Slug: "ways-to-write", Title: "5 ways to write better"},
	})
}

func TestRecordIndex_Match(t *testing.T) {
	t.Parallel()

	t.Run("filename slug matches before other strategies", func(t *testing.T) {
		t.Parallel()

		m, err := testIndex().Match("220.my-post.html", "Totally Different Title")

		require.NoError(t, err)
		assert.Equal(t, "p1", m.ID)
		assert.Equal(t, inkport.MatchSlug, m.Confidence)
	})

	t.Run("filename slug match is case-insensitive", func(t *testing.T) {
		t.Parallel()

		idx := inkport.NewRecordIndex([]inkport.RecordRef{
			{ID: "p1", Slug: "220My-Post", Title: "My Post"},
		})

		m, err := idx.Match("220.MY-POST.html", "")

		require.NoError(t, err)
		assert.Equal(t, "p1", m.ID)
	})

	t.Run("falls back to digit-stripped slug", func(t *testing.T) {
		t.Parallel()

		idx := inkport.NewRecordIndex([]inkport.RecordRef{
			{ID: "p9", Slug: "my-post", Title: "My Post"},
		})

		m, err := idx.Match("220.my-post.html", "")

		require.NoError(t, err)
		assert.Equal(t, "p9", m.ID)
		assert.Equal(t, inkport.MatchSlugStripped, m.Confidence)
	})

	t.Run("matches by normalized title", func(t *testing.T) {
		t.Parallel()

		m, err := testIndex().Match("unrelated.html", "  Coffee   Rituals of REMOTE workers ")

		require.NoError(t, err)
		assert.Equal(t, "p2", m.ID)
		assert.Equal(t, inkport.MatchTitle, m.Confidence)
	})

	t.Run("partial keyword match is surfaced as low confidence", func(t *testing.T) {
		t.Parallel()

		m, err := testIndex().Match("unrelated.html", "Coffee rituals remote musings")

		require.NoError(t, err)
		assert.Equal(t, "p2", m.ID)
		assert.Equal(t, inkport.MatchPartial, m.Confidence)
	})

	t.Run("strips a leading numeral phrase as last resort", func(t *testing.T) {
		t.Parallel()

		idx := inkport.NewRecordIndex([]inkport.RecordRef{
			{ID: "p3", Slug: "other", Title: "ways to nap better"},
		})

		m, err := idx.Match("unrelated.html", "12. Ways to nap better")

		require.NoError(t, err)
		assert.Equal(t, "p3", m.ID)
		assert.Equal(t, inkport.MatchTitleStripped, m.Confidence)
	})

	t.Run("returns ENOTFOUND on a miss", func(t *testing.T) {
		t.Parallel()

		_, err := testIndex().Match("nothing.html", "completely unknown entry")

		require.Error(t, err)
		assert.Equal(t, inkport.ENOTFOUND, inkport.ErrorCode(err))
	})
}

func TestFileNameSlug(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "220my-post", inkport.FileNameSlug("220.my-post.html"))
	assert.Equal(t, "plain-title", inkport.FileNameSlug("plain-title.html"))
	assert.Equal(t, "148862681years-ago", inkport.FileNameSlug("posts/148862681.years-ago.html"))
}
