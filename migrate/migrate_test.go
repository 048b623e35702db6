package migrate_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mkowal/inkport"
	"github.com/mkowal/inkport/migrate"
	"github.com/mkowal/inkport/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passthroughPipeline wires mocks that convert every document into a
// single-paragraph body and extract metadata from the file name.
func passthroughPipeline(posts *mock.PostService) *migrate.Importer {
	return &migrate.Importer{
		Selector: &mock.ContentSelector{
			SelectContentFn: func(html string) (string, error) { return html, nil },
		},
		Converter: &mock.BlockConverter{
			ConvertFn: func(html string) ([]inkport.Block, error) {
				return []inkport.Block{inkport.NewTextBlock(inkport.StyleNormal, inkport.NewSpan(html))}, nil
			},
		},
		Extractor: &mock.MetaExtractor{
			ExtractFn: func(_, fileName string, _ inkport.DateIndex) *inkport.PostMeta {
				slug := inkport.Slugify(inkport.TitleFromFileName(fileName))
				return &inkport.PostMeta{
					Title:       inkport.TitleFromFileName(fileName),
					Slug:        slug,
					PublishedAt: time.Date(2021, 5, 8, 12, 0, 0, 0, time.UTC),
				}
			},
		},
		Posts:       posts,
		Concurrency: 2,
	}
}

func emptyStore() *mock.PostService {
	return &mock.PostService{
		RecordRefsFn: func(context.Context) ([]inkport.RecordRef, error) {
			return nil, nil
		},
	}
}

func TestImporter_ImportDocuments(t *testing.T) {
	t.Parallel()

	t.Run("creates posts for unmatched documents", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var created []*inkport.Post
		posts := emptyStore()
		posts.CreatePostFn = func(_ context.Context, post *inkport.Post) error {
			mu.Lock()
			defer mu.Unlock()
			created = append(created, post)
			return nil
		}

		im := passthroughPipeline(posts)
		docs := []inkport.ExternalDocument{
			{FileName: "first-post.html", HTML: "<p>one</p>"},
			{FileName: "second-post.html", HTML: "<p>two</p>"},
		}

		result, err := im.ImportDocuments(context.Background(), docs, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Created)
		assert.Equal(t, 0, result.Failed)
		require.Len(t, created, 2)
		for _, post := range created {
			assert.NotEmpty(t, post.Slug)
			assert.NotEmpty(t, post.Body)
			assert.NotEmpty(t, post.Body[0].Key, "keys assigned before storage")
		}
	})

	t.Run("patches a slug-matched post with a changed body", func(t *testing.T) {
		t.Parallel()

		var patchedID string
		var patch inkport.PostUpdate
		posts := &mock.PostService{
			RecordRefsFn: func(context.Context) ([]inkport.RecordRef, error) {
				return []inkport.RecordRef{{ID: "p1", Slug: "220my-post", Title: "My Post"}}, nil
			},
			FindPostByIDFn: func(_ context.Context, id string) (*inkport.Post, error) {
				return &inkport.Post{ID: id, Slug: "220my-post", Title: "My Post", BodyHash: "stale"}, nil
			},
			UpdatePostFn: func(_ context.Context, id string, upd inkport.PostUpdate) (*inkport.Post, error) {
				patchedID = id
				patch = upd
				return &inkport.Post{ID: id}, nil
			},
		}

		im := passthroughPipeline(posts)
		docs := []inkport.ExternalDocument{{FileName: "220.my-post.html", HTML: "<p>fresh</p>"}}

		result, err := im.ImportDocuments(context.Background(), docs, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, "p1", patchedID)
		require.NotEmpty(t, patch.Body)
		require.NotNil(t, patch.Title)
	})

	t.Run("skips a matched post with an identical body", func(t *testing.T) {
		t.Parallel()

		body := inkport.AssignKeys([]inkport.Block{inkport.NewTextBlock(inkport.StyleNormal, inkport.NewSpan("<p>same</p>"))})
		posts := &mock.PostService{
			RecordRefsFn: func(context.Context) ([]inkport.RecordRef, error) {
				return []inkport.RecordRef{{ID: "p1", Slug: "220my-post", Title: "My Post"}}, nil
			},
			FindPostByIDFn: func(_ context.Context, id string) (*inkport.Post, error) {
				return &inkport.Post{ID: id, BodyHash: inkport.BodyHash(body)}, nil
			},
			UpdatePostFn: func(_ context.Context, _ string, _ inkport.PostUpdate) (*inkport.Post, error) {
				t.Error("identical body must not be rewritten")
				return nil, nil
			},
		}

		im := passthroughPipeline(posts)
		// The converter wraps the raw HTML in one span, so reuse it as-is
		// to produce an identical body hash.
		docs := []inkport.ExternalDocument{{FileName: "220.my-post.html", HTML: "<p>same</p>"}}

		result, err := im.ImportDocuments(context.Background(), docs, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 0, result.Updated)
	})

	t.Run("reports partial matches for review without writing", func(t *testing.T) {
		t.Parallel()

		posts := &mock.PostService{
			RecordRefsFn: func(context.Context) ([]inkport.RecordRef, error) {
				return []inkport.RecordRef{{ID: "p1", Slug: "unrelated", Title: "Coffee rituals remote musings extended edition"}}, nil
			},
		}

		im := passthroughPipeline(posts)
		im.Extractor = &mock.MetaExtractor{
			ExtractFn: func(_, _ string, _ inkport.DateIndex) *inkport.PostMeta {
				return &inkport.PostMeta{Title: "Coffee rituals remote", Slug: "coffee-rituals-remote"}
			},
		}

		var events []migrate.ProgressEvent
		docs := []inkport.ExternalDocument{{FileName: "999.nomatch.html", HTML: "<p>x</p>"}}

		result, err := im.ImportDocuments(context.Background(), docs, nil, func(e migrate.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Review)
		assert.Equal(t, 0, result.Created)

		var review *migrate.ProgressEvent
		for i := range events {
			if events[i].Type == migrate.ProgressReview {
				review = &events[i]
			}
		}
		require.NotNil(t, review)
		assert.Equal(t, inkport.MatchPartial, review.Confidence)
		assert.Equal(t, "999.nomatch.html", review.FileName)
	})

	t.Run("counts conversion failures without aborting the run", func(t *testing.T) {
		t.Parallel()

		posts := emptyStore()
		posts.CreatePostFn = func(context.Context, *inkport.Post) error { return nil }

		im := passthroughPipeline(posts)
		im.Converter = &mock.BlockConverter{
			ConvertFn: func(html string) ([]inkport.Block, error) {
				if html == "<p>bad</p>" {
					return nil, errors.New("malformed")
				}
				return []inkport.Block{inkport.NewTextBlock(inkport.StyleNormal, inkport.NewSpan(html))}, nil
			},
		}

		docs := []inkport.ExternalDocument{
			{FileName: "good-one.html", HTML: "<p>good</p>"},
			{FileName: "bad-one.html", HTML: "<p>bad</p>"},
		}

		result, err := im.ImportDocuments(context.Background(), docs, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Created)
		assert.Equal(t, 1, result.Failed)
	})

	t.Run("emits started and finished events", func(t *testing.T) {
		t.Parallel()

		posts := emptyStore()
		posts.CreatePostFn = func(context.Context, *inkport.Post) error { return nil }

		im := passthroughPipeline(posts)
		var events []migrate.ProgressEvent

		_, err := im.ImportDocuments(context.Background(),
			[]inkport.ExternalDocument{{FileName: "a-post.html", HTML: "<p>a</p>"}},
			nil,
			func(e migrate.ProgressEvent) { events = append(events, e) })

		require.NoError(t, err)
		require.NotEmpty(t, events)
		assert.Equal(t, migrate.ProgressStarted, events[0].Type)
		assert.Equal(t, 1, events[0].Total)
		assert.Equal(t, migrate.ProgressFinished, events[len(events)-1].Type)
	})

	t.Run("returns error when the record index cannot be fetched", func(t *testing.T) {
		t.Parallel()

		posts := &mock.PostService{
			RecordRefsFn: func(context.Context) ([]inkport.RecordRef, error) {
				return nil, errors.New("store down")
			},
		}

		_, err := passthroughPipeline(posts).ImportDocuments(context.Background(), nil, nil, nil)
		require.Error(t, err)
	})
}
