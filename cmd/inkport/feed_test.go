package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/mkowal/inkport"
	main "github.com/mkowal/inkport/cmd/inkport"
	"github.com/mkowal/inkport/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes the feed to stdout", func(t *testing.T) {
		t.Parallel()

		posts := &mock.PostService{
			FindPostsFn: func(_ context.Context, filter inkport.PostFilter) ([]*inkport.Post, error) {
				assert.Equal(t, 20, filter.Limit)
				return []*inkport.Post{{
					ID:          "post-1",
					Slug:        "hello",
					Title:       "Hello",
					Body:        []inkport.Block{inkport.NewTextBlock(inkport.StyleNormal, inkport.NewSpan("Hi."))},
					PublishedAt: time.Date(2021, 5, 8, 12, 0, 0, 0, time.UTC),
				}}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Posts:  posts,
		}

		cmd := &main.FeedCmd{Title: "Field Notes", Link: "https://fieldnotes.example.com", Limit: 20}
		err := cmd.Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, `<rss version="2.0"`)
		assert.Contains(t, output, "<title>Field Notes</title>")
		assert.Contains(t, output, "https://fieldnotes.example.com/p/hello")
	})
}
