package main

import (
	"fmt"

	"github.com/mkowal/inkport"
	"github.com/mkowal/inkport/rss"
)

// Run executes the feed command.
func (c *FeedCmd) Run(deps *Dependencies) error {
	posts, err := deps.Posts.FindPosts(deps.Ctx, inkport.PostFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", inkport.ErrorMessage(err))
		return err
	}

	writer := rss.NewWriter(rss.Site{
		Title:       c.Title,
		Link:        c.Link,
		Description: c.Description,
		Language:    c.Language,
	})

	if err := writer.WriteFeed(deps.Stdout, posts); err != nil {
		fmt.Fprintf(deps.Stderr, "error writing feed: %v\n", err)
		return err
	}

	return nil
}
