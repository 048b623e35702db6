package main

import (
	"fmt"

	"github.com/mkowal/inkport"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	posts, err := deps.Posts.FindPosts(deps.Ctx, inkport.PostFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", inkport.ErrorMessage(err))
		return err
	}

	if len(posts) == 0 {
		fmt.Fprintln(deps.Stdout, "No posts found. Use 'inkport import' to load an archive.")
		return nil
	}

	for _, p := range posts {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n",
			p.ID, p.PublishedAt.Format("2006-01-02"), p.Slug, p.Title)
	}

	return nil
}
