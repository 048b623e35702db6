package main

import (
	"fmt"

	"github.com/mkowal/inkport"
	"github.com/mkowal/inkport/fs"
	"github.com/mkowal/inkport/htmltomarkdown"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	posts, err := deps.Posts.FindPosts(deps.Ctx, inkport.PostFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", inkport.ErrorMessage(err))
		return err
	}

	if len(posts) == 0 {
		fmt.Fprintln(deps.Stdout, "No posts to export.")
		return nil
	}

	store := fs.NewExportStore(c.Dir, c.Name, htmltomarkdown.NewConverter())
	for _, post := range posts {
		if err := store.Save(deps.Ctx, post); err != nil {
			_ = store.Abort()
			fmt.Fprintf(deps.Stderr, "error exporting %s: %v\n", post.Slug, err)
			return err
		}
	}

	if err := store.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d posts to %s/%s\n", len(posts), c.Dir, c.Name)
	return nil
}
