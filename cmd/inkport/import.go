package main

import (
	"fmt"

	"github.com/mkowal/inkport"
	"github.com/mkowal/inkport/migrate"
	"github.com/mkowal/inkport/zip"
)

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	archive, err := zip.OpenArchive(c.Archive)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", inkport.ErrorMessage(err))
		return err
	}
	defer archive.Close()

	docs, err := archive.Documents()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", inkport.ErrorMessage(err))
		return err
	}

	dates, err := archive.Dates()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", inkport.ErrorMessage(err))
		return err
	}

	progress := func(event migrate.ProgressEvent) {
		switch event.Type {
		case migrate.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Found %d posts\n", event.Total)
		case migrate.ProgressReview:
			fmt.Fprintf(deps.Stdout, "  review %s: %s match, not applied\n", event.FileName, event.Confidence)
		case migrate.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.FileName, event.Error)
		}
	}

	result, err := deps.Importer.ImportDocuments(deps.Ctx, docs, dates, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error importing: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "  Created %d, updated %d, skipped %d, review %d, failed %d\n",
		result.Created, result.Updated, result.Skipped, result.Review, result.Failed)

	return nil
}
