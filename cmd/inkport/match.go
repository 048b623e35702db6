package main

import (
	"fmt"

	"github.com/mkowal/inkport"
	"github.com/mkowal/inkport/zip"
)

// Run executes the match command. It reports how each archive entry
// would be reconciled without writing anything.
func (c *MatchCmd) Run(deps *Dependencies) error {
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

	refs, err := deps.Posts.RecordRefs(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", inkport.ErrorMessage(err))
		return err
	}
	index := inkport.NewRecordIndex(refs)

	for _, doc := range docs {
		meta := deps.Importer.Extractor.Extract(doc.HTML, doc.FileName, dates)
		match, err := index.Match(doc.FileName, meta.Title)
		if err != nil {
			fmt.Fprintf(deps.Stdout, "%-40s  new\n", doc.FileName)
			continue
		}
		fmt.Fprintf(deps.Stdout, "%-40s  %s (%s)\n", doc.FileName, match.ID, match.Confidence)
	}

	return nil
}
