package inkport

// ContentSelector locates the content area of a source document and
// returns it as an HTML fragment for block conversion. A single
// injected selector replaces per-call throwaway parsers and lets tests
// substitute a lightweight fake.
type ContentSelector interface {
	// SelectContent returns the most specific content-area fragment of
	// the document, falling back to the whole body.
	SelectContent(html string) (string, error)
}

// BlockConverter converts an HTML fragment into structured blocks.
type BlockConverter interface {
	// Convert walks the direct children of the fragment's container and
	// returns typed content blocks. A fragment with no recognizable
	// block structure yields at most one normal text block; a fragment
	// with no extractable text yields an empty sequence, never an error.
	Convert(html string) ([]Block, error)
}

// MarkdownConverter converts rendered HTML into Markdown, used for the
// plain-text alternative of newsletter email bodies.
type MarkdownConverter interface {
	Convert(html string) (string, error)
}
