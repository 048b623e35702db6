// Package fs writes posts as Markdown files with YAML frontmatter.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkowal/inkport"
)

// ExportStore writes a Markdown rendition of every post with atomic
// update semantics. Files are saved to a temporary directory, then
// moved into place on Commit.
type ExportStore struct {
	baseDir  string
	name     string
	markdown inkport.MarkdownConverter
}

// NewExportStore creates a new ExportStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewExportStore(baseDir, name string, markdown inkport.MarkdownConverter) *ExportStore {
	return &ExportStore{
		baseDir:  baseDir,
		name:     name,
		markdown: markdown,
	}
}

func (s *ExportStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *ExportStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes one post as <slug>.md in the temporary directory.
func (s *ExportStore) Save(ctx context.Context, post *inkport.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	markdown, err := s.markdown.Convert(inkport.RenderHTML(post.Body))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), post.Slug+".md")
	return os.WriteFile(fullPath, []byte(FormatPost(post, markdown)), 0644)
}

// FormatPost formats a post with YAML frontmatter.
func FormatPost(post *inkport.Post, markdown string) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: ")
	b.WriteString(post.Title)
	b.WriteString("\nslug: ")
	b.WriteString(post.Slug)
	b.WriteString("\ndate: ")
	b.WriteString(post.PublishedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(markdown)
	return b.String()
}

// Commit atomically replaces the final directory with the temporary one.
func (s *ExportStore) Commit() error {
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the temporary directory.
func (s *ExportStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
