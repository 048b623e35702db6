package main

import (
	"context"
	"io"

	"github.com/mkowal/inkport"
	"github.com/mkowal/inkport/migrate"
	"github.com/mkowal/inkport/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	DB       *sqlite.DB
	Posts    inkport.PostService
	Importer *migrate.Importer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Import ImportCmd `cmd:"" help:"Import posts from an export archive"`
	Match  MatchCmd  `cmd:"" help:"Preview how archive entries match stored posts"`
	List   ListCmd   `cmd:"" help:"List stored posts"`
	Feed   FeedCmd   `cmd:"" help:"Write the RSS feed for stored posts"`
	Export ExportCmd `cmd:"" help:"Write stored posts as Markdown files"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	Archive     string  `arg:"" help:"Path to the export zip archive"`
	Concurrency int     `short:"c" default:"4" help:"Concurrent conversion limit"`
	WriteRate   float64 `short:"r" default:"0" help:"Store writes per second (0 = unpaced)"`
}

// MatchCmd is the "match" subcommand.
type MatchCmd struct {
	Archive string `arg:"" help:"Path to the export zip archive"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Limit int `short:"n" default:"0" help:"Maximum number of posts to list"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir  string `arg:"" help:"Output parent directory"`
	Name string `default:"posts" help:"Output directory name"`
}

// FeedCmd is the "feed" subcommand.
type FeedCmd struct {
	Title       string `required:"" help:"Channel title"`
	Link        string `required:"" help:"Site base URL"`
	Description string `help:"Channel description"`
	Language    string `default:"en-us" help:"Channel language"`
	Limit       int    `short:"n" default:"20" help:"Number of posts in the feed"`
}
