// Package inkport converts offline blog exports (Substack-style HTML
// archives) into trees of typed content blocks, matches them against
// existing records in a local document store, and renders stored
// documents back to HTML and XML for RSS and email output.
//
// This package contains domain types, interfaces, and the pure tree
// transforms (key assignment, rendering, record matching) following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., goquery/,
// sqlite/, rss/).
package inkport
