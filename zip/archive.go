// Package zip reads Substack export archives: post HTML entries plus
// the bundled posts.csv date index.
package zip

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/mkowal/inkport"
)

// Archive is an opened export archive.
type Archive struct {
	rc *zip.ReadCloser
}

// OpenArchive opens the export archive at the given path.
func OpenArchive(archivePath string) (*Archive, error) {
	rc, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return &Archive{rc: rc}, nil
}

// Close closes the underlying archive.
func (a *Archive) Close() error {
	return a.rc.Close()
}

// Documents returns every post HTML entry of the archive. The file name
// is the entry's base name, which carries the post id and slug used for
// record matching and date lookup.
func (a *Archive) Documents() ([]inkport.ExternalDocument, error) {
	var docs []inkport.ExternalDocument
	for _, f := range a.rc.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, ".html") {
			continue
		}
		html, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		docs = append(docs, inkport.ExternalDocument{
			FileName: path.Base(f.Name),
			HTML:     html,
		})
	}
	return docs, nil
}

// Dates parses the bundled posts.csv into a date index. An archive
// without a posts.csv yields an empty index.
func (a *Archive) Dates() (inkport.DateIndex, error) {
	for _, f := range a.rc.File {
		if f.FileInfo().IsDir() || path.Base(f.Name) != "posts.csv" {
			continue
		}
		r, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		defer r.Close()
		return inkport.ParseDateIndex(r)
	}
	return inkport.DateIndex{}, nil
}

func readEntry(f *zip.File) (string, error) {
	r, err := f.Open()
	if err != nil {
		return "", err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
