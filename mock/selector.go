package mock

import "github.com/mkowal/inkport"

var _ inkport.ContentSelector = (*ContentSelector)(nil)

// ContentSelector is a mock implementation of inkport.ContentSelector.
type ContentSelector struct {
	SelectContentFn func(html string) (string, error)
}

func (s *ContentSelector) SelectContent(html string) (string, error) {
	return s.SelectContentFn(html)
}
