package mock

import "github.com/mkowal/inkport"

var _ inkport.MetaExtractor = (*MetaExtractor)(nil)

// MetaExtractor is a mock implementation of inkport.MetaExtractor.
type MetaExtractor struct {
	ExtractFn func(html, fileName string, dates inkport.DateIndex) *inkport.PostMeta
}

func (e *MetaExtractor) Extract(html, fileName string, dates inkport.DateIndex) *inkport.PostMeta {
	return e.ExtractFn(html, fileName, dates)
}
