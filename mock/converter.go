package mock

import "github.com/mkowal/inkport"

var _ inkport.BlockConverter = (*BlockConverter)(nil)

// BlockConverter is a mock implementation of inkport.BlockConverter.
type BlockConverter struct {
	ConvertFn func(html string) ([]inkport.Block, error)
}

func (c *BlockConverter) Convert(html string) ([]inkport.Block, error) {
	return c.ConvertFn(html)
}

var _ inkport.MarkdownConverter = (*MarkdownConverter)(nil)

// MarkdownConverter is a mock implementation of inkport.MarkdownConverter.
type MarkdownConverter struct {
	ConvertFn func(html string) (string, error)
}

func (c *MarkdownConverter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
