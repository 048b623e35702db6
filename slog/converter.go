// Package slog provides logging decorators around the conversion and
// storage interfaces.
package slog

import (
	"log/slog"
	"time"

	"github.com/mkowal/inkport"
)

// Ensure LoggingBlockConverter implements inkport.BlockConverter.
var _ inkport.BlockConverter = (*LoggingBlockConverter)(nil)

// LoggingBlockConverter wraps a BlockConverter with debug logging.
type LoggingBlockConverter struct {
	next   inkport.BlockConverter
	logger *slog.Logger
}

// NewLoggingBlockConverter creates a new LoggingBlockConverter.
func NewLoggingBlockConverter(next inkport.BlockConverter, logger *slog.Logger) *LoggingBlockConverter {
	return &LoggingBlockConverter{next: next, logger: logger}
}

// Convert delegates to the wrapped converter and logs the operation.
func (c *LoggingBlockConverter) Convert(html string) (blocks []inkport.Block, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("block conversion",
			"bytes", len(html),
			"blocks", len(blocks),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Convert(html)
}
