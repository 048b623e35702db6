package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mkowal/inkport"
)

// Ensure LoggingPostService implements inkport.PostService.
var _ inkport.PostService = (*LoggingPostService)(nil)

// LoggingPostService wraps a PostService with write-path logging. Read
// operations pass through unlogged; a migration run reads far more
// often than it writes.
type LoggingPostService struct {
	next   inkport.PostService
	logger *slog.Logger
}

// NewLoggingPostService creates a new LoggingPostService.
func NewLoggingPostService(next inkport.PostService, logger *slog.Logger) *LoggingPostService {
	return &LoggingPostService{next: next, logger: logger}
}

// CreatePost delegates to the wrapped service and logs the operation.
func (s *LoggingPostService) CreatePost(ctx context.Context, post *inkport.Post) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create post",
			"slug", post.Slug,
			"blocks", len(post.Body),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreatePost(ctx, post)
}

func (s *LoggingPostService) FindPostByID(ctx context.Context, id string) (*inkport.Post, error) {
	return s.next.FindPostByID(ctx, id)
}

func (s *LoggingPostService) FindPostBySlug(ctx context.Context, slug string) (*inkport.Post, error) {
	return s.next.FindPostBySlug(ctx, slug)
}

func (s *LoggingPostService) FindPosts(ctx context.Context, filter inkport.PostFilter) ([]*inkport.Post, error) {
	return s.next.FindPosts(ctx, filter)
}

// UpdatePost delegates to the wrapped service and logs the operation.
func (s *LoggingPostService) UpdatePost(ctx context.Context, id string, upd inkport.PostUpdate) (post *inkport.Post, err error) {
	defer func(begin time.Time) {
		s.logger.Info("update post",
			"id", id,
			"body", upd.Body != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpdatePost(ctx, id, upd)
}

// DeletePost delegates to the wrapped service and logs the operation.
func (s *LoggingPostService) DeletePost(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete post",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeletePost(ctx, id)
}

func (s *LoggingPostService) RecordRefs(ctx context.Context) ([]inkport.RecordRef, error) {
	return s.next.RecordRefs(ctx)
}
