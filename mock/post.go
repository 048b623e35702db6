package mock

import (
	"context"

	"github.com/mkowal/inkport"
)

var _ inkport.PostService = (*PostService)(nil)

// PostService is a mock implementation of inkport.PostService.
type PostService struct {
	CreatePostFn     func(ctx context.Context, post *inkport.Post) error
	FindPostByIDFn   func(ctx context.Context, id string) (*inkport.Post, error)
	FindPostBySlugFn func(ctx context.Context, slug string) (*inkport.Post, error)
	FindPostsFn      func(ctx context.Context, filter inkport.PostFilter) ([]*inkport.Post, error)
	UpdatePostFn     func(ctx context.Context, id string, upd inkport.PostUpdate) (*inkport.Post, error)
	DeletePostFn     func(ctx context.Context, id string) error
	RecordRefsFn     func(ctx context.Context) ([]inkport.RecordRef, error)
}

func (s *PostService) CreatePost(ctx context.Context, post *inkport.Post) error {
	return s.CreatePostFn(ctx, post)
}

func (s *PostService) FindPostByID(ctx context.Context, id string) (*inkport.Post, error) {
	return s.FindPostByIDFn(ctx, id)
}

func (s *PostService) FindPostBySlug(ctx context.Context, slug string) (*inkport.Post, error) {
	return s.FindPostBySlugFn(ctx, slug)
}

func (s *PostService) FindPosts(ctx context.Context, filter inkport.PostFilter) ([]*inkport.Post, error) {
	return s.FindPostsFn(ctx, filter)
}

func (s *PostService) UpdatePost(ctx context.Context, id string, upd inkport.PostUpdate) (*inkport.Post, error) {
	return s.UpdatePostFn(ctx, id, upd)
}

func (s *PostService) DeletePost(ctx context.Context, id string) error {
	return s.DeletePostFn(ctx, id)
}

func (s *PostService) RecordRefs(ctx context.Context) ([]inkport.RecordRef, error) {
	return s.RecordRefsFn(ctx)
}
