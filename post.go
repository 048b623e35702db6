package inkport

import (
	"context"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Post represents one published entry of the blog: extracted metadata
// plus the structured body. The body is never mutated after persistence;
// a formatting fix is a full pipeline re-run producing a replacement
// body.
type Post struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Excerpt      string    `json:"excerpt"`
	HeroImageURL string    `json:"heroImageUrl"`
	Body         []Block   `json:"body"`
	BodyHash     string    `json:"bodyHash"`
	PublishedAt  time.Time `json:"publishedAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Validate returns an error if the post contains invalid fields.
func (p *Post) Validate() error {
	if p.Slug == "" {
		return Errorf(EINVALID, "post slug required")
	}
	if p.Title == "" {
		return Errorf(EINVALID, "post title required")
	}
	return nil
}

// BodyHash returns a stable content hash of a block sequence, used to
// skip no-op rewrites when an export is re-imported. It hashes the
// rendered markup rather than the stored JSON so freshly generated keys
// don't change the hash.
func BodyHash(blocks []Block) string {
	return strconv.FormatUint(xxhash.Sum64String(RenderHTML(blocks)), 16)
}

// PostService represents a service for managing posts in the document
// store.
type PostService interface {
	// CreatePost creates a new post. Body keys must be assigned before
	// the post is handed to the store.
	CreatePost(ctx context.Context, post *Post) error

	// FindPostByID retrieves a post by ID.
	// Returns ENOTFOUND if the post does not exist.
	FindPostByID(ctx context.Context, id string) (*Post, error)

	// FindPostBySlug retrieves a post by its slug.
	// Returns ENOTFOUND if the post does not exist.
	FindPostBySlug(ctx context.Context, slug string) (*Post, error)

	// FindPosts retrieves posts matching the filter, newest first.
	FindPosts(ctx context.Context, filter PostFilter) ([]*Post, error)

	// UpdatePost applies a field-level patch to an existing post.
	// Returns ENOTFOUND if the post does not exist.
	UpdatePost(ctx context.Context, id string, upd PostUpdate) (*Post, error)

	// DeletePost permanently removes a post.
	// Returns ENOTFOUND if the post does not exist.
	DeletePost(ctx context.Context, id string) error

	// RecordRefs returns the slug/title index of all stored posts,
	// fetched once in bulk for record matching.
	RecordRefs(ctx context.Context) ([]RecordRef, error)
}

// PostFilter represents a filter for FindPosts.
type PostFilter struct {
	ID   *string `json:"id"`
	Slug *string `json:"slug"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// PostUpdate represents fields that can be patched on a post. A nil
// field leaves the stored value untouched.
type PostUpdate struct {
	Title        *string    `json:"title"`
	Excerpt      *string    `json:"excerpt"`
	HeroImageURL *string    `json:"heroImageUrl"`
	Body         []Block    `json:"body"`
	PublishedAt  *time.Time `json:"publishedAt"`
}
