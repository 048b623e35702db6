package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mkowal/inkport"
)

// Compile-time interface verification.
var _ inkport.PostService = (*PostService)(nil)

// PostService implements inkport.PostService using SQLite. The post
// body is persisted as its JSON block tree; key assignment is the
// caller's responsibility and happens before a post reaches the store.
type PostService struct {
	db *DB
}

// NewPostService creates a new PostService.
func NewPostService(db *DB) *PostService {
	return &PostService{db: db}
}

// CreatePost creates a new post.
func (s *PostService) CreatePost(ctx context.Context, post *inkport.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	post.ID = uuid.New().String()
	post.CreatedAt = time.Now().UTC()
	post.UpdatedAt = post.CreatedAt
	post.BodyHash = inkport.BodyHash(post.Body)
	if post.PublishedAt.IsZero() {
		post.PublishedAt = post.CreatedAt
	}

	body, err := json.Marshal(post.Body)
	if err != nil {
		return fmt.Errorf("failed to encode body: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO posts (id, slug, title, excerpt, hero_image_url, body, body_hash, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, post.ID, post.Slug, post.Title, post.Excerpt, post.HeroImageURL, string(body), post.BodyHash,
		post.PublishedAt.Format(time.RFC3339), post.CreatedAt.Format(time.RFC3339), post.UpdatedAt.Format(time.RFC3339))

	return err
}

const postColumns = "id, slug, title, excerpt, hero_image_url, body, body_hash, published_at, created_at, updated_at"

// FindPostByID retrieves a post by ID.
func (s *PostService) FindPostByID(ctx context.Context, id string) (*inkport.Post, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts WHERE id = ?", id)
	return scanPost(row)
}

// FindPostBySlug retrieves a post by its slug.
func (s *PostService) FindPostBySlug(ctx context.Context, slug string) (*inkport.Post, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts WHERE slug = ?", slug)
	return scanPost(row)
}

// FindPosts retrieves posts matching the filter, newest first.
func (s *PostService) FindPosts(ctx context.Context, filter inkport.PostFilter) ([]*inkport.Post, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + postColumns + " FROM posts WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Slug != nil {
		query.WriteString(" AND slug = ?")
		args = append(args, *filter.Slug)
	}

	query.WriteString(" ORDER BY published_at DESC")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*inkport.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// UpdatePost applies a field-level patch to an existing post. A new
// body replaces the stored one wholesale and refreshes the body hash.
func (s *PostService) UpdatePost(ctx context.Context, id string, upd inkport.PostUpdate) (*inkport.Post, error) {
	post, err := s.FindPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		post.Title = *upd.Title
	}
	if upd.Excerpt != nil {
		post.Excerpt = *upd.Excerpt
	}
	if upd.HeroImageURL != nil {
		post.HeroImageURL = *upd.HeroImageURL
	}
	if upd.PublishedAt != nil {
		post.PublishedAt = upd.PublishedAt.UTC()
	}
	if upd.Body != nil {
		post.Body = upd.Body
		post.BodyHash = inkport.BodyHash(upd.Body)
	}
	post.UpdatedAt = time.Now().UTC()

	if err := post.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(post.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode body: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE posts
		SET title = ?, excerpt = ?, hero_image_url = ?, body = ?, body_hash = ?, published_at = ?, updated_at = ?
		WHERE id = ?
	`, post.Title, post.Excerpt, post.HeroImageURL, string(body), post.BodyHash,
		post.PublishedAt.Format(time.RFC3339), post.UpdatedAt.Format(time.RFC3339), id)
	if err != nil {
		return nil, err
	}

	return post, nil
}

// DeletePost permanently removes a post.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return inkport.Errorf(inkport.ENOTFOUND, "post not found")
	}
	return nil
}

// RecordRefs returns the slug/title index of all stored posts for
// record matching, newest first so the partial-match heuristic prefers
// recent posts.
func (s *PostService) RecordRefs(ctx context.Context) ([]inkport.RecordRef, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, slug, title FROM posts ORDER BY published_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []inkport.RecordRef
	for rows.Next() {
		var ref inkport.RecordRef
		if err := rows.Scan(&ref.ID, &ref.Slug, &ref.Title); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows for scanPost.
type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*inkport.Post, error) {
	var post inkport.Post
	var body, publishedAt, createdAt, updatedAt string

	err := row.Scan(&post.ID, &post.Slug, &post.Title, &post.Excerpt, &post.HeroImageURL,
		&body, &post.BodyHash, &publishedAt, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, inkport.Errorf(inkport.ENOTFOUND, "post not found")
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(body), &post.Body); err != nil {
		return nil, fmt.Errorf("failed to decode body: %w", err)
	}
	if post.PublishedAt, err = parseRFC3339(publishedAt, "published_at"); err != nil {
		return nil, err
	}
	if post.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if post.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &post, nil
}

// parseRFC3339 parses an RFC3339 formatted timestamp string.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}
