// Package repository declares the persistence ports used by the use cases.
// Implementations live under internal/infra/adapter/persistence.
package repository

import (
	"context"

	"privatelives/internal/domain/entity"
)

// NewsRepository persists news posts.
//
// Get and GetBySlug return (nil, nil) when no row matches.
// Create and Update return ErrDuplicate when the slug is already taken.
type NewsRepository interface {
	// List returns posts ordered by created_at DESC. With publishedOnly set,
	// unpublished rows are excluded.
	List(ctx context.Context, publishedOnly bool) ([]*entity.NewsPost, error)
	Get(ctx context.Context, id int64) (*entity.NewsPost, error)
	GetBySlug(ctx context.Context, slug string) (*entity.NewsPost, error)
	// Create inserts the post and fills in ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, post *entity.NewsPost) error
	// Update overwrites every mutable column and refreshes UpdatedAt.
	// It returns (false, nil) when the ID does not exist.
	Update(ctx context.Context, post *entity.NewsPost) (bool, error)
}
