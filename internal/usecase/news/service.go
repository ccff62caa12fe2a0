package news

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"privatelives/internal/domain/entity"
	"privatelives/internal/observability/metrics"
	"privatelives/internal/repository"
)

// CreateInput represents the input parameters for creating a news post.
// The slug is always derived from Title.
type CreateInput struct {
	Title     string
	Content   string
	ImageURL  string
	Published bool
}

// UpdateInput represents the input parameters for updating a news post.
// Fields with nil values keep their stored value.
type UpdateInput struct {
	ID        int64
	Title     *string
	Content   *string
	ImageURL  *string
	Published *bool
}

// Service provides news post use cases.
type Service struct {
	Repo repository.NewsRepository
}

// List returns posts newest first. Drafts are included only when includeUnpublished is set.
func (s *Service) List(ctx context.Context, includeUnpublished bool) ([]*entity.NewsPost, error) {
	posts, err := s.Repo.List(ctx, !includeUnpublished)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return posts, nil
}

// Get retrieves a post by ID.
// Returns ErrInvalidID if the ID is not positive and ErrNotFound if the post is
// missing or hidden from the caller.
func (s *Service) Get(ctx context.Context, id int64, includeUnpublished bool) (*entity.NewsPost, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	post, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get news: %w", err)
	}
	return visible(post, includeUnpublished)
}

// GetBySlug retrieves a post by slug with the same visibility rules as Get.
func (s *Service) GetBySlug(ctx context.Context, slug string, includeUnpublished bool) (*entity.NewsPost, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrNotFound
	}
	post, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get news by slug: %w", err)
	}
	return visible(post, includeUnpublished)
}

func visible(post *entity.NewsPost, includeUnpublished bool) (*entity.NewsPost, error) {
	if post == nil || (!post.Published && !includeUnpublished) {
		return nil, ErrNotFound
	}
	return post, nil
}

// Create validates the input, derives the slug and stores a new post.
// Returns a ValidationError for bad input and ErrDuplicateSlug when the slug is taken.
func (s *Service) Create(ctx context.Context, in CreateInput) (post *entity.NewsPost, err error) {
	defer func() { metrics.RecordNewsWrite("create", err) }()

	slug, err := entity.ValidateNewsTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, &entity.ValidationError{Field: "content", Message: "is required"}
	}
	imageURL := strings.TrimSpace(in.ImageURL)
	if err := entity.ValidateImageURL(imageURL); err != nil {
		return nil, err
	}

	post = &entity.NewsPost{
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		ImageURL:  imageURL,
		Slug:      slug,
		Published: in.Published,
	}
	if err := s.Repo.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("create news: %w", err)
	}
	return post, nil
}

// Update applies the non-nil fields of in to the stored post. A changed title
// re-derives the slug.
// Returns ErrInvalidID, ErrNotFound, ErrDuplicateSlug or a ValidationError.
func (s *Service) Update(ctx context.Context, in UpdateInput) (post *entity.NewsPost, err error) {
	defer func() { metrics.RecordNewsWrite("update", err) }()

	if in.ID <= 0 {
		return nil, ErrInvalidID
	}

	post, err = s.Repo.Get(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("get news: %w", err)
	}
	if post == nil {
		return nil, ErrNotFound
	}

	if in.Title != nil {
		slug, err := entity.ValidateNewsTitle(*in.Title)
		if err != nil {
			return nil, err
		}
		post.Title = strings.TrimSpace(*in.Title)
		post.Slug = slug
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, &entity.ValidationError{Field: "content", Message: "cannot be empty"}
		}
		post.Content = *in.Content
	}
	if in.ImageURL != nil {
		imageURL := strings.TrimSpace(*in.ImageURL)
		if err := entity.ValidateImageURL(imageURL); err != nil {
			return nil, err
		}
		post.ImageURL = imageURL
	}
	if in.Published != nil {
		post.Published = *in.Published
	}

	ok, err := s.Repo.Update(ctx, post)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("update news: %w", err)
	}
	// deleted between the read and the write
	if !ok {
		return nil, ErrNotFound
	}
	return post, nil
}
