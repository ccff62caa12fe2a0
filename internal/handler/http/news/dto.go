package news

import (
	"time"

	"privatelives/internal/domain/entity"
)

// DTO is the JSON shape of a news post.
type DTO struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	Slug      string    `json:"slug"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toDTO(p *entity.NewsPost) DTO {
	return DTO{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		ImageURL:  p.ImageURL,
		Slug:      p.Slug,
		Published: p.Published,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type createRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	ImageURL  string `json:"imageUrl"`
	Published bool   `json:"published"`
}

// updateRequest uses pointers so that omitted fields keep their stored value.
type updateRequest struct {
	ID        *int64  `json:"id"`
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	ImageURL  *string `json:"imageUrl"`
	Published *bool   `json:"published"`
}
