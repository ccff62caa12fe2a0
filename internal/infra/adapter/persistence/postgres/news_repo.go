// Package postgres implements the repository ports on top of database/sql with the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"privatelives/internal/domain/entity"
	"privatelives/internal/repository"
)

// Conn hands out the shared pool. *db.Provider satisfies it.
type Conn interface {
	DB(ctx context.Context) (*sql.DB, error)
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type NewsRepo struct{ conn Conn }

func NewNewsRepo(conn Conn) repository.NewsRepository {
	return &NewsRepo{conn: conn}
}

const newsColumns = `id, title, content, image_url, slug, published, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNews(row rowScanner) (*entity.NewsPost, error) {
	var post entity.NewsPost
	var imageURL sql.NullString
	if err := row.Scan(&post.ID, &post.Title, &post.Content, &imageURL, &post.Slug,
		&post.Published, &post.CreatedAt, &post.UpdatedAt); err != nil {
		return nil, err
	}
	post.ImageURL = imageURL.String
	return &post, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (repo *NewsRepo) List(ctx context.Context, publishedOnly bool) ([]*entity.NewsPost, error) {
	db, err := repo.conn.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}

	query := `SELECT ` + newsColumns + `
FROM news_posts
ORDER BY created_at DESC`
	if publishedOnly {
		query = `SELECT ` + newsColumns + `
FROM news_posts
WHERE published = TRUE
ORDER BY created_at DESC`
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	posts := make([]*entity.NewsPost, 0, 20)
	for rows.Next() {
		post, err := scanNews(rows)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (repo *NewsRepo) Get(ctx context.Context, id int64) (*entity.NewsPost, error) {
	return repo.getOne(ctx, "Get", `SELECT `+newsColumns+`
FROM news_posts
WHERE id = $1
LIMIT 1`, id)
}

func (repo *NewsRepo) GetBySlug(ctx context.Context, slug string) (*entity.NewsPost, error) {
	return repo.getOne(ctx, "GetBySlug", `SELECT `+newsColumns+`
FROM news_posts
WHERE slug = $1
LIMIT 1`, slug)
}

func (repo *NewsRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.NewsPost, error) {
	db, err := repo.conn.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	post, err := scanNews(db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return post, nil
}

func (repo *NewsRepo) Create(ctx context.Context, post *entity.NewsPost) error {
	db, err := repo.conn.DB(ctx)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}

	const query = `
INSERT INTO news_posts (title, content, image_url, slug, published)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, updated_at`
	err = db.QueryRowContext(ctx, query,
		post.Title, post.Content, nullable(post.ImageURL), post.Slug, post.Published,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("Create: %w", repository.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *NewsRepo) Update(ctx context.Context, post *entity.NewsPost) (bool, error) {
	db, err := repo.conn.DB(ctx)
	if err != nil {
		return false, fmt.Errorf("Update: %w", err)
	}

	const query = `
UPDATE news_posts SET
       title      = $1,
       content    = $2,
       image_url  = $3,
       slug       = $4,
       published  = $5,
       updated_at = now()
WHERE id = $6
RETURNING created_at, updated_at`
	err = db.QueryRowContext(ctx, query,
		post.Title, post.Content, nullable(post.ImageURL), post.Slug, post.Published, post.ID,
	).Scan(&post.CreatedAt, &post.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if isUniqueViolation(err) {
		return false, fmt.Errorf("Update: %w", repository.ErrDuplicate)
	}
	if err != nil {
		return false, fmt.Errorf("Update: %w", err)
	}
	return true, nil
}
