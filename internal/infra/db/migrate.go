package db

import (
	"context"
	"database/sql"
)

// schema is applied in order on every pool open. Each statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS news_posts (
    id          SERIAL PRIMARY KEY,
    title       TEXT NOT NULL,
    content     TEXT NOT NULL DEFAULT '',
    image_url   TEXT,
    slug        TEXT NOT NULL UNIQUE,
    published   BOOLEAN NOT NULL DEFAULT FALSE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS idx_news_posts_published_created
    ON news_posts(published, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS newsletter_subscribers (
    id          SERIAL PRIMARY KEY,
    email       TEXT NOT NULL UNIQUE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
}

// MigrateUp creates the news and newsletter tables if they do not exist.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown drops the tables created by MigrateUp. All data is lost.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	for _, stmt := range []string{
		`DROP TABLE IF EXISTS newsletter_subscribers`,
		`DROP TABLE IF EXISTS news_posts`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
