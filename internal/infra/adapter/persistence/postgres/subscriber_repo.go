package postgres

import (
	"context"
	"fmt"

	"privatelives/internal/repository"
)

type SubscriberRepo struct{ conn Conn }

func NewSubscriberRepo(conn Conn) repository.SubscriberRepository {
	return &SubscriberRepo{conn: conn}
}

// Insert relies on ON CONFLICT so that a repeated address is a no-op, not an error.
func (repo *SubscriberRepo) Insert(ctx context.Context, email string) (bool, error) {
	db, err := repo.conn.DB(ctx)
	if err != nil {
		return false, fmt.Errorf("Insert: %w", err)
	}

	const query = `
INSERT INTO newsletter_subscribers (email)
VALUES ($1)
ON CONFLICT (email) DO NOTHING`
	res, err := db.ExecContext(ctx, query, email)
	if err != nil {
		return false, fmt.Errorf("Insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Insert: rows affected: %w", err)
	}
	return n == 1, nil
}
