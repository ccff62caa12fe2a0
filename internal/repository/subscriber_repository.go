package repository

import (
	"context"
	"errors"
)

// ErrDuplicate is returned when a unique constraint rejects a write.
var ErrDuplicate = errors.New("duplicate key")

// SubscriberRepository persists newsletter subscriptions.
type SubscriberRepository interface {
	// Insert adds email and reports whether a new row was created.
	// An existing email is not an error: it returns (false, nil).
	Insert(ctx context.Context, email string) (bool, error)
}
