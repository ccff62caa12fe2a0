// Package subscribe implements the newsletter sign-up use case.
package subscribe

import (
	"context"
	"errors"
	"fmt"

	"privatelives/internal/domain/entity"
	"privatelives/internal/observability/metrics"
	"privatelives/internal/repository"
)

// Service registers newsletter subscribers.
type Service struct {
	Repo repository.SubscriberRepository
}

// Subscribe normalizes email and stores it. isNew is false when the address was
// already subscribed; that case is not an error.
func (s *Service) Subscribe(ctx context.Context, email string) (isNew bool, err error) {
	normalized, err := entity.NormalizeEmail(email)
	if err != nil {
		metrics.RecordSubscription("invalid")
		return false, err
	}

	isNew, err = s.Repo.Insert(ctx, normalized)
	if err != nil {
		metrics.RecordSubscription("error")
		return false, fmt.Errorf("subscribe: %w", err)
	}
	if isNew {
		metrics.RecordSubscription("new")
	} else {
		metrics.RecordSubscription("existing")
	}
	return isNew, nil
}

// IsInvalidEmail reports whether err came from address validation.
func IsInvalidEmail(err error) bool {
	return errors.Is(err, entity.ErrInvalidInput)
}
