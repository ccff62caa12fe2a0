package subscribe_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privatelives/internal/usecase/subscribe"
)

type memRepo struct {
	emails map[string]bool
	err    error
	calls  int
}

func (m *memRepo) Insert(_ context.Context, email string) (bool, error) {
	m.calls++
	if m.err != nil {
		return false, m.err
	}
	if m.emails[email] {
		return false, nil
	}
	m.emails[email] = true
	return true, nil
}

func TestSubscribe_Twice(t *testing.T) {
	repo := &memRepo{emails: map[string]bool{}}
	svc := subscribe.Service{Repo: repo}

	isNew, err := svc.Subscribe(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = svc.Subscribe(context.Background(), "  A@B.com ")
	require.NoError(t, err)
	assert.False(t, isNew)
}

func TestSubscribe_InvalidEmail(t *testing.T) {
	for _, email := range []string{"", "nope", "a@b", "Name <a@b.com>"} {
		t.Run(email, func(t *testing.T) {
			repo := &memRepo{emails: map[string]bool{}}
			_, err := (&subscribe.Service{Repo: repo}).Subscribe(context.Background(), email)

			assert.True(t, subscribe.IsInvalidEmail(err))
			assert.Zero(t, repo.calls)
		})
	}
}

func TestSubscribe_RepoError(t *testing.T) {
	repo := &memRepo{emails: map[string]bool{}, err: errors.New("db down")}
	_, err := (&subscribe.Service{Repo: repo}).Subscribe(context.Background(), "a@b.com")

	require.Error(t, err)
	assert.False(t, subscribe.IsInvalidEmail(err))
}
