package news_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privatelives/internal/domain/entity"
	"privatelives/internal/repository"
	newsUC "privatelives/internal/usecase/news"
)

/* ───────── stub ───────── */

// in-memory NewsRepository
type stubRepo struct {
	data    map[int64]*entity.NewsPost
	nextID  int64
	err     error
	writes  int
	lastPub bool
}

func newStub(posts ...*entity.NewsPost) *stubRepo {
	s := &stubRepo{data: map[int64]*entity.NewsPost{}, nextID: 1}
	for _, p := range posts {
		s.data[p.ID] = p
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	return s
}

func (s *stubRepo) List(_ context.Context, publishedOnly bool) ([]*entity.NewsPost, error) {
	s.lastPub = publishedOnly
	if s.err != nil {
		return nil, s.err
	}
	var out []*entity.NewsPost
	for _, p := range s.data {
		if publishedOnly && !p.Published {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *stubRepo) Get(_ context.Context, id int64) (*entity.NewsPost, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *stubRepo) GetBySlug(_ context.Context, slug string) (*entity.NewsPost, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.data {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) slugTaken(slug string, except int64) bool {
	for _, p := range s.data {
		if p.Slug == slug && p.ID != except {
			return true
		}
	}
	return false
}

func (s *stubRepo) Create(_ context.Context, p *entity.NewsPost) error {
	if s.err != nil {
		return s.err
	}
	if s.slugTaken(p.Slug, 0) {
		return repository.ErrDuplicate
	}
	s.writes++
	p.ID = s.nextID
	s.nextID++
	p.CreatedAt, p.UpdatedAt = time.Now(), time.Now()
	cp := *p
	s.data[p.ID] = &cp
	return nil
}

func (s *stubRepo) Update(_ context.Context, p *entity.NewsPost) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if _, ok := s.data[p.ID]; !ok {
		return false, nil
	}
	if s.slugTaken(p.Slug, p.ID) {
		return false, repository.ErrDuplicate
	}
	s.writes++
	cp := *p
	s.data[p.ID] = &cp
	return true, nil
}

func ptr[T any](v T) *T { return &v }

/* ───────── List / Get ───────── */

func TestService_List_Visibility(t *testing.T) {
	repo := newStub(
		&entity.NewsPost{ID: 1, Title: "Live", Slug: "live", Published: true},
		&entity.NewsPost{ID: 2, Title: "Draft", Slug: "draft"},
	)
	svc := newsUC.Service{Repo: repo}

	public, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, public, 1)
	assert.True(t, repo.lastPub)

	all, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.False(t, repo.lastPub)
}

func TestService_Get(t *testing.T) {
	repo := newStub(
		&entity.NewsPost{ID: 1, Slug: "live", Published: true},
		&entity.NewsPost{ID: 2, Slug: "draft"},
	)
	svc := newsUC.Service{Repo: repo}
	ctx := context.Background()

	tests := []struct {
		name    string
		id      int64
		admin   bool
		wantErr error
	}{
		{"published", 1, false, nil},
		{"draft hidden from public", 2, false, newsUC.ErrNotFound},
		{"draft visible to admin", 2, true, nil},
		{"missing", 9, true, newsUC.ErrNotFound},
		{"invalid id", 0, true, newsUC.ErrInvalidID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Get(ctx, tt.id, tt.admin)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, got.ID)
		})
	}
}

func TestService_GetBySlug(t *testing.T) {
	repo := newStub(&entity.NewsPost{ID: 1, Slug: "draft"})
	svc := newsUC.Service{Repo: repo}

	_, err := svc.GetBySlug(context.Background(), "draft", false)
	assert.ErrorIs(t, err, newsUC.ErrNotFound)

	got, err := svc.GetBySlug(context.Background(), " draft ", true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)

	_, err = svc.GetBySlug(context.Background(), "", true)
	assert.ErrorIs(t, err, newsUC.ErrNotFound)
}

func TestService_RepoError(t *testing.T) {
	repo := newStub()
	repo.err = errors.New("db down")
	svc := newsUC.Service{Repo: repo}

	_, err := svc.List(context.Background(), false)
	assert.ErrorContains(t, err, "db down")
	_, err = svc.Get(context.Background(), 1, true)
	assert.ErrorContains(t, err, "db down")
}

/* ───────── Create ───────── */

func TestService_Create(t *testing.T) {
	repo := newStub()
	svc := newsUC.Service{Repo: repo}

	post, err := svc.Create(context.Background(), newsUC.CreateInput{
		Title:     "  Ljeto u Sarajevu  ",
		Content:   "Body",
		ImageURL:  "https://img.example/a.png",
		Published: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.ID)
	assert.Equal(t, "Ljeto u Sarajevu", post.Title)
	assert.Equal(t, "ljeto-u-sarajevu", post.Slug)
	assert.True(t, post.Published)
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		in    newsUC.CreateInput
		field string
	}{
		{"missing title", newsUC.CreateInput{Content: "x"}, "title"},
		{"symbol title", newsUC.CreateInput{Title: "!!!", Content: "x"}, "title"},
		{"missing content", newsUC.CreateInput{Title: "T"}, "content"},
		{"bad image", newsUC.CreateInput{Title: "T", Content: "x", ImageURL: "javascript:alert(1)"}, "imageUrl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newStub()
			_, err := (&newsUC.Service{Repo: repo}).Create(context.Background(), tt.in)

			var ve *entity.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Zero(t, repo.writes)
		})
	}
}

func TestService_Create_DuplicateSlug(t *testing.T) {
	repo := newStub(&entity.NewsPost{ID: 1, Title: "Hello", Slug: "hello"})
	svc := newsUC.Service{Repo: repo}

	_, err := svc.Create(context.Background(), newsUC.CreateInput{Title: "HELLO!", Content: "x"})
	assert.ErrorIs(t, err, newsUC.ErrDuplicateSlug)
}

/* ───────── Update ───────── */

func TestService_Update_Partial(t *testing.T) {
	repo := newStub(&entity.NewsPost{
		ID: 1, Title: "Old", Content: "Old body", ImageURL: "https://img/a.png", Slug: "old",
	})
	svc := newsUC.Service{Repo: repo}

	got, err := svc.Update(context.Background(), newsUC.UpdateInput{ID: 1, Published: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Old", got.Title)
	assert.Equal(t, "Old body", got.Content)
	assert.Equal(t, "https://img/a.png", got.ImageURL)
	assert.Equal(t, "old", got.Slug)
	assert.True(t, got.Published)
}

func TestService_Update_TitleReslugs(t *testing.T) {
	repo := newStub(&entity.NewsPost{ID: 1, Title: "Old", Content: "c", Slug: "old"})
	svc := newsUC.Service{Repo: repo}

	got, err := svc.Update(context.Background(), newsUC.UpdateInput{ID: 1, Title: ptr("Šta ima novo")})
	require.NoError(t, err)
	assert.Equal(t, "sta-ima-novo", got.Slug)
	assert.Equal(t, "sta-ima-novo", repo.data[1].Slug)
}

func TestService_Update_Errors(t *testing.T) {
	repo := newStub(
		&entity.NewsPost{ID: 1, Title: "A", Content: "c", Slug: "a"},
		&entity.NewsPost{ID: 2, Title: "B", Content: "c", Slug: "b"},
	)
	svc := newsUC.Service{Repo: repo}
	ctx := context.Background()

	_, err := svc.Update(ctx, newsUC.UpdateInput{ID: 0})
	assert.ErrorIs(t, err, newsUC.ErrInvalidID)

	_, err = svc.Update(ctx, newsUC.UpdateInput{ID: 42, Title: ptr("x")})
	assert.ErrorIs(t, err, newsUC.ErrNotFound)

	_, err = svc.Update(ctx, newsUC.UpdateInput{ID: 2, Title: ptr("A")})
	assert.ErrorIs(t, err, newsUC.ErrDuplicateSlug)

	_, err = svc.Update(ctx, newsUC.UpdateInput{ID: 2, Content: ptr("   ")})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	assert.Zero(t, repo.writes)
}
