package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"privatelives/internal/infra/adapter/persistence/postgres"
	"privatelives/internal/infra/db"
)

func TestSubscriberRepo_Insert(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "new address", affected: 1, want: true},
		{name: "existing address is a no-op", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sqlDB, mock, err := sqlmock.New()
			if err != nil {
				t.Fatal(err)
			}
			defer func() { _ = sqlDB.Close() }()

			mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (email) DO NOTHING`)).
				WithArgs("a@b.com").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			repo := postgres.NewSubscriberRepo(db.Static(sqlDB))
			got, err := repo.Insert(context.Background(), "a@b.com")
			if err != nil {
				t.Fatalf("Insert err=%v", err)
			}
			if got != tt.want {
				t.Errorf("Insert = %v, want %v", got, tt.want)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestSubscriberRepo_Insert_Error(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = sqlDB.Close() }()

	mock.ExpectExec(`INSERT INTO newsletter_subscribers`).WillReturnError(errors.New("connection reset"))

	repo := postgres.NewSubscriberRepo(db.Static(sqlDB))
	if _, err := repo.Insert(context.Background(), "a@b.com"); err == nil {
		t.Fatal("expected error")
	}
}
