package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/hitoshi/taskdeck/internal/model"
)

func newUserRepoMock(t *testing.T) (*PostgresUserRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return NewPostgresUserRepo(db), mock, func() { db.Close() }
}

func userRow(u *model.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "name", "password_hash", "created_at", "updated_at"}).
		AddRow(u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
}

func sampleUser() *model.User {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &model.User{
		ID:           "user-1",
		Email:        "taro@example.com",
		Name:         "Taro",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestPostgresUserRepo_FindByID_Found(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	want := sampleUser()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, name, password_hash, created_at, updated_at FROM users WHERE id = $1`)).
		WithArgs("user-1").
		WillReturnRows(userRow(want))

	got, err := repo.FindByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got == nil || got.Email != want.Email {
		t.Errorf("unexpected user: %+v", got)
	}
}

func TestPostgresUserRepo_FindByID_NotFound(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, name, password_hash, created_at, updated_at FROM users WHERE id = $1`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.FindByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("FindByID should not fail for a missing row: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing user, got %+v", got)
	}
}

func TestPostgresUserRepo_FindByEmail_NotFound(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, name, password_hash, created_at, updated_at FROM users WHERE email = $1`)).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("FindByEmail should not fail for a missing row: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing user, got %+v", got)
	}
}

func TestPostgresUserRepo_Create(t *testing.T) {
	repo, mock, cleanup := newUserRepoMock(t)
	defer cleanup()

	u := sampleUser()
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt, u.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
