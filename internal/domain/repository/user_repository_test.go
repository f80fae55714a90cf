package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rideshare-market/backend/internal/common"
	"github.com/rideshare-market/backend/internal/domain/model"
)

func TestUserRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPgUserRepository(db)

	user := &model.User{
		ID:           "3f6c2a1e-0000-0000-0000-000000000001",
		FirstName:    "Alice",
		LastName:     "Smith",
		Username:     "alice",
		EmailAddress: "alice@example.com",
		PassHash:     "deadbeef",
		Salt:         "salty",
		IsDriver:     false,
	}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.FirstName, user.LastName, user.Username,
			user.EmailAddress, user.PassHash, user.Salt, user.IsDriver).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUserRepository_Create_UniqueViolations(t *testing.T) {
	cases := []struct {
		name       string
		constraint string
		want       error
	}{
		{"duplicate username", "users_username_key", common.ErrUsernameTaken},
		{"duplicate email", "users_email_address_key", common.ErrEmailTaken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock: %v", err)
			}
			defer db.Close()
			repo := NewPgUserRepository(db)

			mock.ExpectExec("INSERT INTO users").
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tc.constraint})

			err = repo.Create(context.Background(), &model.User{Username: "alice"})
			if !errors.Is(err, tc.want) {
				t.Fatalf("Create: got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestUserRepository_FindByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPgUserRepository(db)

	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "username", "email_address",
		"pass_hash", "salt", "is_driver", "created_at",
	}).AddRow("id-1", "Alice", "Smith", "alice", "alice@example.com", "deadbeef", "salty", true, created)

	mock.ExpectQuery("SELECT id, first_name, last_name, username, email_address, pass_hash, salt, is_driver, created_at").
		WithArgs("alice").
		WillReturnRows(rows)

	user, err := repo.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if user.Username != "alice" || !user.IsDriver || user.PassHash != "deadbeef" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestUserRepository_FindByUsername_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPgUserRepository(db)

	mock.ExpectQuery("SELECT id, first_name, last_name, username").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.FindByUsername(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("FindByUsername: got %v, want ErrNotFound", err)
	}
}

func TestUserRepository_AverageRating_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPgUserRepository(db)

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))

	avg, err := repo.AverageRating(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("AverageRating: %v", err)
	}
	if avg != 0 {
		t.Fatalf("AverageRating = %v, want 0", avg)
	}
}

func TestUserRepository_AddRating(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPgUserRepository(db)

	mock.ExpectExec("INSERT INTO ratings").
		WithArgs("rater-1", "rated-1", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.AddRating(context.Background(), "rater-1", "rated-1", 4); err != nil {
		t.Fatalf("AddRating: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
