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

func TestListingRepository_Create_Conflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPgListingRepository(db)

	mock.ExpectExec("INSERT INTO listings").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "listings_pkey"})

	err = repo.Create(context.Background(), &model.Listing{ListingID: 7, DriverUsername: "dave", Day: "Monday", Price: 10})
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("Create: got %v, want ErrConflict", err)
	}
}

func TestListingRepository_FindByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPgListingRepository(db)

	mock.ExpectQuery("SELECT listingid, driver_username, day, price, created_at").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"listingid"}))

	_, err = repo.FindByID(context.Background(), 99)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("FindByID: got %v, want ErrNotFound", err)
	}
}

func TestListingRepository_SearchByDay(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPgListingRepository(db)

	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"listingid", "driver_username", "day", "price", "created_at"}).
		AddRow(int64(3), "dave", "Monday", 9.5, created).
		AddRow(int64(8), "erin", "Monday", 12.0, created)

	mock.ExpectQuery("SELECT listingid, driver_username, day, price, created_at").
		WithArgs("Monday").
		WillReturnRows(rows)

	listings, err := repo.SearchByDay(context.Background(), "Monday")
	if err != nil {
		t.Fatalf("SearchByDay: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2", len(listings))
	}
	if listings[0].ListingID != 3 || listings[1].ListingID != 8 {
		t.Fatalf("listings out of order: %+v", listings)
	}
}

func TestListingRepository_Delete_Absent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPgListingRepository(db)

	mock.ExpectExec("DELETE FROM listings").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 42); err != nil {
		t.Fatalf("Delete of absent listing should succeed, got %v", err)
	}
}
