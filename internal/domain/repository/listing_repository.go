package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rideshare-market/backend/internal/common"
	"github.com/rideshare-market/backend/internal/domain/model"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	FindByID(ctx context.Context, listingID int64) (*model.Listing, error)
	SearchByDay(ctx context.Context, day string) ([]model.Listing, error)
	Delete(ctx context.Context, listingID int64) error
}

type pgListingRepository struct {
	db *sql.DB
}

func NewPgListingRepository(db *sql.DB) ListingRepository {
	return &pgListingRepository{db: db}
}

func (r *pgListingRepository) Create(ctx context.Context, listing *model.Listing) error {
	query := `INSERT INTO listings (listingid, driver_username, day, price)
	          VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query,
		listing.ListingID, listing.DriverUsername, listing.Day, listing.Price,
	)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("listing id %d in use: %w", listing.ListingID, common.ErrConflict)
		}
		return fmt.Errorf("pgListingRepository.Create: %w", err)
	}
	return nil
}

func (r *pgListingRepository) FindByID(ctx context.Context, listingID int64) (*model.Listing, error) {
	query := `SELECT listingid, driver_username, day, price, created_at
	          FROM listings WHERE listingid = $1`
	listing := &model.Listing{}
	err := r.db.QueryRowContext(ctx, query, listingID).Scan(
		&listing.ListingID, &listing.DriverUsername, &listing.Day, &listing.Price, &listing.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgListingRepository.FindByID: %w", err)
	}
	return listing, nil
}

func (r *pgListingRepository) SearchByDay(ctx context.Context, day string) ([]model.Listing, error) {
	query := `SELECT listingid, driver_username, day, price, created_at
	          FROM listings WHERE day = $1 ORDER BY listingid`
	rows, err := r.db.QueryContext(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("pgListingRepository.SearchByDay: %w", err)
	}
	defer rows.Close()

	var listings []model.Listing
	for rows.Next() {
		var listing model.Listing
		if err := rows.Scan(
			&listing.ListingID, &listing.DriverUsername, &listing.Day, &listing.Price, &listing.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgListingRepository.SearchByDay scan: %w", err)
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgListingRepository.SearchByDay rows: %w", err)
	}
	return listings, nil
}

// Delete removes the listing if present. Deleting an already-absent listing
// is not an error; the reservation saga relies on that.
func (r *pgListingRepository) Delete(ctx context.Context, listingID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE listingid = $1`, listingID)
	if err != nil {
		return fmt.Errorf("pgListingRepository.Delete: %w", err)
	}
	return nil
}
