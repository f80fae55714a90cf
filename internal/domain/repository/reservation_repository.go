package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rideshare-market/backend/internal/common"
	"github.com/rideshare-market/backend/internal/domain/model"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	LatestForPassenger(ctx context.Context, username string) (*model.Reservation, error)
	LatestForDriver(ctx context.Context, username string) (*model.Reservation, error)
	PairExists(ctx context.Context, a, b string) (bool, error)
}

type pgReservationRepository struct {
	db *sql.DB
}

func NewPgReservationRepository(db *sql.DB) ReservationRepository {
	return &pgReservationRepository{db: db}
}

func (r *pgReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	query := `INSERT INTO reservations (id, listingid, passenger_username, driver_username, price)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query,
		reservation.ID, reservation.ListingID,
		reservation.PassengerUsername, reservation.DriverUsername, reservation.Price,
	)
	if err != nil {
		return fmt.Errorf("pgReservationRepository.Create: %w", err)
	}
	return nil
}

func (r *pgReservationRepository) LatestForPassenger(ctx context.Context, username string) (*model.Reservation, error) {
	query := `SELECT id, listingid, passenger_username, driver_username, price, created_at
	          FROM reservations WHERE passenger_username = $1
	          ORDER BY created_at DESC, id DESC LIMIT 1`
	return r.scanOne(ctx, query, username)
}

func (r *pgReservationRepository) LatestForDriver(ctx context.Context, username string) (*model.Reservation, error) {
	query := `SELECT id, listingid, passenger_username, driver_username, price, created_at
	          FROM reservations WHERE driver_username = $1
	          ORDER BY created_at DESC, id DESC LIMIT 1`
	return r.scanOne(ctx, query, username)
}

func (r *pgReservationRepository) scanOne(ctx context.Context, query, username string) (*model.Reservation, error) {
	reservation := &model.Reservation{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&reservation.ID, &reservation.ListingID,
		&reservation.PassengerUsername, &reservation.DriverUsername,
		&reservation.Price, &reservation.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgReservationRepository latest: %w", err)
	}
	return reservation, nil
}

// PairExists reports whether any reservation links the two users, in either
// role combination. Rating eligibility depends on this order-independent
// match.
func (r *pgReservationRepository) PairExists(ctx context.Context, a, b string) (bool, error) {
	query := `SELECT EXISTS (
	            SELECT 1 FROM reservations
	            WHERE (passenger_username = $1 AND driver_username = $2)
	               OR (passenger_username = $2 AND driver_username = $1)
	          )`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, a, b).Scan(&exists); err != nil {
		return false, fmt.Errorf("pgReservationRepository.PairExists: %w", err)
	}
	return exists, nil
}
