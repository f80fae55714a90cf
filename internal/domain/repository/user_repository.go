package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rideshare-market/backend/internal/common"
	"github.com/rideshare-market/backend/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	AddPasswordHistory(ctx context.Context, userID, passHash string) error
	AddRating(ctx context.Context, raterID, ratedID string, rating int) error
	AverageRating(ctx context.Context, userID string) (float64, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, first_name, last_name, username, email_address, pass_hash, salt, is_driver)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Username,
		user.EmailAddress, user.PassHash, user.Salt, user.IsDriver,
	)
	if err != nil {
		// The service pre-checks both uniqueness rules; the constraints are
		// the backstop under concurrent registration.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "users_email_address_key" {
				return fmt.Errorf("email in use: %w", common.ErrEmailTaken)
			}
			return fmt.Errorf("username in use: %w", common.ErrUsernameTaken)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT id, first_name, last_name, username, email_address, pass_hash, salt, is_driver, created_at
	          FROM users WHERE username = $1`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Username,
		&user.EmailAddress, &user.PassHash, &user.Salt, &user.IsDriver, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByUsername: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pgUserRepository.ExistsByUsername: %w", err)
	}
	return exists, nil
}

func (r *pgUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email_address = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pgUserRepository.ExistsByEmail: %w", err)
	}
	return exists, nil
}

func (r *pgUserRepository) AddPasswordHistory(ctx context.Context, userID, passHash string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO password_history (user_id, pass_hash) VALUES ($1, $2)`, userID, passHash,
	)
	if err != nil {
		return fmt.Errorf("pgUserRepository.AddPasswordHistory: %w", err)
	}
	return nil
}

func (r *pgUserRepository) AddRating(ctx context.Context, raterID, ratedID string, rating int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ratings (rater_id, rated_id, rating) VALUES ($1, $2, $3)`, raterID, ratedID, rating,
	)
	if err != nil {
		return fmt.Errorf("pgUserRepository.AddRating: %w", err)
	}
	return nil
}

func (r *pgUserRepository) AverageRating(ctx context.Context, userID string) (float64, error) {
	var avg float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(rating), 0) FROM ratings WHERE rated_id = $1`, userID,
	).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("pgUserRepository.AverageRating: %w", err)
	}
	return avg, nil
}
