package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rideshare-market/backend/internal/common"
	"github.com/rideshare-market/backend/internal/domain/model"
)

type BalanceRepository interface {
	Find(ctx context.Context, username string) (*model.Balance, error)
	Upsert(ctx context.Context, username string, amount float64) error
	Credit(ctx context.Context, username string, amount float64) error

	// Transaction-scoped operations used by the transfer primitive. The
	// caller owns the transaction; both mutations must commit together.
	FindForUpdate(ctx context.Context, tx *sql.Tx, username string) (*model.Balance, error)
	SetBalance(ctx context.Context, tx *sql.Tx, username string, balance float64) error
	CreditTx(ctx context.Context, tx *sql.Tx, username string, amount float64) error
}

type pgBalanceRepository struct {
	db *sql.DB
}

func NewPgBalanceRepository(db *sql.DB) BalanceRepository {
	return &pgBalanceRepository{db: db}
}

func (r *pgBalanceRepository) Find(ctx context.Context, username string) (*model.Balance, error) {
	balance := &model.Balance{}
	err := r.db.QueryRowContext(ctx,
		`SELECT username, balance FROM balances WHERE username = $1`, username,
	).Scan(&balance.Username, &balance.Balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgBalanceRepository.Find: %w", err)
	}
	return balance, nil
}

func (r *pgBalanceRepository) Upsert(ctx context.Context, username string, amount float64) error {
	query := `INSERT INTO balances (username, balance) VALUES ($1, $2)
	          ON CONFLICT (username) DO UPDATE SET balance = EXCLUDED.balance`
	if _, err := r.db.ExecContext(ctx, query, username, amount); err != nil {
		return fmt.Errorf("pgBalanceRepository.Upsert: %w", err)
	}
	return nil
}

func (r *pgBalanceRepository) Credit(ctx context.Context, username string, amount float64) error {
	query := `INSERT INTO balances (username, balance) VALUES ($1, $2)
	          ON CONFLICT (username) DO UPDATE SET balance = balances.balance + EXCLUDED.balance`
	if _, err := r.db.ExecContext(ctx, query, username, amount); err != nil {
		return fmt.Errorf("pgBalanceRepository.Credit: %w", err)
	}
	return nil
}

func (r *pgBalanceRepository) FindForUpdate(ctx context.Context, tx *sql.Tx, username string) (*model.Balance, error) {
	balance := &model.Balance{}
	err := tx.QueryRowContext(ctx,
		`SELECT username, balance FROM balances WHERE username = $1 FOR UPDATE`, username,
	).Scan(&balance.Username, &balance.Balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgBalanceRepository.FindForUpdate: %w", err)
	}
	return balance, nil
}

func (r *pgBalanceRepository) SetBalance(ctx context.Context, tx *sql.Tx, username string, balance float64) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE balances SET balance = $1 WHERE username = $2`, balance, username,
	); err != nil {
		return fmt.Errorf("pgBalanceRepository.SetBalance: %w", err)
	}
	return nil
}

func (r *pgBalanceRepository) CreditTx(ctx context.Context, tx *sql.Tx, username string, amount float64) error {
	query := `INSERT INTO balances (username, balance) VALUES ($1, $2)
	          ON CONFLICT (username) DO UPDATE SET balance = balances.balance + EXCLUDED.balance`
	if _, err := tx.ExecContext(ctx, query, username, amount); err != nil {
		return fmt.Errorf("pgBalanceRepository.CreditTx: %w", err)
	}
	return nil
}
