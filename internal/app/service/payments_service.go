package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rideshare-market/backend/internal/common"
	"github.com/rideshare-market/backend/internal/domain/repository"
)

// PaymentsService owns per-user balances. Transfer is the one place in the
// whole system where two mutations are atomic, and only against this
// service's own store.
type PaymentsService struct {
	balances repository.BalanceRepository
	db       *sql.DB // For transactions
	logger   *zap.Logger
}

func NewPaymentsService(balances repository.BalanceRepository, db *sql.DB, logger *zap.Logger) *PaymentsService {
	return &PaymentsService{balances: balances, db: db, logger: logger}
}

// Initialize sets a user's balance outright. Called by identity at
// registration; overwrites any existing row.
func (s *PaymentsService) Initialize(ctx context.Context, username, amountStr string) error {
	if username == "" || amountStr == "" {
		return fmt.Errorf("missing username or amount: %w", common.ErrBadRequest)
	}
	amount, err := common.ParseMoney(amountStr)
	if err != nil {
		return err
	}
	return s.balances.Upsert(ctx, username, amount)
}

// Add credits the caller's balance, creating the row lazily.
func (s *PaymentsService) Add(ctx context.Context, username, amountStr string) error {
	if amountStr == "" {
		return fmt.Errorf("missing amount: %w", common.ErrBadRequest)
	}
	amount, err := common.ParseMoney(amountStr)
	if err != nil {
		return err
	}
	return s.balances.Credit(ctx, username, amount)
}

// View returns the caller's balance as a fixed two-decimal string, "0.00"
// when no row exists yet.
func (s *PaymentsService) View(ctx context.Context, username string) (string, error) {
	balance, err := s.balances.Find(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "0.00", nil
		}
		return "", err
	}
	return common.FormatMoney(balance.Balance), nil
}

// CheckBalance reports whether username holds at least amount. An unknown
// user is a failure, not a zero balance.
func (s *PaymentsService) CheckBalance(ctx context.Context, username, amountStr string) (bool, float64, error) {
	if username == "" || amountStr == "" {
		return false, 0, fmt.Errorf("missing username or amount: %w", common.ErrBadRequest)
	}
	amount, err := common.ParseMoney(amountStr)
	if err != nil {
		return false, 0, err
	}
	balance, err := s.balances.Find(ctx, username)
	if err != nil {
		return false, 0, err
	}
	return balance.Balance >= amount, balance.Balance, nil
}

// Transfer debits from and credits to inside one local transaction, with the
// sender row locked so the amount re-check is authoritative. Zero-amount
// transfers are no-ops that still validate the sender. On insufficient funds
// neither balance changes.
func (s *PaymentsService) Transfer(ctx context.Context, from, to, amountStr string) error {
	if from == "" || to == "" || amountStr == "" {
		return fmt.Errorf("missing transfer field: %w", common.ErrBadRequest)
	}
	amount, err := common.ParseMoney(amountStr)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sender, err := s.balances.FindForUpdate(ctx, tx, from)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("sender %q has no balance: %w", from, common.ErrUnknownSender)
		}
		return err
	}
	if sender.Balance < amount {
		return fmt.Errorf("sender %q holds %.2f, needs %.2f: %w",
			from, sender.Balance, amount, common.ErrInsufficient)
	}

	if err := s.balances.SetBalance(ctx, tx, from, sender.Balance-amount); err != nil {
		return err
	}
	if err := s.balances.CreditTx(ctx, tx, to, amount); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transfer: %w", err)
	}

	s.logger.Info("transfer committed",
		zap.String("from", from), zap.String("to", to), zap.Float64("amount", amount))
	return nil
}
