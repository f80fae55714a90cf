package service

import (
	"context"
	"crypto/hmac"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rideshare-market/backend/internal/client"
	"github.com/rideshare-market/backend/internal/common"
	"github.com/rideshare-market/backend/internal/common/security"
	"github.com/rideshare-market/backend/internal/domain/model"
	"github.com/rideshare-market/backend/internal/domain/repository"
)

const maxFieldLen = 254

// IdentityService owns user records, credentials, tokens, and ratings. It is
// the only service that ever inspects a token's contents.
type IdentityService struct {
	users        repository.UserRepository
	payments     *client.PaymentsClient
	reservations *client.ReservationsClient
	secret       []byte
	logger       *zap.Logger
}

func NewIdentityService(
	users repository.UserRepository,
	payments *client.PaymentsClient,
	reservations *client.ReservationsClient,
	secret []byte,
	logger *zap.Logger,
) *IdentityService {
	return &IdentityService{
		users:        users,
		payments:     payments,
		reservations: reservations,
		secret:       secret,
		logger:       logger,
	}
}

type CreateUserRequest struct {
	FirstName    string
	LastName     string
	Username     string
	EmailAddress string
	Password     string
	Salt         string
	Driver       string
	Deposit      string
}

// CreateUser registers a user and returns the stored credential hash.
// Validation happens before any mutation; the uniqueness checks report
// username and email collisions as distinct outcomes.
func (s *IdentityService) CreateUser(ctx context.Context, req CreateUserRequest) (string, error) {
	required := []string{req.FirstName, req.LastName, req.Username, req.EmailAddress, req.Password, req.Salt, req.Deposit}
	for _, field := range required {
		if field == "" {
			return "", fmt.Errorf("missing required field: %w", common.ErrBadRequest)
		}
	}
	for _, field := range []string{req.FirstName, req.LastName, req.Username, req.EmailAddress, req.Password, req.Salt} {
		if len(field) > maxFieldLen {
			return "", fmt.Errorf("field exceeds %d characters: %w", maxFieldLen, common.ErrBadRequest)
		}
	}
	if !security.ValidPassword(req.Password, req.Username, req.FirstName, req.LastName) {
		return "", fmt.Errorf("password policy violation: %w", common.ErrBadRequest)
	}
	if _, err := common.ParseMoney(req.Deposit); err != nil {
		return "", fmt.Errorf("invalid deposit: %w", common.ErrBadRequest)
	}

	if taken, err := s.users.ExistsByUsername(ctx, req.Username); err != nil {
		return "", err
	} else if taken {
		return "", common.ErrUsernameTaken
	}
	if taken, err := s.users.ExistsByEmail(ctx, req.EmailAddress); err != nil {
		return "", err
	} else if taken {
		return "", common.ErrEmailTaken
	}

	passHash := security.HashPassword(s.secret, req.Salt, req.Password)
	user := &model.User{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		EmailAddress: req.EmailAddress,
		PassHash:     passHash,
		Salt:         req.Salt,
		IsDriver:     common.ParseFlag(req.Driver),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}
	if err := s.users.AddPasswordHistory(ctx, user.ID, passHash); err != nil {
		return "", err
	}

	// Seed the payments balance with the deposit. Best effort: registration
	// stands even when payments is unreachable.
	if err := s.payments.Initialize(ctx, req.Username, req.Deposit); err != nil {
		s.logger.Warn("balance initialization failed",
			zap.String("username", req.Username), zap.Error(err))
	}

	return passHash, nil
}

// Login checks the credential and issues a bearer token.
func (s *IdentityService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", common.ErrUnauthorized
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", err
	}

	computed := security.HashPassword(s.secret, user.Salt, password)
	if !hmac.Equal([]byte(computed), []byte(user.PassHash)) {
		return "", common.ErrUnauthorized
	}

	token, err := security.IssueToken(s.secret, username)
	if err != nil {
		return "", fmt.Errorf("issuing token: %w", err)
	}
	return token, nil
}

// VerifyToken resolves a token to its current user record. A token whose
// subject no longer exists is invalid; nothing is cached.
func (s *IdentityService) VerifyToken(ctx context.Context, token string) (*model.User, error) {
	username, err := security.VerifyToken(s.secret, token)
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// Rate records a score from the token's subject against ratedUsername.
// Eligibility: both exist, distinct users, opposite roles, and reservations
// confirms a prior pairing. An unreachable reservations service is a
// rejection, never a silent approval.
func (s *IdentityService) Rate(ctx context.Context, token, ratedUsername string, score int) error {
	rater, err := s.VerifyToken(ctx, token)
	if err != nil {
		return err
	}
	if score < 0 || score > 5 {
		return fmt.Errorf("score out of range: %w", common.ErrBadRequest)
	}

	rated, err := s.users.FindByUsername(ctx, ratedUsername)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrBadRequest
		}
		return err
	}
	if rater.ID == rated.ID {
		return fmt.Errorf("self-rating: %w", common.ErrBadRequest)
	}
	if rater.IsDriver == rated.IsDriver {
		return fmt.Errorf("same-role rating: %w", common.ErrBadRequest)
	}

	linked, err := s.reservations.CheckReservation(ctx, rater.Username, rated.Username)
	if err != nil {
		s.logger.Warn("reservation check failed",
			zap.String("rater", rater.Username), zap.String("rated", rated.Username), zap.Error(err))
		return common.ErrDependency
	}
	if !linked {
		return fmt.Errorf("no reservation between parties: %w", common.ErrForbidden)
	}

	return s.users.AddRating(ctx, rater.ID, rated.ID, score)
}

// UserInfo returns the role flag and rating aggregate for internal callers.
func (s *IdentityService) UserInfo(ctx context.Context, username string) (*model.User, string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	avg, err := s.users.AverageRating(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, fmt.Sprintf("%.2f", avg), nil
}
