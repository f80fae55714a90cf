package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rideshare-market/backend/internal/client"
	"github.com/rideshare-market/backend/internal/common"
	"github.com/rideshare-market/backend/internal/domain/model"
	"github.com/rideshare-market/backend/internal/domain/repository"
)

// ReserveStatus is the outcome of the reservation saga.
type ReserveStatus int

const (
	ReserveSuccess ReserveStatus = iota
	ReserveUnauthorized
	ReserveFailed
)

// ReservationService orchestrates the cross-service reservation saga and
// owns the resulting ledger. The saga is strictly sequential: each step's
// precondition is the previous step's success.
//
// Compensation table:
//
//	verify token        read-only, nothing to undo
//	fetch listing       read-only, nothing to undo
//	check balance       read-only, nothing to undo
//	transfer funds      none by policy: money is never clawed back
//	delete listing      none; a failed delete leaves a residual listing
//	persist reservation none; failure leaves money moved with no record
type ReservationService struct {
	reservations repository.ReservationRepository
	identity     *client.IdentityClient
	availability *client.AvailabilityClient
	payments     *client.PaymentsClient
	logger       *zap.Logger
}

func NewReservationService(
	reservations repository.ReservationRepository,
	identity *client.IdentityClient,
	availability *client.AvailabilityClient,
	payments *client.PaymentsClient,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		identity:     identity,
		availability: availability,
		payments:     payments,
		logger:       logger,
	}
}

// Reserve converts a listing into a paid reservation for the token's
// subject. The caller must hold the passenger role. Peer failures fold into
// ReserveUnauthorized or ReserveFailed; the underlying cause is only logged.
func (s *ReservationService) Reserve(ctx context.Context, token, listingIDStr string) ReserveStatus {
	info, err := s.identity.VerifyToken(ctx, token)
	if err != nil {
		s.logger.Info("reserve rejected: token verification failed", zap.Error(err))
		return ReserveUnauthorized
	}
	if info.IsDriver {
		s.logger.Info("reserve rejected: drivers may not reserve",
			zap.String("username", info.Username))
		return ReserveFailed
	}
	passenger := info.Username

	listingID, err := strconv.ParseInt(listingIDStr, 10, 64)
	if err != nil {
		s.logger.Info("reserve rejected: bad listing id", zap.String("listingid", listingIDStr))
		return ReserveFailed
	}

	listing, err := s.availability.GetListing(ctx, listingID)
	if err != nil {
		s.logger.Info("reserve failed: listing fetch",
			zap.Int64("listingid", listingID), zap.Error(err))
		return ReserveFailed
	}
	price, err := strconv.ParseFloat(listing.Price, 64)
	if err != nil {
		s.logger.Error("reserve failed: malformed price from availability",
			zap.Int64("listingid", listingID), zap.String("price", listing.Price))
		return ReserveFailed
	}

	hasEnough, err := s.payments.CheckBalance(ctx, passenger, listing.Price)
	if err != nil || !hasEnough {
		s.logger.Info("reserve failed: balance check",
			zap.String("passenger", passenger), zap.Error(err))
		return ReserveFailed
	}

	if err := s.payments.Transfer(ctx, passenger, listing.Driver, listing.Price); err != nil {
		s.logger.Info("reserve failed: transfer",
			zap.String("passenger", passenger), zap.String("driver", listing.Driver), zap.Error(err))
		return ReserveFailed
	}

	// The money has moved. From here on the saga never aborts: a residual
	// listing or a missing ledger row is a lesser failure than a lost or
	// duplicated payment.
	if err := s.availability.DeleteListing(ctx, listingID); err != nil {
		s.logger.Warn("listing delete failed after transfer; residual listing remains",
			zap.Int64("listingid", listingID), zap.Error(err))
	}

	reservation := &model.Reservation{
		ID:                uuid.NewString(),
		ListingID:         listingID,
		PassengerUsername: passenger,
		DriverUsername:    listing.Driver,
		Price:             price,
	}
	if err := s.reservations.Create(ctx, reservation); err != nil {
		s.logger.Error("reservation persist failed after transfer; payment has no ledger row",
			zap.Int64("listingid", listingID), zap.String("passenger", passenger), zap.Error(err))
		return ReserveFailed
	}

	s.logger.Info("reservation committed",
		zap.String("id", reservation.ID), zap.Int64("listingid", listingID),
		zap.String("passenger", passenger), zap.String("driver", listing.Driver))
	return ReserveSuccess
}

// ReservationView is the caller-facing summary of their latest reservation.
type ReservationView struct {
	ListingID int64  `json:"listingid"`
	Price     string `json:"price"`
	User      string `json:"user"`
	Rating    string `json:"rating"`
}

// View returns the token subject's most recent reservation. Drivers see the
// passenger, passengers see the driver; the other party's rating is fetched
// best-effort.
func (s *ReservationService) View(ctx context.Context, token string) (*ReservationView, error) {
	info, err := s.identity.VerifyToken(ctx, token)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	var reservation *model.Reservation
	var other string
	if info.IsDriver {
		reservation, err = s.reservations.LatestForDriver(ctx, info.Username)
	} else {
		reservation, err = s.reservations.LatestForPassenger(ctx, info.Username)
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	if info.IsDriver {
		other = reservation.PassengerUsername
	} else {
		other = reservation.DriverUsername
	}

	rating, err := s.identity.GetRating(ctx, other)
	if err != nil {
		s.logger.Debug("rating lookup failed", zap.String("username", other), zap.Error(err))
		rating = "0.00"
	}

	return &ReservationView{
		ListingID: reservation.ListingID,
		Price:     common.FormatMoney(reservation.Price),
		User:      other,
		Rating:    rating,
	}, nil
}

// CheckPair reports whether any reservation links the two users in either
// role combination.
func (s *ReservationService) CheckPair(ctx context.Context, rater, rated string) (bool, error) {
	if rater == "" || rated == "" {
		return false, common.ErrBadRequest
	}
	return s.reservations.PairExists(ctx, rater, rated)
}
