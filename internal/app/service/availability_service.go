package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/rideshare-market/backend/internal/client"
	"github.com/rideshare-market/backend/internal/common"
	"github.com/rideshare-market/backend/internal/domain/model"
	"github.com/rideshare-market/backend/internal/domain/repository"
)

// AvailabilityService owns driver listings.
type AvailabilityService struct {
	listings repository.ListingRepository
	identity *client.IdentityClient
	logger   *zap.Logger
}

func NewAvailabilityService(
	listings repository.ListingRepository,
	identity *client.IdentityClient,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{listings: listings, identity: identity, logger: logger}
}

// CreateListing validates and writes a listing for username, who has already
// passed token verification. The driver role is re-confirmed against
// identity's current user record before anything is written.
func (s *AvailabilityService) CreateListing(ctx context.Context, username, day, priceStr, listingIDStr string) error {
	if day == "" || priceStr == "" || listingIDStr == "" {
		return fmt.Errorf("missing listing field: %w", common.ErrBadRequest)
	}
	if !common.ValidDay(day) {
		return fmt.Errorf("invalid day %q: %w", day, common.ErrBadRequest)
	}
	price, err := common.ParseMoney(priceStr)
	if err != nil {
		return err
	}
	listingID, err := strconv.ParseInt(listingIDStr, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid listing id %q: %w", listingIDStr, common.ErrBadRequest)
	}

	info, err := s.identity.GetUserInfo(ctx, username)
	if err != nil {
		s.logger.Warn("user info lookup failed", zap.String("username", username), zap.Error(err))
		return common.ErrDependency
	}
	if !info.IsDriver {
		return fmt.Errorf("listing creation requires the driver role: %w", common.ErrForbidden)
	}

	if _, err := s.listings.FindByID(ctx, listingID); err == nil {
		return fmt.Errorf("listing id %d in use: %w", listingID, common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	return s.listings.Create(ctx, &model.Listing{
		ListingID:      listingID,
		DriverUsername: username,
		Day:            day,
		Price:          price,
	})
}

// SearchResult is one row of a passenger's day search, with the driver's
// rating folded in.
type SearchResult struct {
	ListingID int64  `json:"listingid"`
	Price     string `json:"price"`
	Driver    string `json:"driver"`
	Rating    string `json:"rating"`
}

// Search lists a day's listings ordered by id. Each driver's rating comes
// from identity best-effort; an unreachable identity degrades to "0.00"
// rather than failing the search.
func (s *AvailabilityService) Search(ctx context.Context, day string) ([]SearchResult, error) {
	if !common.ValidDay(day) {
		return nil, fmt.Errorf("invalid day %q: %w", day, common.ErrBadRequest)
	}

	listings, err := s.listings.SearchByDay(ctx, day)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(listings))
	for _, listing := range listings {
		rating, err := s.identity.GetRating(ctx, listing.DriverUsername)
		if err != nil {
			s.logger.Debug("rating lookup failed",
				zap.String("driver", listing.DriverUsername), zap.Error(err))
			rating = "0.00"
		}
		results = append(results, SearchResult{
			ListingID: listing.ListingID,
			Price:     common.FormatMoney(listing.Price),
			Driver:    listing.DriverUsername,
			Rating:    rating,
		})
	}
	return results, nil
}

// GetListing resolves a listing by its wire-format id.
func (s *AvailabilityService) GetListing(ctx context.Context, listingIDStr string) (*model.Listing, error) {
	listingID, err := strconv.ParseInt(listingIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid listing id %q: %w", listingIDStr, common.ErrBadRequest)
	}
	return s.listings.FindByID(ctx, listingID)
}

// DeleteListing removes a listing. Removal of an absent listing succeeds.
func (s *AvailabilityService) DeleteListing(ctx context.Context, listingIDStr string) error {
	listingID, err := strconv.ParseInt(listingIDStr, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid listing id %q: %w", listingIDStr, common.ErrBadRequest)
	}
	return s.listings.Delete(ctx, listingID)
}
