package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rideshare-market/backend/internal/client"
	"github.com/rideshare-market/backend/internal/common"
	"github.com/rideshare-market/backend/internal/domain/repository"
)

// availabilityPeers stubs identity's internal user info and rating endpoints.
type availabilityPeers struct {
	userStatus int
	isDriver   bool
	ratings    map[string]string
}

func (p *availabilityPeers) start(t *testing.T) *client.IdentityClient {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/get_user_info", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": p.userStatus, "is_driver": p.isDriver, "rating": "0.00",
		})
	})
	mux.HandleFunc("/get_rating", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		rating, ok := p.ratings[r.FormValue("username")]
		w.Header().Set("Content-Type", "application/json")
		if !ok {
			json.NewEncoder(w).Encode(map[string]interface{}{"status": 2})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"status": 1, "rating": rating})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return client.NewIdentityClient(srv.URL, "test-internal-key", 2*time.Second)
}

func newAvailabilityService(t *testing.T, peers *availabilityPeers) (*AvailabilityService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewAvailabilityService(
		repository.NewPgListingRepository(db), peers.start(t), zap.NewNop(),
	)
	return svc, mock
}

func TestCreateListing_Success(t *testing.T) {
	svc, mock := newAvailabilityService(t, &availabilityPeers{userStatus: 1, isDriver: true})

	mock.ExpectQuery("FROM listings WHERE listingid").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"listingid"}))
	mock.ExpectExec("INSERT INTO listings").
		WithArgs(int64(7), "dave", "Monday", 15.5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.CreateListing(context.Background(), "dave", "Monday", "15.5", "7")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateListing_Validation(t *testing.T) {
	svc, _ := newAvailabilityService(t, &availabilityPeers{userStatus: 1, isDriver: true})

	cases := []struct {
		name            string
		day, price, id  string
	}{
		{"missing day", "", "10", "7"},
		{"lowercase day", "monday", "10", "7"},
		{"bad price", "Monday", "free", "7"},
		{"negative price", "Monday", "-10", "7"},
		{"bad listing id", "Monday", "10", "seven"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.CreateListing(context.Background(), "dave", tc.day, tc.price, tc.id)
			assert.True(t, errors.Is(err, common.ErrBadRequest), "expected ErrBadRequest, got %v", err)
		})
	}
}

func TestCreateListing_PassengerForbidden(t *testing.T) {
	svc, _ := newAvailabilityService(t, &availabilityPeers{userStatus: 1, isDriver: false})

	err := svc.CreateListing(context.Background(), "alice", "Monday", "10", "7")
	assert.True(t, errors.Is(err, common.ErrForbidden), "expected ErrForbidden, got %v", err)
}

func TestCreateListing_UnknownUser(t *testing.T) {
	svc, _ := newAvailabilityService(t, &availabilityPeers{userStatus: 2, isDriver: true})

	err := svc.CreateListing(context.Background(), "ghost", "Monday", "10", "7")
	assert.True(t, errors.Is(err, common.ErrDependency), "expected ErrDependency, got %v", err)
}

func TestCreateListing_IDInUse(t *testing.T) {
	svc, mock := newAvailabilityService(t, &availabilityPeers{userStatus: 1, isDriver: true})

	rows := sqlmock.NewRows([]string{"listingid", "driver_username", "day", "price", "created_at"}).
		AddRow(int64(7), "erin", "Tuesday", 9.0, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	mock.ExpectQuery("FROM listings WHERE listingid").WithArgs(int64(7)).
		WillReturnRows(rows)

	err := svc.CreateListing(context.Background(), "dave", "Monday", "10", "7")
	assert.True(t, errors.Is(err, common.ErrConflict), "expected ErrConflict, got %v", err)
}

func TestSearch_RatingsFoldedIn(t *testing.T) {
	svc, mock := newAvailabilityService(t, &availabilityPeers{
		ratings: map[string]string{"dave": "4.50"},
	})

	created := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"listingid", "driver_username", "day", "price", "created_at"}).
		AddRow(int64(3), "dave", "Monday", 9.5, created).
		AddRow(int64(8), "erin", "Monday", 12.0, created)
	mock.ExpectQuery("FROM listings WHERE day").WithArgs("Monday").
		WillReturnRows(rows)

	results, err := svc.Search(context.Background(), "Monday")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, int64(3), results[0].ListingID)
	assert.Equal(t, "9.50", results[0].Price)
	assert.Equal(t, "4.50", results[0].Rating)
	// erin has no rating row; the lookup degrades rather than failing.
	assert.Equal(t, "0.00", results[1].Rating)
}

func TestSearch_EmptyDay(t *testing.T) {
	svc, mock := newAvailabilityService(t, &availabilityPeers{})

	mock.ExpectQuery("FROM listings WHERE day").WithArgs("Sunday").
		WillReturnRows(sqlmock.NewRows([]string{"listingid", "driver_username", "day", "price", "created_at"}))

	results, err := svc.Search(context.Background(), "Sunday")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_InvalidDay(t *testing.T) {
	svc, _ := newAvailabilityService(t, &availabilityPeers{})

	_, err := svc.Search(context.Background(), "Caturday")
	assert.True(t, errors.Is(err, common.ErrBadRequest), "expected ErrBadRequest, got %v", err)
}

func TestDeleteListing_BadID(t *testing.T) {
	svc, _ := newAvailabilityService(t, &availabilityPeers{})

	err := svc.DeleteListing(context.Background(), "seven")
	assert.True(t, errors.Is(err, common.ErrBadRequest), "expected ErrBadRequest, got %v", err)
}
