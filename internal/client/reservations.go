package client

import (
	"context"
	"net/url"
	"time"
)

// ReservationsClient calls the reservations service's internal endpoints.
type ReservationsClient struct {
	baseClient
}

func NewReservationsClient(baseURL, internalKey string, timeout time.Duration) *ReservationsClient {
	return &ReservationsClient{newBaseClient("reservations", baseURL, internalKey, timeout)}
}

// CheckReservation reports whether any reservation links the two users, in
// either role combination. Errors surface to the caller, which must treat
// them as a negative answer.
func (c *ReservationsClient) CheckReservation(ctx context.Context, rater, rated string) (bool, error) {
	var resp struct {
		Status int `json:"status"`
	}
	values := url.Values{"rater": {rater}, "rated": {rated}}
	if err := c.postForm(ctx, "/check_reservation", values, &resp); err != nil {
		return false, err
	}
	return resp.Status == 1, nil
}
