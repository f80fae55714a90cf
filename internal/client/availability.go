package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// AvailabilityClient calls the availability service's internal endpoints.
type AvailabilityClient struct {
	baseClient
}

func NewAvailabilityClient(baseURL, internalKey string, timeout time.Duration) *AvailabilityClient {
	return &AvailabilityClient{newBaseClient("availability", baseURL, internalKey, timeout)}
}

// ListingInfo is the internal view of a listing. Price stays a string on the
// wire; the saga forwards it verbatim to payments.
type ListingInfo struct {
	Status int    `json:"status"`
	Day    string `json:"day"`
	Price  string `json:"price"`
	Driver string `json:"driver"`
}

func (c *AvailabilityClient) GetListing(ctx context.Context, listingID int64) (*ListingInfo, error) {
	var info ListingInfo
	values := url.Values{"listingid": {strconv.FormatInt(listingID, 10)}}
	if err := c.postForm(ctx, "/get_listing", values, &info); err != nil {
		return nil, err
	}
	if info.Status != 1 || info.Driver == "" || info.Price == "" {
		return nil, fmt.Errorf("availability: no listing %d", listingID)
	}
	return &info, nil
}

func (c *AvailabilityClient) DeleteListing(ctx context.Context, listingID int64) error {
	var resp struct {
		Status int `json:"status"`
	}
	values := url.Values{"listingid": {strconv.FormatInt(listingID, 10)}}
	if err := c.postForm(ctx, "/delete_listing", values, &resp); err != nil {
		return err
	}
	if resp.Status != 1 {
		return fmt.Errorf("availability: delete of listing %d refused", listingID)
	}
	return nil
}
