package model

import "time"

// Listing is a driver's offer to drive on a given day for a given price.
// The listing id is caller-supplied and globally unique; a listing is
// destroyed exactly once, either explicitly or when a reservation succeeds.
type Listing struct {
	ListingID      int64     `json:"listingid"`
	DriverUsername string    `json:"driver"`
	Day            string    `json:"day"`
	Price          float64   `json:"price"`
	CreatedAt      time.Time `json:"created_at"`
}
