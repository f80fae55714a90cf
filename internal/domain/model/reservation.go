package model

import "time"

// Reservation is the append-only record of a completed trade: a row exists
// only when the corresponding payment transfer succeeded against a listing
// that existed at check time.
type Reservation struct {
	ID                string    `json:"id"`
	ListingID         int64     `json:"listingid"`
	PassengerUsername string    `json:"passenger"`
	DriverUsername    string    `json:"driver"`
	Price             float64   `json:"price"`
	CreatedAt         time.Time `json:"created_at"`
}
