package model

import (
	"time"
)

// User is an identity record. Identity and the role flag are fixed at
// registration.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Username     string    `json:"username"`
	EmailAddress string    `json:"email_address"`
	PassHash     string    `json:"-"` // Not exposed
	Salt         string    `json:"-"`
	IsDriver     bool      `json:"is_driver"`
	CreatedAt    time.Time `json:"created_at"`
}

// Rating is a score one party gave the other after a completed reservation.
type Rating struct {
	ID      int64  `json:"id"`
	RaterID string `json:"rater_id"`
	RatedID string `json:"rated_id"`
	Rating  int    `json:"rating"`
}
