package models

import "time"

type Item struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Available   bool      `json:"available" db:"available"`
	OwnerID     int64     `json:"owner_id" db:"owner_id"`
	RequestID   *int64    `json:"request_id,omitempty" db:"request_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ItemUpdate carries the fields of a partial item update; nil means unchanged.
type ItemUpdate struct {
	Name        *string
	Description *string
	Available   *bool
}

// ItemDetails is an item card with its comments and, for the owner, the
// nearest approved bookings around now.
type ItemDetails struct {
	Item
	LastBooking *ShortBooking `json:"last_booking"`
	NextBooking *ShortBooking `json:"next_booking"`
	Comments    []*Comment    `json:"comments"`
}
