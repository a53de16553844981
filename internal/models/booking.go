package models

import "time"

type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
)

type Booking struct {
	ID         int64         `json:"id" db:"id"`
	ItemID     int64         `json:"item_id" db:"item_id"`
	ItemName   string        `json:"item_name" db:"item_name"`
	OwnerID    int64         `json:"owner_id" db:"owner_id"`
	BookerID   int64         `json:"booker_id" db:"booker_id"`
	BookerName string        `json:"booker_name" db:"booker_name"`
	Start      time.Time     `json:"start" db:"start_at"`
	End        time.Time     `json:"end" db:"end_at"`
	Status     BookingStatus `json:"status" db:"status"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" db:"updated_at"`
}

// IsParty reports whether the user is the booker or the owner of the booked item.
func (b *Booking) IsParty(userID int64) bool {
	return b.BookerID == userID || b.OwnerID == userID
}

// ShortBooking is the booking reference shown on an item card.
type ShortBooking struct {
	ID       int64     `json:"id" db:"id"`
	BookerID int64     `json:"booker_id" db:"booker_id"`
	Start    time.Time `json:"start" db:"start_at"`
	End      time.Time `json:"end" db:"end_at"`
}
