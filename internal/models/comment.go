package models

import "time"

type Comment struct {
	ID         int64     `json:"id" db:"id"`
	ItemID     int64     `json:"item_id" db:"item_id"`
	AuthorID   int64     `json:"author_id" db:"author_id"`
	AuthorName string    `json:"author_name" db:"author_name"`
	Text       string    `json:"text" db:"text"`
	CreatedAt  time.Time `json:"created" db:"created_at"`
}
