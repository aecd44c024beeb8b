package models

import "time"

// Course is an offering applicants can enroll into.
type Course struct {
	ID         string    `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	Slug       string    `db:"slug" json:"slug"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	OrderIndex int       `db:"order_index" json:"order_index"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
