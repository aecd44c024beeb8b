package models

import "time"

// HeroSlide is one image in the landing page carousel.
type HeroSlide struct {
	ID         string    `db:"id" json:"id"`
	Title      *string   `db:"title" json:"title,omitempty"`
	ImageURL   string    `db:"image_url" json:"image_url"`
	OrderIndex int       `db:"order_index" json:"order_index"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// NewsEvent is a dated announcement shown on the public site.
type NewsEvent struct {
	ID           string    `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	Date         time.Time `db:"date" json:"date"`
	ImageURL     *string   `db:"image_url" json:"image_url,omitempty"`
	ReadMoreLink *string   `db:"read_more_link" json:"read_more_link,omitempty"`
	StartTime    *string   `db:"start_time" json:"start_time,omitempty"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Testimonial is a quote displayed on the public site.
type Testimonial struct {
	ID         string    `db:"id" json:"id"`
	Text       string    `db:"text" json:"text"`
	Author     string    `db:"author" json:"author"`
	Title      string    `db:"title" json:"title"`
	AvatarURL  *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	OrderIndex int       `db:"order_index" json:"order_index"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
