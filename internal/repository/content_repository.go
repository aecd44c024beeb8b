package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gracebti/admissions-api/internal/models"
)

// ContentRepository persists the public site's display collections.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository constructs the repository.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// ListHeroSlides returns carousel slides in display order. When activeOnly is
// false the admin view gets everything.
func (r *ContentRepository) ListHeroSlides(ctx context.Context, activeOnly bool) ([]models.HeroSlide, error) {
	query := `SELECT id, title, image_url, order_index, is_active, created_at FROM hero_carousel`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY order_index ASC`
	var slides []models.HeroSlide
	if err := r.db.SelectContext(ctx, &slides, query); err != nil {
		return nil, fmt.Errorf("list hero slides: %w", err)
	}
	return slides, nil
}

// FindHeroSlide fetches one slide.
func (r *ContentRepository) FindHeroSlide(ctx context.Context, id string) (*models.HeroSlide, error) {
	const query = `SELECT id, title, image_url, order_index, is_active, created_at FROM hero_carousel WHERE id = $1`
	var slide models.HeroSlide
	if err := r.db.GetContext(ctx, &slide, query, id); err != nil {
		return nil, err
	}
	return &slide, nil
}

// CreateHeroSlide inserts a slide.
func (r *ContentRepository) CreateHeroSlide(ctx context.Context, slide *models.HeroSlide) error {
	const query = `INSERT INTO hero_carousel (id, title, image_url, order_index, is_active, created_at)
VALUES (:id, :title, :image_url, :order_index, :is_active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slide); err != nil {
		return fmt.Errorf("insert hero slide: %w", err)
	}
	return nil
}

// UpdateHeroSlide rewrites a slide's mutable columns.
func (r *ContentRepository) UpdateHeroSlide(ctx context.Context, slide *models.HeroSlide) error {
	const query = `UPDATE hero_carousel
SET title = :title, image_url = :image_url, order_index = :order_index, is_active = :is_active
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, slide); err != nil {
		return fmt.Errorf("update hero slide: %w", err)
	}
	return nil
}

// DeleteHeroSlide removes a slide.
func (r *ContentRepository) DeleteHeroSlide(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM hero_carousel WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete hero slide: %w", err)
	}
	return nil
}

// ListNewsEvents returns announcements, most recent date first.
func (r *ContentRepository) ListNewsEvents(ctx context.Context, activeOnly bool) ([]models.NewsEvent, error) {
	query := `SELECT id, title, description, date, image_url, read_more_link, start_time, is_active, created_at
FROM news_events`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY date DESC`
	var events []models.NewsEvent
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("list news events: %w", err)
	}
	return events, nil
}

// CreateNewsEvent inserts an announcement.
func (r *ContentRepository) CreateNewsEvent(ctx context.Context, event *models.NewsEvent) error {
	const query = `INSERT INTO news_events (id, title, description, date, image_url, read_more_link, start_time, is_active, created_at)
VALUES (:id, :title, :description, :date, :image_url, :read_more_link, :start_time, :is_active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("insert news event: %w", err)
	}
	return nil
}

// UpdateNewsEvent rewrites an announcement's mutable columns.
func (r *ContentRepository) UpdateNewsEvent(ctx context.Context, event *models.NewsEvent) error {
	const query = `UPDATE news_events
SET title = :title, description = :description, date = :date, image_url = :image_url,
    read_more_link = :read_more_link, start_time = :start_time, is_active = :is_active
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("update news event: %w", err)
	}
	return nil
}

// DeleteNewsEvent removes an announcement.
func (r *ContentRepository) DeleteNewsEvent(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM news_events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete news event: %w", err)
	}
	return nil
}

// ListTestimonials returns testimonials in display order.
func (r *ContentRepository) ListTestimonials(ctx context.Context, activeOnly bool) ([]models.Testimonial, error) {
	query := `SELECT id, text, author, title, avatar_url, order_index, is_active, created_at FROM testimonials`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY order_index ASC`
	var testimonials []models.Testimonial
	if err := r.db.SelectContext(ctx, &testimonials, query); err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	return testimonials, nil
}

// CreateTestimonial inserts a testimonial.
func (r *ContentRepository) CreateTestimonial(ctx context.Context, testimonial *models.Testimonial) error {
	const query = `INSERT INTO testimonials (id, text, author, title, avatar_url, order_index, is_active, created_at)
VALUES (:id, :text, :author, :title, :avatar_url, :order_index, :is_active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, testimonial); err != nil {
		return fmt.Errorf("insert testimonial: %w", err)
	}
	return nil
}

// UpdateTestimonial rewrites a testimonial's mutable columns.
func (r *ContentRepository) UpdateTestimonial(ctx context.Context, testimonial *models.Testimonial) error {
	const query = `UPDATE testimonials
SET text = :text, author = :author, title = :title, avatar_url = :avatar_url,
    order_index = :order_index, is_active = :is_active
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, testimonial); err != nil {
		return fmt.Errorf("update testimonial: %w", err)
	}
	return nil
}

// DeleteTestimonial removes a testimonial.
func (r *ContentRepository) DeleteTestimonial(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	return nil
}
