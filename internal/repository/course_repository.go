package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gracebti/admissions-api/internal/models"
)

// CourseRepository reads course offerings.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// ListActive returns active courses in display order.
func (r *CourseRepository) ListActive(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT id, title, slug, is_active, order_index, created_at
FROM courses WHERE is_active = TRUE ORDER BY order_index ASC, created_at DESC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list active courses: %w", err)
	}
	return courses, nil
}

// FindByID fetches a single course.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, title, slug, is_active, order_index, created_at FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}
