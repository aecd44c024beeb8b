package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gracebti/admissions-api/internal/models"
)

const enrollmentColumns = `id, course_id, course_title, name, address, phone, email, date_of_birth,
nationality, languages, marital_status, church_name, church_position,
pastor_overseer_awareness, previous_bible_school, e_signature_url, photo_copy_url,
read, created_at, updated_at`

// EnrollmentRepository persists enrollment applications.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create inserts one enrollment row.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	const query = `INSERT INTO enrollments (id, course_id, course_title, name, address, phone, email,
date_of_birth, nationality, languages, marital_status, church_name, church_position,
pastor_overseer_awareness, previous_bible_school, e_signature_url, photo_copy_url,
read, created_at, updated_at)
VALUES (:id, :course_id, :course_title, :name, :address, :phone, :email,
:date_of_birth, :nationality, :languages, :marital_status, :church_name, :church_position,
:pastor_overseer_awareness, :previous_bible_school, :e_signature_url, :photo_copy_url,
:read, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

// List returns enrollments newest first, optionally filtered by read flag.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int, error) {
	where := ""
	args := []interface{}{}
	if filter.Read != nil {
		where = ` WHERE read = $1`
		args = append(args, *filter.Read)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM enrollments"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM enrollments%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		enrollmentColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, total, nil
}

// FindByID fetches a single enrollment.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments WHERE id = $1`, enrollmentColumns)
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// MarkRead flips the read flag.
func (r *EnrollmentRepository) MarkRead(ctx context.Context, id string) error {
	const query = `UPDATE enrollments SET read = TRUE, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("mark enrollment read: %w", err)
	}
	return nil
}

// Delete removes an enrollment row.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete enrollment rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete enrollment %s: no rows affected", id)
	}
	return nil
}
