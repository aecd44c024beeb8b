package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gracebti/admissions-api/internal/models"
)

// ContactRepository persists contact form submissions.
type ContactRepository struct {
	db *sqlx.DB
}

// NewContactRepository constructs the repository.
func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts a submission.
func (r *ContactRepository) Create(ctx context.Context, submission *models.ContactSubmission) error {
	const query = `INSERT INTO contact_submissions (id, name, email, phone, message, course_type, selected_course, read, created_at)
VALUES (:id, :name, :email, :phone, :message, :course_type, :selected_course, :read, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, submission); err != nil {
		return fmt.Errorf("insert contact submission: %w", err)
	}
	return nil
}

// List returns submissions newest first.
func (r *ContactRepository) List(ctx context.Context, page, pageSize int) ([]models.ContactSubmission, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM contact_submissions`); err != nil {
		return nil, 0, fmt.Errorf("count contact submissions: %w", err)
	}

	const query = `SELECT id, name, email, phone, message, course_type, selected_course, read, created_at
FROM contact_submissions ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	var submissions []models.ContactSubmission
	if err := r.db.SelectContext(ctx, &submissions, query, pageSize, (page-1)*pageSize); err != nil {
		return nil, 0, fmt.Errorf("list contact submissions: %w", err)
	}
	return submissions, total, nil
}

// MarkRead flips the read flag.
func (r *ContactRepository) MarkRead(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE contact_submissions SET read = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("mark contact submission read: %w", err)
	}
	return nil
}

// Delete removes a submission.
func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM contact_submissions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete contact submission: %w", err)
	}
	return nil
}
