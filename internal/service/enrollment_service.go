package service

import (
	"context"
	"database/sql"
	"strings"

	"go.uber.org/zap"

	"github.com/gracebti/admissions-api/internal/dto"
	"github.com/gracebti/admissions-api/internal/models"
	appErrors "github.com/gracebti/admissions-api/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int, error)
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type enrollmentObjectRemover interface {
	Remove(bucket, path string) error
}

// EnrollmentService serves the admin panel's view of persisted enrollments.
type EnrollmentService struct {
	repo   enrollmentRepository
	store  enrollmentObjectRemover
	logger *zap.Logger
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, store enrollmentObjectRemover, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, store: store, logger: logger}
}

// List returns enrollments newest first, optionally filtered by read flag.
func (s *EnrollmentService) List(ctx context.Context, req dto.EnrollmentListRequest) ([]models.Enrollment, *models.Pagination, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	enrollments, total, err := s.repo.List(ctx, models.EnrollmentFilter{
		Read:     req.Read,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Detail fetches one enrollment and flips its read flag, matching the admin
// opening the record.
func (s *EnrollmentService) Detail(ctx context.Context, id string) (*models.Enrollment, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch enrollment")
	}

	if !enrollment.Read {
		if err := s.repo.MarkRead(ctx, id); err != nil {
			s.logger.Warn("failed to mark enrollment read", zap.String("id", id), zap.Error(err))
		} else {
			enrollment.Read = true
		}
	}
	return enrollment, nil
}

// Delete hard-deletes an enrollment and best-effort removes its two stored
// objects.
func (s *EnrollmentService) Delete(ctx context.Context, id string) error {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch enrollment")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}

	s.removeStoredObject(enrollment.ESignatureURL)
	s.removeStoredObject(enrollment.PhotoCopyURL)
	return nil
}

// removeStoredObject derives the object path from a public URL and removes
// it. Failures are logged only.
func (s *EnrollmentService) removeStoredObject(url string) {
	if s.store == nil || url == "" {
		return
	}
	marker := "/" + bucketEnrollments + "/"
	idx := strings.LastIndex(url, marker)
	if idx < 0 {
		return
	}
	path := url[idx+len(marker):]
	if err := s.store.Remove(bucketEnrollments, path); err != nil {
		s.logger.Warn("failed to remove stored object", zap.String("url", url), zap.Error(err))
	}
}
