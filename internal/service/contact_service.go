package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gracebti/admissions-api/internal/dto"
	"github.com/gracebti/admissions-api/internal/models"
	appErrors "github.com/gracebti/admissions-api/pkg/errors"
)

type contactRepository interface {
	Create(ctx context.Context, submission *models.ContactSubmission) error
	List(ctx context.Context, page, pageSize int) ([]models.ContactSubmission, int, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// ContactService handles the public contact form and its admin inbox.
type ContactService struct {
	repo      contactRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewContactService constructs a ContactService.
func NewContactService(repo contactRepository, validate *validator.Validate, logger *zap.Logger) *ContactService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// Submit validates and stores a contact form submission.
func (s *ContactService) Submit(ctx context.Context, req dto.ContactRequest) (*models.ContactSubmission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid contact payload")
	}
	submission := &models.ContactSubmission{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Message:        req.Message,
		CourseType:     req.CourseType,
		SelectedCourse: req.SelectedCourse,
		Read:           false,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, classifyInsertError(err)
	}
	return submission, nil
}

// List returns submissions newest first for the admin inbox.
func (s *ContactService) List(ctx context.Context, page, pageSize int) ([]models.ContactSubmission, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	submissions, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list contact submissions")
	}
	return submissions, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// MarkRead flags a submission as handled.
func (s *ContactService) MarkRead(ctx context.Context, id string) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark submission read")
	}
	return nil
}

// Delete removes a submission.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete submission")
	}
	return nil
}
