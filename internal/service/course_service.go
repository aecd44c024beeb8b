package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/gracebti/admissions-api/internal/models"
	appErrors "github.com/gracebti/admissions-api/pkg/errors"
)

const cacheKeyCourses = "content:courses"

type courseRepository interface {
	ListActive(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// CourseService serves the public course catalogue.
type CourseService struct {
	repo   courseRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, cache *CacheService, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, logger: logger}
}

// ListActive returns active courses in display order, cached.
func (s *CourseService) ListActive(ctx context.Context) ([]models.Course, error) {
	var cached []models.Course
	if hit, _ := s.cache.Get(ctx, cacheKeyCourses, &cached); hit {
		return cached, nil
	}
	courses, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	_ = s.cache.Set(ctx, cacheKeyCourses, courses, 0)
	return courses, nil
}
