package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gracebti/admissions-api/internal/dto"
	"github.com/gracebti/admissions-api/internal/models"
	appErrors "github.com/gracebti/admissions-api/pkg/errors"
	"github.com/gracebti/admissions-api/pkg/storage"
)

const (
	bucketHeroCarousel = "hero-carousel"

	cacheKeyHeroSlides   = "content:hero_slides"
	cacheKeyNewsEvents   = "content:news_events"
	cacheKeyTestimonials = "content:testimonials"
	cachePatternContent  = "content:*"
)

type contentRepository interface {
	ListHeroSlides(ctx context.Context, activeOnly bool) ([]models.HeroSlide, error)
	FindHeroSlide(ctx context.Context, id string) (*models.HeroSlide, error)
	CreateHeroSlide(ctx context.Context, slide *models.HeroSlide) error
	UpdateHeroSlide(ctx context.Context, slide *models.HeroSlide) error
	DeleteHeroSlide(ctx context.Context, id string) error

	ListNewsEvents(ctx context.Context, activeOnly bool) ([]models.NewsEvent, error)
	CreateNewsEvent(ctx context.Context, event *models.NewsEvent) error
	UpdateNewsEvent(ctx context.Context, event *models.NewsEvent) error
	DeleteNewsEvent(ctx context.Context, id string) error

	ListTestimonials(ctx context.Context, activeOnly bool) ([]models.Testimonial, error)
	CreateTestimonial(ctx context.Context, testimonial *models.Testimonial) error
	UpdateTestimonial(ctx context.Context, testimonial *models.Testimonial) error
	DeleteTestimonial(ctx context.Context, id string) error
}

type contentObjectStore interface {
	Upload(bucket, path string, data []byte) error
	PublicURL(bucket, path string) (string, error)
	Remove(bucket, path string) error
}

// ContentService manages the public site's display collections: hero
// carousel, news/events and testimonials. Public reads are cached; admin
// writes invalidate the cache.
type ContentService struct {
	repo      contentRepository
	store     contentObjectStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewContentService constructs a ContentService.
func NewContentService(repo contentRepository, store contentObjectStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ContentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{repo: repo, store: store, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// PublicHeroSlides returns active carousel slides, cached.
func (s *ContentService) PublicHeroSlides(ctx context.Context) ([]models.HeroSlide, error) {
	var cached []models.HeroSlide
	if hit, _ := s.cache.Get(ctx, cacheKeyHeroSlides, &cached); hit {
		return cached, nil
	}
	slides, err := s.repo.ListHeroSlides(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list hero slides")
	}
	_ = s.cache.Set(ctx, cacheKeyHeroSlides, slides, 0)
	return slides, nil
}

// AdminHeroSlides returns every slide, uncached.
func (s *ContentService) AdminHeroSlides(ctx context.Context) ([]models.HeroSlide, error) {
	slides, err := s.repo.ListHeroSlides(ctx, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list hero slides")
	}
	return slides, nil
}

// CreateHeroSlide uploads the slide image and inserts the slide.
func (s *ContentService) CreateHeroSlide(ctx context.Context, req dto.UpsertHeroSlideRequest, image *FileUpload) (*models.HeroSlide, error) {
	if image == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "slide image is required")
	}
	if msg := validateUpload(image); msg != "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, msg)
	}

	path := storage.NewObjectKey(image.Filename)
	if err := s.store.Upload(bucketHeroCarousel, path, image.Data); err != nil {
		if errors.Is(err, storage.ErrBucketNotFound) {
			return nil, appErrors.Wrap(err, appErrors.ErrBucketNotFound.Code, appErrors.ErrBucketNotFound.Status,
				"storage bucket not found; create a public \"hero-carousel\" bucket in the storage dashboard and retry")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, err.Error())
	}
	url, err := s.store.PublicURL(bucketHeroCarousel, path)
	if err != nil {
		s.removeHeroObject(path)
		return nil, appErrors.Wrap(err, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, "failed to resolve uploaded image URL")
	}

	slide := &models.HeroSlide{
		ID:         uuid.NewString(),
		ImageURL:   url,
		OrderIndex: req.OrderIndex,
		IsActive:   req.IsActive == nil || *req.IsActive,
		CreatedAt:  s.now().UTC(),
	}
	if title := req.Title; title != "" {
		slide.Title = &title
	}
	if err := s.repo.CreateHeroSlide(ctx, slide); err != nil {
		s.removeHeroObject(path)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create hero slide")
	}
	s.invalidateContentCache(ctx)
	return slide, nil
}

// UpdateHeroSlide updates slide fields and optionally replaces the image.
func (s *ContentService) UpdateHeroSlide(ctx context.Context, id string, req dto.UpsertHeroSlideRequest, image *FileUpload) (*models.HeroSlide, error) {
	slide, err := s.repo.FindHeroSlide(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "hero slide not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch hero slide")
	}

	if image != nil {
		if msg := validateUpload(image); msg != "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, msg)
		}
		path := storage.NewObjectKey(image.Filename)
		if err := s.store.Upload(bucketHeroCarousel, path, image.Data); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, err.Error())
		}
		url, err := s.store.PublicURL(bucketHeroCarousel, path)
		if err != nil {
			s.removeHeroObject(path)
			return nil, appErrors.Wrap(err, appErrors.ErrUploadFailed.Code, appErrors.ErrUploadFailed.Status, "failed to resolve uploaded image URL")
		}
		slide.ImageURL = url
	}

	if req.Title != "" {
		title := req.Title
		slide.Title = &title
	}
	slide.OrderIndex = req.OrderIndex
	if req.IsActive != nil {
		slide.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateHeroSlide(ctx, slide); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update hero slide")
	}
	s.invalidateContentCache(ctx)
	return slide, nil
}

// DeleteHeroSlide removes a slide.
func (s *ContentService) DeleteHeroSlide(ctx context.Context, id string) error {
	if _, err := s.repo.FindHeroSlide(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "hero slide not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch hero slide")
	}
	if err := s.repo.DeleteHeroSlide(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete hero slide")
	}
	s.invalidateContentCache(ctx)
	return nil
}

// PublicNewsEvents returns active announcements, cached.
func (s *ContentService) PublicNewsEvents(ctx context.Context) ([]models.NewsEvent, error) {
	var cached []models.NewsEvent
	if hit, _ := s.cache.Get(ctx, cacheKeyNewsEvents, &cached); hit {
		return cached, nil
	}
	events, err := s.repo.ListNewsEvents(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list news events")
	}
	_ = s.cache.Set(ctx, cacheKeyNewsEvents, events, 0)
	return events, nil
}

// CreateNewsEvent validates and inserts an announcement.
func (s *ContentService) CreateNewsEvent(ctx context.Context, req dto.UpsertNewsEventRequest) (*models.NewsEvent, error) {
	event, err := s.newsEventFromRequest(req)
	if err != nil {
		return nil, err
	}
	event.ID = uuid.NewString()
	event.CreatedAt = s.now().UTC()
	if err := s.repo.CreateNewsEvent(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create news event")
	}
	s.invalidateContentCache(ctx)
	return event, nil
}

// UpdateNewsEvent validates and rewrites an announcement.
func (s *ContentService) UpdateNewsEvent(ctx context.Context, id string, req dto.UpsertNewsEventRequest) (*models.NewsEvent, error) {
	event, err := s.newsEventFromRequest(req)
	if err != nil {
		return nil, err
	}
	event.ID = id
	if err := s.repo.UpdateNewsEvent(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update news event")
	}
	s.invalidateContentCache(ctx)
	return event, nil
}

// DeleteNewsEvent removes an announcement.
func (s *ContentService) DeleteNewsEvent(ctx context.Context, id string) error {
	if err := s.repo.DeleteNewsEvent(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete news event")
	}
	s.invalidateContentCache(ctx)
	return nil
}

// PublicTestimonials returns active testimonials, cached.
func (s *ContentService) PublicTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	var cached []models.Testimonial
	if hit, _ := s.cache.Get(ctx, cacheKeyTestimonials, &cached); hit {
		return cached, nil
	}
	testimonials, err := s.repo.ListTestimonials(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list testimonials")
	}
	_ = s.cache.Set(ctx, cacheKeyTestimonials, testimonials, 0)
	return testimonials, nil
}

// CreateTestimonial validates and inserts a testimonial.
func (s *ContentService) CreateTestimonial(ctx context.Context, req dto.UpsertTestimonialRequest) (*models.Testimonial, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid testimonial payload")
	}
	testimonial := &models.Testimonial{
		ID:         uuid.NewString(),
		Text:       req.Text,
		Author:     req.Author,
		Title:      req.Title,
		AvatarURL:  req.AvatarURL,
		OrderIndex: req.OrderIndex,
		IsActive:   req.IsActive == nil || *req.IsActive,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.CreateTestimonial(ctx, testimonial); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create testimonial")
	}
	s.invalidateContentCache(ctx)
	return testimonial, nil
}

// UpdateTestimonial validates and rewrites a testimonial.
func (s *ContentService) UpdateTestimonial(ctx context.Context, id string, req dto.UpsertTestimonialRequest) (*models.Testimonial, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid testimonial payload")
	}
	testimonial := &models.Testimonial{
		ID:         id,
		Text:       req.Text,
		Author:     req.Author,
		Title:      req.Title,
		AvatarURL:  req.AvatarURL,
		OrderIndex: req.OrderIndex,
		IsActive:   req.IsActive == nil || *req.IsActive,
	}
	if err := s.repo.UpdateTestimonial(ctx, testimonial); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update testimonial")
	}
	s.invalidateContentCache(ctx)
	return testimonial, nil
}

// DeleteTestimonial removes a testimonial.
func (s *ContentService) DeleteTestimonial(ctx context.Context, id string) error {
	if err := s.repo.DeleteTestimonial(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete testimonial")
	}
	s.invalidateContentCache(ctx)
	return nil
}

func (s *ContentService) newsEventFromRequest(req dto.UpsertNewsEventRequest) (*models.NewsEvent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid news event payload")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	return &models.NewsEvent{
		Title:        req.Title,
		Description:  req.Description,
		Date:         date,
		ImageURL:     req.ImageURL,
		ReadMoreLink: req.ReadMoreLink,
		StartTime:    req.StartTime,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}, nil
}

func (s *ContentService) invalidateContentCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, cachePatternContent); err != nil {
		s.logger.Warn("failed to invalidate content cache", zap.Error(err))
	}
}

func (s *ContentService) removeHeroObject(path string) {
	if err := s.store.Remove(bucketHeroCarousel, path); err != nil {
		s.logger.Warn("failed to remove hero image", zap.String("path", path), zap.Error(err))
	}
}
