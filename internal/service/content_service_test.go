package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gracebti/admissions-api/internal/dto"
	"github.com/gracebti/admissions-api/internal/models"
	appErrors "github.com/gracebti/admissions-api/pkg/errors"
)

type stubContentRepo struct {
	heroSlides   []models.HeroSlide
	newsEvents   []models.NewsEvent
	testimonials []models.Testimonial

	createdSlides  []*models.HeroSlide
	updatedSlides  []*models.HeroSlide
	deletedSlides  []string
	createdEvents  []*models.NewsEvent
	createdQuotes  []*models.Testimonial
	lastActiveOnly bool
}

func (s *stubContentRepo) ListHeroSlides(_ context.Context, activeOnly bool) ([]models.HeroSlide, error) {
	s.lastActiveOnly = activeOnly
	return s.heroSlides, nil
}

func (s *stubContentRepo) FindHeroSlide(_ context.Context, id string) (*models.HeroSlide, error) {
	for i := range s.heroSlides {
		if s.heroSlides[i].ID == id {
			copied := s.heroSlides[i]
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubContentRepo) CreateHeroSlide(_ context.Context, slide *models.HeroSlide) error {
	s.createdSlides = append(s.createdSlides, slide)
	return nil
}

func (s *stubContentRepo) UpdateHeroSlide(_ context.Context, slide *models.HeroSlide) error {
	s.updatedSlides = append(s.updatedSlides, slide)
	return nil
}

func (s *stubContentRepo) DeleteHeroSlide(_ context.Context, id string) error {
	s.deletedSlides = append(s.deletedSlides, id)
	return nil
}

func (s *stubContentRepo) ListNewsEvents(_ context.Context, activeOnly bool) ([]models.NewsEvent, error) {
	s.lastActiveOnly = activeOnly
	return s.newsEvents, nil
}

func (s *stubContentRepo) CreateNewsEvent(_ context.Context, event *models.NewsEvent) error {
	s.createdEvents = append(s.createdEvents, event)
	return nil
}

func (s *stubContentRepo) UpdateNewsEvent(_ context.Context, _ *models.NewsEvent) error { return nil }
func (s *stubContentRepo) DeleteNewsEvent(_ context.Context, _ string) error            { return nil }

func (s *stubContentRepo) ListTestimonials(_ context.Context, activeOnly bool) ([]models.Testimonial, error) {
	s.lastActiveOnly = activeOnly
	return s.testimonials, nil
}

func (s *stubContentRepo) CreateTestimonial(_ context.Context, testimonial *models.Testimonial) error {
	s.createdQuotes = append(s.createdQuotes, testimonial)
	return nil
}

func (s *stubContentRepo) UpdateTestimonial(_ context.Context, _ *models.Testimonial) error {
	return nil
}
func (s *stubContentRepo) DeleteTestimonial(_ context.Context, _ string) error { return nil }

func TestContentServicePublicListsUseActiveFilter(t *testing.T) {
	repo := &stubContentRepo{}
	svc := NewContentService(repo, &stubObjectStore{}, nil, nil, nil)

	_, err := svc.PublicHeroSlides(context.Background())
	require.NoError(t, err)
	assert.True(t, repo.lastActiveOnly)

	_, err = svc.AdminHeroSlides(context.Background())
	require.NoError(t, err)
	assert.False(t, repo.lastActiveOnly)
}

func TestContentServiceCreateHeroSlideUploadsImage(t *testing.T) {
	repo := &stubContentRepo{}
	store := &stubObjectStore{}
	svc := NewContentService(repo, store, nil, nil, nil)

	active := true
	slide, err := svc.CreateHeroSlide(context.Background(), dto.UpsertHeroSlideRequest{
		Title:      "Welcome",
		OrderIndex: 1,
		IsActive:   &active,
	}, pngUpload(1024))
	require.NoError(t, err)

	require.Len(t, store.uploads, 1)
	assert.Contains(t, store.uploads[0], "hero-carousel/")
	assert.Contains(t, slide.ImageURL, "hero-carousel/")
	require.NotNil(t, slide.Title)
	assert.Equal(t, "Welcome", *slide.Title)
	require.Len(t, repo.createdSlides, 1)
}

func TestContentServiceCreateHeroSlideRequiresImage(t *testing.T) {
	svc := NewContentService(&stubContentRepo{}, &stubObjectStore{}, nil, nil, nil)

	_, err := svc.CreateHeroSlide(context.Background(), dto.UpsertHeroSlideRequest{}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestContentServiceUpdateHeroSlideNotFound(t *testing.T) {
	svc := NewContentService(&stubContentRepo{}, &stubObjectStore{}, nil, nil, nil)

	_, err := svc.UpdateHeroSlide(context.Background(), "missing", dto.UpsertHeroSlideRequest{}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestContentServiceCreateNewsEventValidatesDate(t *testing.T) {
	repo := &stubContentRepo{}
	svc := NewContentService(repo, &stubObjectStore{}, nil, nil, nil)

	_, err := svc.CreateNewsEvent(context.Background(), dto.UpsertNewsEventRequest{
		Title:       "Open Day",
		Description: "Campus open day",
		Date:        "21/08/2026",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	event, err := svc.CreateNewsEvent(context.Background(), dto.UpsertNewsEventRequest{
		Title:       "Open Day",
		Description: "Campus open day",
		Date:        "2026-08-21",
	})
	require.NoError(t, err)
	assert.True(t, event.IsActive)
	require.Len(t, repo.createdEvents, 1)
}

func TestContentServiceCreateTestimonial(t *testing.T) {
	repo := &stubContentRepo{}
	svc := NewContentService(repo, &stubObjectStore{}, nil, nil, nil)

	testimonial, err := svc.CreateTestimonial(context.Background(), dto.UpsertTestimonialRequest{
		Text:   "The training changed my ministry.",
		Author: "John",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, testimonial.ID)
	assert.True(t, testimonial.IsActive)

	_, err = svc.CreateTestimonial(context.Background(), dto.UpsertTestimonialRequest{Author: "John"})
	require.Error(t, err)
}
