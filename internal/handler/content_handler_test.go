package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gracebti/admissions-api/internal/dto"
	"github.com/gracebti/admissions-api/internal/models"
	"github.com/gracebti/admissions-api/internal/service"
	appErrors "github.com/gracebti/admissions-api/pkg/errors"
)

type contentServiceMock struct {
	heroSlides      []models.HeroSlide
	adminHeroSlides []models.HeroSlide
	newsEvents      []models.NewsEvent
	testimonials    []models.Testimonial

	createdSlide *models.HeroSlide
	createErr    error
	lastImage    *service.FileUpload
}

func (m *contentServiceMock) PublicHeroSlides(ctx context.Context) ([]models.HeroSlide, error) {
	return m.heroSlides, nil
}

func (m *contentServiceMock) AdminHeroSlides(ctx context.Context) ([]models.HeroSlide, error) {
	return m.adminHeroSlides, nil
}

func (m *contentServiceMock) CreateHeroSlide(ctx context.Context, req dto.UpsertHeroSlideRequest, image *service.FileUpload) (*models.HeroSlide, error) {
	m.lastImage = image
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.createdSlide, nil
}

func (m *contentServiceMock) UpdateHeroSlide(ctx context.Context, id string, req dto.UpsertHeroSlideRequest, image *service.FileUpload) (*models.HeroSlide, error) {
	return m.createdSlide, nil
}

func (m *contentServiceMock) DeleteHeroSlide(ctx context.Context, id string) error { return nil }

func (m *contentServiceMock) PublicNewsEvents(ctx context.Context) ([]models.NewsEvent, error) {
	return m.newsEvents, nil
}

func (m *contentServiceMock) CreateNewsEvent(ctx context.Context, req dto.UpsertNewsEventRequest) (*models.NewsEvent, error) {
	return &models.NewsEvent{ID: "n-1", Title: req.Title}, nil
}

func (m *contentServiceMock) UpdateNewsEvent(ctx context.Context, id string, req dto.UpsertNewsEventRequest) (*models.NewsEvent, error) {
	return &models.NewsEvent{ID: id, Title: req.Title}, nil
}

func (m *contentServiceMock) DeleteNewsEvent(ctx context.Context, id string) error { return nil }

func (m *contentServiceMock) PublicTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	return m.testimonials, nil
}

func (m *contentServiceMock) CreateTestimonial(ctx context.Context, req dto.UpsertTestimonialRequest) (*models.Testimonial, error) {
	return &models.Testimonial{ID: "t-1", Text: req.Text, Author: req.Author}, nil
}

func (m *contentServiceMock) UpdateTestimonial(ctx context.Context, id string, req dto.UpsertTestimonialRequest) (*models.Testimonial, error) {
	return &models.Testimonial{ID: id, Text: req.Text, Author: req.Author}, nil
}

func (m *contentServiceMock) DeleteTestimonial(ctx context.Context, id string) error { return nil }

func TestHeroSlidesReturnsPublicList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	title := "Welcome"
	mock := &contentServiceMock{heroSlides: []models.HeroSlide{{ID: "h-1", Title: &title, ImageURL: "http://localhost:8080/files/hero-carousel/1_ab.jpg"}}}
	handler := NewContentHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/hero-carousel", nil)
	c.Request = req

	handler.HeroSlides(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome")
}

func TestCreateHeroSlidePassesImageThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &contentServiceMock{createdSlide: &models.HeroSlide{ID: "h-1", ImageURL: "http://localhost:8080/files/hero-carousel/1_ab.jpg"}}
	handler := NewContentHandler(mock)

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	require.NoError(t, writer.WriteField("title", "Open day"))
	require.NoError(t, writer.WriteField("order_index", "2"))
	img, err := writer.CreateFormFile("image", "banner.jpg")
	require.NoError(t, err)
	_, err = img.Write([]byte("\xff\xd8\xfffake"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/admin/hero-carousel", buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.Request = req

	handler.CreateHeroSlide(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mock.lastImage)
	assert.Equal(t, "banner.jpg", mock.lastImage.Filename)
}

func TestCreateHeroSlideSurfacesServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &contentServiceMock{createErr: appErrors.Clone(appErrors.ErrValidation, "Image is required")}
	handler := NewContentHandler(mock)

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	require.NoError(t, writer.WriteField("title", "Open day"))
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/admin/hero-carousel", buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.Request = req

	handler.CreateHeroSlide(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Image is required")
}

func TestCreateNewsEventReturnsCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewContentHandler(&contentServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.UpsertNewsEventRequest{Title: "Graduation", Description: "Class of 2026", Date: "2026-11-20"})
	req, _ := http.NewRequest(http.MethodPost, "/admin/news-events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.CreateNewsEvent(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Graduation")
}

func TestCreateTestimonialRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewContentHandler(&contentServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/admin/testimonials", bytes.NewReader([]byte("{oops")))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.CreateTestimonial(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
