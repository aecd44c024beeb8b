package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gracebti/admissions-api/internal/dto"
	"github.com/gracebti/admissions-api/internal/models"
	"github.com/gracebti/admissions-api/internal/service"
	appErrors "github.com/gracebti/admissions-api/pkg/errors"
	"github.com/gracebti/admissions-api/pkg/response"
)

type contentService interface {
	PublicHeroSlides(ctx context.Context) ([]models.HeroSlide, error)
	AdminHeroSlides(ctx context.Context) ([]models.HeroSlide, error)
	CreateHeroSlide(ctx context.Context, req dto.UpsertHeroSlideRequest, image *service.FileUpload) (*models.HeroSlide, error)
	UpdateHeroSlide(ctx context.Context, id string, req dto.UpsertHeroSlideRequest, image *service.FileUpload) (*models.HeroSlide, error)
	DeleteHeroSlide(ctx context.Context, id string) error

	PublicNewsEvents(ctx context.Context) ([]models.NewsEvent, error)
	CreateNewsEvent(ctx context.Context, req dto.UpsertNewsEventRequest) (*models.NewsEvent, error)
	UpdateNewsEvent(ctx context.Context, id string, req dto.UpsertNewsEventRequest) (*models.NewsEvent, error)
	DeleteNewsEvent(ctx context.Context, id string) error

	PublicTestimonials(ctx context.Context) ([]models.Testimonial, error)
	CreateTestimonial(ctx context.Context, req dto.UpsertTestimonialRequest) (*models.Testimonial, error)
	UpdateTestimonial(ctx context.Context, id string, req dto.UpsertTestimonialRequest) (*models.Testimonial, error)
	DeleteTestimonial(ctx context.Context, id string) error
}

// ContentHandler serves the marketing site content: the hero carousel, news
// and events, and testimonials.
type ContentHandler struct {
	content contentService
}

// NewContentHandler builds a new handler.
func NewContentHandler(content contentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// HeroSlides godoc
// @Summary List active hero carousel slides
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /hero-carousel [get]
func (h *ContentHandler) HeroSlides(c *gin.Context) {
	slides, err := h.content.PublicHeroSlides(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slides, nil)
}

// AdminHeroSlides godoc
// @Summary List all hero carousel slides, including inactive ones
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/hero-carousel [get]
func (h *ContentHandler) AdminHeroSlides(c *gin.Context) {
	slides, err := h.content.AdminHeroSlides(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slides, nil)
}

// CreateHeroSlide godoc
// @Summary Create a hero carousel slide
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/hero-carousel [post]
func (h *ContentHandler) CreateHeroSlide(c *gin.Context) {
	var req dto.UpsertHeroSlideRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slide payload"))
		return
	}
	image, err := formFileUpload(c, "image")
	if err != nil {
		response.Error(c, err)
		return
	}
	slide, err := h.content.CreateHeroSlide(c.Request.Context(), req, image)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slide)
}

// UpdateHeroSlide godoc
// @Summary Update a hero carousel slide
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Slide ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/hero-carousel/{id} [put]
func (h *ContentHandler) UpdateHeroSlide(c *gin.Context) {
	var req dto.UpsertHeroSlideRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slide payload"))
		return
	}
	image, err := formFileUpload(c, "image")
	if err != nil {
		response.Error(c, err)
		return
	}
	slide, err := h.content.UpdateHeroSlide(c.Request.Context(), c.Param("id"), req, image)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slide, nil)
}

// DeleteHeroSlide godoc
// @Summary Delete a hero carousel slide
// @Tags Admin
// @Param id path string true "Slide ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/hero-carousel/{id} [delete]
func (h *ContentHandler) DeleteHeroSlide(c *gin.Context) {
	if err := h.content.DeleteHeroSlide(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// NewsEvents godoc
// @Summary List active news and events
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /news-events [get]
func (h *ContentHandler) NewsEvents(c *gin.Context) {
	items, err := h.content.PublicNewsEvents(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// CreateNewsEvent godoc
// @Summary Create a news/event entry
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.UpsertNewsEventRequest true "News payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/news-events [post]
func (h *ContentHandler) CreateNewsEvent(c *gin.Context) {
	var req dto.UpsertNewsEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid news payload"))
		return
	}
	item, err := h.content.CreateNewsEvent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// UpdateNewsEvent godoc
// @Summary Update a news/event entry
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "News ID"
// @Param payload body dto.UpsertNewsEventRequest true "News payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/news-events/{id} [put]
func (h *ContentHandler) UpdateNewsEvent(c *gin.Context) {
	var req dto.UpsertNewsEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid news payload"))
		return
	}
	item, err := h.content.UpdateNewsEvent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// DeleteNewsEvent godoc
// @Summary Delete a news/event entry
// @Tags Admin
// @Param id path string true "News ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/news-events/{id} [delete]
func (h *ContentHandler) DeleteNewsEvent(c *gin.Context) {
	if err := h.content.DeleteNewsEvent(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Testimonials godoc
// @Summary List active testimonials
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /testimonials [get]
func (h *ContentHandler) Testimonials(c *gin.Context) {
	items, err := h.content.PublicTestimonials(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// CreateTestimonial godoc
// @Summary Create a testimonial
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.UpsertTestimonialRequest true "Testimonial payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/testimonials [post]
func (h *ContentHandler) CreateTestimonial(c *gin.Context) {
	var req dto.UpsertTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid testimonial payload"))
		return
	}
	item, err := h.content.CreateTestimonial(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// UpdateTestimonial godoc
// @Summary Update a testimonial
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Testimonial ID"
// @Param payload body dto.UpsertTestimonialRequest true "Testimonial payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/testimonials/{id} [put]
func (h *ContentHandler) UpdateTestimonial(c *gin.Context) {
	var req dto.UpsertTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid testimonial payload"))
		return
	}
	item, err := h.content.UpdateTestimonial(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// DeleteTestimonial godoc
// @Summary Delete a testimonial
// @Tags Admin
// @Param id path string true "Testimonial ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/testimonials/{id} [delete]
func (h *ContentHandler) DeleteTestimonial(c *gin.Context) {
	if err := h.content.DeleteTestimonial(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
