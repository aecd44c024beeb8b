package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gracebti/admissions-api/internal/dto"
	"github.com/gracebti/admissions-api/internal/models"
	appErrors "github.com/gracebti/admissions-api/pkg/errors"
	"github.com/gracebti/admissions-api/pkg/response"
)

type contactService interface {
	Submit(ctx context.Context, req dto.ContactRequest) (*models.ContactSubmission, error)
	List(ctx context.Context, page, pageSize int) ([]models.ContactSubmission, *models.Pagination, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// ContactHandler serves the public contact form and its admin inbox.
type ContactHandler struct {
	contacts contactService
}

// NewContactHandler builds a new handler.
func NewContactHandler(contacts contactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// Submit godoc
// @Summary Submit a contact form message
// @Tags Contact
// @Accept json
// @Produce json
// @Param payload body dto.ContactRequest true "Contact payload"
// @Success 201 {object} response.Envelope
// @Router /contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid contact payload"))
		return
	}
	submission, err := h.contacts.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, submission)
}

// List godoc
// @Summary List contact submissions
// @Tags Admin
// @Produce json
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/contact-submissions [get]
func (h *ContactHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	submissions, pagination, err := h.contacts.List(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submissions, pagination)
}

// MarkRead godoc
// @Summary Mark a contact submission as read
// @Tags Admin
// @Param id path string true "Submission ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/contact-submissions/{id}/read [post]
func (h *ContactHandler) MarkRead(c *gin.Context) {
	if err := h.contacts.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete a contact submission
// @Tags Admin
// @Param id path string true "Submission ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/contact-submissions/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.contacts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
