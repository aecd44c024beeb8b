package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gracebti/admissions-api/internal/models"
	"github.com/gracebti/admissions-api/pkg/response"
)

type courseService interface {
	ListActive(ctx context.Context) ([]models.Course, error)
}

// CourseHandler serves the course catalogue backing the enrollment form.
type CourseHandler struct {
	courses courseService
}

// NewCourseHandler builds a new handler.
func NewCourseHandler(courses courseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List godoc
// @Summary List active courses
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}
