package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/gracebti/admissions-api/internal/dto"
	"github.com/gracebti/admissions-api/internal/models"
	appErrors "github.com/gracebti/admissions-api/pkg/errors"
)

type contactServiceMock struct {
	submitResp *models.ContactSubmission
	submitErr  error
	listResp   []models.ContactSubmission
	pagination *models.Pagination
	deleteErr  error
}

func (m *contactServiceMock) Submit(ctx context.Context, req dto.ContactRequest) (*models.ContactSubmission, error) {
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return m.submitResp, nil
}

func (m *contactServiceMock) List(ctx context.Context, page, pageSize int) ([]models.ContactSubmission, *models.Pagination, error) {
	return m.listResp, m.pagination, nil
}

func (m *contactServiceMock) MarkRead(ctx context.Context, id string) error { return nil }

func (m *contactServiceMock) Delete(ctx context.Context, id string) error { return m.deleteErr }

func TestContactSubmitReturnsCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &contactServiceMock{submitResp: &models.ContactSubmission{ID: "c-1", Name: "Jo", Email: "jo@example.com", Message: "Hello"}}
	handler := NewContactHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.ContactRequest{Name: "Jo", Email: "jo@example.com", Message: "Hello"})
	req, _ := http.NewRequest(http.MethodPost, "/contact", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Submit(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"c-1"`)
}

func TestContactSubmitSurfacesValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &contactServiceMock{submitErr: appErrors.Clone(appErrors.ErrValidation, "Email is required")}
	handler := NewContactHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.ContactRequest{Name: "Jo"})
	req, _ := http.NewRequest(http.MethodPost, "/contact", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email is required")
}

func TestContactListUsesQueryPaging(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &contactServiceMock{
		listResp:   []models.ContactSubmission{{ID: "c-1", Name: "Jo"}},
		pagination: &models.Pagination{Page: 2, PageSize: 10, TotalCount: 11},
	}
	handler := NewContactHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/admin/contact-submissions?page=2&page_size=10", nil)
	c.Request = req

	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"page":2`)
}

func TestContactDeleteNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &contactServiceMock{deleteErr: appErrors.ErrNotFound}
	handler := NewContactHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/admin/contact-submissions/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
