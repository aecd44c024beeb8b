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

type intakeServiceMock struct {
	phoneResp  service.PhoneDecision
	step1Errs  map[string]string
	step2Errs  map[string]string
	step3Errs  map[string]string
	submitResp *dto.SubmissionResponse
	submitErrs map[string]string
	submitErr  error

	lastInput service.SubmissionInput
}

func (m *intakeServiceMock) CheckPhone(raw, countryHint string) service.PhoneDecision {
	return m.phoneResp
}

func (m *intakeServiceMock) ValidateStep1(payload dto.Step1Payload) map[string]string {
	return m.step1Errs
}

func (m *intakeServiceMock) ValidateStep2(payload dto.Step2Payload) map[string]string {
	return m.step2Errs
}

func (m *intakeServiceMock) ValidateStep3(eSignature, photoCopy *service.FileUpload) map[string]string {
	return m.step3Errs
}

func (m *intakeServiceMock) Submit(ctx context.Context, input service.SubmissionInput) (*dto.SubmissionResponse, map[string]string, error) {
	m.lastInput = input
	return m.submitResp, m.submitErrs, m.submitErr
}

type adminServiceMock struct {
	listResp   []models.Enrollment
	pagination *models.Pagination
	detailResp *models.Enrollment
	detailErr  error
	deleteErr  error
}

func (m *adminServiceMock) List(ctx context.Context, req dto.EnrollmentListRequest) ([]models.Enrollment, *models.Pagination, error) {
	return m.listResp, m.pagination, nil
}

func (m *adminServiceMock) Detail(ctx context.Context, id string) (*models.Enrollment, error) {
	if m.detailErr != nil {
		return nil, m.detailErr
	}
	return m.detailResp, nil
}

func (m *adminServiceMock) Delete(ctx context.Context, id string) error {
	return m.deleteErr
}

type exportServiceMock struct {
	pdfResp *service.ExportFile
	pdfErr  error
	csvResp *service.ExportFile
}

func (m *exportServiceMock) ExportPDF(ctx context.Context, id string) (*service.ExportFile, error) {
	if m.pdfErr != nil {
		return nil, m.pdfErr
	}
	return m.pdfResp, nil
}

func (m *exportServiceMock) ExportCSV(ctx context.Context, req dto.EnrollmentListRequest) (*service.ExportFile, error) {
	return m.csvResp, nil
}

func newEnrollmentTestHandler(intake *intakeServiceMock, admin *adminServiceMock, exports *exportServiceMock) *EnrollmentHandler {
	gin.SetMode(gin.TestMode)
	if intake == nil {
		intake = &intakeServiceMock{}
	}
	if admin == nil {
		admin = &adminServiceMock{}
	}
	if exports == nil {
		exports = &exportServiceMock{}
	}
	return NewEnrollmentHandler(intake, admin, exports, nil)
}

func TestCheckPhoneReturnsDecision(t *testing.T) {
	intake := &intakeServiceMock{phoneResp: service.PhoneDecision{Accepted: false, Value: "+91984101287955", Error: "Should not exceed 10 numbers"}}
	handler := newEnrollmentTestHandler(intake, nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.PhoneCheckRequest{Phone: "+91984101287955"})
	req, _ := http.NewRequest(http.MethodPost, "/enrollments/phone-check", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.CheckPhone(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Should not exceed 10 numbers")
}

func TestCheckPhoneRejectsMalformedBody(t *testing.T) {
	handler := newEnrollmentTestHandler(nil, nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/enrollments/phone-check", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.CheckPhone(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateStep1ReportsFieldErrors(t *testing.T) {
	intake := &intakeServiceMock{step1Errs: map[string]string{"email": "Invalid email format"}}
	handler := newEnrollmentTestHandler(intake, nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.Step1Payload{Email: "broken"})
	req, _ := http.NewRequest(http.MethodPost, "/enrollments/validate/step1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.ValidateStep1(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"valid":false`)
	assert.Contains(t, w.Body.String(), "Invalid email format")
}

func buildSubmitForm(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	fields := map[string]string{
		"name":                      "Jo",
		"address":                   "12 Main Street",
		"phone":                     "+919841012879",
		"email":                     "a@b.co",
		"date_of_birth":             "2010-08-31",
		"nationality":               "Indian",
		"languages":                 "English",
		"marital_status":            "Single",
		"church_name":               "Grace Chapel",
		"pastor_overseer_awareness": "yes",
		"previous_bible_school":     "no",
		"course_title":              "Diploma in Theology",
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}

	sig, err := writer.CreateFormFile("e_signature", "sig.png")
	require.NoError(t, err)
	_, err = sig.Write([]byte("\x89PNG\r\n\x1a\nfake"))
	require.NoError(t, err)

	photo, err := writer.CreateFormFile("photo_copy", "photo.jpg")
	require.NoError(t, err)
	_, err = photo.Write([]byte("\xff\xd8\xfffake"))
	require.NoError(t, err)

	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func TestSubmitReturnsCreated(t *testing.T) {
	intake := &intakeServiceMock{submitResp: &dto.SubmissionResponse{ID: "abc", CourseTitle: "Diploma in Theology"}}
	handler := newEnrollmentTestHandler(intake, nil, nil)

	body, contentType := buildSubmitForm(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/enrollments", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req

	handler.Submit(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"abc"`)

	assert.Equal(t, "Jo", intake.lastInput.Step1.Name)
	assert.Equal(t, "yes", intake.lastInput.Step2.PastorOverseerAwareness)
	require.NotNil(t, intake.lastInput.ESignature)
	assert.Equal(t, "sig.png", intake.lastInput.ESignature.Filename)
	require.NotNil(t, intake.lastInput.PhotoCopy)
	assert.Equal(t, "photo.jpg", intake.lastInput.PhotoCopy.Filename)
}

func TestSubmitReturnsFieldErrors(t *testing.T) {
	intake := &intakeServiceMock{submitErrs: map[string]string{"name": "Name is required"}}
	handler := newEnrollmentTestHandler(intake, nil, nil)

	body, contentType := buildSubmitForm(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/enrollments", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req

	handler.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Name is required")
}

func TestSubmitMapsPolicyDenied(t *testing.T) {
	intake := &intakeServiceMock{submitErr: appErrors.ErrPolicyDenied}
	handler := newEnrollmentTestHandler(intake, nil, nil)

	body, contentType := buildSubmitForm(t)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/enrollments", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req

	handler.Submit(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListReturnsPagination(t *testing.T) {
	admin := &adminServiceMock{
		listResp:   []models.Enrollment{{ID: "e-1", Name: "Jo"}},
		pagination: &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1},
	}
	handler := newEnrollmentTestHandler(nil, admin, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/admin/enrollments?page=1", nil)
	c.Request = req

	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_count":1`)
}

func TestDetailNotFound(t *testing.T) {
	admin := &adminServiceMock{detailErr: appErrors.ErrNotFound}
	handler := newEnrollmentTestHandler(nil, admin, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/admin/enrollments/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Detail(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportPDFSetsDownloadHeaders(t *testing.T) {
	exports := &exportServiceMock{pdfResp: &service.ExportFile{
		Filename:    "enrollment_Jo_abcdef12.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4"),
	}}
	handler := newEnrollmentTestHandler(nil, nil, exports)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/admin/enrollments/abc/export", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.ExportPDF(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="enrollment_Jo_abcdef12.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4", w.Body.String())
}

func TestExportCSVSetsDownloadHeaders(t *testing.T) {
	exports := &exportServiceMock{csvResp: &service.ExportFile{
		Filename:    "enrollments_2026-08-31.csv",
		ContentType: "text/csv",
		Data:        []byte("ID,Name\n"),
	}}
	handler := newEnrollmentTestHandler(nil, nil, exports)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/admin/enrollments/export", nil)
	c.Request = req

	handler.ExportCSV(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "enrollments_2026-08-31.csv")
}
