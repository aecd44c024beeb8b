package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gracebti/admissions-api/internal/dto"
	"github.com/gracebti/admissions-api/internal/models"
	appErrors "github.com/gracebti/admissions-api/pkg/errors"
	"github.com/gracebti/admissions-api/pkg/export"
)

type stubImageFetcher struct {
	images map[string]*export.ImageData
	calls  []string
}

func (s *stubImageFetcher) Fetch(_ context.Context, url string) (*export.ImageData, error) {
	s.calls = append(s.calls, url)
	if img, ok := s.images[url]; ok {
		return img, nil
	}
	return nil, errors.New("unreachable")
}

func exportTestImage(t *testing.T, width, height int) *export.ImageData {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 80, G: 80, B: 80, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return &export.ImageData{Data: buf.Bytes(), Format: "PNG", Width: width, Height: height}
}

func newExportFixture(t *testing.T) (*ExportService, *stubEnrollmentRepo, *stubImageFetcher) {
	enrollment := sampleEnrollment("abcdef12-3456-7890-abcd-ef1234567890")
	repo := &stubEnrollmentRepo{
		byID:       map[string]*models.Enrollment{enrollment.ID: enrollment},
		listResult: []models.Enrollment{*enrollment},
		listTotal:  1,
	}
	fetcher := &stubImageFetcher{images: map[string]*export.ImageData{
		enrollment.ESignatureURL: exportTestImage(t, 400, 100),
		enrollment.PhotoCopyURL:  exportTestImage(t, 300, 400),
	}}
	svc := NewExportService(repo, fetcher, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 8, 21, 15, 4, 5, 0, time.UTC) }
	return svc, repo, fetcher
}

func TestExportPDFFilename(t *testing.T) {
	svc, _, _ := newExportFixture(t)

	file, err := svc.ExportPDF(context.Background(), "abcdef12-3456-7890-abcd-ef1234567890")
	require.NoError(t, err)

	assert.Equal(t, "enrollment_Jane_Applicant_abcdef12.pdf", file.Filename)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestExportPDFFetchesBothImages(t *testing.T) {
	svc, _, fetcher := newExportFixture(t)

	_, err := svc.ExportPDF(context.Background(), "abcdef12-3456-7890-abcd-ef1234567890")
	require.NoError(t, err)

	require.Len(t, fetcher.calls, 2)
	assert.Contains(t, fetcher.calls[0], "e-signatures")
	assert.Contains(t, fetcher.calls[1], "photo-copies")
}

func TestExportPDFSurvivesImageFailures(t *testing.T) {
	svc, _, fetcher := newExportFixture(t)
	fetcher.images = nil // every fetch fails

	file, err := svc.ExportPDF(context.Background(), "abcdef12-3456-7890-abcd-ef1234567890")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestExportPDFDeterministic(t *testing.T) {
	svc, _, _ := newExportFixture(t)

	first, err := svc.ExportPDF(context.Background(), "abcdef12-3456-7890-abcd-ef1234567890")
	require.NoError(t, err)
	second, err := svc.ExportPDF(context.Background(), "abcdef12-3456-7890-abcd-ef1234567890")
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data)
}

func TestExportPDFNotFound(t *testing.T) {
	svc, _, _ := newExportFixture(t)

	_, err := svc.ExportPDF(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportCSV(t *testing.T) {
	svc, _, _ := newExportFixture(t)

	file, err := svc.ExportCSV(context.Background(), dto.EnrollmentListRequest{})
	require.NoError(t, err)

	assert.Equal(t, "enrollments_2026-08-21.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Marital Status")
	assert.Contains(t, lines[1], "Jane Applicant")
	assert.Contains(t, lines[1], "Diploma in Theology")
}
