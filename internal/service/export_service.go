package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gracebti/admissions-api/internal/dto"
	"github.com/gracebti/admissions-api/internal/models"
	appErrors "github.com/gracebti/admissions-api/pkg/errors"
	"github.com/gracebti/admissions-api/pkg/export"
)

type exportEnrollmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int, error)
}

type documentImageFetcher interface {
	Fetch(ctx context.Context, url string) (*export.ImageData, error)
}

type pdfRenderer interface {
	Render(doc export.EnrollmentDocument, generatedAt time.Time) ([]byte, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered export ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService builds downloadable enrollment exports. PDFs are rendered
// fresh on every request and never persisted.
type ExportService struct {
	repo   exportEnrollmentReader
	images documentImageFetcher
	pdf    pdfRenderer
	csv    csvRenderer
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(repo exportEnrollmentReader, images documentImageFetcher, pdf pdfRenderer, csv csvRenderer, logger *zap.Logger) *ExportService {
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{repo: repo, images: images, pdf: pdf, csv: csv, logger: logger, now: time.Now}
}

// ExportPDF renders one enrollment into a paginated PDF. A failed image
// fetch degrades to an inline placeholder; a failed document build is fatal.
func (s *ExportService) ExportPDF(ctx context.Context, id string) (*ExportFile, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch enrollment")
	}

	doc := s.buildDocument(ctx, enrollment)

	data, err := s.pdf.Render(doc, s.now())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrExportFailed.Code, appErrors.ErrExportFailed.Status, appErrors.ErrExportFailed.Message)
	}

	return &ExportFile{
		Filename:    exportFilename(enrollment.Name, enrollment.ID),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

// ExportCSV renders the filtered enrollment list as CSV.
func (s *ExportService) ExportCSV(ctx context.Context, req dto.EnrollmentListRequest) (*ExportFile, error) {
	filter := models.EnrollmentFilter{Read: req.Read, Page: 1, PageSize: 1000}
	enrollments, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	dataset := export.Dataset{
		Headers: []string{
			"ID", "Course", "Name", "Email", "Phone", "Date of Birth", "Nationality",
			"Languages", "Marital Status", "Church Name", "Pastor/Overseer Aware",
			"Previous Bible School", "Read", "Created At",
		},
	}
	for _, e := range enrollments {
		dataset.Rows = append(dataset.Rows, []string{
			e.ID, e.CourseTitle, e.Name, e.Email, e.Phone,
			e.DateOfBirth.Format("2006-01-02"), e.Nationality, e.Languages,
			e.MaritalStatus, e.ChurchName, yesNo(e.PastorOverseerAwareness),
			yesNo(e.PreviousBibleSchool), fmt.Sprintf("%t", e.Read),
			e.CreatedAt.Format(time.RFC3339),
		})
	}

	data, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrExportFailed.Code, appErrors.ErrExportFailed.Status, appErrors.ErrExportFailed.Message)
	}
	return &ExportFile{
		Filename:    "enrollments_" + s.now().Format("2006-01-02") + ".csv",
		ContentType: "text/csv",
		Data:        data,
	}, nil
}

func (s *ExportService) buildDocument(ctx context.Context, e *models.Enrollment) export.EnrollmentDocument {
	churchPosition := ""
	if e.ChurchPosition != nil {
		churchPosition = *e.ChurchPosition
	}
	return export.EnrollmentDocument{
		CourseTitle:    e.CourseTitle,
		EnrolledAt:     e.CreatedAt.Format("1/2/2006"),
		Name:           e.Name,
		Email:          e.Email,
		Phone:          e.Phone,
		DateOfBirth:    e.DateOfBirth.Format("1/2/2006"),
		Nationality:    e.Nationality,
		Languages:      e.Languages,
		MaritalStatus:  e.MaritalStatus,
		Address:        e.Address,
		ChurchName:     e.ChurchName,
		ChurchPosition: churchPosition,
		PastorAware:    yesNo(e.PastorOverseerAwareness),
		PreviousSchool: yesNo(e.PreviousBibleSchool),
		ESignature:     s.fetchDocumentImage(ctx, e.ESignatureURL),
		PhotoCopy:      s.fetchDocumentImage(ctx, e.PhotoCopyURL),
	}
}

// fetchDocumentImage downgrades a fetch failure to a nil image so the
// renderer places its fallback text instead.
func (s *ExportService) fetchDocumentImage(ctx context.Context, url string) export.DocumentImage {
	if s.images == nil || url == "" {
		return export.DocumentImage{URL: url}
	}
	img, err := s.images.Fetch(ctx, url)
	if err != nil {
		s.logger.Warn("failed to fetch export image", zap.String("url", url), zap.Error(err))
		return export.DocumentImage{URL: url}
	}
	return export.DocumentImage{URL: url, Image: img}
}

func exportFilename(name, id string) string {
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("enrollment_%s_%s.pdf", strings.ReplaceAll(name, " ", "_"), short)
}

func yesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}
