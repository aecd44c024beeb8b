package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Layout constants for A4 portrait documents, in millimetres.
const (
	pageMargin    = 20.0
	lineHeight    = 6.0
	headingHeight = 8.0
)

// ImageData is a decoded raster image ready for embedding.
type ImageData struct {
	Data   []byte
	Format string // "JPEG", "PNG" or "GIF"
	Width  int
	Height int
}

// DocumentImage pairs a source URL with its fetched image. A nil Image marks
// a fetch failure; the renderer degrades to an inline placeholder.
type DocumentImage struct {
	URL   string
	Image *ImageData
}

// EnrollmentDocument carries everything the PDF renderer needs. Fields are
// already formatted for display.
type EnrollmentDocument struct {
	CourseTitle    string
	EnrolledAt     string
	Name           string
	Email          string
	Phone          string
	DateOfBirth    string
	Nationality    string
	Languages      string
	MaritalStatus  string
	Address        string
	ChurchName     string
	ChurchPosition string
	PastorAware    string
	PreviousSchool string
	ESignature     DocumentImage
	PhotoCopy      DocumentImage
}

// DocumentBuilder wraps gofpdf with a running vertical cursor and automatic
// page breaks.
type DocumentBuilder struct {
	pdf        *gofpdf.Fpdf
	pageWidth  float64
	pageHeight float64
	y          float64
}

// NewDocumentBuilder starts a fresh A4 portrait document.
func NewDocumentBuilder() *DocumentBuilder {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	w, h := pdf.GetPageSize()
	return &DocumentBuilder{pdf: pdf, pageWidth: w, pageHeight: h, y: pageMargin}
}

// EnsureSpace starts a new page when the remaining vertical space cannot fit
// the required height. Reports whether a break occurred.
func (b *DocumentBuilder) EnsureSpace(required float64) bool {
	if b.y+required > b.pageHeight-pageMargin {
		b.pdf.AddPage()
		b.y = pageMargin
		return true
	}
	return false
}

// Title writes the centered document title.
func (b *DocumentBuilder) Title(text string) {
	b.pdf.SetFont("Helvetica", "B", 18)
	b.pdf.Text(b.pageWidth/2-b.pdf.GetStringWidth(text)/2, b.y, text)
	b.y += 15
}

// Heading writes a bold section heading.
func (b *DocumentBuilder) Heading(text string) {
	b.pdf.SetFont("Helvetica", "B", 14)
	b.pdf.Text(pageMargin, b.y, text)
	b.y += headingHeight
}

// FieldRow writes one "Label: value" line.
func (b *DocumentBuilder) FieldRow(label, value string) {
	b.pdf.SetFont("Helvetica", "", 11)
	b.pdf.Text(pageMargin, b.y, fmt.Sprintf("%s: %s", label, value))
	b.y += lineHeight
}

// WrappedRow writes a potentially long field wrapped to the content width,
// consuming one line per wrapped row plus trailing spacing.
func (b *DocumentBuilder) WrappedRow(label, value string) {
	b.pdf.SetFont("Helvetica", "", 11)
	lines := b.pdf.SplitText(fmt.Sprintf("%s: %s", label, value), b.contentWidth())
	for _, line := range lines {
		b.pdf.Text(pageMargin, b.y, line)
		b.y += lineHeight
	}
	b.y += 10
}

// Spacer advances the cursor without writing.
func (b *DocumentBuilder) Spacer(h float64) {
	b.y += h
}

// Image embeds the raster scaled to fit the content width without exceeding
// maxHeight, preserving aspect ratio. Height wins when both constraints bind.
func (b *DocumentBuilder) Image(name string, img ImageData, maxHeight float64) error {
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("image %s has no dimensions", name)
	}
	width, height := FitImage(img.Width, img.Height, b.contentWidth(), maxHeight)

	opts := gofpdf.ImageOptions{ImageType: img.Format, ReadDpi: false}
	b.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	if b.pdf.Err() {
		err := b.pdf.Error()
		b.pdf.ClearError()
		return fmt.Errorf("register image %s: %v", name, err)
	}
	b.pdf.ImageOptions(name, pageMargin, b.y, width, height, false, opts, 0, "")
	if b.pdf.Err() {
		err := b.pdf.Error()
		b.pdf.ClearError()
		return fmt.Errorf("place image %s: %v", name, err)
	}
	b.y += height + 10
	return nil
}

// ImageFallback records an inline failure note with a truncated source URL.
func (b *DocumentBuilder) ImageFallback(label, url string) {
	b.pdf.SetFont("Helvetica", "", 11)
	b.pdf.Text(pageMargin, b.y, fmt.Sprintf("%s: Failed to load image", label))
	b.y += headingHeight
	b.pdf.Text(pageMargin, b.y, fmt.Sprintf("URL: %s...", truncate(url, 80)))
	b.y += lineHeight
}

// Footer writes the generation timestamp centered near the bottom of the
// current (final) page.
func (b *DocumentBuilder) Footer(generatedAt time.Time) {
	b.EnsureSpace(20)
	text := fmt.Sprintf("Generated on: %s", generatedAt.Format("1/2/2006, 3:04:05 PM"))
	b.pdf.SetFont("Helvetica", "I", 9)
	b.pdf.Text(b.pageWidth/2-b.pdf.GetStringWidth(text)/2, b.pageHeight-15, text)
}

// Output finalises the document.
func (b *DocumentBuilder) Output() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := b.pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Y exposes the cursor position for layout assertions.
func (b *DocumentBuilder) Y() float64 {
	return b.y
}

// PageCount reports how many pages have been started.
func (b *DocumentBuilder) PageCount() int {
	return b.pdf.PageCount()
}

func (b *DocumentBuilder) contentWidth() float64 {
	return b.pageWidth - 2*pageMargin
}

// PDFExporter renders one enrollment record into a paginated PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render lays out the full enrollment document. A missing image never fails
// the render; it is replaced by an inline placeholder. generatedAt drives
// both the footer and the PDF creation date so identical inputs produce
// identical bytes.
func (e *PDFExporter) Render(doc EnrollmentDocument, generatedAt time.Time) ([]byte, error) {
	b := NewDocumentBuilder()
	b.pdf.SetCreationDate(generatedAt)

	b.Title("Course Enrollment Form")

	b.Heading("Course Information")
	b.FieldRow("Course", doc.CourseTitle)
	b.FieldRow("Enrollment Date", doc.EnrolledAt)
	b.Spacer(4)

	b.EnsureSpace(30)
	b.Heading("Personal Information")
	b.FieldRow("Name", doc.Name)
	b.FieldRow("Email", doc.Email)
	b.FieldRow("Phone", doc.Phone)
	b.FieldRow("Date of Birth", doc.DateOfBirth)
	b.FieldRow("Nationality", doc.Nationality)
	b.FieldRow("Languages", doc.Languages)
	b.FieldRow("Marital Status", doc.MaritalStatus)
	b.WrappedRow("Address", doc.Address)

	b.EnsureSpace(40)
	b.Heading("Church & Training Information")
	b.FieldRow("Church Name", doc.ChurchName)
	if doc.ChurchPosition != "" {
		b.FieldRow("Church Position", doc.ChurchPosition)
	}
	b.FieldRow("Pastor/Overseer Awareness", doc.PastorAware)
	b.FieldRow("Previous Bible School/College/Seminary", doc.PreviousSchool)
	b.Spacer(4)

	b.EnsureSpace(80)
	b.Heading("Documents")

	e.placeImage(b, "E-Signature", doc.ESignature, 50)
	b.EnsureSpace(90)
	e.placeImage(b, "Photo Copy", doc.PhotoCopy, 70)

	b.Footer(generatedAt)

	return b.Output()
}

func (e *PDFExporter) placeImage(b *DocumentBuilder, label string, img DocumentImage, maxHeight float64) {
	if img.Image == nil {
		b.ImageFallback(label, img.URL)
		return
	}
	b.FieldRow(label+":", "")
	b.Spacer(2)
	b.EnsureSpace(maxHeight)
	if err := b.Image(strings.ToLower(strings.ReplaceAll(label, " ", "-")), *img.Image, maxHeight); err != nil {
		b.ImageFallback(label, img.URL)
	}
}

// FitImage computes display dimensions that fill maxWidth while never
// exceeding maxHeight, preserving aspect ratio. When the width-derived height
// is too tall the image is shrunk by height instead.
func FitImage(pixelWidth, pixelHeight int, maxWidth, maxHeight float64) (float64, float64) {
	aspect := float64(pixelWidth) / float64(pixelHeight)
	width := maxWidth
	height := width / aspect
	if height > maxHeight {
		height = maxHeight
		width = height * aspect
	}
	return width, height
}

func truncate(raw string, limit int) string {
	if len(raw) <= limit {
		return raw
	}
	return raw[:limit]
}
