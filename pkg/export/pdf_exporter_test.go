package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, width, height int) ImageData {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return ImageData{Data: buf.Bytes(), Format: "PNG", Width: width, Height: height}
}

func testDocument(t *testing.T) EnrollmentDocument {
	t.Helper()
	return EnrollmentDocument{
		CourseTitle:    "Diploma in Theology",
		EnrolledAt:     "8/21/2026",
		Name:           "Jane Applicant",
		Email:          "jane@example.com",
		Phone:          "+6591234567",
		DateOfBirth:    "1995-04-12",
		Nationality:    "Singaporean",
		Languages:      "English, Mandarin",
		MaritalStatus:  "Single",
		Address:        "Block 12 Example Avenue 3, #05-67, Singapore 560012",
		ChurchName:     "Grace Assembly",
		ChurchPosition: "Youth Leader",
		PastorAware:    "Yes",
		PreviousSchool: "None",
		ESignature:     DocumentImage{URL: "http://localhost/sig.png", Image: ptr(testPNG(t, 400, 120))},
		PhotoCopy:      DocumentImage{URL: "http://localhost/photo.png", Image: ptr(testPNG(t, 300, 400))},
	}
}

func ptr(img ImageData) *ImageData { return &img }

func TestEnsureSpaceBreaksPage(t *testing.T) {
	b := NewDocumentBuilder()
	assert.Equal(t, 1, b.PageCount())

	// Plenty of room near the top of the page.
	assert.False(t, b.EnsureSpace(40))
	assert.Equal(t, pageMargin, b.Y())

	b.Spacer(250)
	assert.True(t, b.EnsureSpace(40))
	assert.Equal(t, 2, b.PageCount())
	assert.Equal(t, pageMargin, b.Y())
}

func TestFieldRowsAdvanceCursor(t *testing.T) {
	b := NewDocumentBuilder()
	start := b.Y()

	b.Heading("Personal Information")
	assert.Equal(t, start+headingHeight, b.Y())

	b.FieldRow("Name", "Jane")
	b.FieldRow("Email", "jane@example.com")
	assert.Equal(t, start+headingHeight+2*lineHeight, b.Y())
}

func TestFitImage(t *testing.T) {
	// Wide image: width binds, height stays under the cap.
	w, h := FitImage(400, 100, 170, 50)
	assert.InDelta(t, 170, w, 0.001)
	assert.InDelta(t, 42.5, h, 0.001)

	// Tall image: height cap binds and width shrinks proportionally.
	w, h = FitImage(300, 400, 170, 70)
	assert.InDelta(t, 70, h, 0.001)
	assert.InDelta(t, 52.5, w, 0.001)
}

func TestImageAdvancesCursorByScaledHeight(t *testing.T) {
	b := NewDocumentBuilder()
	start := b.Y()

	img := testPNG(t, 400, 100)
	require.NoError(t, b.Image("sig", img, 50))

	_, expected := FitImage(400, 100, b.contentWidth(), 50)
	assert.InDelta(t, start+expected+10, b.Y(), 0.001)
}

func TestImageRejectsCorruptData(t *testing.T) {
	b := NewDocumentBuilder()
	err := b.Image("broken", ImageData{Data: []byte("not a png"), Format: "PNG", Width: 10, Height: 10}, 50)
	require.Error(t, err)

	// The builder must stay usable after a failed embed.
	b.ImageFallback("E-Signature", "http://localhost/sig.png")
	out, err := b.Output()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderProducesPDF(t *testing.T) {
	exporter := NewPDFExporter()

	out, err := exporter.Render(testDocument(t), time.Date(2026, 8, 21, 15, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Greater(t, len(out), 1000)
}

func TestRenderIsDeterministic(t *testing.T) {
	exporter := NewPDFExporter()
	doc := testDocument(t)
	at := time.Date(2026, 8, 21, 15, 4, 5, 0, time.UTC)

	first, err := exporter.Render(doc, at)
	require.NoError(t, err)
	second, err := exporter.Render(doc, at)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderSurvivesMissingImages(t *testing.T) {
	exporter := NewPDFExporter()
	doc := testDocument(t)
	doc.ESignature = DocumentImage{URL: "http://unreachable.example.com/very/long/path/to/a/signature/image/that/keeps/going/and/going/beyond/eighty/characters.png"}
	doc.PhotoCopy = DocumentImage{URL: "http://unreachable.example.com/photo.png"}

	out, err := exporter.Render(doc, time.Date(2026, 8, 21, 15, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
