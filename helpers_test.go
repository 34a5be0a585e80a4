package coverpdf

// Notes:
// - Fixtures are generated in memory: PDFs with gofpdf, images with the
//   standard image encoders. Distinct page sizes let tests assert page order
//   through pdfcpu page dimensions.

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"sync/atomic"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type size struct{ w, h float64 }

var a4 = size{PageWidth, PageHeight}

// makePDF returns a PDF with one page per size, each labelled with its index.
func makePDF(t *testing.T, sizes ...size) []byte {
	t.Helper()

	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt", Size: gofpdf.SizeType{Wd: PageWidth, Ht: PageHeight}})
	pdf.SetFont("Helvetica", "", 10)
	for i, s := range sizes {
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: s.w, Ht: s.h})
		pdf.Text(10, 20, string(rune('A'+i)))
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("makePDF: %v", err)
	}
	return buf.Bytes()
}

func makeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("makeJPEG: %v", err)
	}
	return buf.Bytes()
}

func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: uint8(x), B: uint8(y), A: uint8(x + y)})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("makePNG: %v", err)
	}
	return buf.Bytes()
}

// pageSizes returns the media box size of every page in order.
func pageSizes(t *testing.T, pdf []byte) []size {
	t.Helper()

	dims, err := api.PageDims(bytes.NewReader(pdf), pdfConfig())
	if err != nil {
		t.Fatalf("PageDims: %v", err)
	}
	out := make([]size, len(dims))
	for i, d := range dims {
		out[i] = size{d.Width, d.Height}
	}
	return out
}

func assertSizes(t *testing.T, got, want []size) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("page count = %d, want %d (sizes %v)", len(got), len(want), got)
	}
	for i := range want {
		if math.Abs(got[i].w-want[i].w) > 0.5 || math.Abs(got[i].h-want[i].h) > 0.5 {
			t.Errorf("page %d size = %vx%v, want %vx%v", i+1, got[i].w, got[i].h, want[i].w, want[i].h)
		}
	}
}

// ---------------------------------------------------------------------------
// Template sources
// ---------------------------------------------------------------------------

// mapTemplates serves templates from memory and counts lookups.
type mapTemplates struct {
	files map[string][]byte
	calls atomic.Int32
}

func (m *mapTemplates) LoadTemplate(ctx context.Context, name string) ([]byte, error) {
	m.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, ok := m.files[name]
	if !ok {
		return nil, errTemplateMissing
	}
	return b, nil
}

type panicTemplates struct{}

func (panicTemplates) LoadTemplate(context.Context, string) ([]byte, error) {
	panic("template store exploded")
}

var errTemplateMissing = errorString("template missing")

type errorString string

func (e errorString) Error() string { return string(e) }
