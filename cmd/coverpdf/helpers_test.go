package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/alnah/go-coverpdf"
)

// ---------------------------------------------------------------------------
// Test Infrastructure
// ---------------------------------------------------------------------------

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

// testEnv returns an Environment writing to buffers with a fixed clock.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{
		Now:    func() time.Time { return fixedNow },
		Stdout: &stdout,
		Stderr: &stderr,
	}, &stdout, &stderr
}

// writePDFFixture writes a PDF with the given number of pages into dir.
func writePDFFixture(t *testing.T, dir, name string, pages int) string {
	t.Helper()

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.Text(40, 40, name)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("building %s: %v", name, err)
	}
	return writeFixture(t, dir, name, buf.Bytes())
}

func writePNGFixture(t *testing.T, dir, name string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 8), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding %s: %v", name, err)
	}
	return writeFixture(t, dir, name, buf.Bytes())
}

func writeFixture(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o600); err != nil {
		t.Fatalf("writing %s: %v", p, err)
	}
	return p
}

// pagesOf returns the page count of the PDF at path.
func pagesOf(t *testing.T, path string) int {
	t.Helper()

	data, err := os.ReadFile(path) // #nosec G304 -- test file
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	n, err := coverpdf.PageCount(data)
	if err != nil {
		t.Fatalf("PageCount(%s): %v", path, err)
	}
	return n
}

// scriptedPrompter answers prompts from a map keyed by message.
type scriptedPrompter struct {
	answers map[string]string
	asked   []string
	err     error
}

func (p *scriptedPrompter) Input(_ context.Context, message, def string, validate func(string) error) (string, error) {
	p.asked = append(p.asked, message)
	if p.err != nil {
		return "", p.err
	}
	v, ok := p.answers[message]
	if !ok {
		v = def
	}
	if validate != nil {
		if err := validate(v); err != nil {
			return "", err
		}
	}
	return v, nil
}

func (p *scriptedPrompter) Select(_ context.Context, message string, _ []string, def string) (string, error) {
	p.asked = append(p.asked, message)
	if p.err != nil {
		return "", p.err
	}
	if v, ok := p.answers[message]; ok {
		return v, nil
	}
	return def, nil
}
