package coverpdf

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/draw"
)

// decodedImage is an image ready to embed: bytes in a format gofpdf accepts
// and the pixel size used as the natural size in points.
type decodedImage struct {
	data   []byte
	format string // "JPG" or "PNG"
	width  float64
	height float64
}

// decodeImage tries JPEG and then PNG.
func decodeImage(content []byte) (decodedImage, Outcome) {
	return firstOf(
		attempt("jpeg", func() (decodedImage, error) { return decodeJPEG(content) }),
		attempt("png", func() (decodedImage, error) { return decodePNG(content) }),
	)
}

func decodeJPEG(content []byte) (decodedImage, error) {
	img, err := jpeg.Decode(bytes.NewReader(content))
	if err != nil {
		return decodedImage{}, err
	}
	b := img.Bounds()
	return decodedImage{data: content, format: "JPG", width: float64(b.Dx()), height: float64(b.Dy())}, nil
}

// decodePNG re-encodes the image as 8-bit non-interlaced NRGBA, which is
// the subset of PNG that gofpdf embeds reliably.
func decodePNG(content []byte) (decodedImage, error) {
	img, err := png.Decode(bytes.NewReader(content))
	if err != nil {
		return decodedImage{}, err
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return decodedImage{}, err
	}
	return decodedImage{data: buf.Bytes(), format: "PNG", width: float64(b.Dx()), height: float64(b.Dy())}, nil
}

// FitImage scales (w, h) to fit within (maxW, maxH) preserving the aspect
// ratio. Width is clamped first; if the result still overflows the height it
// is clamped again by height. Images already within bounds keep their size.
func FitImage(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	ratio := w / h
	if w > maxW {
		w = maxW
		h = w / ratio
	}
	if h > maxH {
		h = maxH
		w = h * ratio
	}
	return w, h
}

// renderImagePage returns a one-page A4 document with img centred.
func renderImagePage(name string, img decodedImage, created time.Time) ([]byte, error) {
	w, h := FitImage(img.width, img.height, MaxImageWidth, MaxImageHeight)
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: %s has no pixels", ErrImageEmbed, name)
	}

	pdf := newDocument(created)
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: img.format}
	pdf.RegisterImageOptionsReader("upload", opts, bytes.NewReader(img.data))
	x := (PageWidth - w) / 2
	y := (PageHeight - h) / 2
	pdf.ImageOptions("upload", x, y, w, h, false, opts, 0, "")
	if pdf.Err() {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageEmbed, name, pdf.Error())
	}
	b, err := output(pdf)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageEmbed, name, err)
	}
	return b, nil
}
