package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"

	"github.com/alnah/go-coverpdf"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{
		Port:           "0",
		GinMode:        gin.TestMode,
		MaxUploadBytes: 8 << 20,
		SessionTTL:     time.Hour,
		MaxSessionSize: 10,
		ShutdownGrace:  time.Second,
	}
}

// newTestServer returns a server backed by a memory store without the
// sweep goroutine, drawing covers on blank pages.
func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()

	store := newMemoryStore(cfg.SessionTTL, cfg.MaxSessionSize, time.Now)
	t.Cleanup(func() { _ = store.Close() })

	asm := coverpdf.NewAssembler(
		coverpdf.WithoutTemplates(),
		coverpdf.WithClock(func() time.Time { return fixedNow }),
	)
	s := New(cfg, asm, store, zerolog.Nop())
	s.now = func() time.Time { return fixedNow }
	return s
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func pdfFixture(t *testing.T, pages int) []byte {
	t.Helper()

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.Text(40, 40, "page")
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("pdfFixture: %v", err)
	}
	return buf.Bytes()
}

func pngFixture(t *testing.T) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	for x := 0; x < 20; x++ {
		img.Set(x, 5, color.NRGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("pngFixture: %v", err)
	}
	return buf.Bytes()
}

type upload struct {
	name    string
	content []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...upload) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(uploadField, f.name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write(f.content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, w.FormDataContentType()
}

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

func do(t *testing.T, s *Server, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func doJSON(t *testing.T, s *Server, method, path string, v any) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader = http.NoBody
	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(b)
	}
	return do(t, s, method, path, body, "application/json")
}

type envelope struct {
	Data     json.RawMessage `json:"data"`
	Error    *ErrorBody      `json:"error"`
	Metadata Metadata        `json:"metadata"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not a JSON envelope: %v\n%s", err, rec.Body.String())
	}
	if data != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decoding data: %v", err)
		}
	}
	return env
}

func wantError(t *testing.T, rec *httptest.ResponseRecorder, status int, code ErrCode) envelope {
	t.Helper()

	if rec.Code != status {
		t.Fatalf("status = %d, want %d\n%s", rec.Code, status, rec.Body.String())
	}
	env := decode(t, rec, nil)
	if env.Error == nil || env.Error.Code != code {
		t.Fatalf("error = %+v, want code %s", env.Error, code)
	}
	if env.Error.Message != Message(code) {
		t.Errorf("message = %q, want %q", env.Error.Message, Message(code))
	}
	return env
}

func doWithOrigin(t *testing.T, s *Server, origin string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/types", nil)
	req.Header.Set("Origin", origin)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}
