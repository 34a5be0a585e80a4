package server

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-coverpdf"
)

// ---------------------------------------------------------------------------
// Service endpoints
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig())
	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var data map[string]string
	decode(t, rec, &data)
	if diff := cmp.Diff(map[string]string{"status": "ok", "store": "memory"}, data); diff != "" {
		t.Errorf("health mismatch (-want +got):\n%s", diff)
	}
}

func TestHealth_StoreDown(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig())
	s.store = downStore{s.store}
	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	wantError(t, rec, http.StatusServiceUnavailable, ErrUnavailable)
}

type downStore struct{ SessionStore }

func (downStore) Ping(context.Context) error { return fmt.Errorf("connection refused") }

func TestListTypes(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig())
	rec := doJSON(t, s, http.MethodGet, "/api/v1/types", nil)

	var got []typeView
	decode(t, rec, &got)
	want := []typeView{
		{Type: coverpdf.DocAssignment, Name: "assignment", Title: "Assignment", AllocatedMark: "5"},
		{Type: coverpdf.DocLabReport, Name: "lab_report", Title: "Lab Report", AllocatedMark: "25"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("types mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig())

	req := doJSON(t, s, http.MethodGet, "/api/v1/types", nil)
	generated := req.Header().Get(HeaderRequestID)
	if generated == "" {
		t.Fatal("no request ID generated")
	}
	if env := decode(t, req, nil); env.Metadata.RequestID != generated {
		t.Errorf("metadata request_id = %q, header %q", env.Metadata.RequestID, generated)
	}
}

func TestNoRoute(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig())
	rec := doJSON(t, s, http.MethodGet, "/api/v1/nope", nil)
	wantError(t, rec, http.StatusNotFound, ErrNotFound)
}

func TestCORS(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.AllowedOrigins = []string{"https://diu.example"}
	s := newTestServer(t, cfg)

	req := doWithOrigin(t, s, "https://diu.example")
	if got := req.Header().Get("Access-Control-Allow-Origin"); got != "https://diu.example" {
		t.Errorf("Access-Control-Allow-Origin = %q, want allowed origin", got)
	}
	req = doWithOrigin(t, s, "https://evil.example")
	if got := req.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q for disallowed origin", got)
	}
}

// ---------------------------------------------------------------------------
// One-shot generation
// ---------------------------------------------------------------------------

func TestGenerate(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig())
	body, ct := multipartBody(t,
		map[string]string{
			"document_type":   "lab_report",
			"student_name":    "Rahim Uddin",
			"submission_date": "2024-03-01",
			"output_name":     "lab1.pdf",
		},
		upload{"graph.png", pngFixture(t)},
		upload{"notes.txt", []byte("plain text notes")},
		upload{"report.pdf", pdfFixture(t, 2)},
	)

	rec := do(t, s, http.MethodPost, "/api/v1/generate", body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\n%s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", ct)
	}
	_, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	if err != nil || params["filename"] != "lab1.pdf" {
		t.Errorf("Content-Disposition = %q, want attachment lab1.pdf", rec.Header().Get("Content-Disposition"))
	}

	headers := map[string]string{
		HeaderPageCount:     rec.Header().Get(HeaderPageCount),
		HeaderIgnoredFiles:  rec.Header().Get(HeaderIgnoredFiles),
		HeaderSkippedFiles:  rec.Header().Get(HeaderSkippedFiles),
		HeaderCoverTemplate: rec.Header().Get(HeaderCoverTemplate),
	}
	wantHeaders := map[string]string{
		HeaderPageCount:     "4",
		HeaderIgnoredFiles:  "1",
		HeaderSkippedFiles:  "0",
		HeaderCoverTemplate: "blank",
	}
	if diff := cmp.Diff(wantHeaders, headers); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}

	n, err := coverpdf.PageCount(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("response is not a PDF: %v", err)
	}
	if n != 4 {
		t.Errorf("pages = %d, want 4 (cover, image, 2 PDF pages)", n)
	}
}

func TestGenerate_CoverOnly(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig())
	body, ct := multipartBody(t, map[string]string{"document_type": "assignment.pdf"})

	rec := do(t, s, http.MethodPost, "/api/v1/generate", body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\n%s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(HeaderPageCount); got != "1" {
		t.Errorf("%s = %q, want 1", HeaderPageCount, got)
	}
	_, params, _ := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	if params["filename"] != coverpdf.DefaultOutputName {
		t.Errorf("filename = %q, want %q", params["filename"], coverpdf.DefaultOutputName)
	}
}

func TestGenerate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		fields    map[string]string
		files     []upload
		maxUpload int64
		status    int
		code      ErrCode
		field     string
	}{
		{
			name:   "missing document type",
			fields: map[string]string{"student_name": "Rahim"},
			status: http.StatusBadRequest, code: ErrValidation, field: "document_type",
		},
		{
			name:   "unsupported document type",
			fields: map[string]string{"document_type": "thesis.pdf"},
			status: http.StatusUnprocessableEntity, code: ErrUnsupportedDocumentType, field: "document_type",
		},
		{
			name:   "bad date",
			fields: map[string]string{"document_type": "assignment", "submission_date": "next week"},
			status: http.StatusBadRequest, code: ErrValidation, field: "submission_date",
		},
		{
			name:   "bad date format",
			fields: map[string]string{"document_type": "assignment", "date_format": "[DD"},
			status: http.StatusBadRequest, code: ErrValidation, field: "date_format",
		},
		{
			name:   "non-latin student name",
			fields: map[string]string{"document_type": "assignment", "student_name": "রহিম"},
			status: http.StatusUnprocessableEntity, code: ErrUnencodableText, field: "student_name",
		},
		{
			name:   "field too long",
			fields: map[string]string{"document_type": "assignment", "section": strings.Repeat("B", 21)},
			status: http.StatusBadRequest, code: ErrValidation, field: "section",
		},
		{
			name:      "body too large",
			fields:    map[string]string{"document_type": "assignment"},
			files:     []upload{{"big.pdf", make([]byte, 4096)}},
			maxUpload: 1024,
			status:    http.StatusRequestEntityTooLarge, code: ErrFileTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig()
			if tt.maxUpload > 0 {
				cfg.MaxUploadBytes = tt.maxUpload
			}
			s := newTestServer(t, cfg)
			body, ct := multipartBody(t, tt.fields, tt.files...)

			rec := do(t, s, http.MethodPost, "/api/v1/generate", body, ct)
			env := wantError(t, rec, tt.status, tt.code)
			if tt.field != "" {
				if _, ok := env.Error.Fields[tt.field]; !ok {
					t.Errorf("fields = %v, want entry for %q", env.Error.Fields, tt.field)
				}
			}
			if strings.Contains(rec.Header().Get("Content-Type"), "pdf") {
				t.Error("error reply carries a PDF content type")
			}
		})
	}
}

func TestGenerate_DeclaredContentType(t *testing.T) {
	t.Parallel()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("document_type", "assignment"); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	parts := []struct {
		name, contentType string
		content           []byte
	}{
		{"scan.png", "image/png", pdfFixture(t, 1)},
		{"report.bin", "application/octet-stream", pdfFixture(t, 2)},
		{"report.pdf", "text/plain", pdfFixture(t, 1)},
	}
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{"name": uploadField, "filename": p.name}))
		h.Set("Content-Type", p.contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("CreatePart: %v", err)
		}
		if _, err := part.Write(p.content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	s := newTestServer(t, testConfig())
	rec := do(t, s, http.MethodPost, "/api/v1/generate", &body, w.FormDataContentType())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\n%s", rec.Code, rec.Body.String())
	}

	headers := map[string]string{
		HeaderPageCount:    rec.Header().Get(HeaderPageCount),
		HeaderIgnoredFiles: rec.Header().Get(HeaderIgnoredFiles),
		HeaderSkippedFiles: rec.Header().Get(HeaderSkippedFiles),
	}
	// The PDF declared as an image fails to decode and is skipped; the
	// octet-stream part is sniffed; the text/plain part is ignored.
	wantHeaders := map[string]string{
		HeaderPageCount:    "3",
		HeaderIgnoredFiles: "1",
		HeaderSkippedFiles: "1",
	}
	if diff := cmp.Diff(wantHeaders, headers); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_NotMultipart(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig())
	rec := doJSON(t, s, http.MethodPost, "/api/v1/generate", map[string]string{"document_type": "assignment"})
	wantError(t, rec, http.StatusBadRequest, ErrInvalidPayload)
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

func createSession(t *testing.T, s *Server) string {
	t.Helper()

	rec := doJSON(t, s, http.MethodPost, "/api/v1/sessions", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session status = %d\n%s", rec.Code, rec.Body.String())
	}
	var v sessionView
	decode(t, rec, &v)
	if v.ID == "" {
		t.Fatal("empty session ID")
	}
	if loc := rec.Header().Get("Location"); loc != "/api/v1/sessions/"+v.ID {
		t.Errorf("Location = %q", loc)
	}
	return v.ID
}

func names(files []fileView) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func TestSessionFlow(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, testConfig())
	id := createSession(t, s)
	base := "/api/v1/sessions/" + id

	body, ct := multipartBody(t, nil,
		upload{"intro.pdf", pdfFixture(t, 1)},
		upload{"readme.txt", []byte("ignored")},
		upload{"scan.png", pngFixture(t)},
		upload{"appendix.pdf", pdfFixture(t, 3)},
	)
	rec := do(t, s, http.MethodPost, base+"/files", body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("add files status = %d\n%s", rec.Code, rec.Body.String())
	}
	var added struct {
		Accepted int        `json:"accepted"`
		Ignored  int        `json:"ignored"`
		Files    []fileView `json:"files"`
	}
	decode(t, rec, &added)
	if added.Accepted != 3 || added.Ignored != 1 {
		t.Errorf("accepted/ignored = %d/%d, want 3/1", added.Accepted, added.Ignored)
	}
	if diff := cmp.Diff([]string{"intro.pdf", "scan.png", "appendix.pdf"}, names(added.Files)); diff != "" {
		t.Errorf("files after add (-want +got):\n%s", diff)
	}
	if added.Files[1].Media != coverpdf.MediaImage || added.Files[1].Size == 0 {
		t.Errorf("scan.png view = %+v", added.Files[1])
	}

	rec = doJSON(t, s, http.MethodPut, base+"/order", orderRequest{Order: []int{2, 0, 1}})
	var v sessionView
	decode(t, rec, &v)
	if diff := cmp.Diff([]string{"appendix.pdf", "intro.pdf", "scan.png"}, names(v.Files)); diff != "" {
		t.Errorf("files after reorder (-want +got):\n%s", diff)
	}

	rec = doJSON(t, s, http.MethodDelete, base+"/files/1", nil)
	decode(t, rec, &v)
	if diff := cmp.Diff([]string{"appendix.pdf", "scan.png"}, names(v.Files)); diff != "" {
		t.Errorf("files after remove (-want +got):\n%s", diff)
	}

	rec = doJSON(t, s, http.MethodGet, base, nil)
	decode(t, rec, &v)
	if v.ID != id || len(v.Files) != 2 {
		t.Errorf("get session = %+v", v)
	}

	rec = doJSON(t, s, http.MethodPost, base+"/generate", generateRequest{DocumentType: "lab_report", StudentID: "221-15-0001"})
	if rec.Code != http.StatusOK {
		t.Fatalf("generate status = %d\n%s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(HeaderPageCount); got != "5" {
		t.Errorf("%s = %q, want 5 (cover, 3 appendix pages, image)", HeaderPageCount, got)
	}

	rec = doJSON(t, s, http.MethodDelete, base, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodGet, base, nil)
	wantError(t, rec, http.StatusNotFound, ErrSessionMissing)
}

func TestSession_Errors(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.MaxSessionSize = 2
	s := newTestServer(t, cfg)
	id := createSession(t, s)
	base := "/api/v1/sessions/" + id

	body, ct := multipartBody(t, nil, upload{"a.png", pngFixture(t)}, upload{"b.png", pngFixture(t)})
	if rec := do(t, s, http.MethodPost, base+"/files", body, ct); rec.Code != http.StatusOK {
		t.Fatalf("add files status = %d\n%s", rec.Code, rec.Body.String())
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   ErrCode
	}{
		{"unknown session", http.MethodGet, "/api/v1/sessions/missing", nil, http.StatusNotFound, ErrSessionMissing},
		{"remove out of range", http.MethodDelete, base + "/files/5", nil, http.StatusBadRequest, ErrInvalidIndex},
		{"remove non-numeric", http.MethodDelete, base + "/files/first", nil, http.StatusBadRequest, ErrInvalidIndex},
		{"order not a permutation", http.MethodPut, base + "/order", orderRequest{Order: []int{0, 0}}, http.StatusBadRequest, ErrInvalidOrder},
		{"order missing", http.MethodPut, base + "/order", map[string]any{}, http.StatusBadRequest, ErrValidation},
		{"generate unsupported", http.MethodPost, base + "/generate", generateRequest{DocumentType: "thesis"}, http.StatusUnprocessableEntity, ErrUnsupportedDocumentType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, tt.method, tt.path, tt.body)
			wantError(t, rec, tt.status, tt.code)
		})
	}

	t.Run("session full", func(t *testing.T) {
		body, ct := multipartBody(t, nil, upload{"c.png", pngFixture(t)})
		rec := do(t, s, http.MethodPost, base+"/files", body, ct)
		wantError(t, rec, http.StatusRequestEntityTooLarge, ErrTooManyFiles)

		rec = doJSON(t, s, http.MethodGet, base, nil)
		var v sessionView
		decode(t, rec, &v)
		if len(v.Files) != 2 {
			t.Errorf("files after rejected add = %d, want 2", len(v.Files))
		}
	})
}
