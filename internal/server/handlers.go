package server

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-coverpdf"
)

// Response headers describing a generated document.
const (
	HeaderPageCount     = "X-Page-Count"
	HeaderSkippedFiles  = "X-Skipped-Files"
	HeaderIgnoredFiles  = "X-Ignored-Files"
	HeaderCoverTemplate = "X-Cover-Template"
)

// fileView is the JSON form of a session file. Content is never echoed.
type fileView struct {
	Index int                `json:"index"`
	Name  string             `json:"name"`
	Media coverpdf.MediaType `json:"media"`
	Size  int                `json:"size"`
}

type sessionView struct {
	ID    string     `json:"id"`
	Files []fileView `json:"files"`
}

type typeView struct {
	Type          coverpdf.DocumentType `json:"type"`
	Name          string                `json:"name"`
	Title         string                `json:"title"`
	AllocatedMark string                `json:"allocated_mark"`
}

type orderRequest struct {
	Order []int `json:"order" binding:"required"`
}

func viewFiles(files []coverpdf.UploadedFile) []fileView {
	out := make([]fileView, len(files))
	for i, f := range files {
		out[i] = fileView{Index: i, Name: f.Name, Media: f.Media, Size: len(f.Content)}
	}
	return out
}

// health reports liveness and the session backend.
// GET /healthz
func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.log.Error().Err(err).Str("store", s.store.Name()).Msg("health check failed")
		fail(c, http.StatusServiceUnavailable, ErrUnavailable)
		return
	}
	success(c, http.StatusOK, gin.H{"status": "ok", "store": s.store.Name()})
}

// listTypes returns the supported document types.
// GET /api/v1/types
func (s *Server) listTypes(c *gin.Context) {
	types := coverpdf.SupportedTypes()
	out := make([]typeView, 0, len(types))
	for _, t := range types {
		l, _ := coverpdf.LookupLayout(t)
		out = append(out, typeView{
			Type:          t,
			Name:          strings.TrimSuffix(string(t), ".pdf"),
			Title:         l.Title,
			AllocatedMark: l.AllocatedMark,
		})
	}
	success(c, http.StatusOK, out)
}

// generate builds a document in one request from multipart form fields and
// the repeated "files" field.
// POST /api/v1/generate
func (s *Server) generate(c *gin.Context) {
	fields, ok := s.bindForm(c)
	if !ok {
		return
	}
	uploads, ok := s.readUploads(c)
	if !ok {
		return
	}

	sess := coverpdf.NewSession()
	_, ignored := sess.Add(uploads...)
	if ignored > 0 {
		s.log.Info().Int("ignored", ignored).Msg("some files were ignored")
	}
	s.render(c, sess.Files(), fields, ignored)
}

// createSession starts an empty upload session.
// POST /api/v1/sessions
func (s *Server) createSession(c *gin.Context) {
	id, err := s.store.Create(c.Request.Context())
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.Header("Location", "/api/v1/sessions/"+id)
	success(c, http.StatusCreated, sessionView{ID: id, Files: []fileView{}})
}

// getSession lists a session's files in order.
// GET /api/v1/sessions/:id
func (s *Server) getSession(c *gin.Context) {
	id := c.Param("id")
	files, err := s.store.Files(c.Request.Context(), id)
	if err != nil {
		s.storeError(c, err)
		return
	}
	success(c, http.StatusOK, sessionView{ID: id, Files: viewFiles(files)})
}

// deleteSession discards a session.
// DELETE /api/v1/sessions/:id
func (s *Server) deleteSession(c *gin.Context) {
	if err := s.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.storeError(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"deleted": true})
}

// addFiles appends uploads to a session. Files that are neither images
// nor PDFs are ignored and counted.
// POST /api/v1/sessions/:id/files
func (s *Server) addFiles(c *gin.Context) {
	uploads, ok := s.readUploads(c)
	if !ok {
		return
	}

	id := c.Param("id")
	var accepted, ignored int
	files, err := s.store.Update(c.Request.Context(), id, func(sess *coverpdf.Session) error {
		accepted, ignored = sess.Add(uploads...)
		return nil
	})
	if err != nil {
		s.storeError(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{
		"id":       id,
		"accepted": accepted,
		"ignored":  ignored,
		"files":    viewFiles(files),
	})
}

// removeFile deletes one file by index.
// DELETE /api/v1/sessions/:id/files/:index
func (s *Server) removeFile(c *gin.Context) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrInvalidIndex)
		return
	}

	id := c.Param("id")
	files, err := s.store.Update(c.Request.Context(), id, func(sess *coverpdf.Session) error {
		_, err := sess.Remove(idx)
		return err
	})
	if err != nil {
		s.storeError(c, err)
		return
	}
	success(c, http.StatusOK, sessionView{ID: id, Files: viewFiles(files)})
}

// reorder replaces the file order with a permutation of current indexes.
// PUT /api/v1/sessions/:id/order
func (s *Server) reorder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failWithFields(c, http.StatusBadRequest, ErrValidation, translateErrors(err))
		return
	}

	id := c.Param("id")
	files, err := s.store.Update(c.Request.Context(), id, func(sess *coverpdf.Session) error {
		return sess.Reorder(req.Order)
	})
	if err != nil {
		s.storeError(c, err)
		return
	}
	success(c, http.StatusOK, sessionView{ID: id, Files: viewFiles(files)})
}

// generateSession builds a document from a session's files. The session is
// kept so the user can fix fields and generate again.
// POST /api/v1/sessions/:id/generate
func (s *Server) generateSession(c *gin.Context) {
	fields, ok := s.bindForm(c)
	if !ok {
		return
	}
	files, err := s.store.Files(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.storeError(c, err)
		return
	}
	s.render(c, files, fields, 0)
}

// render runs the assembler and streams the PDF. Nothing is written on
// failure other than the JSON error.
func (s *Server) render(c *gin.Context, files []coverpdf.UploadedFile, fields coverpdf.FormFields, ignored int) {
	res, err := s.asm.Assemble(c.Request.Context(), files, fields)
	if err != nil {
		if errors.Is(err, coverpdf.ErrUnsupportedDocType) {
			fail(c, http.StatusUnprocessableEntity, ErrUnsupportedDocumentType)
			return
		}
		if errors.Is(err, coverpdf.ErrUnencodableText) {
			fail(c, http.StatusUnprocessableEntity, ErrUnencodableText)
			return
		}
		s.log.Error().Err(err).Str(ContextKeyRequestID, c.GetString(ContextKeyRequestID)).Msg("generation failed")
		fail(c, http.StatusInternalServerError, ErrGenerationFailed)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	c.Header(HeaderPageCount, strconv.Itoa(res.Pages))
	c.Header(HeaderSkippedFiles, strconv.Itoa(len(res.Skipped())))
	c.Header(HeaderIgnoredFiles, strconv.Itoa(ignored))
	c.Header(HeaderCoverTemplate, res.Template.Strategy)
	c.Data(http.StatusOK, "application/pdf", res.PDF)
}

// storeError maps session store and session errors to replies.
func (s *Server) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		fail(c, http.StatusNotFound, ErrSessionMissing)
	case errors.Is(err, ErrSessionFull):
		fail(c, http.StatusRequestEntityTooLarge, ErrTooManyFiles)
	case errors.Is(err, coverpdf.ErrIndexOutOfRange):
		fail(c, http.StatusBadRequest, ErrInvalidIndex)
	case errors.Is(err, coverpdf.ErrInvalidOrder):
		fail(c, http.StatusBadRequest, ErrInvalidOrder)
	default:
		s.log.Error().Err(err).Str("store", s.store.Name()).Msg("session store error")
		fail(c, http.StatusInternalServerError, ErrInternal)
	}
}
