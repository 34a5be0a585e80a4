package server

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-coverpdf"
	"github.com/alnah/go-coverpdf/internal/dateutil"
	"github.com/alnah/go-coverpdf/internal/fileutil"
)

// uploadField is the multipart field carrying files, repeated in order.
const uploadField = "files"

// generateRequest holds the cover form. It binds from multipart forms,
// urlencoded forms and JSON.
type generateRequest struct {
	DocumentType   string `form:"document_type" json:"document_type" binding:"required,max=50"`
	Semester       string `form:"semester" json:"semester" binding:"max=50"`
	StudentName    string `form:"student_name" json:"student_name" binding:"max=100"`
	StudentID      string `form:"student_id" json:"student_id" binding:"max=30"`
	Batch          string `form:"batch" json:"batch" binding:"max=20"`
	Section        string `form:"section" json:"section" binding:"max=20"`
	CourseCode     string `form:"course_code" json:"course_code" binding:"max=20"`
	CourseName     string `form:"course_name" json:"course_name" binding:"max=150"`
	TeacherName    string `form:"teacher_name" json:"teacher_name" binding:"max=100"`
	Designation    string `form:"designation" json:"designation" binding:"max=100"`
	SubmissionDate string `form:"submission_date" json:"submission_date" binding:"max=30"`
	DateFormat     string `form:"date_format" json:"date_format" binding:"max=50"`
	OutputName     string `form:"output_name" json:"output_name" binding:"max=255"`
}

// fields converts the request. The submission date accepts the date
// picker's YYYY-MM-DD as well as DD/MM/YY and is rendered with date_format
// (DD/MM/YY when unset). A format without a date renders today.
func (r generateRequest) fields(now time.Time) (coverpdf.FormFields, map[string]string) {
	if r.DateFormat != "" {
		if _, err := dateutil.ParseDateFormat(r.DateFormat); err != nil {
			return coverpdf.FormFields{}, map[string]string{"date_format": err.Error()}
		}
	}
	value := r.SubmissionDate
	if strings.TrimSpace(value) == "" && r.DateFormat != "" {
		value = "today"
	}
	date, err := dateutil.Render(value, now, r.DateFormat)
	if err != nil {
		return coverpdf.FormFields{}, map[string]string{"submission_date": err.Error()}
	}
	return coverpdf.FormFields{
		Semester:       r.Semester,
		StudentName:    r.StudentName,
		StudentID:      r.StudentID,
		Batch:          r.Batch,
		Section:        r.Section,
		CourseCode:     r.CourseCode,
		CourseName:     r.CourseName,
		TeacherName:    r.TeacherName,
		Designation:    r.Designation,
		SubmissionDate: date,
		DocumentType:   coverpdf.ParseDocumentType(r.DocumentType),
		OutputName:     r.OutputName,
	}, nil
}

// bindForm binds and validates the cover form, writing the error reply
// itself. The bool reports success.
func (s *Server) bindForm(c *gin.Context) (coverpdf.FormFields, bool) {
	var req generateRequest
	if err := c.ShouldBind(&req); err != nil {
		if isTooLarge(err) {
			fail(c, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return coverpdf.FormFields{}, false
		}
		failWithFields(c, http.StatusBadRequest, ErrValidation, translateErrors(err))
		return coverpdf.FormFields{}, false
	}

	fields, bad := req.fields(s.now())
	if bad != nil {
		failWithFields(c, http.StatusBadRequest, ErrValidation, bad)
		return coverpdf.FormFields{}, false
	}
	if !coverpdf.IsSupported(fields.DocumentType) {
		failWithFields(c, http.StatusUnprocessableEntity, ErrUnsupportedDocumentType, map[string]string{
			"document_type": fmt.Sprintf("%q is not one of %s", req.DocumentType, supportedList()),
		})
		return coverpdf.FormFields{}, false
	}
	if err := coverpdf.ValidateText(fields); err != nil {
		var ee *coverpdf.EncodingError
		if errors.As(err, &ee) {
			failWithFields(c, http.StatusUnprocessableEntity, ErrUnencodableText, map[string]string{ee.Field: err.Error()})
			return coverpdf.FormFields{}, false
		}
		fail(c, http.StatusUnprocessableEntity, ErrUnencodableText)
		return coverpdf.FormFields{}, false
	}
	return fields, true
}

// readUploads returns the uploaded files in form order. The media type is
// the part's declared Content-Type; content is sniffed only when the
// header is missing or application/octet-stream.
func (s *Server) readUploads(c *gin.Context) ([]coverpdf.UploadedFile, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		if isTooLarge(err) {
			fail(c, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return nil, false
		}
		failWithFields(c, http.StatusBadRequest, ErrInvalidPayload, map[string]string{"detail": err.Error()})
		return nil, false
	}

	headers := form.File[uploadField]
	files := make([]coverpdf.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			failWithFields(c, http.StatusBadRequest, ErrInvalidPayload, map[string]string{uploadField: err.Error()})
			return nil, false
		}
		content, err := fileutil.ReadLimited(f, s.cfg.MaxUploadBytes)
		_ = f.Close()
		if err != nil {
			if errors.Is(err, fileutil.ErrFileTooLarge) {
				fail(c, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			} else {
				fail(c, http.StatusInternalServerError, ErrInternal)
			}
			return nil, false
		}
		media := uploadMedia(fh.Header.Get("Content-Type"), content)
		files = append(files, coverpdf.UploadedFile{
			Name:    filepath.Base(strings.ReplaceAll(fh.Filename, `\`, "/")),
			Media:   media,
			Content: content,
		})
	}
	return files, true
}

func uploadMedia(declared string, content []byte) coverpdf.MediaType {
	mt, _, err := mime.ParseMediaType(declared)
	if err != nil || mt == "application/octet-stream" {
		media, _ := fileutil.DetectMedia(content)
		return media
	}
	return coverpdf.MediaTypeFromMIME(mt)
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func supportedList() string {
	types := coverpdf.SupportedTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
