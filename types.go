package coverpdf

import (
	"path/filepath"
	"strings"
)

// MediaType is the declared kind of an uploaded file.
type MediaType string

// Media type constants.
const (
	MediaImage   MediaType = "image"
	MediaPDF     MediaType = "pdf"
	MediaUnknown MediaType = ""
)

// MediaTypeFromMIME maps a MIME type to a MediaType.
// Any image/* type is an image; application/pdf is a PDF; the rest is unknown.
func MediaTypeFromMIME(mime string) MediaType {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	switch {
	case strings.HasPrefix(mime, "image/"):
		return MediaImage
	case mime == "application/pdf":
		return MediaPDF
	default:
		return MediaUnknown
	}
}

// UploadedFile is one entry of the ordered upload list.
type UploadedFile struct {
	Name    string    // display name
	Media   MediaType // declared media type
	Content []byte
}

// DocumentType selects the cover layout. Values match the template
// resource names.
type DocumentType string

// Supported document types.
const (
	DocAssignment DocumentType = "assignment.pdf"
	DocLabReport  DocumentType = "lab_report.pdf"
)

// ParseDocumentType accepts either the resource name ("lab_report.pdf") or
// its short form ("lab_report", "lab-report"). Unknown values are returned
// unchanged so the assembler can reject them.
func ParseDocumentType(s string) DocumentType {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, "-", "_")
	switch v {
	case "assignment", string(DocAssignment):
		return DocAssignment
	case "lab_report", "labreport", string(DocLabReport):
		return DocLabReport
	}
	return DocumentType(s)
}

// Placeholder values drawn when a field is empty.
const (
	PlaceholderText      = "Unknown"
	PlaceholderStudentID = "123456789"
)

// DefaultOutputName is used when FormFields.OutputName is empty.
const DefaultOutputName = "DIU.pdf"

// FormFields holds the submitter details captured at generation time.
// All fields are optional except DocumentType.
type FormFields struct {
	Semester       string       `json:"semester" yaml:"semester"`
	StudentName    string       `json:"student_name" yaml:"studentName"`
	StudentID      string       `json:"student_id" yaml:"studentId"`
	Batch          string       `json:"batch" yaml:"batch"`
	Section        string       `json:"section" yaml:"section"`
	CourseCode     string       `json:"course_code" yaml:"courseCode"`
	CourseName     string       `json:"course_name" yaml:"courseName"`
	TeacherName    string       `json:"teacher_name" yaml:"teacherName"`
	Designation    string       `json:"designation" yaml:"designation"`
	SubmissionDate string       `json:"submission_date" yaml:"submissionDate"` // already formatted DD/MM/YY
	DocumentType   DocumentType `json:"document_type" yaml:"documentType"`
	OutputName     string       `json:"output_name" yaml:"outputName"`
}

// OutputFilename returns the download name for the assembled document.
// Directory components are stripped.
func (f FormFields) OutputFilename() string {
	name := strings.TrimSpace(f.OutputName)
	if name == "" {
		return DefaultOutputName
	}
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return DefaultOutputName
	}
	return name
}

// Merge fills empty fields of f from defaults. Values already set in f win.
func (f FormFields) Merge(defaults FormFields) FormFields {
	pick := func(v, d string) string {
		if strings.TrimSpace(v) != "" {
			return v
		}
		return d
	}
	out := FormFields{
		Semester:       pick(f.Semester, defaults.Semester),
		StudentName:    pick(f.StudentName, defaults.StudentName),
		StudentID:      pick(f.StudentID, defaults.StudentID),
		Batch:          pick(f.Batch, defaults.Batch),
		Section:        pick(f.Section, defaults.Section),
		CourseCode:     pick(f.CourseCode, defaults.CourseCode),
		CourseName:     pick(f.CourseName, defaults.CourseName),
		TeacherName:    pick(f.TeacherName, defaults.TeacherName),
		Designation:    pick(f.Designation, defaults.Designation),
		SubmissionDate: pick(f.SubmissionDate, defaults.SubmissionDate),
		DocumentType:   DocumentType(pick(string(f.DocumentType), string(defaults.DocumentType))),
		OutputName:     pick(f.OutputName, defaults.OutputName),
	}
	return out
}

// orPlaceholder returns v, or fallback when v is blank.
func orPlaceholder(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
