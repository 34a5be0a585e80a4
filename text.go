package coverpdf

import (
	"fmt"
	"sync"

	"github.com/jung-kurt/gofpdf"
)

// The cover uses the core Helvetica font, which only covers cp1252.
// gofpdf replaces any other rune with '.', so text is checked up front.
// The translator reuses an internal buffer and is guarded by cp1252Mu.
var (
	cp1252Once sync.Once
	cp1252Mu   sync.Mutex
	cp1252     func(string) string
)

func toCP1252(s string) string {
	cp1252Once.Do(func() {
		cp1252 = gofpdf.New("P", "pt", "A4", "").UnicodeTranslatorFromDescriptor("")
	})
	cp1252Mu.Lock()
	defer cp1252Mu.Unlock()
	return cp1252(s)
}

// EncodingError reports text the cover font cannot print.
type EncodingError struct {
	Field string // form field name, as in the JSON API
	Rune  rune
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%v: %s contains %q (U+%04X)", ErrUnencodableText, e.Field, e.Rune, e.Rune)
}

func (e *EncodingError) Unwrap() error { return ErrUnencodableText }

// firstUnencodable returns the first rune of s outside cp1252.
func firstUnencodable(s string) (rune, bool) {
	for _, r := range s {
		if r < 0x80 {
			continue
		}
		if toCP1252(string(r)) == "." {
			return r, true
		}
	}
	return 0, false
}

// ValidateText checks that every field drawn on the cover can be printed.
// It returns an *EncodingError naming the first offending field.
func ValidateText(f FormFields) error {
	fields := []struct {
		name, value string
	}{
		{"semester", f.Semester},
		{"student_name", f.StudentName},
		{"student_id", f.StudentID},
		{"batch", f.Batch},
		{"section", f.Section},
		{"course_code", f.CourseCode},
		{"course_name", f.CourseName},
		{"teacher_name", f.TeacherName},
		{"designation", f.Designation},
		{"submission_date", f.SubmissionDate},
	}
	for _, fl := range fields {
		if r, bad := firstUnencodable(fl.value); bad {
			return &EncodingError{Field: fl.name, Rune: r}
		}
	}
	return nil
}

func validateHeader(lines []HeaderLine) error {
	for _, h := range lines {
		if r, bad := firstUnencodable(h.Text); bad {
			return &EncodingError{Field: "header", Rune: r}
		}
	}
	return nil
}
