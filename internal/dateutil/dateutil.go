// Package dateutil formats submission dates from user-friendly tokens.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors.
var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrInvalidDate       = errors.New("invalid date")
)

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// SubmissionFormat is the layout printed on the cover: two-digit day,
// month and year.
const SubmissionFormat = "DD/MM/YY"

// tokens maps format tokens to Go layout fragments, longest first.
var tokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Presets are named shortcuts accepted wherever a format is.
var Presets = map[string]string{
	"submission": SubmissionFormat,
	"iso":        "YYYY-MM-DD",
	"european":   "DD/MM/YYYY",
	"long":       "MMMM D, YYYY",
}

// inputLayouts are the date shapes accepted from flags, forms and config,
// tried in order. The first is what an HTML date input submits.
var inputLayouts = []string{
	"2006-01-02",
	"02/01/06",
	"02/01/2006",
	"2/1/06",
	"2/1/2006",
}

// ParseDateFormat converts a token format (YYYY, YY, MMMM, MMM, MM, M, DD, D)
// to a Go time layout. Text in brackets is kept literally; any other
// character passes through.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}
	if p, ok := Presets[strings.ToLower(format)]; ok {
		format = p
	}

	var b strings.Builder
	b.Grow(len(format) + 8)

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			b.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}
		n := matchToken(format[i:], &b)
		if n == 0 {
			b.WriteByte(format[i])
			n = 1
		}
		i += n
	}
	return b.String(), nil
}

func matchToken(s string, b *strings.Builder) int {
	for _, t := range tokens {
		if strings.HasPrefix(s, t.token) {
			b.WriteString(t.goFmt)
			return len(t.token)
		}
	}
	return 0
}

// Format renders t with a token format or preset name.
func Format(t time.Time, format string) (string, error) {
	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}

// Today renders now in SubmissionFormat.
func Today(now time.Time) string {
	return now.Format("02/01/06")
}

// ToSubmission parses a user-supplied date in one of the accepted shapes
// (YYYY-MM-DD, DD/MM/YY, DD/MM/YYYY) and renders it in SubmissionFormat.
// "today" and "auto" resolve against now. Blank input yields "".
func ToSubmission(value string, now time.Time) (string, error) {
	return Render(value, now, SubmissionFormat)
}

// Render is ToSubmission with a caller-chosen token format or preset name.
// An empty format means SubmissionFormat.
func Render(value string, now time.Time, format string) (string, error) {
	if strings.TrimSpace(format) == "" {
		format = SubmissionFormat
	}
	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}

	v := strings.TrimSpace(value)
	switch strings.ToLower(v) {
	case "":
		return "", nil
	case "today", "auto":
		return now.Format(layout), nil
	}
	for _, in := range inputLayouts {
		if t, err := time.Parse(in, v); err == nil {
			return t.Format(layout), nil
		}
	}
	return "", fmt.Errorf("%w: %q (use YYYY-MM-DD or DD/MM/YY)", ErrInvalidDate, value)
}
