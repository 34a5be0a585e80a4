package coverpdf

import (
	"errors"
	"strings"
	"time"

	"github.com/alnah/go-coverpdf/internal/dateutil"
)

var errNoDate = errors.New("no submission date given")

// ResolveSubmissionDate returns the date printed on the cover.
// A non-blank value is used as given (already formatted); otherwise the
// current date is rendered as DD/MM/YY.
func ResolveSubmissionDate(value string, now time.Time) (string, Outcome) {
	return firstOf(
		attempt("given", func() (string, error) {
			v := strings.TrimSpace(value)
			if v == "" {
				return "", errNoDate
			}
			return v, nil
		}),
		attempt("today", func() (string, error) {
			return dateutil.Today(now), nil
		}),
	)
}
