package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/alnah/go-coverpdf"
	"github.com/alnah/go-coverpdf/internal/config"
	"github.com/alnah/go-coverpdf/internal/dateutil"
	"github.com/alnah/go-coverpdf/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"file too large", fileutil.ErrFileTooLarge, ExitIO},
		{"not regular", fileutil.ErrNotRegularFile, ExitIO},
		{"read upload", ErrReadUpload, ExitIO},
		{"write pdf", ErrWritePDF, ExitIO},
		{"wrapped not exist", fmt.Errorf("%w: %w", ErrReadUpload, os.ErrNotExist), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid value", config.ErrInvalidValue, ExitUsage},
		{"config exists", config.ErrConfigExists, ExitUsage},
		{"unsupported type", coverpdf.ErrUnsupportedDocType, ExitUsage},
		{"template source", coverpdf.ErrInvalidTemplateSource, ExitUsage},
		{"unencodable text", &coverpdf.EncodingError{Field: "student_name", Rune: 'র'}, ExitUsage},
		{"invalid date", dateutil.ErrInvalidDate, ExitUsage},
		{"invalid date format", dateutil.ErrInvalidDateFormat, ExitUsage},
		{"invalid args", ErrInvalidArgs, ExitUsage},
		{"unknown command", ErrUnknownCommand, ExitUsage},
		{"unsupported shell", ErrUnsupportedShell, ExitUsage},
		{"hinted usage error", withHint(coverpdf.ErrUnsupportedDocType, "\n  hint: x"), ExitUsage},

		// General (exit 1)
		{"assembly", coverpdf.ErrAssembly, ExitGeneral},
		{"aborted", ErrAborted, ExitGeneral},
		{"unknown", errors.New("something else"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes_UnixConventions(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 {
		t.Errorf("standard codes = %d/%d/%d, want 0/1/2", ExitSuccess, ExitGeneral, ExitUsage)
	}
	if ExitIO >= 126 {
		t.Errorf("ExitIO = %d, must be below 126", ExitIO)
	}
}
