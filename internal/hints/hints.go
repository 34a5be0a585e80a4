// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-coverpdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForUnsupportedType lists the document types the cover generator knows.
func ForUnsupportedType(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available types: " + strings.Join(available, ", "))
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config with a path, or "config init" for the user config
// directory when one of the searched paths is there.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-coverpdf") {
			hint += " or run: coverpdf config init " + p
			break
		}
	}

	return format(hint)
}

// ForTemplateSource returns hints for a template location that cannot be
// opened. The cover is still generated on a blank page when templates are
// missing, so the hint only concerns an unusable location.
func ForTemplateSource(location string) string {
	switch {
	case strings.HasPrefix(location, "s3://"):
		var hints []string
		hints = append(hints, "expected s3://host/bucket[/prefix]")
		if os.Getenv("MINIO_ACCESS_KEY") == "" && os.Getenv("MINIO_ROOT_USER") == "" {
			hints = append(hints, "set MINIO_ACCESS_KEY and MINIO_SECRET_KEY or put key:secret@ in the URL")
		}
		return formatHints(hints)
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return format("the base URL must serve assignment.pdf and lab_report.pdf")
	default:
		return format("use a directory, an http(s) URL or an s3:// URL")
	}
}

// ForConfigExists returns hints for "config init" on an existing file.
func ForConfigExists() string {
	return format("use --force to overwrite it")
}

// ForListen returns hints for a server that cannot bind its address.
func ForListen() string {
	var hints []string
	if IsInContainer() {
		hints = append(hints, "inside a container, listen on all interfaces (--addr :8080)")
	}
	hints = append(hints, "check that the port is free or set PORT")
	return formatHints(hints)
}

// ForRedis returns hints for session store connection errors.
func ForRedis() string {
	return format("check REDIS_URL, or unset it to keep sessions in memory")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForUnencodableText explains which characters the cover can print.
func ForUnencodableText() string {
	return format("the cover font prints Latin characters only; transliterate the value (e.g. Rahim for রহিম)")
}

// ForIgnoredFiles explains why inputs were left out of the document.
func ForIgnoredFiles(n int) string {
	if n <= 0 {
		return ""
	}
	return format("only images (JPEG, PNG) and PDF files are added to the document")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
