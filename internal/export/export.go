package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"cigfip/internal/domain"
)

// ParseFormat validates a requested format; empty means CSV.
func ParseFormat(s string) (domain.ExportFormat, error) {
	switch domain.ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", domain.ExportCSV:
		return domain.ExportCSV, nil
	case domain.ExportXLSX:
		return domain.ExportXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidExportFormat, s)
}

// Write renders set in the given format.
func Write(w io.Writer, format domain.ExportFormat, set *domain.RecordSet) error {
	switch format {
	case domain.ExportCSV:
		return WriteCSV(w, set)
	case domain.ExportXLSX:
		return WriteXLSX(w, set)
	}
	return fmt.Errorf("%w: %q", domain.ErrInvalidExportFormat, format)
}

// ContentType returns the MIME type for format.
func ContentType(format domain.ExportFormat) string {
	if format == domain.ExportXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns ci_gfip_{nit}_{YYYY-MM-DD}.{ext}.
func BuildFilename(nit string, format domain.ExportFormat, now time.Time) string {
	base := "ci_gfip"
	if s := SanitizeFilename(nit); s != "" {
		base += "_" + s
	}
	return fmt.Sprintf("%s_%s.%s", base, now.Format("2006-01-02"), format)
}
