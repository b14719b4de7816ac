package tabular

import (
	"mime"
	"strings"
)

// Format tags the wire format a body is parsed as.
type Format string

const (
	// FormatJSON parses application/json bodies.
	FormatJSON Format = "json"

	// FormatCSV parses text/csv bodies.
	FormatCSV Format = "csv"
)

// DetectFormat resolves a declared content type to a parse format. Media type
// parameters ("; charset=utf-8") are ignored; "+json" structured syntax
// suffixes count as JSON. Unknown content types fail with
// *UnsupportedFormatError.
func DetectFormat(contentType string) (Format, error) {
	mediaType := contentType
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = parsed
	}

	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return FormatJSON, nil
	case mediaType == "text/csv":
		return FormatCSV, nil
	default:
		return "", &UnsupportedFormatError{ContentType: contentType}
	}
}
