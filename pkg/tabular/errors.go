package tabular

import (
	"fmt"
)

// UnsupportedFormatError reports a response whose declared content type maps
// to no known parse format.
type UnsupportedFormatError struct {
	ContentType string
}

// Error implements the error interface.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported content type %q", e.ContentType)
}

// ParseError reports a body that could not be converted to a dataset. The
// whole response is discarded; there is no partial-result policy.
type ParseError struct {
	Format  Format
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Format, e.Message, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Format, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ParseError) Unwrap() error {
	return e.Err
}
