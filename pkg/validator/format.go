package validator

import (
	"path/filepath"
	"strings"
)

// FormatError renders err as a single report line:
//
//	/abs/file.yaml:LINE:COL: prop:index: message
//
// The position is omitted when unknown. verbose appends the schema location
// and offending value.
func FormatError(filename string, err *Error, verbose bool) string {
	src, absErr := filepath.Abs(filename)
	if absErr != nil {
		src = filename
	}

	var b strings.Builder
	b.WriteString(src)
	b.WriteString(":")
	if err.LineCol != nil {
		b.WriteString(err.LineCol.String())
		b.WriteString(":")
	}

	if len(err.Path) > 0 {
		b.WriteString(" ")
		b.WriteString(err.Path[0])
		b.WriteString(":")
		if len(err.Path) > 1 {
			b.WriteString(err.Path[1])
			b.WriteString(":")
		}
	}

	b.WriteString(" ")
	if verbose {
		b.WriteString(err.Detail())
	} else {
		b.WriteString(err.Message)
	}
	return b.String()
}
