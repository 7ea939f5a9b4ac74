package errors

import (
	"strings"
	"unicode"
)

const (
	maxFieldName = 128
	maxDirPath   = 500
	maxYear      = 9999
)

// ValidateFieldName checks a column name given for grouping. Header cells
// such as "* Damage" carry spaces and symbols, so only blank, oversized and
// control-character names are rejected.
func ValidateFieldName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return New(ErrCodeInvalidField, "field name cannot be empty")
	case len(name) > maxFieldName:
		return New(ErrCodeInvalidField, "field name longer than %d characters", maxFieldName)
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidField, "field name contains control characters")
	}
	return nil
}

// ValidateYearWindow checks an inclusive year-built window.
func ValidateYearWindow(from, to int) error {
	if from > to {
		return New(ErrCodeInvalidRange, "year window start %d is after end %d", from, to)
	}
	if from < 0 || to > maxYear {
		return New(ErrCodeInvalidRange, "year window %d:%d outside 0:%d", from, to, maxYear)
	}
	return nil
}

// ValidateOutputDir checks the directory artifacts are written to.
func ValidateOutputDir(path string) error {
	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "output directory cannot be empty")
	case len(path) > maxDirPath:
		return New(ErrCodeInvalidPath, "output directory longer than %d characters", maxDirPath)
	case strings.IndexFunc(path, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidPath, "output directory contains control characters")
	}
	return nil
}
