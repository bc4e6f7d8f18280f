package errors

import (
	"slices"
	"strings"
)

// ValidateSubplotIndex checks that a panel position is usable as a grid
// address. Both indices must be non-negative; no upper bound is applied
// because the grid is sized from the largest index seen.
func ValidateSubplotIndex(row, col int) error {
	if row < 0 || col < 0 {
		return New(ErrCodeInvalidDocument, "subplot_index (%d, %d) must be non-negative", row, col)
	}
	return nil
}

// ValidateFormat checks that format (case-insensitive, optional leading dot)
// is one of supported.
func ValidateFormat(format string, supported []string) error {
	f := strings.ToLower(strings.TrimPrefix(format, "."))
	if f == "" {
		return New(ErrCodeUnsupportedFormat, "output format cannot be empty")
	}
	if !slices.Contains(supported, f) {
		return New(ErrCodeUnsupportedFormat, "unsupported format %q (must be one of %s)", format, strings.Join(supported, ", "))
	}
	return nil
}

// ValidateOutputPath rejects paths that cannot name a file: empty strings,
// paths ending in a separator and paths containing control characters.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidInput, "output path %q names a directory", path)
	}
	for _, r := range path {
		if r < 0x20 || r == 0x7f {
			return New(ErrCodeInvalidInput, "output path contains invalid control characters")
		}
	}
	return nil
}
