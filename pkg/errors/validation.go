package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateOutputBasename checks a basename derived from layer labels or a
// basename template before it is joined to the output directory.
//
// Basenames may contain "/" to place maps in subdirectories, but they must
// stay inside the output directory:
//   - not empty
//   - not absolute
//   - no ".." path components
//   - no control characters
//   - at most 255 bytes per path component
func ValidateOutputBasename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "output basename cannot be empty")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output basename %q contains control characters", name)
		}
	}

	if strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return New(ErrCodeInvalidPath, "output basename %q must be relative", name)
	}

	for _, part := range strings.Split(name, "/") {
		if part == "" {
			return New(ErrCodeInvalidPath, "output basename %q contains an empty path component", name)
		}
		if part == ".." {
			return New(ErrCodeInvalidPath, "output basename %q escapes the output directory", name)
		}
		if len(part) > 255 {
			return New(ErrCodeInvalidPath, "output basename component too long (max 255 bytes)")
		}
	}

	return nil
}
