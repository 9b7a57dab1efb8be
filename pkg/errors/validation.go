package errors

import (
	"strings"
	"unicode"
)

// ValidatePath validates a local file path referenced by a scene (image
// sources, font files) for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateFormat checks that an output format is one the encoders support.
// "jpeg" is accepted as an alias of "jpg".
func ValidateFormat(format string) error {
	switch format {
	case "png", "jpg", "jpeg":
		return nil
	}
	return New(ErrCodeInvalidFormat, "invalid output type: %q (must be one of: png, jpg)", format)
}

// ValidateQuality checks a JPEG quality setting.
func ValidateQuality(q int) error {
	if q < 1 || q > 100 {
		return New(ErrCodeInvalidFormat, "jpeg quality %d out of range (1-100)", q)
	}
	return nil
}
