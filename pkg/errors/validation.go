package errors

import (
	"strings"
	"unicode"
)

// ValidateIndividualID validates a pedigree individual identifier.
// IDs come from user-supplied PED files and JSON payloads, so the rules
// are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No whitespace (PED files are whitespace-delimited)
//   - Maximum length of 256 characters
func ValidateIndividualID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPedigree, "individual ID cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidPedigree, "individual ID too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPedigree, "individual ID contains control characters")
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidPedigree, "individual ID cannot contain whitespace: %q", id)
		}
	}

	return nil
}

// ValidateFamilyID validates a family identifier.
// Family IDs appear in cache keys and preview-server URLs, so path
// separators and traversal sequences are rejected outright.
func ValidateFamilyID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPedigree, "family ID cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidPedigree, "family ID too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidPedigree, "family ID contains invalid characters: %q", id)
		}
	}

	if strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return New(ErrCodeInvalidPedigree, "family ID contains path characters: %q", id)
	}

	return nil
}

// ValidateOutputPath validates a user-supplied output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
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

	return nil
}
