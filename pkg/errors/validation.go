package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// identifierRegex matches page and item identifiers.
var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidateIdentifier validates a page or item identifier for safety.
// Identifiers end up as store keys and file names, so the rules are
// intentionally conservative:
//   - No empty identifiers
//   - Maximum length of 128 characters
//   - ASCII letters, digits and . _ : - only, starting with a letter or digit
//   - No path traversal sequences (..)
func ValidateIdentifier(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", kind)
	}

	const maxIdentifierLength = 128
	if len(id) > maxIdentifierLength {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", kind, maxIdentifierLength)
	}

	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "%s cannot contain path traversal sequences (..)", kind)
	}

	if !identifierRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid %s: %q", kind, id)
	}

	return nil
}

// ValidatePageID validates a page identifier.
func ValidatePageID(id string) error {
	return ValidateIdentifier("page id", id)
}

// ValidateItemID validates an item identifier.
func ValidateItemID(id string) error {
	return ValidateIdentifier("item id", id)
}

// ValidateLabel validates a human-readable item label.
// Labels may contain spaces and unicode but no control characters.
func ValidateLabel(label string) error {
	const maxLabelLength = 256
	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (max %d characters)", maxLabelLength)
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains invalid control characters")
		}
	}

	return nil
}

// ValidateSpan validates a footprint against grid dimensions.
// Both the span and the grid must be positive and the span must fit.
func ValidateSpan(w, h, columns, rows int) error {
	if columns <= 0 || rows <= 0 {
		return New(ErrCodeInvalidInput, "grid must be at least 1x1, got %dx%d", columns, rows)
	}
	if w <= 0 || h <= 0 {
		return New(ErrCodeInvalidInput, "item span must be at least 1x1, got %dx%d", w, h)
	}
	if w > columns || h > rows {
		return New(ErrCodeOutOfBounds, "item span %dx%d exceeds grid %dx%d", w, h, columns, rows)
	}
	return nil
}
