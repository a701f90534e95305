package errors

import (
	"strings"
	"unicode"
)

// ValidateElementName validates a model element name from a description file.
// It rejects names that cannot safely become Capella element names.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No null bytes
//   - Maximum length of 256 characters
//
// Capella itself accepts nearly arbitrary names; the limits here exist to
// catch obviously broken input (binary garbage, truncated files) early.
func ValidateElementName(name string) error {
	if name == "" {
		return New(ErrCodeMissingField, "element name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidName, "element name too long (max 256 characters)")
	}

	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "element name contains control characters: %q", name)
		}
	}

	return nil
}

// ValidateTypeRef validates a type reference from an attribute description.
// Type references are plain element names, optionally qualified with dots
// (e.g. "Types.Temperature").
func ValidateTypeRef(ref string) error {
	if ref == "" {
		return New(ErrCodeMissingField, "type reference cannot be empty")
	}

	if strings.HasPrefix(ref, ".") || strings.HasSuffix(ref, ".") || strings.Contains(ref, "..") {
		return New(ErrCodeInvalidName, "malformed type reference: %q", ref)
	}

	for _, part := range strings.Split(ref, ".") {
		if err := ValidateElementName(part); err != nil {
			return err
		}
	}

	return nil
}
