package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrMalformedRecord    = errors.New("malformed record")
	ErrWrongVariant       = errors.New("record belongs to a different storage layout")
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrPayloadTooLarge    = errors.New("payload exceeds maximum size")
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrUnknownModelType   = errors.New("unknown model type")
)

// ValidationError provides detailed information about header validation failures.
type ValidationError struct {
	Type    string // Type of error (e.g., "unknown_model_type", "inner_size")
	Field   string // Header field involved
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field %q: %s", e.Type, e.Field, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}

// malformed wraps err as a malformed-record error.
func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedRecord, fmt.Sprintf(format, args...))
}
