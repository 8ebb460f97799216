package serialization

import "fmt"

// Validation limits for resource protection.
const (
	MaxHeaderSize   = 16 * 1024 * 1024 // 16MB - maximum JSON header size
	MaxMetadataSize = 10 * 1024 * 1024 // 10MB - maximum metadata size
	MaxPayloadSize  = 1 << 32          // 4GB - maximum record size
	MaxInnerSize    = 1 << 24          // maximum number of classes
)

// ValidationLevel controls the strictness of validation.
type ValidationLevel int

const (
	// ValidationStrict performs all validation checks (default, recommended for production).
	ValidationStrict ValidationLevel = iota
	// ValidationNormal performs basic validation checks only.
	ValidationNormal
	// ValidationNone skips validation (dangerous! Use only with trusted input).
	ValidationNone
)

// ValidateHeader checks a container header against the payload it describes.
func ValidateHeader(h *Header, payloadSize int64, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}

	if !knownModelType(h.ModelType) {
		return &ValidationError{
			Type:    "unknown_model_type",
			Field:   "model_type",
			Details: fmt.Sprintf("%q is not one of %v", h.ModelType, ModelTypes),
		}
	}

	if h.OuterSize < 0 || h.InnerSize < 0 {
		return &ValidationError{
			Type:    "negative_size",
			Details: fmt.Sprintf("outer_size=%d, inner_size=%d (negative values not allowed)", h.OuterSize, h.InnerSize),
		}
	}

	if len(h.Metadata) > MaxMetadataSize {
		return &ValidationError{
			Type:    "metadata_too_large",
			Field:   "metadata",
			Details: fmt.Sprintf("length %d > max %d", len(h.Metadata), MaxMetadataSize),
		}
	}

	// Size plausibility checks (only in strict mode).
	if level == ValidationStrict {
		if h.InnerSize > MaxInnerSize {
			return &ValidationError{
				Type:    "inner_size",
				Field:   "inner_size",
				Details: fmt.Sprintf("%d > max %d", h.InnerSize, MaxInnerSize),
			}
		}
		// A dense model stores 8 bytes per weight.
		if h.ModelType == ModelTypeDense && int64(h.OuterSize)*int64(h.InnerSize)*8 > payloadSize {
			return &ValidationError{
				Type:    "payload_too_small",
				Details: fmt.Sprintf("%d × %d weights do not fit in %d bytes", h.OuterSize, h.InnerSize, payloadSize),
			}
		}
	}

	return nil
}
