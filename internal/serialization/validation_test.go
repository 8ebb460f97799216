package serialization

import (
	"errors"
	"strings"
	"testing"
)

// TestValidateHeader_Valid verifies that well-formed headers pass every level.
func TestValidateHeader_Valid(t *testing.T) {
	for _, modelType := range ModelTypes {
		h := &Header{ModelType: modelType, OuterSize: 2, InnerSize: 3, Metadata: "v1"}
		for _, level := range []ValidationLevel{ValidationStrict, ValidationNormal, ValidationNone} {
			if err := ValidateHeader(h, 48, level); err != nil {
				t.Errorf("%s at level %d: unexpected error: %v", modelType, level, err)
			}
		}
	}
}

// TestValidateHeader_Invalid checks each rejection reason.
func TestValidateHeader_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		header      Header
		payloadSize int64
		level       ValidationLevel
		wantType    string
	}{
		{
			name:     "unknown model type",
			header:   Header{ModelType: "Linear"},
			level:    ValidationNormal,
			wantType: "unknown_model_type",
		},
		{
			name:     "negative outer size",
			header:   Header{ModelType: ModelTypeSparse, OuterSize: -1},
			level:    ValidationNormal,
			wantType: "negative_size",
		},
		{
			name:     "metadata too large",
			header:   Header{ModelType: ModelTypeSparse, Metadata: strings.Repeat("x", MaxMetadataSize+1)},
			level:    ValidationNormal,
			wantType: "metadata_too_large",
		},
		{
			name:     "inner size too large",
			header:   Header{ModelType: ModelTypeSparse, InnerSize: MaxInnerSize + 1},
			level:    ValidationStrict,
			wantType: "inner_size",
		},
		{
			name:        "dense payload too small",
			header:      Header{ModelType: ModelTypeDense, OuterSize: 10, InnerSize: 10},
			payloadSize: 799,
			level:       ValidationStrict,
			wantType:    "payload_too_small",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHeader(&tt.header, tt.payloadSize, tt.level)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("Expected ValidationError, got %T (%v)", err, err)
			}
			if validationErr.Type != tt.wantType {
				t.Errorf("Expected %s error, got %s", tt.wantType, validationErr.Type)
			}
			if err := ValidateHeader(&tt.header, tt.payloadSize, ValidationNone); err != nil {
				t.Errorf("ValidationNone should accept anything, got: %v", err)
			}
		})
	}
}

// TestValidateHeader_StrictOnly verifies size checks are skipped in normal mode.
func TestValidateHeader_StrictOnly(t *testing.T) {
	h := &Header{ModelType: ModelTypeDense, OuterSize: 10, InnerSize: 10}
	if err := ValidateHeader(h, 0, ValidationNormal); err != nil {
		t.Errorf("Expected normal validation to skip size checks, got: %v", err)
	}
	if err := ValidateHeader(h, 0, ValidationStrict); err == nil {
		t.Error("Expected strict validation to reject an empty payload")
	}
}
