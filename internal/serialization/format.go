package serialization

import "time"

// Format constants.
const (
	MagicBytes      = "PCTX"
	FormatVersion   = 1    // v1: fixed header with SHA-256 checksum
	FixedHeaderSize = 64   // fixed header size (0x40 bytes)
	ChecksumSize    = 32   // SHA-256 checksum size (32 bytes)
	ChecksumOffset  = 0x20 // checksum offset in the fixed header
)

// Flags for the .pctx format.
const (
	FlagHasMetadata uint32 = 1 << 0 // bit 0: caller metadata present
)

// Model type names, one per storage layout.
const (
	ModelTypeDense       = "DenseMultinomialPerceptron"
	ModelTypeSparseDense = "SparseDenseMultinomialPerceptron"
	ModelTypeSparse      = "SparseMultinomialPerceptron"
)

// ModelTypes lists every model type a container may hold.
var ModelTypes = []string{ModelTypeDense, ModelTypeSparseDense, ModelTypeSparse}

// Header represents the JSON header in a .pctx file.
type Header struct {
	FormatVersion  int       `json:"format_version"`     // Version of the .pctx format
	LibraryVersion string    `json:"library_version"`    // Version of the library that wrote the file
	ModelType      string    `json:"model_type"`         // Storage layout of the payload record
	CreatedAt      time.Time `json:"created_at"`         // When the file was created
	OuterSize      int       `json:"outer_size"`         // Outer dimension of the model
	InnerSize      int       `json:"inner_size"`         // Inner dimension of the model
	Metadata       string    `json:"metadata,omitempty"` // Copy of the record metadata, for inspection
}

// knownModelType reports whether t names a storage layout.
func knownModelType(t string) bool {
	for _, m := range ModelTypes {
		if m == t {
			return true
		}
	}
	return false
}
