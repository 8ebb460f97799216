package train

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Metadata is the run description stored in a model's metadata string.
//
// Dense and sparse/dense models index classes by position; Classes maps
// those positions back to label names.
type Metadata struct {
	Run     string   `json:"run"`
	Variant Variant  `json:"variant"`
	Classes []string `json:"classes,omitempty"`
	Note    string   `json:"note,omitempty"`
}

// NewMetadata describes a new training run with a fresh run id.
func NewMetadata(variant Variant, classes []string, note string) Metadata {
	return Metadata{
		Run:     uuid.NewString(),
		Variant: variant,
		Classes: classes,
		Note:    note,
	}
}

// String encodes m for Write and Save.
func (m Metadata) String() string {
	b, err := json.Marshal(m)
	if err != nil {
		// Metadata holds only strings; Marshal cannot fail.
		panic(err)
	}
	return string(b)
}

// ParseMetadata decodes a metadata string written by Metadata.String.
func ParseMetadata(s string) (Metadata, error) {
	var m Metadata
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse model metadata: %w", err)
	}
	return m, nil
}
