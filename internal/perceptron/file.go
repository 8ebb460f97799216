package perceptron

import (
	"bytes"
	"fmt"
	"io"

	"github.com/perceptronix/perceptronix/internal/serialization"
)

// Model is a finalized perceptron of any storage layout.
type Model interface {
	ModelType() string
	OuterSize() int
	InnerSize() int
	Write(w io.Writer, metadata string) error

	record(metadata string) (serialization.Record, error)
}

// Reader decodes one record payload into a model and its metadata.
type Reader func(r io.Reader) (Model, string, error)

// Readers maps a model type name to the function that decodes it.
var Readers = map[string]Reader{
	serialization.ModelTypeDense: func(r io.Reader) (Model, string, error) {
		return asModel(ReadDenseMultinomialPerceptron(r))
	},
	serialization.ModelTypeSparseDense: func(r io.Reader) (Model, string, error) {
		return asModel(ReadSparseDenseMultinomialPerceptron(r))
	},
	serialization.ModelTypeSparse: func(r io.Reader) (Model, string, error) {
		return asModel(ReadSparseMultinomialPerceptron(r))
	},
}

// asModel keeps a failed read from turning into a non-nil Model holding a nil pointer.
func asModel[M Model](m M, metadata string, err error) (Model, string, error) {
	if err != nil {
		return nil, "", err
	}
	return m, metadata, nil
}

// header builds the container header and record payload of m.
func header(m Model, metadata string) (serialization.Header, []byte, error) {
	rec, err := m.record(metadata)
	if err != nil {
		return serialization.Header{}, nil, err
	}
	payload, err := rec.MarshalBinary()
	if err != nil {
		return serialization.Header{}, nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	return serialization.Header{
		ModelType: m.ModelType(),
		OuterSize: m.OuterSize(),
		InnerSize: m.InnerSize(),
		Metadata:  metadata,
	}, payload, nil
}

func decodePayload(h serialization.Header, payload []byte) (Model, string, error) {
	read, ok := Readers[h.ModelType]
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownModel, h.ModelType)
	}
	return read(bytes.NewReader(payload))
}

// Save writes m to a .pctx file at path.
//
// Example:
//
//	if err := perceptron.Save("tagger.pctx", model, "tagger-v2"); err != nil {
//	    log.Fatal(err)
//	}
func Save(path string, m Model, metadata string) (err error) {
	h, payload, err := header(m, metadata)
	if err != nil {
		return err
	}

	writer, err := serialization.NewWriter(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := writer.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close writer: %w", closeErr)
		}
	}()

	return writer.Write(h, payload)
}

// Load reads a model saved by Save. The concrete type of the returned Model
// follows the model type recorded in the file.
func Load(path string) (Model, string, error) {
	reader, err := serialization.NewMmapReader(path, serialization.ReaderOptions{
		ValidationLevel: serialization.ValidationStrict,
	})
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = reader.Close() }()

	payload, err := reader.Payload()
	if err != nil {
		return nil, "", err
	}
	return decodePayload(reader.Header(), payload)
}

// Inspect returns the container header of a saved model without decoding the payload.
func Inspect(path string) (serialization.Header, error) {
	reader, err := serialization.NewReader(path)
	if err != nil {
		return serialization.Header{}, err
	}
	defer func() { _ = reader.Close() }()
	return reader.Header(), nil
}

// Encode returns the .pctx encoding of m.
func Encode(m Model, metadata string) ([]byte, error) {
	h, payload, err := header(m, metadata)
	if err != nil {
		return nil, err
	}
	return serialization.Encode(h, payload)
}

// Decode parses data produced by Encode.
func Decode(data []byte) (Model, string, error) {
	h, payload, err := serialization.Decode(data, serialization.ReaderOptions{
		ValidationLevel: serialization.ValidationStrict,
	})
	if err != nil {
		return nil, "", err
	}
	return decodePayload(h, payload)
}
