package serialization

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(t *testing.T) (Header, []byte) {
	t.Helper()
	rec := &SparseDenseRecord{
		Metadata:  "run-7",
		InnerSize: 2,
		Table:     map[int64][]float64{3: {1, -1}, 11: {0.5, 0.25}},
	}
	payload, err := rec.MarshalBinary()
	require.NoError(t, err)
	return Header{
		ModelType: rec.ModelType(),
		OuterSize: len(rec.Table),
		InnerSize: int(rec.InnerSize),
		Metadata:  rec.Metadata,
	}, payload
}

// TestContainer_FileRoundTrip tests write → read through a file.
func TestContainer_FileRoundTrip(t *testing.T) {
	header, payload := sampleRecord(t)
	path := filepath.Join(t.TempDir(), "model.pctx")

	writer, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.Write(header, payload))
	require.NoError(t, writer.Close())
	require.NoError(t, writer.Close(), "double close must be a no-op")
	assert.Error(t, writer.Write(header, payload), "write after close must fail")

	reader, err := NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	got := reader.Header()
	assert.Equal(t, FormatVersion, got.FormatVersion)
	assert.Equal(t, libraryVersion, got.LibraryVersion)
	assert.Equal(t, ModelTypeSparseDense, got.ModelType)
	assert.Equal(t, 2, got.OuterSize)
	assert.Equal(t, 2, got.InnerSize)
	assert.Equal(t, "run-7", got.Metadata)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, FlagHasMetadata, reader.Flags()&FlagHasMetadata)

	data, err := reader.Payload()
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	rec := &SparseDenseRecord{}
	require.NoError(t, rec.UnmarshalBinary(data))
	assert.Equal(t, []float64{0.5, 0.25}, rec.Table[11])
}

// TestContainer_StreamRoundTrip tests Encode → Decode in memory.
func TestContainer_StreamRoundTrip(t *testing.T) {
	header, payload := sampleRecord(t)

	data, err := Encode(header, payload)
	require.NoError(t, err)
	assert.Equal(t, MagicBytes, string(data[:4]))

	got, gotPayload, err := Decode(data, ReaderOptions{})
	require.NoError(t, err)
	assert.Equal(t, header.ModelType, got.ModelType)
	assert.Equal(t, payload, gotPayload)
}

// TestContainer_Corruption verifies tampered payloads are detected.
func TestContainer_Corruption(t *testing.T) {
	header, payload := sampleRecord(t)
	data, err := Encode(header, payload)
	require.NoError(t, err)

	data[len(data)-1] ^= 0xff

	_, _, err = Decode(data, ReaderOptions{})
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	_, got, err := Decode(data, ReaderOptions{SkipChecksumValidation: true})
	require.NoError(t, err)
	assert.NotEqual(t, payload, got)
}

func TestContainer_InvalidInput(t *testing.T) {
	header, payload := sampleRecord(t)
	valid, err := Encode(header, payload)
	require.NoError(t, err)

	badMagic := bytes.Clone(valid)
	copy(badMagic, "NOPE")

	badVersion := bytes.Clone(valid)
	badVersion[4] = 9

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "bad magic", data: badMagic, wantErr: ErrInvalidMagic},
		{name: "bad version", data: badVersion, wantErr: ErrUnsupportedVersion},
		{name: "truncated fixed header", data: valid[:10]},
		{name: "truncated payload", data: valid[:len(valid)-1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.data, ReaderOptions{})
			require.Error(t, err)
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestContainer_UnknownModelType(t *testing.T) {
	_, payload := sampleRecord(t)
	path := filepath.Join(t.TempDir(), "weird.pctx")

	data, err := Encode(Header{ModelType: "Transformer"}, payload)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err = NewReader(path)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)

	reader, err := NewReaderWithOptions(path, ReaderOptions{ValidationLevel: ValidationNone})
	require.NoError(t, err)
	assert.NoError(t, reader.Close())
}
