package serialization

import (
	"encoding"
	"fmt"
	"io"
	"math"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of perceptron.proto.
const (
	fieldMetadata         protowire.Number = 1
	fieldInnerSize        protowire.Number = 2
	fieldDenseTable       protowire.Number = 3
	fieldSparseDenseTable protowire.Number = 4
	fieldSparseTable      protowire.Number = 5

	fieldRowValues protowire.Number = 1
	fieldMapKey    protowire.Number = 1
	fieldMapValue  protowire.Number = 2
)

// Record is the persisted form of one finalized model.
type Record interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler

	// ModelType returns the storage layout name of the record.
	ModelType() string
}

// DenseRecord is the record of a dense/dense model: one row per outer index.
type DenseRecord struct {
	Metadata  string
	InnerSize uint32
	Table     [][]float64
}

// ModelType implements Record.
func (r *DenseRecord) ModelType() string {
	return ModelTypeDense
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (r *DenseRecord) MarshalBinary() ([]byte, error) {
	b := appendPreamble(nil, r.Metadata, r.InnerSize)
	for _, row := range r.Table {
		b = protowire.AppendTag(b, fieldDenseTable, protowire.BytesType)
		b = protowire.AppendBytes(b, appendRow(nil, row))
	}
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
// Every row must hold exactly InnerSize values.
func (r *DenseRecord) UnmarshalBinary(data []byte) error {
	*r = DenseRecord{}
	err := decodeRecord(data, &r.Metadata, &r.InnerSize, fieldDenseTable, func(b []byte) error {
		row, err := decodeRow(b)
		if err != nil {
			return err
		}
		r.Table = append(r.Table, row)
		return nil
	})
	if err != nil {
		return err
	}
	for i, row := range r.Table {
		if len(row) != int(r.InnerSize) {
			return malformed("row %d has %d values, want %d", i, len(row), r.InnerSize)
		}
	}
	return nil
}

// SparseDenseRecord is the record of a sparse/dense model: outer key to dense row.
type SparseDenseRecord struct {
	Metadata  string
	InnerSize uint32
	Table     map[int64][]float64
}

// ModelType implements Record.
func (r *SparseDenseRecord) ModelType() string {
	return ModelTypeSparseDense
}

// MarshalBinary implements encoding.BinaryMarshaler. Keys are written in ascending order.
func (r *SparseDenseRecord) MarshalBinary() ([]byte, error) {
	b := appendPreamble(nil, r.Metadata, r.InnerSize)
	for _, key := range sortedKeys(r.Table) {
		var entry []byte
		entry = protowire.AppendTag(entry, fieldMapKey, protowire.VarintType)
		entry = protowire.AppendVarint(entry, uint64(key))
		entry = protowire.AppendTag(entry, fieldMapValue, protowire.BytesType)
		entry = protowire.AppendBytes(entry, appendRow(nil, r.Table[key]))

		b = protowire.AppendTag(b, fieldSparseDenseTable, protowire.BytesType)
		b = protowire.AppendBytes(b, entry)
	}
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
// Every row must hold exactly InnerSize values.
func (r *SparseDenseRecord) UnmarshalBinary(data []byte) error {
	*r = SparseDenseRecord{Table: make(map[int64][]float64)}
	return decodeRecord(data, &r.Metadata, &r.InnerSize, fieldSparseDenseTable, func(b []byte) error {
		var (
			key int64
			row []float64
		)
		err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
			switch num {
			case fieldMapKey:
				v, n, err := consumeVarint(typ, b)
				key = int64(v)
				return n, err
			case fieldMapValue:
				v, n, err := consumeBytes(typ, b)
				if err != nil {
					return n, err
				}
				row, err = decodeRow(v)
				return n, err
			default:
				return skip(num, typ, b)
			}
		})
		if err != nil {
			return err
		}
		if len(row) != int(r.InnerSize) {
			return malformed("row %d has %d values, want %d", key, len(row), r.InnerSize)
		}
		r.Table[key] = row
		return nil
	})
}

// SparseRecord is the record of a sparse/sparse model: outer key to label to weight.
//
// The empty label is reserved and is neither written nor read.
type SparseRecord struct {
	Metadata  string
	InnerSize uint32
	Table     map[int64]map[string]float64
}

// ModelType implements Record.
func (r *SparseRecord) ModelType() string {
	return ModelTypeSparse
}

// MarshalBinary implements encoding.BinaryMarshaler. Keys and labels are written in ascending order.
func (r *SparseRecord) MarshalBinary() ([]byte, error) {
	b := appendPreamble(nil, r.Metadata, r.InnerSize)
	for _, key := range sortedKeys(r.Table) {
		var labels []byte
		row := r.Table[key]
		names := make([]string, 0, len(row))
		for name := range row {
			if name == "" {
				continue
			}
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			var entry []byte
			entry = protowire.AppendTag(entry, fieldMapKey, protowire.BytesType)
			entry = protowire.AppendString(entry, name)
			entry = protowire.AppendTag(entry, fieldMapValue, protowire.Fixed64Type)
			entry = protowire.AppendFixed64(entry, math.Float64bits(row[name]))

			labels = protowire.AppendTag(labels, fieldRowValues, protowire.BytesType)
			labels = protowire.AppendBytes(labels, entry)
		}

		var entry []byte
		entry = protowire.AppendTag(entry, fieldMapKey, protowire.VarintType)
		entry = protowire.AppendVarint(entry, uint64(key))
		entry = protowire.AppendTag(entry, fieldMapValue, protowire.BytesType)
		entry = protowire.AppendBytes(entry, labels)

		b = protowire.AppendTag(b, fieldSparseTable, protowire.BytesType)
		b = protowire.AppendBytes(b, entry)
	}
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (r *SparseRecord) UnmarshalBinary(data []byte) error {
	*r = SparseRecord{Table: make(map[int64]map[string]float64)}
	return decodeRecord(data, &r.Metadata, &r.InnerSize, fieldSparseTable, func(b []byte) error {
		var key int64
		row := make(map[string]float64)
		err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
			switch num {
			case fieldMapKey:
				v, n, err := consumeVarint(typ, b)
				key = int64(v)
				return n, err
			case fieldMapValue:
				v, n, err := consumeBytes(typ, b)
				if err != nil {
					return n, err
				}
				return n, decodeLabelRow(v, row)
			default:
				return skip(num, typ, b)
			}
		})
		if err != nil {
			return err
		}
		r.Table[key] = row
		return nil
	})
}

// WriteRecord encodes rec and writes it to w in a single call.
//
// A failed or short write leaves w with an unusable prefix; callers must
// discard whatever was written.
func WriteRecord(w io.Writer, rec Record) error {
	data, err := rec.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", rec.ModelType(), err)
	}
	n, err := w.Write(data)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", rec.ModelType(), err)
	}
	if n < len(data) {
		return fmt.Errorf("failed to write %s: %w", rec.ModelType(), io.ErrShortWrite)
	}
	return nil
}

// ReadRecord reads r to EOF and decodes the bytes into rec.
//
// Read failures and decode failures both wrap ErrMalformedRecord.
func ReadRecord(r io.Reader, rec Record) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: failed to read %s: %w", ErrMalformedRecord, rec.ModelType(), err)
	}
	return rec.UnmarshalBinary(data)
}

// appendPreamble appends the metadata and inner_size fields, omitting proto3 defaults.
func appendPreamble(b []byte, metadata string, innerSize uint32) []byte {
	if metadata != "" {
		b = protowire.AppendTag(b, fieldMetadata, protowire.BytesType)
		b = protowire.AppendString(b, metadata)
	}
	if innerSize != 0 {
		b = protowire.AppendTag(b, fieldInnerSize, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(innerSize))
	}
	return b
}

// appendRow appends a Row message body with packed values.
func appendRow(b []byte, values []float64) []byte {
	if len(values) == 0 {
		return b
	}
	packed := make([]byte, 0, 8*len(values))
	for _, v := range values {
		packed = protowire.AppendFixed64(packed, math.Float64bits(v))
	}
	b = protowire.AppendTag(b, fieldRowValues, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}

// decodeRecord decodes the fields shared by every record and hands each
// entry of the table field to entry. Table fields of other layouts are
// rejected with ErrWrongVariant.
func decodeRecord(data []byte, metadata *string, innerSize *uint32, table protowire.Number, entry func([]byte) error) error {
	return walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldMetadata:
			v, n, err := consumeBytes(typ, b)
			*metadata = string(v)
			return n, err
		case fieldInnerSize:
			v, n, err := consumeVarint(typ, b)
			if err != nil {
				return n, err
			}
			if v > math.MaxUint32 {
				return n, malformed("inner_size %d overflows uint32", v)
			}
			*innerSize = uint32(v)
			return n, nil
		case table:
			v, n, err := consumeBytes(typ, b)
			if err != nil {
				return n, err
			}
			return n, entry(v)
		case fieldDenseTable, fieldSparseDenseTable, fieldSparseTable:
			return 0, fmt.Errorf("%w: %w: found table field %d, want %d", ErrMalformedRecord, ErrWrongVariant, num, table)
		default:
			return skip(num, typ, b)
		}
	})
}

// decodeRow decodes a Row message, accepting packed and unpacked values.
func decodeRow(data []byte) ([]float64, error) {
	var values []float64
	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != fieldRowValues {
			return skip(num, typ, b)
		}
		switch typ {
		case protowire.BytesType:
			packed, n, err := consumeBytes(typ, b)
			if err != nil {
				return n, err
			}
			if len(packed)%8 != 0 {
				return n, malformed("packed row of %d bytes", len(packed))
			}
			for len(packed) > 0 {
				v, m := protowire.ConsumeFixed64(packed)
				values = append(values, math.Float64frombits(v))
				packed = packed[m:]
			}
			return n, nil
		default:
			v, n, err := consumeFixed64(typ, b)
			values = append(values, math.Float64frombits(v))
			return n, err
		}
	})
	return values, err
}

// decodeLabelRow decodes a LabelRow message into row, skipping the empty label.
func decodeLabelRow(data []byte, row map[string]float64) error {
	return walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != fieldRowValues {
			return skip(num, typ, b)
		}
		entry, n, err := consumeBytes(typ, b)
		if err != nil {
			return n, err
		}
		var (
			name  string
			value float64
		)
		err = walk(entry, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
			switch num {
			case fieldMapKey:
				v, n, err := consumeBytes(typ, b)
				name = string(v)
				return n, err
			case fieldMapValue:
				v, n, err := consumeFixed64(typ, b)
				value = math.Float64frombits(v)
				return n, err
			default:
				return skip(num, typ, b)
			}
		})
		if err != nil {
			return n, err
		}
		if name != "" {
			row[name] = value
		}
		return n, nil
	})
}

// walk calls fn for every field of a message. fn returns the number of value
// bytes it consumed.
func walk(data []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return malformed("bad tag: %v", protowire.ParseError(n))
		}
		data = data[n:]
		m, err := fn(num, typ, data)
		if err != nil {
			return err
		}
		data = data[m:]
	}
	return nil
}

func consumeVarint(typ protowire.Type, b []byte) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, malformed("wire type %d, want varint", typ)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, malformed("varint: %v", protowire.ParseError(n))
	}
	return v, n, nil
}

func consumeFixed64(typ protowire.Type, b []byte) (uint64, int, error) {
	if typ != protowire.Fixed64Type {
		return 0, 0, malformed("wire type %d, want fixed64", typ)
	}
	v, n := protowire.ConsumeFixed64(b)
	if n < 0 {
		return 0, 0, malformed("fixed64: %v", protowire.ParseError(n))
	}
	return v, n, nil
}

func consumeBytes(typ protowire.Type, b []byte) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, malformed("wire type %d, want bytes", typ)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, malformed("bytes: %v", protowire.ParseError(n))
	}
	return v, n, nil
}

// skip consumes an unknown field.
func skip(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, malformed("field %d: %v", num, protowire.ParseError(n))
	}
	return n, nil
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
