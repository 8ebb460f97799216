package perceptron

import (
	"fmt"
	"io"
	"math"

	"github.com/perceptronix/perceptronix/internal/serialization"
	"github.com/perceptronix/perceptronix/internal/table"
	"github.com/perceptronix/perceptronix/internal/weight"
)

func innerSize32(inner int) (uint32, error) {
	if uint64(inner) > math.MaxUint32 {
		return 0, fmt.Errorf("inner size %d does not fit the record", inner)
	}
	return uint32(inner), nil
}

func (m *DenseMultinomialPerceptron) record(metadata string) (serialization.Record, error) {
	inner, err := innerSize32(m.InnerSize())
	if err != nil {
		return nil, err
	}
	rec := &serialization.DenseRecord{
		Metadata:  metadata,
		InnerSize: inner,
		Table:     make([][]float64, 0, m.OuterSize()),
	}
	m.table.Range(func(_ int, row []weight.Weight) bool {
		rec.Table = append(rec.Table, rowValues(row))
		return true
	})
	return rec, nil
}

// ModelType returns the storage layout name.
func (m *DenseMultinomialPerceptron) ModelType() string {
	return serialization.ModelTypeDense
}

// Write writes the model and metadata as a single record.
func (m *DenseMultinomialPerceptron) Write(w io.Writer, metadata string) error {
	rec, err := m.record(metadata)
	if err != nil {
		return err
	}
	return serialization.WriteRecord(w, rec)
}

// ReadDenseMultinomialPerceptron reads a record written by
// DenseMultinomialPerceptron.Write and returns the model and its metadata.
func ReadDenseMultinomialPerceptron(r io.Reader) (*DenseMultinomialPerceptron, string, error) {
	rec := &serialization.DenseRecord{}
	if err := serialization.ReadRecord(r, rec); err != nil {
		return nil, "", err
	}

	m := newDenseMultinomialPerceptron(len(rec.Table), int(rec.InnerSize))
	for i, values := range rec.Table {
		row, _ := m.table.Row(i)
		setRow(row, values)
	}
	return m, rec.Metadata, nil
}

func (m *SparseDenseMultinomialPerceptron) record(metadata string) (serialization.Record, error) {
	inner, err := innerSize32(m.InnerSize())
	if err != nil {
		return nil, err
	}
	rec := &serialization.SparseDenseRecord{
		Metadata:  metadata,
		InnerSize: inner,
		Table:     make(map[int64][]float64, m.OuterSize()),
	}
	m.table.Range(func(outer int, row []weight.Weight) bool {
		rec.Table[int64(outer)] = rowValues(row)
		return true
	})
	return rec, nil
}

// ModelType returns the storage layout name.
func (m *SparseDenseMultinomialPerceptron) ModelType() string {
	return serialization.ModelTypeSparseDense
}

// Write writes the model and metadata as a single record.
func (m *SparseDenseMultinomialPerceptron) Write(w io.Writer, metadata string) error {
	rec, err := m.record(metadata)
	if err != nil {
		return err
	}
	return serialization.WriteRecord(w, rec)
}

// ReadSparseDenseMultinomialPerceptron reads a record written by
// SparseDenseMultinomialPerceptron.Write.
func ReadSparseDenseMultinomialPerceptron(r io.Reader) (*SparseDenseMultinomialPerceptron, string, error) {
	rec := &serialization.SparseDenseRecord{}
	if err := serialization.ReadRecord(r, rec); err != nil {
		return nil, "", err
	}

	m := newSparseDenseMultinomialPerceptron(len(rec.Table), int(rec.InnerSize))
	for outer, values := range rec.Table {
		setRow(m.table.Touch(int(outer)), values)
	}
	return m, rec.Metadata, nil
}

func (m *SparseMultinomialPerceptron) record(metadata string) (serialization.Record, error) {
	inner, err := innerSize32(m.InnerSize())
	if err != nil {
		return nil, err
	}
	rec := &serialization.SparseRecord{
		Metadata:  metadata,
		InnerSize: inner,
		Table:     make(map[int64]map[string]float64, m.OuterSize()),
	}
	m.table.Range(func(outer int, row map[table.Label]*weight.Weight) bool {
		values := make(map[string]float64, len(row))
		for label, c := range row {
			if label.IsNoClass() {
				continue
			}
			values[label.Name()] = c.Get()
		}
		rec.Table[int64(outer)] = values
		return true
	})
	return rec, nil
}

// ModelType returns the storage layout name.
func (m *SparseMultinomialPerceptron) ModelType() string {
	return serialization.ModelTypeSparse
}

// Write writes the model and metadata as a single record. NoClass cells are
// never written.
func (m *SparseMultinomialPerceptron) Write(w io.Writer, metadata string) error {
	rec, err := m.record(metadata)
	if err != nil {
		return err
	}
	return serialization.WriteRecord(w, rec)
}

// ReadSparseMultinomialPerceptron reads a record written by
// SparseMultinomialPerceptron.Write.
func ReadSparseMultinomialPerceptron(r io.Reader) (*SparseMultinomialPerceptron, string, error) {
	rec := &serialization.SparseRecord{}
	if err := serialization.ReadRecord(r, rec); err != nil {
		return nil, "", err
	}

	m := newSparseMultinomialPerceptron(len(rec.Table), int(rec.InnerSize))
	for outer, values := range rec.Table {
		m.table.Touch(int(outer))
		for name, v := range values {
			label := table.NewLabel(name)
			if label.IsNoClass() {
				continue
			}
			m.table.Cell(int(outer), label).Set(v)
		}
	}
	return m, rec.Metadata, nil
}

func rowValues(row []weight.Weight) []float64 {
	values := make([]float64, len(row))
	for i := range row {
		values[i] = row[i].Get()
	}
	return values
}

func setRow(row []weight.Weight, values []float64) {
	for i, v := range values {
		row[i].Set(v)
	}
}
