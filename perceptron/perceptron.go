// Copyright 2026 The Perceptronix Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package perceptron

import (
	"io"

	"github.com/perceptronix/perceptronix/internal/perceptron"
	"github.com/perceptronix/perceptronix/internal/serialization"
	"github.com/perceptronix/perceptronix/internal/table"
)

// Label is a class name of a sparse model. The zero Label is NoClass.
type Label = table.Label

// NoClass is the reserved "no class yet" label. It is never part of a
// finalized or persisted model.
var NoClass = table.NoClass

// NewLabel returns the label with the given name.
func NewLabel(name string) Label {
	return table.NewLabel(name)
}

// Accumulators

// DenseAveragedPerceptron is a training accumulator with fixed feature and class counts.
type DenseAveragedPerceptron = perceptron.DenseAveragedPerceptron

// NewDenseAveragedPerceptron creates an accumulator of outer features × inner classes.
//
// Example:
//
//	avg := perceptron.NewDenseAveragedPerceptron(1000, 5)
//	ok, err := avg.Update([]int{3, 17, 512}, 2)
func NewDenseAveragedPerceptron(outer, inner int) *DenseAveragedPerceptron {
	return perceptron.NewDenseAveragedPerceptron(outer, inner)
}

// SparseDenseAveragedPerceptron is a training accumulator keyed by arbitrary feature ids.
type SparseDenseAveragedPerceptron = perceptron.SparseDenseAveragedPerceptron

// NewSparseDenseAveragedPerceptron creates an accumulator with inner classes.
// outer is a capacity hint.
func NewSparseDenseAveragedPerceptron(outer, inner int) *SparseDenseAveragedPerceptron {
	return perceptron.NewSparseDenseAveragedPerceptron(outer, inner)
}

// SparseAveragedPerceptron is a training accumulator keyed by feature id and Label.
type SparseAveragedPerceptron = perceptron.SparseAveragedPerceptron

// NewSparseAveragedPerceptron creates an accumulator. outer is a capacity hint.
func NewSparseAveragedPerceptron(outer, inner int) *SparseAveragedPerceptron {
	return perceptron.NewSparseAveragedPerceptron(outer, inner)
}

// Finalized models

// Model is a finalized perceptron of any layout.
type Model = perceptron.Model

// DenseMultinomialPerceptron is a finalized dense model.
type DenseMultinomialPerceptron = perceptron.DenseMultinomialPerceptron

// NewDenseMultinomialPerceptron averages avg into a finalized model.
func NewDenseMultinomialPerceptron(avg *DenseAveragedPerceptron) (*DenseMultinomialPerceptron, error) {
	return perceptron.NewDenseMultinomialPerceptron(avg)
}

// SparseDenseMultinomialPerceptron is a finalized model keyed by feature id.
type SparseDenseMultinomialPerceptron = perceptron.SparseDenseMultinomialPerceptron

// NewSparseDenseMultinomialPerceptron averages avg into a finalized model.
func NewSparseDenseMultinomialPerceptron(avg *SparseDenseAveragedPerceptron) (*SparseDenseMultinomialPerceptron, error) {
	return perceptron.NewSparseDenseMultinomialPerceptron(avg)
}

// SparseMultinomialPerceptron is a finalized model keyed by feature id and Label.
type SparseMultinomialPerceptron = perceptron.SparseMultinomialPerceptron

// NewSparseMultinomialPerceptron averages avg into a finalized model, dropping NoClass.
func NewSparseMultinomialPerceptron(avg *SparseAveragedPerceptron) (*SparseMultinomialPerceptron, error) {
	return perceptron.NewSparseMultinomialPerceptron(avg)
}

// Records

// ReadDenseMultinomialPerceptron reads a dense model record and its metadata.
func ReadDenseMultinomialPerceptron(r io.Reader) (*DenseMultinomialPerceptron, string, error) {
	return perceptron.ReadDenseMultinomialPerceptron(r)
}

// ReadSparseDenseMultinomialPerceptron reads a sparse/dense model record and its metadata.
func ReadSparseDenseMultinomialPerceptron(r io.Reader) (*SparseDenseMultinomialPerceptron, string, error) {
	return perceptron.ReadSparseDenseMultinomialPerceptron(r)
}

// ReadSparseMultinomialPerceptron reads a sparse model record and its metadata.
func ReadSparseMultinomialPerceptron(r io.Reader) (*SparseMultinomialPerceptron, string, error) {
	return perceptron.ReadSparseMultinomialPerceptron(r)
}

// Files

// Header describes a saved model without its weights.
type Header = serialization.Header

// Save writes m and metadata to a .pctx file.
func Save(path string, m Model, metadata string) error {
	return perceptron.Save(path, m, metadata)
}

// Load reads a model saved by Save.
func Load(path string) (Model, string, error) {
	return perceptron.Load(path)
}

// Inspect reads only the header of a saved model.
func Inspect(path string) (Header, error) {
	return perceptron.Inspect(path)
}

// Encode returns the .pctx encoding of m.
func Encode(m Model, metadata string) ([]byte, error) {
	return perceptron.Encode(m, metadata)
}

// Decode parses data produced by Encode.
func Decode(data []byte) (Model, string, error) {
	return perceptron.Decode(data)
}

// Errors

var (
	ErrTimeRegression  = perceptron.ErrTimeRegression
	ErrZeroTime        = perceptron.ErrZeroTime
	ErrOutOfRange      = perceptron.ErrOutOfRange
	ErrNoClass         = perceptron.ErrNoClass
	ErrUnknownModel    = perceptron.ErrUnknownModel
	ErrMalformedRecord = serialization.ErrMalformedRecord
	ErrWrongVariant    = serialization.ErrWrongVariant
)
