// Copyright 2026 The Perceptronix Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package perceptron provides multiclass averaged perceptrons.
//
// # Overview
//
// A model is trained as an accumulator and then finalized:
//   - DenseAveragedPerceptron, SparseDenseAveragedPerceptron, SparseAveragedPerceptron
//     are mutable accumulators updated during training
//   - DenseMultinomialPerceptron, SparseDenseMultinomialPerceptron,
//     SparseMultinomialPerceptron are immutable averaged models
//
// Dense models index features and classes by position. SparseDense models
// accept any int feature id. Sparse models also key classes by Label.
//
// # Basic Usage
//
//	import "github.com/perceptronix/perceptronix/perceptron"
//
//	func main() {
//	    avg := perceptron.NewSparseAveragedPerceptron(0, 2)
//	    avg.Update([]int{1, 7}, perceptron.NewLabel("spam"))
//	    avg.Update([]int{2, 9}, perceptron.NewLabel("ham"))
//
//	    model, err := perceptron.NewSparseMultinomialPerceptron(avg)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(model.Predict([]int{1}))
//	}
//
// # Persistence
//
// A finalized model writes itself as a single record:
//
//	err := model.Write(w, "spam-filter-v1")
//	model, metadata, err := perceptron.ReadSparseMultinomialPerceptron(r)
//
// Save and Load wrap the record in a checksummed .pctx file:
//
//	err := perceptron.Save("spam.pctx", model, "spam-filter-v1")
//	m, metadata, err := perceptron.Load("spam.pctx")
//
// # Averaging
//
// Every accumulator cell remembers how long each value was current. A
// finalized weight is the time-weighted mean of its cell over [0, Time()).
package perceptron
