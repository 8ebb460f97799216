// Package perceptron implements multinomial averaged perceptrons.
//
// A model comes in two states:
//   - an accumulator (the *...AveragedPerceptron types), mutated by a training driver,
//     whose cells track time-weighted running sums
//   - a finalized model (the *...MultinomialPerceptron types), an immutable snapshot
//     holding the averaged weights, used for inference and persistence
//
// Each state exists in three storage layouts:
//
//	Dense        outer = feature index,  inner = class index   (fixed sizes)
//	SparseDense  outer = any int key,    inner = class index
//	Sparse       outer = any int key,    inner = class Label
//
// Lifecycle:
//
//	avg := perceptron.NewSparseAveragedPerceptron(0, 3)
//	for _, ex := range examples {
//	    if _, err := avg.Update(ex.Features, ex.Label); err != nil {
//	        return err
//	    }
//	}
//	model, err := perceptron.NewSparseMultinomialPerceptron(avg)
//	if err != nil {
//	    return err
//	}
//	err = model.Write(w, "tagger-v2")
//	...
//	model, metadata, err := perceptron.ReadSparseMultinomialPerceptron(r)
//
// A finalized model cannot be turned back into an accumulator.
//
// Nothing in this package is safe for concurrent mutation. An accumulator
// must not be finalized while another goroutine calls Set or Update on it.
package perceptron
