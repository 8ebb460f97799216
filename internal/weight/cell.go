// Package weight implements the scalar cells stored in perceptron tables.
//
// Two cell kinds exist:
//   - Weight: a plain trainable scalar, used by finalized models
//   - Averaging: a scalar that also tracks its time-weighted running sum,
//     used by accumulators during training
//
// Cells are plain values and are not safe for concurrent use.
package weight

// Weight is a single plain scalar weight.
type Weight struct {
	value float64
}

// Get returns the weight value.
func (w *Weight) Get() float64 {
	return w.value
}

// Set replaces the weight value.
func (w *Weight) Set(value float64) {
	w.value = value
}

// Averaging is a weight that remembers how long each of its values was current.
//
// The running sum accumulates value × duration for every value the cell held,
// so Average(t) is the mean value of the cell over the interval [0, t).
//
// Example:
//
//	var c weight.Averaging
//	c.Set(2.0, 1) // value 2 from t=1
//	c.Set(4.0, 3) // value 4 from t=3
//	c.Average(3)  // (0·1 + 2·2) / 3 = 1.333...
type Averaging struct {
	value   float64
	sum     float64
	updated int64
}

// Get returns the raw, non-averaged value.
//
// Training-time scoring uses the raw value; only finalization averages.
func (a *Averaging) Get() float64 {
	return a.value
}

// Set replaces the value at the given time.
//
// The previous value is credited to the running sum for the time it was
// current. Callers must pass time >= Updated(); an earlier time yields an
// incorrect average and is not checked here.
func (a *Averaging) Set(value float64, time int64) {
	a.sum += a.value * float64(time-a.updated)
	a.value = value
	a.updated = time
}

// Updated returns the time of the last Set.
func (a *Averaging) Updated() int64 {
	return a.updated
}

// Average returns the time-weighted mean of the cell at the given time.
//
// The result is undefined for time == 0 and for time < Updated().
func (a *Averaging) Average(time int64) float64 {
	return (a.sum + a.value*float64(time-a.updated)) / float64(time)
}
