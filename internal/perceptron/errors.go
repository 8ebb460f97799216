package perceptron

import "errors"

// Common errors.
var (
	// ErrTimeRegression is returned by Set when time precedes the cell's last update.
	ErrTimeRegression = errors.New("time precedes last update")

	// ErrZeroTime is returned when finalizing an accumulator that was never ticked.
	ErrZeroTime = errors.New("cannot average at time zero")

	// ErrOutOfRange is returned for feature or class indices outside a dense table.
	ErrOutOfRange = errors.New("index out of range")

	// ErrNoClass is returned when the reserved NoClass label is used as a gold label.
	ErrNoClass = errors.New("no-class label cannot be a training target")

	// ErrUnknownModel is returned when a container holds an unsupported model type.
	ErrUnknownModel = errors.New("unknown model type")
)
