// Package train drives averaged perceptrons over labelled datasets.
//
// The package sits outside the model core: it reads examples, feeds them to
// an accumulator epoch by epoch, finalizes the result and evaluates finalized
// models. It is the only place besides the command line that logs.
package train

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ErrEmptyDataset is returned when training on a dataset with no examples.
var ErrEmptyDataset = errors.New("dataset has no examples")

// Example is one labelled set of active binary features.
type Example struct {
	Label    string
	Features []int
}

// Dataset is an ordered list of examples.
type Dataset []Example

// ReadDataset parses examples, one per line:
//
//	label feature feature ...
//
// Features are non-negative integers. Blank lines and lines starting with
// '#' are skipped.
func ReadDataset(r io.Reader) (Dataset, error) {
	var data Dataset
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		ex := Example{Label: fields[0], Features: make([]int, 0, len(fields)-1)}
		for _, f := range fields[1:] {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad feature %q: %w", line, f, err)
			}
			if v < 0 {
				return nil, fmt.Errorf("line %d: negative feature %d", line, v)
			}
			ex.Features = append(ex.Features, v)
		}
		data = append(data, ex)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return data, nil
}

// LoadDataset reads a dataset file.
func LoadDataset(path string) (Dataset, error) {
	//nolint:gosec // G304: dataset path comes from user input
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadDataset(f)
}

// Labels returns the distinct labels of d in ascending order.
func (d Dataset) Labels() []string {
	seen := make(map[string]struct{})
	for _, ex := range d {
		seen[ex.Label] = struct{}{}
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// MaxFeature returns the largest feature id in d, or -1 if d has no features.
func (d Dataset) MaxFeature() int {
	maxFeature := -1
	for _, ex := range d {
		for _, f := range ex.Features {
			maxFeature = max(maxFeature, f)
		}
	}
	return maxFeature
}
