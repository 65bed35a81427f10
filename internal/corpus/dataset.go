package corpus

import (
	"fmt"
)

// Dataset is a labeled training corpus in feature space. Rows are feature
// vectors in the order of FeatureNames; Labels mark leads worth pursuing.
type Dataset struct {
	FeatureNames []string
	Rows         [][]float64
	Labels       []bool
}

// Len returns the number of labeled samples.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Validate checks the dataset is trainable: non-empty, uniform row width
// matching the schema, one label per row.
func (d *Dataset) Validate() error {
	if len(d.FeatureNames) == 0 {
		return fmt.Errorf("dataset has no feature schema")
	}
	if len(d.Rows) == 0 {
		return fmt.Errorf("dataset has no samples")
	}
	if len(d.Labels) != len(d.Rows) {
		return fmt.Errorf("dataset has %d labels for %d rows", len(d.Labels), len(d.Rows))
	}
	for i, row := range d.Rows {
		if len(row) != len(d.FeatureNames) {
			return fmt.Errorf("row %d has %d features, schema has %d", i, len(row), len(d.FeatureNames))
		}
	}
	return nil
}

// Positives returns the number of positive labels.
func (d *Dataset) Positives() int {
	count := 0
	for _, label := range d.Labels {
		if label {
			count++
		}
	}
	return count
}
