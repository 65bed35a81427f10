package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadlab/lead-quality-engine/internal/core"
)

func TestSyntheticIsDeterministic(t *testing.T) {
	a := Synthetic(500, 42)
	b := Synthetic(500, 42)
	assert.Equal(t, a, b)

	c := Synthetic(500, 43)
	assert.NotEqual(t, a.Labels, c.Labels)
}

func TestSyntheticShape(t *testing.T) {
	d := Synthetic(1000, 42)
	require.NoError(t, d.Validate())

	assert.Equal(t, core.FeatureNames(), d.FeatureNames)
	assert.Equal(t, 1000, d.Len())

	for _, row := range d.Rows {
		for _, v := range row {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.Less(t, v, 1.0)
		}
	}

	// The heuristic labels are imbalanced toward negatives but both
	// classes must be represented or training degenerates.
	positives := d.Positives()
	assert.Greater(t, positives, 0)
	assert.Less(t, positives, d.Len()/2)
}

func TestDatasetValidate(t *testing.T) {
	d := &Dataset{
		FeatureNames: []string{"a", "b"},
		Rows:         [][]float64{{1, 2}, {3}},
		Labels:       []bool{true, false},
	}
	require.Error(t, d.Validate())

	d = &Dataset{FeatureNames: []string{"a"}, Rows: [][]float64{{1}}, Labels: nil}
	require.Error(t, d.Validate())

	d = &Dataset{FeatureNames: []string{"a"}, Rows: [][]float64{{1}}, Labels: []bool{true}}
	require.NoError(t, d.Validate())
}

func TestSampleLeadsDeterministicAndResolvable(t *testing.T) {
	a := SampleLeads(50, 7)
	b := SampleLeads(50, 7)
	require.Equal(t, a, b)
	require.Len(t, a, 50)

	withEmail := 0
	for _, lead := range a {
		require.Len(t, lead, len(SampleHeader()))
		assert.True(t, lead.Resolve(core.FieldCompany).Present)
		if lead.Resolve(core.FieldEmail).Present {
			withEmail++
		}
	}
	// 80% contact rate times 70% email rate, with slack for small n.
	assert.Greater(t, withEmail, 10)
	assert.Less(t, withEmail, 45)
}
