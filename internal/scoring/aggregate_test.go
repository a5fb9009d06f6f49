package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateWeightedAverage(t *testing.T) {
	components := []SubScore{
		{Name: "a", Value: 50, Weight: 0.4},
		{Name: "b", Value: 100, Weight: 0.25},
		{Name: "c", Value: 20, Weight: 0.15},
		{Name: "d", Value: 40, Weight: 0.2},
	}

	global, label := Aggregate(components)

	// (50*0.4 + 100*0.25 + 20*0.15 + 40*0.2) / 1.0 = 56
	assert.InDelta(t, 56.0, global, 1e-9)
	assert.Equal(t, LabelMedium, label)
}

func TestAggregateNormalizesByWeightSum(t *testing.T) {
	// Weights need not sum to 1; the divisor is the actual sum.
	components := []SubScore{
		{Value: 80, Weight: 2},
		{Value: 40, Weight: 2},
	}

	global, _ := Aggregate(components)
	assert.InDelta(t, 60.0, global, 1e-9)
}

func TestAggregateZeroWeightSum(t *testing.T) {
	components := []SubScore{
		{Value: 50, Weight: 0},
		{Value: 90, Weight: 0},
	}

	global, label := Aggregate(components)

	assert.Equal(t, 0.0, global)
	assert.Equal(t, LabelVeryLow, label)
}

func TestAggregateEmptyComponents(t *testing.T) {
	global, label := Aggregate(nil)
	assert.Equal(t, 0.0, global)
	assert.Equal(t, LabelVeryLow, label)
}

func TestLabelFromScoreBoundaries(t *testing.T) {
	tests := []struct {
		score    float64
		expected RiskLabel
	}{
		{0, LabelVeryLow},
		{19.9, LabelVeryLow},
		{20.0, LabelLow},
		{39.9, LabelLow},
		{40.0, LabelMedium},
		{59.9, LabelMedium},
		{60.0, LabelHigh},
		{79.9, LabelHigh},
		{80.0, LabelCritical},
		{100, LabelCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, LabelFromScore(tt.score), "score %v", tt.score)
	}
}
