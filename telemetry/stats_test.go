package telemetry

import (
	"math"
	"testing"
)

func TestComputeDistribution(t *testing.T) {
	values := []float64{10, 1, 9, 2, 8, 3, 7, 4, 6, 5}
	d := ComputeDistribution(values)

	if math.Abs(d.Mean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", d.Mean)
	}
	// sample standard deviation of 1..10
	if math.Abs(d.Std-3.0277) > 0.001 {
		t.Errorf("std = %v, want ~3.0277", d.Std)
	}
	if d.P10 != 1 {
		t.Errorf("p10 = %v, want 1", d.P10)
	}
	if d.P50 != 5 {
		t.Errorf("p50 = %v, want 5", d.P50)
	}
	if d.P90 != 9 {
		t.Errorf("p90 = %v, want 9", d.P90)
	}
	if d.Max != 10 {
		t.Errorf("max = %v, want 10", d.Max)
	}
	if values[0] != 10 {
		t.Error("input slice was reordered")
	}
}

func TestComputeDistributionEdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Distribution
	}{
		{"empty", nil, Distribution{}},
		{"single", []float64{4}, Distribution{Mean: 4, P10: 4, P50: 4, P90: 4, Max: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDistribution(tt.values)
			if got != tt.want {
				t.Errorf("ComputeDistribution(%v) = %+v, want %+v", tt.values, got, tt.want)
			}
		})
	}
}
