package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"below minimum", -1.5, 0.0},
		{"at minimum", 0.0, 0.0},
		{"in range", 3.7, 3.7},
		{"at maximum", 5.0, 5.0},
		{"above maximum", 9.9, 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Clamp(tt.in), 0.0001)
		})
	}
}

func TestNormalizeFitScore(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0.0},
		{"midpoint", 50, 2.5},
		{"full", 100, 5.0},
		{"above scale clamps", 140, 5.0},
		{"negative clamps", -20, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizeFitScore(tt.in), 0.0001)
		})
	}
}
