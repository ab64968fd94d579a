package sensors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDewPoint(t *testing.T) {
	tests := []struct {
		name  string
		tempC float64
		rhPct float64
		want  float64
	}{
		{"room conditions", 20.0, 50.0, 9.27},
		{"humid summer", 30.0, 80.0, 26.17},
		{"saturated", 15.0, 100.0, 15.0},
		{"dry winter", 21.0, 20.0, -2.84},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DewPoint(tt.tempC, tt.rhPct)
			assert.True(t, ok)
			assert.InDelta(t, tt.want, got, 0.1)
		})
	}
}

func TestDewPointOutOfDomain(t *testing.T) {
	_, ok := DewPoint(20.0, 0)
	assert.False(t, ok)
	_, ok = DewPoint(20.0, -5)
	assert.False(t, ok)
	_, ok = DewPoint(20.0, 120)
	assert.False(t, ok)
}
