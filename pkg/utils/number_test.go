package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTo(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		places int
		want   float64
	}{
		{"quatro casas", 2.123456, 4, 2.1235},
		{"duas casas", 33.3333, 2, 33.33},
		{"zero", 0, 4, 0},
		{"negativo", -15.555, 2, -15.56},
		{"NaN vira zero", math.NaN(), 2, 0},
		{"infinito vira zero", math.Inf(1), 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RoundTo(tt.value, tt.places), 1e-9)
		})
	}
}

func TestSafeDiv(t *testing.T) {
	assert.Equal(t, 0.0, SafeDiv(10, 0))
	assert.Equal(t, 2.5, SafeDiv(5, 2))
}

func TestPrettyJson(t *testing.T) {
	out, err := PrettyJson([]byte(`{"a":1}`))
	assert.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", out)

	out, err = PrettyJson(map[string]int{"b": 2})
	assert.NoError(t, err)
	assert.Contains(t, out, "\"b\": 2")
}
