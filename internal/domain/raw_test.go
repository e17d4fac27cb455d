package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"texto numérico", "12.5", 12.5},
		{"float64", 3.25, 3.25},
		{"int", 7, 7},
		{"nil", nil, 0},
		{"texto inválido", "abc", 0},
		{"NaN em texto", "NaN", 0},
		{"Inf em texto", "Inf", 0},
		{"-infinity em texto", "-infinity", 0},
		{"float64 NaN", math.NaN(), 0},
		{"float64 -Inf", math.Inf(-1), 0},
		{"float32 Inf", float32(math.Inf(1)), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToFloat(tt.in))
		})
	}
}
