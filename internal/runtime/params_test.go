package runtime

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		def  float64
		want float64
	}{
		{"nil uses default", nil, 7, 7},
		{"float", 0.8, 0, 0.8},
		{"int", 3, 0, 3},
		{"explicit zero is kept", 0, 1, 0},
		{"numeric string", " 12.5 ", 0, 12.5},
		{"empty string uses default", "  ", 100, 100},
		{"garbage uses default", "fast", 1, 1},
		{"json number", json.Number("42"), 0, 42},
		{"NaN uses default", math.NaN(), 1, 1},
		{"Inf uses default", math.Inf(1), 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, number(tt.in, tt.def))
		})
	}
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "3", formatCount(3))
	assert.Equal(t, "2.5", formatCount(2.5))
	assert.Equal(t, "0.92", formatCount(AIConfidence))
}

func TestNumeric(t *testing.T) {
	v, ok := Numeric("2.5")
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)

	_, ok = Numeric("")
	assert.False(t, ok)
	_, ok = Numeric(map[string]int{"a": 1})
	assert.False(t, ok)
}
