package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCycleWithWrap(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		n     int
		want  []string
	}{
		{"shorter than pool", []string{"a", "b", "c"}, 2, []string{"a", "b"}},
		{"exact", []string{"a", "b", "c"}, 3, []string{"a", "b", "c"}},
		{"wraps", []string{"a", "b"}, 5, []string{"a", "b", "a", "b", "a"}},
		{"single item repeats", []string{"a"}, 3, []string{"a", "a", "a"}},
		{"empty pool", nil, 3, nil},
		{"zero slots", []string{"a"}, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CycleWithWrap(tt.items, tt.n))
		})
	}
}
