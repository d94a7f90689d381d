package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRule(t *testing.T) {
	tests := []struct {
		in   string
		want Rule
	}{
		{"B3/S23", Conway},
		{"b3/s23", Conway},
		{"S23/B3", Conway},
		{"23/3", Conway},
		{"B36/S23", Rule{Birth: 1<<3 | 1<<6, Survive: 1<<2 | 1<<3}},
		{"B/S", Rule{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRule(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "B3", "B9/S23", "B3/Sx"} {
		_, err := ParseRule(bad)
		assert.Error(t, err, bad)
	}
}

func TestRuleString(t *testing.T) {
	assert.Equal(t, "B3/S23", Conway.String())
	r, err := ParseRule("S23/B36")
	require.NoError(t, err)
	assert.Equal(t, "B36/S23", r.String())
}

func TestRuleNext(t *testing.T) {
	for n := 0; n <= 8; n++ {
		assert.Equal(t, n == 3, Conway.Next(false, n), "birth with %d", n)
		assert.Equal(t, n == 2 || n == 3, Conway.Next(true, n), "survive with %d", n)
	}
}
