package cipher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReflectorReflect(t *testing.T) {
	r := mustReflector(t, reversed)

	assert.Equal(t, 'Z', r.Reflect('A'))
	assert.Equal(t, 'A', r.Reflect('Z'))
	assert.Equal(t, 'Y', r.Reflect('B'))
	assert.Equal(t, '?', r.Reflect('?'))
	assert.Equal(t, reversed, r.Mapping())
}

func TestReflectorInvolution(t *testing.T) {
	r := mustReflector(t, reflectorB)

	for _, x := range StandardSymbols {
		assert.Equal(t, x, r.Reflect(r.Reflect(x)))
	}
}

func TestReflectorAllowsFixedPoints(t *testing.T) {
	r := mustReflector(t, StandardSymbols)

	assert.Equal(t, 'Q', r.Reflect('Q'))
}

func TestNewReflector_Asymmetric(t *testing.T) {
	// A->B but B->C
	_, err := NewReflector(Standard(), "BCADEFGHIJKLMNOPQRSTUVWXYZ")
	require.Error(t, err)
	assert.True(t, IsReflectorError(err))
	assert.Contains(t, err.Error(), "mapping for A and B is invalid")

	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []rune{'A', 'B'}, ce.Symbols)
}

func TestNewReflector_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		mapping string
	}{
		{"short", "ZYX"},
		{"foreign symbol", "ZYXWVUTSRQPONMLKJIHGFEDCB-"},
		{"duplicate", "ZZXWVUTSRQPONMLKJIHGFEDCBA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReflector(Standard(), tt.mapping)
			require.Error(t, err)
			assert.True(t, IsReflectorError(err))
		})
	}
}
