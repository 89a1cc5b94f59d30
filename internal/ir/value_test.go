package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalValue_RejectsFloats(t *testing.T) {
	_, err := UnmarshalValue([]byte("3.14"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")
}

func TestUnmarshalValue_RejectsNull(t *testing.T) {
	_, err := UnmarshalValue([]byte("null"))
	require.Error(t, err)
}

func TestUnmarshalValue_Scalars(t *testing.T) {
	testCases := []struct {
		name string
		data string
		want Value
	}{
		{"string", `"cart"`, Str("cart")},
		{"int", `42`, Int(42)},
		{"negative int", `-7`, Int(-7)},
		{"bool", `true`, Bool(true)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := UnmarshalValue([]byte(tc.data))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUnmarshalValue_TaggedObjects(t *testing.T) {
	sym, err := UnmarshalValue([]byte(`{"sym":"a0"}`))
	require.NoError(t, err)
	assert.Equal(t, Sym{Name: "a0"}, sym)

	w, err := UnmarshalValue([]byte(`{"existential":"y","sort":"B","n":3}`))
	require.NoError(t, err)
	assert.Equal(t, Witness{Existential: "y", Sort: "B", N: 3}, w)
}

func TestMarshalValue_RoundTripsWitness(t *testing.T) {
	in := Witness{Existential: "y", Sort: "B", N: 12}
	data, err := MarshalValue(in)
	require.NoError(t, err)

	out, err := UnmarshalValue(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestIsWitness(t *testing.T) {
	assert.True(t, IsWitness(Witness{Existential: "y", Sort: "B", N: 1}))
	assert.False(t, IsWitness(Sym{Name: "a"}))
	assert.False(t, IsWitness(Str("a")))
}

func TestValueKey_DistinguishesVariants(t *testing.T) {
	// A string constant must never collide with a symbol of the same name.
	sk := MustValueKey(Str("a"))
	yk := MustValueKey(Sym{Name: "a"})
	assert.NotEqual(t, sk, yk)
}
