package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/categorist/chasekit/internal/theory"
)

func TestCompilePresentation(t *testing.T) {
	src := `
presentation: {
	objects: ["A", "B", "C"]
	arrows: [
		{name: "e", src: "A", dst: "B"},
		{name: "h", src: "B", dst: "C"},
		{name: "g", src: "A", dst: "C"},
	]
	equations: [
		{lhs: ["e", "h"], rhs: ["g"]},
	]
}
`
	p, err := CompileString(src)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, p.Objects)
	require.Len(t, p.Arrows, 3)
	assert.Equal(t, theory.Arrow{Name: "e", Src: "A", Dst: "B"}, p.Arrows[0])
	require.Len(t, p.Equations, 1)
	assert.Equal(t, []string{"e", "h"}, p.Equations[0].LHS)
	assert.Equal(t, []string{"g"}, p.Equations[0].RHS)

	// The compiled presentation feeds straight into the theory builder.
	th := theory.CartesianFromPresentation(p)
	assert.True(t, th.IsCartesian())
	assert.Len(t, th.Axioms, 4, "three totality axioms plus one path equation")
}

func TestCompilePresentationMinimal(t *testing.T) {
	p, err := CompileString(`presentation: {objects: ["A"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, p.Objects)
	assert.Empty(t, p.Arrows)
	assert.Empty(t, p.Equations)
}

func TestCompilePresentationIdentityPathSide(t *testing.T) {
	src := `
presentation: {
	objects: ["A"]
	arrows: [{name: "f", src: "A", dst: "A"}]
	equations: [{lhs: ["f"]}]
}
`
	p, err := CompileString(src)
	require.NoError(t, err)
	require.Len(t, p.Equations, 1)
	assert.Equal(t, []string{"f"}, p.Equations[0].LHS)
	assert.Empty(t, p.Equations[0].RHS, "missing side is the identity path")
}

func TestCompilePresentationErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{
			name:  "missing presentation",
			src:   `other: {}`,
			field: "presentation",
		},
		{
			name:  "missing objects",
			src:   `presentation: {arrows: []}`,
			field: "objects",
		},
		{
			name:  "empty objects",
			src:   `presentation: {objects: []}`,
			field: "objects",
		},
		{
			name:  "arrow without dst",
			src:   `presentation: {objects: ["A"], arrows: [{name: "e", src: "A"}]}`,
			field: "arrows[0].dst",
		},
		{
			name:  "equation with no sides",
			src:   `presentation: {objects: ["A"], equations: [{}]}`,
			field: "equations[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileString(tt.src)
			require.Error(t, err)

			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestCompilePresentationFromLookedUpValue(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`p: {objects: ["X"]}`)

	got, err := CompilePresentation(v.LookupPath(cue.ParsePath("p")))
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, got.Objects)
}
