package dsl_test

import (
	"context"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bitFlip() *dsl.Builder {
	return dsl.New("bitflip").
		Initial("q0").
		Final("q2").
		On("q0", "0").Write("1").Right().Go("q0").
		On("q0", "1").Write("0").Right().Go("q0").
		On("q0", "_").Left().Go("q1").
		On("q1", "0").Left().Go("q1").
		On("q1", "1").Left().Go("q1").
		On("q1", "_").Right().Go("q2")
}

func TestBuilder_CollectsStatesAndAlphabet(t *testing.T) {
	desc, err := bitFlip().Build()
	require.NoError(t, err)

	assert.Equal(t, "bitflip", desc.Name)
	assert.Equal(t, domain.Symbol("_"), desc.Blank)
	assert.Equal(t, []domain.State{"q0", "q1", "q2"}, desc.States)
	assert.Equal(t, []domain.Symbol{"0", "1", "_"}, desc.Alphabet)
	require.Len(t, desc.Rules, 6)
	assert.Equal(t, domain.Rule{From: "q0", Read: "_", To: "q1", Write: "_", Move: domain.Left}, desc.Rules[2])
}

func TestBuilder_DeclaredSetsAreKept(t *testing.T) {
	desc, err := dsl.New("m").
		States("a", "b", "unused").
		Alphabet("x", "#").
		Blank("#").
		Initial("a").
		Final("b").
		On("a", "x").Right().Go("b").
		Build()
	require.NoError(t, err)

	assert.Equal(t, []domain.State{"a", "b", "unused"}, desc.States)
	assert.Equal(t, []domain.Symbol{"x", "#"}, desc.Alphabet)
}

func TestBuilder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder *dsl.Builder
		field   string
	}{
		{
			name:    "Missing Move",
			builder: dsl.New("m").Initial("a").On("a", "x").Go("a"),
			field:   "rules[0].move",
		},
		{
			name:    "Missing Target",
			builder: dsl.New("m").Initial("a").Final("a").On("a", "x").Right().Go(""),
			field:   "rules[0].to",
		},
		{
			name:    "Duplicate Key",
			builder: dsl.New("m").Initial("a").On("a", "x").Right().Go("a").On("a", "x").Left().Go("a"),
			field:   "rules[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			require.ErrorIs(t, err, domain.ErrInvalidDescription)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestBuilder_BuildLoader(t *testing.T) {
	loader, err := bitFlip().BuildLoader()
	require.NoError(t, err)

	names, err := loader.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"bitflip"}, names)
}
