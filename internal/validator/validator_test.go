package validator_test

import (
	"testing"

	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(ws []validator.Warning) map[validator.WarningKind][]domain.State {
	out := make(map[validator.WarningKind][]domain.State)
	for _, w := range ws {
		out[w.Kind] = append(out[w.Kind], w.State)
	}
	return out
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		builder  *dsl.Builder
		expected map[validator.WarningKind][]domain.State
	}{
		{
			name: "Clean Machine",
			builder: dsl.New("clean").Initial("q0").Final("qa").
				On("q0", "a").Right().Go("q0").
				On("q0", "_").Left().Go("qa"),
			expected: map[validator.WarningKind][]domain.State{},
		},
		{
			name: "Unreachable And Dead End",
			builder: dsl.New("m").States("q0", "q1", "island", "qa").Initial("q0").Final("qa").
				On("q0", "a").Right().Go("q1").
				On("q0", "_").Right().Go("qa"),
			expected: map[validator.WarningKind][]domain.State{
				validator.DeadEnd:     {"q1"},
				validator.Unreachable: {"island"},
			},
		},
		{
			name: "Shadowed Rule",
			builder: dsl.New("m").Initial("q0").Final("qa").
				On("q0", "a").Right().Go("qa").
				On("qa", "a").Right().Go("qb").
				On("qb", "a").Right().Go("qb"),
			expected: map[validator.WarningKind][]domain.State{
				validator.ShadowedRule: {"qa"},
				validator.Unreachable:  {"qb"},
			},
		},
		{
			name: "No Accept Path",
			builder: dsl.New("m").States("q0", "qa").Initial("q0").Final("qa").
				On("q0", "a").Right().Go("q0"),
			expected: map[validator.WarningKind][]domain.State{
				validator.Unreachable:   {"qa"},
				validator.NoAcceptState: {"q0"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := validator.Validate(tt.builder.Description())
			require.True(t, report.OK(), report.String())
			assert.Equal(t, tt.expected, kinds(report.Warnings))
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	d := dsl.New("broken").Initial("q0").On("q0", "a").Go("q1").Description()
	d.Initial = "nowhere"

	report := validator.Validate(d)
	assert.False(t, report.OK())
	assert.Len(t, report.Errors, 2) // initial, move
	assert.Empty(t, report.Warnings)
	assert.Contains(t, report.String(), "broken: 2 errors")
}
