package compiler_test

import (
	"testing"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bitFlipYAML = `
name: bitflip
states: [q0, q1, q2]
alphabet: [0, 1, _]
blank: _
initial: q0
finals: q2
rules:
  - q0,0 -> q0,1,R
  - q0,1 -> q0,0,R
  - q0,_ -> q1,_,L
  - {from: q1, read: 0, to: q1, write: 0, move: left}
  - {from: q1, read: 1, to: q1, write: 1, move: L}
  - q1,_ -> q2,_,R
`

func TestParser_YAML(t *testing.T) {
	desc, err := compiler.NewParser().Parse([]byte(bitFlipYAML))
	require.NoError(t, err)

	assert.Equal(t, "bitflip", desc.Name)
	assert.Equal(t, []domain.State{"q0", "q1", "q2"}, desc.States)
	assert.Equal(t, []domain.Symbol{"0", "1", "_"}, desc.Alphabet)
	assert.Equal(t, []domain.State{"q2"}, desc.Finals, "a single final is lifted to a list")
	require.Len(t, desc.Rules, 6)
	assert.Equal(t, domain.Rule{From: "q1", Read: "0", To: "q1", Write: "0", Move: domain.Left}, desc.Rules[3])
	assert.NoError(t, domain.Validate(desc))
}

func TestParser_JSON(t *testing.T) {
	data := []byte(`{
		"name": "tiny",
		"states": ["a", "b"],
		"alphabet": ["x", "_"],
		"blank": "_",
		"initial": "a",
		"finals": ["b"],
		"rules": [{"from": "a", "read": "x", "to": "b", "write": "x", "move": "R"}]
	}`)

	desc, err := compiler.NewParser().Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "tiny", desc.Name)
	assert.Equal(t, domain.Right, desc.Rules[0].Move)
}

func TestParser_Errors(t *testing.T) {
	tests := map[string]string{
		"Empty":       "",
		"Bad YAML":    "states: [",
		"Unknown Key": "states: [a]\nstatez: [b]\n",
		"Bad Rule":    "rules:\n  - a,b -> c\n",
		"Bad Move":    "rules:\n  - {from: a, read: b, to: c, write: d, move: up}\n",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := compiler.NewParser().Parse([]byte(input))
			assert.Error(t, err)
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	desc, err := compiler.NewParser().Parse([]byte(bitFlipYAML))
	require.NoError(t, err)

	data, err := compiler.Encode(desc)
	require.NoError(t, err)
	assert.Contains(t, string(data), "q0,0 -> q0,1,R")

	again, err := compiler.NewParser().Parse(data)
	require.NoError(t, err)
	assert.Equal(t, desc, again)
}
