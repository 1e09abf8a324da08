package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func bitFlip() domain.Description {
	return domain.Description{
		Name:     "bitflip",
		States:   []domain.State{"q0", "q1", "q2"},
		Alphabet: []domain.Symbol{"0", "1", "_"},
		Blank:    "_",
		Initial:  "q0",
		Finals:   []domain.State{"q2"},
		Rules: []domain.Rule{
			{From: "q0", Read: "0", To: "q0", Write: "1", Move: domain.Right},
			{From: "q0", Read: "1", To: "q0", Write: "0", Move: domain.Right},
			{From: "q0", Read: "_", To: "q1", Write: "_", Move: domain.Left},
			{From: "q1", Read: "_", To: "q2", Write: "_", Move: domain.Right},
		},
	}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		desc     domain.Description
		contains []string
		excludes []string
	}{
		{
			name: "Markers And Edges",
			desc: bitFlip(),
			contains: []string{
				"stateDiagram-v2\n",
				"[*] --> q0\n",
				"q0 --> q0: 0/1,R | 1/0,R\n",
				"q0 --> q1: _/_,L\n",
				"q2 --> [*]\n",
			},
			excludes: []string{"state \"", "classDef"},
		},
		{
			name: "ID Sanitization",
			desc: domain.Description{
				Initial: "start-1",
				Rules:   []domain.Rule{{From: "start-1", Read: "a", To: "q.done", Write: "b", Move: domain.Right}},
			},
			contains: []string{
				"state \"start-1\" as start_1\n",
				"state \"q.done\" as q_done\n",
				"start_1 --> q_done: a/b,R\n",
			},
		},
		{
			name: "Label Escaping",
			desc: domain.Description{
				Initial: "q0",
				Rules:   []domain.Rule{{From: "q0", Read: ":", To: "q0", Write: ";", Move: domain.Left}},
			},
			contains: []string{"q0 --> q0: #58;/#59;,L\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.desc, nil)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, not := range tt.excludes {
				assert.NotContains(t, got, not)
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	got := graph.GenerateMermaid(bitFlip(), &graph.Overlay{
		VisitedStates: []domain.State{"q0", "q0", "q1"},
		CurrentState:  "q1",
	})

	assert.Contains(t, got, "classDef current")
	assert.Equal(t, 1, strings.Count(got, "class q0 visited"))
	assert.NotContains(t, got, "class q1 visited")
	assert.Contains(t, got, "class q1 current")
}
