package runtime_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
			{From: "q1", Read: "0", To: "q1", Write: "0", Move: domain.Left},
			{From: "q1", Read: "1", To: "q1", Write: "1", Move: domain.Left},
			{From: "q1", Read: "_", To: "q2", Write: "_", Move: domain.Right},
		},
	}
}

func TestMachine_Run_BitFlip(t *testing.T) {
	m := runtime.NewMachine(runtime.Compile(bitFlip()))

	tests := []struct {
		name     string
		input    string
		accepted bool
		status   domain.ExecutionStatus
		steps    int
		content  string
		final    domain.State
	}{
		{"Flips Bits", "101", true, domain.StatusAccepted, 8, "010", "q2"},
		{"Unknown Symbols", "223", false, domain.StatusRejected, 0, "223", "q0"},
		{"Empty Input", "", true, domain.StatusAccepted, 2, "_", "q2"},
		{"Single Bit", "0", true, domain.StatusAccepted, 4, "1", "q2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := m.Run(domain.SplitInput(tt.input, ""))
			require.NoError(t, err)

			assert.Equal(t, tt.accepted, out.Accepted)
			assert.Equal(t, tt.status, out.Status)
			assert.Equal(t, tt.steps, out.Steps)
			assert.Equal(t, tt.content, out.Tape.Content())
			assert.Equal(t, tt.final, out.FinalState)
		})
	}
}

func TestMachine_Run_FinalTapeLayout(t *testing.T) {
	m := runtime.NewMachine(runtime.Compile(bitFlip()))
	out, err := m.Run(domain.SplitInput("101", ""))
	require.NoError(t, err)

	// One blank was prepended when the head walked off the left edge.
	assert.Equal(t, "_010_", out.Tape.String())
	assert.Equal(t, 1, out.Tape.Head)
}

func TestMachine_InitialStateIsFinal(t *testing.T) {
	d := bitFlip()
	d.Finals = append(d.Finals, "q0")
	m := runtime.NewMachine(runtime.Compile(d))

	for _, input := range []string{"", "101", "zz"} {
		out, err := m.Run(domain.SplitInput(input, ""))
		require.NoError(t, err)
		assert.True(t, out.Accepted)
		assert.Equal(t, 0, out.Steps)
		assert.Equal(t, domain.State("q0"), out.FinalState)
	}
}

func TestMachine_FinalStatesIgnoreTheirRules(t *testing.T) {
	d := bitFlip()
	d.Rules = append(d.Rules, domain.Rule{From: "q2", Read: "0", To: "q0", Write: "x", Move: domain.Right})
	m := runtime.NewMachine(runtime.Compile(d))

	out, err := m.Run(domain.SplitInput("1", ""))
	require.NoError(t, err)
	assert.True(t, out.Accepted)
	assert.NotContains(t, out.Tape.String(), "x")
}

func TestMachine_Step(t *testing.T) {
	m := runtime.NewMachine(runtime.Compile(bitFlip()))
	m.Reset(domain.SplitInput("1", ""), "q0")

	assert.Equal(t, domain.StatusRunning, m.Status())
	assert.Equal(t, domain.StatusRunning, m.Step())
	assert.Equal(t, domain.State("q0"), m.State())
	assert.Equal(t, "0_", m.Snapshot().String())

	for m.Step() == domain.StatusRunning {
	}
	assert.Equal(t, domain.State("q2"), m.State())
	assert.Equal(t, 4, m.Steps())

	// Halting is idempotent and does not touch the tape.
	before := m.Snapshot()
	assert.Equal(t, domain.StatusAccepted, m.Step())
	assert.Equal(t, before, m.Snapshot())
	assert.Equal(t, 4, m.Steps())
}

func TestMachine_RejectKeepsState(t *testing.T) {
	m := runtime.NewMachine(runtime.Compile(bitFlip()))
	out, err := m.Run(domain.SplitInput("1a", ""))
	require.NoError(t, err)

	assert.False(t, out.Accepted)
	assert.Equal(t, domain.StatusRejected, out.Status)
	assert.Equal(t, domain.State("q0"), out.FinalState)
	assert.Equal(t, 1, out.Steps)
}

func TestMachine_Observer(t *testing.T) {
	m := runtime.NewMachine(runtime.Compile(bitFlip()))

	var steps []domain.Step
	out, err := m.Run(domain.SplitInput("10", ""), runtime.WithObserver(func(s domain.Step) {
		steps = append(steps, s)
	}))
	require.NoError(t, err)
	require.Len(t, steps, out.Steps)

	for i, s := range steps {
		assert.Equal(t, i+1, s.Index)
		assert.GreaterOrEqual(t, s.Tape.Head, 0)
		assert.Less(t, s.Tape.Head, len(s.Tape.Cells))
		if i > 0 {
			assert.GreaterOrEqual(t, len(s.Tape.Cells), len(steps[i-1].Tape.Cells))
		}
	}

	first := steps[0]
	assert.Equal(t, domain.State("q0"), first.From)
	assert.Equal(t, domain.Symbol("1"), first.Read)
	assert.Equal(t, domain.Symbol("0"), first.Write)
	assert.Equal(t, "00_", first.Tape.String())
	assert.Equal(t, domain.State("q2"), steps[len(steps)-1].State)
}

func TestMachine_WithStart(t *testing.T) {
	m := runtime.NewMachine(runtime.Compile(bitFlip()))

	out, err := m.Run(domain.SplitInput("11", ""), runtime.WithStart("q1"))
	require.NoError(t, err)
	assert.True(t, out.Accepted)
	assert.Equal(t, "11", out.Tape.Content(), "q1 only rewinds")
	assert.Equal(t, 2, out.Steps)
}

func TestMachine_GuardInterruptsLoop(t *testing.T) {
	d := domain.Description{
		Name:     "forever",
		States:   []domain.State{"q"},
		Alphabet: []domain.Symbol{"_"},
		Blank:    "_",
		Initial:  "q",
		Rules:    []domain.Rule{{From: "q", Read: "_", To: "q", Write: "_", Move: domain.Right}},
	}
	m := runtime.NewMachine(runtime.Compile(d))
	stop := errors.New("stop")

	out, err := m.Run(nil, runtime.WithGuard(func(steps int) error {
		if steps >= 100 {
			return stop
		}
		return nil
	}))

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 100, out.Steps)
	assert.Equal(t, domain.StatusRunning, out.Status)
	assert.False(t, out.Accepted)
	assert.Len(t, out.Tape.Cells, 101)
}

func TestMachine_GuardDoesNotPreemptHalt(t *testing.T) {
	m := runtime.NewMachine(runtime.Compile(bitFlip()))
	out, err := m.Run(domain.SplitInput("101", ""), runtime.WithGuard(func(steps int) error {
		if steps >= 8 {
			return errors.New("over budget")
		}
		return nil
	}))
	require.NoError(t, err)
	assert.True(t, out.Accepted)
}

func TestMachine_Restore(t *testing.T) {
	p := runtime.Compile(bitFlip())
	a := runtime.NewMachine(p)
	a.Reset(domain.SplitInput("101", ""), "q0")
	a.Step()
	a.Step()

	rs := &domain.RunState{State: a.State(), Steps: a.Steps(), Tape: a.Snapshot()}
	b := runtime.NewMachine(p)
	require.NoError(t, b.Restore(rs))
	for b.Step() == domain.StatusRunning {
	}

	assert.Equal(t, 8, b.Steps())
	assert.Equal(t, "010", b.Outcome(domain.StatusAccepted).Tape.Content())
}

func TestMachine_ResumeContinuesWithoutReset(t *testing.T) {
	m := runtime.NewMachine(runtime.Compile(bitFlip()))
	m.Reset(domain.SplitInput("101", ""), "q0")

	pause := errors.New("pause")
	out, err := m.Resume(runtime.WithGuard(func(steps int) error {
		if steps >= 3 {
			return pause
		}
		return nil
	}))
	require.ErrorIs(t, err, pause)
	assert.Equal(t, 3, out.Steps)
	assert.Equal(t, domain.StatusRunning, out.Status)
	assert.Equal(t, "010_", out.Tape.String())

	out, err = m.Resume()
	require.NoError(t, err)
	assert.True(t, out.Accepted)
	assert.Equal(t, 8, out.Steps)
}

func TestProgram_SharedAcrossGoroutines(t *testing.T) {
	p := runtime.Compile(bitFlip())
	inputs := []string{"0", "1", "10", "0110", "111000", ""}

	var wg sync.WaitGroup
	results := make([]domain.Outcome, len(inputs))
	for i, in := range inputs {
		wg.Add(1)
		go func(i int, in string) {
			defer wg.Done()
			out, _ := runtime.NewMachine(p).Run(domain.SplitInput(in, ""))
			results[i] = out
		}(i, in)
	}
	wg.Wait()

	for i, in := range inputs {
		assert.True(t, results[i].Accepted, in)
		assert.Equal(t, 2*len(in)+2, results[i].Steps, in)
	}
}

func TestCompile_LastRuleWins(t *testing.T) {
	d := bitFlip()
	d.Rules = append(d.Rules, domain.Rule{From: "q0", Read: "0", To: "q2", Write: "z", Move: domain.Right})
	p := runtime.Compile(d)

	act, ok := p.Lookup("q0", "0")
	require.True(t, ok)
	assert.Equal(t, domain.Symbol("z"), act.Write)
	assert.Equal(t, 6, p.Len())

	_, ok = p.Lookup("q0", "7")
	assert.False(t, ok)
}
