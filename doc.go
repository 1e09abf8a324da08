/*
Package turing simulates single-tape deterministic Turing machines.

A machine is described by a domain.Description (states, alphabet, blank
symbol, initial state, final states and a transition table). New validates
and compiles it into an Engine; Run executes it on an input until the machine
halts, either by reaching a final state (accept) or by finding no rule for the
current state and the symbol under the head (reject).

# Concept

The tape grows on demand in both directions. A run is synchronous and owns its
tape, so one Engine can serve any number of concurrent runs. The core never
detects loops: bound runs with WithMaxSteps or a cancellable context.

Long-running machines can also be driven step by step: Begin creates a
domain.RunState and Advance applies transitions to it. pkg/session persists
those states through the ports.StateStore adapters (memory, file, redis).

# Usage

	desc, err := dsl.New("bitflip").
		Initial("q0").
		Final("q2").
		On("q0", "0").Write("1").Right().Go("q0").
		On("q0", "1").Write("0").Right().Go("q0").
		On("q0", "_").Left().Go("q1").
		On("q1", "0").Left().Go("q1").
		On("q1", "1").Left().Go("q1").
		On("q1", "_").Right().Go("q2").
		Build()
	if err != nil {
		log.Fatal(err)
	}

	engine, err := turing.New(desc, turing.WithMaxSteps(10_000))
	if err != nil {
		log.Fatal(err)
	}

	out, err := engine.RunString(context.Background(), "101")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out.Accepted, out.Tape.Content()) // true 010
*/
package turing
