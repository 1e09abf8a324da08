/*
Package domain contains the core domain models of the Turing machine engine.

It defines the static description of a machine (states, alphabet, blank symbol,
initial and final states, transition rules) and the values a run produces
(outcomes, tape snapshots, persisted run states and lifecycle events). The
package is kept pure and free of I/O so that every adapter can share it.

# Key Entities

  - Description: the immutable definition of a machine, as loaded from a file or built with the DSL.
  - Rule: one entry of the transition table, (state, symbol) -> (state, symbol, direction).
  - Outcome: the classified result of a run (accepted or rejected, steps, final state, tape).
  - RunState: a serializable, resumable snapshot of an in-progress run.
*/
package domain
