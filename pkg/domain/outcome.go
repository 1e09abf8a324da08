package domain

import (
	"strings"
	"unicode/utf8"
)

// ExecutionStatus is the state of a run after a step.
type ExecutionStatus string

const (
	StatusRunning  ExecutionStatus = "running"  // A transition was applied (or is applicable)
	StatusAccepted ExecutionStatus = "accepted" // A final state was reached
	StatusRejected ExecutionStatus = "rejected" // No rule for the current (state, symbol)
)

// Halted reports whether the status ends a run.
func (s ExecutionStatus) Halted() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Snapshot is an immutable copy of the materialized tape cells and the head index.
type Snapshot struct {
	Cells []Symbol `json:"cells"`
	Head  int      `json:"head"`
	Blank Symbol   `json:"blank"`
}

// String concatenates every materialized cell.
func (s Snapshot) String() string {
	return JoinSymbols(s.Cells)
}

// Caret returns the display column of the head within String().
func (s Snapshot) Caret() int {
	col := 0
	for i := 0; i < s.Head && i < len(s.Cells); i++ {
		col += utf8.RuneCountInString(string(s.Cells[i]))
	}
	return col
}

// Content returns the tape with leading and trailing blanks trimmed. A tape
// holding only blanks renders as a single blank.
func (s Snapshot) Content() string {
	start, end := 0, len(s.Cells)
	for start < end && s.Cells[start] == s.Blank {
		start++
	}
	for end > start && s.Cells[end-1] == s.Blank {
		end--
	}
	if start == end {
		return string(s.Blank)
	}
	return JoinSymbols(s.Cells[start:end])
}

// Lines renders the tape and a caret line under the head cell.
func (s Snapshot) Lines() (tape, caret string) {
	return s.String(), strings.Repeat(" ", s.Caret()) + "^"
}

// Step describes one applied transition. Tape is the tape after the move.
type Step struct {
	Index int       `json:"index"` // 1-based count of applied transitions
	From  State     `json:"from"`
	Read  Symbol    `json:"read"`
	State State     `json:"state"` // state entered by the transition
	Write Symbol    `json:"write"`
	Move  Direction `json:"move"`
	Tape  Snapshot  `json:"tape"`
}

// Outcome is the classified result of a run.
type Outcome struct {
	Accepted   bool            `json:"accepted"`
	Status     ExecutionStatus `json:"status"`
	Steps      int             `json:"steps"`
	FinalState State           `json:"final_state"`
	Tape       Snapshot        `json:"tape"`
}
