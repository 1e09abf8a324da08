// Package tape implements the unbounded, bidirectional tape of a Turing machine.
//
// Only the cells touched so far are materialized, plus one blank sentinel past
// the touched boundary. Storage is split into two stacks around the origin so
// that growth in either direction is amortized O(1) and never shifts cells.
package tape

import (
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
)

// Tape holds the working symbols and the head cursor.
// A Tape is not safe for concurrent use.
type Tape struct {
	blank domain.Symbol
	left  []domain.Symbol // left[i] is the cell at position -(i+1)
	right []domain.Symbol // right[i] is the cell at position i
	pos   int             // head position relative to the origin
}

// New creates a tape holding a single blank cell.
func New(blank domain.Symbol) *Tape {
	t := &Tape{blank: blank}
	t.Initialize(nil)
	return t
}

// Blank returns the blank symbol used for extension.
func (t *Tape) Blank() domain.Symbol {
	return t.blank
}

// Initialize replaces every cell with a copy of input followed by one blank
// sentinel and moves the head to index 0.
func (t *Tape) Initialize(input []domain.Symbol) {
	t.left = nil
	t.right = make([]domain.Symbol, len(input), len(input)+1)
	copy(t.right, input)
	t.right = append(t.right, t.blank)
	t.pos = 0
}

// Len returns the number of materialized cells. It never decreases between
// two calls to Initialize.
func (t *Tape) Len() int {
	return len(t.left) + len(t.right)
}

// Head returns the head index into the materialized sequence.
func (t *Tape) Head() int {
	return t.pos + len(t.left)
}

// Read returns the symbol under the head, or the blank when the head is
// outside the materialized range. It never mutates storage.
func (t *Tape) Read() domain.Symbol {
	if c := t.cell(t.pos); c != nil {
		return *c
	}
	return t.blank
}

// Write overwrites the symbol under the head, materializing the cell first
// when needed.
func (t *Tape) Write(s domain.Symbol) {
	t.extendTo(t.pos)
	*t.cell(t.pos) = s
}

// Move shifts the head one cell and materializes a blank if the head left the
// materialized range. A left extension makes the new cell index 0.
func (t *Tape) Move(d domain.Direction) {
	t.pos += d.Delta()
	t.extendTo(t.pos)
}

// Cells returns a copy of the materialized cells in order.
func (t *Tape) Cells() []domain.Symbol {
	out := make([]domain.Symbol, 0, t.Len())
	for i := len(t.left) - 1; i >= 0; i-- {
		out = append(out, t.left[i])
	}
	return append(out, t.right...)
}

// Render returns the concatenated cells and the display column of the head.
func (t *Tape) Render() (string, int) {
	s := t.Snapshot()
	return s.String(), s.Caret()
}

// Snapshot returns an immutable copy of the tape.
func (t *Tape) Snapshot() domain.Snapshot {
	return domain.Snapshot{Cells: t.Cells(), Head: t.Head(), Blank: t.blank}
}

// Restore replaces the tape contents with a snapshot taken earlier.
func (t *Tape) Restore(s domain.Snapshot) error {
	if len(s.Cells) == 0 {
		t.Initialize(nil)
		return nil
	}
	if s.Head < 0 || s.Head >= len(s.Cells) {
		return fmt.Errorf("head %d outside tape of %d cells", s.Head, len(s.Cells))
	}
	t.left = nil
	t.right = append(make([]domain.Symbol, 0, len(s.Cells)+1), s.Cells...)
	t.pos = s.Head
	return nil
}

func (t *Tape) cell(pos int) *domain.Symbol {
	if pos >= 0 {
		if pos < len(t.right) {
			return &t.right[pos]
		}
		return nil
	}
	if i := -pos - 1; i < len(t.left) {
		return &t.left[i]
	}
	return nil
}

func (t *Tape) extendTo(pos int) {
	for pos >= 0 && pos >= len(t.right) {
		t.right = append(t.right, t.blank)
	}
	for pos < 0 && -pos-1 >= len(t.left) {
		t.left = append(t.left, t.blank)
	}
}
