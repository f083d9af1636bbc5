// Package dnd tracks a single drag gesture over a board and reports how it
// ended as a domain.DropEvent.
package dnd

import (
	"errors"

	"github.com/hylla/flowboard/internal/domain"
)

var (
	ErrGestureActive = errors.New("a drag gesture is already active")
	ErrNoGesture     = errors.New("no drag gesture is active")
	ErrNothingToDrag = errors.New("nothing to drag at that position")
)

// Tracker is a small state machine: idle, dragging, then back to idle once
// the gesture is dropped or cancelled. The zero value is ready to use.
//
// The board passed at pick-up is kept for clamping provisional destinations;
// it is never modified.
type Tracker struct {
	active      bool
	kind        domain.DropKind
	draggableID string
	source      domain.DropLocation
	dest        domain.DropLocation
	board       domain.Board
}

// PickUpColumn starts dragging the column at index.
func (t *Tracker) PickUpColumn(board domain.Board, index int) error {
	if t.active {
		return ErrGestureActive
	}
	if index < 0 || index >= len(board.Columns) {
		return ErrNothingToDrag
	}
	loc := domain.DropLocation{ContainerID: domain.ColumnsContainerID, Index: index}
	t.start(board, domain.DropKindColumn, board.Columns[index].ID, loc)
	return nil
}

// PickUpTask starts dragging the task at index of columnID.
func (t *Tracker) PickUpTask(board domain.Board, columnID string, index int) error {
	if t.active {
		return ErrGestureActive
	}
	col, ok := board.Column(columnID)
	if !ok || index < 0 || index >= len(col.Tasks) {
		return ErrNothingToDrag
	}
	loc := domain.DropLocation{ContainerID: columnID, Index: index}
	t.start(board, domain.DropKindTask, col.Tasks[index].ID, loc)
	return nil
}

func (t *Tracker) start(board domain.Board, kind domain.DropKind, id string, loc domain.DropLocation) {
	t.active = true
	t.kind = kind
	t.draggableID = id
	t.source = loc
	t.dest = loc
	t.board = board
}

// Active reports whether a gesture is in progress.
func (t *Tracker) Active() bool {
	return t.active
}

// Kind returns the kind of the active gesture, or "" when idle.
func (t *Tracker) Kind() domain.DropKind {
	if !t.active {
		return ""
	}
	return t.kind
}

// DraggableID returns the id of the dragged column or task.
func (t *Tracker) DraggableID() string {
	if !t.active {
		return ""
	}
	return t.draggableID
}

// Preview returns the source and provisional destination of the active
// gesture.
func (t *Tracker) Preview() (source, destination domain.DropLocation, ok bool) {
	if !t.active {
		return domain.DropLocation{}, domain.DropLocation{}, false
	}
	return t.source, t.dest, true
}

// MoveUp moves the provisional destination one slot earlier.
func (t *Tracker) MoveUp() {
	t.step(-1)
}

// MoveDown moves the provisional destination one slot later.
func (t *Tracker) MoveDown() {
	t.step(1)
}

// MoveLeft moves a column one slot earlier, or a task to the previous column.
func (t *Tracker) MoveLeft() {
	if t.kind == domain.DropKindColumn {
		t.step(-1)
		return
	}
	t.hop(-1)
}

// MoveRight moves a column one slot later, or a task to the next column.
func (t *Tracker) MoveRight() {
	if t.kind == domain.DropKindColumn {
		t.step(1)
		return
	}
	t.hop(1)
}

// HoverAt points the provisional destination at a slot. For column drags the
// container is ignored; for task drags an unknown column is ignored.
func (t *Tracker) HoverAt(containerID string, index int) {
	if !t.active {
		return
	}
	if t.kind == domain.DropKindColumn {
		t.dest.Index = clamp(index, 0, len(t.board.Columns)-1)
		return
	}
	if t.board.ColumnIndex(containerID) < 0 {
		return
	}
	t.dest = domain.DropLocation{ContainerID: containerID, Index: clamp(index, 0, t.maxTaskIndex(containerID))}
}

// Drop ends the gesture at the provisional destination.
func (t *Tracker) Drop() (domain.DropEvent, error) {
	if !t.active {
		return domain.DropEvent{}, ErrNoGesture
	}
	dest := t.dest
	ev := t.event(&dest)
	t.reset()
	return ev, nil
}

// Cancel ends the gesture without a destination.
func (t *Tracker) Cancel() (domain.DropEvent, error) {
	if !t.active {
		return domain.DropEvent{}, ErrNoGesture
	}
	ev := t.event(nil)
	t.reset()
	return ev, nil
}

func (t *Tracker) event(dest *domain.DropLocation) domain.DropEvent {
	return domain.DropEvent{
		Kind:        t.kind,
		DraggableID: t.draggableID,
		Source:      t.source,
		Destination: dest,
	}
}

func (t *Tracker) reset() {
	*t = Tracker{}
}

func (t *Tracker) step(delta int) {
	if !t.active {
		return
	}
	if t.kind == domain.DropKindColumn {
		t.dest.Index = clamp(t.dest.Index+delta, 0, len(t.board.Columns)-1)
		return
	}
	t.dest.Index = clamp(t.dest.Index+delta, 0, t.maxTaskIndex(t.dest.ContainerID))
}

func (t *Tracker) hop(delta int) {
	if !t.active {
		return
	}
	ci := t.board.ColumnIndex(t.dest.ContainerID) + delta
	if ci < 0 || ci >= len(t.board.Columns) {
		return
	}
	next := t.board.Columns[ci].ID
	t.dest = domain.DropLocation{ContainerID: next, Index: clamp(t.dest.Index, 0, t.maxTaskIndex(next))}
}

// maxTaskIndex is the last insertion slot in columnID once the dragged task
// has been lifted out of its source column.
func (t *Tracker) maxTaskIndex(columnID string) int {
	col, _ := t.board.Column(columnID)
	if columnID == t.source.ContainerID {
		return len(col.Tasks) - 1
	}
	return len(col.Tasks)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
