package domain

import "fmt"

// DropKind distinguishes column drags from task drags.
type DropKind string

const (
	DropKindColumn DropKind = "COLUMN"
	DropKindTask   DropKind = "TASK"
)

// ColumnsContainerID is the container id used by column drags.
const ColumnsContainerID = "columns"

// DropLocation addresses a slot inside a container. For task drags the
// container is a column id.
type DropLocation struct {
	ContainerID string `json:"droppableId" yaml:"droppableId"`
	Index       int    `json:"index" yaml:"index"`
}

// DropEvent is the terminal record of a drag gesture. A nil Destination
// means the gesture was cancelled or released outside any container.
type DropEvent struct {
	Kind        DropKind      `json:"type" yaml:"type"`
	DraggableID string        `json:"draggableId,omitempty" yaml:"draggableId,omitempty"`
	Source      DropLocation  `json:"source" yaml:"source"`
	Destination *DropLocation `json:"destination" yaml:"destination"`
}

// Cancelled reports whether the gesture ended without a destination.
func (e DropEvent) Cancelled() bool {
	return e.Destination == nil
}

// Validate rejects unknown drag kinds.
func (e DropEvent) Validate() error {
	switch e.Kind {
	case DropKindColumn, DropKindTask:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDropKind, e.Kind)
	}
}

// ApplyDrop interprets a drop event as exactly one board operation. A
// cancelled gesture leaves the board untouched.
func (b Board) ApplyDrop(e DropEvent) (Board, error) {
	if err := e.Validate(); err != nil {
		return b, err
	}
	if e.Cancelled() {
		return b, nil
	}
	switch e.Kind {
	case DropKindColumn:
		return b.ReorderColumns(e.Source.Index, e.Destination.Index), nil
	default:
		return b.MoveTask(e.Source.ContainerID, e.Source.Index, e.Destination.ContainerID, e.Destination.Index)
	}
}
