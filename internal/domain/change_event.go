package domain

import "time"

// ChangeOperation describes a board mutation recorded in the activity ledger.
type ChangeOperation string

// ChangeOperation values used by the activity ledger.
const (
	ChangeOperationReorderColumns ChangeOperation = "reorder-columns"
	ChangeOperationMoveTask       ChangeOperation = "move-task"
	ChangeOperationAddTask        ChangeOperation = "add-task"
	ChangeOperationDeleteTask     ChangeOperation = "delete-task"
	ChangeOperationRecolorTask    ChangeOperation = "recolor-task"
	ChangeOperationAddColumn      ChangeOperation = "add-column"
	ChangeOperationRenameColumn   ChangeOperation = "rename-column"
	ChangeOperationReset          ChangeOperation = "reset"
	ChangeOperationImport         ChangeOperation = "import"
)

// ChangeEvent represents a single activity-log entry for the board.
type ChangeEvent struct {
	ID         int64             `json:"id" yaml:"id"`
	Operation  ChangeOperation   `json:"operation" yaml:"operation"`
	ColumnID   string            `json:"column_id,omitempty" yaml:"column_id,omitempty"`
	TaskID     string            `json:"task_id,omitempty" yaml:"task_id,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	OccurredAt time.Time         `json:"occurred_at" yaml:"occurred_at"`
}
