package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Board is an immutable snapshot of the ordered column list.
//
// Operations never modify the receiver. They return a new Board in which
// untouched columns share task storage with the board they came from; on
// error the receiver is returned unchanged.
type Board struct {
	Columns []Column `json:"columns" yaml:"columns"`
}

// NewBoard validates columns and returns a board that owns its own storage.
func NewBoard(columns ...Column) (Board, error) {
	seen := make(map[string]struct{}, len(columns))
	out := make([]Column, 0, len(columns))
	for _, c := range columns {
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			return Board{}, ErrInvalidID
		}
		if strings.TrimSpace(c.Title) == "" {
			return Board{}, ErrInvalidTitle
		}
		if _, ok := seen[c.ID]; ok {
			return Board{}, fmt.Errorf("%w: column %q", ErrDuplicateID, c.ID)
		}
		seen[c.ID] = struct{}{}

		tasks := make([]Task, 0, len(c.Tasks))
		taskIDs := make(map[string]struct{}, len(c.Tasks))
		for _, t := range c.Tasks {
			nt, err := NewTask(t.ID, t.Text)
			if err != nil {
				return Board{}, fmt.Errorf("column %q: %w", c.ID, err)
			}
			if t.Color != "" {
				if err := nt.Recolor(t.Color); err != nil {
					return Board{}, fmt.Errorf("column %q task %q: %w", c.ID, nt.ID, err)
				}
			}
			if _, ok := taskIDs[nt.ID]; ok {
				return Board{}, fmt.Errorf("%w: task %q in column %q", ErrDuplicateID, nt.ID, c.ID)
			}
			taskIDs[nt.ID] = struct{}{}
			tasks = append(tasks, nt)
		}
		c.Tasks = tasks
		out = append(out, c)
	}
	return Board{Columns: out}, nil
}

// ColumnIndex returns the position of the column with id, or -1.
func (b Board) ColumnIndex(id string) int {
	for i, c := range b.Columns {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Column returns the column with id.
func (b Board) Column(id string) (Column, bool) {
	idx := b.ColumnIndex(id)
	if idx < 0 {
		return Column{}, false
	}
	return b.Columns[idx], true
}

// TaskCount returns the number of tasks across all columns.
func (b Board) TaskCount() int {
	n := 0
	for _, c := range b.Columns {
		n += len(c.Tasks)
	}
	return n
}

// Clone returns a deep copy that shares no storage with b. Nil slices stay nil.
func (b Board) Clone() Board {
	if b.Columns == nil {
		return Board{}
	}
	cols := make([]Column, len(b.Columns))
	for i, c := range b.Columns {
		if c.Tasks != nil {
			c.Tasks = append(make([]Task, 0, len(c.Tasks)), c.Tasks...)
		}
		cols[i] = c
	}
	return Board{Columns: cols}
}

// ReorderColumns moves the column at from to position to. Both indices are
// clamped into the column range, and an empty board is returned as is.
func (b Board) ReorderColumns(from, to int) Board {
	n := len(b.Columns)
	if n == 0 {
		return b
	}
	from = clampIndex(from, n-1)
	to = clampIndex(to, n-1)

	cols := make([]Column, 0, n)
	cols = append(cols, b.Columns[:from]...)
	cols = append(cols, b.Columns[from+1:]...)
	cols = slices.Insert(cols, to, b.Columns[from])
	return Board{Columns: cols}
}

// MoveTask removes the task at srcIndex of srcColumnID and inserts it into
// dstColumnID at dstIndex. The destination index is clamped after the
// removal, so moving within one column behaves like a list reorder.
func (b Board) MoveTask(srcColumnID string, srcIndex int, dstColumnID string, dstIndex int) (Board, error) {
	si := b.ColumnIndex(srcColumnID)
	di := b.ColumnIndex(dstColumnID)
	if si < 0 || di < 0 {
		return b, ErrNotFound
	}
	src := b.Columns[si].Tasks
	if srcIndex < 0 || srcIndex >= len(src) {
		return b, ErrNotFound
	}
	moved := src[srcIndex]
	remaining := removeTask(src, srcIndex)

	cols := slices.Clone(b.Columns)
	if si == di {
		cols[si].Tasks = insertTask(remaining, clampIndex(dstIndex, len(remaining)), moved)
		return Board{Columns: cols}, nil
	}

	dst := b.Columns[di]
	if dst.TaskIndex(moved.ID) >= 0 {
		return b, fmt.Errorf("%w: task %q in column %q", ErrDuplicateID, moved.ID, dst.ID)
	}
	cols[si].Tasks = remaining
	cols[di].Tasks = insertTask(dst.Tasks, clampIndex(dstIndex, len(dst.Tasks)), moved)
	return Board{Columns: cols}, nil
}

// AddTask appends a new task with the default color to the end of columnID.
func (b Board) AddTask(columnID, id, text string) (Board, error) {
	task, err := NewTask(id, text)
	if err != nil {
		return b, err
	}
	idx := b.ColumnIndex(columnID)
	if idx < 0 {
		return b, ErrNotFound
	}
	col := b.Columns[idx]
	if col.TaskIndex(task.ID) >= 0 {
		return b, ErrDuplicateID
	}
	col.Tasks = insertTask(col.Tasks, len(col.Tasks), task)
	return b.withColumn(idx, col), nil
}

// DeleteTask removes taskID from columnID.
func (b Board) DeleteTask(columnID, taskID string) (Board, error) {
	idx := b.ColumnIndex(columnID)
	if idx < 0 {
		return b, ErrNotFound
	}
	col := b.Columns[idx]
	ti := col.TaskIndex(taskID)
	if ti < 0 {
		return b, ErrNotFound
	}
	col.Tasks = removeTask(col.Tasks, ti)
	return b.withColumn(idx, col), nil
}

// RecolorTask sets the color of taskID in columnID.
func (b Board) RecolorTask(columnID, taskID string, color Color) (Board, error) {
	if !color.Valid() {
		return b, ErrInvalidColor
	}
	idx := b.ColumnIndex(columnID)
	if idx < 0 {
		return b, ErrNotFound
	}
	col := b.Columns[idx]
	ti := col.TaskIndex(taskID)
	if ti < 0 {
		return b, ErrNotFound
	}
	col.Tasks = slices.Clone(col.Tasks)
	col.Tasks[ti].Color = color
	return b.withColumn(idx, col), nil
}

// AddColumn appends an empty column.
func (b Board) AddColumn(id, title string) (Board, error) {
	col, err := NewColumn(id, title)
	if err != nil {
		return b, err
	}
	if b.ColumnIndex(col.ID) >= 0 {
		return b, ErrDuplicateID
	}
	cols := make([]Column, 0, len(b.Columns)+1)
	cols = append(cols, b.Columns...)
	cols = append(cols, col)
	return Board{Columns: cols}, nil
}

// RenameColumn changes the title of columnID.
func (b Board) RenameColumn(columnID, title string) (Board, error) {
	idx := b.ColumnIndex(columnID)
	if idx < 0 {
		return b, ErrNotFound
	}
	col := b.Columns[idx]
	if err := col.Rename(title); err != nil {
		return b, err
	}
	return b.withColumn(idx, col), nil
}

func (b Board) withColumn(idx int, col Column) Board {
	cols := slices.Clone(b.Columns)
	cols[idx] = col
	return Board{Columns: cols}
}

func removeTask(tasks []Task, idx int) []Task {
	out := make([]Task, 0, len(tasks)-1)
	out = append(out, tasks[:idx]...)
	return append(out, tasks[idx+1:]...)
}

func insertTask(tasks []Task, idx int, task Task) []Task {
	out := make([]Task, 0, len(tasks)+1)
	out = append(out, tasks[:idx]...)
	out = append(out, task)
	return append(out, tasks[idx:]...)
}

func clampIndex(i, maxIndex int) int {
	if i < 0 {
		return 0
	}
	if i > maxIndex {
		return maxIndex
	}
	return i
}
