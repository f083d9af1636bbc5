package app

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hylla/flowboard/internal/domain"
)

// SnapshotVersion defines a package constant value.
const SnapshotVersion = "flowboard.snapshot.v1"

// Snapshot is a flat, versioned document describing one board.
type Snapshot struct {
	Version    string           `json:"version" yaml:"version"`
	ExportedAt time.Time        `json:"exported_at" yaml:"exported_at"`
	Columns    []SnapshotColumn `json:"columns" yaml:"columns"`
	Tasks      []SnapshotTask   `json:"tasks" yaml:"tasks"`
}

// SnapshotColumn represents snapshot column data used by this package.
type SnapshotColumn struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Position int    `json:"position" yaml:"position"`
}

// SnapshotTask represents snapshot task data used by this package.
type SnapshotTask struct {
	ID       string       `json:"id" yaml:"id"`
	ColumnID string       `json:"column_id" yaml:"column_id"`
	Position int          `json:"position" yaml:"position"`
	Text     string       `json:"text" yaml:"text"`
	Color    domain.Color `json:"color,omitempty" yaml:"color,omitempty"`
}

// ExportSnapshot returns the current board as a snapshot document.
func (s *Service) ExportSnapshot(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	return SnapshotFromBoard(s.Snapshot(), s.clock()), nil
}

// SnapshotFromBoard flattens board into a snapshot document.
func SnapshotFromBoard(board domain.Board, now time.Time) Snapshot {
	snap := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: now.UTC(),
		Columns:    make([]SnapshotColumn, 0, len(board.Columns)),
		Tasks:      make([]SnapshotTask, 0, board.TaskCount()),
	}
	for ci, column := range board.Columns {
		snap.Columns = append(snap.Columns, SnapshotColumn{
			ID:       column.ID,
			Title:    column.Title,
			Position: ci,
		})
		for ti, task := range column.Tasks {
			snap.Tasks = append(snap.Tasks, SnapshotTask{
				ID:       task.ID,
				ColumnID: column.ID,
				Position: ti,
				Text:     task.Text,
				Color:    task.Color,
			})
		}
	}
	return snap
}

// ImportSnapshot replaces the current board with the one described by snap.
func (s *Service) ImportSnapshot(ctx context.Context, snap Snapshot) error {
	board, err := snap.Board()
	if err != nil {
		return err
	}
	_, err = s.mutate(ctx, domain.ChangeEvent{
		Operation: domain.ChangeOperationImport,
		Metadata: map[string]string{
			"columns": strconv.Itoa(len(board.Columns)),
			"tasks":   strconv.Itoa(board.TaskCount()),
		},
	}, func(domain.Board, *domain.ChangeEvent) (domain.Board, error) {
		return board, nil
	})
	return err
}

// Board validates the snapshot and rebuilds the board it describes.
func (s Snapshot) Board() (domain.Board, error) {
	if err := s.Validate(); err != nil {
		return domain.Board{}, err
	}
	s.sort()

	columns := make([]domain.Column, 0, len(s.Columns))
	index := make(map[string]int, len(s.Columns))
	for _, c := range s.Columns {
		index[strings.TrimSpace(c.ID)] = len(columns)
		columns = append(columns, domain.Column{ID: c.ID, Title: c.Title, Tasks: []domain.Task{}})
	}
	for _, t := range s.Tasks {
		ci := index[strings.TrimSpace(t.ColumnID)]
		columns[ci].Tasks = append(columns[ci].Tasks, domain.Task{ID: t.ID, Text: t.Text, Color: t.Color})
	}
	board, err := domain.NewBoard(columns...)
	if err != nil {
		return domain.Board{}, fmt.Errorf("snapshot: %w", err)
	}
	return board, nil
}

// Validate validates the requested operation.
func (s Snapshot) Validate() error {
	if s.Version != "" && s.Version != SnapshotVersion {
		return fmt.Errorf("%w: %q", ErrUnsupportedSnapshotVersion, s.Version)
	}

	columnIDs := map[string]struct{}{}
	for i, c := range s.Columns {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return fmt.Errorf("columns[%d].id is required", i)
		}
		if strings.TrimSpace(c.Title) == "" {
			return fmt.Errorf("columns[%d].title is required", i)
		}
		if c.Position < 0 {
			return fmt.Errorf("columns[%d].position must be >= 0", i)
		}
		if _, exists := columnIDs[id]; exists {
			return fmt.Errorf("duplicate column id: %q", id)
		}
		columnIDs[id] = struct{}{}
	}

	for i, t := range s.Tasks {
		if strings.TrimSpace(t.ID) == "" {
			return fmt.Errorf("tasks[%d].id is required", i)
		}
		if strings.TrimSpace(t.Text) == "" {
			return fmt.Errorf("tasks[%d].text is required", i)
		}
		if t.Position < 0 {
			return fmt.Errorf("tasks[%d].position must be >= 0", i)
		}
		if _, ok := columnIDs[strings.TrimSpace(t.ColumnID)]; !ok {
			return fmt.Errorf("tasks[%d].column_id references unknown column %q", i, t.ColumnID)
		}
		if t.Color != "" && !t.Color.Valid() {
			return fmt.Errorf("tasks[%d].color: %w", i, domain.ErrInvalidColor)
		}
	}
	return nil
}

func (s *Snapshot) sort() {
	s.Columns = append([]SnapshotColumn(nil), s.Columns...)
	s.Tasks = append([]SnapshotTask(nil), s.Tasks...)
	sort.SliceStable(s.Columns, func(i, j int) bool {
		return s.Columns[i].Position < s.Columns[j].Position
	})
	sort.SliceStable(s.Tasks, func(i, j int) bool {
		a := s.Tasks[i]
		b := s.Tasks[j]
		if a.ColumnID == b.ColumnID {
			return a.Position < b.Position
		}
		return a.ColumnID < b.ColumnID
	})
}
