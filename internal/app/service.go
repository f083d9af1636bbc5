package app

import (
	"context"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hylla/flowboard/internal/domain"
)

// DefaultMaxChangeEvents bounds the in-memory activity ledger.
const DefaultMaxChangeEvents = 200

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	ColumnTemplates []ColumnTemplate
	MaxChangeEvents int
	Observer        Observer
}

// ColumnTemplate describes one column of the starting board.
type ColumnTemplate struct {
	ID    string
	Title string
}

// DefaultColumnTemplates returns the four columns every new board starts with.
func DefaultColumnTemplates() []ColumnTemplate {
	return []ColumnTemplate{
		{ID: "projects", Title: "Projects"},
		{ID: "assignments", Title: "Assignments"},
		{ID: "tests-quizzes", Title: "Tests / Quizzes"},
		{ID: "other", Title: "Other"},
	}
}

// Service owns the canonical board snapshot. Reads are lock-free; mutations
// are serialized and publish a new snapshot by swapping the pointer.
type Service struct {
	idGen     IDGenerator
	clock     Clock
	observer  Observer
	templates []ColumnTemplate
	maxEvents int

	current atomic.Pointer[domain.Board]

	mu          sync.Mutex
	events      []domain.ChangeEvent
	nextEventID int64
}

// NewService constructs a new value for this package.
func NewService(idGen IDGenerator, clock Clock, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = uuid.NewString
	}
	if clock == nil {
		clock = time.Now
	}
	templates := sanitizeColumnTemplates(cfg.ColumnTemplates)
	if len(templates) == 0 {
		templates = DefaultColumnTemplates()
	}
	if cfg.MaxChangeEvents <= 0 {
		cfg.MaxChangeEvents = DefaultMaxChangeEvents
	}

	s := &Service{
		idGen:     idGen,
		clock:     clock,
		observer:  cfg.Observer,
		templates: templates,
		maxEvents: cfg.MaxChangeEvents,
	}
	initial := boardFromTemplates(templates)
	s.current.Store(&initial)
	return s
}

// Snapshot returns a copy of the latest published board. Callers may modify
// it without affecting the service.
func (s *Service) Snapshot() domain.Board {
	return s.current.Load().Clone()
}

// ReorderColumns moves a column to a new position.
func (s *Service) ReorderColumns(ctx context.Context, from, to int) (domain.Board, error) {
	return s.mutate(ctx, reorderChangeEvent(from, to), func(b domain.Board, ev *domain.ChangeEvent) (domain.Board, error) {
		ev.ColumnID = columnIDAt(b, from)
		return b.ReorderColumns(from, to), nil
	})
}

// MoveTask moves a task between or within columns.
func (s *Service) MoveTask(ctx context.Context, srcColumnID string, srcIndex int, dstColumnID string, dstIndex int) (domain.Board, error) {
	return s.mutate(ctx, moveChangeEvent(srcColumnID, srcIndex, dstColumnID, dstIndex), func(b domain.Board, ev *domain.ChangeEvent) (domain.Board, error) {
		ev.TaskID = taskIDAt(b, srcColumnID, srcIndex)
		return b.MoveTask(srcColumnID, srcIndex, dstColumnID, dstIndex)
	})
}

func reorderChangeEvent(from, to int) domain.ChangeEvent {
	return domain.ChangeEvent{
		Operation: domain.ChangeOperationReorderColumns,
		Metadata: map[string]string{
			"from": strconv.Itoa(from),
			"to":   strconv.Itoa(to),
		},
	}
}

func moveChangeEvent(srcColumnID string, srcIndex int, dstColumnID string, dstIndex int) domain.ChangeEvent {
	return domain.ChangeEvent{
		Operation: domain.ChangeOperationMoveTask,
		ColumnID:  dstColumnID,
		Metadata: map[string]string{
			"from_column": srcColumnID,
			"from_index":  strconv.Itoa(srcIndex),
			"to_index":    strconv.Itoa(dstIndex),
		},
	}
}

func columnIDAt(b domain.Board, index int) string {
	if index >= 0 && index < len(b.Columns) {
		return b.Columns[index].ID
	}
	return ""
}

func taskIDAt(b domain.Board, columnID string, index int) string {
	if col, ok := b.Column(columnID); ok && index >= 0 && index < len(col.Tasks) {
		return col.Tasks[index].ID
	}
	return ""
}

// AddTask appends a task to columnID and returns the new task id.
func (s *Service) AddTask(ctx context.Context, columnID, text string) (domain.Board, string, error) {
	id := s.idGen()
	board, err := s.mutate(ctx, domain.ChangeEvent{
		Operation: domain.ChangeOperationAddTask,
		ColumnID:  columnID,
		TaskID:    id,
	}, func(b domain.Board, _ *domain.ChangeEvent) (domain.Board, error) {
		return b.AddTask(columnID, id, text)
	})
	if err != nil {
		return board, "", err
	}
	return board, id, nil
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, columnID, taskID string) (domain.Board, error) {
	return s.mutate(ctx, domain.ChangeEvent{
		Operation: domain.ChangeOperationDeleteTask,
		ColumnID:  columnID,
		TaskID:    taskID,
	}, func(b domain.Board, _ *domain.ChangeEvent) (domain.Board, error) {
		return b.DeleteTask(columnID, taskID)
	})
}

// RecolorTask changes the color of a task.
func (s *Service) RecolorTask(ctx context.Context, columnID, taskID string, color domain.Color) (domain.Board, error) {
	return s.mutate(ctx, domain.ChangeEvent{
		Operation: domain.ChangeOperationRecolorTask,
		ColumnID:  columnID,
		TaskID:    taskID,
		Metadata:  map[string]string{"color": string(color)},
	}, func(b domain.Board, _ *domain.ChangeEvent) (domain.Board, error) {
		return b.RecolorTask(columnID, taskID, color)
	})
}

// AddColumn appends an empty column and returns its id.
func (s *Service) AddColumn(ctx context.Context, title string) (domain.Board, string, error) {
	var id string
	board, err := s.mutate(ctx, domain.ChangeEvent{
		Operation: domain.ChangeOperationAddColumn,
		Metadata:  map[string]string{"title": strings.TrimSpace(title)},
	}, func(b domain.Board, ev *domain.ChangeEvent) (domain.Board, error) {
		id = s.columnIDFor(b, title)
		ev.ColumnID = id
		return b.AddColumn(id, title)
	})
	if err != nil {
		return board, "", err
	}
	return board, id, nil
}

// RenameColumn changes a column title.
func (s *Service) RenameColumn(ctx context.Context, columnID, title string) (domain.Board, error) {
	return s.mutate(ctx, domain.ChangeEvent{
		Operation: domain.ChangeOperationRenameColumn,
		ColumnID:  columnID,
		Metadata:  map[string]string{"title": strings.TrimSpace(title)},
	}, func(b domain.Board, _ *domain.ChangeEvent) (domain.Board, error) {
		return b.RenameColumn(columnID, title)
	})
}

// ApplyDrop interprets the terminal event of a drag gesture through
// domain.Board.ApplyDrop. A cancelled gesture returns the current snapshot
// and records nothing; a drop onto its own source still runs as a mutation.
func (s *Service) ApplyDrop(ctx context.Context, ev domain.DropEvent) (domain.Board, error) {
	if err := ev.Validate(); err != nil {
		return s.Snapshot(), err
	}
	if ev.Cancelled() {
		return s.Snapshot(), nil
	}
	var change domain.ChangeEvent
	if ev.Kind == domain.DropKindColumn {
		change = reorderChangeEvent(ev.Source.Index, ev.Destination.Index)
	} else {
		change = moveChangeEvent(ev.Source.ContainerID, ev.Source.Index, ev.Destination.ContainerID, ev.Destination.Index)
	}
	change.Metadata["gesture"] = "drop"
	return s.mutate(ctx, change, func(b domain.Board, ce *domain.ChangeEvent) (domain.Board, error) {
		if ev.Kind == domain.DropKindColumn {
			ce.ColumnID = columnIDAt(b, ev.Source.Index)
		} else {
			ce.TaskID = taskIDAt(b, ev.Source.ContainerID, ev.Source.Index)
		}
		return b.ApplyDrop(ev)
	})
}

// Reset restores the configured starting columns.
func (s *Service) Reset(ctx context.Context) (domain.Board, error) {
	return s.mutate(ctx, domain.ChangeEvent{
		Operation: domain.ChangeOperationReset,
	}, func(domain.Board, *domain.ChangeEvent) (domain.Board, error) {
		return boardFromTemplates(s.templates), nil
	})
}

// ListChangeEvents returns up to limit of the most recent ledger entries,
// oldest first. A non-positive limit returns the whole ledger.
func (s *Service) ListChangeEvents(ctx context.Context, limit int) ([]domain.ChangeEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	start := 0
	if limit > 0 && limit < len(s.events) {
		start = len(s.events) - limit
	}
	out := make([]domain.ChangeEvent, 0, len(s.events)-start)
	for _, ev := range s.events[start:] {
		ev.Metadata = maps.Clone(ev.Metadata)
		out = append(out, ev)
	}
	return out, nil
}

// mutate runs fn against the current snapshot under the write lock. On
// success the result is published and the event recorded.
func (s *Service) mutate(ctx context.Context, event domain.ChangeEvent, fn func(domain.Board, *domain.ChangeEvent) (domain.Board, error)) (domain.Board, error) {
	if err := ctx.Err(); err != nil {
		return s.Snapshot(), err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current := *s.current.Load()
	next, err := fn(current, &event)
	if err != nil {
		return current, err
	}
	s.current.Store(&next)

	s.nextEventID++
	event.ID = s.nextEventID
	event.OccurredAt = s.clock().UTC()
	s.events = append(s.events, event)
	if over := len(s.events) - s.maxEvents; over > 0 {
		s.events = append(s.events[:0:0], s.events[over:]...)
	}
	if s.observer != nil {
		s.observer.BoardPublished(next, event)
	}
	return next, nil
}

// columnIDFor derives a column id from title, falling back to a generated
// id when the slug is empty or already in use.
func (s *Service) columnIDFor(b domain.Board, title string) string {
	id := normalizeColumnID(title)
	if id == "" || b.ColumnIndex(id) >= 0 {
		return s.idGen()
	}
	return id
}

func boardFromTemplates(templates []ColumnTemplate) domain.Board {
	cols := make([]domain.Column, 0, len(templates))
	for _, tpl := range templates {
		cols = append(cols, domain.Column{ID: tpl.ID, Title: tpl.Title, Tasks: []domain.Task{}})
	}
	// Templates are sanitized before reaching here.
	board, err := domain.NewBoard(cols...)
	if err != nil {
		panic(fmt.Sprintf("flowboard: invalid column templates: %v", err))
	}
	return board
}

// sanitizeColumnTemplates trims, derives missing ids and drops duplicates.
func sanitizeColumnTemplates(in []ColumnTemplate) []ColumnTemplate {
	if len(in) == 0 {
		return nil
	}
	out := make([]ColumnTemplate, 0, len(in))
	seen := map[string]struct{}{}
	for _, tpl := range in {
		tpl.Title = strings.TrimSpace(tpl.Title)
		tpl.ID = strings.TrimSpace(strings.ToLower(tpl.ID))
		if tpl.Title == "" {
			continue
		}
		if tpl.ID == "" {
			tpl.ID = normalizeColumnID(tpl.Title)
		}
		if tpl.ID == "" {
			continue
		}
		if _, ok := seen[tpl.ID]; ok {
			continue
		}
		seen[tpl.ID] = struct{}{}
		out = append(out, tpl)
	}
	return out
}

// normalizeColumnID lowercases name and joins alphanumeric runs with dashes.
func normalizeColumnID(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return ""
	}
	var b strings.Builder
	lastDash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
