package replay

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/hylla/flowboard/internal/app"
	"github.com/hylla/flowboard/internal/domain"
)

// Board is the subset of app.Service a replay drives.
type Board interface {
	Snapshot() domain.Board
	ImportSnapshot(context.Context, app.Snapshot) error
	ExportSnapshot(context.Context) (app.Snapshot, error)
	ReorderColumns(context.Context, int, int) (domain.Board, error)
	MoveTask(context.Context, string, int, string, int) (domain.Board, error)
	AddTask(context.Context, string, string) (domain.Board, string, error)
	DeleteTask(context.Context, string, string) (domain.Board, error)
	RecolorTask(context.Context, string, string, domain.Color) (domain.Board, error)
	AddColumn(context.Context, string) (domain.Board, string, error)
	RenameColumn(context.Context, string, string) (domain.Board, error)
	ApplyDrop(context.Context, domain.DropEvent) (domain.Board, error)
}

// Warning records a step the board rejected without changing.
type Warning struct {
	Step int
	Op   Op
	Err  error
}

// String renders the warning for terminal output.
func (w Warning) String() string {
	return fmt.Sprintf("step %d (%s): %v", w.Step, w.Op, w.Err)
}

// Result summarizes one replay. Snapshot is only set when every step ran.
type Result struct {
	Board    domain.Board
	Snapshot app.Snapshot
	Applied  int
	Warnings []Warning
}

// Run seeds board from the script (when it carries one) and applies each
// step in order. Quiet rejections become warnings; any other failure stops
// the replay and is returned with the 1-based step number.
func Run(ctx context.Context, board Board, script Script) (Result, error) {
	if script.Board != nil {
		if err := board.ImportSnapshot(ctx, *script.Board); err != nil {
			return Result{}, fmt.Errorf("seed board: %w", err)
		}
	}

	aliases := map[string]string{}
	resolve := func(ref string) string {
		if id, ok := aliases[ref]; ok {
			return id
		}
		return ref
	}

	var res Result
	for i, step := range script.Steps {
		n := i + 1
		id, err := apply(ctx, board, step, resolve)
		if err != nil {
			if app.IsRejection(err) {
				log.Warn("replay step rejected", "step", n, "op", step.Op, "err", err)
				res.Warnings = append(res.Warnings, Warning{Step: n, Op: step.Op, Err: err})
				continue
			}
			res.Board = board.Snapshot()
			return res, fmt.Errorf("step %d (%s): %w", n, step.Op, err)
		}
		if step.As != "" && id != "" {
			aliases[step.As] = id
		}
		res.Applied++
		log.Debug("replay step applied", "step", n, "op", step.Op)
	}
	res.Board = board.Snapshot()
	snap, err := board.ExportSnapshot(ctx)
	if err != nil {
		return res, fmt.Errorf("export board: %w", err)
	}
	res.Snapshot = snap
	return res, nil
}

// apply runs one step and returns the id it created, if any.
func apply(ctx context.Context, board Board, step Step, resolve func(string) string) (string, error) {
	switch step.Op {
	case OpAddColumn:
		_, id, err := board.AddColumn(ctx, step.Title)
		return id, err
	case OpRenameColumn:
		_, err := board.RenameColumn(ctx, resolve(step.Column), step.Title)
		return "", err
	case OpReorderColumns:
		_, err := board.ReorderColumns(ctx, step.From, step.To)
		return "", err
	case OpAddTask:
		_, id, err := board.AddTask(ctx, resolve(step.Column), step.Text)
		return id, err
	case OpDeleteTask:
		_, err := board.DeleteTask(ctx, resolve(step.Column), resolve(step.Task))
		return "", err
	case OpRecolorTask:
		color, err := domain.ParseColor(step.Color)
		if err != nil {
			return "", fmt.Errorf("%w: %q", err, step.Color)
		}
		_, err = board.RecolorTask(ctx, resolve(step.Column), resolve(step.Task), color)
		return "", err
	case OpMoveTask:
		_, err := board.MoveTask(ctx, resolve(step.Column), step.Index, resolve(step.ToColumn), step.ToIndex)
		return "", err
	case OpDrop:
		if step.Drop == nil {
			return "", fmt.Errorf("%w: drop step without event", ErrInvalidScript)
		}
		ev := *step.Drop
		ev.DraggableID = resolve(ev.DraggableID)
		ev.Source.ContainerID = resolve(ev.Source.ContainerID)
		if ev.Destination != nil {
			dest := *ev.Destination
			dest.ContainerID = resolve(dest.ContainerID)
			ev.Destination = &dest
		}
		_, err := board.ApplyDrop(ctx, ev)
		return "", err
	default:
		return "", fmt.Errorf("%w: unknown op %q", ErrInvalidScript, step.Op)
	}
}
