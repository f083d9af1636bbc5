package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/hylla/flowboard/internal/app"
	"github.com/hylla/flowboard/internal/domain"
	"github.com/hylla/flowboard/internal/whiteboard"
)

func newTestService(t *testing.T) *app.Service {
	t.Helper()
	n := 0
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	return app.NewService(func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}, func() time.Time { return now }, app.ServiceConfig{})
}

// seedTasks adds texts to columnID directly through the service.
func seedTasks(t *testing.T, svc *app.Service, columnID string, texts ...string) {
	t.Helper()
	for _, text := range texts {
		if _, _, err := svc.AddTask(context.Background(), columnID, text); err != nil {
			t.Fatalf("AddTask() error = %v", err)
		}
	}
}

func taskTexts(b domain.Board, columnID string) []string {
	col, _ := b.Column(columnID)
	out := make([]string, 0, len(col.Tasks))
	for _, task := range col.Tasks {
		out = append(out, task.Text)
	}
	return out
}

func columnIDs(b domain.Board) []string {
	out := make([]string, 0, len(b.Columns))
	for _, col := range b.Columns {
		out = append(out, col.ID)
	}
	return out
}

func TestModelLoadAndNavigation(t *testing.T) {
	svc := newTestService(t)
	seedTasks(t, svc, "projects", "Essay", "Lab report")
	m := loadReadyModel(t, NewModel(svc))

	if len(m.board.Columns) != 4 {
		t.Fatalf("expected 4 columns, got %d", len(m.board.Columns))
	}
	if m.status != "ready" {
		t.Fatalf("expected ready status, got %q", m.status)
	}
	m = applyMsg(t, m, keyRune('j'))
	if m.selectedTask != 1 {
		t.Fatalf("expected selectedTask=1, got %d", m.selectedTask)
	}
	m = applyMsg(t, m, keyRune('j'))
	if m.selectedTask != 1 {
		t.Fatalf("expected selection clamped at last task, got %d", m.selectedTask)
	}
	m = applyMsg(t, m, keyRune('l'))
	if m.selectedColumn != 1 || m.selectedTask != 0 {
		t.Fatalf("expected column 1 task 0, got %d/%d", m.selectedColumn, m.selectedTask)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyLeft})
	if m.selectedColumn != 0 {
		t.Fatalf("expected column 0 after left, got %d", m.selectedColumn)
	}
	m = applyMsg(t, m, keyRune('h'))
	if m.selectedColumn != 0 {
		t.Fatalf("expected selection clamped at first column, got %d", m.selectedColumn)
	}
}

func TestModelAddTaskKeepsModalOpenAndClearsInput(t *testing.T) {
	svc := newTestService(t)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('n'))
	if m.mode != modeAddTask {
		t.Fatalf("expected add task mode, got %v", m.mode)
	}
	m = typeText(t, m, "Read ch. 4")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := taskTexts(svc.Snapshot(), "projects"); !slices.Equal(got, []string{"Read ch. 4"}) {
		t.Fatalf("unexpected projects tasks %v", got)
	}
	if m.mode != modeAddTask {
		t.Fatalf("expected modal to stay open, got %v", m.mode)
	}
	if m.input.Value() != "" {
		t.Fatalf("expected cleared input, got %q", m.input.Value())
	}

	m = typeText(t, m, "Problem set")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.selectedTask != 1 {
		t.Fatalf("expected new task selected, got %d", m.selectedTask)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNone {
		t.Fatalf("expected esc to close modal, got %v", m.mode)
	}
	if got := taskTexts(m.board, "projects"); !slices.Equal(got, []string{"Read ch. 4", "Problem set"}) {
		t.Fatalf("unexpected loaded tasks %v", got)
	}
}

func TestModelBlankTaskIsIgnoredQuietly(t *testing.T) {
	svc := newTestService(t)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('n'))
	m = typeText(t, m, "   ")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.err != nil {
		t.Fatalf("expected no error for rejected task, got %v", m.err)
	}
	if svc.Snapshot().TaskCount() != 0 {
		t.Fatal("expected board unchanged")
	}
	if m.status != "empty task ignored" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestModelRecolorCopyAndDelete(t *testing.T) {
	svc := newTestService(t)
	seedTasks(t, svc, "projects", "Essay")
	var copied []string
	m := loadReadyModel(t, NewModel(svc, WithClipboard(func(s string) error {
		copied = append(copied, s)
		return nil
	})))

	m = applyMsg(t, m, keyRune('1'))
	if got := svc.Snapshot().Columns[0].Tasks[0].Color; got != domain.ColorGreen {
		t.Fatalf("expected green, got %q", got)
	}
	m = applyMsg(t, m, keyRune('3'))
	if got := svc.Snapshot().Columns[0].Tasks[0].Color; got != domain.ColorBlue {
		t.Fatalf("expected blue, got %q", got)
	}
	if m.board.Columns[0].Tasks[0].Color != domain.ColorBlue {
		t.Fatal("expected model to reload recolored board")
	}

	m = applyMsg(t, m, keyRune('y'))
	if !slices.Equal(copied, []string{"Essay"}) || m.status != "copied task text" {
		t.Fatalf("unexpected copy result %v status=%q", copied, m.status)
	}

	m = applyMsg(t, m, keyRune('d'))
	if svc.Snapshot().TaskCount() != 0 || m.board.TaskCount() != 0 {
		t.Fatal("expected task deleted")
	}
	m = applyMsg(t, m, keyRune('d'))
	if m.status != "no task selected" {
		t.Fatalf("unexpected status after deleting from empty column %q", m.status)
	}
}

func TestModelCopyFailureOnlyUpdatesStatus(t *testing.T) {
	svc := newTestService(t)
	seedTasks(t, svc, "projects", "Essay")
	m := loadReadyModel(t, NewModel(svc, WithClipboard(func(string) error {
		return errors.New("no clipboard")
	})))

	m = applyMsg(t, m, keyRune('y'))
	if m.err != nil {
		t.Fatalf("expected no fatal error, got %v", m.err)
	}
	if m.status != "copy failed: no clipboard" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestModelKeyboardTaskDrag(t *testing.T) {
	svc := newTestService(t)
	seedTasks(t, svc, "projects", "Essay", "Lab report")
	seedTasks(t, svc, "assignments", "Worksheet")
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('j'))
	m = applyMsg(t, m, keyRune('m'))
	if !m.drag.Active() || m.drag.DraggableID() != "t2" {
		t.Fatalf("expected drag of t2, active=%v id=%q", m.drag.Active(), m.drag.DraggableID())
	}
	if !strings.Contains(m.renderContent(), "drag task") {
		t.Fatal("expected header to show the drag mode")
	}

	m = applyMsg(t, m, keyRune('l'))
	m = applyMsg(t, m, keyRune('k'))
	preview := m.displayBoard()
	if got := taskTexts(preview, "assignments"); !slices.Equal(got, []string{"Lab report", "Worksheet"}) {
		t.Fatalf("unexpected preview %v", got)
	}
	if svc.Snapshot().Columns[1].Tasks[0].Text != "Worksheet" {
		t.Fatal("expected board untouched until drop")
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.drag.Active() {
		t.Fatal("expected drag finished")
	}
	b := svc.Snapshot()
	if got := taskTexts(b, "projects"); !slices.Equal(got, []string{"Essay"}) {
		t.Fatalf("unexpected projects %v", got)
	}
	if got := taskTexts(b, "assignments"); !slices.Equal(got, []string{"Lab report", "Worksheet"}) {
		t.Fatalf("unexpected assignments %v", got)
	}
	if m.selectedColumn != 1 || m.selectedTask != 0 {
		t.Fatalf("expected selection to follow the task, got %d/%d", m.selectedColumn, m.selectedTask)
	}
}

func TestModelDragCancelLeavesBoard(t *testing.T) {
	svc := newTestService(t)
	seedTasks(t, svc, "projects", "Essay")
	m := loadReadyModel(t, NewModel(svc))
	before := svc.Snapshot()
	events, _ := svc.ListChangeEvents(context.Background(), 0)

	m = applyMsg(t, m, keyRune('m'))
	m = applyMsg(t, m, keyRune('l'))
	m = applyMsg(t, m, keyRune('l'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.drag.Active() {
		t.Fatal("expected drag cancelled")
	}
	if m.status != "drag cancelled" {
		t.Fatalf("unexpected status %q", m.status)
	}
	after := svc.Snapshot()
	if !slices.Equal(taskTexts(after, "projects"), taskTexts(before, "projects")) {
		t.Fatal("expected board unchanged after cancel")
	}
	gotEvents, _ := svc.ListChangeEvents(context.Background(), 0)
	if len(gotEvents) != len(events) {
		t.Fatalf("expected no ledger entry for cancel, got %d want %d", len(gotEvents), len(events))
	}
}

// countingService records every drop the model hands to the service.
type countingService struct {
	*app.Service
	drops []domain.DropEvent
}

func (s *countingService) ApplyDrop(ctx context.Context, ev domain.DropEvent) (domain.Board, error) {
	s.drops = append(s.drops, ev)
	return s.Service.ApplyDrop(ctx, ev)
}

func TestModelDropInPlaceGoesThroughService(t *testing.T) {
	svc := &countingService{Service: newTestService(t)}
	seedTasks(t, svc.Service, "projects", "Essay", "Lab report")
	m := loadReadyModel(t, NewModel(svc))
	before := svc.Snapshot()

	m = applyMsg(t, m, keyRune('m'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.drag.Active() {
		t.Fatal("expected task drag finished")
	}
	if m.status != "dropped in place" {
		t.Fatalf("unexpected status %q", m.status)
	}
	m = applyMsg(t, m, keyRune('M'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.drag.Active() {
		t.Fatal("expected column drag finished")
	}

	if len(svc.drops) != 2 {
		t.Fatalf("expected 2 drops applied, got %d", len(svc.drops))
	}
	if svc.drops[0].Kind != domain.DropKindTask || svc.drops[1].Kind != domain.DropKindColumn {
		t.Fatalf("unexpected drop kinds %q %q", svc.drops[0].Kind, svc.drops[1].Kind)
	}
	for _, ev := range svc.drops {
		if ev.Destination == nil || *ev.Destination != ev.Source {
			t.Fatalf("expected drop at its source, got %#v", ev)
		}
	}
	after := svc.Snapshot()
	if !slices.Equal(columnIDs(after), columnIDs(before)) {
		t.Fatalf("expected column order unchanged, got %v", columnIDs(after))
	}
	if !slices.Equal(taskTexts(after, "projects"), taskTexts(before, "projects")) {
		t.Fatalf("expected tasks unchanged, got %v", taskTexts(after, "projects"))
	}
}

func TestModelKeyboardColumnDrag(t *testing.T) {
	svc := newTestService(t)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('M'))
	if m.drag.Kind() != domain.DropKindColumn {
		t.Fatalf("expected column drag, got %q", m.drag.Kind())
	}
	m = applyMsg(t, m, keyRune('l'))
	m = applyMsg(t, m, keyRune('l'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	want := []string{"assignments", "tests-quizzes", "projects", "other"}
	if got := columnIDs(svc.Snapshot()); !slices.Equal(got, want) {
		t.Fatalf("unexpected column order %v", got)
	}
	if m.selectedColumn != 2 {
		t.Fatalf("expected selection to follow column, got %d", m.selectedColumn)
	}
}

func TestModelAddAndRenameColumn(t *testing.T) {
	svc := newTestService(t)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('N'))
	if m.mode != modeAddColumn {
		t.Fatalf("expected add column mode, got %v", m.mode)
	}
	m = typeText(t, m, "Done")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeNone {
		t.Fatalf("expected modal closed, got %v", m.mode)
	}
	b := svc.Snapshot()
	if len(b.Columns) != 5 || b.Columns[4].ID != "done" {
		t.Fatalf("unexpected columns %v", columnIDs(b))
	}
	if m.selectedColumn != 4 {
		t.Fatalf("expected new column selected, got %d", m.selectedColumn)
	}

	m = applyMsg(t, m, keyRune('e'))
	if m.input.Value() != "Done" {
		t.Fatalf("expected rename input prefilled, got %q", m.input.Value())
	}
	for range len("Done") {
		m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyBackspace})
	}
	m = typeText(t, m, "Shipped")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if col, _ := svc.Snapshot().Column("done"); col.Title != "Shipped" {
		t.Fatalf("unexpected title %q", col.Title)
	}

	m = applyMsg(t, m, keyRune('N'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if len(svc.Snapshot().Columns) != 5 {
		t.Fatal("expected blank column title to be ignored")
	}
	if m.status != "empty title ignored" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestModelTaskInfoRendersMarkdown(t *testing.T) {
	svc := newTestService(t)
	seedTasks(t, svc, "projects", "**Essay** on _tides_")
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('i'))
	if m.mode != modeTaskInfo || m.taskInfoTaskID != "t1" {
		t.Fatalf("expected task info for t1, mode=%v id=%q", m.mode, m.taskInfoTaskID)
	}
	out := m.renderContent()
	if !strings.Contains(out, "Task Info") || !strings.Contains(out, "Essay") {
		t.Fatalf("expected task info overlay, got %q", out)
	}
	if strings.Contains(out, "**Essay**") {
		t.Fatal("expected markdown to be rendered")
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNone {
		t.Fatalf("expected task info closed, got %v", m.mode)
	}
}

func TestModelActivityLog(t *testing.T) {
	svc := newTestService(t)
	seedTasks(t, svc, "projects", "Essay")
	m := loadReadyModel(t, NewModel(svc, WithActivityLimit(5)))

	m = applyMsg(t, m, keyRune('g'))
	if m.mode != modeActivityLog {
		t.Fatalf("expected activity log mode, got %v", m.mode)
	}
	if len(m.activityLog) != 1 || m.activityLog[0].Summary != "add task" || m.activityLog[0].Target != "t1" {
		t.Fatalf("unexpected activity %#v", m.activityLog)
	}
	if !strings.Contains(m.renderContent(), "Activity Log") {
		t.Fatal("expected activity overlay")
	}
	m = applyMsg(t, m, keyRune('g'))
	if m.mode != modeNone {
		t.Fatalf("expected activity log closed, got %v", m.mode)
	}
}

func TestModelResetRequiresConfirmation(t *testing.T) {
	svc := newTestService(t)
	seedTasks(t, svc, "projects", "Essay")
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('R'))
	m = applyMsg(t, m, keyRune('n'))
	if svc.Snapshot().TaskCount() != 1 {
		t.Fatal("expected reset cancelled")
	}
	m = applyMsg(t, m, keyRune('R'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if svc.Snapshot().TaskCount() != 0 || m.board.TaskCount() != 0 {
		t.Fatal("expected board reset")
	}
	if m.status != "board reset" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestModelMouseTaskDrag(t *testing.T) {
	svc := newTestService(t)
	seedTasks(t, svc, "projects", "Essay", "Lab report")
	m := loadReadyModel(t, NewModel(svc))

	span := m.columnSpan()
	firstRow := m.boardTop() + columnChromeTop + 1
	m = applyMsg(t, m, tea.MouseClickMsg{X: 2, Y: firstRow + 1, Button: tea.MouseLeft})
	if !m.drag.Active() || m.drag.DraggableID() != "t2" {
		t.Fatalf("expected mouse drag of t2, active=%v id=%q", m.drag.Active(), m.drag.DraggableID())
	}
	m = applyMsg(t, m, tea.MouseMotionMsg{X: span + 2, Y: firstRow, Button: tea.MouseLeft})
	if _, dst, _ := m.drag.Preview(); dst.ContainerID != "assignments" {
		t.Fatalf("expected hover over assignments, got %#v", dst)
	}
	m = applyMsg(t, m, tea.MouseReleaseMsg{X: span + 2, Y: firstRow, Button: tea.MouseLeft})
	if m.drag.Active() {
		t.Fatal("expected drag dropped")
	}
	b := svc.Snapshot()
	if got := taskTexts(b, "assignments"); !slices.Equal(got, []string{"Lab report"}) {
		t.Fatalf("unexpected assignments %v", got)
	}
	if got := taskTexts(b, "projects"); !slices.Equal(got, []string{"Essay"}) {
		t.Fatalf("unexpected projects %v", got)
	}
}

func TestModelMouseColumnDragAndOffBoardCancel(t *testing.T) {
	svc := newTestService(t)
	m := loadReadyModel(t, NewModel(svc))

	span := m.columnSpan()
	titleRow := m.boardTop() + columnChromeTop
	m = applyMsg(t, m, tea.MouseClickMsg{X: 2, Y: titleRow, Button: tea.MouseLeft})
	if m.drag.Kind() != domain.DropKindColumn {
		t.Fatalf("expected column drag, got %q", m.drag.Kind())
	}
	m = applyMsg(t, m, tea.MouseReleaseMsg{X: 3*span + 2, Y: titleRow, Button: tea.MouseLeft})
	want := []string{"assignments", "tests-quizzes", "other", "projects"}
	if got := columnIDs(svc.Snapshot()); !slices.Equal(got, want) {
		t.Fatalf("unexpected column order %v", got)
	}

	m = applyMsg(t, m, tea.MouseClickMsg{X: 2, Y: titleRow, Button: tea.MouseLeft})
	m = applyMsg(t, m, tea.MouseReleaseMsg{X: 2, Y: 0, Button: tea.MouseLeft})
	if m.drag.Active() || m.status != "drag cancelled" {
		t.Fatalf("expected off-board release to cancel, active=%v status=%q", m.drag.Active(), m.status)
	}
	if got := columnIDs(svc.Snapshot()); !slices.Equal(got, want) {
		t.Fatalf("expected order unchanged after cancel, got %v", got)
	}
}

func TestModelMouseWheel(t *testing.T) {
	svc := newTestService(t)
	seedTasks(t, svc, "projects", "Essay", "Lab report")
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, tea.MouseWheelMsg{Button: tea.MouseWheelDown})
	if m.selectedTask != 1 {
		t.Fatalf("expected selectedTask=1 after wheel down, got %d", m.selectedTask)
	}
	m = applyMsg(t, m, tea.MouseWheelMsg{Button: tea.MouseWheelUp})
	if m.selectedTask != 0 {
		t.Fatalf("expected selectedTask=0 after wheel up, got %d", m.selectedTask)
	}
}

func TestModelWhiteboardLifecycleAndDrawing(t *testing.T) {
	svc := newTestService(t)
	canvas := whiteboard.NewCanvas()
	m := NewModel(svc, WithWhiteboard(canvas, 40))
	m = applyCmd(t, m, m.Init())
	m = applyMsg(t, m, tea.WindowSizeMsg{Width: 200, Height: 40})

	if !canvas.Mounted() {
		t.Fatal("expected whiteboard mounted on first layout")
	}
	wantW, wantH := m.canvasSize()
	if w, h := canvas.Size(); w != wantW || h != wantH {
		t.Fatalf("unexpected canvas size %dx%d want %dx%d", w, h, wantW, wantH)
	}

	left := m.whiteboardX() + 1
	top := m.boardTop() + 1
	m = applyMsg(t, m, tea.MouseClickMsg{X: left + 2, Y: top + 1, Button: tea.MouseLeft})
	if m.focus != focusWhiteboard {
		t.Fatal("expected press to focus the whiteboard")
	}
	m = applyMsg(t, m, tea.MouseMotionMsg{X: left + 5, Y: top + 1, Button: tea.MouseLeft})
	m = applyMsg(t, m, tea.MouseReleaseMsg{X: left + 5, Y: top + 1, Button: tea.MouseLeft})
	for x := 2; x <= 5; x++ {
		if !canvas.Painted(x, 1) {
			t.Fatalf("expected cell (%d,1) painted", x)
		}
	}
	if svc.Snapshot().TaskCount() != 0 {
		t.Fatal("expected drawing to leave the board alone")
	}

	m = applyMsg(t, m, keyRune('c'))
	if canvas.Painted(2, 1) {
		t.Fatal("expected c to clear the sketch")
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	if m.focus != focusBoard {
		t.Fatal("expected tab to return focus to the board")
	}

	m = applyMsg(t, m, keyRune('w'))
	if canvas.Mounted() || m.showWhiteboard {
		t.Fatal("expected w to unmount the whiteboard")
	}
	if m.whiteboardWidth() != 0 {
		t.Fatal("expected board to take the full width")
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	if m.focus != focusBoard {
		t.Fatal("expected focus to stay on board while whiteboard hidden")
	}
	m = applyMsg(t, m, keyRune('w'))
	if !canvas.Mounted() {
		t.Fatal("expected w to remount the whiteboard")
	}
	if !strings.Contains(m.renderContent(), "Flow Board") {
		t.Fatal("expected board header in view")
	}
}

func TestModelWithoutWhiteboard(t *testing.T) {
	m := loadReadyModel(t, NewModel(newTestService(t)))
	m = applyMsg(t, m, keyRune('w'))
	if m.status != "whiteboard disabled" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if m.whiteboardWidth() != 0 {
		t.Fatal("expected no whiteboard share")
	}
}

func TestModelViewStates(t *testing.T) {
	svc := newTestService(t)
	m := NewModel(svc)
	v := m.View()
	if v.Content == nil || v.MouseMode != tea.MouseModeCellMotion || !v.AltScreen {
		t.Fatal("expected loading view with mouse and alt screen")
	}
	if m.renderContent() != "loading..." {
		t.Fatalf("unexpected loading content %q", m.renderContent())
	}

	seedTasks(t, svc, "projects", "Essay")
	m = loadReadyModel(t, m)
	out := m.renderContent()
	for _, want := range []string{"Flow Board", "Projects (1)", "Assignments (0)", "Essay", "(empty)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view", want)
		}
	}

	m = applyMsg(t, m, keyRune('?'))
	if !strings.Contains(m.renderContent(), "Flow Board Help") {
		t.Fatal("expected help overlay")
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.help.ShowAll {
		t.Fatal("expected esc to close help")
	}

	m.err = context.DeadlineExceeded
	if !strings.Contains(m.renderContent(), "error: ") {
		t.Fatal("expected error view content")
	}
	m = applyMsg(t, m, keyRune('r'))
	if m.err != nil {
		t.Fatalf("expected reload to clear error, got %v", m.err)
	}
}

func TestModelQuitKey(t *testing.T) {
	m := NewModel(newTestService(t))
	updated, cmd := m.Update(keyRune('q'))
	if updated == nil {
		t.Fatal("expected model return value")
	}
	if cmd == nil {
		t.Fatal("expected quit cmd")
	}
}

func TestMapChangeEventToActivityEntry(t *testing.T) {
	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		event   domain.ChangeEvent
		summary string
		target  string
	}{
		{domain.ChangeEvent{Operation: domain.ChangeOperationAddColumn, ColumnID: "done", Metadata: map[string]string{"title": "Done"}}, "add column", "Done"},
		{domain.ChangeEvent{Operation: domain.ChangeOperationRecolorTask, TaskID: "t1", Metadata: map[string]string{"color": "green"}}, "recolor task green", "t1"},
		{domain.ChangeEvent{Operation: domain.ChangeOperationReorderColumns, ColumnID: "projects"}, "reorder columns", "projects"},
		{domain.ChangeEvent{Operation: domain.ChangeOperationReset}, "reset board", "-"},
	}
	for _, tc := range cases {
		tc.event.OccurredAt = at
		got := mapChangeEventToActivityEntry(tc.event)
		if got.Summary != tc.summary || got.Target != tc.target || !got.At.Equal(at) {
			t.Fatalf("mapChangeEventToActivityEntry(%s) = %#v", tc.event.Operation, got)
		}
	}
}

func TestHelpers(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("truncate() = %q", got)
	}
	if got := truncate("abc", 0); got != "" {
		t.Fatalf("truncate() = %q", got)
	}
	if got := clamp(5, 0, 3); got != 3 {
		t.Fatalf("clamp() = %d", got)
	}
	if got := clamp(5, 2, 1); got != 2 {
		t.Fatalf("clamp() with inverted bounds = %d", got)
	}
	if got := fitLines("a\nb\nc", 2); got != "a\n…" {
		t.Fatalf("fitLines() = %q", got)
	}
	if got := fitLines("a", 3); got != "a\n\n" {
		t.Fatalf("fitLines() pad = %q", got)
	}
	if got := rejectionHint(domain.ErrNotFound); got != "nothing changed" {
		t.Fatalf("rejectionHint() = %q", got)
	}
	r := &markdownRenderer{}
	if got := r.render("   ", 40); got != "" {
		t.Fatalf("render() of blank = %q", got)
	}
}

func loadReadyModel(t *testing.T, m Model) Model {
	t.Helper()
	return applyMsg(t, applyCmd(t, m, m.Init()), tea.WindowSizeMsg{Width: 160, Height: 40})
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return applyCmd(t, out, cmd)
}

func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	out := m
	currentCmd := cmd
	for i := 0; i < 6 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		casted, ok := updated.(Model)
		if !ok {
			t.Fatalf("expected Model, got %T", updated)
		}
		out = casted
		currentCmd = nextCmd
	}
	return out
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = applyMsg(t, m, keyRune(r))
	}
	return m
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}
