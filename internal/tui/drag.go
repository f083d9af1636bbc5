package tui

import (
	"context"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/hylla/flowboard/internal/domain"
)

// pickUpSelectedTask starts a keyboard drag of the selected task.
func (m Model) pickUpSelectedTask() (tea.Model, tea.Cmd) {
	col, ok := m.currentColumn()
	if !ok {
		m.status = "no task to drag"
		return m, nil
	}
	if err := m.drag.PickUpTask(m.board, col.ID, m.selectedTask); err != nil {
		m.status = "no task to drag"
		return m, nil
	}
	m.status = "dragging task • enter drop • esc cancel"
	return m, nil
}

// pickUpSelectedColumn starts a keyboard drag of the selected column.
func (m Model) pickUpSelectedColumn() (tea.Model, tea.Cmd) {
	if err := m.drag.PickUpColumn(m.board, m.selectedColumn); err != nil {
		m.status = "no column to drag"
		return m, nil
	}
	m.status = "dragging column • enter drop • esc cancel"
	return m, nil
}

// handleDragKey moves the provisional destination of the active gesture.
func (m Model) handleDragKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.moveLeft):
		m.drag.MoveLeft()
	case key.Matches(msg, m.keys.moveRight):
		m.drag.MoveRight()
	case key.Matches(msg, m.keys.moveUp):
		if m.drag.Kind() == domain.DropKindTask {
			m.drag.MoveUp()
		}
	case key.Matches(msg, m.keys.moveDown):
		if m.drag.Kind() == domain.DropKindTask {
			m.drag.MoveDown()
		}
	case key.Matches(msg, m.keys.drop):
		return m.finishDrag()
	case key.Matches(msg, m.keys.cancel):
		return m.cancelDrag()
	}
	return m, nil
}

// finishDrag drops the active gesture at its provisional destination.
func (m Model) finishDrag() (tea.Model, tea.Cmd) {
	m.mouseDrag = false
	ev, err := m.drag.Drop()
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	if ev.Kind == domain.DropKindColumn {
		m.selectedColumn = ev.Destination.Index
		m.selectedTask = 0
		m.pendingColumnID = ev.DraggableID
	} else {
		m.pendingTaskID = ev.DraggableID
	}
	return m, m.applyDropCmd(ev, dropStatus(ev))
}

// cancelDrag ends the gesture without a destination.
func (m Model) cancelDrag() (tea.Model, tea.Cmd) {
	m.mouseDrag = false
	ev, err := m.drag.Cancel()
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	return m, m.applyDropCmd(ev, "drag cancelled")
}

func (m Model) applyDropCmd(ev domain.DropEvent, status string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.svc.ApplyDrop(context.Background(), ev); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: status, reload: true}
	}
}

func dropStatus(ev domain.DropEvent) string {
	if ev.Destination != nil && *ev.Destination == ev.Source {
		return "dropped in place"
	}
	if ev.Kind == domain.DropKindColumn {
		return "column moved"
	}
	if ev.Destination != nil && ev.Destination.ContainerID != ev.Source.ContainerID {
		return "task moved to " + ev.Destination.ContainerID
	}
	return "task reordered"
}

// hoverAt points the active gesture at the slot under hit.
func (m *Model) hoverAt(hit boardHit) {
	if m.drag.Kind() == domain.DropKindColumn {
		m.drag.HoverAt(domain.ColumnsContainerID, hit.column)
		return
	}
	m.drag.HoverAt(m.board.Columns[hit.column].ID, max(0, hit.task))
}

// handleMouseWheel handles mouse wheel.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll || m.mode != modeNone || m.drag.Active() || m.focus != focusBoard {
		return m, nil
	}
	col, ok := m.currentColumn()
	if !ok || len(col.Tasks) == 0 {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseWheelUp:
		if m.selectedTask > 0 {
			m.selectedTask--
		}
	case tea.MouseWheelDown:
		if m.selectedTask < len(col.Tasks)-1 {
			m.selectedTask++
		}
	}
	return m, nil
}

// handleMouseClick selects under the pointer and starts a drag: a task row
// picks up the task, a column title picks up the column. Presses inside the
// whiteboard start a stroke.
func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll || m.mode != modeNone || msg.Button != tea.MouseLeft {
		return m, nil
	}
	if x, y, ok := m.canvasPoint(msg.X, msg.Y); ok {
		m.focus = focusWhiteboard
		m.whiteboard.HandleMouse(x, y, true)
		return m, nil
	}
	if m.drag.Active() {
		return m, nil
	}
	hit, ok := m.hitTest(msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	m.focus = focusBoard
	m.selectedColumn = hit.column
	m.selectedTask = 0
	col := m.board.Columns[hit.column]
	switch {
	case hit.onTitle:
		if err := m.drag.PickUpColumn(m.board, hit.column); err == nil {
			m.mouseDrag = true
			m.status = "dragging column"
		}
	case hit.task >= 0 && hit.task < len(col.Tasks):
		m.selectedTask = hit.task
		if err := m.drag.PickUpTask(m.board, col.ID, hit.task); err == nil {
			m.mouseDrag = true
			m.status = "dragging task"
		}
	}
	return m, nil
}

// handleMouseMotion tracks a pointer drag or continues a whiteboard stroke.
func (m Model) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	if m.mouseDrag && m.drag.Active() {
		if hit, ok := m.hitTest(msg.X, msg.Y); ok {
			m.hoverAt(hit)
		}
		return m, nil
	}
	if m.focus == focusWhiteboard && msg.Button == tea.MouseLeft && m.whiteboardVisible() {
		// Strokes leaving the frame are ended by the region itself.
		x, y, _ := m.canvasPoint(msg.X, msg.Y)
		m.whiteboard.HandleMouse(x, y, true)
	}
	return m, nil
}

// handleMouseRelease drops a pointer drag over the column under the pointer,
// or cancels it when released off the board.
func (m Model) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	if m.mouseDrag && m.drag.Active() {
		hit, ok := m.hitTest(msg.X, msg.Y)
		if !ok {
			return m.cancelDrag()
		}
		m.hoverAt(hit)
		return m.finishDrag()
	}
	if m.focus == focusWhiteboard && m.whiteboardVisible() {
		x, y, _ := m.canvasPoint(msg.X, msg.Y)
		m.whiteboard.HandleMouse(x, y, false)
	}
	return m, nil
}
