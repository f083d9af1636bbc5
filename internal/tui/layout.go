package tui

import (
	"charm.land/lipgloss/v2"
	"github.com/hylla/flowboard/internal/domain"
)

// Screen geometry. Mouse cells are zero-based.
const (
	// boardTopRow is the first row of the column boxes: header, then a spacer.
	boardTopRow = 2
	// columnChromeTop is the top border plus top padding of a column box.
	columnChromeTop = 2
	// columnChromeRows is border and padding above and below column content.
	columnChromeRows = 4
)

// columnStyle is the box every column is rendered in.
func (m Model) columnStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		MarginRight(1).
		Width(width)
}

// columnWidth returns column width.
func (m Model) columnWidth() int {
	return m.columnWidthFor(m.boardWidth())
}

// columnWidthFor returns column width for.
func (m Model) columnWidthFor(boardWidth int) int {
	if len(m.board.Columns) == 0 {
		return 24
	}
	w := 28
	if boardWidth > 0 {
		// Per-column overhead: left/right border (2), horizontal padding (4), margin-right (1)
		const colOverhead = 7
		usable := boardWidth - len(m.board.Columns)*colOverhead
		candidate := usable / len(m.board.Columns)
		if candidate > 0 {
			w = candidate
		}
	}
	return clamp(w, 24, 42)
}

// columnSpan is the number of cells one rendered column occupies, margin
// included. It is measured rather than derived so hit testing matches what
// lipgloss actually draws.
func (m Model) columnSpan() int {
	return lipgloss.Width(m.columnStyle(m.columnWidth()).Render(""))
}

// columnHeight returns column height.
func (m Model) columnHeight() int {
	headerLines := boardTopRow
	footerLines := 3
	return max(8, m.height-headerLines-footerLines)
}

// boardTop returns the row of the top border of the column boxes.
func (m Model) boardTop() int {
	return boardTopRow
}

// boardWidth is the share of the terminal left for columns.
func (m Model) boardWidth() int {
	return max(0, m.width-m.whiteboardWidth())
}

func (m Model) whiteboardWidth() int {
	if m.whiteboard == nil || !m.showWhiteboard {
		return 0
	}
	return m.width * m.whiteboardPercent / 100
}

// whiteboardX is the column of the whiteboard's left border.
func (m Model) whiteboardX() int {
	return max(m.boardWidth(), len(m.board.Columns)*m.columnSpan())
}

// canvasSize is the region size inside the whiteboard frame.
func (m Model) canvasSize() (int, int) {
	return max(1, m.whiteboardWidth()-2), max(1, m.columnHeight()-2)
}

// canvasPoint maps a screen cell to region coordinates. ok reports whether
// the cell lies inside the whiteboard frame.
func (m Model) canvasPoint(x, y int) (cx, cy int, ok bool) {
	if !m.whiteboardVisible() {
		return 0, 0, false
	}
	left := m.whiteboardX()
	cx = x - left - 1
	cy = y - m.boardTop() - 1
	w, h := m.canvasSize()
	ok = x >= left && x < left+w+2 && y >= m.boardTop() && y < m.boardTop()+h+2
	return cx, cy, ok
}

// displayBoard is the board as drawn: the provisional layout of an active
// drag, otherwise the loaded snapshot.
func (m Model) displayBoard() domain.Board {
	src, dst, ok := m.drag.Preview()
	if !ok {
		return m.board
	}
	if m.drag.Kind() == domain.DropKindColumn {
		return m.board.ReorderColumns(src.Index, dst.Index)
	}
	preview, err := m.board.MoveTask(src.ContainerID, src.Index, dst.ContainerID, dst.Index)
	if err != nil {
		return m.board
	}
	return preview
}

// highlight returns the column and task drawn as selected. While dragging
// this follows the provisional destination; task is -1 for column drags.
func (m Model) highlight() (int, int) {
	_, dst, ok := m.drag.Preview()
	if !ok {
		return m.selectedColumn, m.selectedTask
	}
	if m.drag.Kind() == domain.DropKindColumn {
		return dst.Index, -1
	}
	return m.board.ColumnIndex(dst.ContainerID), dst.Index
}

// taskScrollTop is the first visible task of column colIdx. Only the
// highlighted column scrolls.
func (m Model) taskScrollTop(colIdx, total, window int) int {
	selCol, selTask := m.highlight()
	if colIdx != selCol || selTask < window {
		return 0
	}
	return clamp(selTask-window+1, 0, max(0, total-window))
}

// boardHit is the result of mapping a screen cell onto the board.
type boardHit struct {
	column  int
	task    int
	onTitle bool
}

// hitTest maps a screen cell to a column and a task slot of the drawn board.
// task is -1 on the title row and chrome; it may point one past the last task.
func (m Model) hitTest(x, y int) (boardHit, bool) {
	n := len(m.board.Columns)
	span := m.columnSpan()
	if n == 0 || span <= 0 || x < 0 || x >= n*span {
		return boardHit{}, false
	}
	top := m.boardTop()
	if y < top || y >= top+m.columnHeight() {
		return boardHit{}, false
	}
	hit := boardHit{column: x / span, task: -1}
	row := y - top - columnChromeTop
	switch {
	case row == 0:
		hit.onTitle = true
	case row > 0:
		board := m.displayBoard()
		window := max(1, m.columnHeight()-columnChromeRows-1)
		count := len(board.Columns[hit.column].Tasks)
		hit.task = m.taskScrollTop(hit.column, count, window) + row - 1
	}
	return hit, true
}
