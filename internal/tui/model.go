package tui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/hylla/flowboard/internal/app"
	"github.com/hylla/flowboard/internal/dnd"
	"github.com/hylla/flowboard/internal/domain"
	"github.com/hylla/flowboard/internal/whiteboard"
)

// Service is the board surface the terminal view drives.
type Service interface {
	Snapshot() domain.Board
	ListChangeEvents(context.Context, int) ([]domain.ChangeEvent, error)
	AddTask(context.Context, string, string) (domain.Board, string, error)
	DeleteTask(context.Context, string, string) (domain.Board, error)
	RecolorTask(context.Context, string, string, domain.Color) (domain.Board, error)
	AddColumn(context.Context, string) (domain.Board, string, error)
	RenameColumn(context.Context, string, string) (domain.Board, error)
	ApplyDrop(context.Context, domain.DropEvent) (domain.Board, error)
	Reset(context.Context) (domain.Board, error)
}

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeAddTask
	modeAddColumn
	modeRenameColumn
	modeTaskInfo
	modeActivityLog
	modeConfirmReset
)

// focusArea selects which region receives keyboard and pointer input.
type focusArea int

const (
	focusBoard focusArea = iota
	focusWhiteboard
)

const (
	defaultActivityLimit  = 200
	activityLogViewWindow = 14

	taskTextLimit    = 500
	columnTitleLimit = 60

	defaultWhiteboardPercent = 40
	minWhiteboardPercent     = 10
	maxWhiteboardPercent     = 90
)

// activityEntry is one row of the activity overlay.
type activityEntry struct {
	At      time.Time
	Summary string
	Target  string
}

// Model is the bubbletea model for the board view.
type Model struct {
	svc Service

	ready  bool
	width  int
	height int
	err    error
	status string

	help help.Model
	keys keyMap

	mode  inputMode
	input textinput.Model
	focus focusArea

	board          domain.Board
	selectedColumn int
	selectedTask   int

	pendingColumnID string
	pendingTaskID   string
	renameColumnID  string
	taskInfoTaskID  string

	activityLog   []activityEntry
	activityLimit int

	drag      dnd.Tracker
	mouseDrag bool

	whiteboard        whiteboard.Region
	whiteboardPercent int
	showWhiteboard    bool

	palette  Palette
	markdown *markdownRenderer
	copyText func(string) error
}

// loadedMsg carries message data through update handling.
type loadedMsg struct {
	board domain.Board
}

// actionMsg carries message data through update handling.
type actionMsg struct {
	err           error
	status        string
	reload        bool
	focusColumnID string
	focusTaskID   string
}

// activityLogLoadedMsg carries ledger entries for the activity overlay.
type activityLogLoadedMsg struct {
	entries []activityEntry
	err     error
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		svc:               svc,
		status:            "loading...",
		help:              h,
		keys:              newKeyMap(),
		activityLog:       []activityEntry{},
		activityLimit:     defaultActivityLimit,
		whiteboardPercent: defaultWhiteboardPercent,
		palette:           DefaultPalette(),
		markdown:          &markdownRenderer{},
		copyText:          clipboard.WriteAll,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadData
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		m.syncWhiteboard()
		return m, nil

	case loadedMsg:
		m.err = nil
		m.board = msg.board
		switch {
		case m.pendingTaskID != "":
			m.focusTaskByID(m.pendingTaskID)
		case m.pendingColumnID != "":
			if idx := m.board.ColumnIndex(m.pendingColumnID); idx >= 0 {
				m.selectedColumn = idx
				m.selectedTask = 0
			}
		}
		m.pendingTaskID = ""
		m.pendingColumnID = ""
		m.clampSelections()
		if m.status == "" || m.status == "loading..." {
			m.status = "ready"
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			if app.IsRejection(msg.err) {
				// Rejected edits leave the board as it was.
				m.status = rejectionHint(msg.err)
				return m, nil
			}
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.status != "" {
			m.status = msg.status
		}
		if msg.focusTaskID != "" {
			m.pendingTaskID = msg.focusTaskID
		}
		if msg.focusColumnID != "" {
			m.pendingColumnID = msg.focusColumnID
		}
		if msg.reload {
			return m, m.loadData
		}
		return m, nil

	case activityLogLoadedMsg:
		if msg.err != nil {
			if m.mode == modeActivityLog {
				m.status = "activity log unavailable: " + msg.err.Error()
			}
			return m, nil
		}
		m.activityLog = append([]activityEntry(nil), msg.entries...)
		return m, nil

	case tea.KeyPressMsg:
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)

	case tea.MouseMotionMsg:
		return m.handleMouseMotion(msg)

	case tea.MouseReleaseMsg:
		return m.handleMouseRelease(msg)

	default:
		return m, nil
	}
}

// View handles view.
func (m Model) View() tea.View {
	view := tea.NewView(m.renderContent())
	view.MouseMode = tea.MouseModeCellMotion
	view.AltScreen = true
	return view
}

// renderContent builds the full frame as a string.
func (m Model) renderContent() string {
	if m.err != nil {
		return "error: " + m.err.Error() + "\n\npress r to retry • q quit\n"
	}
	if !m.ready {
		return "loading..."
	}

	accent := lipgloss.Color(m.palette.Accent)
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	header := titleStyle.Render("Flow Board")
	header += statusStyle.Render("  [" + m.modeLabel() + "]")
	if total := m.board.TaskCount(); total > 0 {
		header += statusStyle.Render(fmt.Sprintf("  %d tasks", total))
	}

	body := m.renderBoard(accent, muted, dim)
	if m.whiteboardVisible() {
		body = lipgloss.JoinHorizontal(
			lipgloss.Top,
			lipgloss.PlaceHorizontal(m.whiteboardX(), lipgloss.Left, body),
			m.renderWhiteboard(accent, dim),
		)
	}

	sections := []string{header, "", body}
	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	var bindings help.KeyMap = m.keys
	if m.drag.Active() {
		bindings = dragHelp{keys: m.keys}
	}
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(bindings))

	if m.height > 0 {
		helpHeight := lipgloss.Height(helpLine)
		content = fitLines(content, max(0, m.height-helpHeight))
	}
	fullContent := content + "\n" + helpLine

	overlay := m.renderModeOverlay(accent, muted, m.width-8)
	if m.help.ShowAll {
		overlay = m.renderHelpOverlay(accent, muted, dim, m.width-8)
	}
	if overlay != "" {
		overlayHeight := lipgloss.Height(fullContent)
		if m.height > 0 {
			overlayHeight = m.height
		}
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, overlayHeight))
	}
	return fullContent
}

// renderBoard draws the columns, showing the provisional layout while a drag
// is in progress.
func (m Model) renderBoard(accent, muted, dim color.Color) string {
	board := m.displayBoard()
	if len(board.Columns) == 0 {
		return lipgloss.NewStyle().Foreground(muted).Render("No columns yet. Press N to add one.")
	}

	colWidth := m.columnWidth()
	innerHeight := max(1, m.columnHeight()-columnChromeRows)
	baseColStyle := m.columnStyle(colWidth).BorderForeground(dim)
	selColStyle := baseColStyle.BorderForeground(accent)
	dragColStyle := baseColStyle.BorderForeground(lipgloss.Color("212"))
	colTitle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	selectedTaskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	draggedTaskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true).Underline(true)

	selCol, selTask := m.highlight()
	draggedID := m.drag.DraggableID()
	columnViews := make([]string, 0, len(board.Columns))
	for colIdx, column := range board.Columns {
		title := truncate(fmt.Sprintf("%s (%d)", column.Title, len(column.Tasks)), colWidth)
		if m.drag.Kind() == domain.DropKindColumn && column.ID == draggedID {
			title = "▸ " + truncate(fmt.Sprintf("%s (%d)", column.Title, len(column.Tasks)), max(1, colWidth-2))
		}
		lines := []string{colTitle.Render(title)}

		taskLines := make([]string, 0, len(column.Tasks))
		if len(column.Tasks) == 0 {
			taskLines = append(taskLines, emptyStyle.Render("(empty)"))
		}
		for taskIdx, task := range column.Tasks {
			selected := colIdx == selCol && taskIdx == selTask
			dragged := m.drag.Kind() == domain.DropKindTask && task.ID == draggedID
			prefix := "   "
			if selected {
				prefix = "│  "
			}
			text := truncate(task.Text, max(1, colWidth-5))
			marker := lipgloss.NewStyle().Foreground(m.taskColor(task.Color)).Render("●")
			switch {
			case dragged:
				taskLines = append(taskLines, draggedTaskStyle.Render(prefix)+marker+" "+draggedTaskStyle.Render(text))
			case selected:
				taskLines = append(taskLines, selectedTaskStyle.Render(prefix)+marker+" "+selectedTaskStyle.Render(text))
			default:
				taskLines = append(taskLines, prefix+marker+" "+text)
			}
		}

		window := max(1, innerHeight-len(lines))
		top := m.taskScrollTop(colIdx, len(column.Tasks), window)
		if len(taskLines) > window {
			taskLines = taskLines[top:min(len(taskLines), top+window)]
		}
		lines = append(lines, taskLines...)
		content := fitLines(strings.Join(lines, "\n"), innerHeight)

		switch {
		case m.drag.Kind() == domain.DropKindColumn && column.ID == draggedID:
			columnViews = append(columnViews, dragColStyle.Render(content))
		case colIdx == selCol && m.focus == focusBoard:
			columnViews = append(columnViews, selColStyle.Render(content))
		default:
			columnViews = append(columnViews, baseColStyle.Render(content))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columnViews...)
}

// renderWhiteboard frames the hosted region.
func (m Model) renderWhiteboard(accent, dim color.Color) string {
	border := dim
	if m.focus == focusWhiteboard {
		border = accent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(m.whiteboard.View())
}

// renderModeOverlay renders the modal for the active input mode.
func (m Model) renderModeOverlay(accent, muted color.Color, maxWidth int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle := lipgloss.NewStyle().Foreground(muted)
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)

	switch m.mode {
	case modeAddTask, modeAddColumn, modeRenameColumn:
		if maxWidth > 0 {
			boxStyle = boxStyle.Width(clamp(maxWidth, 32, 64))
		}
		title := "New Column"
		switch m.mode {
		case modeAddTask:
			title = "New Task"
			if col, ok := m.currentColumn(); ok {
				title += " in " + col.Title
			}
		case modeRenameColumn:
			title = "Rename Column"
		}
		lines := []string{
			titleStyle.Render(title),
			m.input.View(),
			hintStyle.Render(m.modePrompt()),
		}
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeConfirmReset:
		if maxWidth > 0 {
			boxStyle = boxStyle.Width(clamp(maxWidth, 32, 56))
		}
		lines := []string{
			titleStyle.Render("Reset Board"),
			"Restore the starting columns and drop every task?",
			hintStyle.Render(m.modePrompt()),
		}
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeActivityLog:
		if maxWidth > 0 {
			boxStyle = boxStyle.Width(clamp(maxWidth, 44, 96))
		}
		lines := []string{titleStyle.Render("Activity Log")}
		if len(m.activityLog) == 0 {
			lines = append(lines, hintStyle.Render("(no activity yet)"))
		} else {
			rendered := 0
			for idx := len(m.activityLog) - 1; idx >= 0; idx-- {
				entry := m.activityLog[idx]
				lines = append(lines, fmt.Sprintf("%s  %s • %s", formatActivityTimestamp(entry.At), entry.Summary, truncate(entry.Target, 42)))
				rendered++
				if rendered >= activityLogViewWindow {
					break
				}
			}
		}
		lines = append(lines, hintStyle.Render(m.modePrompt()))
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeTaskInfo:
		task, ok := m.taskInfoTask()
		if !ok {
			return ""
		}
		width := 76
		if maxWidth > 0 {
			width = clamp(maxWidth, 32, 76)
			boxStyle = boxStyle.Width(width)
		}
		marker := lipgloss.NewStyle().Foreground(m.taskColor(task.Color)).Render("●")
		lines := []string{
			titleStyle.Render("Task Info"),
			hintStyle.Render("id: "+task.ID) + "  " + marker + " " + hintStyle.Render(string(task.Color)),
			"",
			m.markdown.render(task.Text, width-4),
			"",
			hintStyle.Render(m.modePrompt()),
		}
		return boxStyle.Render(strings.Join(lines, "\n"))

	default:
		return ""
	}
}

// renderHelpOverlay renders the full key reference.
func (m Model) renderHelpOverlay(accent, muted, dim color.Color, maxWidth int) string {
	width := clamp(maxWidth, 56, 100)
	hb := m.help
	hb.ShowAll = true
	hb.SetWidth(width - 4)

	title := lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Flow Board Help")
	workflow := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Workflows"),
		"1. n add task to the selected column  •  N add column  •  e rename column",
		"2. 1/2/3 recolor green/red/blue  •  d delete  •  y copy text  •  i task info",
		"3. m drag task / M drag column  •  h/j/k/l move  •  enter drop  •  esc cancel",
		"4. mouse: press a task or column title, release over the target column",
		"5. w toggle whiteboard  •  tab switch focus  •  c clear sketch",
		"6. g activity log  •  R reset board",
	}
	lines := []string{
		title,
		"",
		hb.View(m.keys),
		"",
		lipgloss.NewStyle().Foreground(muted).Render(strings.Join(workflow, "\n")),
		lipgloss.NewStyle().Foreground(muted).Render("press ? or esc to close"),
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1)
	if maxWidth > 0 {
		style = style.Width(width)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// loadData loads required data for the current operation.
func (m Model) loadData() tea.Msg {
	return loadedMsg{board: m.svc.Snapshot()}
}

// loadActivityLog loads ledger entries for the activity overlay.
func (m Model) loadActivityLog() tea.Msg {
	events, err := m.svc.ListChangeEvents(context.Background(), m.activityLimit)
	if err != nil {
		return activityLogLoadedMsg{err: err}
	}
	entries := make([]activityEntry, 0, len(events))
	for _, event := range events {
		entries = append(entries, mapChangeEventToActivityEntry(event))
	}
	return activityLogLoadedMsg{entries: entries}
}

// openActivityLog enters activity-log mode and triggers the ledger fetch.
func (m *Model) openActivityLog() tea.Cmd {
	m.mode = modeActivityLog
	m.status = "activity log"
	return m.loadActivityLog
}

// mapChangeEventToActivityEntry derives a compact activity row from one ledger event.
func mapChangeEventToActivityEntry(event domain.ChangeEvent) activityEntry {
	summary := "update board"
	switch event.Operation {
	case domain.ChangeOperationAddTask:
		summary = "add task"
	case domain.ChangeOperationDeleteTask:
		summary = "delete task"
	case domain.ChangeOperationMoveTask:
		summary = "move task"
	case domain.ChangeOperationRecolorTask:
		summary = "recolor task " + event.Metadata["color"]
	case domain.ChangeOperationAddColumn:
		summary = "add column"
	case domain.ChangeOperationRenameColumn:
		summary = "rename column"
	case domain.ChangeOperationReorderColumns:
		summary = "reorder columns"
	case domain.ChangeOperationReset:
		summary = "reset board"
	case domain.ChangeOperationImport:
		summary = "import board"
	}
	target := strings.TrimSpace(event.Metadata["title"])
	if target == "" {
		target = strings.TrimSpace(event.TaskID)
	}
	if target == "" {
		target = strings.TrimSpace(event.ColumnID)
	}
	if target == "" {
		target = "-"
	}
	return activityEntry{
		At:      event.OccurredAt.UTC(),
		Summary: strings.TrimSpace(summary),
		Target:  target,
	}
}

// newModalInput constructs modal input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// startInput opens a text modal for mode.
func (m *Model) startInput(mode inputMode, prompt, placeholder, value string, limit int) tea.Cmd {
	m.mode = mode
	m.input = newModalInput(prompt, placeholder, value, limit)
	m.status = m.modeLabel()
	return m.input.Focus()
}

// handleNormalModeKey handles keys while no modal is open.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.drag.Active() {
		return m.handleDragKey(msg)
	}
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		if m.help.ShowAll {
			m.status = "help"
		} else {
			m.status = "ready"
		}
		return m, nil
	case msg.String() == "esc":
		if m.help.ShowAll {
			m.help.ShowAll = false
			m.status = "ready"
			return m, nil
		}
		if m.focus == focusWhiteboard {
			m.focus = focusBoard
			m.status = "board"
		}
		return m, nil
	case key.Matches(msg, m.keys.toggleWhiteboard):
		return m.toggleWhiteboard()
	case key.Matches(msg, m.keys.switchFocus):
		if !m.whiteboardVisible() {
			m.status = "whiteboard hidden"
			return m, nil
		}
		if m.focus == focusBoard {
			m.focus = focusWhiteboard
			m.status = "whiteboard"
		} else {
			m.focus = focusBoard
			m.status = "board"
		}
		return m, nil
	}

	if m.focus == focusWhiteboard {
		if key.Matches(msg, m.keys.clearWhiteboard) && m.whiteboardVisible() {
			m.whiteboard.Clear()
			m.status = "sketch cleared"
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.reload):
		m.status = "reloading..."
		return m, m.loadData
	case key.Matches(msg, m.keys.moveLeft):
		if m.selectedColumn > 0 {
			m.selectedColumn--
			m.selectedTask = 0
		}
		return m, nil
	case key.Matches(msg, m.keys.moveRight):
		if m.selectedColumn < len(m.board.Columns)-1 {
			m.selectedColumn++
			m.selectedTask = 0
		}
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		if col, ok := m.currentColumn(); ok && m.selectedTask < len(col.Tasks)-1 {
			m.selectedTask++
		}
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		if m.selectedTask > 0 {
			m.selectedTask--
		}
		return m, nil
	case key.Matches(msg, m.keys.addTask):
		if _, ok := m.currentColumn(); !ok {
			m.status = "add a column first"
			return m, nil
		}
		return m, m.startInput(modeAddTask, "task: ", "what needs doing?", "", taskTextLimit)
	case key.Matches(msg, m.keys.addColumn):
		return m, m.startInput(modeAddColumn, "title: ", "column title", "", columnTitleLimit)
	case key.Matches(msg, m.keys.renameColumn):
		col, ok := m.currentColumn()
		if !ok {
			m.status = "no column selected"
			return m, nil
		}
		m.renameColumnID = col.ID
		return m, m.startInput(modeRenameColumn, "title: ", "column title", col.Title, columnTitleLimit)
	case key.Matches(msg, m.keys.taskInfo):
		task, ok := m.selectedTaskInCurrentColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		m.mode = modeTaskInfo
		m.taskInfoTaskID = task.ID
		m.status = "task info"
		return m, nil
	case key.Matches(msg, m.keys.deleteTask):
		return m.deleteSelectedTask()
	case key.Matches(msg, m.keys.colorGreen):
		return m.recolorSelectedTask(domain.ColorGreen)
	case key.Matches(msg, m.keys.colorRed):
		return m.recolorSelectedTask(domain.ColorRed)
	case key.Matches(msg, m.keys.colorBlue):
		return m.recolorSelectedTask(domain.ColorBlue)
	case key.Matches(msg, m.keys.copyTask):
		task, ok := m.selectedTaskInCurrentColumn()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		return m.copyTaskText(task)
	case key.Matches(msg, m.keys.pickUpTask):
		return m.pickUpSelectedTask()
	case key.Matches(msg, m.keys.pickUpColumn):
		return m.pickUpSelectedColumn()
	case key.Matches(msg, m.keys.activityLog):
		return m, m.openActivityLog()
	case key.Matches(msg, m.keys.resetBoard):
		m.mode = modeConfirmReset
		m.status = "confirm reset"
		return m, nil
	default:
		return m, nil
	}
}

// handleInputModeKey handles keys while a modal is open.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeActivityLog:
		if msg.String() == "esc" || key.Matches(msg, m.keys.activityLog) {
			m.mode = modeNone
			m.status = "ready"
		}
		return m, nil

	case modeTaskInfo:
		switch {
		case msg.String() == "esc" || key.Matches(msg, m.keys.taskInfo):
			m.mode = modeNone
			m.taskInfoTaskID = ""
			m.status = "ready"
			return m, nil
		case key.Matches(msg, m.keys.copyTask):
			task, ok := m.taskInfoTask()
			if !ok {
				return m, nil
			}
			return m.copyTaskText(task)
		}
		return m, nil

	case modeConfirmReset:
		switch msg.String() {
		case "esc", "n":
			m.mode = modeNone
			m.status = "reset cancelled"
			return m, nil
		case "enter", "y":
			m.mode = modeNone
			m.selectedColumn = 0
			m.selectedTask = 0
			return m, m.resetBoardCmd()
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.renameColumnID = ""
		m.input.Blur()
		m.status = "cancelled"
		return m, nil
	case "enter":
		return m.submitInputMode()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitInputMode applies the value of the open text modal.
func (m Model) submitInputMode() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	switch m.mode {
	case modeAddTask:
		col, ok := m.currentColumn()
		if !ok {
			m.mode = modeNone
			return m, nil
		}
		// The modal stays open for the next task.
		m.input.Reset()
		return m, m.addTaskCmd(col.ID, value)
	case modeAddColumn:
		m.mode = modeNone
		return m, m.addColumnCmd(value)
	case modeRenameColumn:
		columnID := m.renameColumnID
		m.mode = modeNone
		m.renameColumnID = ""
		return m, m.renameColumnCmd(columnID, value)
	default:
		m.mode = modeNone
		return m, nil
	}
}

func (m Model) addTaskCmd(columnID, text string) tea.Cmd {
	return func() tea.Msg {
		_, id, err := m.svc.AddTask(context.Background(), columnID, text)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "task added", reload: true, focusTaskID: id}
	}
}

func (m Model) addColumnCmd(title string) tea.Cmd {
	return func() tea.Msg {
		_, id, err := m.svc.AddColumn(context.Background(), title)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "column added", reload: true, focusColumnID: id}
	}
}

func (m Model) renameColumnCmd(columnID, title string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.svc.RenameColumn(context.Background(), columnID, title); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "column renamed", reload: true, focusColumnID: columnID}
	}
}

func (m Model) resetBoardCmd() tea.Cmd {
	return func() tea.Msg {
		if _, err := m.svc.Reset(context.Background()); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "board reset", reload: true}
	}
}

// deleteSelectedTask removes the selected task.
func (m Model) deleteSelectedTask() (tea.Model, tea.Cmd) {
	col, ok := m.currentColumn()
	task, hasTask := m.selectedTaskInCurrentColumn()
	if !ok || !hasTask {
		m.status = "no task selected"
		return m, nil
	}
	return m, func() tea.Msg {
		if _, err := m.svc.DeleteTask(context.Background(), col.ID, task.ID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "task deleted", reload: true}
	}
}

// recolorSelectedTask sets the color of the selected task.
func (m Model) recolorSelectedTask(c domain.Color) (tea.Model, tea.Cmd) {
	col, ok := m.currentColumn()
	task, hasTask := m.selectedTaskInCurrentColumn()
	if !ok || !hasTask {
		m.status = "no task selected"
		return m, nil
	}
	return m, func() tea.Msg {
		if _, err := m.svc.RecolorTask(context.Background(), col.ID, task.ID, c); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "task marked " + string(c), reload: true, focusTaskID: task.ID}
	}
}

// copyTaskText puts the task text on the system clipboard. A clipboard
// failure is reported in the status line only.
func (m Model) copyTaskText(task domain.Task) (tea.Model, tea.Cmd) {
	if err := m.copyText(task.Text); err != nil {
		m.status = "copy failed: " + err.Error()
		return m, nil
	}
	m.status = "copied task text"
	return m, nil
}

// toggleWhiteboard mounts or unmounts the hosted region.
func (m Model) toggleWhiteboard() (tea.Model, tea.Cmd) {
	if m.whiteboard == nil {
		m.status = "whiteboard disabled"
		return m, nil
	}
	if m.showWhiteboard {
		m.showWhiteboard = false
		m.whiteboard.Unmount()
		m.focus = focusBoard
		m.status = "whiteboard hidden"
		return m, nil
	}
	m.showWhiteboard = true
	m.syncWhiteboard()
	m.status = "whiteboard shown"
	return m, nil
}

// syncWhiteboard mounts the region at the current layout size.
func (m *Model) syncWhiteboard() {
	if m.whiteboard == nil || !m.showWhiteboard || !m.ready {
		return
	}
	w, h := m.canvasSize()
	m.whiteboard.Mount(w, h)
}

func (m Model) whiteboardVisible() bool {
	return m.whiteboard != nil && m.showWhiteboard && m.whiteboard.Mounted()
}

// rejectionHint is the quiet status shown when an edit is ignored.
func rejectionHint(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidText):
		return "empty task ignored"
	case errors.Is(err, domain.ErrInvalidTitle):
		return "empty title ignored"
	default:
		return "nothing changed"
	}
}

// clampSelections clamps selections.
func (m *Model) clampSelections() {
	if len(m.board.Columns) == 0 {
		m.selectedColumn = 0
		m.selectedTask = 0
		return
	}
	m.selectedColumn = clamp(m.selectedColumn, 0, len(m.board.Columns)-1)
	m.selectedTask = clamp(m.selectedTask, 0, max(0, len(m.board.Columns[m.selectedColumn].Tasks)-1))
}

// focusTaskByID selects the task with taskID when present.
func (m *Model) focusTaskByID(taskID string) {
	for colIdx, col := range m.board.Columns {
		if idx := col.TaskIndex(taskID); idx >= 0 {
			m.selectedColumn = colIdx
			m.selectedTask = idx
			return
		}
	}
}

func (m Model) currentColumn() (domain.Column, bool) {
	if m.selectedColumn < 0 || m.selectedColumn >= len(m.board.Columns) {
		return domain.Column{}, false
	}
	return m.board.Columns[m.selectedColumn], true
}

func (m Model) selectedTaskInCurrentColumn() (domain.Task, bool) {
	col, ok := m.currentColumn()
	if !ok || m.selectedTask < 0 || m.selectedTask >= len(col.Tasks) {
		return domain.Task{}, false
	}
	return col.Tasks[m.selectedTask], true
}

// taskInfoTask resolves the task shown in the info overlay.
func (m Model) taskInfoTask() (domain.Task, bool) {
	for _, col := range m.board.Columns {
		if idx := col.TaskIndex(m.taskInfoTaskID); idx >= 0 {
			return col.Tasks[idx], true
		}
	}
	return domain.Task{}, false
}

func (m Model) taskColor(c domain.Color) color.Color {
	switch c {
	case domain.ColorGreen:
		return lipgloss.Color(m.palette.Green)
	case domain.ColorBlue:
		return lipgloss.Color(m.palette.Blue)
	default:
		return lipgloss.Color(m.palette.Red)
	}
}

// modeLabel returns the header tag for the current mode.
func (m Model) modeLabel() string {
	switch m.mode {
	case modeAddTask:
		return "add task"
	case modeAddColumn:
		return "add column"
	case modeRenameColumn:
		return "rename column"
	case modeTaskInfo:
		return "task info"
	case modeActivityLog:
		return "activity"
	case modeConfirmReset:
		return "confirm"
	}
	switch {
	case m.drag.Active():
		return "drag " + strings.ToLower(string(m.drag.Kind()))
	case m.focus == focusWhiteboard:
		return "whiteboard"
	default:
		return "board"
	}
}

// modePrompt returns the hint line of the open modal.
func (m Model) modePrompt() string {
	switch m.mode {
	case modeAddTask:
		return "enter add (stays open) • esc done"
	case modeAddColumn:
		return "enter add column • esc cancel"
	case modeRenameColumn:
		return "enter save • esc cancel"
	case modeTaskInfo:
		return "y copy text • esc close"
	case modeActivityLog:
		return "esc close"
	case modeConfirmReset:
		return "enter/y reset • esc/n cancel"
	default:
		return ""
	}
}

// formatActivityTimestamp formats activity timestamps for compact modal rendering.
func formatActivityTimestamp(at time.Time) string {
	if at.IsZero() {
		return "--:--:--"
	}
	local := at.Local()
	now := time.Now().In(local.Location())
	if local.Year() != now.Year() || local.YearDay() != now.YearDay() {
		return local.Format("01-02 15:04")
	}
	return local.Format("15:04:05")
}

// clamp clamps the requested operation.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centers overlay over base using lipgloss layers.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
