package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// KeyConfig holds user overrides for the rebindable actions. Blank fields
// keep the defaults.
type KeyConfig struct {
	PickUpTask       string
	PickUpColumn     string
	ToggleWhiteboard string
	ActivityLog      string
}

// keyMap represents key map data used by this package.
type keyMap struct {
	quit             key.Binding
	reload           key.Binding
	toggleHelp       key.Binding
	moveLeft         key.Binding
	moveRight        key.Binding
	moveUp           key.Binding
	moveDown         key.Binding
	addTask          key.Binding
	addColumn        key.Binding
	renameColumn     key.Binding
	taskInfo         key.Binding
	deleteTask       key.Binding
	colorGreen       key.Binding
	colorRed         key.Binding
	colorBlue        key.Binding
	copyTask         key.Binding
	pickUpTask       key.Binding
	pickUpColumn     key.Binding
	drop             key.Binding
	cancel           key.Binding
	toggleWhiteboard key.Binding
	switchFocus      key.Binding
	clearWhiteboard  key.Binding
	activityLog      key.Binding
	resetBoard       key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:             key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:           key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveLeft:         key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "left")),
		moveRight:        key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "right")),
		moveUp:           key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		moveDown:         key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		addTask:          key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		addColumn:        key.NewBinding(key.WithKeys("N", "shift+n"), key.WithHelp("N", "new column")),
		renameColumn:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename column")),
		taskInfo:         key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "task info")),
		deleteTask:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete task")),
		colorGreen:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "green")),
		colorRed:         key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "red")),
		colorBlue:        key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "blue")),
		copyTask:         key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy text")),
		pickUpTask:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "drag task")),
		pickUpColumn:     key.NewBinding(key.WithKeys("M", "shift+m"), key.WithHelp("M", "drag column")),
		drop:             key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		cancel:           key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		toggleWhiteboard: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "whiteboard")),
		switchFocus:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
		clearWhiteboard:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear sketch")),
		activityLog:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "activity log")),
		resetBoard:       key.NewBinding(key.WithKeys("R", "shift+r"), key.WithHelp("R", "reset board")),
	}
}

// applyConfig rebinds the configurable actions.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.pickUpTask, cfg.PickUpTask, "m", "drag task")
	configureBinding(&k.pickUpColumn, cfg.PickUpColumn, "M", "drag column")
	configureBinding(&k.toggleWhiteboard, cfg.ToggleWhiteboard, "w", "whiteboard")
	configureBinding(&k.activityLog, cfg.ActivityLog, "g", "activity log")
}

// configureBinding replaces the keys and help text of one binding.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, helpKey := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(helpKey, desc)
}

// parseBindingKeys turns a configured key into matcher strings and the label
// shown in help. Uppercase letters also match their shift+ form.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	if strings.EqualFold(raw, "space") {
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(raw) > 1 {
		return []string{strings.ToLower(raw)}, raw
	}
	r, _ := utf8.DecodeRuneInString(raw)
	if unicode.IsUpper(r) {
		return []string{raw, "shift+" + string(unicode.ToLower(r))}, raw
	}
	return []string{raw}, raw
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addTask, k.pickUpTask, k.pickUpColumn, k.taskInfo, k.toggleWhiteboard, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.addTask, k.addColumn, k.renameColumn, k.taskInfo, k.copyTask, k.deleteTask, k.activityLog, k.resetBoard, k.reload, k.quit},
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown, k.colorGreen, k.colorRed, k.colorBlue},
		{k.pickUpTask, k.pickUpColumn, k.drop, k.cancel, k.toggleWhiteboard, k.switchFocus, k.clearWhiteboard},
	}
}

// dragHelp lists the bindings that matter while a gesture is active.
type dragHelp struct {
	keys keyMap
}

// ShortHelp handles short help.
func (d dragHelp) ShortHelp() []key.Binding {
	return []key.Binding{d.keys.moveLeft, d.keys.moveRight, d.keys.moveUp, d.keys.moveDown, d.keys.drop, d.keys.cancel}
}

// FullHelp handles full help.
func (d dragHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{d.ShortHelp()}
}
