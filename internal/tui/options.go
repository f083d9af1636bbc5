package tui

import (
	"strings"

	"github.com/hylla/flowboard/internal/whiteboard"
)

// Palette holds the colors used for task markers and board chrome. Values
// are anything lipgloss.Color accepts (hex or ANSI index).
type Palette struct {
	Green  string
	Red    string
	Blue   string
	Accent string
}

type Option func(*Model)

func DefaultPalette() Palette {
	return Palette{
		Green:  "#22c55e",
		Red:    "#ef4444",
		Blue:   "#3b82f6",
		Accent: "62",
	}
}

// WithPalette overrides palette entries. Blank entries keep the default.
func WithPalette(p Palette) Option {
	return func(m *Model) {
		if v := strings.TrimSpace(p.Green); v != "" {
			m.palette.Green = v
		}
		if v := strings.TrimSpace(p.Red); v != "" {
			m.palette.Red = v
		}
		if v := strings.TrimSpace(p.Blue); v != "" {
			m.palette.Blue = v
		}
		if v := strings.TrimSpace(p.Accent); v != "" {
			m.palette.Accent = v
		}
	}
}

// WithWhiteboard hosts region next to the board, taking widthPercent of the
// terminal width. Out-of-range percentages fall back to the default share.
func WithWhiteboard(region whiteboard.Region, widthPercent int) Option {
	return func(m *Model) {
		m.whiteboard = region
		m.showWhiteboard = region != nil
		if widthPercent >= minWhiteboardPercent && widthPercent <= maxWhiteboardPercent {
			m.whiteboardPercent = widthPercent
		}
	}
}

func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keys.applyConfig(cfg)
	}
}

// WithActivityLimit caps how many ledger entries the activity overlay loads.
func WithActivityLimit(limit int) Option {
	return func(m *Model) {
		if limit > 0 {
			m.activityLimit = limit
		}
	}
}

// WithClipboard replaces the function used to copy task text.
func WithClipboard(copyText func(string) error) Option {
	return func(m *Model) {
		if copyText != nil {
			m.copyText = copyText
		}
	}
}
