package domain

import (
	"slices"
	"strings"
)

// Color is the marker shown on a task card.
type Color string

const (
	ColorGreen Color = "green"
	ColorRed   Color = "red"
	ColorBlue  Color = "blue"
)

// DefaultColor is assigned to every newly added task.
const DefaultColor = ColorRed

var validColors = []Color{ColorGreen, ColorRed, ColorBlue}

// Colors returns the recolor choices in menu order.
func Colors() []Color {
	return slices.Clone(validColors)
}

// Valid reports whether c is one of the known colors.
func (c Color) Valid() bool {
	return slices.Contains(validColors, c)
}

// ParseColor accepts a color name ("green") or a utility class of the form
// "bg-green-500" and returns the matching Color.
func ParseColor(raw string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if strings.HasPrefix(v, "bg-") {
		v = strings.TrimPrefix(v, "bg-")
		if i := strings.LastIndexByte(v, '-'); i > 0 {
			v = v[:i]
		}
	}
	c := Color(v)
	if !c.Valid() {
		return "", ErrInvalidColor
	}
	return c, nil
}
