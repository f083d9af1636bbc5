package whiteboard

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Option configures a Canvas.
type Option func(*Canvas)

// WithBrush sets the rune painted under the pointer.
func WithBrush(r rune) Option {
	return func(c *Canvas) {
		if r != 0 {
			c.brush = r
		}
	}
}

// WithInkStyle sets the style used to render painted cells.
func WithInkStyle(style lipgloss.Style) Option {
	return func(c *Canvas) {
		c.ink = style
	}
}

// Canvas is a freeform sketch surface. Holding the pointer paints cells and
// consecutive points of one stroke are joined with a straight line.
type Canvas struct {
	width   int
	height  int
	mounted bool
	cells   [][]bool

	stroking bool
	lastX    int
	lastY    int

	brush rune
	ink   lipgloss.Style
}

var _ Region = (*Canvas)(nil)

// NewCanvas constructs an unmounted canvas.
func NewCanvas(opts ...Option) *Canvas {
	c := &Canvas{
		brush: '█',
		ink:   lipgloss.NewStyle(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Mount implements Region.
func (c *Canvas) Mount(width, height int) {
	width = max(0, width)
	height = max(0, height)
	cells := make([][]bool, height)
	for y := range cells {
		cells[y] = make([]bool, width)
		if c.mounted && y < len(c.cells) {
			copy(cells[y], c.cells[y])
		}
	}
	c.cells = cells
	c.width = width
	c.height = height
	c.mounted = true
	c.stroking = false
}

// Unmount implements Region.
func (c *Canvas) Unmount() {
	c.cells = nil
	c.width = 0
	c.height = 0
	c.mounted = false
	c.stroking = false
}

// Mounted implements Region.
func (c *Canvas) Mounted() bool {
	return c.mounted
}

// Size returns the mounted size in cells.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Painted reports whether the cell at x, y holds ink.
func (c *Canvas) Painted(x, y int) bool {
	if !c.inBounds(x, y) {
		return false
	}
	return c.cells[y][x]
}

// HandleMouse implements Region.
func (c *Canvas) HandleMouse(x, y int, down bool) {
	if !c.mounted {
		return
	}
	if !down {
		c.stroking = false
		return
	}
	if !c.inBounds(x, y) {
		c.stroking = false
		return
	}
	if c.stroking {
		c.line(c.lastX, c.lastY, x, y)
	} else {
		c.cells[y][x] = true
	}
	c.stroking = true
	c.lastX = x
	c.lastY = y
}

// Clear implements Region.
func (c *Canvas) Clear() {
	for y := range c.cells {
		clear(c.cells[y])
	}
	c.stroking = false
}

// View implements Region.
func (c *Canvas) View() string {
	if !c.mounted || c.width == 0 || c.height == 0 {
		return ""
	}
	ink := c.ink.Render(string(c.brush))
	rows := make([]string, 0, c.height)
	for _, row := range c.cells {
		var b strings.Builder
		for _, painted := range row {
			if painted {
				b.WriteString(ink)
			} else {
				b.WriteByte(' ')
			}
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}

func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.width && y < c.height
}

// line paints a Bresenham line between two in-bounds points.
func (c *Canvas) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.cells[y0][x0] = true
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
