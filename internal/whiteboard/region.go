// Package whiteboard provides the freeform region shown next to the board.
// The board core never depends on it; the terminal host only mounts it,
// forwards pointer input and renders its view.
package whiteboard

// Region is a mountable visual surface with opaque internal state.
type Region interface {
	// Mount attaches the region with the given size in cells. Mounting an
	// already mounted region resizes it.
	Mount(width, height int)
	// Unmount detaches the region and discards its surface.
	Unmount()
	Mounted() bool
	View() string
	// HandleMouse delivers pointer input in region-relative cells. down is
	// true while the button is held.
	HandleMouse(x, y int, down bool)
	Clear()
}
