package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point (x, y) lies inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Display describes a physical display and its usable work area.
// ID is the OS-assigned ordinal slot, stable within one boot session.
type Display struct {
	ID      int
	Name    string
	Bounds  Rect
	Usable  Rect
	Primary bool
}

// WindowState is the coarse placement state of a top-level window.
type WindowState string

const (
	StateNormal     WindowState = "normal"
	StateMaximized  WindowState = "maximized"
	StateFullscreen WindowState = "fullscreen"
	StateMinimized  WindowState = "minimized"
)

// Window contains metadata and geometry for a top-level window.
// MonitorID is empty as returned by a Backend; the screen detector fills it
// from the window's center point.
type Window struct {
	ID          WindowID
	PID         int
	Title       string
	ExeName     string
	ProcessPath string
	Bounds      Rect
	State       WindowState
	MonitorID   string
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Displays() ([]Display, error)
	ListWindows() ([]Window, error)
	MoveResize(windowID WindowID, bounds Rect) error
	Maximize(windowID WindowID, target Rect) error
	Fullscreen(windowID WindowID, bounds Rect) error
	Restore(windowID WindowID) error
}
