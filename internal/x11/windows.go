package x11

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowInfo holds the metadata and geometry needed to match a window
// against placement rules.
type WindowInfo struct {
	ID         xproto.Window
	Title      string
	PID        int
	X          int
	Y          int
	Width      int
	Height     int
	Fullscreen bool
	Maximized  bool
	Hidden     bool
}

// ListWindows enumerates normal top-level windows from the EWMH client list.
func (c *Connection) ListWindows() ([]WindowInfo, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, err
	}

	windows := make([]WindowInfo, 0, len(clients))
	for _, windowID := range clients {
		if !c.IsNormalWindow(windowID) {
			continue
		}

		x, y, width, height, ok := c.windowRect(windowID)
		if !ok {
			continue
		}

		info := WindowInfo{
			ID:     windowID,
			Title:  c.windowTitle(windowID),
			X:      x,
			Y:      y,
			Width:  width,
			Height: height,
		}

		if pid, err := ewmh.WmPidGet(c.XUtil, windowID); err == nil {
			info.PID = int(pid)
		}

		if states, err := ewmh.WmStateGet(c.XUtil, windowID); err == nil {
			maxH, maxV := false, false
			for _, state := range states {
				switch state {
				case "_NET_WM_STATE_FULLSCREEN":
					info.Fullscreen = true
				case "_NET_WM_STATE_MAXIMIZED_HORZ":
					maxH = true
				case "_NET_WM_STATE_MAXIMIZED_VERT":
					maxV = true
				case "_NET_WM_STATE_HIDDEN":
					info.Hidden = true
				}
			}
			info.Maximized = maxH && maxV
		}

		windows = append(windows, info)
	}

	return windows, nil
}

// MoveResizeWindow moves and resizes a window to the specified geometry.
// Maximized state is cleared first so the request takes effect.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// Best effort: some windows don't support state changes, the move may
	// still work.
	_ = c.unmaximizeWindow(windowID)

	win := xwindow.New(c.XUtil, windowID)

	// EWMH MoveResize has better WM compatibility
	err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height)
	if err != nil {
		// Fallback to direct window manipulation
		win.MoveResize(x, y, width, height)
		return nil
	}

	return nil
}

// FullscreenWindow moves a window onto the given bounds and puts it into
// fullscreen, which also strips decorations.
func (c *Connection) FullscreenWindow(windowID xproto.Window, x, y, width, height int) error {
	if err := c.MoveResizeWindow(windowID, x, y, width, height); err != nil {
		return err
	}
	return ewmh.WmStateReq(c.XUtil, windowID, 1, "_NET_WM_STATE_FULLSCREEN")
}

// MaximizeWindow moves a window onto the given monitor area and maximizes
// it there. Fullscreen is exited first so the maximize request is honored.
func (c *Connection) MaximizeWindow(windowID xproto.Window, x, y, width, height int) error {
	ewmh.WmStateReq(c.XUtil, windowID, 0, "_NET_WM_STATE_FULLSCREEN")

	// Move first so the WM maximizes on the intended monitor.
	if err := c.MoveResizeWindow(windowID, x, y, width, height); err != nil {
		return err
	}

	return ewmh.WmStateReqExtra(c.XUtil, windowID, 1,
		"_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT", 2)
}

// RestoreWindow clears fullscreen and maximized state.
func (c *Connection) RestoreWindow(windowID xproto.Window) error {
	if err := ewmh.WmStateReq(c.XUtil, windowID, 0, "_NET_WM_STATE_FULLSCREEN"); err != nil {
		return err
	}
	return c.unmaximizeWindow(windowID)
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	hasMaxH := false
	hasMaxV := false
	for _, state := range states {
		if state == "_NET_WM_STATE_MAXIMIZED_HORZ" {
			hasMaxH = true
		}
		if state == "_NET_WM_STATE_MAXIMIZED_VERT" {
			hasMaxV = true
		}
	}

	if hasMaxH || hasMaxV {
		return ewmh.WmStateReqExtra(c.XUtil, windowID, 0,
			"_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT", 2)
	}

	return nil
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" {
			return true
		}
		// Reject desktop, dock, splash, etc.
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" ||
			t == "_NET_WM_WINDOW_TYPE_DOCK" ||
			t == "_NET_WM_WINDOW_TYPE_SPLASH" ||
			t == "_NET_WM_WINDOW_TYPE_NOTIFICATION" {
			return false
		}
	}

	return len(types) == 0
}

func (c *Connection) windowRect(windowID xproto.Window) (x, y, width, height int, ok bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, false
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, false
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), true
}

func (c *Connection) windowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	return ""
}
