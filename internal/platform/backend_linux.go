//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/screenyapp/screeny/internal/x11"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Displays returns all active displays ordered by their RandR slot.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, Display{
			ID:      m.ID,
			Name:    m.Name,
			Bounds:  Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
			Usable:  Rect{X: m.WorkX, Y: m.WorkY, Width: m.WorkWidth, Height: m.WorkHeight},
			Primary: m.Primary,
		})
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// ListWindows lists normal top-level windows with the metadata needed for
// rule matching.
func (b *LinuxBackend) ListWindows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	infos, err := conn.ListWindows()
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(infos))
	for _, info := range infos {
		processPath := x11.ProcessPath(info.PID)

		state := StateNormal
		switch {
		case info.Hidden:
			state = StateMinimized
		case info.Fullscreen:
			state = StateFullscreen
		case info.Maximized:
			state = StateMaximized
		}

		windows = append(windows, Window{
			ID:          WindowID(info.ID),
			PID:         info.PID,
			Title:       info.Title,
			ExeName:     x11.ExeName(processPath),
			ProcessPath: processPath,
			Bounds:      Rect{X: info.X, Y: info.Y, Width: info.Width, Height: info.Height},
			State:       state,
		})
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].ID < windows[j].ID
	})

	return windows, nil
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveResizeWindow(xproto.Window(windowID), bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

// Maximize maximizes a window on the monitor covering the target rect.
func (b *LinuxBackend) Maximize(windowID WindowID, target Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MaximizeWindow(xproto.Window(windowID), target.X, target.Y, target.Width, target.Height)
}

// Fullscreen puts a window into fullscreen over the given bounds.
func (b *LinuxBackend) Fullscreen(windowID WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.FullscreenWindow(xproto.Window(windowID), bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

// Restore clears fullscreen and maximized state.
func (b *LinuxBackend) Restore(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.RestoreWindow(xproto.Window(windowID))
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}
