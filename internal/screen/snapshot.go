package screen

import (
	"fmt"
	"strings"

	"github.com/screenyapp/screeny/internal/platform"
)

// Orientation classifies a screen by its aspect.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// OrientationOf returns horizontal iff width > height.
func OrientationOf(width, height int) Orientation {
	if width > height {
		return Horizontal
	}
	return Vertical
}

// ParseOrientation validates an orientation string from a layout file.
func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(s) {
	case Horizontal, Vertical:
		return Orientation(s), nil
	default:
		return "", fmt.Errorf("invalid orientation %q (must be 'horizontal' or 'vertical')", s)
	}
}

// Screen is one entry of a screen snapshot: a connected monitor with its
// logical display number and derived orientation.
type Screen struct {
	DisplayNumber int           `json:"display_number"`
	Orientation   Orientation   `json:"orientation"`
	MonitorID     string        `json:"monitor_id"`
	Name          string        `json:"name"`
	Width         int           `json:"width"`
	Height        int           `json:"height"`
	Primary       bool          `json:"is_primary"`
	Bounds        platform.Rect `json:"-"`
	WorkArea      platform.Rect `json:"-"`
}

// Snapshot is the current screen configuration, ordered by display number.
// It is a transient value: computed fresh each detection cycle, never
// mutated after construction.
type Snapshot []Screen

// Changed compares two snapshots by total count and the set of
// (display_number, orientation) pairs. Geometry-only changes (position,
// resolution at same orientation) do not count as a change.
func Changed(prev, curr Snapshot) bool {
	if len(prev) != len(curr) {
		return true
	}
	pairs := make(map[int]Orientation, len(prev))
	for _, s := range prev {
		pairs[s.DisplayNumber] = s.Orientation
	}
	for _, s := range curr {
		o, ok := pairs[s.DisplayNumber]
		if !ok || o != s.Orientation {
			return true
		}
	}
	return false
}

// DisplayMap builds the identity join display_number -> monitor_id.
func (s Snapshot) DisplayMap() map[int]string {
	m := make(map[int]string, len(s))
	for _, scr := range s {
		m[scr.DisplayNumber] = scr.MonitorID
	}
	return m
}

// ByDisplay returns the screen occupying the given display number.
func (s Snapshot) ByDisplay(displayNumber int) (Screen, bool) {
	for _, scr := range s {
		if scr.DisplayNumber == displayNumber {
			return scr, true
		}
	}
	return Screen{}, false
}

// ByMonitorID returns the screen for a monitor ID, if that monitor is
// currently connected.
func (s Snapshot) ByMonitorID(monitorID string) (Screen, bool) {
	for _, scr := range s {
		if scr.MonitorID == monitorID {
			return scr, true
		}
	}
	return Screen{}, false
}

// MonitorAt returns the screen whose bounds contain the point (x, y).
func (s Snapshot) MonitorAt(x, y int) (Screen, bool) {
	for _, scr := range s {
		if scr.Bounds.Contains(x, y) {
			return scr, true
		}
	}
	return Screen{}, false
}

// Summary renders a human-readable description of the configuration,
// e.g. "2 screen(s): DISPLAY1 (vertical, 1080x1920), DISPLAY2 (horizontal, 1920x1080)".
func (s Snapshot) Summary() string {
	if len(s) == 0 {
		return "no screens detected"
	}

	descs := make([]string, 0, len(s))
	for _, scr := range s {
		descs = append(descs, fmt.Sprintf("DISPLAY%d (%s, %dx%d)",
			scr.DisplayNumber, scr.Orientation, scr.Width, scr.Height))
	}
	return fmt.Sprintf("%d screen(s): %s", len(s), strings.Join(descs, ", "))
}
