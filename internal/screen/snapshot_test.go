package screen

import (
	"strings"
	"testing"

	"github.com/screenyapp/screeny/internal/platform"
)

func TestOrientationOf(t *testing.T) {
	if got := OrientationOf(1920, 1080); got != Horizontal {
		t.Fatalf("OrientationOf(1920, 1080) = %q, want horizontal", got)
	}
	if got := OrientationOf(1080, 1920); got != Vertical {
		t.Fatalf("OrientationOf(1080, 1920) = %q, want vertical", got)
	}
	// Square counts as vertical (width must strictly exceed height).
	if got := OrientationOf(1000, 1000); got != Vertical {
		t.Fatalf("OrientationOf(1000, 1000) = %q, want vertical", got)
	}
}

func TestParseOrientation(t *testing.T) {
	if _, err := ParseOrientation("horizontal"); err != nil {
		t.Fatalf("ParseOrientation(horizontal) error: %v", err)
	}
	if _, err := ParseOrientation("vertical"); err != nil {
		t.Fatalf("ParseOrientation(vertical) error: %v", err)
	}
	if _, err := ParseOrientation("diagonal"); err == nil {
		t.Fatal("ParseOrientation(diagonal) should fail")
	}
	if _, err := ParseOrientation(""); err == nil {
		t.Fatal("ParseOrientation(\"\") should fail")
	}
}

func snap2() Snapshot {
	return Snapshot{
		{DisplayNumber: 1, Orientation: Horizontal, MonitorID: "monitor_aa", Width: 1920, Height: 1080,
			Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
		{DisplayNumber: 2, Orientation: Vertical, MonitorID: "monitor_bb", Width: 1080, Height: 1920,
			Bounds: platform.Rect{X: 1920, Y: 0, Width: 1080, Height: 1920}},
	}
}

func TestChanged(t *testing.T) {
	base := snap2()

	if Changed(base, snap2()) {
		t.Fatal("identical snapshots should not count as changed")
	}

	// Screen count change.
	if !Changed(base, base[:1]) {
		t.Fatal("count change should count as changed")
	}

	// Orientation flip on one display.
	flipped := snap2()
	flipped[1].Orientation = Horizontal
	if !Changed(base, flipped) {
		t.Fatal("orientation change should count as changed")
	}

	// Geometry-only change at same orientation.
	moved := snap2()
	moved[1].Bounds.X = 0
	moved[1].Bounds.Y = 1080
	moved[1].Width = 1440
	moved[1].Height = 2560
	if Changed(base, moved) {
		t.Fatal("geometry-only change should not count as changed")
	}
}

func TestDisplayMap(t *testing.T) {
	m := snap2().DisplayMap()
	if m[1] != "monitor_aa" || m[2] != "monitor_bb" {
		t.Fatalf("DisplayMap() = %v", m)
	}
}

func TestLookups(t *testing.T) {
	s := snap2()

	if scr, ok := s.ByDisplay(2); !ok || scr.MonitorID != "monitor_bb" {
		t.Fatalf("ByDisplay(2) = %v, %v", scr, ok)
	}
	if _, ok := s.ByDisplay(3); ok {
		t.Fatal("ByDisplay(3) should not find a screen")
	}

	if scr, ok := s.ByMonitorID("monitor_aa"); !ok || scr.DisplayNumber != 1 {
		t.Fatalf("ByMonitorID(monitor_aa) = %v, %v", scr, ok)
	}

	if scr, ok := s.MonitorAt(2000, 500); !ok || scr.DisplayNumber != 2 {
		t.Fatalf("MonitorAt(2000, 500) = %v, %v", scr, ok)
	}
	if _, ok := s.MonitorAt(-10, -10); ok {
		t.Fatal("MonitorAt outside all bounds should not match")
	}
}

func TestSummary(t *testing.T) {
	if got := (Snapshot{}).Summary(); got != "no screens detected" {
		t.Fatalf("empty Summary() = %q", got)
	}

	got := snap2().Summary()
	want := "2 screen(s): DISPLAY1 (horizontal, 1920x1080), DISPLAY2 (vertical, 1080x1920)"
	if got != want {
		t.Fatalf("Summary() = %q, want %q", got, want)
	}
	if !strings.HasPrefix(got, "2 screen(s)") {
		t.Fatalf("Summary() missing count prefix: %q", got)
	}
}
