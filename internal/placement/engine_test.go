package placement

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/screenyapp/screeny/internal/layout"
	"github.com/screenyapp/screeny/internal/platform"
	"github.com/screenyapp/screeny/internal/rules"
	"github.com/screenyapp/screeny/internal/screen"
)

type fakeOps struct {
	calls   []string
	failFor map[platform.WindowID]error
}

func (f *fakeOps) record(op string, id platform.WindowID) error {
	f.calls = append(f.calls, fmt.Sprintf("%s(%d)", op, id))
	if err, ok := f.failFor[id]; ok {
		return err
	}
	return nil
}

func (f *fakeOps) MoveResize(id platform.WindowID, bounds platform.Rect) error {
	return f.record("moveresize", id)
}

func (f *fakeOps) Maximize(id platform.WindowID, target platform.Rect) error {
	return f.record("maximize", id)
}

func (f *fakeOps) Fullscreen(id platform.WindowID, bounds platform.Rect) error {
	return f.record("fullscreen", id)
}

func (f *fakeOps) Restore(id platform.WindowID) error {
	return f.record("restore", id)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSnapshot() screen.Snapshot {
	return screen.Snapshot{
		{
			DisplayNumber: 1, Orientation: screen.Horizontal, MonitorID: "monitor_aa",
			Width: 1920, Height: 1080,
			Bounds:   platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
			WorkArea: platform.Rect{X: 0, Y: 30, Width: 1920, Height: 1050},
		},
		{
			DisplayNumber: 2, Orientation: screen.Vertical, MonitorID: "monitor_bb",
			Width: 1080, Height: 1920,
			Bounds:   platform.Rect{X: 1920, Y: 0, Width: 1080, Height: 1920},
			WorkArea: platform.Rect{X: 1920, Y: 0, Width: 1080, Height: 1920},
		},
	}
}

func testRules() []rules.Resolved {
	return []rules.Resolved{
		{RuleID: "editor", MatchType: layout.MatchExe, MatchValue: "code",
			TargetDisplay: 1, TargetMonitorID: "monitor_aa", Mode: layout.ModeFullscreen},
		{RuleID: "chat", MatchType: layout.MatchWindowTitle, MatchValue: "slack",
			TargetDisplay: 2, TargetMonitorID: "monitor_bb", Mode: layout.ModeMaximize},
		{RuleID: "player", MatchType: layout.MatchExe, MatchValue: "spotify",
			TargetDisplay: 1, TargetMonitorID: "monitor_aa", Mode: layout.ModeMove},
	}
}

func TestApply_PlacesMatchingWindows(t *testing.T) {
	ops := &fakeOps{}
	engine := NewEngine(ops, discardLogger())

	windows := []platform.Window{
		{ID: 10, Title: "main.go", ExeName: "code", State: platform.StateNormal,
			Bounds: platform.Rect{X: 2000, Y: 100, Width: 800, Height: 600}, MonitorID: "monitor_bb"},
		{ID: 11, Title: "slack - general", ExeName: "slack", State: platform.StateNormal,
			Bounds: platform.Rect{X: 100, Y: 100, Width: 800, Height: 600}, MonitorID: "monitor_aa"},
		{ID: 12, Title: "unmatched", ExeName: "gimp", State: platform.StateNormal,
			Bounds: platform.Rect{X: 0, Y: 0, Width: 100, Height: 100}, MonitorID: "monitor_aa"},
	}

	res := engine.Apply(testRules(), windows, testSnapshot())

	if res.Applied != 2 {
		t.Fatalf("Applied = %d, want 2", res.Applied)
	}
	if res.Failed != 0 {
		t.Fatalf("Failed = %d", res.Failed)
	}
	// The spotify rule matched no window.
	if res.SkippedNoWindow != 1 {
		t.Fatalf("SkippedNoWindow = %d, want 1", res.SkippedNoWindow)
	}

	want := []string{"fullscreen(10)", "maximize(11)"}
	if len(ops.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", ops.calls, want)
	}
	for i := range want {
		if ops.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", ops.calls, want)
		}
	}
}

func TestApply_IdempotentWhenSatisfied(t *testing.T) {
	ops := &fakeOps{}
	engine := NewEngine(ops, discardLogger())
	snap := testSnapshot()

	windows := []platform.Window{
		// Already fullscreen on the right monitor.
		{ID: 10, Title: "main.go", ExeName: "code", State: platform.StateFullscreen,
			Bounds: snap[0].Bounds, MonitorID: "monitor_aa"},
		// Already maximized on the right monitor.
		{ID: 11, Title: "slack", ExeName: "slack", State: platform.StateMaximized,
			Bounds: snap[1].WorkArea, MonitorID: "monitor_bb"},
		// Repositioned by hand, still normal and on the right monitor.
		{ID: 12, Title: "spotify", ExeName: "spotify", State: platform.StateNormal,
			Bounds: platform.Rect{X: 400, Y: 300, Width: 700, Height: 500}, MonitorID: "monitor_aa"},
	}

	res := engine.Apply(testRules(), windows, snap)

	if len(ops.calls) != 0 {
		t.Fatalf("satisfied windows triggered calls: %v", ops.calls)
	}
	if res.Applied != 0 || res.Failed != 0 {
		t.Fatalf("result = %+v", res)
	}
}

func TestApply_MoveKeepsSizeAndRestoresFirst(t *testing.T) {
	ops := &fakeOps{}
	engine := NewEngine(ops, discardLogger())

	windows := []platform.Window{
		{ID: 12, Title: "spotify", ExeName: "spotify", State: platform.StateMaximized,
			Bounds: platform.Rect{X: 2000, Y: 0, Width: 700, Height: 500}, MonitorID: "monitor_bb"},
	}

	res := engine.Apply(testRules(), windows, testSnapshot())

	if res.Applied != 1 {
		t.Fatalf("Applied = %d", res.Applied)
	}
	want := []string{"restore(12)", "moveresize(12)"}
	if len(ops.calls) != 2 || ops.calls[0] != want[0] || ops.calls[1] != want[1] {
		t.Fatalf("calls = %v, want %v", ops.calls, want)
	}
}

func TestApply_MoveLeavesWindowAnywhereOnTargetMonitor(t *testing.T) {
	ops := &fakeOps{}
	engine := NewEngine(ops, discardLogger())

	// Normal state on the target monitor satisfies a move rule regardless of
	// position; only a window on the wrong monitor is moved.
	windows := []platform.Window{
		{ID: 12, Title: "spotify", ExeName: "spotify", State: platform.StateNormal,
			Bounds: platform.Rect{X: 400, Y: 300, Width: 700, Height: 500}, MonitorID: "monitor_aa"},
	}

	res := engine.Apply(testRules(), windows, testSnapshot())

	if len(ops.calls) != 0 {
		t.Fatalf("repositioned window triggered calls: %v", ops.calls)
	}
	if res.Applied != 0 {
		t.Fatalf("Applied = %d, want 0", res.Applied)
	}

	windows[0].MonitorID = "monitor_bb"
	windows[0].Bounds.X = 2000

	res = engine.Apply(testRules(), windows, testSnapshot())

	if res.Applied != 1 || len(ops.calls) != 1 || ops.calls[0] != "moveresize(12)" {
		t.Fatalf("result = %+v, calls = %v", res, ops.calls)
	}
}

func TestApply_SkipsMinimizedAndUntitled(t *testing.T) {
	ops := &fakeOps{}
	engine := NewEngine(ops, discardLogger())

	windows := []platform.Window{
		{ID: 10, Title: "main.go", ExeName: "code", State: platform.StateMinimized, MonitorID: "monitor_bb"},
		{ID: 11, Title: "", ExeName: "slack", State: platform.StateNormal, MonitorID: "monitor_aa"},
	}

	engine.Apply(testRules(), windows, testSnapshot())

	if len(ops.calls) != 0 {
		t.Fatalf("minimized/untitled windows triggered calls: %v", ops.calls)
	}
}

func TestApply_SkippedNoMonitor(t *testing.T) {
	ops := &fakeOps{}
	engine := NewEngine(ops, discardLogger())

	// Only DISPLAY1 is connected; the slack rule targets monitor_bb.
	snap := testSnapshot()[:1]

	windows := []platform.Window{
		{ID: 11, Title: "slack", ExeName: "slack", State: platform.StateNormal, MonitorID: "monitor_aa"},
	}

	res := engine.Apply(testRules(), windows, snap)

	if res.SkippedNoMonitor != 1 {
		t.Fatalf("SkippedNoMonitor = %d, want 1", res.SkippedNoMonitor)
	}
	if len(ops.calls) != 0 {
		t.Fatalf("unexpected calls: %v", ops.calls)
	}
}

func TestApply_FailuresAreCountedNotFatal(t *testing.T) {
	ops := &fakeOps{failFor: map[platform.WindowID]error{10: errors.New("window gone")}}
	engine := NewEngine(ops, discardLogger())

	windows := []platform.Window{
		{ID: 10, Title: "main.go", ExeName: "code", State: platform.StateNormal, MonitorID: "monitor_bb",
			Bounds: platform.Rect{X: 2000, Y: 0, Width: 800, Height: 600}},
		{ID: 11, Title: "slack", ExeName: "slack", State: platform.StateNormal, MonitorID: "monitor_aa",
			Bounds: platform.Rect{X: 100, Y: 100, Width: 800, Height: 600}},
	}

	res := engine.Apply(testRules(), windows, testSnapshot())

	if res.Failed != 1 {
		t.Fatalf("Failed = %d, want 1", res.Failed)
	}
	if res.Applied != 1 {
		t.Fatalf("Applied = %d, want 1 (pass must continue after a failure)", res.Applied)
	}
}

func TestApply_FirstMatchingRuleWins(t *testing.T) {
	ops := &fakeOps{}
	engine := NewEngine(ops, discardLogger())

	// Window matches both the title rule and the exe rule; title rule comes
	// first in file order.
	overlapping := []rules.Resolved{
		{RuleID: "by-title", MatchType: layout.MatchWindowTitle, MatchValue: "code",
			TargetDisplay: 2, TargetMonitorID: "monitor_bb", Mode: layout.ModeMaximize},
		{RuleID: "by-exe", MatchType: layout.MatchExe, MatchValue: "code",
			TargetDisplay: 1, TargetMonitorID: "monitor_aa", Mode: layout.ModeFullscreen},
	}

	windows := []platform.Window{
		{ID: 10, Title: "code editor", ExeName: "code", State: platform.StateNormal, MonitorID: "monitor_aa",
			Bounds: platform.Rect{X: 0, Y: 0, Width: 800, Height: 600}},
	}

	res := engine.Apply(overlapping, windows, testSnapshot())

	if res.Applied != 1 || len(ops.calls) != 1 || ops.calls[0] != "maximize(10)" {
		t.Fatalf("result = %+v, calls = %v", res, ops.calls)
	}
}
