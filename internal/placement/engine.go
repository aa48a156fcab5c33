package placement

import (
	"log/slog"

	"github.com/screenyapp/screeny/internal/layout"
	"github.com/screenyapp/screeny/internal/platform"
	"github.com/screenyapp/screeny/internal/rules"
	"github.com/screenyapp/screeny/internal/screen"
)

// Ops is the subset of window-system operations the engine needs.
// Satisfied by platform.Backend.
type Ops interface {
	MoveResize(windowID platform.WindowID, bounds platform.Rect) error
	Maximize(windowID platform.WindowID, target platform.Rect) error
	Fullscreen(windowID platform.WindowID, bounds platform.Rect) error
	Restore(windowID platform.WindowID) error
}

// Result counts the outcomes of one reconciliation pass.
type Result struct {
	Applied          int `json:"applied"`
	SkippedNoMonitor int `json:"skipped_no_monitor"`
	SkippedNoWindow  int `json:"skipped_no_window"`
	Failed           int `json:"failed"`
}

// Engine applies resolved placement rules to the current window population.
// Passes are idempotent: a window already satisfying its rule triggers no
// window-system calls, so repeated passes converge without flicker.
type Engine struct {
	ops    Ops
	logger *slog.Logger
}

// NewEngine creates an engine over the given window operations.
func NewEngine(ops Ops, logger *slog.Logger) *Engine {
	return &Engine{ops: ops, logger: logger}
}

// Apply runs one placement pass. Each window is matched against the rules in
// file order and placed per the first matching rule. Minimized windows and
// windows without a title are left alone. Per-window failures are logged and
// counted; they never abort the pass.
func (e *Engine) Apply(resolved []rules.Resolved, windows []platform.Window, snap screen.Snapshot) Result {
	var res Result
	matchedRules := make(map[string]bool, len(resolved))

	for _, w := range windows {
		if w.State == platform.StateMinimized || w.Title == "" {
			continue
		}

		rule := rules.FindMatchingRule(w, resolved)
		if rule == nil {
			continue
		}
		matchedRules[rule.RuleID] = true

		target, ok := snap.ByMonitorID(rule.TargetMonitorID)
		if !ok {
			e.logger.Debug("rule target monitor not connected",
				"rule_id", rule.RuleID, "monitor_id", rule.TargetMonitorID)
			res.SkippedNoMonitor++
			continue
		}

		if satisfied(w, rule.Mode, target) {
			continue
		}

		if err := e.place(w, rule.Mode, target); err != nil {
			e.logger.Warn("failed to place window",
				"window", w.ID, "title", w.Title, "rule_id", rule.RuleID, "error", err)
			res.Failed++
			continue
		}

		e.logger.Info("window placed", "window", w.ID, "title", w.Title,
			"rule_id", rule.RuleID, "monitor_id", target.MonitorID, "mode", rule.Mode)
		res.Applied++
	}

	for _, r := range resolved {
		if !matchedRules[r.RuleID] {
			res.SkippedNoWindow++
		}
	}

	return res
}

// satisfied reports whether the window already matches what the rule asks
// for, on the right monitor. Move mode only requires normal state on the
// target monitor; a window the user repositioned within that monitor stays
// where they put it.
func satisfied(w platform.Window, mode layout.PlacementMode, target screen.Screen) bool {
	if w.MonitorID != target.MonitorID {
		return false
	}
	switch mode {
	case layout.ModeFullscreen:
		return w.State == platform.StateFullscreen
	case layout.ModeMaximize:
		return w.State == platform.StateMaximized
	default:
		return w.State == platform.StateNormal
	}
}

func (e *Engine) place(w platform.Window, mode layout.PlacementMode, target screen.Screen) error {
	switch mode {
	case layout.ModeFullscreen:
		return e.ops.Fullscreen(w.ID, target.Bounds)
	case layout.ModeMaximize:
		return e.ops.Maximize(w.ID, target.WorkArea)
	default:
		if w.State != platform.StateNormal {
			if err := e.ops.Restore(w.ID); err != nil {
				return err
			}
		}
		// Move keeps the window's size; only the top-left corner changes.
		return e.ops.MoveResize(w.ID, platform.Rect{
			X:      target.WorkArea.X,
			Y:      target.WorkArea.Y,
			Width:  w.Bounds.Width,
			Height: w.Bounds.Height,
		})
	}
}
