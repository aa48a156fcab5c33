package manager

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/screenyapp/screeny/internal/layout"
	"github.com/screenyapp/screeny/internal/screen"
)

type stubScreens struct {
	snap screen.Snapshot
	err  error
}

func (s *stubScreens) Detect() (screen.Snapshot, error) {
	return s.snap, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dualSnapshot() screen.Snapshot {
	return screen.Snapshot{
		{DisplayNumber: 1, Orientation: screen.Horizontal, MonitorID: "monitor_aa", Width: 1920, Height: 1080},
		{DisplayNumber: 2, Orientation: screen.Vertical, MonitorID: "monitor_bb", Width: 1080, Height: 1920},
	}
}

func dualDefinition() *layout.Definition {
	return &layout.Definition{
		Name: "Dual Dev",
		ScreenRequirements: layout.Requirements{
			TotalScreens: 2,
			Screens: []layout.ScreenRequirement{
				{DisplayNumber: 1, Orientation: screen.Horizontal},
				{DisplayNumber: 2, Orientation: screen.Vertical},
			},
		},
		Rules: []layout.Rule{
			{RuleID: "editor", MatchType: layout.MatchExe, MatchValue: "code", TargetDisplay: 1},
			{RuleID: "chat", MatchType: layout.MatchWindowTitle, MatchValue: "slack", TargetDisplay: 2, Maximize: true},
		},
	}
}

func newTestManager(t *testing.T, snap screen.Snapshot) (*Manager, *layout.Store, *stubScreens) {
	t.Helper()
	store := layout.NewStore(filepath.Join(t.TempDir(), "layouts"))
	if _, err := store.Create(dualDefinition()); err != nil {
		t.Fatalf("failed to create fixture layout: %v", err)
	}
	screens := &stubScreens{snap: snap}
	return New(store, screens, discardLogger()), store, screens
}

func TestCompatible(t *testing.T) {
	req := dualDefinition().ScreenRequirements

	if ok, reason := Compatible(req, dualSnapshot()); !ok || reason != "all requirements met" {
		t.Fatalf("Compatible = %v, %q", ok, reason)
	}

	// Count mismatch is reported first.
	ok, reason := Compatible(req, dualSnapshot()[:1])
	if ok || reason != "need exactly 2 screen(s), but 1 connected" {
		t.Fatalf("count mismatch = %v, %q", ok, reason)
	}

	// Missing display number.
	snap := dualSnapshot()
	snap[1].DisplayNumber = 3
	ok, reason = Compatible(req, snap)
	if ok || reason != "DISPLAY2 not found (required for layout)" {
		t.Fatalf("missing display = %v, %q", ok, reason)
	}

	// Wrong orientation.
	snap = dualSnapshot()
	snap[1].Orientation = screen.Horizontal
	ok, reason = Compatible(req, snap)
	if ok || reason != "DISPLAY2 is horizontal, but layout needs vertical" {
		t.Fatalf("orientation mismatch = %v, %q", ok, reason)
	}
}

func TestActivate(t *testing.T) {
	m, _, _ := newTestManager(t, dualSnapshot())

	changes := 0
	m.OnChange(func() { changes++ })

	active, err := m.Activate("dual-dev")
	if err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	if active.Name != "Dual Dev" {
		t.Fatalf("active.Name = %q", active.Name)
	}
	if active.DisplayMap[1] != "monitor_aa" || active.DisplayMap[2] != "monitor_bb" {
		t.Fatalf("DisplayMap = %v", active.DisplayMap)
	}
	if changes != 1 {
		t.Fatalf("OnChange fired %d times, want 1", changes)
	}

	if got := m.Active(); got == nil || got.Name != "Dual Dev" {
		t.Fatalf("Active() = %v", got)
	}
}

func TestActivate_NotFound(t *testing.T) {
	m, _, _ := newTestManager(t, dualSnapshot())

	_, err := m.Activate("ghost")
	var nerr *layout.NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("error %v is not a NotFoundError", err)
	}
	if m.Active() != nil {
		t.Fatal("failed activation should leave no active layout")
	}
}

func TestActivate_Incompatible(t *testing.T) {
	m, _, screens := newTestManager(t, dualSnapshot())
	screens.snap = dualSnapshot()[:1]

	_, err := m.Activate("dual-dev")
	var cerr *CompatibilityError
	if !errors.As(err, &cerr) {
		t.Fatalf("error %v is not a CompatibilityError", err)
	}
	if cerr.Reason != "need exactly 2 screen(s), but 1 connected" {
		t.Fatalf("Reason = %q", cerr.Reason)
	}
	if m.Active() != nil {
		t.Fatal("incompatible activation should leave no active layout")
	}
}

func TestActivate_ImplicitDeactivate(t *testing.T) {
	m, store, _ := newTestManager(t, dualSnapshot())

	second := dualDefinition()
	second.Name = "Dual Alt"
	if _, err := store.Create(second); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Activate("dual-dev"); err != nil {
		t.Fatal(err)
	}
	active, err := m.Activate("dual-alt")
	if err != nil {
		t.Fatalf("second Activate() error: %v", err)
	}
	if active.Name != "Dual Alt" {
		t.Fatalf("active.Name = %q", active.Name)
	}
}

func TestDeactivate_Idempotent(t *testing.T) {
	m, _, _ := newTestManager(t, dualSnapshot())

	if name, was := m.Deactivate(); was || name != "" {
		t.Fatalf("Deactivate() with nothing active = %q, %v", name, was)
	}

	if _, err := m.Activate("dual-dev"); err != nil {
		t.Fatal(err)
	}
	if name, was := m.Deactivate(); !was || name != "Dual Dev" {
		t.Fatalf("Deactivate() = %q, %v", name, was)
	}
	if name, was := m.Deactivate(); was || name != "" {
		t.Fatalf("second Deactivate() = %q, %v", name, was)
	}
}

func TestCheckValidity_AutoDeactivates(t *testing.T) {
	m, _, _ := newTestManager(t, dualSnapshot())

	if _, err := m.Activate("dual-dev"); err != nil {
		t.Fatal(err)
	}

	// Same topology: stays active.
	m.CheckValidity(dualSnapshot())
	if m.Active() == nil {
		t.Fatal("CheckValidity deactivated a still-compatible layout")
	}

	// Monitor unplugged: deactivates.
	m.CheckValidity(dualSnapshot()[:1])
	if m.Active() != nil {
		t.Fatal("CheckValidity should deactivate on topology change")
	}
}

func TestCheckValidity_DeactivatesOnDeletedFile(t *testing.T) {
	m, store, _ := newTestManager(t, dualSnapshot())

	if _, err := m.Activate("dual-dev"); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(store.Dir(), "dual-dev.json")); err != nil {
		t.Fatal(err)
	}

	m.CheckValidity(dualSnapshot())
	if m.Active() != nil {
		t.Fatal("CheckValidity should deactivate when the layout file is gone")
	}
}

func TestActiveRules_ReadLive(t *testing.T) {
	m, store, _ := newTestManager(t, dualSnapshot())

	// Inactive: no rules, no error.
	resolved, err := m.ActiveRules()
	if err != nil || resolved != nil {
		t.Fatalf("ActiveRules() inactive = %v, %v", resolved, err)
	}

	if _, err := m.Activate("dual-dev"); err != nil {
		t.Fatal(err)
	}

	resolved, err = m.ActiveRules()
	if err != nil {
		t.Fatalf("ActiveRules() error: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("ActiveRules() = %d rules, want 2", len(resolved))
	}
	if resolved[0].TargetMonitorID != "monitor_aa" {
		t.Fatalf("resolved[0] = %+v", resolved[0])
	}

	// Edits to the file are visible without reactivation.
	def := dualDefinition()
	def.Rules = def.Rules[:1]
	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(store.Dir(), "dual-dev.json"), data, 0644); err != nil {
		t.Fatal(err)
	}

	resolved, err = m.ActiveRules()
	if err != nil {
		t.Fatal(err)
	}
	if len(resolved) != 1 {
		t.Fatalf("ActiveRules() after edit = %d rules, want 1", len(resolved))
	}
}

func TestPreview(t *testing.T) {
	m, _, screens := newTestManager(t, dualSnapshot())

	preview, err := m.Preview("dual-dev")
	if err != nil {
		t.Fatalf("Preview() error: %v", err)
	}
	if !preview.CanApply || preview.Reason != "all requirements met" {
		t.Fatalf("Preview = %+v", preview)
	}
	if preview.RulesCount != 2 {
		t.Fatalf("RulesCount = %d", preview.RulesCount)
	}
	if m.Active() != nil {
		t.Fatal("Preview must not activate")
	}

	screens.snap = dualSnapshot()[:1]
	preview, err = m.Preview("dual-dev")
	if err != nil {
		t.Fatal(err)
	}
	if preview.CanApply {
		t.Fatal("Preview should report incompatibility")
	}
	if preview.Reason != "need exactly 2 screen(s), but 1 connected" {
		t.Fatalf("Reason = %q", preview.Reason)
	}
}
