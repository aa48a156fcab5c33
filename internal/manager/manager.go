package manager

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/screenyapp/screeny/internal/layout"
	"github.com/screenyapp/screeny/internal/rules"
	"github.com/screenyapp/screeny/internal/screen"
)

// ScreenSource provides fresh screen snapshots for activation checks.
type ScreenSource interface {
	Detect() (screen.Snapshot, error)
}

// CompatibilityError reports a layout whose screen requirements are not met
// by the current configuration.
type CompatibilityError struct {
	Reason string
}

func (e *CompatibilityError) Error() string {
	return "screen configuration doesn't match layout requirements: " + e.Reason
}

// Active is the in-memory record of the currently active layout. It is not
// persisted; a daemon restart always comes up with no active layout.
type Active struct {
	Name        string         `json:"name"`
	FileName    string         `json:"file_name"`
	ActivatedAt time.Time      `json:"activated_at"`
	DisplayMap  map[int]string `json:"display_map"`
}

// Preview is the dry-run activation report for a layout.
type Preview struct {
	Name          string              `json:"name"`
	FileName      string              `json:"file_name"`
	Description   string              `json:"description,omitempty"`
	CanApply      bool                `json:"can_apply"`
	Reason        string              `json:"reason"`
	Requirements  layout.Requirements `json:"requirements"`
	CurrentConfig string              `json:"current_config"`
	RulesCount    int                 `json:"rules_count"`
}

// Manager owns the active-layout state machine. At most one layout is active
// at a time; activating over an already active layout implicitly deactivates
// it first.
type Manager struct {
	store   *layout.Store
	screens ScreenSource
	logger  *slog.Logger

	mu       sync.Mutex
	active   *Active
	onChange func()
}

// New creates a manager over the given layout store and screen source.
func New(store *layout.Store, screens ScreenSource, logger *slog.Logger) *Manager {
	return &Manager{
		store:   store,
		screens: screens,
		logger:  logger,
	}
}

// OnChange registers a callback invoked after every activation or
// deactivation. Used to trigger an immediate reconciliation pass.
func (m *Manager) OnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Compatible checks a layout's screen requirements against a snapshot. The
// returned reason is deterministic: the screen-count check runs first, then
// presence and orientation per required display in file order.
func Compatible(req layout.Requirements, snap screen.Snapshot) (bool, string) {
	if len(snap) != req.TotalScreens {
		return false, fmt.Sprintf("need exactly %d screen(s), but %d connected",
			req.TotalScreens, len(snap))
	}

	for _, want := range req.Screens {
		got, ok := snap.ByDisplay(want.DisplayNumber)
		if !ok {
			return false, fmt.Sprintf("DISPLAY%d not found (required for layout)", want.DisplayNumber)
		}
		if got.Orientation != want.Orientation {
			return false, fmt.Sprintf("DISPLAY%d is %s, but layout needs %s",
				want.DisplayNumber, got.Orientation, want.Orientation)
		}
	}

	return true, "all requirements met"
}

// Activate validates the named layout against a fresh snapshot and makes it
// the active layout. An already active layout is implicitly deactivated
// first, whether or not the new activation succeeds its compatibility check.
func (m *Manager) Activate(name string) (*Active, error) {
	def, err := m.store.Load(name)
	if err != nil {
		return nil, err
	}

	snap, err := m.screens.Detect()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.active != nil {
		m.logger.Info("deactivating current layout before activation",
			"previous", m.active.Name, "next", def.Name)
		m.active = nil
	}

	ok, reason := Compatible(def.ScreenRequirements, snap)
	if !ok {
		m.mu.Unlock()
		m.notifyChange()
		return nil, &CompatibilityError{Reason: reason}
	}

	displayMap := make(map[int]string, len(def.ScreenRequirements.Screens))
	fullMap := snap.DisplayMap()
	for _, req := range def.ScreenRequirements.Screens {
		displayMap[req.DisplayNumber] = fullMap[req.DisplayNumber]
	}

	active := &Active{
		Name:        def.Name,
		FileName:    fileNameFor(name),
		ActivatedAt: time.Now(),
		DisplayMap:  displayMap,
	}
	m.active = active
	m.mu.Unlock()

	m.logger.Info("layout activated", "layout", active.Name, "displays", len(displayMap))
	m.notifyChange()

	return active, nil
}

// Deactivate clears the active layout. Windows keep their current placement;
// nothing is restored. Idempotent: deactivating with no active layout is a
// no-op. Returns the previous layout name and whether one was active.
func (m *Manager) Deactivate() (string, bool) {
	m.mu.Lock()
	if m.active == nil {
		m.mu.Unlock()
		return "", false
	}
	name := m.active.Name
	m.active = nil
	m.mu.Unlock()

	m.logger.Info("layout deactivated", "layout", name)
	m.notifyChange()
	return name, true
}

// Active returns a copy of the active-layout record, or nil when inactive.
func (m *Manager) Active() *Active {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return nil
	}
	cp := *m.active
	cp.DisplayMap = make(map[int]string, len(m.active.DisplayMap))
	for k, v := range m.active.DisplayMap {
		cp.DisplayMap[k] = v
	}
	return &cp
}

// CheckValidity auto-deactivates the active layout when the snapshot no
// longer satisfies its screen requirements. The definition is re-read from
// disk, so a layout file deleted or broken mid-session also deactivates.
func (m *Manager) CheckValidity(snap screen.Snapshot) {
	active := m.Active()
	if active == nil {
		return
	}

	def, err := m.store.Load(active.FileName)
	if err != nil {
		m.logger.Warn("active layout no longer loadable, deactivating",
			"layout", active.Name, "error", err)
		m.Deactivate()
		return
	}

	if ok, reason := Compatible(def.ScreenRequirements, snap); !ok {
		m.logger.Warn("screen configuration no longer matches active layout, deactivating",
			"layout", active.Name, "reason", reason)
		m.Deactivate()
	}
}

// ActiveRules re-reads the active layout file and resolves its rules against
// the display map captured at activation. Edits to the layout file take
// effect on the next call without reactivation. Returns nil when inactive.
func (m *Manager) ActiveRules() ([]rules.Resolved, error) {
	active := m.Active()
	if active == nil {
		return nil, nil
	}

	def, err := m.store.Load(active.FileName)
	if err != nil {
		return nil, err
	}

	return rules.Resolve(def.Rules, active.DisplayMap, m.logger), nil
}

// Preview reports whether the named layout could activate right now, without
// changing any state.
func (m *Manager) Preview(name string) (*Preview, error) {
	def, err := m.store.Load(name)
	if err != nil {
		return nil, err
	}

	snap, err := m.screens.Detect()
	if err != nil {
		return nil, err
	}

	ok, reason := Compatible(def.ScreenRequirements, snap)
	return &Preview{
		Name:          def.Name,
		FileName:      fileNameFor(name),
		Description:   def.Description,
		CanApply:      ok,
		Reason:        reason,
		Requirements:  def.ScreenRequirements,
		CurrentConfig: snap.Summary(),
		RulesCount:    len(def.Rules),
	}, nil
}

func (m *Manager) notifyChange() {
	m.mu.Lock()
	fn := m.onChange
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func fileNameFor(name string) string {
	if len(name) >= 5 && name[len(name)-5:] == ".json" {
		return name
	}
	return name + ".json"
}
