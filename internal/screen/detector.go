package screen

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/screenyapp/screeny/internal/platform"
)

// MonitorRegistry assigns stable monitor IDs to detected displays.
type MonitorRegistry interface {
	Observe(d platform.Display) (string, error)
}

// Detector enumerates connected monitors and exposes a normalized snapshot.
// Detection runs on its own cadence, independent of the placement cadence;
// Current returns the most recent snapshot in between.
type Detector struct {
	backend  platform.Backend
	registry MonitorRegistry
	logger   *slog.Logger

	mu      sync.RWMutex
	current Snapshot
}

// NewDetector creates a detector over the given backend and registry.
func NewDetector(backend platform.Backend, registry MonitorRegistry, logger *slog.Logger) *Detector {
	return &Detector{
		backend:  backend,
		registry: registry,
		logger:   logger,
	}
}

// Detect queries the OS for connected monitors, records them in the
// registry, and returns the fresh snapshot ordered by display number.
// Display numbers mirror the OS-assigned slot (1-based) and are stable for
// a given physical monitor within one boot session.
func (d *Detector) Detect() (Snapshot, error) {
	displays, err := d.backend.Displays()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate displays: %w", err)
	}

	snap := make(Snapshot, 0, len(displays))
	for _, disp := range displays {
		monitorID, err := d.registry.Observe(disp)
		if err != nil {
			d.logger.Warn("failed to record monitor", "name", disp.Name, "error", err)
			continue
		}

		snap = append(snap, Screen{
			DisplayNumber: disp.ID + 1,
			Orientation:   OrientationOf(disp.Bounds.Width, disp.Bounds.Height),
			MonitorID:     monitorID,
			Name:          disp.Name,
			Width:         disp.Bounds.Width,
			Height:        disp.Bounds.Height,
			Primary:       disp.Primary,
			Bounds:        disp.Bounds,
			WorkArea:      disp.Usable,
		})
	}

	// Displays() already orders by slot, so the snapshot is ordered by
	// display number.

	d.mu.Lock()
	prev := d.current
	d.current = snap
	d.mu.Unlock()

	if Changed(prev, snap) {
		d.logger.Info("screen configuration changed", "screens", snap.Summary())
	} else {
		d.logger.Debug("screen configuration unchanged", "screens", snap.Summary())
	}

	return snap, nil
}

// Current returns the most recent snapshot without touching the OS.
func (d *Detector) Current() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current
}

// Windows lists the current top-level windows with their monitor resolved
// against the most recent snapshot.
func (d *Detector) Windows() ([]platform.Window, error) {
	windows, err := d.backend.ListWindows()
	if err != nil {
		return nil, fmt.Errorf("failed to list windows: %w", err)
	}

	snap := d.Current()
	for i := range windows {
		centerX := windows[i].Bounds.X + windows[i].Bounds.Width/2
		centerY := windows[i].Bounds.Y + windows[i].Bounds.Height/2
		if scr, ok := snap.MonitorAt(centerX, centerY); ok {
			windows[i].MonitorID = scr.MonitorID
		}
	}

	return windows, nil
}
