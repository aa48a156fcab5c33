package monitors

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/screenyapp/screeny/internal/platform"
)

// NotFoundError reports a monitor ID absent from the history.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("monitor %q not found", e.ID)
}

// Monitor is one entry of the known-monitors history. Identity is stable
// across reconnections through fingerprint matching; entries are never
// removed automatically, only by explicit prune.
type Monitor struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Width         int         `json:"width"`
	Height        int         `json:"height"`
	X             int         `json:"x"`
	Y             int         `json:"y"`
	Primary       bool        `json:"is_primary"`
	FirstDetected time.Time   `json:"first_detected"`
	LastConnected time.Time   `json:"last_connected"`
	Fingerprints  Fingerprint `json:"fingerprints"`
}

// Settings holds the user preferences stored alongside the monitor history.
type Settings struct {
	DefaultLayout string `json:"default_layout"`
}

type registryFile struct {
	KnownMonitors []*Monitor `json:"known_monitors"`
	Settings      Settings   `json:"settings"`
}

// Registry persists the known-monitors history as a JSON file and assigns
// stable IDs to detected displays.
type Registry struct {
	path   string
	logger *slog.Logger

	mu        sync.Mutex
	file      registryFile
	lastSaved []byte
	now       func() time.Time
}

// Open loads the registry from path, creating an empty one if the file does
// not exist.
func Open(path string, logger *slog.Logger) (*Registry, error) {
	r := &Registry{
		path:   path,
		logger: logger,
		now:    time.Now,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("failed to read monitor registry %q: %w", path, err)
	}

	if err := json.Unmarshal(data, &r.file); err != nil {
		return nil, fmt.Errorf("failed to parse monitor registry %q: %w", path, err)
	}
	r.lastSaved = data

	return r, nil
}

// Observe records a detected display: a fingerprint match against a known
// monitor reuses its ID and refreshes the dynamic fields, otherwise a new
// entry is appended. Returns the stable monitor ID.
func (r *Registry) Observe(d platform.Display) (string, error) {
	if d.Bounds.Width <= 0 || d.Bounds.Height <= 0 {
		return "", fmt.Errorf("invalid monitor dimensions %dx%d", d.Bounds.Width, d.Bounds.Height)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	fp := FingerprintFor(d.Name, d.Bounds.Width, d.Bounds.Height)
	now := r.now()

	for _, known := range r.file.KnownMonitors {
		match, reason := fp.Matches(known.Fingerprints)
		if !match {
			continue
		}

		r.logger.Debug("monitor matched", "id", known.ID, "reason", reason)
		known.Name = d.Name
		known.Width = d.Bounds.Width
		known.Height = d.Bounds.Height
		known.X = d.Bounds.X
		known.Y = d.Bounds.Y
		known.Primary = d.Primary
		known.LastConnected = now
		known.Fingerprints = fp

		if err := r.saveLocked(); err != nil {
			return "", err
		}
		return known.ID, nil
	}

	mon := &Monitor{
		ID:            newMonitorID(),
		Name:          d.Name,
		Width:         d.Bounds.Width,
		Height:        d.Bounds.Height,
		X:             d.Bounds.X,
		Y:             d.Bounds.Y,
		Primary:       d.Primary,
		FirstDetected: now,
		LastConnected: now,
		Fingerprints:  fp,
	}
	r.file.KnownMonitors = append(r.file.KnownMonitors, mon)

	if err := r.saveLocked(); err != nil {
		return "", err
	}

	r.logger.Info("new monitor recorded", "id", mon.ID, "name", mon.Name,
		"fingerprint", mon.Fingerprints.Primary)
	return mon.ID, nil
}

// Known returns a copy of all known monitors.
func (r *Registry) Known() []Monitor {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Monitor, 0, len(r.file.KnownMonitors))
	for _, m := range r.file.KnownMonitors {
		out = append(out, *m)
	}
	return out
}

// Get returns a known monitor by ID.
func (r *Registry) Get(monitorID string) (Monitor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.file.KnownMonitors {
		if m.ID == monitorID {
			return *m, true
		}
	}
	return Monitor{}, false
}

// Prune removes a monitor from the history. This is the only deletion path.
func (r *Registry) Prune(monitorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, m := range r.file.KnownMonitors {
		if m.ID == monitorID {
			r.file.KnownMonitors = append(r.file.KnownMonitors[:i], r.file.KnownMonitors[i+1:]...)
			if err := r.saveLocked(); err != nil {
				return err
			}
			r.logger.Info("monitor pruned", "id", monitorID)
			return nil
		}
	}
	return &NotFoundError{ID: monitorID}
}

// DefaultLayout returns the configured default layout name ("" when unset).
func (r *Registry) DefaultLayout() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Settings.DefaultLayout
}

// SetDefaultLayout updates the default layout setting.
func (r *Registry) SetDefaultLayout(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.file.Settings.DefaultLayout = name
	return r.saveLocked()
}

// saveLocked writes the registry file, skipping the write when the
// serialized content is unchanged. Caller must hold r.mu.
func (r *Registry) saveLocked() error {
	data, err := json.MarshalIndent(&r.file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode monitor registry: %w", err)
	}
	data = append(data, '\n')

	if bytes.Equal(data, r.lastSaved) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write monitor registry %q: %w", r.path, err)
	}
	r.lastSaved = data
	return nil
}

func newMonitorID() string {
	var buf [4]byte
	rand.Read(buf[:])
	return "monitor_" + hex.EncodeToString(buf[:])
}
