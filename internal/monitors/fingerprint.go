package monitors

import "fmt"

// Fingerprint identifies a physical monitor across detection order changes,
// reconnections, and restarts.
//
// Primary combines the output connector name with the resolution; connector
// names are stable across reboots on the same hardware. Secondary is the
// resolution alone, which still matches when the connector changes (monitor
// re-plugged into a different port).
type Fingerprint struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// FingerprintFor generates the fingerprint for a detected monitor.
func FingerprintFor(name string, width, height int) Fingerprint {
	resolution := fmt.Sprintf("%dx%d", width, height)
	primary := resolution
	if name != "" {
		primary = fmt.Sprintf("%s_%s", name, resolution)
	}
	return Fingerprint{
		Primary:   primary,
		Secondary: resolution,
	}
}

// Matches compares two fingerprints hierarchically: connector+resolution
// first, resolution alone as the fallback. The returned reason says which
// level matched.
func (f Fingerprint) Matches(other Fingerprint) (bool, string) {
	if f.Primary == other.Primary {
		return true, "connector_and_resolution_match"
	}
	if f.Secondary == other.Secondary {
		return true, "resolution_match"
	}
	return false, "no_match"
}
