package rules

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/screenyapp/screeny/internal/layout"
	"github.com/screenyapp/screeny/internal/platform"
)

// Resolved is a layout rule with its target display resolved to a stable
// monitor ID against the activation-time display map.
type Resolved struct {
	RuleID          string               `json:"rule_id"`
	MatchType       layout.MatchType     `json:"match_type"`
	MatchValue      string               `json:"match_value"`
	TargetDisplay   int                  `json:"target_display"`
	TargetMonitorID string               `json:"target_monitor_id"`
	Mode            layout.PlacementMode `json:"mode"`
}

// NormalizeExe canonicalizes an executable name for comparison: trimmed,
// lowercased, with an ".exe" suffix appended when missing. Empty input stays
// empty.
func NormalizeExe(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	if !strings.HasSuffix(name, ".exe") {
		name += ".exe"
	}
	return name
}

// Matches reports whether a window satisfies a rule's matching clause.
// Executable names compare for normalized equality; titles and process paths
// match on case-insensitive containment.
func Matches(w platform.Window, matchType layout.MatchType, matchValue string) bool {
	switch matchType {
	case layout.MatchExe:
		return NormalizeExe(w.ExeName) == NormalizeExe(matchValue)
	case layout.MatchWindowTitle:
		return matchValue != "" &&
			strings.Contains(strings.ToLower(w.Title), strings.ToLower(matchValue))
	case layout.MatchProcessPath:
		return matchValue != "" &&
			strings.Contains(strings.ToLower(w.ProcessPath), strings.ToLower(matchValue))
	default:
		return false
	}
}

// FindMatchingRule returns the first rule, in file order, that matches the
// window, or nil when none does.
func FindMatchingRule(w platform.Window, resolved []Resolved) *Resolved {
	for i := range resolved {
		if Matches(w, resolved[i].MatchType, resolved[i].MatchValue) {
			return &resolved[i]
		}
	}
	return nil
}

// Resolve maps each rule's target display through the display map captured
// at activation. Rules targeting a display missing from the map are skipped
// with a warning; rules without an explicit rule_id get a generated one so
// the placement log can reference them.
func Resolve(defRules []layout.Rule, displayMap map[int]string, logger *slog.Logger) []Resolved {
	resolved := make([]Resolved, 0, len(defRules))
	for _, rule := range defRules {
		monitorID, ok := displayMap[rule.TargetDisplay]
		if !ok || monitorID == "" {
			logger.Warn("rule targets unmapped display, skipping",
				"rule_id", rule.RuleID, "target_display", rule.TargetDisplay)
			continue
		}

		ruleID := rule.RuleID
		if ruleID == "" {
			ruleID = newRuleID()
		}

		resolved = append(resolved, Resolved{
			RuleID:          ruleID,
			MatchType:       rule.MatchType,
			MatchValue:      rule.MatchValue,
			TargetDisplay:   rule.TargetDisplay,
			TargetMonitorID: monitorID,
			Mode:            rule.Mode(),
		})
	}
	return resolved
}

func newRuleID() string {
	var buf [4]byte
	rand.Read(buf[:])
	return "rule_" + hex.EncodeToString(buf[:])
}
