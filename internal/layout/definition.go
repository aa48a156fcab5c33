package layout

import (
	"encoding/json"
	"fmt"

	"github.com/screenyapp/screeny/internal/screen"
)

// MatchType selects which window attribute a rule matches against.
type MatchType string

const (
	MatchExe         MatchType = "exe"
	MatchWindowTitle MatchType = "window_title"
	MatchProcessPath MatchType = "process_path"
)

// UnmarshalJSON rejects unknown match types at decode time.
func (t *MatchType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch MatchType(s) {
	case MatchExe, MatchWindowTitle, MatchProcessPath:
		*t = MatchType(s)
		return nil
	default:
		return fmt.Errorf("unknown match_type %q (must be 'exe', 'window_title' or 'process_path')", s)
	}
}

// PlacementMode is the placement a rule requests for matched windows.
type PlacementMode string

const (
	ModeFullscreen PlacementMode = "fullscreen"
	ModeMaximize   PlacementMode = "maximize"
	ModeMove       PlacementMode = "move"
)

// Rule maps a window-matching clause to a target display and placement mode.
type Rule struct {
	RuleID        string    `json:"rule_id,omitempty"`
	MatchType     MatchType `json:"match_type"`
	MatchValue    string    `json:"match_value"`
	TargetDisplay int       `json:"target_display"`
	Fullscreen    bool      `json:"fullscreen,omitempty"`
	Maximize      bool      `json:"maximize,omitempty"`
}

// Mode derives the placement mode from the rule flags. Fullscreen wins over
// maximize when both are set.
func (r Rule) Mode() PlacementMode {
	switch {
	case r.Fullscreen:
		return ModeFullscreen
	case r.Maximize:
		return ModeMaximize
	default:
		return ModeMove
	}
}

// ScreenRequirement describes one display slot a layout needs.
type ScreenRequirement struct {
	DisplayNumber int                `json:"display_number"`
	Orientation   screen.Orientation `json:"orientation"`
	Description   string             `json:"description,omitempty"`
}

// Requirements is the screen topology a layout requires to activate.
type Requirements struct {
	TotalScreens int                 `json:"total_screens"`
	Screens      []ScreenRequirement `json:"screens"`
}

// Metadata carries optional bookkeeping fields on a layout file.
type Metadata struct {
	Created string   `json:"created,omitempty"`
	Author  string   `json:"author,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Definition is one layout file: a named placement preset tied to a
// required screen topology. Immutable while a layout is active; rules are
// re-read from disk each reconciliation tick.
type Definition struct {
	Name               string       `json:"name"`
	Description        string       `json:"description,omitempty"`
	Version            string       `json:"version,omitempty"`
	ScreenRequirements Requirements `json:"screen_requirements"`
	Rules              []Rule       `json:"rules"`
	Metadata           *Metadata    `json:"metadata,omitempty"`
}

// Validate checks the structural invariants of a layout definition. The
// returned error identifies the offending field.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return &ValidationError{Err: fmt.Errorf("missing required field: name")}
	}
	if d.ScreenRequirements.TotalScreens <= 0 {
		return &ValidationError{Err: fmt.Errorf("screen_requirements.total_screens must be positive")}
	}
	if len(d.ScreenRequirements.Screens) == 0 {
		return &ValidationError{Err: fmt.Errorf("screen_requirements.screens must not be empty")}
	}

	requiredDisplays := make(map[int]bool, len(d.ScreenRequirements.Screens))
	for i, req := range d.ScreenRequirements.Screens {
		if req.DisplayNumber <= 0 {
			return &ValidationError{Err: fmt.Errorf("screens[%d]: display_number must be positive", i)}
		}
		if _, err := screen.ParseOrientation(string(req.Orientation)); err != nil {
			return &ValidationError{Err: fmt.Errorf("screens[%d]: %w", i, err)}
		}
		if requiredDisplays[req.DisplayNumber] {
			return &ValidationError{Err: fmt.Errorf("screens[%d]: duplicate display_number %d", i, req.DisplayNumber)}
		}
		requiredDisplays[req.DisplayNumber] = true
	}

	seenRuleIDs := make(map[string]bool, len(d.Rules))
	for i, rule := range d.Rules {
		if rule.MatchType == "" {
			return &ValidationError{Err: fmt.Errorf("rules[%d]: missing match_type", i)}
		}
		if rule.MatchValue == "" {
			return &ValidationError{Err: fmt.Errorf("rules[%d]: missing match_value", i)}
		}
		if !requiredDisplays[rule.TargetDisplay] {
			return &ValidationError{Err: fmt.Errorf(
				"rules[%d]: targets DISPLAY%d which is not in screen_requirements", i, rule.TargetDisplay)}
		}
		if rule.RuleID != "" {
			if seenRuleIDs[rule.RuleID] {
				return &ValidationError{Err: fmt.Errorf("rules[%d]: duplicate rule_id %q", i, rule.RuleID)}
			}
			seenRuleIDs[rule.RuleID] = true
		}
	}

	return nil
}
