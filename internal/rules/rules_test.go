package rules

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/screenyapp/screeny/internal/layout"
	"github.com/screenyapp/screeny/internal/platform"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNormalizeExe(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Code.exe", "code.exe"},
		{"code", "code.exe"},
		{"  FIREFOX  ", "firefox.exe"},
		{"chrome.EXE", "chrome.exe"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := NormalizeExe(c.in); got != c.want {
			t.Errorf("NormalizeExe(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMatches(t *testing.T) {
	w := platform.Window{
		Title:       "main.go - Visual Studio Code",
		ExeName:     "code",
		ProcessPath: "/usr/share/code/code",
	}

	if !Matches(w, layout.MatchExe, "Code.exe") {
		t.Error("exe match should be case-insensitive and suffix-normalized")
	}
	if Matches(w, layout.MatchExe, "codex") {
		t.Error("exe match requires equality, not containment")
	}

	if !Matches(w, layout.MatchWindowTitle, "visual studio") {
		t.Error("title match should be case-insensitive containment")
	}
	if Matches(w, layout.MatchWindowTitle, "emacs") {
		t.Error("title match should fail for absent substring")
	}
	if Matches(w, layout.MatchWindowTitle, "") {
		t.Error("empty title pattern should never match")
	}

	if !Matches(w, layout.MatchProcessPath, "/usr/share/CODE") {
		t.Error("process path match should be case-insensitive containment")
	}

	if Matches(w, layout.MatchType("glob"), "code") {
		t.Error("unknown match type should never match")
	}
}

func TestFindMatchingRule_FileOrder(t *testing.T) {
	w := platform.Window{Title: "terminal", ExeName: "kitty"}

	resolved := []Resolved{
		{RuleID: "first", MatchType: layout.MatchWindowTitle, MatchValue: "term"},
		{RuleID: "second", MatchType: layout.MatchExe, MatchValue: "kitty"},
	}

	got := FindMatchingRule(w, resolved)
	if got == nil || got.RuleID != "first" {
		t.Fatalf("FindMatchingRule = %v, want rule %q", got, "first")
	}

	if got := FindMatchingRule(platform.Window{Title: "other"}, resolved); got != nil {
		t.Fatalf("FindMatchingRule on non-matching window = %v, want nil", got)
	}
}

func TestResolve(t *testing.T) {
	defRules := []layout.Rule{
		{RuleID: "browser", MatchType: layout.MatchExe, MatchValue: "firefox", TargetDisplay: 1, Fullscreen: true},
		{MatchType: layout.MatchWindowTitle, MatchValue: "slack", TargetDisplay: 2, Maximize: true},
		{RuleID: "orphan", MatchType: layout.MatchExe, MatchValue: "spotify", TargetDisplay: 3},
	}
	displayMap := map[int]string{1: "monitor_aa", 2: "monitor_bb"}

	resolved := Resolve(defRules, displayMap, discardLogger())

	if len(resolved) != 2 {
		t.Fatalf("Resolve returned %d rules, want 2 (unmapped display skipped)", len(resolved))
	}

	if resolved[0].RuleID != "browser" || resolved[0].TargetMonitorID != "monitor_aa" {
		t.Fatalf("resolved[0] = %+v", resolved[0])
	}
	if resolved[0].Mode != layout.ModeFullscreen {
		t.Fatalf("resolved[0].Mode = %q, want fullscreen", resolved[0].Mode)
	}

	if resolved[1].TargetMonitorID != "monitor_bb" || resolved[1].Mode != layout.ModeMaximize {
		t.Fatalf("resolved[1] = %+v", resolved[1])
	}
	if !strings.HasPrefix(resolved[1].RuleID, "rule_") {
		t.Fatalf("generated rule ID %q should have rule_ prefix", resolved[1].RuleID)
	}
}
