package x11

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ProcessPath resolves the executable path for a PID via /proc.
// Returns "" when the PID is unknown or the process is gone.
func ProcessPath(pid int) string {
	if pid <= 0 {
		return ""
	}
	path, err := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid))
	if err != nil {
		return ""
	}
	// The kernel appends this marker when the binary was replaced on disk.
	return strings.TrimSuffix(path, " (deleted)")
}

// ExeName returns the base name of a process path.
func ExeName(processPath string) string {
	if processPath == "" {
		return ""
	}
	return filepath.Base(processPath)
}
