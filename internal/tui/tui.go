package tui

import (
	"fmt"
	"os"

	"github.com/screenyapp/screeny/internal/ipc"
	"github.com/screenyapp/screeny/internal/layout"
	"github.com/screenyapp/screeny/internal/manager"
	"golang.org/x/term"
)

// TUI is an interactive layout browser talking to the daemon over IPC.
type TUI struct {
	client *ipc.Client

	// UI state
	layouts       []layout.Info
	activeLayout  string
	defaultLayout string
	screenSummary string
	selectedIndex int
	preview       *manager.Preview
	lastError     string
	statusMsg     string

	// Terminal state
	oldState *term.State
	width    int
	height   int
}

// New creates a new TUI instance.
func New(client *ipc.Client) *TUI {
	return &TUI{client: client}
}

// Run starts the TUI main loop.
func (t *TUI) Run() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	// The daemon must be reachable before taking over the terminal.
	if err := t.client.Ping(); err != nil {
		return err
	}

	// Enter raw mode
	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	t.oldState = oldState
	defer t.restore()

	t.updateSize()
	t.refresh()
	t.render()

	// Main event loop
	buf := make([]byte, 32)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return err
		}

		if t.handleInput(buf[:n]) {
			break
		}

		t.render()
	}

	return nil
}

func (t *TUI) restore() {
	if t.oldState != nil {
		term.Restore(int(os.Stdin.Fd()), t.oldState)
	}
	// Clear screen and show cursor on exit
	fmt.Print("\x1b[0m")   // reset
	fmt.Print("\x1b[?25h") // show cursor
	fmt.Print("\x1b[2J")   // clear screen
	fmt.Print("\x1b[H")    // home cursor
}

func (t *TUI) updateSize() {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		t.width = 80
		t.height = 24
		return
	}
	t.width = w
	t.height = h
}

// refresh pulls the layout list and daemon status from the daemon.
func (t *TUI) refresh() {
	prevSelected := t.selectedLayoutName()

	data, err := t.client.ListLayouts()
	if err != nil {
		t.lastError = err.Error()
		return
	}

	status, err := t.client.GetStatus()
	if err != nil {
		t.lastError = err.Error()
		return
	}

	t.layouts = data.Layouts
	t.activeLayout = data.ActiveLayout
	t.defaultLayout = data.DefaultLayout
	t.screenSummary = status.ScreenSummary
	t.lastError = ""
	t.preview = nil

	if len(t.layouts) == 0 {
		t.selectedIndex = 0
		return
	}

	// Preserve current selection if it still exists; otherwise select the
	// active layout.
	if prevSelected != "" {
		for i, info := range t.layouts {
			if info.Name == prevSelected {
				t.selectedIndex = i
				return
			}
		}
	}
	for i, info := range t.layouts {
		if info.Name == t.activeLayout {
			t.selectedIndex = i
			return
		}
	}
	t.selectedIndex = 0
}

func (t *TUI) handleInput(input []byte) bool {
	if len(input) == 0 {
		return false
	}

	for len(input) > 0 {
		// Check for escape sequences
		if len(input) >= 3 && input[0] == 0x1b && input[1] == '[' {
			switch input[2] {
			case 'A': // Up arrow
				t.moveSelection(-1)
			case 'B': // Down arrow
				t.moveSelection(1)
			}
			input = input[3:]
			continue
		}

		// Single character commands
		switch input[0] {
		case 'q', 0x1b: // q or Escape
			return true
		case 0x03: // Ctrl+C
			return true
		case 'j': // vim down
			t.moveSelection(1)
		case 'k': // vim up
			t.moveSelection(-1)
		case '\r', 'a': // Enter or a: activate
			t.activateSelected()
		case 'd':
			t.deactivate()
		case 'p':
			t.previewSelected()
		case 'r':
			t.refresh()
		}

		input = input[1:]
	}

	return false
}

func (t *TUI) moveSelection(delta int) {
	if len(t.layouts) == 0 {
		return
	}
	t.preview = nil
	t.selectedIndex += delta
	if t.selectedIndex < 0 {
		t.selectedIndex = len(t.layouts) - 1
	} else if t.selectedIndex >= len(t.layouts) {
		t.selectedIndex = 0
	}
}

func (t *TUI) activateSelected() {
	name := t.selectedLayoutName()
	if name == "" {
		return
	}

	if _, err := t.client.ActivateLayout(name); err != nil {
		t.lastError = err.Error()
		return
	}
	t.statusMsg = fmt.Sprintf("activated %q", name)
	t.refresh()
}

func (t *TUI) deactivate() {
	data, err := t.client.DeactivateLayout()
	if err != nil {
		t.lastError = err.Error()
		return
	}
	if data.Deactivated {
		t.statusMsg = fmt.Sprintf("deactivated %q", data.Layout)
	} else {
		t.statusMsg = "no active layout"
	}
	t.refresh()
}

func (t *TUI) previewSelected() {
	name := t.selectedLayoutName()
	if name == "" {
		return
	}

	preview, err := t.client.PreviewLayout(name)
	if err != nil {
		t.lastError = err.Error()
		return
	}
	t.preview = preview
	t.lastError = ""
}

func (t *TUI) selectedLayout() *layout.Info {
	if len(t.layouts) == 0 {
		return nil
	}
	return &t.layouts[t.selectedIndex]
}

func (t *TUI) selectedLayoutName() string {
	if len(t.layouts) == 0 {
		return ""
	}
	return t.layouts[t.selectedIndex].Name
}
