package tui

import (
	"fmt"
	"strings"
)

// ANSI escape codes
const (
	escClear      = "\x1b[2J"
	escHome       = "\x1b[H"
	escHideCursor = "\x1b[?25l"
	escBold       = "\x1b[1m"
	escDim        = "\x1b[2m"
	escReset      = "\x1b[0m"
	escReverse    = "\x1b[7m"
	escCyan       = "\x1b[36m"
	escYellow     = "\x1b[33m"
	escRed        = "\x1b[31m"
	escGreen      = "\x1b[32m"
)

func (t *TUI) render() {
	t.updateSize()

	var sb strings.Builder

	// Hide cursor during render
	sb.WriteString(escHideCursor)
	sb.WriteString(escReset)
	sb.WriteString(escClear)
	sb.WriteString(escHome)

	const (
		sepWidth     = 3 // " │ "
		maxListWidth = 30
		minListWidth = 10
		headerLines  = 2 // title + divider
		footerLines  = 3 // divider + status + footer
	)

	width := t.width
	height := t.height
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	listWidth := width / 3
	if listWidth > maxListWidth {
		listWidth = maxListWidth
	}
	if listWidth < minListWidth {
		listWidth = minListWidth
	}

	detailWidth := width - listWidth - sepWidth
	if detailWidth < 1 {
		detailWidth = 1
	}

	contentHeight := height - headerLines - footerLines
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Header
	sb.WriteString(escBold)
	sb.WriteString(escCyan)
	sb.WriteString(centerText("screeny layouts", width))
	sb.WriteString(escReset)
	sb.WriteString("\r\n")

	// Divider
	sb.WriteString(strings.Repeat("─", width))
	sb.WriteString("\r\n")

	listLines := t.renderLayoutList(listWidth, contentHeight)
	detailLines := t.renderDetails(detailWidth, contentHeight)

	for i := 0; i < contentHeight; i++ {
		if i < len(listLines) {
			sb.WriteString(listLines[i])
		} else {
			sb.WriteString(strings.Repeat(" ", listWidth))
		}

		sb.WriteString(" │ ")

		if i < len(detailLines) {
			sb.WriteString(detailLines[i])
		}

		sb.WriteString("\r\n")
	}

	// Divider
	sb.WriteString(strings.Repeat("─", width))
	sb.WriteString("\r\n")

	// Status line
	sb.WriteString(truncateANSI(t.renderStatus(), width))
	sb.WriteString("\r\n")

	// Footer with keybindings
	sb.WriteString(truncateANSI(t.renderFooter(), width))

	fmt.Print(sb.String())
}

func (t *TUI) renderLayoutList(width, height int) []string {
	lines := make([]string, 0, height)

	title := escBold + "Layouts" + escReset
	lines = append(lines, padRight(title, width))

	if len(t.layouts) == 0 {
		lines = append(lines, padRight(escDim+"(no layouts)"+escReset, width))
		return lines
	}

	for i, info := range t.layouts {
		if len(lines) >= height {
			break
		}

		isActive := info.Name == t.activeLayout
		isDefault := info.Name == t.defaultLayout
		isSelected := i == t.selectedIndex

		prefix := "  "
		if isActive {
			prefix = escGreen + "● " + escReset
		} else if isDefault {
			prefix = escYellow + "* " + escReset
		}

		displayName := info.Name
		if len(displayName) > width-4 {
			displayName = displayName[:width-7] + "..."
		}

		var line string
		if isSelected {
			line = escReverse + prefix + displayName + escReset
		} else {
			line = prefix + displayName
		}

		lines = append(lines, padRight(line, width))
	}

	return lines
}

func (t *TUI) renderDetails(width, height int) []string {
	info := t.selectedLayout()
	if info == nil {
		lines := make([]string, height)
		for i := range lines {
			lines[i] = strings.Repeat(" ", width)
		}
		return lines
	}

	lines := make([]string, 0, height)
	add := func(s string) {
		if len(lines) < height {
			lines = append(lines, padRight(truncateANSI(s, width), width))
		}
	}

	add(escBold + info.Name + escReset)
	if info.Description != "" {
		add(escDim + info.Description + escReset)
	}
	add("")
	add(fmt.Sprintf("File:    %s", info.FileName))
	add(fmt.Sprintf("Screens: %d", info.TotalScreens))

	if t.preview != nil && t.preview.Name == info.Name {
		add("")
		if t.preview.CanApply {
			add(escGreen + "can apply" + escReset)
		} else {
			add(escRed + "cannot apply" + escReset)
		}
		add(fmt.Sprintf("Reason:  %s", t.preview.Reason))
		add(fmt.Sprintf("Rules:   %d", t.preview.RulesCount))
		add(fmt.Sprintf("Current: %s", t.preview.CurrentConfig))
	} else {
		add("")
		add(escDim + "press p to check compatibility" + escReset)
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return lines
}

func (t *TUI) renderStatus() string {
	if t.lastError != "" {
		return fmt.Sprintf("%sError: %s%s", escRed, t.lastError, escReset)
	}

	parts := []string{}
	if t.activeLayout != "" {
		parts = append(parts, fmt.Sprintf("Active: %s%s%s", escGreen, t.activeLayout, escReset))
	} else {
		parts = append(parts, escDim+"No active layout"+escReset)
	}
	if t.screenSummary != "" {
		parts = append(parts, t.screenSummary)
	}
	if t.statusMsg != "" {
		parts = append(parts, escDim+t.statusMsg+escReset)
	}
	return strings.Join(parts, "  |  ")
}

func (t *TUI) renderFooter() string {
	keys := []string{
		"j/k/↑/↓:nav", "enter/a:activate", "d:deactivate", "p:preview", "r:refresh", "q/esc/^C:quit",
	}
	return escDim + strings.Join(keys, "  ") + escReset
}

func centerText(text string, width int) string {
	visibleLen := visibleLength(text)
	if visibleLen >= width {
		return text
	}
	padding := (width - visibleLen) / 2
	return strings.Repeat(" ", padding) + text
}

func padRight(text string, width int) string {
	visibleLen := visibleLength(text)
	if visibleLen >= width {
		return text
	}
	return text + strings.Repeat(" ", width-visibleLen)
}

// visibleLength returns the visible length of a string, ignoring ANSI codes.
func visibleLength(s string) int {
	inEscape := false
	length := 0
	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		length++
	}
	return length
}

func truncateANSI(text string, width int) string {
	if width < 1 {
		return ""
	}
	if visibleLength(text) <= width {
		return text
	}

	var sb strings.Builder
	inEscape := false
	visible := 0
	for _, r := range text {
		if r == '\x1b' {
			inEscape = true
			sb.WriteRune(r)
			continue
		}
		if inEscape {
			sb.WriteRune(r)
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}

		if visible >= width-1 {
			break
		}
		sb.WriteRune(r)
		visible++
	}

	sb.WriteString("…")
	sb.WriteString(escReset)
	return sb.String()
}
