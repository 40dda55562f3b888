package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the transcript pane and status bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	if width <= 0 {
		width = 80
	}
	height := m.height
	if height <= 0 {
		height = 24
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("shannon"))
	if m.model != "" {
		b.WriteString(subtleStyle.Render("  " + m.model))
	}
	b.WriteString("\n")

	// Transcript pane fills everything between title and status bar.
	paneHeight := height - 4
	if paneHeight < 3 {
		paneHeight = 3
	}
	b.WriteString(m.renderPane(width-2, paneHeight))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	return b.String()
}

func (m Model) renderPane(width, height int) string {
	var rendered []string
	for _, l := range m.lines {
		rendered = append(rendered, styleFor(l.kind).Width(width-4).Render(l.text))
	}
	if m.partial != "" {
		rendered = append(rendered, assistantStyle.Width(width-4).Render(m.partial))
	}

	// Keep the tail visible.
	joined := strings.Split(strings.Join(rendered, "\n"), "\n")
	if len(joined) > height {
		joined = joined[len(joined)-height:]
	}

	return paneBorder.Width(width).Height(height).Render(strings.Join(joined, "\n"))
}

func (m Model) renderStatus() string {
	elapsed := time.Since(m.startTime).Round(time.Second)

	if m.done {
		style := successStyle
		if !m.success {
			style = errorStyle
		}
		return statusBar.Render(style.Render(m.finalMsg))
	}

	status := fmt.Sprintf("turn %d/%d · %s", m.turn, m.maxTurns, elapsed)
	if m.waiting {
		status = m.spinner.View() + " " + status
	}
	return statusBar.Render(status) + subtleStyle.Render("  q to abort")
}

func styleFor(kind lineKind) lipgloss.Style {
	switch kind {
	case lineUser:
		return userStyle
	case lineTurn:
		return turnStyle
	case lineTool:
		return toolStyle
	case lineError:
		return errorStyle
	case lineInfo:
		return subtleStyle
	default:
		return assistantStyle
	}
}
