package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/cellbuf"
)

var (
	priorityColors = map[string]lipgloss.Color{
		"priority-high":   lipgloss.Color("196"),
		"priority-medium": lipgloss.Color("214"),
		"priority-low":    lipgloss.Color("42"),
	}
	classStyles = map[string]lipgloss.Style{
		"task-title":       lipgloss.NewStyle().Bold(true),
		"task-description": lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		"task-due":         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		"task-status":      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"task-delete":      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		"task-empty":       lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		"nav-greeting":     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		"nav-action":       lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true),
	}
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			PaddingLeft(1)
)

// cardInset is the columns a card's left border and padding take.
const cardInset = 2

// Paint renders a node tree as styled terminal text no wider than width.
// Descriptions wrap; every other text is truncated with an ellipsis.
// width <= 0 disables both.
func Paint(n Node, width int) string {
	var parts []string
	if n.Text != "" {
		s := n.Text
		if n.Tag == "button" {
			s = "[" + s + "]"
		}
		switch {
		case width <= 0:
		case n.HasClass("task-description"):
			s = cellbuf.Wrap(s, width, "")
		default:
			s = ansi.Truncate(s, width, "…")
		}
		parts = append(parts, styleFor(n).Render(s))
	}

	inner := width
	card := n.HasClass("task-card")
	if card && width > cardInset {
		inner = width - cardInset
	}
	for _, c := range n.Children {
		if p := Paint(c, inner); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}

	var out string
	switch {
	case inline(n):
		out = strings.Join(parts, "  ")
		if width > 0 {
			out = ansi.Truncate(out, width, "…")
		}
	case n.HasClass("task-list"):
		out = strings.Join(parts, "\n\n")
	default:
		out = lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	if card {
		style := cardStyle
		if c, ok := priorityColor(n); ok {
			style = style.BorderForeground(c)
		}
		out = style.Render(out)
	}
	return out
}

func inline(n Node) bool {
	return n.Tag == "nav" || n.HasClass("task-stats") || n.HasClass("task-actions")
}

func styleFor(n Node) lipgloss.Style {
	for _, c := range strings.Fields(n.Class) {
		if s, ok := classStyles[c]; ok {
			return s
		}
	}
	if c, ok := priorityColor(n); ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle()
}

func priorityColor(n Node) (lipgloss.Color, bool) {
	for _, c := range strings.Fields(n.Class) {
		if color, ok := priorityColors[c]; ok {
			return color, true
		}
	}
	return "", false
}
