// Package output provides styled terminal output helpers (success, error,
// warning, task formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/tmc/internal/models"
	"github.com/marcus/tmc/internal/view"
)

var (
	// Styles
	titleStyle     = lipgloss.NewStyle().Bold(true)
	subtleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	priorityStyles = map[models.Priority]lipgloss.Style{
		models.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		models.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
	toastStyles = map[view.Kind]lipgloss.Style{
		view.KindSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("28")).Padding(0, 1),
		view.KindError:   lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("160")).Padding(0, 1),
	}
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Error codes for structured JSON output
const (
	ErrCodeNotFound         = "not_found"
	ErrCodeInvalidInput     = "invalid_input"
	ErrCodeNotAuthenticated = "not_authenticated"
	ErrCodeNetwork          = "network_error"
	ErrCodeServer           = "server_error"
)

// JSONError outputs an error as JSON
func JSONError(code, message string) {
	data, _ := json.Marshal(map[string]interface{}{
		"error": map[string]string{"code": code, "message": message},
	})
	fmt.Println(string(data))
}

// Notifier prints view notifications as one styled line each. It
// satisfies view.Notifier.
type Notifier struct {
	w io.Writer
}

// NewNotifier returns a Notifier writing to w
func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

// Notify implements view.Notifier
func (n *Notifier) Notify(kind view.Kind, msg string) {
	style := successStyle
	if kind == view.KindError {
		style = errorStyle
	}
	fmt.Fprintln(n.w, style.Render(msg))
}

// Toast renders a notification as a colored badge
func Toast(kind view.Kind, msg string) string {
	style, ok := toastStyles[kind]
	if !ok {
		return msg
	}
	return style.Render(msg)
}

// FormatPriority formats a priority with its color
func FormatPriority(p models.Priority) string {
	style, ok := priorityStyles[p]
	if !ok {
		return fmt.Sprintf("[%s]", p)
	}
	return style.Render(fmt.Sprintf("[%s]", p))
}

// FormatDue formats a due date relative to now: "today 5:00 PM",
// "tomorrow 9:00 AM", "in 3d", "2d overdue", or the date.
func FormatDue(due time.Time, now time.Time) string {
	if due.IsZero() {
		return ""
	}
	due = due.In(now.Location())
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(math.Round(dueDay.Sub(today).Hours() / 24))

	switch {
	case days == 0:
		return "today " + due.Format("3:04 PM")
	case days == 1:
		return "tomorrow " + due.Format("3:04 PM")
	case days == -1:
		return "yesterday " + due.Format("3:04 PM")
	case days > 1 && days < 7:
		return fmt.Sprintf("in %dd", days)
	case days < -1 && days > -7:
		return fmt.Sprintf("%dd overdue", -days)
	default:
		return due.Format("2006-01-02")
	}
}

// FormatTaskShort formats a task in one line
func FormatTaskShort(task models.Task, now time.Time) string {
	var parts []string
	parts = append(parts, titleStyle.Render(string(task.ID)))
	parts = append(parts, FormatPriority(task.Priority))
	parts = append(parts, task.Title)

	if task.HasDueDate() {
		due := FormatDue(task.DueDate.Time, now)
		if task.DueDate.Before(now) && !task.Completed {
			parts = append(parts, errorStyle.Render("due "+due))
		} else {
			parts = append(parts, subtleStyle.Render("due "+due))
		}
	}
	if task.Completed {
		parts = append(parts, successStyle.Render("✓ done"))
	}

	return strings.Join(parts, "  ")
}

// FormatTaskLong formats a task with its description rendered as markdown
// at the given width.
func FormatTaskLong(task models.Task, width int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s: %s", task.ID, task.Title)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Priority: %s", FormatPriority(task.Priority)))
	if task.Completed {
		sb.WriteString(" | Completed")
	}
	sb.WriteString("\n")
	if task.HasDueDate() {
		sb.WriteString(fmt.Sprintf("Due: %s\n", task.DueDate.Local().Format("Mon Jan 2, 2006 3:04 PM")))
	}
	if !task.CreatedAt.IsZero() {
		sb.WriteString(subtleStyle.Render(fmt.Sprintf("Created %s", FormatTimeAgo(task.CreatedAt.Time))))
		sb.WriteString("\n")
	}

	if strings.TrimSpace(task.Description) != "" {
		sb.WriteString("\n")
		sb.WriteString(subtleStyle.Render("Description:"))
		sb.WriteString("\n")
		rendered, err := RenderMarkdownWithWidth(task.Description, width)
		if err != nil || rendered == "" {
			rendered = task.Description
		}
		sb.WriteString(rendered)
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatTimeAgo formats a time as a human-readable "ago" string
func FormatTimeAgo(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

// SectionHeader returns a formatted section header for CLI output
// e.g., "\nTASKS:\n"
func SectionHeader(title string) string {
	return fmt.Sprintf("\n%s:\n", strings.ToUpper(title))
}
