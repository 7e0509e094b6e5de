package render

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/tmc/internal/models"
	"github.com/marcus/tmc/internal/view"
)

func sampleTask() models.Task {
	due := models.Timestamp{Time: time.Date(2026, 3, 5, 17, 0, 0, 0, time.UTC)}
	return models.Task{
		ID:          "7",
		Title:       "Write report",
		Description: "Quarterly numbers",
		Priority:    models.PriorityHigh,
		DueDate:     &due,
	}
}

func TestTaskCardOutline(t *testing.T) {
	want := `div.task-card.priority-high [task-id=7]
  div.task-body
    h4.task-title "Write report"
    p.task-description "Quarterly numbers"
    div.task-due "Due: Mar 5, 2026 5:00 PM"
  div.task-actions
    button.task-delete [action=delete task-id=7] "Delete"
`
	if got := TaskCard(sampleTask()).Outline(); got != want {
		t.Errorf("outline mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestTaskCardVariants(t *testing.T) {
	task := sampleTask()
	task.DueDate = nil
	task.Completed = true
	task.Priority = "urgent"

	card := TaskCard(task)
	if card.Class != "task-card" {
		t.Errorf("Class = %q, unknown priority should add no class", card.Class)
	}
	if due, _ := card.Find("task-due"); due.Text != "Due: none" {
		t.Errorf("due = %q", due.Text)
	}
	if _, ok := card.Find("task-status"); !ok {
		t.Error("completed task has no status node")
	}
	if _, ok := card.Find("task-edit"); ok {
		t.Error("cards must not offer edit")
	}
}

func TestTaskCardDoesNotInterpretMarkup(t *testing.T) {
	task := sampleTask()
	task.Title = `<img src=x onerror=alert(1)>`
	title, _ := TaskCard(task).Find("task-title")
	if title.Text != task.Title || len(title.Children) != 0 {
		t.Errorf("title node = %+v", title)
	}
}

func TestPriorityClass(t *testing.T) {
	tests := map[models.Priority]string{
		models.PriorityHigh:   "priority-high",
		models.PriorityMedium: "priority-medium",
		models.PriorityLow:    "priority-low",
		"":                    "",
		"critical":            "",
	}
	for p, want := range tests {
		if got := PriorityClass(p); got != want {
			t.Errorf("PriorityClass(%q) = %q, want %q", p, got, want)
		}
	}
}

func TestTaskList(t *testing.T) {
	empty := TaskList(nil)
	if _, ok := empty.Find("task-empty"); !ok {
		t.Error("empty list has no placeholder")
	}

	a, b := sampleTask(), sampleTask()
	b.ID, b.Title = "8", "Second"
	list := TaskList([]models.Task{a, b})
	if len(list.Children) != 2 || list.Children[1].Attr("task-id") != "8" {
		t.Errorf("list = %s", list.Outline())
	}
}

func TestPriorityCountsAndStats(t *testing.T) {
	tasks := []models.Task{
		{Priority: models.PriorityHigh},
		{Priority: models.PriorityHigh},
		{Priority: models.PriorityLow},
		{Priority: "other"},
	}
	c := PriorityCounts(tasks)
	if c != (Counts{High: 2, Low: 1}) || c.Total() != 3 {
		t.Errorf("counts = %+v", c)
	}

	want := `ul.task-stats
  li.stat.priority-high "High: 2"
  li.stat.priority-medium "Medium: 0"
  li.stat.priority-low "Low: 1"
`
	if got := Stats(c).Outline(); got != want {
		t.Errorf("stats outline\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestNavBar(t *testing.T) {
	authed := NavBar(view.Nav{Greeting: "Welcome back!", Actions: []view.Action{view.ActionLogout}})
	want := `nav.nav
  span.nav-greeting "Welcome back!"
  button.nav-action [action=logout] "Logout"
`
	if got := authed.Outline(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	anon := NavBar(view.Nav{Actions: []view.Action{view.ActionLogin, view.ActionSignup}})
	if len(anon.Children) != 2 || anon.Children[1].Text != "Sign Up" {
		t.Errorf("anon = %s", anon.Outline())
	}
}

func TestPaintCard(t *testing.T) {
	out := ansi.Strip(Paint(TaskCard(sampleTask()), 60))
	for _, want := range []string{"Write report", "Quarterly numbers", "Due: Mar 5, 2026 5:00 PM", "[Delete]"} {
		if !strings.Contains(out, want) {
			t.Errorf("painted card missing %q:\n%s", want, out)
		}
	}
}

func TestPaintTruncates(t *testing.T) {
	task := sampleTask()
	task.Title = strings.Repeat("long title ", 20)
	out := Paint(TaskCard(task), 30)
	for _, line := range strings.Split(out, "\n") {
		if w := ansi.StringWidth(line); w > 30 {
			t.Errorf("line width %d > 30: %q", w, ansi.Strip(line))
		}
	}
	if !strings.Contains(ansi.Strip(out), "…") {
		t.Error("expected ellipsis on truncated title")
	}
}

func TestPaintWrapsDescription(t *testing.T) {
	task := sampleTask()
	task.Description = strings.Repeat("word ", 30)
	out := Paint(TaskCard(task), 30)
	lines := strings.Split(ansi.Strip(out), "\n")
	words := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > 30 {
			t.Errorf("line width %d > 30: %q", w, line)
		}
		words += strings.Count(line, "word")
	}
	if words != 30 {
		t.Errorf("wrapped description kept %d of 30 words:\n%s", words, ansi.Strip(out))
	}
}

func TestPaintEmpty(t *testing.T) {
	if got := Paint(Node{Tag: "div"}, 40); got != "" {
		t.Errorf("Paint(empty) = %q", got)
	}
}
