package render

import (
	"fmt"

	"github.com/marcus/tmc/internal/models"
	"github.com/marcus/tmc/internal/view"
)

// DueLayout formats due dates on task cards
const DueLayout = "Jan 2, 2006 3:04 PM"

// PriorityClass maps a priority to its card class. Unknown priorities get
// no class.
func PriorityClass(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return "priority-high"
	case models.PriorityMedium:
		return "priority-medium"
	case models.PriorityLow:
		return "priority-low"
	}
	return ""
}

// TaskCard renders a single task. The only action offered is delete.
func TaskCard(task models.Task) Node {
	body := el("div", "task-body",
		text("h4", "task-title", task.Title),
		text("p", "task-description", task.Description),
		text("div", "task-due", dueText(task)),
	)
	if task.Completed {
		body.Children = append(body.Children, text("span", "task-status", "Completed"))
	}

	del := text("button", "task-delete", "Delete")
	del.Attrs = map[string]string{"action": "delete", "task-id": string(task.ID)}

	card := el("div", cardClass(task), body, el("div", "task-actions", del))
	card.Attrs = map[string]string{"task-id": string(task.ID)}
	return card
}

func cardClass(task models.Task) string {
	if pc := PriorityClass(task.Priority); pc != "" {
		return "task-card " + pc
	}
	return "task-card"
}

func dueText(task models.Task) string {
	if !task.HasDueDate() {
		return "Due: none"
	}
	return "Due: " + task.DueDate.Format(DueLayout)
}

// TaskList renders tasks in the order given.
func TaskList(tasks []models.Task) Node {
	if len(tasks) == 0 {
		return el("div", "task-list", text("p", "task-empty", "No tasks yet"))
	}
	list := el("div", "task-list")
	list.Children = make([]Node, len(tasks))
	for i, t := range tasks {
		list.Children[i] = TaskCard(t)
	}
	return list
}

// Counts holds the number of tasks per priority
type Counts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Total is the number of counted tasks
func (c Counts) Total() int { return c.High + c.Medium + c.Low }

// PriorityCounts tallies tasks by priority. Unknown priorities are skipped.
func PriorityCounts(tasks []models.Task) Counts {
	var c Counts
	for _, t := range tasks {
		switch t.Priority {
		case models.PriorityHigh:
			c.High++
		case models.PriorityMedium:
			c.Medium++
		case models.PriorityLow:
			c.Low++
		}
	}
	return c
}

// Stats renders the priority summary shown above the task list.
func Stats(c Counts) Node {
	return el("ul", "task-stats",
		text("li", "stat priority-high", fmt.Sprintf("High: %d", c.High)),
		text("li", "stat priority-medium", fmt.Sprintf("Medium: %d", c.Medium)),
		text("li", "stat priority-low", fmt.Sprintf("Low: %d", c.Low)),
	)
}

// NavBar renders the navigation bar.
func NavBar(nav view.Nav) Node {
	bar := el("nav", "nav")
	if nav.Greeting != "" {
		bar.Children = append(bar.Children, text("span", "nav-greeting", nav.Greeting))
	}
	for _, a := range nav.Actions {
		b := text("button", "nav-action", a.String())
		b.Attrs = map[string]string{"action": actionName(a)}
		bar.Children = append(bar.Children, b)
	}
	return bar
}

func actionName(a view.Action) string {
	switch a {
	case view.ActionLogin:
		return "login"
	case view.ActionSignup:
		return "signup"
	case view.ActionLogout:
		return "logout"
	}
	return ""
}
