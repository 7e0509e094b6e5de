// Package tui is the full-screen client: login and signup forms, the task
// dashboard and the new task form, driven by a view.Controller.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/tmc/internal/output"
	"github.com/marcus/tmc/internal/render"
	"github.com/marcus/tmc/internal/view"
)

const toastDuration = 3 * time.Second

// Queue collects controller notifications until the UI drains them. It
// satisfies view.Notifier.
type Queue struct {
	mu    sync.Mutex
	notes []Note
}

// Note is one queued notification
type Note struct {
	Kind view.Kind
	Msg  string
}

// Notify implements view.Notifier
func (q *Queue) Notify(kind view.Kind, msg string) {
	q.mu.Lock()
	q.notes = append(q.notes, Note{kind, msg})
	q.mu.Unlock()
}

// Drain returns and clears the queued notifications
func (q *Queue) Drain() []Note {
	q.mu.Lock()
	defer q.mu.Unlock()
	notes := q.notes
	q.notes = nil
	return notes
}

// Messages
type (
	actionDoneMsg struct{ err error }
	clearToastMsg struct{ seq int }
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	selectedBar  = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	confirmStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the bubbletea model.
type Model struct {
	ctl   *view.Controller
	queue *Queue

	dashKeys    dashboardKeys
	formKeys    formKeys
	confirmKeys confirmKeys
	help        help.Model
	spinner     spinner.Model

	login   *loginForm
	signup  *signupForm
	newTask *taskForm

	shown         view.Mode
	started       bool
	busy          bool
	cursor        int
	confirmDelete string

	toast    *Note
	toastSeq int

	width  int
	height int
}

// New creates a Model. queue must be the Notifier ctl was built with.
func New(ctl *view.Controller, queue *Queue) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		ctl:         ctl,
		queue:       queue,
		dashKeys:    newDashboardKeys(),
		formKeys:    newFormKeys(),
		confirmKeys: newConfirmKeys(),
		help:        help.New(),
		spinner:     sp,
		shown:       -1,
		busy:        true,
	}
}

// Init restores the session in the background.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run(func(ctx context.Context) error {
		m.ctl.Start(ctx)
		return nil
	}))
}

// run executes fn off the UI goroutine and reports back with actionDoneMsg.
func (m Model) run(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: fn(context.Background())}
	}
}

func (m Model) start(fn func(ctx context.Context) error) (Model, tea.Cmd) {
	m.busy = true
	return m, tea.Batch(m.spinner.Tick, m.run(fn))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case actionDoneMsg:
		m.busy = false
		m.started = true
		return m.sync()

	case clearToastMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.formKeys.Quit) {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch m.ctl.Mode() {
		case view.ModeDashboard:
			return m.updateDashboard(msg)
		default:
			return m.updateForm(msg)
		}
	}

	if !m.busy && m.ctl.Mode() != view.ModeDashboard {
		return m.updateForm(msg)
	}
	return m, nil
}

// sync aligns the model with the controller after an action: shows the
// newest notification and rebuilds the form for a newly entered mode.
func (m Model) sync() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if notes := m.queue.Drain(); len(notes) > 0 {
		last := notes[len(notes)-1]
		m.toast = &last
		m.toastSeq++
		seq := m.toastSeq
		cmds = append(cmds, tea.Tick(toastDuration, func(time.Time) tea.Msg { return clearToastMsg{seq: seq} }))
	}

	if n := len(m.ctl.Tasks()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}

	mode := m.ctl.Mode()
	if mode != m.shown {
		m.shown = mode
		if cmd := m.resetForm(mode); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

// resetForm builds a fresh form for mode, if it has one.
func (m *Model) resetForm(mode view.Mode) tea.Cmd {
	m.confirmDelete = ""
	switch mode {
	case view.ModeLogin:
		m.login = newLoginForm()
		return m.login.Form.Init()
	case view.ModeSignup:
		m.signup = newSignupForm()
		return m.signup.Form.Init()
	case view.ModeNewTask:
		m.newTask = newTaskForm()
		return m.newTask.Form.Init()
	}
	return nil
}

func (m Model) activeForm() *huh.Form {
	switch m.ctl.Mode() {
	case view.ModeLogin:
		if m.login != nil {
			return m.login.Form
		}
	case view.ModeSignup:
		if m.signup != nil {
			return m.signup.Form
		}
	case view.ModeNewTask:
		if m.newTask != nil {
			return m.newTask.Form
		}
	}
	return nil
}

func (m *Model) setActiveForm(f *huh.Form) {
	switch m.ctl.Mode() {
	case view.ModeLogin:
		m.login.Form = f
	case view.ModeSignup:
		m.signup.Form = f
	case view.ModeNewTask:
		m.newTask.Form = f
	}
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	mode := m.ctl.Mode()
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.formKeys.Switch) && mode == view.ModeLogin:
			m.ctl.ShowSignup()
			return m.sync()
		case key.Matches(keyMsg, m.formKeys.Switch) && mode == view.ModeSignup:
			m.ctl.ShowLogin()
			return m.sync()
		case key.Matches(keyMsg, m.formKeys.Cancel) && mode == view.ModeNewTask:
			m.ctl.HideNewTaskForm()
			return m.sync()
		}
	}

	form := m.activeForm()
	if form == nil {
		return m, nil
	}
	updated, cmd := form.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		form = f
		m.setActiveForm(f)
	}

	switch form.State {
	case huh.StateCompleted:
		return m.submit(mode)
	case huh.StateAborted:
		m.shown = -1
		return m.sync()
	}
	return m, cmd
}

// submit runs the action behind the completed form for mode.
func (m Model) submit(mode view.Mode) (tea.Model, tea.Cmd) {
	// A failed submit leaves the mode unchanged; force a fresh form.
	m.shown = -1
	switch mode {
	case view.ModeLogin:
		username, password := strings.TrimSpace(m.login.Username), m.login.Password
		return m.start(func(ctx context.Context) error {
			return m.ctl.Login(ctx, username, password)
		})
	case view.ModeSignup:
		creds := m.signup.credentials()
		return m.start(func(ctx context.Context) error {
			return m.ctl.Signup(ctx, creds)
		})
	case view.ModeNewTask:
		in, err := m.newTask.toTaskCreate()
		if err != nil {
			m.queue.Notify(view.KindError, err.Error())
			return m.sync()
		}
		return m.start(func(ctx context.Context) error {
			_, err := m.ctl.CreateTask(ctx, in)
			return err
		})
	}
	return m, nil
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.ctl.Tasks()

	if m.confirmDelete != "" {
		id := m.confirmDelete
		switch {
		case key.Matches(msg, m.confirmKeys.Yes):
			m.confirmDelete = ""
			return m.start(func(ctx context.Context) error {
				return m.ctl.DeleteTask(ctx, id)
			})
		case key.Matches(msg, m.confirmKeys.No):
			m.confirmDelete = ""
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.dashKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.dashKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.dashKeys.Down):
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.dashKeys.New):
		m.ctl.ShowNewTaskForm()
		return m.sync()
	case key.Matches(msg, m.dashKeys.Delete):
		if m.cursor < len(tasks) {
			m.confirmDelete = string(tasks[m.cursor].ID)
		}
	case key.Matches(msg, m.dashKeys.Refresh):
		return m.start(m.ctl.Refresh)
	case key.Matches(msg, m.dashKeys.Logout):
		return m.start(func(context.Context) error {
			return m.ctl.Logout()
		})
	case key.Matches(msg, m.dashKeys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	var sections []string
	sections = append(sections, m.header(width))

	if !m.started {
		sections = append(sections, m.spinner.View()+" Loading...")
		return strings.Join(sections, "\n\n")
	}

	switch m.ctl.Mode() {
	case view.ModeDashboard:
		sections = append(sections, m.dashboardView(width))
	default:
		if form := m.activeForm(); form != nil {
			sections = append(sections, form.View())
		}
		sections = append(sections, faintStyle.Render(m.formHint()))
	}

	if m.busy {
		sections = append(sections, m.spinner.View()+" Working...")
	}
	if m.toast != nil {
		sections = append(sections, output.Toast(m.toast.Kind, m.toast.Msg))
	}
	return strings.Join(sections, "\n\n")
}

func (m Model) header(width int) string {
	title := headerStyle.Render("Task Manager")
	nav := render.Paint(render.NavBar(m.ctl.Nav()), width-lipgloss.Width(title)-2)
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", nav)
}

func (m Model) formHint() string {
	switch m.ctl.Mode() {
	case view.ModeLogin:
		return "enter submit • ctrl+t sign up • ctrl+c quit"
	case view.ModeSignup:
		return "enter submit • ctrl+t login • ctrl+c quit"
	case view.ModeNewTask:
		return "enter submit • esc back • ctrl+c quit"
	}
	return ""
}

func (m Model) dashboardView(width int) string {
	tasks := m.ctl.Tasks()
	var sb strings.Builder

	sb.WriteString(render.Paint(render.Stats(render.PriorityCounts(tasks)), width))
	sb.WriteString("\n\n")

	if len(tasks) == 0 {
		sb.WriteString(render.Paint(render.TaskList(nil), width))
	}
	for i, task := range tasks {
		card := render.Paint(render.TaskCard(task), width-2)
		marker := "  "
		if i == m.cursor {
			marker = selectedBar.Render("> ")
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, marker, card))
		sb.WriteString("\n")
	}

	if m.confirmDelete != "" {
		sb.WriteString("\n")
		sb.WriteString(confirmStyle.Render(fmt.Sprintf("Delete task %s? (y/n)", m.confirmDelete)))
	} else {
		sb.WriteString("\n")
		sb.WriteString(m.help.View(m.dashKeys))
	}
	return sb.String()
}
