package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang-jwt/jwt/v5"
	"github.com/marcus/tmc/internal/apiclient"
	"github.com/marcus/tmc/internal/models"
	"github.com/marcus/tmc/internal/session"
	"github.com/marcus/tmc/internal/tokenstore"
	"github.com/marcus/tmc/internal/view"
)

type stubAPI struct {
	token   string
	tasks   []models.Task
	deleted []string
}

func (s *stubAPI) Login(context.Context, models.LoginCredentials) (*models.TokenResponse, error) {
	return &models.TokenResponse{AccessToken: s.token}, nil
}

func (s *stubAPI) Signup(context.Context, models.SignupCredentials) (*models.TokenResponse, error) {
	return &models.TokenResponse{AccessToken: s.token}, nil
}

func (s *stubAPI) ListTasks(context.Context, string, apiclient.ListOptions) ([]models.Task, error) {
	return s.tasks, nil
}

func (s *stubAPI) GetTask(context.Context, string, string) (*models.Task, error) {
	return &s.tasks[0], nil
}

func (s *stubAPI) CreateTask(_ context.Context, _ string, in models.TaskCreate) (*models.Task, error) {
	return &models.Task{ID: "99", Title: in.Title, Priority: in.Priority}, nil
}

func (s *stubAPI) DeleteTask(_ context.Context, _ string, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubAPI) Me(context.Context, string) (*models.User, error) {
	return &models.User{Username: "ada"}, nil
}

func newTestModel(t *testing.T) (Model, *view.Controller, *stubAPI) {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	api := &stubAPI{
		token: raw,
		tasks: []models.Task{
			{ID: "1", Title: "Write report", Priority: models.PriorityHigh},
			{ID: "2", Title: "Water plants", Priority: models.PriorityLow},
		},
	}
	sess := session.New(tokenstore.NewMemory(), api)
	queue := &Queue{}
	ctl := view.New(sess, api, queue)
	t.Cleanup(ctl.Close)
	return New(ctl, queue), ctl, api
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestQueueDrain(t *testing.T) {
	var q Queue
	q.Notify(view.KindSuccess, "a")
	q.Notify(view.KindError, "b")
	notes := q.Drain()
	if len(notes) != 2 || notes[1] != (Note{view.KindError, "b"}) {
		t.Errorf("Drain() = %v", notes)
	}
	if len(q.Drain()) != 0 {
		t.Error("second Drain() not empty")
	}
}

func TestLoadingUntilStarted(t *testing.T) {
	m, _, _ := newTestModel(t)
	if !strings.Contains(m.View(), "Loading") {
		t.Errorf("View before start:\n%s", m.View())
	}
	m = update(t, m, keyMsg("n"))
	if !m.busy {
		t.Error("keys must be ignored while busy")
	}
}

func TestLoginFormAfterStart(t *testing.T) {
	m, ctl, _ := newTestModel(t)
	ctl.Start(context.Background())
	m = update(t, m, actionDoneMsg{})

	if m.login == nil {
		t.Fatal("login form not built")
	}
	out := m.View()
	for _, want := range []string{"Login", "Sign Up", "ctrl+t sign up"} {
		if !strings.Contains(out, want) {
			t.Errorf("login view missing %q:\n%s", want, out)
		}
	}

	m = update(t, m, keyMsg("ctrl+t"))
	if ctl.Mode() != view.ModeSignup || m.signup == nil {
		t.Errorf("ctrl+t: mode = %v signup form = %v", ctl.Mode(), m.signup != nil)
	}
	m = update(t, m, keyMsg("ctrl+t"))
	if ctl.Mode() != view.ModeLogin {
		t.Errorf("ctrl+t back: mode = %v", ctl.Mode())
	}
}

func TestDashboardAfterLogin(t *testing.T) {
	m, ctl, _ := newTestModel(t)
	if err := ctl.Login(context.Background(), "ada", "hunter22!"); err != nil {
		t.Fatal(err)
	}
	m = update(t, m, actionDoneMsg{})

	out := m.View()
	for _, want := range []string{"Welcome back!", "Write report", "Water plants", "High: 1", "Low: 1", view.MsgLoginSuccess} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q:\n%s", want, out)
		}
	}
}

func TestDeleteConfirm(t *testing.T) {
	m, ctl, api := newTestModel(t)
	if err := ctl.Login(context.Background(), "ada", "hunter22!"); err != nil {
		t.Fatal(err)
	}
	m = update(t, m, actionDoneMsg{})

	m = update(t, m, keyMsg("j"))
	m = update(t, m, keyMsg("d"))
	if m.confirmDelete != "2" {
		t.Fatalf("confirmDelete = %q, want 2", m.confirmDelete)
	}
	if !strings.Contains(m.View(), "Delete task 2? (y/n)") {
		t.Errorf("prompt missing:\n%s", m.View())
	}

	m = update(t, m, keyMsg("n"))
	if m.confirmDelete != "" || ctl.Mode() != view.ModeDashboard {
		t.Errorf("n should cancel: confirm = %q mode = %v", m.confirmDelete, ctl.Mode())
	}

	m = update(t, m, keyMsg("d"))
	next, cmd := m.Update(keyMsg("y"))
	m = next.(Model)
	if !m.busy || cmd == nil {
		t.Fatal("y should start the delete")
	}
	if len(api.deleted) != 0 {
		t.Error("delete ran before the command executed")
	}
}

func TestNewTaskFormEscape(t *testing.T) {
	m, ctl, _ := newTestModel(t)
	if err := ctl.Login(context.Background(), "ada", "hunter22!"); err != nil {
		t.Fatal(err)
	}
	m = update(t, m, actionDoneMsg{})

	m = update(t, m, keyMsg("n"))
	if ctl.Mode() != view.ModeNewTask || m.newTask == nil {
		t.Fatalf("mode = %v", ctl.Mode())
	}
	if !strings.Contains(m.View(), "New Task") {
		t.Errorf("form view:\n%s", m.View())
	}
	m = update(t, m, keyMsg("esc"))
	if ctl.Mode() != view.ModeDashboard {
		t.Errorf("esc: mode = %v", ctl.Mode())
	}
}

func TestToastExpires(t *testing.T) {
	m, ctl, _ := newTestModel(t)
	if err := ctl.Login(context.Background(), "ada", "hunter22!"); err != nil {
		t.Fatal(err)
	}
	m = update(t, m, actionDoneMsg{})
	if m.toast == nil {
		t.Fatal("no toast after login")
	}

	m = update(t, m, clearToastMsg{seq: m.toastSeq - 1})
	if m.toast == nil {
		t.Error("stale clear removed the current toast")
	}
	m = update(t, m, clearToastMsg{seq: m.toastSeq})
	if m.toast != nil {
		t.Error("toast not cleared")
	}
}

func TestTaskFormConversion(t *testing.T) {
	f := newTaskForm()
	f.Title = "  Pay rent "
	f.Priority = string(models.PriorityHigh)
	f.Due = "2026-03-01T09:00:00Z"

	in, err := f.toTaskCreate()
	if err != nil {
		t.Fatal(err)
	}
	if in.Title != "Pay rent" || in.Priority != models.PriorityHigh {
		t.Errorf("in = %+v", in)
	}
	if in.DueDate == nil || !in.DueDate.Equal(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("due = %v", in.DueDate)
	}

	f.Due = "whenever"
	if _, err := f.toTaskCreate(); err == nil {
		t.Error("expected error for bad due date")
	}

	f.Due = ""
	if in, _ := f.toTaskCreate(); in.DueDate != nil {
		t.Error("empty due should be omitted")
	}
}
