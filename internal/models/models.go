package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Priority represents task priority
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium" // default
	PriorityLow    Priority = "low"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ParsePriority normalizes user input into a Priority.
// Empty input yields the default (medium).
func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PriorityMedium, nil
	}
	switch s {
	case "h", "hi":
		return PriorityHigh, nil
	case "m", "med":
		return PriorityMedium, nil
	case "l", "lo":
		return PriorityLow, nil
	}
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q (use high, medium, or low)", s)
	}
	return p, nil
}

// ID is a server-assigned identifier. The API has shipped both numeric and
// string ids, so both decode into the same string form.
type ID string

// UnmarshalJSON accepts a JSON string or number
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Timestamp wraps time.Time to accept the API's ISO 8601 values, which
// may omit the zone designator (naive values are taken as UTC).
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses any of the layouts the API emits
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// UnmarshalJSON decodes null as the zero time
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON encodes the zero time as null
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// Task represents a task record owned by the remote API
type Task struct {
	ID          ID         `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	DueDate     *Timestamp `json:"due_date,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   Timestamp  `json:"created_at"`
	UpdatedAt   *Timestamp `json:"updated_at,omitempty"`
	OwnerID     ID         `json:"owner_id,omitempty"`
}

// HasDueDate reports whether the task carries a due date
func (t Task) HasDueDate() bool {
	return t.DueDate != nil && !t.DueDate.IsZero()
}

// TaskCreate is the body for POST /api/tasks/
type TaskCreate struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	DueDate     *Timestamp `json:"due_date,omitempty"`
}

// Validate checks the fields the client can verify before submitting
func (tc TaskCreate) Validate() error {
	if strings.TrimSpace(tc.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !tc.Priority.Valid() {
		return fmt.Errorf("invalid priority %q", tc.Priority)
	}
	return nil
}

// User is the account returned by GET /api/users/me and by signup
type User struct {
	ID        ID        `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	IsActive  bool      `json:"is_active"`
	CreatedAt Timestamp `json:"created_at"`
}

// TokenResponse is the body returned by a successful login or signup
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	User        *User  `json:"user,omitempty"`
}

// LoginCredentials are exchanged at POST /api/auth/token
type LoginCredentials struct {
	Username string
	Password string
}

// SignupCredentials are exchanged at POST /api/auth/signup
type SignupCredentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
