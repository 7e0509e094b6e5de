package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marcus/tmc/internal/models"
)

// Sentinel errors for common failure classes. APIError values match
// ErrUnauthorized and ErrNotFound through errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrNetwork      = errors.New("network failure")
)

// Client is an HTTP client for the task API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a new API client.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// ListOptions pages through GET /api/tasks/. Zero values use server defaults.
type ListOptions struct {
	Skip  int
	Limit int
}

func (o ListOptions) query() string {
	params := url.Values{}
	if o.Skip > 0 {
		params.Set("skip", strconv.Itoa(o.Skip))
	}
	if o.Limit > 0 {
		params.Set("limit", strconv.Itoa(o.Limit))
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

// --- Auth methods ---

// Login exchanges a username and password for a token.
// The endpoint takes an OAuth2 password form, not JSON.
func (c *Client) Login(ctx context.Context, creds models.LoginCredentials) (*models.TokenResponse, error) {
	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	req := request{
		method:      http.MethodPost,
		path:        "/api/auth/token",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}
	var resp models.TokenResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new account and returns its first token.
func (c *Client) Signup(ctx context.Context, creds models.SignupCredentials) (*models.TokenResponse, error) {
	req, err := jsonRequest(http.MethodPost, "/api/auth/signup", "", creds)
	if err != nil {
		return nil, err
	}
	var resp models.TokenResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me returns the account the token belongs to.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/users/me", token: token}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// --- Task methods ---

// ListTasks returns the caller's tasks.
func (c *Client) ListTasks(ctx context.Context, token string, opts ListOptions) ([]models.Task, error) {
	var tasks []models.Task
	req := request{method: http.MethodGet, path: "/api/tasks/" + opts.query(), token: token}
	if err := c.do(ctx, req, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask fetches a single task by id.
func (c *Client) GetTask(ctx context.Context, token, id string) (*models.Task, error) {
	var task models.Task
	req := request{method: http.MethodGet, path: "/api/tasks/" + url.PathEscape(id), token: token}
	if err := c.do(ctx, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask creates a task and returns the stored record.
func (c *Client) CreateTask(ctx context.Context, token string, in models.TaskCreate) (*models.Task, error) {
	req, err := jsonRequest(http.MethodPost, "/api/tasks/", token, in)
	if err != nil {
		return nil, err
	}
	var task models.Task
	if err := c.do(ctx, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, token, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/api/tasks/" + url.PathEscape(id), token: token}, nil)
}

// --- HTTP helpers ---

type request struct {
	method      string
	path        string
	token       string
	body        io.Reader
	contentType string
}

func jsonRequest(method, path, token string, body any) (request, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return request{}, fmt.Errorf("marshal request: %w", err)
	}
	return request{
		method:      method,
		path:        path,
		token:       token,
		body:        bytes.NewReader(data),
		contentType: "application/json",
	}, nil
}

func (c *Client) do(ctx context.Context, r request, result any) error {
	req, err := http.NewRequestWithContext(ctx, r.method, c.BaseURL+r.path, r.body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		slog.Debug("apiclient: request failed", "method", r.method, "path", r.path, "request_id", requestID, "err", err)
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrNetwork, err)
	}
	slog.Debug("apiclient: request",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
