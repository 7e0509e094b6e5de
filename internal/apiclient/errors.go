package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response. Detail carries the server's message
// verbatim when the body had one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Is lets errors.Is(err, ErrUnauthorized) and errors.Is(err, ErrNotFound)
// match on status code.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// errorBody is the error shape the API uses. detail is a string for
// handled errors and a list of field errors for request validation failures.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldError struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var eb errorBody
	if json.Unmarshal(body, &eb) != nil || len(eb.Detail) == 0 {
		return apiErr
	}

	var s string
	if json.Unmarshal(eb.Detail, &s) == nil {
		apiErr.Detail = s
		return apiErr
	}

	var fields []fieldError
	if json.Unmarshal(eb.Detail, &fields) == nil {
		msgs := make([]string, 0, len(fields))
		for _, f := range fields {
			if f.Msg == "" {
				continue
			}
			if field := lastLoc(f.Loc); field != "" {
				msgs = append(msgs, field+": "+f.Msg)
			} else {
				msgs = append(msgs, f.Msg)
			}
		}
		apiErr.Detail = strings.Join(msgs, "; ")
	}
	return apiErr
}

func lastLoc(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok {
		return s
	}
	return ""
}

// DetailOr returns the server detail carried by err, or fallback when err
// is not an APIError or had no detail.
func DetailOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
