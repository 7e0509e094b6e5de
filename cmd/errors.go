package cmd

import (
	"context"
	"errors"

	"github.com/marcus/tmc/internal/apiclient"
	"github.com/marcus/tmc/internal/output"
	"github.com/marcus/tmc/internal/session"
	"github.com/marcus/tmc/internal/view"
)

// inputError marks a failure caused by the command's own arguments.
type inputError struct{ error }

func (e inputError) Unwrap() error { return e.error }

func isNotFound(err error) bool {
	return errors.Is(err, apiclient.ErrNotFound)
}

func isNetwork(err error) bool {
	return errors.Is(err, apiclient.ErrNetwork) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

func isInvalidInput(err error) bool {
	var ie inputError
	var ve *view.ValidationError
	return errors.As(err, &ie) || errors.As(err, &ve)
}

// errorCode maps a command failure to a JSON error code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, session.ErrNotAuthenticated),
		errors.Is(err, errNotLoggedIn),
		errors.Is(err, errSessionExpired):
		return output.ErrCodeNotAuthenticated
	case isInvalidInput(err):
		return output.ErrCodeInvalidInput
	case isNotFound(err):
		return output.ErrCodeNotFound
	case isNetwork(err):
		return output.ErrCodeNetwork
	default:
		return output.ErrCodeServer
	}
}

// fail prints err as a JSON error object or a styled line and returns it.
func fail(jsonOutput bool, err error) error {
	if jsonOutput {
		output.JSONError(errorCode(err), err.Error())
	} else {
		output.Error("%v", err)
	}
	return err
}

// failQuiet is fail for errors the controller has already reported
// through its notifier; only the JSON object is printed.
func failQuiet(jsonOutput bool, err error) error {
	if jsonOutput {
		output.JSONError(errorCode(err), err.Error())
	}
	return err
}
