package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to errors leaving a handler.
const (
	CodeInvalidMessage = "MDX_COMMAND_INVALID"
	CodeCanceled       = "MDX_COMMAND_CANCELED"
	CodeTimeout        = "MDX_COMMAND_TIMEOUT"
	CodeContext        = "MDX_COMMAND_CONTEXT"
	CodeFailed         = "MDX_COMMAND_FAILED"
)

// categorised reports whether an inner layer already wrapped err.
func categorised(err error) bool {
	return err == nil || goerrors.IsWrapped(err)
}

func wrapValidationError(err error) error {
	if categorised(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid command message").
		WithTextCode(CodeInvalidMessage)
}

func wrapContextError(err error) error {
	if categorised(err) {
		return err
	}
	message, code := "command context error", CodeContext
	switch {
	case errors.Is(err, context.Canceled):
		message, code = "command cancelled", CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		message, code = "command timed out", CodeTimeout
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, message).WithTextCode(code)
}

func wrapExecuteError(err error) error {
	if categorised(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command failed").WithTextCode(CodeFailed)
}
