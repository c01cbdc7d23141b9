package review

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, machine-readable error code.
type Code string

const (
	CodeNotGitRepo      Code = "NOT_GIT_REPO"
	CodeNoCommits       Code = "NO_COMMITS"
	CodeNoStagedChanges Code = "NO_STAGED_CHANGES"
	CodeNoChanges       Code = "NO_CHANGES"
	CodeInvalidSource   Code = "INVALID_SOURCE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeInvalidStatus   Code = "INVALID_STATUS"
	CodeInvalidComment  Code = "INVALID_COMMENT"
)

// Error is a user-recoverable review failure.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of a review error anywhere in err's chain.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

// IsNotFound reports whether err is a NOT_FOUND review error.
func IsNotFound(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == CodeNotFound
}

// HTTPStatus maps a code to the status an HTTP layer should answer with.
func HTTPStatus(code Code) int {
	if code == CodeNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
