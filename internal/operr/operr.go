package operr

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
)

// Kind classifies an operation failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindMalformed
	KindOutOfBounds
	KindEmptySelection
	KindIO
	KindDelegated
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindMalformed:
		return "malformed_input"
	case KindOutOfBounds:
		return "out_of_bounds"
	case KindEmptySelection:
		return "empty_selection"
	case KindIO:
		return "io_failure"
	case KindDelegated:
		return "delegated_failure"
	default:
		return "unknown"
	}
}

// Error is a classified operation failure.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a classified error with a formatted message.
func New(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error, keeping it reachable via errors.Is/As.
func Wrap(kind Kind, op string, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...), Err: err}
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// KindOf returns the kind carried by err, classifying foreign errors as a fallback.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return Classify(err)
}

// Classify maps errors from the filesystem, the AWS SDK and the engines
// onto the taxonomy. Used for errors that cross a boundary untyped.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	if errors.Is(err, fs.ErrNotExist) {
		return KindNotFound
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindDelegated
	}

	if errors.Is(err, fs.ErrPermission) {
		return KindIO
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "nosuchkey") ||
		strings.Contains(errStr, "no such file") ||
		strings.Contains(errStr, "not found"):
		return KindNotFound
	case strings.Contains(errStr, "no space left") ||
		strings.Contains(errStr, "permission denied") ||
		strings.Contains(errStr, "read-only file system"):
		return KindIO
	}

	return KindDelegated
}

// HTTPStatus maps an error onto the status the web surface responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindMalformed, KindOutOfBounds, KindEmptySelection:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
