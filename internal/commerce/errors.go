package commerce

import (
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/domain"
)

// Error is a classified gateway failure. It unwraps to one of the domain error kinds.
type Error struct {
	Kind       error
	Op         string
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("commerce %s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("commerce %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// UserMessage is the text shown to shoppers for this failure.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case domain.ErrValidation, domain.ErrAlreadyExists:
		if e.Message != "" {
			return e.Message
		}
		return "The request was rejected by the store."
	case domain.ErrTimeout:
		return "The store took too long to respond. Please try again."
	case domain.ErrNotFound:
		return "The requested item no longer exists."
	default:
		return "The store is temporarily unavailable. Please try again."
	}
}

// IsConcurrentModification reports whether err is a version conflict on an
// update. The caller's version is stale and the resource must be re-read.
func IsConcurrentModification(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode == http.StatusConflict && e.Code == "ConcurrentModification"
}

func classifyStatus(op string, status int, body ctErrorResponse) *Error {
	e := &Error{Op: op, StatusCode: status, Message: body.Message}
	if len(body.Errors) > 0 {
		e.Code = body.Errors[0].Code
		if e.Message == "" {
			e.Message = body.Errors[0].Message
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	switch {
	case status == http.StatusNotFound:
		e.Kind = domain.ErrNotFound
	case e.Code == "DuplicateField":
		e.Kind = domain.ErrAlreadyExists
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = domain.ErrNetwork
	case status == http.StatusConflict:
		e.Kind = domain.ErrValidation
		if e.Code == "ConcurrentModification" {
			e.Message = "The cart was changed elsewhere. Please reload and try again."
		}
	case status >= 400 && status < 500:
		e.Kind = domain.ErrValidation
	default:
		e.Kind = domain.ErrNetwork
	}
	return e
}
