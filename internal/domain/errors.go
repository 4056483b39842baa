package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique entity (e.g. customer email) is taken upstream.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput is returned when a caller-supplied argument fails a precondition.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBusy means a cart mutation is already in flight. Callers treat it as a no-op.
	ErrBusy = errors.New("cart mutation in progress")
	// ErrNotInCart means a remove was requested for a product with no line item.
	ErrNotInCart = errors.New("product not in cart")

	// ErrNetwork marks gateway transport failures and upstream 5xx responses.
	ErrNetwork = errors.New("commerce gateway unavailable")
	// ErrValidation marks requests the gateway rejected as invalid.
	ErrValidation = errors.New("commerce gateway rejected request")
	// ErrTimeout marks gateway calls that did not settle within the mutation timeout.
	ErrTimeout = errors.New("commerce gateway timed out")
)
