package apperrors

import "errors"

var (
	ErrAuthentication = errors.New("authentication required")
	ErrPermission     = errors.New("forbidden")
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrInvalidState   = errors.New("invalid state transition")
	ErrStorage        = errors.New("storage unavailable")
	ErrRateLimited    = errors.New("too many requests")
)

// Storage marks err as a persistence failure while keeping the driver error in the chain.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, kind: ErrStorage, err: err}
}

type opError struct {
	op   string
	kind error
	err  error
}

func (e *opError) Error() string {
	return e.op + ": " + e.err.Error()
}

func (e *opError) Unwrap() []error {
	return []error{e.kind, e.err}
}
