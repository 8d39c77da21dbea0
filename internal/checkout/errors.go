package checkout

import (
	"errors"

	"petshop/m/domain"
)

// ErrSubmitInProgress is returned for any change to a session while its sale
// is being written.
var ErrSubmitInProgress = errors.New("a sale is already being submitted")

// ValidationError reports a precondition the operator must fix before a sale
// can be submitted. No write has happened when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Outcome classifies a Submit result for metrics. "missing" means a client
// or item was deleted after the catalog was loaded; "error" is any other
// backend failure.
func Outcome(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &verr):
		return "validation"
	case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrOutOfStock):
		return "stock"
	case errors.Is(err, ErrSubmitInProgress):
		return "busy"
	case errors.Is(err, domain.ErrNotFound):
		return "missing"
	default:
		return "error"
	}
}
