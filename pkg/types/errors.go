package types

import (
	"errors"
	"fmt"
)

// ErrUnpricedMarket is returned when a market snapshot carries a zero or
// undefined price for the requested side. Such a trade cannot be priced
// and must be blocked before submission.
var ErrUnpricedMarket = errors.New("market has no price for the requested side")

// InvalidInputError rejects a malformed user input before any computation.
// Callers should re-prompt the user.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsInvalidInput reports whether err is a validation failure on user input.
func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}
