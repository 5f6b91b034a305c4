package calc

import (
	"errors"

	"gridsheet/internal/grid"
)

var (
	ErrMissingEquals       = errors.New("formula must start with '='")
	ErrMalformedSyntax     = grid.ErrMalformedSyntax
	ErrUnsupportedFunction = errors.New("unsupported function")
	ErrEmptyRange          = errors.New("empty range")
	ErrRangeTooLarge       = grid.ErrRangeTooLarge
)

// Kind names the class of a formula error for clients that only care about
// what went wrong, not the message. It returns "" for nil and "Internal" for
// errors outside the formula taxonomy.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingEquals):
		return "MissingEquals"
	case errors.Is(err, ErrMalformedSyntax):
		return "MalformedSyntax"
	case errors.Is(err, ErrUnsupportedFunction):
		return "UnsupportedFunction"
	case errors.Is(err, ErrEmptyRange):
		return "EmptyRange"
	case errors.Is(err, ErrRangeTooLarge):
		return "RangeTooLarge"
	}
	return "Internal"
}
