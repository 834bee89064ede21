package domain

import (
	"errors"
	"fmt"
)

// Error kinds reported to the API layer. Concrete errors wrap exactly one
// of these so callers can branch with errors.Is.
var (
	// ErrNotFound covers both missing entities and entities owned by someone
	// else; the two are indistinguishable to the caller.
	ErrNotFound = errors.New("does not exist")

	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("not authorized")

	// ErrInvariant means a dense order sequence was found broken on read.
	ErrInvariant = errors.New("order invariant violated")
)

// NotFound returns an ErrNotFound error naming the entity, e.g.
// "goal category does not exist".
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// Invalid returns an ErrValidation error with the given message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
