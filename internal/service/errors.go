package service

import (
	"errors"
	"fmt"
)

// LookupError signals that a craving could not be matched to any recipe.
// Its message is returned to clients verbatim.
type LookupError struct {
	Message string
}

func (e *LookupError) Error() string {
	return e.Message
}

// NewLookupError builds a LookupError for the given craving
func NewLookupError(craving string) *LookupError {
	return &LookupError{Message: fmt.Sprintf("No healthier alternatives found for '%s'", craving)}
}

// IsLookupError reports whether err is, or wraps, a LookupError
func IsLookupError(err error) bool {
	var lookupErr *LookupError
	return errors.As(err, &lookupErr)
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminDisabled      = errors.New("admin login is not configured")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidRecipe      = errors.New("invalid recipe")
)
