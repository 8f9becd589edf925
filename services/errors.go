package services

import (
	"errors"
	"fmt"
)

var (
	ErrNoCharactersAvailable = errors.New("no characters available")
	ErrCharacterNotFound     = errors.New("character not found")
	ErrLookupNotFound        = errors.New("lookup entry not found")
	ErrRoundNotFound         = errors.New("round not found")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailTaken            = errors.New("email already registered")
)

// ValidationError marks bad input that was rejected before any backend call,
// so handlers can answer 400 instead of 500.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
