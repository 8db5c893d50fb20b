package entity

import "errors"

var (
	// ErrShape indicates a service response that does not have the expected structure.
	ErrShape = errors.New("malformed response")
	// ErrUnknownKind indicates an entity kind other than vessels, locations or commodities.
	ErrUnknownKind = errors.New("unknown entity kind")
	// ErrInvalidDate indicates a date that is not formatted as YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
)
