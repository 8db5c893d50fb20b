package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/vesselscope/internal/domain/entity"
	"github.com/rpggio/vesselscope/internal/store"
)

// APIError is the error a tool reports to the client.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

// MapError maps domain errors to tool error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, entity.ErrUnknownKind):
		return &APIError{Code: "UNKNOWN_KIND", Message: err.Error(), RecoveryHint: "Use vessels, locations or commodities"}
	case errors.Is(err, entity.ErrInvalidDate):
		return &APIError{Code: "INVALID_DATE", Message: err.Error(), RecoveryHint: "Dates are YYYY-MM-DD"}
	case errors.Is(err, store.ErrSuperseded):
		return &APIError{Code: "SUPERSEDED", Message: err.Error(), RecoveryHint: "A newer request won; read the state again"}
	case errors.Is(err, entity.ErrShape):
		return &APIError{Code: "BAD_RESPONSE", Message: err.Error(), RecoveryHint: "Check the analytics service version"}
	case errors.Is(err, store.ErrTransport):
		return &APIError{Code: "SERVICE_UNAVAILABLE", Message: err.Error(), RecoveryHint: "Check that the analytics service is running"}
	default:
		return nil
	}
}

func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
