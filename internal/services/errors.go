package services

import (
	"errors"

	"github.com/baharkarakas/bank-transactions/internal/models"
)

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrDuplicateReference = errors.New("duplicate transaction reference")
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidChannel     = models.ErrInvalidChannel

	// ErrPersistence means an otherwise valid request could not be applied.
	ErrPersistence = errors.New("persistence failure")
	// ErrStatusUnresolved is an internal invariant violation, never a
	// business outcome.
	ErrStatusUnresolved = errors.New("no status rule matched")
)

// ErrorCode gives the stable machine-readable name of a service error.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrPersistence):
		return "persistence_failure"
	case errors.Is(err, ErrStatusUnresolved):
		return "status_unresolved"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrDuplicateReference):
		return "duplicate_reference"
	case errors.Is(err, ErrAccountExists):
		return "account_exists"
	case errors.Is(err, ErrInvalidChannel):
		return "invalid_channel"
	}
	return "internal_error"
}
