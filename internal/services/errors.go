package services

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to handlers, which map them onto the HTTP contract.
var (
	ErrNoPolicy            = errors.New("no policy found")
	ErrPolicyNotFound      = errors.New("reward policy not found for this business")
	ErrNoSpinSegments      = errors.New("spin wheel is not configured with any segments")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInsufficientBalance = errors.New("insufficient points balance")
)

// InsufficientPointsError is returned by Spin when the customer's balance is
// below the policy minimum. It carries the minimum so the handler can render
// the exact message the clients display.
type InsufficientPointsError struct {
	Required int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("minimum %d points required to spin the wheel", e.Required)
}
