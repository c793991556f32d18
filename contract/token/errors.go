package token

import "github.com/pkg/errors"

// errors
var (
	ErrFrozen                = errors.New("frozen holder")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInvalidAddress        = errors.New("invalid address")
)
