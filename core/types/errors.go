package types

import "github.com/pkg/errors"

// engine errors
var (
	ErrInvalidClassID     = errors.New("invalid class id")
	ErrExistContractType  = errors.New("exist contract type")
	ErrExistAddress       = errors.New("exist address")
	ErrNotExistContract   = errors.New("not exist contract")
	ErrInvalidMethod      = errors.New("invalid method")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInsufficientValue  = errors.New("insufficient value")
	ErrNotPayable         = errors.New("not payable")
	ErrInvalidValue       = errors.New("invalid value")
	ErrPendingSnapshot    = errors.New("pending snapshot")
	ErrContractPanic      = errors.New("contract panic")
	ErrInvalidContextData = errors.New("invalid context data")
)
