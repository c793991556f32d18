package crowdsale

import "github.com/pkg/errors"

// errors
var (
	ErrInvalidPhase   = errors.New("invalid phase")
	ErrCapExceeded    = errors.New("investor cap exceeded")
	ErrZeroValue      = errors.New("zero value")
	ErrSaleNotRunning = errors.New("sale not running")
	ErrReentrantCall  = errors.New("reentrant call")
	ErrInvalidConfig  = errors.New("invalid sale config")
)
