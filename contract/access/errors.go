package access

import "github.com/pkg/errors"

// errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrZeroAddress  = errors.New("zero address")
)
