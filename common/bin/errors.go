package bin

import "github.com/pkg/errors"

// errors
var (
	ErrInvalidLength = errors.New("invalid length")
)
