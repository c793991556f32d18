package backend

import "github.com/pkg/errors"

// errors
var (
	ErrNotExistDriver = errors.New("not exist driver")
	ErrNotExistKey    = errors.New("not exist key")
	ErrClosed         = errors.New("backend closed")
)
