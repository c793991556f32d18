package addrset

import "github.com/pkg/errors"

// errors
var (
	ErrExistAddress    = errors.New("exist address")
	ErrNotExistAddress = errors.New("not exist address")
)
