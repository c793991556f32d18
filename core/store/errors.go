package store

import "github.com/pkg/errors"

// errors
var (
	ErrStoreClosed         = errors.New("store closed")
	ErrNotExistSnapshot    = errors.New("not exist snapshot")
	ErrInvalidMagic        = errors.New("invalid snapshot magic")
	ErrUnsupportedVersion  = errors.New("unsupported snapshot version")
	ErrInvalidChecksum     = errors.New("invalid snapshot checksum")
	ErrInvalidHeight       = errors.New("invalid snapshot height")
	ErrInvalidSnapshotSize = errors.New("invalid snapshot size")
)
