package backend

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// StoreBackend is a key value database that persists engine snapshots
type StoreBackend interface {
	Name() string
	Shrink() error
	Close() error
	View(fn func(txn StoreReader) error) error
	Update(fn func(txn StoreWriter) error) error
}

// StoreReader reads in a transaction, Iterate visits keys in ascending order
type StoreReader interface {
	Get(key []byte) ([]byte, error)
	Iterate(prefix []byte, fn func(key []byte, value []byte) error) error
}

// StoreWriter writes in a transaction which is applied only when the callback returns nil
type StoreWriter interface {
	StoreReader
	Set(key []byte, value []byte) error
	Delete(key []byte) error
}

type CreateBackend func(Path string) (StoreBackend, error)

var (
	gDriverLock sync.Mutex
	gDriverMap  = map[string]CreateBackend{}
)

func RegisterDriver(Name string, fn CreateBackend) {
	gDriverLock.Lock()
	defer gDriverLock.Unlock()

	gDriverMap[Name] = fn
}

// Drivers returns the names of the registered drivers
func Drivers() []string {
	gDriverLock.Lock()
	defer gDriverLock.Unlock()

	names := make([]string, 0, len(gDriverMap))
	for name := range gDriverMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Create(Name string, Path string) (StoreBackend, error) {
	gDriverLock.Lock()
	fn, has := gDriverMap[Name]
	gDriverLock.Unlock()
	if !has {
		return nil, errors.Wrapf(ErrNotExistDriver, "driver %q", Name)
	}
	return fn(Path)
}

// PrefixEnd returns the smallest key greater than every key with the prefix, nil when there is none
func PrefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
