package store

import (
	"sync"

	"github.com/bluele/gcache"
	"github.com/meverselabs/tokensale/common/bin"
	"github.com/meverselabs/tokensale/common/rlog"
	"github.com/meverselabs/tokensale/core/backend"
	"github.com/meverselabs/tokensale/core/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultCacheSize is the number of encoded snapshots kept in memory
const DefaultCacheSize = 16

// Store saves committed engine states by height
type Store struct {
	sync.Mutex
	closeLock sync.RWMutex
	db        backend.StoreBackend
	cache     gcache.Cache
	logger    *zap.Logger
	isClose   bool
}

// NewStore returns a Store on the backend
func NewStore(db backend.StoreBackend, cacheSize int) *Store {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return &Store{
		db:     db,
		cache:  gcache.New(cacheSize).LRU().Build(),
		logger: rlog.Named("store"),
	}
}

// Close terminates and flushes the store
func (st *Store) Close() error {
	st.closeLock.Lock()
	defer st.closeLock.Unlock()

	if st.isClose {
		return nil
	}
	st.isClose = true
	st.cache.Purge()
	return st.db.Close()
}

// Height returns the latest committed height, zero when nothing is stored
func (st *Store) Height() (uint32, error) {
	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return 0, errors.WithStack(ErrStoreClosed)
	}

	var height uint32
	if err := st.db.View(func(txn backend.StoreReader) error {
		value, err := txn.Get(tagHeight)
		if err != nil {
			if errors.Is(err, backend.ErrNotExistKey) {
				return nil
			}
			return err
		}
		height = bin.Uint32(value)
		return nil
	}); err != nil {
		return 0, err
	}
	return height, nil
}

// Commit stores the committed state of the context at the next height
func (st *Store) Commit(ctx *types.Context) (uint32, error) {
	st.Lock()
	defer st.Unlock()

	base, err := ctx.Base()
	if err != nil {
		return 0, err
	}
	height, err := st.Height()
	if err != nil {
		return 0, err
	}
	s := &Snapshot{
		Height:    height + 1,
		Timestamp: ctx.LastTimestamp(),
		Data:      base,
	}
	bs, err := EncodeSnapshot(s)
	if err != nil {
		return 0, err
	}

	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return 0, errors.WithStack(ErrStoreClosed)
	}
	if err := st.db.Update(func(txn backend.StoreWriter) error {
		if err := txn.Set(toHeightSnapshotKey(s.Height), bs); err != nil {
			return err
		}
		return txn.Set(tagHeight, bin.Uint32Bytes(s.Height))
	}); err != nil {
		return 0, err
	}
	st.cache.Set(s.Height, bs)
	st.logger.Info("commit", zap.Uint32("height", s.Height), zap.Stringer("hash", s.Hash()), zap.Int("size", len(bs)))
	return s.Height, nil
}

// Snapshot returns the stored state of the height
func (st *Store) Snapshot(height uint32) (*Snapshot, error) {
	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return nil, errors.WithStack(ErrStoreClosed)
	}

	var bs []byte
	if v, err := st.cache.Get(height); err == nil {
		bs = v.([]byte)
	} else if err != gcache.KeyNotFoundError {
		return nil, errors.WithStack(err)
	} else {
		if err := st.db.View(func(txn backend.StoreReader) error {
			value, err := txn.Get(toHeightSnapshotKey(height))
			if err != nil {
				return err
			}
			bs = value
			return nil
		}); err != nil {
			if errors.Is(err, backend.ErrNotExistKey) {
				return nil, errors.Wrapf(ErrNotExistSnapshot, "height %v", height)
			}
			return nil, err
		}
		st.cache.Set(height, bs)
	}
	s, err := DecodeSnapshot(bs)
	if err != nil {
		return nil, err
	}
	if s.Height != height {
		return nil, errors.Wrapf(ErrInvalidHeight, "stored %v at %v", s.Height, height)
	}
	return s, nil
}

// Latest returns the stored state of the latest height
func (st *Store) Latest() (*Snapshot, error) {
	height, err := st.Height()
	if err != nil {
		return nil, err
	}
	if height == 0 {
		return nil, errors.Wrap(ErrNotExistSnapshot, "empty store")
	}
	return st.Snapshot(height)
}

// Heights returns every stored height in ascending order
func (st *Store) Heights() ([]uint32, error) {
	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return nil, errors.WithStack(ErrStoreClosed)
	}

	heights := []uint32{}
	if err := st.db.View(func(txn backend.StoreReader) error {
		return txn.Iterate(tagHeightSnapshot, func(key []byte, value []byte) error {
			heights = append(heights, fromHeightSnapshotKey(key))
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return heights, nil
}

// Prune removes snapshots older than the latest keep heights
func (st *Store) Prune(keep uint32) (int, error) {
	st.Lock()
	defer st.Unlock()

	height, err := st.Height()
	if err != nil {
		return 0, err
	}
	if keep == 0 || height <= keep {
		return 0, nil
	}
	limit := height - keep

	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return 0, errors.WithStack(ErrStoreClosed)
	}
	var count int
	if err := st.db.Update(func(txn backend.StoreWriter) error {
		keys := [][]byte{}
		if err := txn.Iterate(tagHeightSnapshot, func(key []byte, value []byte) error {
			if fromHeightSnapshotKey(key) <= limit {
				keys = append(keys, key)
			}
			return nil
		}); err != nil {
			return err
		}
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		count = len(keys)
		return nil
	}); err != nil {
		return 0, err
	}
	for h := uint32(1); h <= limit; h++ {
		st.cache.Remove(h)
	}
	if err := st.db.Shrink(); err != nil {
		st.logger.Warn("shrink", zap.Error(err))
	}
	return count, nil
}
