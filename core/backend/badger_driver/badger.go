package badger_driver

import (
	"os"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/meverselabs/tokensale/common/rlog"
	"github.com/meverselabs/tokensale/core/backend"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Name is the driver name
const Name = "badger"

const gcDiscardRatio = 0.5
const gcMaxRounds = 10

func init() {
	backend.RegisterDriver(Name, NewStoreBackendBadger)
}

type StoreBackendBadger struct {
	db     *badger.DB
	logger *zap.Logger
}

func NewStoreBackendBadger(path string) (backend.StoreBackend, error) {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return nil, errors.WithStack(err)
	}
	opts := badger.DefaultOptions(path).
		WithSyncWrites(true).
		WithLogger(nil)

	start := time.Now()
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open badger %v", path)
	}
	logger := rlog.Named(Name)
	logger.Info("opened", zap.String("path", path), zap.Duration("elapsed", time.Since(start)))
	return &StoreBackendBadger{
		db:     db,
		logger: logger,
	}, nil
}

func (st *StoreBackendBadger) Name() string {
	return Name
}

func (st *StoreBackendBadger) Shrink() error {
	for i := 0; i < gcMaxRounds; i++ {
		if err := st.db.RunValueLogGC(gcDiscardRatio); err != nil {
			if err == badger.ErrNoRewrite || err == badger.ErrRejected {
				return nil
			}
			return errors.WithStack(err)
		}
	}
	return nil
}

func (st *StoreBackendBadger) Close() error {
	start := time.Now()
	if err := st.db.Close(); err != nil {
		return errors.WithStack(err)
	}
	st.logger.Info("closed", zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (st *StoreBackendBadger) View(fn func(txn backend.StoreReader) error) error {
	return st.db.View(func(txn *badger.Txn) error {
		return fn(&storeBackendBadgerTx{txn: txn})
	})
}

func (st *StoreBackendBadger) Update(fn func(txn backend.StoreWriter) error) error {
	return st.db.Update(func(txn *badger.Txn) error {
		return fn(&storeBackendBadgerTx{txn: txn})
	})
}

type storeBackendBadgerTx struct {
	txn *badger.Txn
}

func (r *storeBackendBadgerTx) Get(key []byte) ([]byte, error) {
	item, err := r.txn.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, errors.WithStack(backend.ErrNotExistKey)
		}
		return nil, errors.WithStack(err)
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return value, nil
}

func (r *storeBackendBadgerTx) Iterate(prefix []byte, fn func(key []byte, value []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := r.txn.NewIterator(opts)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		value, err := item.ValueCopy(nil)
		if err != nil {
			return errors.WithStack(err)
		}
		if err := fn(item.KeyCopy(nil), value); err != nil {
			return err
		}
	}
	return nil
}

func (r *storeBackendBadgerTx) Set(key []byte, value []byte) error {
	return errors.WithStack(r.txn.Set(key, value))
}

func (r *storeBackendBadgerTx) Delete(key []byte) error {
	return errors.WithStack(r.txn.Delete(key))
}
