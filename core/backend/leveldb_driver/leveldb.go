package leveldb_driver

import (
	"time"

	"github.com/meverselabs/tokensale/common/rlog"
	"github.com/meverselabs/tokensale/core/backend"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
	"go.uber.org/zap"
)

// Name is the driver name
const Name = "leveldb"

func init() {
	backend.RegisterDriver(Name, NewStoreBackendLevelDB)
}

type StoreBackendLevelDB struct {
	db     *leveldb.DB
	logger *zap.Logger
}

func NewStoreBackendLevelDB(path string) (backend.StoreBackend, error) {
	start := time.Now()
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open leveldb %v", path)
	}
	logger := rlog.Named(Name)
	logger.Info("opened", zap.String("path", path), zap.Duration("elapsed", time.Since(start)))
	return &StoreBackendLevelDB{
		db:     db,
		logger: logger,
	}, nil
}

func (st *StoreBackendLevelDB) Name() string {
	return Name
}

func (st *StoreBackendLevelDB) Shrink() error {
	return errors.WithStack(st.db.CompactRange(util.Range{}))
}

func (st *StoreBackendLevelDB) Close() error {
	start := time.Now()
	if err := st.db.Close(); err != nil {
		return errors.WithStack(err)
	}
	st.logger.Info("closed", zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (st *StoreBackendLevelDB) View(fn func(txn backend.StoreReader) error) error {
	snap, err := st.db.GetSnapshot()
	if err != nil {
		return errors.WithStack(err)
	}
	defer snap.Release()
	return fn(&storeBackendLevelDBSnapshot{snap: snap})
}

func (st *StoreBackendLevelDB) Update(fn func(txn backend.StoreWriter) error) error {
	txn, err := st.db.OpenTransaction()
	if err != nil {
		return errors.WithStack(err)
	}
	if err := fn(&storeBackendLevelDBTx{txn: txn}); err != nil {
		txn.Discard()
		return err
	}
	if err := txn.Commit(); err != nil {
		txn.Discard()
		return errors.WithStack(err)
	}
	return nil
}

func prefixRange(prefix []byte) *util.Range {
	if len(prefix) == 0 {
		return nil
	}
	return &util.Range{Start: prefix, Limit: backend.PrefixEnd(prefix)}
}

func getValue(value []byte, err error) ([]byte, error) {
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, errors.WithStack(backend.ErrNotExistKey)
		}
		return nil, errors.WithStack(err)
	}
	return value, nil
}

type storeBackendLevelDBSnapshot struct {
	snap *leveldb.Snapshot
}

func (r *storeBackendLevelDBSnapshot) Get(key []byte) ([]byte, error) {
	return getValue(r.snap.Get(key, nil))
}

func (r *storeBackendLevelDBSnapshot) Iterate(prefix []byte, fn func(key []byte, value []byte) error) error {
	it := r.snap.NewIterator(prefixRange(prefix), &opt.ReadOptions{DontFillCache: true})
	defer it.Release()
	for it.Next() {
		if err := fn(copyBytes(it.Key()), copyBytes(it.Value())); err != nil {
			return err
		}
	}
	return errors.WithStack(it.Error())
}

type storeBackendLevelDBTx struct {
	txn *leveldb.Transaction
}

func (r *storeBackendLevelDBTx) Get(key []byte) ([]byte, error) {
	return getValue(r.txn.Get(key, nil))
}

func (r *storeBackendLevelDBTx) Iterate(prefix []byte, fn func(key []byte, value []byte) error) error {
	it := r.txn.NewIterator(prefixRange(prefix), nil)
	defer it.Release()
	for it.Next() {
		if err := fn(copyBytes(it.Key()), copyBytes(it.Value())); err != nil {
			return err
		}
	}
	return errors.WithStack(it.Error())
}

func (r *storeBackendLevelDBTx) Set(key []byte, value []byte) error {
	return errors.WithStack(r.txn.Put(key, value, nil))
}

func (r *storeBackendLevelDBTx) Delete(key []byte) error {
	return errors.WithStack(r.txn.Delete(key, nil))
}

func copyBytes(bs []byte) []byte {
	c := make([]byte, len(bs))
	copy(c, bs)
	return c
}
