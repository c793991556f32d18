package bolt_driver

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/meverselabs/tokensale/common/rlog"
	"github.com/meverselabs/tokensale/core/backend"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// Name is the driver name
const Name = "bolt"

// FileName is the database file created under the path
const FileName = "store.db"

var bucketName = []byte("tokensale")

func init() {
	backend.RegisterDriver(Name, NewStoreBackendBolt)
}

type StoreBackendBolt struct {
	db     *bolt.DB
	logger *zap.Logger
}

func NewStoreBackendBolt(path string) (backend.StoreBackend, error) {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return nil, errors.WithStack(err)
	}

	start := time.Now()
	db, err := bolt.Open(filepath.Join(path, FileName), 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt %v", path)
	}
	if err := db.Update(func(txn *bolt.Tx) error {
		_, err := txn.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, errors.WithStack(err)
	}
	logger := rlog.Named(Name)
	logger.Info("opened", zap.String("path", path), zap.Duration("elapsed", time.Since(start)))
	return &StoreBackendBolt{
		db:     db,
		logger: logger,
	}, nil
}

func (st *StoreBackendBolt) Name() string {
	return Name
}

func (st *StoreBackendBolt) Shrink() error {
	return nil
}

func (st *StoreBackendBolt) Close() error {
	start := time.Now()
	if err := st.db.Close(); err != nil {
		return errors.WithStack(err)
	}
	st.logger.Info("closed", zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (st *StoreBackendBolt) View(fn func(txn backend.StoreReader) error) error {
	return st.db.View(func(txn *bolt.Tx) error {
		return fn(&storeBackendBoltTx{bucket: txn.Bucket(bucketName)})
	})
}

func (st *StoreBackendBolt) Update(fn func(txn backend.StoreWriter) error) error {
	return st.db.Update(func(txn *bolt.Tx) error {
		return fn(&storeBackendBoltTx{bucket: txn.Bucket(bucketName)})
	})
}

// values of a bolt bucket are valid only until the transaction ends
type storeBackendBoltTx struct {
	bucket *bolt.Bucket
}

func (r *storeBackendBoltTx) Get(key []byte) ([]byte, error) {
	value := r.bucket.Get(key)
	if value == nil {
		return nil, errors.WithStack(backend.ErrNotExistKey)
	}
	return copyBytes(value), nil
}

func (r *storeBackendBoltTx) Iterate(prefix []byte, fn func(key []byte, value []byte) error) error {
	c := r.bucket.Cursor()
	var key, value []byte
	if len(prefix) > 0 {
		key, value = c.Seek(prefix)
	} else {
		key, value = c.First()
	}
	for ; key != nil && bytes.HasPrefix(key, prefix); key, value = c.Next() {
		if err := fn(copyBytes(key), copyBytes(value)); err != nil {
			return err
		}
	}
	return nil
}

func (r *storeBackendBoltTx) Set(key []byte, value []byte) error {
	return errors.WithStack(r.bucket.Put(key, value))
}

func (r *storeBackendBoltTx) Delete(key []byte) error {
	return errors.WithStack(r.bucket.Delete(key))
}

func copyBytes(bs []byte) []byte {
	c := make([]byte, len(bs))
	copy(c, bs)
	return c
}
