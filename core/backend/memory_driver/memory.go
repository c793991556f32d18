package memory_driver

import (
	"bytes"
	"sort"
	"sync"

	"github.com/meverselabs/tokensale/core/backend"
	"github.com/pkg/errors"
	"github.com/tidwall/btree"
)

// Name is the driver name
const Name = "memory"

const btreeDegrees = 64

func init() {
	backend.RegisterDriver(Name, NewStoreBackendMemory)
}

type memItem struct {
	key   []byte
	value []byte
}

func (i *memItem) Less(item btree.Item, ctx interface{}) bool {
	return bytes.Compare(i.key, item.(*memItem).key) < 0
}

// StoreBackendMemory keeps everything in an ordered tree, the path is ignored
type StoreBackendMemory struct {
	sync.RWMutex
	keys   *btree.BTree
	closed bool
}

func NewStoreBackendMemory(path string) (backend.StoreBackend, error) {
	return &StoreBackendMemory{
		keys: btree.New(btreeDegrees, nil),
	}, nil
}

func (st *StoreBackendMemory) Name() string {
	return Name
}

func (st *StoreBackendMemory) Shrink() error {
	return nil
}

func (st *StoreBackendMemory) Close() error {
	st.Lock()
	defer st.Unlock()

	st.closed = true
	return nil
}

func (st *StoreBackendMemory) View(fn func(txn backend.StoreReader) error) error {
	st.RLock()
	defer st.RUnlock()

	if st.closed {
		return errors.WithStack(backend.ErrClosed)
	}
	return fn(&storeBackendMemoryTx{st: st})
}

func (st *StoreBackendMemory) Update(fn func(txn backend.StoreWriter) error) error {
	st.Lock()
	defer st.Unlock()

	if st.closed {
		return errors.WithStack(backend.ErrClosed)
	}
	txn := &storeBackendMemoryTx{
		st:      st,
		pending: map[string][]byte{},
		deleted: map[string]bool{},
	}
	if err := fn(txn); err != nil {
		return err
	}
	for key := range txn.deleted {
		st.keys.Delete(&memItem{key: []byte(key)})
	}
	for key, value := range txn.pending {
		st.keys.ReplaceOrInsert(&memItem{key: []byte(key), value: value})
	}
	return nil
}

// storeBackendMemoryTx buffers writes until the update callback succeeds
type storeBackendMemoryTx struct {
	st      *StoreBackendMemory
	pending map[string][]byte
	deleted map[string]bool
}

func (r *storeBackendMemoryTx) Get(key []byte) ([]byte, error) {
	if value, has := r.pending[string(key)]; has {
		return copyBytes(value), nil
	}
	if r.deleted[string(key)] {
		return nil, errors.WithStack(backend.ErrNotExistKey)
	}
	item := r.st.keys.Get(&memItem{key: key})
	if item == nil {
		return nil, errors.WithStack(backend.ErrNotExistKey)
	}
	return copyBytes(item.(*memItem).value), nil
}

func (r *storeBackendMemoryTx) Iterate(prefix []byte, fn func(key []byte, value []byte) error) error {
	items := []*memItem{}
	r.st.keys.AscendGreaterOrEqual(&memItem{key: prefix}, func(item btree.Item) bool {
		mi := item.(*memItem)
		if !bytes.HasPrefix(mi.key, prefix) {
			return false
		}
		if _, has := r.pending[string(mi.key)]; has || r.deleted[string(mi.key)] {
			return true
		}
		items = append(items, mi)
		return true
	})
	if len(r.pending) > 0 {
		for key, value := range r.pending {
			if bytes.HasPrefix([]byte(key), prefix) {
				items = append(items, &memItem{key: []byte(key), value: value})
			}
		}
		sort.Slice(items, func(i, j int) bool {
			return bytes.Compare(items[i].key, items[j].key) < 0
		})
	}
	for _, mi := range items {
		if err := fn(copyBytes(mi.key), copyBytes(mi.value)); err != nil {
			return err
		}
	}
	return nil
}

func (r *storeBackendMemoryTx) Set(key []byte, value []byte) error {
	if r.pending == nil {
		return errors.New("read only transaction")
	}
	delete(r.deleted, string(key))
	r.pending[string(key)] = copyBytes(value)
	return nil
}

func (r *storeBackendMemoryTx) Delete(key []byte) error {
	if r.pending == nil {
		return errors.New("read only transaction")
	}
	delete(r.pending, string(key))
	r.deleted[string(key)] = true
	return nil
}

func copyBytes(bs []byte) []byte {
	c := make([]byte, len(bs))
	copy(c, bs)
	return c
}
