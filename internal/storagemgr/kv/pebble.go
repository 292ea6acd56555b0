package kv

import (
	"github.com/cockroachdb/pebble"
)

type pebbleStorage struct {
	db *pebble.DB
	wo *pebble.WriteOptions
}

// NewPebble opens (or creates) a pebble-backed Storage at path.
func NewPebble(path string, opts *pebble.Options, wo *pebble.WriteOptions) (Storage, error) {
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		wo = pebble.Sync
	}
	return &pebbleStorage{db: db, wo: wo}, nil
}

func (s *pebbleStorage) Get(key []byte) []byte {
	v, closer, err := s.db.Get(key)
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil
		}
		panic(err)
	}
	ret := make([]byte, len(v))
	copy(ret, v)
	if err := closer.Close(); err != nil {
		panic(err)
	}
	return ret
}

func (s *pebbleStorage) Put(key, value []byte) {
	if err := s.db.Set(key, value, s.wo); err != nil {
		panic(err)
	}
}

func (s *pebbleStorage) Delete(key []byte) {
	if err := s.db.Delete(key, s.wo); err != nil {
		panic(err)
	}
}

func (s *pebbleStorage) Has(key []byte) bool {
	_, closer, err := s.db.Get(key)
	if err != nil {
		if err == pebble.ErrNotFound {
			return false
		}
		panic(err)
	}
	if err := closer.Close(); err != nil {
		panic(err)
	}
	return true
}

func (s *pebbleStorage) Close() error {
	return s.db.Close()
}

type pebbleBatch struct {
	storage *pebbleStorage
	batch   *pebble.Batch
}

func (s *pebbleStorage) NewBatch() Batch {
	return &pebbleBatch{
		storage: s,
		batch:   s.db.NewBatch(),
	}
}

func (b *pebbleBatch) Put(key, value []byte) {
	if err := b.batch.Set(key, value, nil); err != nil {
		panic(err)
	}
}

func (b *pebbleBatch) Delete(key []byte) {
	if err := b.batch.Delete(key, nil); err != nil {
		panic(err)
	}
}

func (b *pebbleBatch) Commit() {
	if err := b.batch.Commit(b.storage.wo); err != nil {
		panic(err)
	}
	b.batch = b.storage.db.NewBatch()
}

func (b *pebbleBatch) Reset() {
	b.batch = b.storage.db.NewBatch()
}
