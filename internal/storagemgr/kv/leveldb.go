package kv

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

type ldbStorage struct {
	db *leveldb.DB
}

// NewLeveldb opens (or creates) a leveldb-backed Storage at path.
func NewLeveldb(path string, o *opt.Options) (Storage, error) {
	db, err := leveldb.OpenFile(path, o)
	if err != nil {
		return nil, err
	}
	return &ldbStorage{db: db}, nil
}

func (s *ldbStorage) Get(key []byte) []byte {
	v, err := s.db.Get(key, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil
		}
		panic(err)
	}
	return v
}

func (s *ldbStorage) Put(key, value []byte) {
	if err := s.db.Put(key, value, nil); err != nil {
		panic(err)
	}
}

func (s *ldbStorage) Delete(key []byte) {
	if err := s.db.Delete(key, nil); err != nil {
		panic(err)
	}
}

func (s *ldbStorage) Has(key []byte) bool {
	has, err := s.db.Has(key, nil)
	if err != nil {
		panic(err)
	}
	return has
}

func (s *ldbStorage) Close() error {
	return s.db.Close()
}

type ldbBatch struct {
	storage *ldbStorage
	batch   *leveldb.Batch
}

func (s *ldbStorage) NewBatch() Batch {
	return &ldbBatch{
		storage: s,
		batch:   &leveldb.Batch{},
	}
}

func (b *ldbBatch) Put(key, value []byte) {
	b.batch.Put(key, value)
}

func (b *ldbBatch) Delete(key []byte) {
	b.batch.Delete(key)
}

func (b *ldbBatch) Commit() {
	if err := b.storage.db.Write(b.batch, nil); err != nil {
		panic(err)
	}
}

func (b *ldbBatch) Reset() {
	b.batch.Reset()
}
