package kv

import (
	"sync"
)

type memoryStorage struct {
	lock sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an in-memory Storage, used by tests and as the
// default backend before Initialize is called.
func NewMemory() Storage {
	return &memoryStorage{
		data: make(map[string][]byte),
	}
}

func (s *memoryStorage) Get(key []byte) []byte {
	s.lock.RLock()
	defer s.lock.RUnlock()
	v, ok := s.data[string(key)]
	if !ok {
		return nil
	}
	ret := make([]byte, len(v))
	copy(ret, v)
	return ret
}

func (s *memoryStorage) Put(key, value []byte) {
	s.lock.Lock()
	defer s.lock.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	s.data[string(key)] = v
}

func (s *memoryStorage) Delete(key []byte) {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.data, string(key))
}

func (s *memoryStorage) Has(key []byte) bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	_, ok := s.data[string(key)]
	return ok
}

func (s *memoryStorage) Close() error {
	return nil
}

type memoryBatch struct {
	storage *memoryStorage
	lock    sync.Mutex
	puts    map[string][]byte
	deletes map[string]struct{}
}

func (s *memoryStorage) NewBatch() Batch {
	return &memoryBatch{
		storage: s,
		puts:    make(map[string][]byte),
		deletes: make(map[string]struct{}),
	}
}

func (b *memoryBatch) Put(key, value []byte) {
	b.lock.Lock()
	defer b.lock.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	b.puts[string(key)] = v
	delete(b.deletes, string(key))
}

func (b *memoryBatch) Delete(key []byte) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.deletes[string(key)] = struct{}{}
	delete(b.puts, string(key))
}

func (b *memoryBatch) Commit() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.storage.lock.Lock()
	defer b.storage.lock.Unlock()
	for k, v := range b.puts {
		b.storage.data[k] = v
	}
	for k := range b.deletes {
		delete(b.storage.data, k)
	}
}

func (b *memoryBatch) Reset() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.puts = make(map[string][]byte)
	b.deletes = make(map[string]struct{})
}
