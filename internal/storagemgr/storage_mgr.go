package storagemgr

import (
	"runtime"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"
	"github.com/pkg/errors"

	"github.com/onyxmesh/onyx-ledger/internal/storagemgr/kv"
	"github.com/onyxmesh/onyx-ledger/pkg/repo"
)

const (
	Ledger = "ledger"
	Asset  = "asset"
)

var globalStorageMgr = &storageMgr{
	storageBuilderMap: make(map[string]func(p string) (kv.Storage, error)),
	storages:          make(map[string]kv.Storage),
	lock:              new(sync.Mutex),
}

func init() {
	memoryBuilder := func(p string) (kv.Storage, error) {
		return kv.NewMemory(), nil
	}

	// only for test
	globalStorageMgr.storageBuilderMap[repo.KVStorageTypeLeveldb] = memoryBuilder
	globalStorageMgr.storageBuilderMap[repo.KVStorageTypePebble] = memoryBuilder
	globalStorageMgr.storageBuilderMap[""] = memoryBuilder
}

type storageMgr struct {
	storageBuilderMap map[string]func(p string) (kv.Storage, error)
	storages          map[string]kv.Storage
	defaultKVType     string
	lock              *sync.Mutex
}

var defaultPebbleOptions = &pebble.Options{
	// a frozen memory table and a live one, the same manner as leveldb
	MemTableStopWritesThreshold: 2,

	MaxConcurrentCompactions: func() int { return runtime.NumCPU() },

	Levels: []pebble.LevelOptions{
		{TargetFileSize: 2 * 1024 * 1024, BlockSize: 32 * 1024, FilterPolicy: bloom.FilterPolicy(10)},
		{TargetFileSize: 4 * 1024 * 1024, BlockSize: 32 * 1024, FilterPolicy: bloom.FilterPolicy(10)},
		{TargetFileSize: 8 * 1024 * 1024, BlockSize: 32 * 1024, FilterPolicy: bloom.FilterPolicy(10)},
		{TargetFileSize: 16 * 1024 * 1024, BlockSize: 32 * 1024, FilterPolicy: bloom.FilterPolicy(10)},
	},
}

func (m *storageMgr) open(typ string, p string) (kv.Storage, error) {
	builder, ok := m.storageBuilderMap[typ]
	if !ok {
		return nil, errors.Errorf("unknown kv type %s, expect leveldb or pebble", typ)
	}
	return builder(p)
}

// Initialize registers the real disk-backed builders. Before it runs every
// Open call returns an in-memory store, which is what tests rely on.
func Initialize(defaultKVType string, kvCacheSize int, sync bool) error {
	globalStorageMgr.storageBuilderMap[repo.KVStorageTypeLeveldb] = func(p string) (kv.Storage, error) {
		return kv.NewLeveldb(p, nil)
	}
	globalStorageMgr.storageBuilderMap[repo.KVStorageTypePebble] = func(p string) (kv.Storage, error) {
		// copy, the package-level defaults must survive repeated Initialize
		opts := *defaultPebbleOptions
		opts.Cache = pebble.NewCache(int64(kvCacheSize * 1024 * 1024))
		opts.MemTableSize = uint64(kvCacheSize * 1024 * 1024 / 4)
		return kv.NewPebble(p, &opts, &pebble.WriteOptions{Sync: sync})
	}
	_, ok := globalStorageMgr.storageBuilderMap[defaultKVType]
	if !ok {
		return errors.Errorf("unknown kv type %s, expect leveldb or pebble", defaultKVType)
	}
	globalStorageMgr.defaultKVType = defaultKVType
	return nil
}

func Open(p string) (kv.Storage, error) {
	return OpenSpecifyType(globalStorageMgr.defaultKVType, p)
}

func OpenSpecifyType(typ string, p string) (kv.Storage, error) {
	globalStorageMgr.lock.Lock()
	defer globalStorageMgr.lock.Unlock()
	s, ok := globalStorageMgr.storages[p]
	if !ok {
		var err error
		s, err = globalStorageMgr.open(typ, p)
		if err != nil {
			return nil, err
		}
		globalStorageMgr.storages[p] = s
	}
	return s, nil
}
