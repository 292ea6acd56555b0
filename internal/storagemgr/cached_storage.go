package storagemgr

import (
	"github.com/VictoriaMetrics/fastcache"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/onyxmesh/onyx-ledger/internal/storagemgr/kv"
)

var (
	kvCacheHitCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "onyx_ledger",
		Subsystem: "storage",
		Name:      "kv_cache_hit_counter",
		Help:      "The total number of kv cache hits",
	})

	kvCacheMissCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "onyx_ledger",
		Subsystem: "storage",
		Name:      "kv_cache_miss_counter",
		Help:      "The total number of kv cache misses",
	})
)

func init() {
	prometheus.MustRegister(kvCacheHitCounter)
	prometheus.MustRegister(kvCacheMissCounter)
}

type cachedStorage struct {
	kv.Storage
	cache *fastcache.Cache
}

// NewCachedStorage wraps s with a read-through fastcache layer of
// megabytesLimit MB.
func NewCachedStorage(s kv.Storage, megabytesLimit int) kv.Storage {
	if megabytesLimit <= 0 {
		megabytesLimit = 128
	}
	return &cachedStorage{
		Storage: s,
		cache:   fastcache.New(megabytesLimit * 1024 * 1024),
	}
}

func (c *cachedStorage) Get(key []byte) []byte {
	if value, ok := c.cache.HasGet(nil, key); ok {
		kvCacheHitCounter.Inc()
		return value
	}
	kvCacheMissCounter.Inc()
	value := c.Storage.Get(key)
	if value != nil {
		c.cache.Set(key, value)
	}
	return value
}

func (c *cachedStorage) Has(key []byte) bool {
	if c.cache.Has(key) {
		kvCacheHitCounter.Inc()
		return true
	}
	kvCacheMissCounter.Inc()
	return c.Storage.Has(key)
}

func (c *cachedStorage) Put(key, value []byte) {
	c.cache.Set(key, value)
	c.Storage.Put(key, value)
}

func (c *cachedStorage) Delete(key []byte) {
	c.cache.Del(key)
	c.Storage.Delete(key)
}

type cachedBatch struct {
	kv.Batch
	cache *fastcache.Cache
}

func (c *cachedStorage) NewBatch() kv.Batch {
	return &cachedBatch{
		Batch: c.Storage.NewBatch(),
		cache: c.cache,
	}
}

func (b *cachedBatch) Put(key, value []byte) {
	b.cache.Set(key, value)
	b.Batch.Put(key, value)
}

func (b *cachedBatch) Delete(key []byte) {
	b.cache.Del(key)
	b.Batch.Delete(key)
}
