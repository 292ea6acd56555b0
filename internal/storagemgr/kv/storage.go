package kv

// Storage is the key-value backend every persistent component runs on.
// Read and write failures of the underlying store are treated as fatal:
// the ledger cannot make progress on a half-working disk.
type Storage interface {
	Get(key []byte) []byte
	Put(key, value []byte)
	Delete(key []byte)
	Has(key []byte) bool
	NewBatch() Batch
	Close() error
}

// Batch accumulates writes and applies them in one atomic commit.
type Batch interface {
	Put(key, value []byte)
	Delete(key []byte)
	Commit()
	Reset()
}
