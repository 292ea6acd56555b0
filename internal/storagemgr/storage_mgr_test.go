package storagemgr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onyxmesh/onyx-ledger/internal/storagemgr/kv"
	"github.com/onyxmesh/onyx-ledger/pkg/repo"
)

func TestOpenReturnsSameInstance(t *testing.T) {
	s1, err := Open("test-same-instance")
	require.Nil(t, err)
	s2, err := Open("test-same-instance")
	require.Nil(t, err)
	require.True(t, s1 == s2)
}

func TestOpenUnknownType(t *testing.T) {
	_, err := OpenSpecifyType("bolt", "test-unknown-type")
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "unknown kv type")
}

func TestCachedStorage(t *testing.T) {
	base := kv.NewMemory()
	s := NewCachedStorage(base, 16)

	s.Put([]byte("k"), []byte("v"))
	require.Equal(t, []byte("v"), s.Get([]byte("k")))
	require.True(t, s.Has([]byte("k")))

	s.Delete([]byte("k"))
	require.Nil(t, s.Get([]byte("k")))
	require.False(t, s.Has([]byte("k")))

	// batch writes must land in the cache too, a later Get may never
	// reach the underlying store
	batch := s.NewBatch()
	batch.Put([]byte("a"), []byte("1"))
	batch.Commit()
	require.Equal(t, []byte("1"), s.Get([]byte("a")))
	require.Equal(t, []byte("1"), base.Get([]byte("a")))
}

func TestInitializeRejectsUnknownDefault(t *testing.T) {
	err := Initialize("bolt", 16, false)
	require.NotNil(t, err)

	require.Nil(t, Initialize(repo.KVStorageTypeLeveldb, 16, false))
	s, err := Open(t.TempDir())
	require.Nil(t, err)
	s.Put([]byte("k"), []byte("v"))
	require.Equal(t, []byte("v"), s.Get([]byte("k")))
}

func TestPebbleBuilderKeepsDefaultsPristine(t *testing.T) {
	require.Nil(t, Initialize(repo.KVStorageTypePebble, 16, false))
	s, err := Open(t.TempDir())
	require.Nil(t, err)
	s.Put([]byte("k"), []byte("v"))
	require.Equal(t, []byte("v"), s.Get([]byte("k")))

	// the builder customizes a copy, never the shared options value
	require.Nil(t, defaultPebbleOptions.Cache)
	require.Zero(t, defaultPebbleOptions.MemTableSize)
}
