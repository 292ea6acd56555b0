package asset

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onyxmesh/onyx-ledger/internal/ledger"
	"github.com/onyxmesh/onyx-ledger/internal/storagemgr/kv"
)

func mockStateAccount(t *testing.T) ledger.IAccount {
	t.Helper()
	l := ledger.New(kv.NewMemory())
	return l.GetOrCreateAccount(admin1)
}

func TestStateMap(t *testing.T) {
	account := mockStateAccount(t)
	m := NewStateMap[string, *big.Int](account, "test", func(k string) string { return k })

	t.Run("get absent key", func(t *testing.T) {
		exist, _, err := m.Get("a")
		require.Nil(t, err)
		require.False(t, exist)
		require.False(t, m.Has("a"))

		_, err = m.MustGet("a")
		require.NotNil(t, err)
	})

	t.Run("put and get", func(t *testing.T) {
		require.Nil(t, m.Put("a", big.NewInt(42)))

		exist, v, err := m.Get("a")
		require.Nil(t, err)
		require.True(t, exist)
		require.Equal(t, big.NewInt(42), v)
		require.True(t, m.Has("a"))
	})

	t.Run("delete leaves a tombstone, not an absent key", func(t *testing.T) {
		require.Nil(t, m.Delete("a"))
		require.False(t, m.Has("a"))

		exist, _, err := m.Get("a")
		require.Nil(t, err)
		require.False(t, exist)
	})

	t.Run("re-put after delete", func(t *testing.T) {
		require.Nil(t, m.Put("a", big.NewInt(7)))
		v, err := m.MustGet("a")
		require.Nil(t, err)
		require.Equal(t, big.NewInt(7), v)
	})

	t.Run("maps with different names do not collide", func(t *testing.T) {
		other := NewStateMap[string, *big.Int](account, "other", func(k string) string { return k })
		require.False(t, other.Has("a"))
	})
}

func TestStateSlot(t *testing.T) {
	account := mockStateAccount(t)
	s := NewStateSlot[string](account, "greeting")

	t.Run("get absent slot", func(t *testing.T) {
		exist, _, err := s.Get()
		require.Nil(t, err)
		require.False(t, exist)
		require.False(t, s.Has())

		_, err = s.MustGet()
		require.NotNil(t, err)
	})

	t.Run("put and get", func(t *testing.T) {
		require.Nil(t, s.Put("hello"))
		require.True(t, s.Has())

		v, err := s.MustGet()
		require.Nil(t, err)
		require.Equal(t, "hello", v)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.Nil(t, s.Put("world"))
		v, err := s.MustGet()
		require.Nil(t, err)
		require.Equal(t, "world", v)
	})
}
