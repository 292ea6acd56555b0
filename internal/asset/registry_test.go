package asset

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/onyxmesh/onyx-ledger/pkg/events"
)

func TestBlacklistRegistry(t *testing.T) {
	m := mockManager(t)

	t.Run("non-owner rejected", func(t *testing.T) {
		require.ErrorIs(t, m.Blacklist(admin2, admin3), ErrNotAuthorized)
		require.ErrorIs(t, m.UnBlacklist(admin2, admin3), ErrNotAuthorized)
	})

	t.Run("zero address rejected", func(t *testing.T) {
		require.ErrorIs(t, m.Blacklist(admin1, ethcommon.Address{}), ErrZeroAddress)
	})

	t.Run("add and remove", func(t *testing.T) {
		ch := make(chan events.AssetEvent, 10)
		sub := m.SubscribeAssetEvent(ch)
		defer sub.Unsubscribe()

		require.Nil(t, m.Blacklist(admin1, admin2))
		require.True(t, m.IsBlacklisted(admin2))

		ev := <-ch
		bl, ok := ev.Event.(*events.Blacklisted)
		require.True(t, ok)
		require.Equal(t, admin2, bl.Account)

		require.Nil(t, m.UnBlacklist(admin1, admin2))
		require.False(t, m.IsBlacklisted(admin2))
	})

	t.Run("duplicate state rejected", func(t *testing.T) {
		require.Nil(t, m.Blacklist(admin1, admin2))
		require.ErrorIs(t, m.Blacklist(admin1, admin2), ErrInvalidState)

		require.Nil(t, m.UnBlacklist(admin1, admin2))
		require.ErrorIs(t, m.UnBlacklist(admin1, admin2), ErrInvalidState)
	})
}

func TestMinterRegistry(t *testing.T) {
	m := mockManager(t)

	t.Run("non-owner rejected", func(t *testing.T) {
		require.ErrorIs(t, m.AddMinter(admin2, admin2), ErrNotAuthorized)
	})

	t.Run("grant enables mint", func(t *testing.T) {
		require.Nil(t, m.AddMinter(admin1, admin2))
		require.True(t, m.IsMinter(admin2))
		require.Nil(t, m.Mint(admin2, admin3, big.NewInt(10)))
	})

	t.Run("revoke disables mint", func(t *testing.T) {
		require.Nil(t, m.RemoveMinter(admin1, admin2))
		require.False(t, m.IsMinter(admin2))
		require.ErrorIs(t, m.Mint(admin2, admin3, big.NewInt(10)), ErrNotAuthorized)
	})

	t.Run("duplicate state rejected", func(t *testing.T) {
		require.ErrorIs(t, m.AddMinter(admin1, admin1), ErrInvalidState)
		require.ErrorIs(t, m.RemoveMinter(admin1, admin2), ErrInvalidState)
	})
}

func TestTransferOwnership(t *testing.T) {
	m := mockManager(t)

	t.Run("non-owner rejected", func(t *testing.T) {
		require.ErrorIs(t, m.TransferOwnership(admin2, admin2), ErrNotAuthorized)
	})

	t.Run("zero address rejected", func(t *testing.T) {
		require.ErrorIs(t, m.TransferOwnership(admin1, ethcommon.Address{}), ErrZeroAddress)
	})

	t.Run("authority moves to new owner", func(t *testing.T) {
		require.Nil(t, m.TransferOwnership(admin1, admin2))
		require.Equal(t, admin2, m.Owner())

		require.ErrorIs(t, m.Pause(admin1), ErrNotAuthorized)
		require.Nil(t, m.Pause(admin2))
	})
}
