package asset

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/onyxmesh/onyx-ledger/internal/ledger"
	"github.com/onyxmesh/onyx-ledger/internal/storagemgr/kv"
	"github.com/onyxmesh/onyx-ledger/pkg/events"
)

// two independent ledgers: units of the second stranded on the first
// ledger's state address, then recovered by the first ledger's owner.
func mockForeignPair(t *testing.T) (*Manager, *Manager) {
	t.Helper()

	m := mockManager(t)

	foreign := New(Config{StateLedger: ledger.New(kv.NewMemory())})
	genesis := mockGenesis(admin2, "500", "100", "800")
	genesis.Asset.Name = "Bar Asset"
	genesis.Asset.Symbol = "BAR"
	require.Nil(t, foreign.GenesisInit(genesis))

	require.Nil(t, foreign.Transfer(admin2, m.stateAddr, big.NewInt(50)))
	m.RegisterForeignAsset(foreign)
	return m, foreign
}

func TestRecoverForeignAsset(t *testing.T) {
	t.Run("recover success", func(t *testing.T) {
		m, foreign := mockForeignPair(t)
		ch := make(chan events.AssetEvent, 10)
		sub := m.SubscribeAssetEvent(ch)
		defer sub.Unsubscribe()

		err := m.RecoverForeignAsset(admin1, "BAR", big.NewInt(30))
		require.Nil(t, err)
		require.Equal(t, big.NewInt(30), foreign.BalanceOf(admin1))
		require.Equal(t, big.NewInt(20), foreign.BalanceOf(m.stateAddr))

		ev := <-ch
		rec, ok := ev.Event.(*events.TokensRecovered)
		require.True(t, ok)
		require.Equal(t, "BAR", rec.Asset)
		require.Equal(t, big.NewInt(30), rec.Amount)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		m, _ := mockForeignPair(t)
		err := m.RecoverForeignAsset(admin2, "BAR", big.NewInt(10))
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("own symbol rejected", func(t *testing.T) {
		m, _ := mockForeignPair(t)
		err := m.RecoverForeignAsset(admin1, "TST", big.NewInt(10))
		require.ErrorIs(t, err, ErrSelfRecovery)
	})

	t.Run("unknown symbol rejected", func(t *testing.T) {
		m, _ := mockForeignPair(t)
		err := m.RecoverForeignAsset(admin1, "QUX", big.NewInt(10))
		require.ErrorIs(t, err, ErrUnknownForeignAsset)
	})

	t.Run("amount above held balance", func(t *testing.T) {
		m, _ := mockForeignPair(t)
		err := m.RecoverForeignAsset(admin1, "BAR", big.NewInt(60))
		require.ErrorIs(t, err, ErrInsufficientExternalBalance)
	})

	t.Run("zero amount rejected", func(t *testing.T) {
		m, _ := mockForeignPair(t)
		err := m.RecoverForeignAsset(admin1, "BAR", big.NewInt(0))
		require.ErrorIs(t, err, ErrInvalidAmount)
	})
}

// reentrantAsset calls back into the recovering manager mid-transfer the
// way a malicious token contract would.
type reentrantAsset struct {
	target  *Manager
	callErr error
}

func (r *reentrantAsset) Symbol() string { return "EVIL" }

func (r *reentrantAsset) BalanceOf(ethcommon.Address) *big.Int { return big.NewInt(1000) }

func (r *reentrantAsset) Transfer(_, to ethcommon.Address, _ *big.Int) error {
	r.callErr = r.target.Burn(to, big.NewInt(1))
	return nil
}

func TestRecoverReentrancy(t *testing.T) {
	m := mockManager(t)
	evil := &reentrantAsset{target: m}
	m.RegisterForeignAsset(evil)

	err := m.RecoverForeignAsset(admin1, "EVIL", big.NewInt(10))
	require.Nil(t, err)
	require.ErrorIs(t, evil.callErr, ErrReentrantCall)
	// the callback must not have burned anything
	require.Equal(t, big.NewInt(500), m.TotalSupply())
}

type mockVault struct {
	balances map[ethcommon.Address]*big.Int
}

func (v *mockVault) Balance(account ethcommon.Address) *big.Int {
	if b, ok := v.balances[account]; ok {
		return b
	}
	return big.NewInt(0)
}

func (v *mockVault) Withdraw(from, to ethcommon.Address, amount *big.Int) error {
	v.balances[from] = new(big.Int).Sub(v.Balance(from), amount)
	v.balances[to] = new(big.Int).Add(v.Balance(to), amount)
	return nil
}

func TestWithdrawNativeCurrency(t *testing.T) {
	vault := &mockVault{balances: make(map[ethcommon.Address]*big.Int)}

	m := New(Config{StateLedger: ledger.New(kv.NewMemory()), NativeVault: vault})
	require.Nil(t, m.GenesisInit(mockGenesis(admin1, "500", "100", "800")))
	vault.balances[m.stateAddr] = big.NewInt(77)

	t.Run("non-owner rejected", func(t *testing.T) {
		require.ErrorIs(t, m.WithdrawNativeCurrency(admin2), ErrNotAuthorized)
	})

	t.Run("drain to owner", func(t *testing.T) {
		require.Nil(t, m.WithdrawNativeCurrency(admin1))
		require.Zero(t, vault.Balance(m.stateAddr).Cmp(big.NewInt(0)))
		require.Equal(t, big.NewInt(77), vault.Balance(admin1))
	})

	t.Run("empty vault is a no-op", func(t *testing.T) {
		require.Nil(t, m.WithdrawNativeCurrency(admin1))
		require.Equal(t, big.NewInt(77), vault.Balance(admin1))
	})
}

func TestUpdateDescription(t *testing.T) {
	m := mockManager(t)

	t.Run("non-owner rejected", func(t *testing.T) {
		require.ErrorIs(t, m.UpdateDescription(admin2, "nope"), ErrNotAuthorized)
	})

	t.Run("empty rejected", func(t *testing.T) {
		require.ErrorIs(t, m.UpdateDescription(admin1, ""), ErrEmptyDescription)
	})

	t.Run("update success", func(t *testing.T) {
		require.Nil(t, m.UpdateDescription(admin1, "the test asset"))
		require.Equal(t, "the test asset", m.Description())
	})
}
