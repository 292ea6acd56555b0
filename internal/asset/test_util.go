package asset

import (
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/onyxmesh/onyx-ledger/internal/ledger"
	"github.com/onyxmesh/onyx-ledger/internal/storagemgr/kv"
	"github.com/onyxmesh/onyx-ledger/pkg/repo"
)

var (
	admin1 = ethcommon.HexToAddress("0x1210000000000000000000000000000000000000")
	admin2 = ethcommon.HexToAddress("0x1220000000000000000000000000000000000000")
	admin3 = ethcommon.HexToAddress("0x1230000000000000000000000000000000000000")
	admin4 = ethcommon.HexToAddress("0x1240000000000000000000000000000000000000")
)

func mockGenesis(owner ethcommon.Address, supply, maxTx, maxWallet string) *repo.GenesisConfig {
	return &repo.GenesisConfig{
		Owner: owner.String(),
		Asset: &repo.AssetConfig{
			Name:                 "Test Asset",
			Symbol:               "TST",
			Decimals:             18,
			InitialSupply:        supply,
			MaxTransactionAmount: maxTx,
			MaxWalletBalance:     maxWallet,
		},
	}
}

// mockManager builds a memory-backed manager initialized with admin1 as
// owner, 500 units of supply, a 100-unit transaction cap and an 800-unit
// wallet cap.
func mockManager(t *testing.T) *Manager {
	t.Helper()

	m := New(Config{StateLedger: ledger.New(kv.NewMemory())})
	err := m.GenesisInit(mockGenesis(admin1, "500", "100", "800"))
	require.Nil(t, err)
	return m
}
