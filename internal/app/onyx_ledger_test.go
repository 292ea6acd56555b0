package app

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onyxmesh/onyx-ledger/pkg/repo"
)

func TestNewOnyxLedger(t *testing.T) {
	rep := repo.MockRepo(t)
	rep.GenesisConfig.Asset.InitialSupply = "500"
	rep.GenesisConfig.Asset.MaxTransactionAmount = "100"
	rep.GenesisConfig.Asset.MaxWalletBalance = "800"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	onyx, err := NewOnyxLedger(rep, ctx, cancel)
	require.Nil(t, err)
	require.Equal(t, big.NewInt(500), onyx.AssetManager.TotalSupply())
	require.Equal(t, big.NewInt(500), onyx.AssetManager.BalanceOf(rep.GenesisConfig.OwnerAddress()))

	// a second boot over the same repo loads state instead of re-minting
	onyx2, err := NewOnyxLedger(rep, ctx, cancel)
	require.Nil(t, err)
	require.Equal(t, big.NewInt(500), onyx2.AssetManager.TotalSupply())
	require.Equal(t, rep.GenesisConfig.OwnerAddress(), onyx2.AssetManager.Owner())
}
