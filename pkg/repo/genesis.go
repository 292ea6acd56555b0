package repo

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// GenesisConfig fixes the ledger's construction parameters. Every field is
// validated by Validate before any state is written.
type GenesisConfig struct {
	Owner string       `mapstructure:"owner" toml:"owner"`
	Asset *AssetConfig `mapstructure:"asset" toml:"asset"`
}

type AssetConfig struct {
	Name     string `mapstructure:"name" toml:"name"`
	Symbol   string `mapstructure:"symbol" toml:"symbol"`
	Decimals uint8  `mapstructure:"decimals" toml:"decimals"`

	// big integers carried as decimal strings, the toml layer has no
	// arbitrary-precision number type
	InitialSupply        string `mapstructure:"initial_supply" toml:"initial_supply"`
	MaxTransactionAmount string `mapstructure:"max_transaction_amount" toml:"max_transaction_amount"`
	MaxWalletBalance     string `mapstructure:"max_wallet_balance" toml:"max_wallet_balance"`
}

var (
	ErrInvalidOwner         = errors.New("genesis owner is not a valid address")
	ErrInvalidInitialSupply = errors.New("genesis initial supply must be a positive integer")
	ErrInvalidMaxTx         = errors.New("genesis max transaction amount must be a positive integer")
	ErrInvalidMaxBalance    = errors.New("genesis max wallet balance must be a positive integer")
	ErrSupplyExceedsWallet  = errors.New("genesis initial supply exceeds max wallet balance")
)

func (g *GenesisConfig) Validate() error {
	if !ethcommon.IsHexAddress(g.Owner) || ethcommon.HexToAddress(g.Owner) == (ethcommon.Address{}) {
		return ErrInvalidOwner
	}
	if g.Asset == nil {
		return errors.New("genesis asset section is missing")
	}

	initialSupply, ok := new(big.Int).SetString(g.Asset.InitialSupply, 10)
	if !ok || initialSupply.Sign() <= 0 {
		return ErrInvalidInitialSupply
	}
	maxTx, ok := new(big.Int).SetString(g.Asset.MaxTransactionAmount, 10)
	if !ok || maxTx.Sign() <= 0 {
		return ErrInvalidMaxTx
	}
	maxBalance, ok := new(big.Int).SetString(g.Asset.MaxWalletBalance, 10)
	if !ok || maxBalance.Sign() <= 0 {
		return ErrInvalidMaxBalance
	}
	if initialSupply.Cmp(maxBalance) > 0 {
		return ErrSupplyExceedsWallet
	}
	return nil
}

func (g *GenesisConfig) OwnerAddress() ethcommon.Address {
	return ethcommon.HexToAddress(g.Owner)
}

func (a *AssetConfig) InitialSupplyBig() *big.Int {
	v, _ := new(big.Int).SetString(a.InitialSupply, 10)
	return v
}

func (a *AssetConfig) MaxTransactionAmountBig() *big.Int {
	v, _ := new(big.Int).SetString(a.MaxTransactionAmount, 10)
	return v
}

func (a *AssetConfig) MaxWalletBalanceBig() *big.Int {
	v, _ := new(big.Int).SetString(a.MaxWalletBalance, 10)
	return v
}

func DefaultGenesisConfig() *GenesisConfig {
	return &GenesisConfig{
		Owner: DefaultOwner,
		Asset: &AssetConfig{
			Name:                 DefaultAssetName,
			Symbol:               DefaultAssetSymbol,
			Decimals:             DefaultAssetDecimals,
			InitialSupply:        DefaultInitialSupply,
			MaxTransactionAmount: DefaultMaxTransactionAmount,
			MaxWalletBalance:     DefaultMaxWalletBalance,
		},
	}
}
