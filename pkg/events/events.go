package events

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// AssetEvent is the notification surface consumed by auditors and
// indexers. Every successful administrative or balance-changing operation
// publishes exactly one of the concrete types below.
type AssetEvent struct {
	Event any
}

type Initialized struct {
	InitialSupply        *big.Int
	MaxTransactionAmount *big.Int
	MaxWalletBalance     *big.Int
}

type Transfer struct {
	From   ethcommon.Address
	To     ethcommon.Address
	Amount *big.Int
}

type Approval struct {
	Owner   ethcommon.Address
	Spender ethcommon.Address
	Amount  *big.Int
}

type Blacklisted struct {
	Account ethcommon.Address
}

type UnBlacklisted struct {
	Account ethcommon.Address
}

type MinterAdded struct {
	Account ethcommon.Address
}

type MinterRemoved struct {
	Account ethcommon.Address
}

type MaxTransactionAmountChanged struct {
	NewAmount *big.Int
}

type MaxWalletBalanceChanged struct {
	NewBalance *big.Int
}

type Paused struct {
	By ethcommon.Address
}

type Unpaused struct {
	By ethcommon.Address
}

type ContractDescriptionUpdated struct {
	NewDescription string
}

type TokensRecovered struct {
	Asset  string
	Amount *big.Int
}

type OwnershipTransferred struct {
	PreviousOwner ethcommon.Address
	NewOwner      ethcommon.Address
}
