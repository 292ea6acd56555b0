package asset

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/onyxmesh/onyx-ledger/internal/ledger"
)

// StateAddr is the reserved account holding all asset-manager state:
// roles, limits, allowances and metadata. Kept out of the user address
// range the same way system contract addresses are.
const StateAddr = "0x0000000000000000000000000000000000001001"

var (
	ErrSystemPaused                = errors.New("system is paused")
	ErrInvalidAmount               = errors.New("amount must be greater than zero")
	ErrBlacklisted                 = errors.New("address is blacklisted")
	ErrExceedsTransactionLimit     = errors.New("amount exceeds max transaction amount")
	ErrExceedsWalletLimit          = errors.New("amount exceeds max wallet balance")
	ErrNotAuthorized               = errors.New("caller is not authorized")
	ErrInsufficientAllowance       = errors.New("amount exceeds allowance")
	ErrInvalidState                = errors.New("account is already in the requested state")
	ErrSelfRecovery                = errors.New("cannot recover the ledger's own asset")
	ErrInsufficientExternalBalance = errors.New("amount exceeds held foreign asset balance")
	ErrUnknownForeignAsset         = errors.New("foreign asset is not registered")
	ErrEmptyDescription            = errors.New("description must not be empty")
	ErrAlreadyInitialized          = errors.New("asset manager is already initialized")

	// shared with the ledger store so errors.Is works across layers
	ErrInsufficientBalance = ledger.ErrInsufficientBalance
	ErrZeroAddress         = ledger.ErrZeroAddress
)

const (
	nameKey        = "name"
	symbolKey      = "symbol"
	decimalsKey    = "decimals"
	descriptionKey = "description"
	ownerKey       = "owner"
	pausedKey      = "paused"
	maxTxAmountKey = "maxTransactionAmount"
	maxWalletKey   = "maxWalletBalance"

	mintersMapName   = "minters"
	blacklistMapName = "blacklist"
	allowanceMapName = "allowances"
)

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
