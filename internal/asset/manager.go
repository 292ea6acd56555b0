package asset

import (
	"fmt"
	"math/big"
	"sync"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/onyxmesh/onyx-ledger/internal/ledger"
	"github.com/onyxmesh/onyx-ledger/pkg/events"
	"github.com/onyxmesh/onyx-ledger/pkg/loggers"
	"github.com/onyxmesh/onyx-ledger/pkg/repo"
)

// Manager is the single authority over the asset: every balance-changing
// operation routes through its authorization pipeline, every
// administrative mutation through its owner gate. All mutating entry
// points serialize on one mutex held for the full check-then-commit, so a
// failed call leaves no partial state.
type Manager struct {
	logger      logrus.FieldLogger
	stateLedger ledger.StateLedger

	// stateAccount holds roles, limits, allowances and metadata
	stateAccount ledger.IAccount
	stateAddr    ethcommon.Address

	mu    sync.Mutex
	guard *ReentrancyGuard
	feed  event.Feed

	foreignAssets map[string]ForeignAsset
	vault         NativeVault

	name        *StateSlot[string]
	symbol      *StateSlot[string]
	decimals    *StateSlot[uint8]
	description *StateSlot[string]
	owner       *StateSlot[ethcommon.Address]
	paused      *StateSlot[bool]
	maxTxAmount *StateSlot[*big.Int]
	maxWallet   *StateSlot[*big.Int]
	minters     *StateMap[ethcommon.Address, bool]
	blacklist   *StateMap[ethcommon.Address, bool]
	allowances  *StateMap[allowanceKey, *big.Int]
}

type allowanceKey struct {
	Owner   ethcommon.Address
	Spender ethcommon.Address
}

func (k allowanceKey) String() string {
	return fmt.Sprintf("%s-%s", k.Owner, k.Spender)
}

type Config struct {
	Logger      logrus.FieldLogger
	StateLedger ledger.StateLedger
	NativeVault NativeVault
}

func New(cfg Config) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = loggers.Logger(loggers.Asset)
	}
	stateAddr := ethcommon.HexToAddress(StateAddr)
	stateAccount := cfg.StateLedger.GetOrCreateAccount(stateAddr)

	m := &Manager{
		logger:        logger,
		stateLedger:   cfg.StateLedger,
		stateAccount:  stateAccount,
		stateAddr:     stateAddr,
		guard:         NewReentrancyGuard(),
		foreignAssets: make(map[string]ForeignAsset),
		vault:         cfg.NativeVault,
	}

	m.name = NewStateSlot[string](stateAccount, nameKey)
	m.symbol = NewStateSlot[string](stateAccount, symbolKey)
	m.decimals = NewStateSlot[uint8](stateAccount, decimalsKey)
	m.description = NewStateSlot[string](stateAccount, descriptionKey)
	m.owner = NewStateSlot[ethcommon.Address](stateAccount, ownerKey)
	m.paused = NewStateSlot[bool](stateAccount, pausedKey)
	m.maxTxAmount = NewStateSlot[*big.Int](stateAccount, maxTxAmountKey)
	m.maxWallet = NewStateSlot[*big.Int](stateAccount, maxWalletKey)
	m.minters = NewStateMap[ethcommon.Address, bool](stateAccount, mintersMapName, addressKey)
	m.blacklist = NewStateMap[ethcommon.Address, bool](stateAccount, blacklistMapName, addressKey)
	m.allowances = NewStateMap[allowanceKey, *big.Int](stateAccount, allowanceMapName, allowanceKey.String)

	return m
}

func addressKey(addr ethcommon.Address) string {
	return addr.String()
}

// GenesisInit writes the construction-time state: metadata, limits, the
// owner as sole minter, and the initial supply minted to the owner. It
// refuses to run twice.
func (m *Manager) GenesisInit(genesis *repo.GenesisConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := genesis.Validate(); err != nil {
		return err
	}
	if m.owner.Has() {
		return ErrAlreadyInitialized
	}

	ownerAddr := genesis.OwnerAddress()
	initialSupply := genesis.Asset.InitialSupplyBig()
	maxTx := genesis.Asset.MaxTransactionAmountBig()
	maxWallet := genesis.Asset.MaxWalletBalanceBig()

	if err := m.name.Put(genesis.Asset.Name); err != nil {
		return err
	}
	if err := m.symbol.Put(genesis.Asset.Symbol); err != nil {
		return err
	}
	if err := m.decimals.Put(genesis.Asset.Decimals); err != nil {
		return err
	}
	if err := m.owner.Put(ownerAddr); err != nil {
		return err
	}
	if err := m.paused.Put(false); err != nil {
		return err
	}
	if err := m.maxTxAmount.Put(maxTx); err != nil {
		return err
	}
	if err := m.maxWallet.Put(maxWallet); err != nil {
		return err
	}
	if err := m.minters.Put(ownerAddr, true); err != nil {
		return err
	}

	// the raw genesis mint bypasses the pipeline: validation already
	// guarantees initialSupply <= maxWallet
	if err := m.stateLedger.CommitMint(ownerAddr, initialSupply); err != nil {
		return err
	}

	m.logger.WithFields(logrus.Fields{
		"owner":  ownerAddr,
		"supply": initialSupply,
	}).Info("asset manager initialized")
	m.emitEvent(&events.Initialized{
		InitialSupply:        initialSupply,
		MaxTransactionAmount: maxTx,
		MaxWalletBalance:     maxWallet,
	})
	updateSupplyMetric(initialSupply)
	return nil
}

// RegisterForeignAsset wires a recoverable foreign asset under its
// symbol. Wiring-time configuration, not an owner-gated state mutation.
func (m *Manager) RegisterForeignAsset(asset ForeignAsset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.foreignAssets[asset.Symbol()] = asset
}

func (m *Manager) Name() string {
	_, v, err := m.name.Get()
	if err != nil {
		m.logger.WithError(err).Error("read name slot")
	}
	return v
}

func (m *Manager) Symbol() string {
	_, v, err := m.symbol.Get()
	if err != nil {
		m.logger.WithError(err).Error("read symbol slot")
	}
	return v
}

func (m *Manager) Decimals() uint8 {
	_, v, err := m.decimals.Get()
	if err != nil {
		m.logger.WithError(err).Error("read decimals slot")
	}
	return v
}

func (m *Manager) Description() string {
	_, v, err := m.description.Get()
	if err != nil {
		m.logger.WithError(err).Error("read description slot")
	}
	return v
}

func (m *Manager) Owner() ethcommon.Address {
	_, v, err := m.owner.Get()
	if err != nil {
		m.logger.WithError(err).Error("read owner slot")
	}
	return v
}

func (m *Manager) TotalSupply() *big.Int {
	return m.stateLedger.TotalSupply()
}

func (m *Manager) BalanceOf(account ethcommon.Address) *big.Int {
	return m.stateLedger.BalanceOf(account)
}

func (m *Manager) Allowance(owner, spender ethcommon.Address) *big.Int {
	return m.getAllowance(owner, spender)
}

func (m *Manager) getAllowance(owner, spender ethcommon.Address) *big.Int {
	exist, v, err := m.allowances.Get(allowanceKey{Owner: owner, Spender: spender})
	if err != nil {
		m.logger.WithError(err).Error("read allowance")
	}
	if !exist || v == nil {
		return big.NewInt(0)
	}
	return v
}

// setAllowance persists a grant. A marshal failure on a *big.Int is a
// programming error; it panics under the kv layer's contract so the
// commit-then-decrement section stays all-or-nothing.
func (m *Manager) setAllowance(owner, spender ethcommon.Address, amount *big.Int) {
	if err := m.allowances.Put(allowanceKey{Owner: owner, Spender: spender}, amount); err != nil {
		panic(errors.Wrap(err, "persist allowance"))
	}
}

func (m *Manager) checkOwner(caller ethcommon.Address) error {
	owner, err := m.owner.MustGet()
	if err != nil {
		return err
	}
	if caller != owner {
		return errors.Wrapf(ErrNotAuthorized, "caller %s is not the owner", caller)
	}
	return nil
}

func (m *Manager) emitEvent(ev any) {
	m.logger.WithField("event", fmt.Sprintf("%T", ev)).Debug("emit asset event")
	m.feed.Send(events.AssetEvent{Event: ev})
}

// SubscribeAssetEvent delivers every notification event to ch until the
// subscription is cancelled.
func (m *Manager) SubscribeAssetEvent(ch chan<- events.AssetEvent) event.Subscription {
	return m.feed.Subscribe(ch)
}
