package asset

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/onyxmesh/onyx-ledger/pkg/events"
)

// ForeignAsset is another asset whose units can end up held by this
// ledger's state address. A second Manager instance satisfies it
// directly, so two onyx ledgers can recover from each other.
type ForeignAsset interface {
	Symbol() string
	BalanceOf(account ethcommon.Address) *big.Int
	Transfer(caller, to ethcommon.Address, amount *big.Int) error
}

// NativeVault abstracts the host-currency balance accidentally sent to
// the state address.
type NativeVault interface {
	Balance(account ethcommon.Address) *big.Int
	Withdraw(from, to ethcommon.Address, amount *big.Int) error
}

// RecoverForeignAsset returns foreign units held by the state address to
// the owner. The foreign transfer runs with the mutex released but the
// reentrancy guard armed, so a foreign asset calling back into this
// manager's mint or burn paths fails with ErrReentrantCall instead of
// deadlocking.
func (m *Manager) RecoverForeignAsset(caller ethcommon.Address, symbol string, amount *big.Int) error {
	m.mu.Lock()

	if err := m.checkOwner(caller); err != nil {
		m.mu.Unlock()
		return err
	}
	if err := checkAmount(amount); err != nil {
		m.mu.Unlock()
		return err
	}
	ownSymbol, err := m.symbol.MustGet()
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if symbol == ownSymbol {
		m.mu.Unlock()
		return ErrSelfRecovery
	}
	foreign, ok := m.foreignAssets[symbol]
	if !ok {
		m.mu.Unlock()
		return errors.Wrapf(ErrUnknownForeignAsset, "symbol %s", symbol)
	}
	if foreign.BalanceOf(m.stateAddr).Cmp(amount) < 0 {
		m.mu.Unlock()
		return ErrInsufficientExternalBalance
	}
	if err := m.guard.Enter(); err != nil {
		m.mu.Unlock()
		return err
	}

	m.mu.Unlock()
	transferErr := foreign.Transfer(m.stateAddr, caller, amount)
	m.mu.Lock()
	defer m.mu.Unlock()

	m.guard.Exit()
	if transferErr != nil {
		return errors.Wrapf(transferErr, "recover %s", symbol)
	}

	m.logger.WithFields(logrus.Fields{
		"asset":  symbol,
		"amount": amount,
	}).Info("foreign asset recovered")
	m.emitEvent(&events.TokensRecovered{Asset: symbol, Amount: amount})
	return nil
}

// WithdrawNativeCurrency drains host currency held by the state address
// to the owner.
func (m *Manager) WithdrawNativeCurrency(caller ethcommon.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOwner(caller); err != nil {
		return err
	}
	if m.vault == nil {
		return errors.New("no native vault configured")
	}
	held := m.vault.Balance(m.stateAddr)
	if held == nil || held.Sign() <= 0 {
		return nil
	}
	if err := m.vault.Withdraw(m.stateAddr, caller, held); err != nil {
		return err
	}

	m.logger.WithField("amount", held).Info("native currency withdrawn")
	return nil
}

// UpdateDescription replaces the human-readable contract description.
func (m *Manager) UpdateDescription(caller ethcommon.Address, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOwner(caller); err != nil {
		return err
	}
	if text == "" {
		return ErrEmptyDescription
	}
	if err := m.description.Put(text); err != nil {
		return err
	}

	m.emitEvent(&events.ContractDescriptionUpdated{NewDescription: text})
	return nil
}
