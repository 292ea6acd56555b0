package asset

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/onyxmesh/onyx-ledger/pkg/events"
)

// The authorization pipeline. Check order is part of the contract: each
// check is a distinct failure mode callers are entitled to distinguish,
// so none may be reordered. The asymmetries are deliberate and
// load-bearing: mint and burn ignore the pause flag (an emergency stop
// halts user-to-user movement, not administrative issuance), mint's
// destination is never blacklist-checked, mint has no transaction cap,
// and the burn paths have no cap or blacklist checks at all.

// Transfer moves amount from the caller to another account.
func (m *Manager) Transfer(caller, to ethcommon.Address, amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkNotPaused(); err != nil {
		return m.reject("transfer", err)
	}
	if err := checkAmount(amount); err != nil {
		return m.reject("transfer", err)
	}
	if err := m.checkNotBlacklisted(caller, to); err != nil {
		return m.reject("transfer", err)
	}
	if err := m.checkCaps(to, amount, true); err != nil {
		return m.reject("transfer", err)
	}
	if err := m.stateLedger.CommitTransfer(caller, to, amount); err != nil {
		return m.reject("transfer", err)
	}

	m.emitEvent(&events.Transfer{From: caller, To: to, Amount: amount})
	opCounter.WithLabelValues("transfer").Inc()
	return nil
}

// TransferFrom moves amount from one account to another on the strength
// of an allowance granted to the caller. The allowance decrement happens
// only after the commit succeeds, inside the same serialized section.
func (m *Manager) TransferFrom(caller, from, to ethcommon.Address, amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkNotPaused(); err != nil {
		return m.reject("transfer_from", err)
	}
	if err := checkAmount(amount); err != nil {
		return m.reject("transfer_from", err)
	}
	if err := m.checkNotBlacklisted(from, to); err != nil {
		return m.reject("transfer_from", err)
	}
	if err := m.checkCaps(to, amount, true); err != nil {
		return m.reject("transfer_from", err)
	}
	allowance := m.getAllowance(from, caller)
	if allowance.Cmp(amount) < 0 {
		return m.reject("transfer_from", ErrInsufficientAllowance)
	}
	if err := m.stateLedger.CommitTransfer(from, to, amount); err != nil {
		return m.reject("transfer_from", err)
	}
	m.setAllowance(from, caller, new(big.Int).Sub(allowance, amount))

	m.emitEvent(&events.Transfer{From: from, To: to, Amount: amount})
	opCounter.WithLabelValues("transfer_from").Inc()
	return nil
}

// Approve grants spender the right to move amount on the caller's
// behalf, replacing any earlier grant.
func (m *Manager) Approve(caller, spender ethcommon.Address, amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if amount == nil || amount.Sign() < 0 {
		return m.reject("approve", ErrInvalidAmount)
	}
	m.setAllowance(caller, spender, amount)

	m.emitEvent(&events.Approval{Owner: caller, Spender: spender, Amount: amount})
	opCounter.WithLabelValues("approve").Inc()
	return nil
}

// Mint issues amount to an account. Minter-gated, exempt from pause and
// from the transaction cap; the destination wallet cap still applies.
func (m *Manager) Mint(caller, to ethcommon.Address, amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.guard.Enter(); err != nil {
		return m.reject("mint", err)
	}
	defer m.guard.Exit()

	if err := checkAmount(amount); err != nil {
		return m.reject("mint", err)
	}
	if err := m.checkWalletCap(to, amount); err != nil {
		return m.reject("mint", err)
	}
	if !m.minters.Has(caller) {
		return m.reject("mint", errors.Wrapf(ErrNotAuthorized, "caller %s is not a minter", caller))
	}
	if err := m.stateLedger.CommitMint(to, amount); err != nil {
		return m.reject("mint", err)
	}

	m.emitEvent(&events.Transfer{From: ethcommon.Address{}, To: to, Amount: amount})
	opCounter.WithLabelValues("mint").Inc()
	updateSupplyMetric(m.stateLedger.TotalSupply())
	return nil
}

// Burn destroys amount from the caller's own balance. No pause, cap or
// blacklist checks on the burn path.
func (m *Manager) Burn(caller ethcommon.Address, amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.guard.Enter(); err != nil {
		return m.reject("burn", err)
	}
	defer m.guard.Exit()

	if err := checkAmount(amount); err != nil {
		return m.reject("burn", err)
	}
	if err := m.stateLedger.CommitBurn(caller, amount); err != nil {
		return m.reject("burn", err)
	}

	m.emitEvent(&events.Transfer{From: caller, To: ethcommon.Address{}, Amount: amount})
	opCounter.WithLabelValues("burn").Inc()
	updateSupplyMetric(m.stateLedger.TotalSupply())
	return nil
}

// BurnFrom destroys amount from another account on the strength of an
// allowance granted to the caller.
func (m *Manager) BurnFrom(caller, account ethcommon.Address, amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.guard.Enter(); err != nil {
		return m.reject("burn_from", err)
	}
	defer m.guard.Exit()

	if err := checkAmount(amount); err != nil {
		return m.reject("burn_from", err)
	}
	allowance := m.getAllowance(account, caller)
	if allowance.Cmp(amount) < 0 {
		return m.reject("burn_from", ErrInsufficientAllowance)
	}
	if err := m.stateLedger.CommitBurn(account, amount); err != nil {
		return m.reject("burn_from", err)
	}
	m.setAllowance(account, caller, new(big.Int).Sub(allowance, amount))

	m.emitEvent(&events.Transfer{From: account, To: ethcommon.Address{}, Amount: amount})
	opCounter.WithLabelValues("burn_from").Inc()
	updateSupplyMetric(m.stateLedger.TotalSupply())
	return nil
}

func (m *Manager) checkNotPaused() error {
	_, paused, err := m.paused.Get()
	if err != nil {
		return err
	}
	if paused {
		return ErrSystemPaused
	}
	return nil
}

func (m *Manager) checkNotBlacklisted(from, to ethcommon.Address) error {
	if m.blacklist.Has(from) {
		return errors.Wrapf(ErrBlacklisted, "sender %s", from)
	}
	if m.blacklist.Has(to) {
		return errors.Wrapf(ErrBlacklisted, "receiver %s", to)
	}
	return nil
}

func (m *Manager) checkCaps(to ethcommon.Address, amount *big.Int, withTxCap bool) error {
	if withTxCap {
		maxTx, err := m.maxTxAmount.MustGet()
		if err != nil {
			return err
		}
		if amount.Cmp(maxTx) > 0 {
			return ErrExceedsTransactionLimit
		}
	}
	return m.checkWalletCap(to, amount)
}

func (m *Manager) checkWalletCap(to ethcommon.Address, amount *big.Int) error {
	maxWallet, err := m.maxWallet.MustGet()
	if err != nil {
		return err
	}
	if new(big.Int).Add(m.stateLedger.BalanceOf(to), amount).Cmp(maxWallet) > 0 {
		return ErrExceedsWalletLimit
	}
	return nil
}

func (m *Manager) reject(op string, err error) error {
	rejectCounter.WithLabelValues(op, rejectReason(err)).Inc()
	return err
}
