package asset

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/onyxmesh/onyx-ledger/pkg/events"
)

// Role registry: owner identity, minter set, blacklist set. Membership
// mutations are owner-only and fail on a no-op (adding a present member,
// removing an absent one) so a mis-sequenced admin script surfaces
// instead of silently passing.

func (m *Manager) IsBlacklisted(account ethcommon.Address) bool {
	return m.blacklist.Has(account)
}

func (m *Manager) IsMinter(account ethcommon.Address) bool {
	return m.minters.Has(account)
}

func (m *Manager) Blacklist(caller, account ethcommon.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOwner(caller); err != nil {
		return err
	}
	if account == (ethcommon.Address{}) {
		return ErrZeroAddress
	}
	if m.blacklist.Has(account) {
		return errors.Wrapf(ErrInvalidState, "%s is already blacklisted", account)
	}
	if err := m.blacklist.Put(account, true); err != nil {
		return err
	}

	m.emitEvent(&events.Blacklisted{Account: account})
	return nil
}

func (m *Manager) UnBlacklist(caller, account ethcommon.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOwner(caller); err != nil {
		return err
	}
	if account == (ethcommon.Address{}) {
		return ErrZeroAddress
	}
	if !m.blacklist.Has(account) {
		return errors.Wrapf(ErrInvalidState, "%s is not blacklisted", account)
	}
	if err := m.blacklist.Delete(account); err != nil {
		return err
	}

	m.emitEvent(&events.UnBlacklisted{Account: account})
	return nil
}

func (m *Manager) AddMinter(caller, account ethcommon.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOwner(caller); err != nil {
		return err
	}
	if account == (ethcommon.Address{}) {
		return ErrZeroAddress
	}
	if m.minters.Has(account) {
		return errors.Wrapf(ErrInvalidState, "%s is already a minter", account)
	}
	if err := m.minters.Put(account, true); err != nil {
		return err
	}

	m.emitEvent(&events.MinterAdded{Account: account})
	return nil
}

func (m *Manager) RemoveMinter(caller, account ethcommon.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOwner(caller); err != nil {
		return err
	}
	if account == (ethcommon.Address{}) {
		return ErrZeroAddress
	}
	if !m.minters.Has(account) {
		return errors.Wrapf(ErrInvalidState, "%s is not a minter", account)
	}
	if err := m.minters.Delete(account); err != nil {
		return err
	}

	m.emitEvent(&events.MinterRemoved{Account: account})
	return nil
}

// TransferOwnership hands the administrative authority to a new account.
func (m *Manager) TransferOwnership(caller, newOwner ethcommon.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOwner(caller); err != nil {
		return err
	}
	if newOwner == (ethcommon.Address{}) {
		return ErrZeroAddress
	}
	if err := m.owner.Put(newOwner); err != nil {
		return err
	}

	m.emitEvent(&events.OwnershipTransferred{PreviousOwner: caller, NewOwner: newOwner})
	return nil
}
