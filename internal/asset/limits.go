package asset

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/onyxmesh/onyx-ledger/pkg/events"
)

// Limit policy: the per-transaction and per-wallet caps consulted by the
// pipeline. Values must stay strictly positive; there is no upper bound,
// the owner may set caps above total supply to effectively disable them.

func (m *Manager) MaxTransactionAmount() *big.Int {
	v, err := m.maxTxAmount.MustGet()
	if err != nil {
		m.logger.WithError(err).Error("read max transaction amount")
		return big.NewInt(0)
	}
	return v
}

func (m *Manager) MaxWalletBalance() *big.Int {
	v, err := m.maxWallet.MustGet()
	if err != nil {
		m.logger.WithError(err).Error("read max wallet balance")
		return big.NewInt(0)
	}
	return v
}

func (m *Manager) SetMaxTransactionAmount(caller ethcommon.Address, v *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOwner(caller); err != nil {
		return err
	}
	if v == nil || v.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if err := m.maxTxAmount.Put(v); err != nil {
		return err
	}

	m.emitEvent(&events.MaxTransactionAmountChanged{NewAmount: v})
	return nil
}

func (m *Manager) SetMaxWalletBalance(caller ethcommon.Address, v *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOwner(caller); err != nil {
		return err
	}
	if v == nil || v.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if err := m.maxWallet.Put(v); err != nil {
		return err
	}

	m.emitEvent(&events.MaxWalletBalanceChanged{NewBalance: v})
	return nil
}
