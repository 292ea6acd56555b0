package ledger

import (
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/onyxmesh/onyx-ledger/internal/storagemgr/kv"
)

// IAccount is the balance-plus-state view every higher layer works
// against. Balance mutators never check policy, that is the pipeline's
// job; they only keep the stored representation consistent.
type IAccount interface {
	GetAddress() ethcommon.Address
	GetBalance() *big.Int
	AddBalance(amount *big.Int)
	SubBalance(amount *big.Int)
	GetState(key []byte) (bool, []byte)
	SetState(key []byte, value []byte)
}

var _ IAccount = (*SimpleAccount)(nil)

type SimpleAccount struct {
	addr    ethcommon.Address
	balance *big.Int
	backend kv.Storage
}

func newAccount(backend kv.Storage, addr ethcommon.Address) *SimpleAccount {
	acc := &SimpleAccount{
		addr:    addr,
		balance: big.NewInt(0),
		backend: backend,
	}
	if raw := backend.Get(compositeAccountKey(addr)); raw != nil {
		acc.balance = new(big.Int).SetBytes(raw)
	}
	return acc
}

func (a *SimpleAccount) GetAddress() ethcommon.Address {
	return a.addr
}

func (a *SimpleAccount) GetBalance() *big.Int {
	return new(big.Int).Set(a.balance)
}

func (a *SimpleAccount) AddBalance(amount *big.Int) {
	a.balance = new(big.Int).Add(a.balance, amount)
	a.persist()
}

func (a *SimpleAccount) SubBalance(amount *big.Int) {
	a.balance = new(big.Int).Sub(a.balance, amount)
	a.persist()
}

func (a *SimpleAccount) GetState(key []byte) (bool, []byte) {
	v := a.backend.Get(compositeStateKey(a.addr, key))
	return v != nil, v
}

func (a *SimpleAccount) SetState(key []byte, value []byte) {
	a.backend.Put(compositeStateKey(a.addr, key), value)
}

func (a *SimpleAccount) persist() {
	a.backend.Put(compositeAccountKey(a.addr), a.balance.Bytes())
}
