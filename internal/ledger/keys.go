package ledger

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
)

var (
	accountKeyPrefix = []byte("acc-")
	stateKeyPrefix   = []byte("state-")
	totalSupplyKey   = []byte("total-supply")
	accountIndexKey  = []byte("account-index")
)

func compositeAccountKey(addr ethcommon.Address) []byte {
	return append(accountKeyPrefix, addr.Bytes()...)
}

func compositeStateKey(addr ethcommon.Address, key []byte) []byte {
	k := append(stateKeyPrefix, addr.Bytes()...)
	k = append(k, '-')
	return append(k, key...)
}
