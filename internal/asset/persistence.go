package asset

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/onyxmesh/onyx-ledger/internal/ledger"
)

// StateMap is a typed map persisted in a single account's key-value
// state. The leading byte distinguishes a live entry from a tombstone so
// a deleted key is not confused with an absent one.
type StateMap[K, V any] struct {
	stateAccount ledger.IAccount
	mapName      string
	keyToString  func(key K) string
}

func NewStateMap[K, V any](stateAccount ledger.IAccount, mapName string, keyToString func(key K) string) *StateMap[K, V] {
	return &StateMap[K, V]{
		stateAccount: stateAccount,
		mapName:      mapName,
		keyToString:  keyToString,
	}
}

func (m *StateMap[K, V]) stateKey(key K) []byte {
	return []byte(fmt.Sprintf("%s_%s", m.mapName, m.keyToString(key)))
}

func (m *StateMap[K, V]) Get(k K) (exist bool, v V, err error) {
	exist, data := m.stateAccount.GetState(m.stateKey(k))
	if !exist || len(data) == 0 || data[0] == 0 {
		return false, v, nil
	}
	if err := json.Unmarshal(data[1:], &v); err != nil {
		return false, v, err
	}
	return true, v, nil
}

func (m *StateMap[K, V]) MustGet(k K) (v V, err error) {
	exist, data := m.stateAccount.GetState(m.stateKey(k))
	if !exist || len(data) == 0 || data[0] == 0 {
		return v, errors.Errorf("state map[%s] key[%s] not exist", m.mapName, m.keyToString(k))
	}
	if err := json.Unmarshal(data[1:], &v); err != nil {
		return v, err
	}
	return v, nil
}

func (m *StateMap[K, V]) Has(k K) bool {
	exist, data := m.stateAccount.GetState(m.stateKey(k))
	return !(!exist || len(data) == 0 || data[0] == 0)
}

func (m *StateMap[K, V]) Put(k K, v V) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	m.stateAccount.SetState(m.stateKey(k), append([]byte{1}, data...))
	return nil
}

func (m *StateMap[K, V]) Delete(k K) error {
	m.stateAccount.SetState(m.stateKey(k), []byte{0})
	return nil
}

// StateSlot is a single typed value persisted in an account's key-value
// state.
type StateSlot[V any] struct {
	stateAccount ledger.IAccount
	slotName     string
}

func NewStateSlot[V any](stateAccount ledger.IAccount, slotName string) *StateSlot[V] {
	return &StateSlot[V]{
		stateAccount: stateAccount,
		slotName:     slotName,
	}
}

func (s *StateSlot[V]) stateKey() []byte {
	return []byte(s.slotName)
}

func (s *StateSlot[V]) Get() (exist bool, v V, err error) {
	exist, data := s.stateAccount.GetState(s.stateKey())
	if !exist || len(data) == 0 || data[0] == 0 {
		return false, v, nil
	}
	if err := json.Unmarshal(data[1:], &v); err != nil {
		return false, v, err
	}
	return true, v, nil
}

func (s *StateSlot[V]) MustGet() (v V, err error) {
	exist, data := s.stateAccount.GetState(s.stateKey())
	if !exist || len(data) == 0 || data[0] == 0 {
		return v, errors.Errorf("state slot[%s] not exist", s.slotName)
	}
	if err := json.Unmarshal(data[1:], &v); err != nil {
		return v, err
	}
	return v, nil
}

func (s *StateSlot[V]) Has() bool {
	exist, data := s.stateAccount.GetState(s.stateKey())
	return !(!exist || len(data) == 0 || data[0] == 0)
}

func (s *StateSlot[V]) Put(v V) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	s.stateAccount.SetState(s.stateKey(), append([]byte{1}, data...))
	return nil
}
