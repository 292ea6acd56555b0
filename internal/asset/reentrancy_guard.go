package asset

import (
	"github.com/pkg/errors"
)

var ErrReentrantCall = errors.New("reentrant call")

const (
	notEntered = 1
	entered    = 2
)

// ReentrancyGuard rejects a mutating entry point re-invoked while a prior
// invocation is still in flight, e.g. through a foreign-asset callback
// during recovery.
type ReentrancyGuard struct {
	status uint
}

func NewReentrancyGuard() *ReentrancyGuard {
	return &ReentrancyGuard{status: notEntered}
}

func (rg *ReentrancyGuard) Enter() error {
	if rg.status == entered {
		return ErrReentrantCall
	}

	rg.status = entered
	return nil
}

func (rg *ReentrancyGuard) Exit() {
	rg.status = notEntered
}

func (rg *ReentrancyGuard) IsEntered() bool {
	return rg.status == entered
}
