package asset

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	opCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "onyx_ledger",
		Subsystem: "asset",
		Name:      "operation_total",
		Help:      "the total number of committed asset operations",
	}, []string{"op"})

	rejectCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "onyx_ledger",
		Subsystem: "asset",
		Name:      "operation_rejected_total",
		Help:      "the total number of rejected asset operations",
	}, []string{"op", "reason"})

	supplyMetric = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "onyx_ledger",
		Subsystem: "asset",
		Name:      "total_supply",
		Help:      "the current total supply, scaled to base units",
	})

	pausedMetric = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "onyx_ledger",
		Subsystem: "asset",
		Name:      "paused",
		Help:      "1 when the transfer paths are paused",
	})
)

func init() {
	prometheus.MustRegister(opCounter)
	prometheus.MustRegister(rejectCounter)
	prometheus.MustRegister(supplyMetric)
	prometheus.MustRegister(pausedMetric)
}

func updateSupplyMetric(supply *big.Int) {
	f, _ := new(big.Float).SetInt(supply).Float64()
	supplyMetric.Set(f)
}

// rejectReason collapses a pipeline error to a bounded label set.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrSystemPaused):
		return "paused"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrBlacklisted):
		return "blacklisted"
	case errors.Is(err, ErrExceedsTransactionLimit):
		return "tx_limit"
	case errors.Is(err, ErrExceedsWalletLimit):
		return "wallet_limit"
	case errors.Is(err, ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, ErrInsufficientAllowance):
		return "allowance"
	case errors.Is(err, ErrInsufficientBalance):
		return "balance"
	case errors.Is(err, ErrReentrantCall):
		return "reentrant"
	case errors.Is(err, ErrZeroAddress):
		return "zero_address"
	default:
		return "other"
	}
}
