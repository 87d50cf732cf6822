package approval

import (
	"context"
	"math/rand"

	"github.com/minhopark/payment-approval-system/internal/domain"
	"github.com/shopspring/decimal"
)

// cardLimitCeiling is the taxed amount above which non-VIP payments are
// declined by the simulated card network.
var cardLimitCeiling = decimal.NewFromInt(50000)

// networkFailureRate is the probability of a transient network decline.
const networkFailureRate = 0.1

// SimulatedOracle stands in for a real card gateway. The random source is
// injected so tests stay deterministic.
type SimulatedOracle struct {
	rand func() float64
}

func NewSimulatedOracle() *SimulatedOracle {
	return &SimulatedOracle{rand: rand.Float64}
}

func NewSimulatedOracleWithRand(randFn func() float64) *SimulatedOracle {
	return &SimulatedOracle{rand: randFn}
}

func (o *SimulatedOracle) Approve(ctx context.Context, payment *domain.Payment) *domain.FailureType {
	if payment.TaxedAmount().Amount().GreaterThan(cardLimitCeiling) && !payment.VIP() {
		return failureTypePtr(domain.FailureCardLimitExceeded)
	}

	if o.rand() < networkFailureRate {
		return failureTypePtr(domain.FailureNetworkError)
	}

	return nil
}

func failureTypePtr(f domain.FailureType) *domain.FailureType {
	return &f
}
