package approval

import (
	"context"

	"github.com/minhopark/payment-approval-system/internal/domain"
	"github.com/shopspring/decimal"
)

// usApprovalLimit is the taxed-amount ceiling for US payments. Anything above
// it is rejected outright, before the oracle is consulted, with no retry even
// for VIP customers.
var usApprovalLimit = decimal.NewFromInt(100000)

type approvalPolicy interface {
	approve(ctx context.Context, payment *domain.Payment) (domain.PaymentApprovalResult, error)
}

// selectPolicy is total over the supported country set: unsupported countries
// were already rejected when the payment was created.
func (e *Engine) selectPolicy(country domain.Country) approvalPolicy {
	if country.IsUS() {
		return usPolicy{engine: e}
	}

	return defaultPolicy{engine: e}
}

// usPolicy runs a high-value pre-check before falling through to the default
// retry loop.
type usPolicy struct {
	engine *Engine
}

func (p usPolicy) approve(ctx context.Context, payment *domain.Payment) (domain.PaymentApprovalResult, error) {
	if payment.TaxedAmount().Amount().GreaterThan(usApprovalLimit) {
		return p.engine.handleFailure(ctx, payment, domain.FailurePolicyRejected, "taxed amount exceeds US approval limit")
	}

	return p.engine.attemptApproval(ctx, payment, 1)
}

// defaultPolicy goes straight to the retry loop with no pre-check.
type defaultPolicy struct {
	engine *Engine
}

func (p defaultPolicy) approve(ctx context.Context, payment *domain.Payment) (domain.PaymentApprovalResult, error) {
	return p.engine.attemptApproval(ctx, payment, 1)
}
