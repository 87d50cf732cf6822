package domain

import (
	"context"
	"time"
)

// FailureType classifies why an approval attempt was declined. Declines are
// regular outcomes of the approval flow, not errors.
type FailureType string

const (
	FailureCardLimitExceeded FailureType = "CARD_LIMIT_EXCEEDED"
	FailureNetworkError      FailureType = "NETWORK_ERROR"
	FailurePolicyRejected    FailureType = "POLICY_REJECTED"
)

func (f FailureType) Description() string {
	switch f {
	case FailureCardLimitExceeded:
		return "card limit exceeded"
	case FailureNetworkError:
		return "temporary network error during approval"
	case FailurePolicyRejected:
		return "rejected by country approval policy"
	default:
		return "unknown failure"
	}
}

// Retryable reports whether another attempt may change the outcome.
// POLICY_REJECTED is terminal and never retried.
func (f FailureType) Retryable() bool {
	return f != FailurePolicyRejected
}

// PaymentFailureRecord is a point-in-time snapshot of one terminal approval
// failure. It is never mutated after construction; the store assigns the id.
type PaymentFailureRecord struct {
	ID              string
	PaymentID       string
	FailureType     FailureType
	AmountAtFailure Money
	PolicyInfo      string
	FailedAt        time.Time
}

func NewPaymentFailureRecord(
	paymentID string,
	failureType FailureType,
	amountAtFailure Money,
	policyInfo string) PaymentFailureRecord {

	return PaymentFailureRecord{
		PaymentID:       paymentID,
		FailureType:     failureType,
		AmountAtFailure: amountAtFailure,
		PolicyInfo:      policyInfo,
		FailedAt:        time.Now(),
	}
}

type FailureRecordRepository interface {
	Create(ctx context.Context, record *PaymentFailureRecord) error
	GetByPaymentId(ctx context.Context, paymentID string) ([]PaymentFailureRecord, error)
}
