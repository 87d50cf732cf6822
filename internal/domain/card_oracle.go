package domain

import "context"

// CardApprovalOracle supplies the approval outcome for a payment attempt.
// A nil return means approved; otherwise the failure type of the decline.
// Implementations must treat the payment as read-only.
type CardApprovalOracle interface {
	Approve(ctx context.Context, payment *Payment) *FailureType
}
