package domain

// PaymentApprovalResult is the tagged outcome of one approval call: either a
// success carrying the completed payment, or a failure carrying the cause and
// the persisted failure record. Exactly one of the two shapes holds.
type PaymentApprovalResult struct {
	payment       *Payment
	failureType   *FailureType
	failureRecord *PaymentFailureRecord
}

func ApprovalSucceeded(payment *Payment) PaymentApprovalResult {
	return PaymentApprovalResult{payment: payment}
}

func ApprovalFailed(payment *Payment, failureType FailureType, record PaymentFailureRecord) PaymentApprovalResult {
	return PaymentApprovalResult{
		payment:       payment,
		failureType:   &failureType,
		failureRecord: &record,
	}
}

func (r PaymentApprovalResult) Succeeded() bool {
	return r.failureType == nil
}

func (r PaymentApprovalResult) Payment() *Payment {
	return r.payment
}

func (r PaymentApprovalResult) FailureType() (FailureType, bool) {
	if r.failureType == nil {
		return "", false
	}

	return *r.failureType, true
}

func (r PaymentApprovalResult) FailureRecord() (PaymentFailureRecord, bool) {
	if r.failureRecord == nil {
		return PaymentFailureRecord{}, false
	}

	return *r.failureRecord, true
}
