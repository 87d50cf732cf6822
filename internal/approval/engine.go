package approval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/minhopark/payment-approval-system/internal/domain"
	"github.com/minhopark/payment-approval-system/internal/notifier"
	"github.com/shopspring/decimal"
)

// VIPMaxAttempts is the number of approval attempts a VIP payment gets before
// a retryable failure becomes terminal. Non-VIP payments get a single attempt.
const VIPMaxAttempts = 3

// Engine orchestrates the payment approval flow: creation, country policy
// dispatch, the VIP retry loop, failure recording and failure notification.
type Engine struct {
	payments domain.PaymentRepository
	failures domain.FailureRecordRepository
	oracle   domain.CardApprovalOracle
	notifier notifier.Notifier
	logger   *slog.Logger
	locks    *paymentLocks
}

func NewEngine(
	payments domain.PaymentRepository,
	failures domain.FailureRecordRepository,
	oracle domain.CardApprovalOracle,
	n notifier.Notifier,
	logger *slog.Logger) *Engine {

	return &Engine{
		payments: payments,
		failures: failures,
		oracle:   oracle,
		notifier: n,
		logger:   logger,
		locks:    newPaymentLocks(),
	}
}

// CreatePayment validates the inputs, computes the discounted and taxed
// amounts, and persists the new payment. The store assigns the id.
func (e *Engine) CreatePayment(ctx context.Context, amount decimal.Decimal, countryCode string, vip bool) (*domain.Payment, error) {
	price, err := domain.NewMoney(amount)
	if err != nil {
		return nil, err
	}

	country, err := domain.NewCountry(countryCode)
	if err != nil {
		return nil, err
	}

	payment := domain.NewPayment(price, country, vip)

	err = e.payments.Create(ctx, payment)
	if err != nil {
		return nil, err
	}

	e.logger.Info("payment created",
		"paymentId", payment.ID(),
		"country", payment.Country(),
		"vip", payment.VIP(),
		"taxedAmount", payment.TaxedAmount())

	return payment, nil
}

// Approve runs one approval call for the payment. Business declines come back
// inside the result, never as an error; errors are reserved for unknown ids,
// illegal states and store failures. Calls for the same payment id are
// serialized, because the status checks are not atomic across read and write.
func (e *Engine) Approve(ctx context.Context, paymentID string) (domain.PaymentApprovalResult, error) {
	unlock := e.locks.lock(paymentID)
	defer unlock()

	payment, err := e.payments.GetById(ctx, paymentID)
	if err != nil {
		return domain.PaymentApprovalResult{}, err
	}

	if payment.Status() != domain.PaymentStatusPending {
		return domain.PaymentApprovalResult{}, fmt.Errorf(
			"%w: cannot approve payment in status %s", domain.ErrInvalidStateTransition, payment.Status())
	}

	return e.selectPolicy(payment.Country()).approve(ctx, payment)
}

func (e *Engine) FindPayment(ctx context.Context, id string) (*domain.Payment, error) {
	return e.payments.GetById(ctx, id)
}

// FindFailureRecords returns the failure history of a payment, oldest first.
// The payment itself must exist.
func (e *Engine) FindFailureRecords(ctx context.Context, paymentID string) ([]domain.PaymentFailureRecord, error) {
	_, err := e.payments.GetById(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	return e.failures.GetByPaymentId(ctx, paymentID)
}

func (e *Engine) maxAttempts(payment *domain.Payment) int {
	if payment.VIP() {
		return VIPMaxAttempts
	}

	return 1
}

// attemptApproval consults the oracle and either completes the payment,
// retries (VIP only, retryable failures only), or takes the failure path.
func (e *Engine) attemptApproval(ctx context.Context, payment *domain.Payment, attempt int) (domain.PaymentApprovalResult, error) {
	failure := e.oracle.Approve(ctx, payment)

	if failure == nil {
		err := payment.Complete()
		if err != nil {
			return domain.PaymentApprovalResult{}, err
		}

		err = e.payments.Update(ctx, payment)
		if err != nil {
			return domain.PaymentApprovalResult{}, err
		}

		e.logger.Info("payment approved", "paymentId", payment.ID(), "attempt", attempt)

		return domain.ApprovalSucceeded(payment), nil
	}

	if failure.Retryable() && payment.VIP() && attempt < e.maxAttempts(payment) {
		e.logger.Info("retrying approval",
			"paymentId", payment.ID(),
			"attempt", attempt,
			"failureType", *failure)

		return e.attemptApproval(ctx, payment, attempt+1)
	}

	return e.handleFailure(ctx, payment, *failure, "")
}

// handleFailure marks the payment FAILED, persists one failure record for the
// approval call, and notifies. A notifier outage degrades observability only;
// it never changes the recorded outcome.
func (e *Engine) handleFailure(ctx context.Context, payment *domain.Payment, failureType domain.FailureType, note string) (domain.PaymentApprovalResult, error) {
	err := payment.Fail()
	if err != nil {
		return domain.PaymentApprovalResult{}, err
	}

	err = e.payments.Update(ctx, payment)
	if err != nil {
		return domain.PaymentApprovalResult{}, err
	}

	record := domain.NewPaymentFailureRecord(payment.ID(), failureType, payment.TaxedAmount(), policyInfo(payment, note))

	err = e.failures.Create(ctx, &record)
	if err != nil {
		return domain.PaymentApprovalResult{}, err
	}

	e.notify(payment, failureType)

	e.logger.Info("payment failed",
		"paymentId", payment.ID(),
		"failureType", failureType,
		"amountAtFailure", record.AmountAtFailure)

	return domain.ApprovalFailed(payment, failureType, record), nil
}

// policyInfo snapshots the policy context so the record stays self-describing
// even if the rates change later.
func policyInfo(payment *domain.Payment, note string) string {
	info := fmt.Sprintf("vip=%t country=%s discountRate=%s",
		payment.VIP(), payment.Country(), domain.DiscountRate(payment.VIP()))

	if note != "" {
		info += " note=" + note
	}

	return info
}

func (e *Engine) notify(payment *domain.Payment, failureType domain.FailureType) {
	message := fmt.Sprintf("payment %s declined: %s", payment.ID(), failureType.Description())
	if payment.VIP() {
		message = fmt.Sprintf("VIP payment %s declined: %s (country=%s, amount=%s)",
			payment.ID(), failureType.Description(), payment.Country(), payment.TaxedAmount())
	}

	err := e.notifier.Send(message)
	if err != nil {
		e.logger.Error("failed to send failure notification",
			"paymentId", payment.ID(),
			"error", err)
	}
}
