package approval

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/minhopark/payment-approval-system/internal/domain"
	"github.com/minhopark/payment-approval-system/internal/mocks"
	"github.com/minhopark/payment-approval-system/internal/notifier"
	"github.com/minhopark/payment-approval-system/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func failurePtr(f domain.FailureType) *domain.FailureType {
	return &f
}

type ApprovalEngineTestSuite struct {
	suite.Suite
	engine   *Engine
	payments *repository.InMemoryPaymentRepository
	failures *repository.InMemoryFailureRecordRepository
	oracle   *mocks.MockCardApprovalOracle
	notifier *notifier.MockNotifier
}

func (s *ApprovalEngineTestSuite) SetupTest() {
	s.payments = repository.NewInMemoryPaymentRepository()
	s.failures = repository.NewInMemoryFailureRecordRepository()
	s.oracle = new(mocks.MockCardApprovalOracle)
	s.notifier = notifier.NewMockNotifier()

	s.engine = NewEngine(
		s.payments,
		s.failures,
		s.oracle,
		s.notifier,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestApprovalEngineSuite(t *testing.T) {
	suite.Run(t, new(ApprovalEngineTestSuite))
}

func (s *ApprovalEngineTestSuite) createPayment(amount int64, countryCode string, vip bool) *domain.Payment {
	payment, err := s.engine.CreatePayment(context.Background(), decimal.NewFromInt(amount), countryCode, vip)
	s.Require().NoError(err)
	s.Require().NotEmpty(payment.ID())

	return payment
}

func (s *ApprovalEngineTestSuite) storedPayment(id string) *domain.Payment {
	payment, err := s.payments.GetById(context.Background(), id)
	s.Require().NoError(err)

	return payment
}

func (s *ApprovalEngineTestSuite) storedRecords(paymentID string) []domain.PaymentFailureRecord {
	records, err := s.failures.GetByPaymentId(context.Background(), paymentID)
	s.Require().NoError(err)

	return records
}

func (s *ApprovalEngineTestSuite) TestCreatePayment() {
	payment := s.createPayment(10000, "KR", false)

	s.Equal(domain.PaymentStatusPending, payment.Status())
	s.Equal("9500", payment.DiscountedAmount().String())
	s.Equal("10450", payment.TaxedAmount().String())

	stored := s.storedPayment(payment.ID())
	s.Equal(domain.PaymentStatusPending, stored.Status())
}

func (s *ApprovalEngineTestSuite) TestCreatePaymentRejectsInvalidInput() {
	_, err := s.engine.CreatePayment(context.Background(), decimal.NewFromInt(-1), "KR", false)
	s.ErrorIs(err, domain.ErrNegativeAmount)

	_, err = s.engine.CreatePayment(context.Background(), decimal.NewFromInt(10000), "FR", false)
	s.ErrorIs(err, domain.ErrUnsupportedCountry)
}

func (s *ApprovalEngineTestSuite) TestApproveSuccess() {
	payment := s.createPayment(10000, "KR", false)

	s.oracle.On("Approve", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := s.engine.Approve(context.Background(), payment.ID())
	s.Require().NoError(err)

	s.True(result.Succeeded())
	s.Equal(domain.PaymentStatusCompleted, result.Payment().Status())
	s.Equal(domain.PaymentStatusCompleted, s.storedPayment(payment.ID()).Status())
	s.Empty(s.storedRecords(payment.ID()))
	s.Empty(s.notifier.SentMessages())
}

func (s *ApprovalEngineTestSuite) TestUSHighValueRejectedWithoutConsultingOracle() {
	// VIP 110000 -> discounted 99000 -> taxed 108900, above the US limit
	payment := s.createPayment(110000, "US", true)

	result, err := s.engine.Approve(context.Background(), payment.ID())
	s.Require().NoError(err)

	s.False(result.Succeeded())
	failureType, ok := result.FailureType()
	s.True(ok)
	s.Equal(domain.FailurePolicyRejected, failureType)

	s.oracle.AssertNotCalled(s.T(), "Approve")
	s.Equal(domain.PaymentStatusFailed, s.storedPayment(payment.ID()).Status())

	records := s.storedRecords(payment.ID())
	s.Require().Len(records, 1)
	s.Equal(domain.FailurePolicyRejected, records[0].FailureType)
	s.Contains(records[0].PolicyInfo, "note=taxed amount exceeds US approval limit")
}

func (s *ApprovalEngineTestSuite) TestUSPaymentBelowLimitGoesToRetryLoop() {
	payment := s.createPayment(10000, "US", false)

	s.oracle.On("Approve", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := s.engine.Approve(context.Background(), payment.ID())
	s.Require().NoError(err)

	s.True(result.Succeeded())
	s.oracle.AssertNumberOfCalls(s.T(), "Approve", 1)
}

func (s *ApprovalEngineTestSuite) TestNonVIPGetsSingleAttempt() {
	payment := s.createPayment(10000, "KR", false)

	s.oracle.On("Approve", mock.Anything, mock.Anything).
		Return(failurePtr(domain.FailureCardLimitExceeded)).Once()

	result, err := s.engine.Approve(context.Background(), payment.ID())
	s.Require().NoError(err)

	s.False(result.Succeeded())
	failureType, _ := result.FailureType()
	s.Equal(domain.FailureCardLimitExceeded, failureType)
	s.oracle.AssertNumberOfCalls(s.T(), "Approve", 1)

	records := s.storedRecords(payment.ID())
	s.Require().Len(records, 1)
	s.True(records[0].AmountAtFailure.Equal(payment.TaxedAmount()))
	s.Contains(records[0].PolicyInfo, "vip=false country=KR discountRate=0.05")
}

func (s *ApprovalEngineTestSuite) TestVIPRetriesUntilApproval() {
	payment := s.createPayment(10000, "KR", true)

	s.oracle.On("Approve", mock.Anything, mock.Anything).
		Return(failurePtr(domain.FailureNetworkError)).Twice()
	s.oracle.On("Approve", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := s.engine.Approve(context.Background(), payment.ID())
	s.Require().NoError(err)

	s.True(result.Succeeded())
	s.oracle.AssertNumberOfCalls(s.T(), "Approve", 3)
	s.Equal(domain.PaymentStatusCompleted, s.storedPayment(payment.ID()).Status())
	s.Empty(s.storedRecords(payment.ID()), "only the terminal failure of an approval call produces a record")
}

func (s *ApprovalEngineTestSuite) TestVIPExhaustsRetries() {
	payment := s.createPayment(10000, "KR", true)

	s.oracle.On("Approve", mock.Anything, mock.Anything).
		Return(failurePtr(domain.FailureNetworkError)).Times(3)

	result, err := s.engine.Approve(context.Background(), payment.ID())
	s.Require().NoError(err)

	s.False(result.Succeeded())
	s.oracle.AssertNumberOfCalls(s.T(), "Approve", 3)
	s.Equal(domain.PaymentStatusFailed, s.storedPayment(payment.ID()).Status())
	s.Len(s.storedRecords(payment.ID()), 1)
}

func (s *ApprovalEngineTestSuite) TestPolicyRejectedIsNeverRetried() {
	payment := s.createPayment(10000, "KR", true)

	s.oracle.On("Approve", mock.Anything, mock.Anything).
		Return(failurePtr(domain.FailurePolicyRejected)).Once()

	result, err := s.engine.Approve(context.Background(), payment.ID())
	s.Require().NoError(err)

	s.False(result.Succeeded())
	s.oracle.AssertNumberOfCalls(s.T(), "Approve", 1)
	s.Len(s.storedRecords(payment.ID()), 1)
}

func (s *ApprovalEngineTestSuite) TestNotifierOutageDoesNotAffectOutcome() {
	payment := s.createPayment(10000, "KR", false)

	s.notifier.FailWith(errors.New("smtp connection refused"))
	s.oracle.On("Approve", mock.Anything, mock.Anything).
		Return(failurePtr(domain.FailureCardLimitExceeded)).Once()

	result, err := s.engine.Approve(context.Background(), payment.ID())
	s.Require().NoError(err)

	s.False(result.Succeeded())
	s.Equal(domain.PaymentStatusFailed, s.storedPayment(payment.ID()).Status())
	s.Len(s.storedRecords(payment.ID()), 1)

	record, ok := result.FailureRecord()
	s.True(ok)
	s.NotEmpty(record.ID)
}

func (s *ApprovalEngineTestSuite) TestVIPFailureNotificationIncludesCountryAndAmount() {
	payment := s.createPayment(10000, "KR", true)

	s.oracle.On("Approve", mock.Anything, mock.Anything).
		Return(failurePtr(domain.FailureNetworkError)).Times(3)

	_, err := s.engine.Approve(context.Background(), payment.ID())
	s.Require().NoError(err)

	messages := s.notifier.SentMessages()
	s.Require().Len(messages, 1)
	s.Contains(messages[0], "VIP")
	s.Contains(messages[0], "country=KR")
	s.Contains(messages[0], "amount=9900")
}

func (s *ApprovalEngineTestSuite) TestApproveUnknownPayment() {
	_, err := s.engine.Approve(context.Background(), "no-such-id")
	s.ErrorIs(err, domain.ErrRecordNotFound)
}

func (s *ApprovalEngineTestSuite) TestApproveNonPendingPayment() {
	payment := s.createPayment(10000, "KR", false)

	s.oracle.On("Approve", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := s.engine.Approve(context.Background(), payment.ID())
	s.Require().NoError(err)

	_, err = s.engine.Approve(context.Background(), payment.ID())
	s.ErrorIs(err, domain.ErrInvalidStateTransition)
	s.oracle.AssertNumberOfCalls(s.T(), "Approve", 1)
}

func (s *ApprovalEngineTestSuite) TestFindFailureRecords() {
	payment := s.createPayment(10000, "KR", false)

	s.oracle.On("Approve", mock.Anything, mock.Anything).
		Return(failurePtr(domain.FailureNetworkError)).Once()

	_, err := s.engine.Approve(context.Background(), payment.ID())
	s.Require().NoError(err)

	records, err := s.engine.FindFailureRecords(context.Background(), payment.ID())
	s.Require().NoError(err)
	s.Len(records, 1)

	_, err = s.engine.FindFailureRecords(context.Background(), "no-such-id")
	s.ErrorIs(err, domain.ErrRecordNotFound)
}
