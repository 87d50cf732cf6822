package mocks

import (
	"context"

	"github.com/minhopark/payment-approval-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockFailureRecordRepo struct {
	mock.Mock
	domain.FailureRecordRepository
}

func (m *MockFailureRecordRepo) Create(ctx context.Context, record *domain.PaymentFailureRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockFailureRecordRepo) GetByPaymentId(ctx context.Context, paymentID string) ([]domain.PaymentFailureRecord, error) {
	args := m.Called(ctx, paymentID)

	records, _ := args.Get(0).([]domain.PaymentFailureRecord)
	return records, args.Error(1)
}
