package mocks

import (
	"context"

	"github.com/minhopark/payment-approval-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockCardApprovalOracle struct {
	mock.Mock
	domain.CardApprovalOracle
}

func (m *MockCardApprovalOracle) Approve(ctx context.Context, payment *domain.Payment) *domain.FailureType {
	args := m.Called(ctx, payment)

	failure, _ := args.Get(0).(*domain.FailureType)
	return failure
}
