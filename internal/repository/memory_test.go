package repository

import (
	"context"
	"testing"

	"github.com/minhopark/payment-approval-system/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingPayment(t *testing.T) *domain.Payment {
	t.Helper()

	price, err := domain.NewMoneyFromInt(10000)
	require.NoError(t, err)

	country, err := domain.NewCountry("KR")
	require.NoError(t, err)

	return domain.NewPayment(price, country, false)
}

func TestInMemoryPaymentRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create assigns an id and round-trips the payment", func(t *testing.T) {
		repo := NewInMemoryPaymentRepository()
		payment := newPendingPayment(t)

		require.NoError(t, repo.Create(ctx, payment))
		require.NotEmpty(t, payment.ID())

		stored, err := repo.GetById(ctx, payment.ID())
		require.NoError(t, err)
		assert.Equal(t, payment.ID(), stored.ID())
		assert.Equal(t, domain.PaymentStatusPending, stored.Status())
		assert.True(t, stored.TaxedAmount().Equal(payment.TaxedAmount()))
	})

	t.Run("create rejects a payment that already has an id", func(t *testing.T) {
		repo := NewInMemoryPaymentRepository()
		payment := newPendingPayment(t)

		require.NoError(t, repo.Create(ctx, payment))

		err := repo.Create(ctx, payment)
		assert.ErrorIs(t, err, domain.ErrIDAlreadyAssigned)
	})

	t.Run("get returns a copy detached from the store", func(t *testing.T) {
		repo := NewInMemoryPaymentRepository()
		payment := newPendingPayment(t)
		require.NoError(t, repo.Create(ctx, payment))

		loaded, err := repo.GetById(ctx, payment.ID())
		require.NoError(t, err)
		require.NoError(t, loaded.Complete())

		stored, err := repo.GetById(ctx, payment.ID())
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusPending, stored.Status())
	})

	t.Run("update persists a transition", func(t *testing.T) {
		repo := NewInMemoryPaymentRepository()
		payment := newPendingPayment(t)
		require.NoError(t, repo.Create(ctx, payment))

		require.NoError(t, payment.Complete())
		require.NoError(t, repo.Update(ctx, payment))

		stored, err := repo.GetById(ctx, payment.ID())
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusCompleted, stored.Status())
	})

	t.Run("unknown ids", func(t *testing.T) {
		repo := NewInMemoryPaymentRepository()

		_, err := repo.GetById(ctx, "no-such-id")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)

		payment := newPendingPayment(t)
		require.NoError(t, payment.AssignID("never-stored"))
		assert.ErrorIs(t, repo.Update(ctx, payment), domain.ErrRecordNotFound)
	})
}

func TestInMemoryFailureRecordRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryFailureRecordRepository()

	amount, err := domain.NewMoneyFromInt(10450)
	require.NoError(t, err)

	first := domain.NewPaymentFailureRecord("payment-1", domain.FailureNetworkError, amount, "vip=false country=KR discountRate=0.05")
	second := domain.NewPaymentFailureRecord("payment-1", domain.FailureCardLimitExceeded, amount, "vip=false country=KR discountRate=0.05")
	other := domain.NewPaymentFailureRecord("payment-2", domain.FailurePolicyRejected, amount, "vip=true country=US discountRate=0.1")

	require.NoError(t, repo.Create(ctx, &first))
	require.NoError(t, repo.Create(ctx, &second))
	require.NoError(t, repo.Create(ctx, &other))

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	records, err := repo.GetByPaymentId(ctx, "payment-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.FailureNetworkError, records[0].FailureType)
	assert.Equal(t, domain.FailureCardLimitExceeded, records[1].FailureType)

	records, err = repo.GetByPaymentId(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, records)
}
