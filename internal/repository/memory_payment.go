package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/minhopark/payment-approval-system/internal/domain"
)

// InMemoryPaymentRepository keeps payments in a map guarded by a RWMutex.
// Values are stored and returned by copy, so callers never share a Payment
// with the store.
type InMemoryPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]domain.Payment
}

func NewInMemoryPaymentRepository() *InMemoryPaymentRepository {
	return &InMemoryPaymentRepository{
		payments: make(map[string]domain.Payment),
	}
}

func (r *InMemoryPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	err := payment.AssignID(uuid.NewString())
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.payments[payment.ID()] = *payment

	return nil
}

func (r *InMemoryPaymentRepository) GetById(ctx context.Context, id string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, ok := r.payments[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return &payment, nil
}

func (r *InMemoryPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.payments[payment.ID()]; !ok {
		return domain.ErrRecordNotFound
	}

	r.payments[payment.ID()] = *payment

	return nil
}
