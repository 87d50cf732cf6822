package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/minhopark/payment-approval-system/internal/domain"
)

// InMemoryFailureRecordRepository keeps failure records in insertion order,
// which doubles as chronological order for the audit trail.
type InMemoryFailureRecordRepository struct {
	mu      sync.RWMutex
	records []domain.PaymentFailureRecord
}

func NewInMemoryFailureRecordRepository() *InMemoryFailureRecordRepository {
	return &InMemoryFailureRecordRepository{
		records: make([]domain.PaymentFailureRecord, 0),
	}
}

func (r *InMemoryFailureRecordRepository) Create(ctx context.Context, record *domain.PaymentFailureRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record.ID = uuid.NewString()
	r.records = append(r.records, *record)

	return nil
}

func (r *InMemoryFailureRecordRepository) GetByPaymentId(ctx context.Context, paymentID string) ([]domain.PaymentFailureRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]domain.PaymentFailureRecord, 0)
	for _, record := range r.records {
		if record.PaymentID == paymentID {
			records = append(records, record)
		}
	}

	return records, nil
}
