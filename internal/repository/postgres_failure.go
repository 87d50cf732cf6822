package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minhopark/payment-approval-system/internal/domain"
	"github.com/shopspring/decimal"
)

type PostgresFailureRecordRepository struct {
	db *pgxpool.Pool
}

func NewPostgresFailureRecordRepository(db *pgxpool.Pool) *PostgresFailureRecordRepository {
	return &PostgresFailureRecordRepository{
		db: db,
	}
}

func (p *PostgresFailureRecordRepository) Create(ctx context.Context, record *domain.PaymentFailureRecord) error {
	record.ID = uuid.NewString()

	query := `
		INSERT INTO payment_failures (
			id,
			payment_id,
			failure_type,
			amount_at_failure,
			policy_info,
			failed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := p.db.Exec(
		ctx,
		query,
		record.ID,
		record.PaymentID,
		record.FailureType,
		record.AmountAtFailure.Amount(),
		record.PolicyInfo,
		record.FailedAt,
	)

	return err
}

func (p *PostgresFailureRecordRepository) GetByPaymentId(ctx context.Context, paymentID string) ([]domain.PaymentFailureRecord, error) {
	query := `
		SELECT id, payment_id, failure_type, amount_at_failure, policy_info, failed_at
		FROM payment_failures
		WHERE payment_id = $1
		ORDER BY failed_at
	`

	rows, err := p.db.Query(ctx, query, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.PaymentFailureRecord, 0)

	for rows.Next() {
		var (
			record domain.PaymentFailureRecord
			amount decimal.Decimal
		)

		err := rows.Scan(
			&record.ID,
			&record.PaymentID,
			&record.FailureType,
			&amount,
			&record.PolicyInfo,
			&record.FailedAt,
		)
		if err != nil {
			return nil, err
		}

		record.AmountAtFailure, err = domain.NewMoney(amount)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, rows.Err()
}
