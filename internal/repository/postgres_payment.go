package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minhopark/payment-approval-system/internal/domain"
	"github.com/shopspring/decimal"
)

type PostgresPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPaymentRepository(db *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{
		db: db,
	}
}

func (p *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	err := payment.AssignID(uuid.NewString())
	if err != nil {
		return err
	}

	query := `
		INSERT INTO payments (
			id,
			original_price,
			discounted_amount,
			taxed_amount,
			country_code,
			vip,
			status,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = p.db.Exec(
		ctx,
		query,
		payment.ID(),
		payment.OriginalPrice().Amount(),
		payment.DiscountedAmount().Amount(),
		payment.TaxedAmount().Amount(),
		payment.Country().Code(),
		payment.VIP(),
		payment.Status(),
		payment.CreatedAt(),
		payment.UpdatedAt(),
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w: payment %s", domain.ErrIDAlreadyAssigned, payment.ID())
	}

	return err
}

func (p *PostgresPaymentRepository) GetById(ctx context.Context, id string) (*domain.Payment, error) {
	query := `
		SELECT id, original_price, discounted_amount, taxed_amount, country_code, vip, status, created_at, updated_at
		FROM payments
		WHERE id = $1
	`

	var (
		paymentID   string
		original    decimal.Decimal
		discounted  decimal.Decimal
		taxed       decimal.Decimal
		countryCode string
		vip         bool
		status      string
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := p.db.QueryRow(ctx, query, id).Scan(
		&paymentID,
		&original,
		&discounted,
		&taxed,
		&countryCode,
		&vip,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	return restorePayment(paymentID, original, discounted, taxed, countryCode, vip, status, createdAt, updatedAt)
}

func (p *PostgresPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	tag, err := p.db.Exec(ctx, query, payment.ID(), payment.Status(), payment.UpdatedAt())
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func restorePayment(
	id string,
	original, discounted, taxed decimal.Decimal,
	countryCode string,
	vip bool,
	status string,
	createdAt, updatedAt time.Time) (*domain.Payment, error) {

	originalPrice, err := domain.NewMoney(original)
	if err != nil {
		return nil, err
	}

	discountedAmount, err := domain.NewMoney(discounted)
	if err != nil {
		return nil, err
	}

	taxedAmount, err := domain.NewMoney(taxed)
	if err != nil {
		return nil, err
	}

	country, err := domain.NewCountry(countryCode)
	if err != nil {
		return nil, err
	}

	return domain.RestorePayment(
		id,
		originalPrice,
		discountedAmount,
		taxedAmount,
		country,
		vip,
		domain.PaymentStatus(status),
		createdAt,
		updatedAt,
	), nil
}
