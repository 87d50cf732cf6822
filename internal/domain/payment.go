package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

var (
	standardDiscountRate = decimal.NewFromFloat(0.05)
	vipDiscountRate      = decimal.NewFromFloat(0.10)
	taxRate              = decimal.NewFromFloat(0.10)

	one = decimal.NewFromInt(1)
)

// DiscountRate returns the discount rate applied at payment creation. VIP
// customers get the higher rate.
func DiscountRate(vip bool) decimal.Decimal {
	if vip {
		return vipDiscountRate
	}

	return standardDiscountRate
}

// TaxRate is the VAT rate applied on top of the discounted amount.
func TaxRate() decimal.Decimal {
	return taxRate
}

// Payment is the aggregate driven through the approval flow. Its status only
// changes through Complete, Fail and Refund, which validate the current state
// before transitioning.
type Payment struct {
	id               string
	originalPrice    Money
	discountedAmount Money
	taxedAmount      Money
	country          Country
	vip              bool
	status           PaymentStatus
	createdAt        time.Time
	updatedAt        time.Time
}

// NewPayment computes the discounted amount from the original price, applies
// tax on top of it, and starts the payment in PENDING. The id stays empty
// until the store assigns one.
func NewPayment(originalPrice Money, country Country, vip bool) *Payment {
	discounted := originalPrice.Scale(one.Sub(DiscountRate(vip)))
	taxed := discounted.Scale(one.Add(taxRate))
	now := time.Now()

	return &Payment{
		originalPrice:    originalPrice,
		discountedAmount: discounted,
		taxedAmount:      taxed,
		country:          country,
		vip:              vip,
		status:           PaymentStatusPending,
		createdAt:        now,
		updatedAt:        now,
	}
}

// RestorePayment rebuilds a payment from persisted state. It bypasses the
// factory arithmetic on purpose: stored amounts are the source of truth.
func RestorePayment(
	id string,
	originalPrice, discountedAmount, taxedAmount Money,
	country Country,
	vip bool,
	status PaymentStatus,
	createdAt, updatedAt time.Time) *Payment {

	return &Payment{
		id:               id,
		originalPrice:    originalPrice,
		discountedAmount: discountedAmount,
		taxedAmount:      taxedAmount,
		country:          country,
		vip:              vip,
		status:           status,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// AssignID fixes the payment id for the rest of the object's lifetime.
// Assigning twice is a programmer error.
func (p *Payment) AssignID(id string) error {
	if p.id != "" {
		return fmt.Errorf("%w: %s", ErrIDAlreadyAssigned, p.id)
	}

	p.id = id

	return nil
}

func (p *Payment) Complete() error {
	if p.status != PaymentStatusPending {
		return fmt.Errorf("%w: cannot complete payment in status %s", ErrInvalidStateTransition, p.status)
	}

	p.status = PaymentStatusCompleted
	p.updatedAt = time.Now()

	return nil
}

func (p *Payment) Fail() error {
	if p.status != PaymentStatusPending {
		return fmt.Errorf("%w: cannot fail payment in status %s", ErrInvalidStateTransition, p.status)
	}

	p.status = PaymentStatusFailed
	p.updatedAt = time.Now()

	return nil
}

func (p *Payment) Refund() error {
	if p.status != PaymentStatusCompleted {
		return fmt.Errorf("%w: cannot refund payment in status %s", ErrInvalidStateTransition, p.status)
	}

	p.status = PaymentStatusRefunded
	p.updatedAt = time.Now()

	return nil
}

func (p *Payment) ID() string              { return p.id }
func (p *Payment) OriginalPrice() Money    { return p.originalPrice }
func (p *Payment) DiscountedAmount() Money { return p.discountedAmount }
func (p *Payment) TaxedAmount() Money      { return p.taxedAmount }
func (p *Payment) Country() Country        { return p.country }
func (p *Payment) VIP() bool               { return p.vip }
func (p *Payment) Status() PaymentStatus   { return p.status }
func (p *Payment) CreatedAt() time.Time    { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time    { return p.updatedAt }

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	GetById(ctx context.Context, id string) (*Payment, error)
	Update(ctx context.Context, payment *Payment) error
}
