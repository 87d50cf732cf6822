package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/minhopark/payment-approval-system/internal/domain"
	"github.com/shopspring/decimal"
)

type CreatePaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	CountryCode string          `json:"countryCode" validate:"required,len=2"`
	Vip         bool            `json:"vip"`
}

type PaymentResponse struct {
	Id               string       `json:"id"`
	OriginalPrice    domain.Money `json:"originalPrice"`
	DiscountedAmount domain.Money `json:"discountedAmount"`
	TaxedAmount      domain.Money `json:"taxedAmount"`
	CountryCode      string       `json:"countryCode"`
	Vip              bool         `json:"vip"`
	Status           string       `json:"status"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

type FailureRecordResponse struct {
	Id              string       `json:"id"`
	PaymentId       string       `json:"paymentId"`
	FailureType     string       `json:"failureType"`
	AmountAtFailure domain.Money `json:"amountAtFailure"`
	PolicyInfo      string       `json:"policyInfo"`
	FailedAt        time.Time    `json:"failedAt"`
}

type ApprovalResponse struct {
	Approved           bool                   `json:"approved"`
	Payment            PaymentResponse        `json:"payment"`
	FailureType        string                 `json:"failureType,omitempty"`
	FailureDescription string                 `json:"failureDescription,omitempty"`
	FailureRecord      *FailureRecordResponse `json:"failureRecord,omitempty"`
}

func (app *application) createPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var input CreatePaymentRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	payment, err := app.engine.CreatePayment(r.Context(), input.Amount, input.CountryCode, input.Vip)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNegativeAmount), errors.Is(err, domain.ErrUnsupportedCountry):
			app.badRequestResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusCreated, toPaymentResponse(payment), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) approvePaymentHandler(w http.ResponseWriter, r *http.Request) {
	paymentId := chi.URLParam(r, "paymentId")

	result, err := app.engine.Approve(r.Context(), paymentId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrInvalidStateTransition):
			app.conflictResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toApprovalResponse(result), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getPaymentHandler(w http.ResponseWriter, r *http.Request) {
	paymentId := chi.URLParam(r, "paymentId")

	payment, err := app.engine.FindPayment(r.Context(), paymentId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toPaymentResponse(payment), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getFailureRecordsHandler(w http.ResponseWriter, r *http.Request) {
	paymentId := chi.URLParam(r, "paymentId")

	records, err := app.engine.FindFailureRecords(r.Context(), paymentId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := make([]FailureRecordResponse, 0, len(records))
	for _, record := range records {
		resp = append(resp, toFailureRecordResponse(record))
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toPaymentResponse(payment *domain.Payment) PaymentResponse {
	return PaymentResponse{
		Id:               payment.ID(),
		OriginalPrice:    payment.OriginalPrice(),
		DiscountedAmount: payment.DiscountedAmount(),
		TaxedAmount:      payment.TaxedAmount(),
		CountryCode:      payment.Country().Code(),
		Vip:              payment.VIP(),
		Status:           string(payment.Status()),
		CreatedAt:        payment.CreatedAt(),
		UpdatedAt:        payment.UpdatedAt(),
	}
}

func toFailureRecordResponse(record domain.PaymentFailureRecord) FailureRecordResponse {
	return FailureRecordResponse{
		Id:              record.ID,
		PaymentId:       record.PaymentID,
		FailureType:     string(record.FailureType),
		AmountAtFailure: record.AmountAtFailure,
		PolicyInfo:      record.PolicyInfo,
		FailedAt:        record.FailedAt,
	}
}

func toApprovalResponse(result domain.PaymentApprovalResult) ApprovalResponse {
	resp := ApprovalResponse{
		Approved: result.Succeeded(),
		Payment:  toPaymentResponse(result.Payment()),
	}

	failureType, ok := result.FailureType()
	if ok {
		resp.FailureType = string(failureType)
		resp.FailureDescription = failureType.Description()
	}

	record, ok := result.FailureRecord()
	if ok {
		recordResp := toFailureRecordResponse(record)
		resp.FailureRecord = &recordResp
	}

	return resp
}
