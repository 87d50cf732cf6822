package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/minhopark/payment-approval-system/internal/approval"
	"github.com/minhopark/payment-approval-system/internal/domain"
	"github.com/minhopark/payment-approval-system/internal/notifier"
	"github.com/minhopark/payment-approval-system/internal/repository"
	appvalidator "github.com/minhopark/payment-approval-system/internal/validator"
)

func newTestApplication(oracle domain.CardApprovalOracle, n notifier.Notifier) *application {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	engine := approval.NewEngine(
		repository.NewInMemoryPaymentRepository(),
		repository.NewInMemoryFailureRecordRepository(),
		oracle,
		n,
		logger,
	)

	return &application{
		config:    config{env: "test"},
		logger:    logger,
		validator: appvalidator.NewValidator(),
		engine:    engine,
	}
}

func executeRequest(t *testing.T, handler http.Handler, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}

	r := httptest.NewRequest(method, url, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	return w
}
