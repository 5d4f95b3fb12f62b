package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wallet-token-ledger-go/internal/fees"
	"wallet-token-ledger-go/internal/store"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestResult(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{nil, "ok"},
		{fmt.Errorf("wrapped: %w", store.ErrAccountNotFound), "not_found"},
		{store.ErrDuplicateAccount, "duplicate"},
		{store.ErrInsufficientBalance, "insufficient_balance"},
		{store.ErrConcurrentModification, "conflict"},
		{fees.ErrInvalidAmount, "invalid"},
		{fees.ErrUnknownPlan, "invalid"},
		{errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		if got := Result(tt.err); got != tt.expected {
			t.Errorf("Result(%v) = %s, expected %s", tt.err, got, tt.expected)
		}
	}
}

func TestRecordOperation(t *testing.T) {
	before := testutil.ToFloat64(ledgerOperations.WithLabelValues("adjust_balance", "insufficient_balance"))

	RecordOperation("adjust_balance", time.Millisecond, store.ErrInsufficientBalance)

	after := testutil.ToFloat64(ledgerOperations.WithLabelValues("adjust_balance", "insufficient_balance"))
	if after-before != 1 {
		t.Errorf("Expected counter to increase by 1, got %v", after-before)
	}
}

func TestRecordTokenRequest(t *testing.T) {
	beforeCount := testutil.ToFloat64(tokenRequests.WithLabelValues("lifetime"))
	beforeFees := testutil.ToFloat64(tokenFees.WithLabelValues("lifetime"))

	RecordTokenRequest(fees.PlanLifetime, decimal.NewFromInt(10_500_000))

	if got := testutil.ToFloat64(tokenRequests.WithLabelValues("lifetime")) - beforeCount; got != 1 {
		t.Errorf("Expected 1 token request, got %v", got)
	}
	if got := testutil.ToFloat64(tokenFees.WithLabelValues("lifetime")) - beforeFees; got != 10_500_000 {
		t.Errorf("Expected fee total 10500000, got %v", got)
	}
}

func TestHandler(t *testing.T) {
	RecordHTTPRequest("GET", "/quote", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "wallet_ledger_http_requests_total") {
		t.Error("Expected http request counter in exposition")
	}
}
