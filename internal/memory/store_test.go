package memory

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"wallet-token-ledger-go/internal/fees"
	"wallet-token-ledger-go/internal/models"
	"wallet-token-ledger-go/internal/store"

	"github.com/shopspring/decimal"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func setupStore(t *testing.T, ids ...string) *Store {
	s := NewStore()
	for _, id := range ids {
		if _, err := s.CreateAccount(context.Background(), id, t0); err != nil {
			t.Fatalf("Failed to create account %s: %v", id, err)
		}
	}
	return s
}

func TestCreateAccount_Duplicate(t *testing.T) {
	s := setupStore(t, "u1")

	_, err := s.CreateAccount(context.Background(), "u1", t0)
	if !errors.Is(err, store.ErrDuplicateAccount) {
		t.Fatalf("Expected ErrDuplicateAccount, got %v", err)
	}
}

func TestGetAccount_ReturnsCopy(t *testing.T) {
	s := setupStore(t, "u1")
	ctx := context.Background()

	if _, err := s.ConnectWallet(ctx, store.ConnectWalletParams{AccountId: "u1", Address: "0xABC", At: t0}); err != nil {
		t.Fatalf("ConnectWallet failed: %v", err)
	}

	acct, err := s.GetAccount(ctx, "u1")
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	acct.WalletHistory[0] = "0xEVIL"
	acct.DashboardBalance = decimal.NewFromInt(1000)

	again, _ := s.GetAccount(ctx, "u1")
	if again.WalletHistory[0] != "0xABC" {
		t.Errorf("Expected history to be unaffected, got %v", again.WalletHistory)
	}
	if !again.DashboardBalance.IsZero() {
		t.Errorf("Expected dashboard balance 0, got %s", again.DashboardBalance.String())
	}
}

func TestConnectWallet_UnknownAccount(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.ConnectWallet(ctx, store.ConnectWalletParams{AccountId: "ghost", Address: "0xABC", At: t0})
	if !errors.Is(err, store.ErrAccountNotFound) {
		t.Fatalf("Expected ErrAccountNotFound, got %v", err)
	}
	if _, err := s.GetAccount(ctx, "ghost"); !errors.Is(err, store.ErrAccountNotFound) {
		t.Errorf("Expected account to still be absent, got %v", err)
	}
}

func TestAdjustBalance_Insufficient(t *testing.T) {
	s := setupStore(t, "u1")
	ctx := context.Background()

	_, err := s.AdjustBalance(ctx, store.AdjustBalanceParams{
		AccountId: "u1", Kind: models.BalanceDashboard, Delta: decimal.NewFromInt(-10), At: t0,
	})
	if !errors.Is(err, store.ErrInsufficientBalance) {
		t.Fatalf("Expected ErrInsufficientBalance, got %v", err)
	}

	acct, _ := s.GetAccount(ctx, "u1")
	if !acct.DashboardBalance.IsZero() {
		t.Errorf("Expected balance 0, got %s", acct.DashboardBalance.String())
	}
	adjustments, _ := s.GetAdjustments(ctx, "u1", 0, 0)
	if len(adjustments) != 0 {
		t.Errorf("Expected no adjustments recorded, got %d", len(adjustments))
	}
}

func TestAdjustBalance_UnknownKind(t *testing.T) {
	s := setupStore(t, "u1")

	_, err := s.AdjustBalance(context.Background(), store.AdjustBalanceParams{
		AccountId: "u1", Kind: "savings", Delta: decimal.NewFromInt(1), At: t0,
	})
	if !errors.Is(err, models.ErrUnknownBalanceKind) {
		t.Fatalf("Expected ErrUnknownBalanceKind, got %v", err)
	}
}

func TestAdjustBalance_Concurrent(t *testing.T) {
	s := setupStore(t, "u1", "u2")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		for _, delta := range []int64{5, 7} {
			wg.Add(1)
			go func(delta int64) {
				defer wg.Done()
				_, err := s.AdjustBalance(ctx, store.AdjustBalanceParams{
					AccountId: "u1", Kind: models.BalanceExternal, Delta: decimal.NewFromInt(delta), At: t0,
				})
				if err != nil {
					t.Errorf("AdjustBalance failed: %v", err)
				}
			}(delta)
		}
	}
	wg.Wait()

	acct, _ := s.GetAccount(ctx, "u1")
	if !acct.ExternalBalance.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected external balance 600, got %s", acct.ExternalBalance.String())
	}
	adjustments, _ := s.GetAdjustments(ctx, "u1", 0, 0)
	if len(adjustments) != 100 {
		t.Errorf("Expected 100 adjustments, got %d", len(adjustments))
	}
}

func TestResetBalances(t *testing.T) {
	s := setupStore(t, "u1")
	ctx := context.Background()

	s.AdjustBalance(ctx, store.AdjustBalanceParams{AccountId: "u1", Kind: models.BalanceDashboard, Delta: decimal.NewFromInt(40), At: t0})
	s.AdjustBalance(ctx, store.AdjustBalanceParams{AccountId: "u1", Kind: models.BalanceExternal, Delta: decimal.NewFromInt(2), At: t0})

	adjustments, err := s.ResetBalances(ctx, "u1", "admin reset", t0)
	if err != nil {
		t.Fatalf("ResetBalances failed: %v", err)
	}
	if len(adjustments) != 2 {
		t.Fatalf("Expected 2 adjustments, got %d", len(adjustments))
	}
	if !adjustments[0].Delta.Equal(decimal.NewFromInt(-40)) {
		t.Errorf("Expected dashboard delta -40, got %s", adjustments[0].Delta.String())
	}

	acct, _ := s.GetAccount(ctx, "u1")
	if !acct.DashboardBalance.IsZero() || !acct.ExternalBalance.IsZero() {
		t.Errorf("Expected zero balances, got %s / %s", acct.DashboardBalance.String(), acct.ExternalBalance.String())
	}
}

func TestTokenRequests_Pagination(t *testing.T) {
	s := setupStore(t, "u1")
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		err := s.AppendTokenRequest(ctx, models.TokenRequest{
			AccountId: "u1",
			Amount:    decimal.NewFromInt(int64(i)),
			Plan:      fees.PlanTemporary,
			CreatedAt: t0.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("AppendTokenRequest failed: %v", err)
		}
	}

	page, err := s.GetTokenRequests(ctx, "u1", 2, 1)
	if err != nil {
		t.Fatalf("GetTokenRequests failed: %v", err)
	}
	if len(page) != 2 || !page[0].Amount.Equal(decimal.NewFromInt(2)) || !page[1].Amount.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Unexpected page: %+v", page)
	}
	if page[0].Id == "" {
		t.Error("Expected an id to be assigned")
	}

	tail, _ := s.GetTokenRequests(ctx, "u1", 10, 4)
	if len(tail) != 1 {
		t.Errorf("Expected 1 request in tail, got %d", len(tail))
	}
	past, _ := s.GetTokenRequests(ctx, "u1", 10, 99)
	if len(past) != 0 {
		t.Errorf("Expected empty page past the end, got %d", len(past))
	}

	huge, err := s.GetTokenRequests(ctx, "u1", math.MaxInt, 1)
	if err != nil {
		t.Fatalf("GetTokenRequests with max limit failed: %v", err)
	}
	if len(huge) != 4 || !huge[0].Amount.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Expected the 4 requests after offset 1, got %d", len(huge))
	}
}

func TestGetAdjustments_MaxLimit(t *testing.T) {
	s := setupStore(t, "u1")
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		s.AdjustBalance(ctx, store.AdjustBalanceParams{AccountId: "u1", Kind: models.BalanceDashboard, Delta: decimal.NewFromInt(int64(i)), At: t0})
	}

	page, err := s.GetAdjustments(ctx, "u1", math.MaxInt, 2)
	if err != nil {
		t.Fatalf("GetAdjustments failed: %v", err)
	}
	if len(page) != 1 || !page[0].Delta.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Expected the last adjustment only, got %+v", page)
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		n, limit, offset int
		lo, hi           int
	}{
		{5, 0, 0, 0, 5},
		{5, 2, 1, 1, 3},
		{5, 10, 4, 4, 5},
		{5, 10, 99, 5, 5},
		{5, 3, -1, 0, 3},
		{3, math.MaxInt, 1, 1, 3},
		{3, math.MaxInt, math.MaxInt, 3, 3},
	}

	for _, tt := range tests {
		lo, hi := window(tt.n, tt.limit, tt.offset)
		if lo != tt.lo || hi != tt.hi {
			t.Errorf("window(%d, %d, %d) = [%d:%d], expected [%d:%d]", tt.n, tt.limit, tt.offset, lo, hi, tt.lo, tt.hi)
		}
	}
}

func TestReconcileBalance(t *testing.T) {
	s := setupStore(t, "u1")
	ctx := context.Background()

	s.AdjustBalance(ctx, store.AdjustBalanceParams{AccountId: "u1", Kind: models.BalanceExternal, Delta: decimal.RequireFromString("7.25"), At: t0})
	s.AdjustBalance(ctx, store.AdjustBalanceParams{AccountId: "u1", Kind: models.BalanceExternal, Delta: decimal.RequireFromString("-2"), At: t0})

	for _, kind := range []models.BalanceKind{models.BalanceDashboard, models.BalanceExternal} {
		if err := s.ReconcileBalance(ctx, "u1", kind); err != nil {
			t.Errorf("ReconcileBalance(%s) failed: %v", kind, err)
		}
	}

	// Corrupt the balance behind the audit trail's back
	e, _ := s.lookup("u1")
	e.account.ExternalBalance = decimal.NewFromInt(100)
	if err := s.ReconcileBalance(ctx, "u1", models.BalanceExternal); !errors.Is(err, store.ErrBalanceMismatch) {
		t.Errorf("Expected ErrBalanceMismatch, got %v", err)
	}

	if err := s.ReconcileBalance(ctx, "ghost", models.BalanceExternal); !errors.Is(err, store.ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}
	if err := s.ReconcileBalance(ctx, "u1", "savings"); !errors.Is(err, models.ErrUnknownBalanceKind) {
		t.Errorf("Expected ErrUnknownBalanceKind, got %v", err)
	}
}

func TestListAccounts_Ordered(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	s.CreateAccount(ctx, "b", t0.Add(time.Minute))
	s.CreateAccount(ctx, "a", t0.Add(time.Minute))
	s.CreateAccount(ctx, "c", t0)

	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("ListAccounts failed: %v", err)
	}
	var ids []string
	for _, a := range accounts {
		ids = append(ids, a.Id)
	}
	if len(ids) != 3 || ids[0] != "c" || ids[1] != "a" || ids[2] != "b" {
		t.Errorf("Unexpected order: %v", ids)
	}
}
