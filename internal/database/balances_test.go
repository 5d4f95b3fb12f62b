package database

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"wallet-token-ledger-go/internal/models"
	"wallet-token-ledger-go/internal/store"

	"github.com/shopspring/decimal"
)

func adjust(t *testing.T, service *Service, accountId string, kind models.BalanceKind, delta string) *models.BalanceAdjustment {
	t.Helper()
	adj, err := service.AdjustBalance(context.Background(), store.AdjustBalanceParams{
		AccountId: accountId,
		Kind:      kind,
		Delta:     decimal.RequireFromString(delta),
		At:        t0,
	})
	if err != nil {
		t.Fatalf("AdjustBalance(%s, %s) failed: %v", kind, delta, err)
	}
	return adj
}

func TestAdjustBalance_CreditAndDebit(t *testing.T) {
	service, cleanup := setupTestDb(t, "u1")
	defer cleanup()

	adjust(t, service, "u1", models.BalanceDashboard, "2.0")
	adj := adjust(t, service, "u1", models.BalanceDashboard, "-0.5")

	expectedBalance := decimal.RequireFromString("1.5")
	if !adj.BalanceAfter.Equal(expectedBalance) {
		t.Errorf("Expected balance %s, got %s", expectedBalance.String(), adj.BalanceAfter.String())
	}
	if !adj.BalanceBefore.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Expected balance before 2, got %s", adj.BalanceBefore.String())
	}

	acct, _ := service.GetAccount(context.Background(), "u1")
	if !acct.DashboardBalance.Equal(expectedBalance) {
		t.Errorf("Expected dashboard balance %s, got %s", expectedBalance.String(), acct.DashboardBalance.String())
	}
	if !acct.ExternalBalance.IsZero() {
		t.Errorf("Expected external balance untouched, got %s", acct.ExternalBalance.String())
	}
}

func TestAdjustBalance_InsufficientLeavesBalance(t *testing.T) {
	service, cleanup := setupTestDb(t, "u1")
	defer cleanup()

	ctx := context.Background()
	_, err := service.AdjustBalance(ctx, store.AdjustBalanceParams{
		AccountId: "u1", Kind: models.BalanceDashboard, Delta: decimal.NewFromInt(-10), At: t0,
	})
	if !errors.Is(err, store.ErrInsufficientBalance) {
		t.Fatalf("Expected ErrInsufficientBalance, got %v", err)
	}

	acct, _ := service.GetAccount(ctx, "u1")
	if !acct.DashboardBalance.IsZero() {
		t.Errorf("Expected balance 0, got %s", acct.DashboardBalance.String())
	}
	adjustments, _ := service.GetAdjustments(ctx, "u1", 0, 0)
	if len(adjustments) != 0 {
		t.Errorf("Expected no adjustment rows, got %d", len(adjustments))
	}
}

func TestAdjustBalance_UnknownAccountAndKind(t *testing.T) {
	service, cleanup := setupTestDb(t, "u1")
	defer cleanup()

	ctx := context.Background()
	_, err := service.AdjustBalance(ctx, store.AdjustBalanceParams{AccountId: "ghost", Kind: models.BalanceExternal, Delta: decimal.NewFromInt(1), At: t0})
	if !errors.Is(err, store.ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}

	_, err = service.AdjustBalance(ctx, store.AdjustBalanceParams{AccountId: "u1", Kind: "savings", Delta: decimal.NewFromInt(1), At: t0})
	if !errors.Is(err, models.ErrUnknownBalanceKind) {
		t.Errorf("Expected ErrUnknownBalanceKind, got %v", err)
	}
}

func TestAdjustBalance_ConcurrentNoLostUpdate(t *testing.T) {
	service, err := NewService(context.Background(), testConfig(filepath.Join(t.TempDir(), "ledger.db")))
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	defer service.Close()

	ctx := context.Background()
	if _, err := service.CreateAccount(ctx, "u1", t0); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		for _, delta := range []int64{5, 7} {
			wg.Add(1)
			go func(delta int64) {
				defer wg.Done()
				_, err := service.AdjustBalance(ctx, store.AdjustBalanceParams{
					AccountId: "u1", Kind: models.BalanceDashboard, Delta: decimal.NewFromInt(delta), At: t0,
				})
				if err != nil {
					t.Errorf("AdjustBalance failed: %v", err)
				}
			}(delta)
		}
	}
	wg.Wait()

	acct, err := service.GetAccount(ctx, "u1")
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if !acct.DashboardBalance.Equal(decimal.NewFromInt(120)) {
		t.Errorf("Expected dashboard balance 120, got %s", acct.DashboardBalance.String())
	}
	if err := service.ReconcileBalance(ctx, "u1", models.BalanceDashboard); err != nil {
		t.Errorf("ReconcileBalance failed: %v", err)
	}
}

func TestResetBalances(t *testing.T) {
	service, cleanup := setupTestDb(t, "u1")
	defer cleanup()

	ctx := context.Background()
	adjust(t, service, "u1", models.BalanceDashboard, "12.34")
	adjust(t, service, "u1", models.BalanceExternal, "0.5")

	adjustments, err := service.ResetBalances(ctx, "u1", "admin reset", t0)
	if err != nil {
		t.Fatalf("ResetBalances failed: %v", err)
	}
	if len(adjustments) != 2 {
		t.Fatalf("Expected 2 adjustments, got %d", len(adjustments))
	}

	acct, _ := service.GetAccount(ctx, "u1")
	if !acct.DashboardBalance.IsZero() || !acct.ExternalBalance.IsZero() {
		t.Errorf("Expected zero balances, got %s / %s", acct.DashboardBalance.String(), acct.ExternalBalance.String())
	}

	history, err := service.GetAdjustments(ctx, "u1", 0, 0)
	if err != nil {
		t.Fatalf("GetAdjustments failed: %v", err)
	}
	if len(history) != 4 {
		t.Fatalf("Expected 4 adjustments in history, got %d", len(history))
	}
	if history[2].Reference != "admin reset" || !history[2].Delta.Equal(decimal.RequireFromString("-12.34")) {
		t.Errorf("Unexpected reset entry: %+v", history[2])
	}

	for _, kind := range []models.BalanceKind{models.BalanceDashboard, models.BalanceExternal} {
		if err := service.ReconcileBalance(ctx, "u1", kind); err != nil {
			t.Errorf("ReconcileBalance(%s) failed: %v", kind, err)
		}
	}
}

func TestResetBalances_UnknownAccount(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	_, err := service.ResetBalances(context.Background(), "ghost", "", t0)
	if !errors.Is(err, store.ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}
}

func TestReconcileBalance_Mismatch(t *testing.T) {
	service, cleanup := setupTestDb(t, "u1")
	defer cleanup()

	ctx := context.Background()
	adjust(t, service, "u1", models.BalanceExternal, "3")

	if _, err := service.db.Exec("UPDATE accounts SET external_balance = '4' WHERE id = 'u1'"); err != nil {
		t.Fatalf("Failed to tamper with balance: %v", err)
	}

	if err := service.ReconcileBalance(ctx, "u1", models.BalanceExternal); !errors.Is(err, store.ErrBalanceMismatch) {
		t.Errorf("Expected ErrBalanceMismatch, got %v", err)
	}
}

func TestGetAdjustments_Pagination(t *testing.T) {
	service, cleanup := setupTestDb(t, "u1")
	defer cleanup()

	for _, delta := range []string{"1", "2", "3", "4"} {
		adjust(t, service, "u1", models.BalanceDashboard, delta)
	}

	page, err := service.GetAdjustments(context.Background(), "u1", 2, 1)
	if err != nil {
		t.Fatalf("GetAdjustments failed: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("Expected 2 adjustments, got %d", len(page))
	}
	if !page[0].Delta.Equal(decimal.NewFromInt(2)) || !page[1].Delta.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Unexpected page: %s, %s", page[0].Delta.String(), page[1].Delta.String())
	}
}
