package database

import (
	"context"
	"errors"
	"testing"

	"wallet-token-ledger-go/internal/models"
	"wallet-token-ledger-go/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func setupMockDb(t *testing.T) (*Service, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Service{db: db}, mock
}

func TestAdjustBalance_RollsBackOnUpdateFailure(t *testing.T) {
	service, mock := setupMockDb(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT dashboard_balance, external_balance, version").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"dashboard_balance", "external_balance", "version"}).AddRow("10", "0", 3))
	mock.ExpectExec("UPDATE accounts").WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	_, err := service.AdjustBalance(context.Background(), store.AdjustBalanceParams{
		AccountId: "u1", Kind: models.BalanceDashboard, Delta: decimal.NewFromInt(1), At: t0,
	})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAdjustBalance_VersionConflict(t *testing.T) {
	service, mock := setupMockDb(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT dashboard_balance, external_balance, version").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"dashboard_balance", "external_balance", "version"}).AddRow("10", "0", 3))
	mock.ExpectExec("UPDATE accounts").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := service.AdjustBalance(context.Background(), store.AdjustBalanceParams{
		AccountId: "u1", Kind: models.BalanceExternal, Delta: decimal.NewFromInt(1), At: t0,
	})
	if !errors.Is(err, store.ErrConcurrentModification) {
		t.Fatalf("Expected ErrConcurrentModification, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestConnectWallet_RollsBackWhenEventInsertFails(t *testing.T) {
	service, mock := setupMockDb(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT version FROM accounts").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
	mock.ExpectExec("INSERT INTO wallet_events").WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	_, err := service.ConnectWallet(context.Background(), store.ConnectWalletParams{AccountId: "u1", Address: "0xABC", At: t0})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
