package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wallet-token-ledger-go/internal/models"
	"wallet-token-ledger-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var updateBalanceQueries = map[models.BalanceKind]string{
	models.BalanceDashboard: queryUpdateDashboardBalance,
	models.BalanceExternal:  queryUpdateExternalBalance,
}

type accountBalances struct {
	dashboard decimal.Decimal
	external  decimal.Decimal
	version   int64
}

func (b accountBalances) get(kind models.BalanceKind) decimal.Decimal {
	if kind == models.BalanceExternal {
		return b.external
	}
	return b.dashboard
}

func loadBalances(ctx context.Context, tx *sql.Tx, accountId string) (accountBalances, error) {
	var b accountBalances
	var dashboardStr, externalStr string

	err := tx.QueryRowContext(ctx, queryGetAccountBalances, accountId).Scan(&dashboardStr, &externalStr, &b.version)
	if errors.Is(err, sql.ErrNoRows) {
		return b, fmt.Errorf("%w: %s", store.ErrAccountNotFound, accountId)
	}
	if err != nil {
		return b, fmt.Errorf("failed to get current balance: %w", err)
	}

	if b.dashboard, err = parseDecimal("dashboard_balance", dashboardStr); err != nil {
		return b, err
	}
	if b.external, err = parseDecimal("external_balance", externalStr); err != nil {
		return b, err
	}
	return b, nil
}

func insertAdjustment(ctx context.Context, tx *sql.Tx, adj models.BalanceAdjustment) error {
	_, err := tx.ExecContext(ctx, queryInsertAdjustment,
		adj.Id, adj.AccountId, string(adj.Kind), adj.Delta.String(),
		adj.BalanceBefore.String(), adj.BalanceAfter.String(), adj.Reference, adj.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert balance adjustment: %w", err)
	}
	return nil
}

// AdjustBalance atomically applies delta to one balance and records the change.
// A result below zero is rejected and nothing is written.
func (s *Service) AdjustBalance(ctx context.Context, params store.AdjustBalanceParams) (*models.BalanceAdjustment, error) {
	zap.L().Info("Adjusting balance",
		zap.String("account_id", params.AccountId),
		zap.String("kind", string(params.Kind)),
		zap.String("delta", params.Delta.String()),
		zap.String("reference", params.Reference))

	updateQuery, ok := updateBalanceQueries[params.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownBalanceKind, params.Kind)
	}

	// Start database transaction for atomicity
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	balances, err := loadBalances(ctx, tx, params.AccountId)
	if err != nil {
		return nil, err
	}

	before := balances.get(params.Kind)
	after := before.Add(params.Delta)
	if after.IsNegative() {
		zap.L().Warn("Rejected balance adjustment",
			zap.String("account_id", params.AccountId),
			zap.String("kind", string(params.Kind)),
			zap.String("balance", before.String()),
			zap.String("delta", params.Delta.String()))
		return nil, fmt.Errorf("%w: %s balance %s cannot absorb %s",
			store.ErrInsufficientBalance, params.Kind, before.String(), params.Delta.String())
	}

	// Update balance (with optimistic locking)
	result, err := tx.ExecContext(ctx, updateQuery, after.String(), params.At, params.AccountId, balances.version)
	if err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}
	if err := expectOneRow(result); err != nil {
		return nil, err
	}

	adj := models.BalanceAdjustment{
		Id:            uuid.New().String(),
		AccountId:     params.AccountId,
		Kind:          params.Kind,
		Delta:         params.Delta,
		BalanceBefore: before,
		BalanceAfter:  after,
		Reference:     params.Reference,
		CreatedAt:     params.At,
	}
	if err := insertAdjustment(ctx, tx, adj); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Balance adjusted successfully",
		zap.String("adjustment_id", adj.Id),
		zap.String("account_id", params.AccountId),
		zap.String("old_balance", before.String()),
		zap.String("new_balance", after.String()))

	return &adj, nil
}

// ResetBalances zeroes both balances and records one adjustment per balance
func (s *Service) ResetBalances(ctx context.Context, accountId, reference string, at time.Time) ([]models.BalanceAdjustment, error) {
	zap.L().Info("Resetting balances", zap.String("account_id", accountId), zap.String("reference", reference))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	balances, err := loadBalances(ctx, tx, accountId)
	if err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx, queryResetBalances, at, accountId, balances.version)
	if err != nil {
		return nil, fmt.Errorf("failed to reset balances: %w", err)
	}
	if err := expectOneRow(result); err != nil {
		return nil, err
	}

	var adjustments []models.BalanceAdjustment
	for _, kind := range []models.BalanceKind{models.BalanceDashboard, models.BalanceExternal} {
		before := balances.get(kind)
		adj := models.BalanceAdjustment{
			Id:            uuid.New().String(),
			AccountId:     accountId,
			Kind:          kind,
			Delta:         before.Neg(),
			BalanceBefore: before,
			BalanceAfter:  decimal.Zero,
			Reference:     reference,
			CreatedAt:     at,
		}
		if err := insertAdjustment(ctx, tx, adj); err != nil {
			return nil, err
		}
		adjustments = append(adjustments, adj)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return adjustments, nil
}

// GetAdjustments returns the account's balance audit trail oldest first
func (s *Service) GetAdjustments(ctx context.Context, accountId string, limit, offset int) ([]models.BalanceAdjustment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireAccount(ctx, tx, accountId); err != nil {
		return nil, err
	}

	limit, offset = pageArgs(limit, offset)
	rows, err := tx.QueryContext(ctx, queryGetAdjustments, accountId, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance adjustments: %w", err)
	}
	defer closeRows(rows)

	adjustments := []models.BalanceAdjustment{}
	for rows.Next() {
		var adj models.BalanceAdjustment
		var kind, deltaStr, beforeStr, afterStr string
		err := rows.Scan(&adj.Id, &adj.AccountId, &kind, &deltaStr, &beforeStr, &afterStr, &adj.Reference, &adj.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance adjustment: %w", err)
		}
		adj.Kind = models.BalanceKind(kind)

		if adj.Delta, err = parseDecimal("delta", deltaStr); err != nil {
			return nil, err
		}
		if adj.BalanceBefore, err = parseDecimal("balance_before", beforeStr); err != nil {
			return nil, err
		}
		if adj.BalanceAfter, err = parseDecimal("balance_after", afterStr); err != nil {
			return nil, err
		}
		adjustments = append(adjustments, adj)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during adjustment row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating adjustment rows: %w", err)
	}
	return adjustments, nil
}

// ReconcileBalance verifies that the stored balance equals the sum of its
// recorded adjustments. Deltas are summed as decimals, not in SQL, so the
// comparison is exact.
func (s *Service) ReconcileBalance(ctx context.Context, accountId string, kind models.BalanceKind) error {
	zap.L().Info("Reconciling balance", zap.String("account_id", accountId), zap.String("kind", string(kind)))

	if _, ok := updateBalanceQueries[kind]; !ok {
		return fmt.Errorf("%w: %q", models.ErrUnknownBalanceKind, kind)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	balances, err := loadBalances(ctx, tx, accountId)
	if err != nil {
		return err
	}
	currentBalance := balances.get(kind)

	rows, err := tx.QueryContext(ctx, queryGetAdjustmentDeltas, accountId, string(kind))
	if err != nil {
		return fmt.Errorf("failed to calculate balance from adjustments: %w", err)
	}
	defer closeRows(rows)

	calculatedBalance := decimal.Zero
	for rows.Next() {
		var deltaStr string
		if err := rows.Scan(&deltaStr); err != nil {
			return fmt.Errorf("failed to scan delta: %w", err)
		}
		delta, err := parseDecimal("delta", deltaStr)
		if err != nil {
			return err
		}
		calculatedBalance = calculatedBalance.Add(delta)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating delta rows: %w", err)
	}

	// Check if balances match (exact decimal comparison)
	if !currentBalance.Equal(calculatedBalance) {
		zap.L().Error("Balance reconciliation failed",
			zap.String("account_id", accountId),
			zap.String("kind", string(kind)),
			zap.String("current_balance", currentBalance.String()),
			zap.String("calculated_balance", calculatedBalance.String()),
			zap.String("difference", currentBalance.Sub(calculatedBalance).String()))
		return fmt.Errorf("%w: current=%s, calculated=%s", store.ErrBalanceMismatch, currentBalance.String(), calculatedBalance.String())
	}

	zap.L().Info("Balance reconciliation successful",
		zap.String("account_id", accountId),
		zap.String("kind", string(kind)),
		zap.String("balance", currentBalance.String()))
	return nil
}
