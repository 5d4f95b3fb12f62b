/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ledger

import (
	"context"
	"errors"
	"time"

	"wallet-token-ledger-go/internal/models"
	"wallet-token-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AdjustBalance applies delta to the selected balance. A result below zero
// fails with store.ErrInsufficientBalance and leaves the balance unchanged.
func (s *Service) AdjustBalance(ctx context.Context, accountId string, kind models.BalanceKind, delta decimal.Decimal, reference string) (adj *models.BalanceAdjustment, err error) {
	defer func(start time.Time) { observe("adjust_balance", start, err) }(time.Now())

	adj, err = s.store.AdjustBalance(ctx, store.AdjustBalanceParams{
		AccountId: accountId,
		Kind:      kind,
		Delta:     delta,
		Reference: reference,
		At:        s.clock.Now(),
	})
	if err != nil {
		if !errors.Is(err, store.ErrInsufficientBalance) && !errors.Is(err, store.ErrAccountNotFound) {
			zap.L().Error("Balance adjustment failed",
				zap.String("account_id", accountId),
				zap.String("kind", string(kind)),
				zap.String("delta", delta.String()),
				zap.Error(err))
		}
		return nil, err
	}
	return adj, nil
}

// ResetBalances sets both balances to zero. Callers must gate it to admins;
// the ledger does not check who is asking.
func (s *Service) ResetBalances(ctx context.Context, accountId, reference string) (adjustments []models.BalanceAdjustment, err error) {
	defer func(start time.Time) { observe("reset_balances", start, err) }(time.Now())

	adjustments, err = s.store.ResetBalances(ctx, accountId, reference, s.clock.Now())
	if err != nil {
		return nil, err
	}

	zap.L().Info("Balances reset", zap.String("account_id", accountId), zap.String("reference", reference))
	return adjustments, nil
}

func (s *Service) AdjustmentHistory(ctx context.Context, accountId string, limit, offset int) ([]models.BalanceAdjustment, error) {
	return s.store.GetAdjustments(ctx, accountId, limit, offset)
}

// Reconcile checks both balances of an account against their adjustment
// history. The first mismatch is returned wrapped in store.ErrBalanceMismatch.
func (s *Service) Reconcile(ctx context.Context, accountId string) (err error) {
	defer func(start time.Time) { observe("reconcile", start, err) }(time.Now())

	for _, kind := range []models.BalanceKind{models.BalanceDashboard, models.BalanceExternal} {
		if err = s.store.ReconcileBalance(ctx, accountId, kind); err != nil {
			if errors.Is(err, store.ErrBalanceMismatch) {
				zap.L().Warn("Balance does not reconcile",
					zap.String("account_id", accountId),
					zap.String("kind", string(kind)),
					zap.Error(err))
			}
			return err
		}
	}
	return nil
}
