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
	"fmt"
	"strings"
	"time"

	"wallet-token-ledger-go/internal/models"
	"wallet-token-ledger-go/internal/store"

	"go.uber.org/zap"
)

func (s *Service) CreateAccount(ctx context.Context, accountId string) (acct *models.Account, err error) {
	defer func(start time.Time) { observe("create_account", start, err) }(time.Now())

	if strings.TrimSpace(accountId) == "" {
		return nil, ErrInvalidAccountId
	}

	acct, err = s.store.CreateAccount(ctx, accountId, s.clock.Now())
	if err != nil {
		if errors.Is(err, store.ErrDuplicateAccount) {
			zap.L().Info("Account already exists", zap.String("account_id", accountId))
		} else {
			zap.L().Error("Account creation failed", zap.String("account_id", accountId), zap.Error(err))
		}
		return nil, err
	}

	zap.L().Info("Account created", zap.String("account_id", accountId))
	return acct, nil
}

// GetAccount returns a copy of the account; mutating it does not affect the ledger
func (s *Service) GetAccount(ctx context.Context, accountId string) (*models.Account, error) {
	acct, err := s.store.GetAccount(ctx, accountId)
	if err != nil {
		return nil, err
	}
	return acct.Clone(), nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// Dashboard returns the wallet and balance summary for an account
func (s *Service) Dashboard(ctx context.Context, accountId string) (*models.Dashboard, error) {
	acct, err := s.store.GetAccount(ctx, accountId)
	if err != nil {
		return nil, err
	}
	d := models.NewDashboard(acct)
	return &d, nil
}
