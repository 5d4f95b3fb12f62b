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

package common

import (
	"context"
	"fmt"

	"wallet-token-ledger-go/internal/ledger"
	"wallet-token-ledger-go/internal/models"

	"go.uber.org/zap"
)

// InitializeAccounts retrieves accounts based on an optional id filter.
// If idFilter is provided, returns the single matching account.
// If idFilter is empty, returns all accounts.
func InitializeAccounts(ctx context.Context, ledgerService *ledger.Service, idFilter string, logger *zap.Logger) ([]models.Account, error) {
	var accounts []models.Account

	if idFilter != "" {
		logger.Info("Looking up account", zap.String("account_id", idFilter))
		acct, err := ledgerService.GetAccount(ctx, idFilter)
		if err != nil {
			return nil, fmt.Errorf("account not found: %w", err)
		}
		accounts = append(accounts, *acct)
	} else {
		all, err := ledgerService.ListAccounts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get accounts: %w", err)
		}
		accounts = all
	}

	logger.Info("Retrieved accounts", zap.Int("count", len(accounts)))
	return accounts, nil
}
