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
	"fmt"
	"time"

	"wallet-token-ledger-go/internal/models"
	"wallet-token-ledger-go/internal/store"

	"go.uber.org/zap"
)

// ConnectWallet validates address and makes it the account's current wallet.
// The address is appended to the wallet history even when it is already the
// current one.
func (s *Service) ConnectWallet(ctx context.Context, accountId, address string) (acct *models.Account, err error) {
	defer func(start time.Time) { observe("connect_wallet", start, err) }(time.Now())

	if err := s.validator.Validate(address); err != nil {
		zap.L().Warn("Rejected wallet address",
			zap.String("account_id", accountId),
			zap.String("address", address),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidWalletAddress, err)
	}

	acct, err = s.store.ConnectWallet(ctx, store.ConnectWalletParams{
		AccountId: accountId,
		Address:   address,
		At:        s.clock.Now(),
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}
