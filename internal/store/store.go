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

package store

import (
	"context"
	"errors"
	"time"

	"wallet-token-ledger-go/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrDuplicateAccount       = errors.New("account already exists")
	ErrAccountNotFound        = errors.New("account not found")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrConcurrentModification = errors.New("concurrent modification detected")
	ErrBalanceMismatch        = errors.New("balance does not match adjustment history")
)

// ConnectWalletParams contains the parameters for recording a wallet connection.
type ConnectWalletParams struct {
	AccountId string
	Address   string
	At        time.Time
}

// AdjustBalanceParams contains the parameters for changing one balance.
type AdjustBalanceParams struct {
	AccountId string
	Kind      models.BalanceKind
	Delta     decimal.Decimal
	Reference string
	At        time.Time
}

// AccountStore defines the contract that every backend (SQLite, in-memory) must satisfy.
// Each mutating method is a single atomic read-modify-write of one account: it
// either applies fully or leaves the account untouched.
type AccountStore interface {
	// --- Accounts ---
	CreateAccount(ctx context.Context, accountId string, at time.Time) (*models.Account, error)
	GetAccount(ctx context.Context, accountId string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)

	// --- Wallets ---
	ConnectWallet(ctx context.Context, params ConnectWalletParams) (*models.Account, error)

	// --- Token requests ---
	AppendTokenRequest(ctx context.Context, request models.TokenRequest) error
	GetTokenRequests(ctx context.Context, accountId string, limit, offset int) ([]models.TokenRequest, error)

	// --- Balances ---
	AdjustBalance(ctx context.Context, params AdjustBalanceParams) (*models.BalanceAdjustment, error)
	ResetBalances(ctx context.Context, accountId, reference string, at time.Time) ([]models.BalanceAdjustment, error)
	GetAdjustments(ctx context.Context, accountId string, limit, offset int) ([]models.BalanceAdjustment, error)
	// ReconcileBalance fails with ErrBalanceMismatch when the stored balance
	// differs from the sum of its adjustments.
	ReconcileBalance(ctx context.Context, accountId string, kind models.BalanceKind) error

	// --- Lifecycle ---
	Ping(ctx context.Context) error
	Close()
}
