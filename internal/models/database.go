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

package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"wallet-token-ledger-go/internal/fees"

	"github.com/shopspring/decimal"
)

var ErrUnknownBalanceKind = errors.New("unknown balance kind")

// BalanceKind selects one of the two balances held per account
type BalanceKind string

const (
	BalanceDashboard BalanceKind = "dashboard"
	BalanceExternal  BalanceKind = "external"
)

// ParseBalanceKind accepts "dashboard" or "external" in any case
func ParseBalanceKind(s string) (BalanceKind, error) {
	switch kind := BalanceKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case BalanceDashboard, BalanceExternal:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBalanceKind, s)
	}
}

// Account is the ledger's view of one principal.
// WalletAddress, when non-empty, is always the last entry of WalletHistory.
type Account struct {
	Id               string          `db:"id"`
	DashboardBalance decimal.Decimal `db:"dashboard_balance"`
	ExternalBalance  decimal.Decimal `db:"external_balance"`
	WalletAddress    string          `db:"wallet_address"`
	WalletHistory    []string
	TokenRequests    []TokenRequest
	Version          int64     `db:"version"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// Balance returns the balance selected by kind
func (a *Account) Balance(kind BalanceKind) (decimal.Decimal, error) {
	switch kind {
	case BalanceDashboard:
		return a.DashboardBalance, nil
	case BalanceExternal:
		return a.ExternalBalance, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownBalanceKind, kind)
	}
}

// SetBalance overwrites the balance selected by kind
func (a *Account) SetBalance(kind BalanceKind, value decimal.Decimal) error {
	switch kind {
	case BalanceDashboard:
		a.DashboardBalance = value
	case BalanceExternal:
		a.ExternalBalance = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBalanceKind, kind)
	}
	return nil
}

// Clone returns a deep copy so callers cannot reach ledger-owned slices.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	c.WalletHistory = append([]string{}, a.WalletHistory...)
	c.TokenRequests = append([]TokenRequest{}, a.TokenRequests...)
	return &c
}

// TokenRequest is an immutable, priced token request
type TokenRequest struct {
	Id        string          `db:"id"`
	AccountId string          `db:"account_id"`
	Amount    decimal.Decimal `db:"amount"`
	Plan      fees.Plan       `db:"plan"`
	Rate      decimal.Decimal `db:"rate"`
	Fee       decimal.Decimal `db:"fee"`
	CreatedAt time.Time       `db:"created_at"`
}

// BalanceAdjustment is the audit trail entry for every balance change
type BalanceAdjustment struct {
	Id            string          `db:"id"`
	AccountId     string          `db:"account_id"`
	Kind          BalanceKind     `db:"balance_kind"`
	Delta         decimal.Decimal `db:"delta"`
	BalanceBefore decimal.Decimal `db:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after"`
	Reference     string          `db:"reference"`
	CreatedAt     time.Time       `db:"created_at"`
}
