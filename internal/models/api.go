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
	"time"

	"github.com/shopspring/decimal"
)

// Dashboard is the per-account summary served to the dashboard page
type Dashboard struct {
	AccountId        string          `json:"account_id"`
	Wallet           *string         `json:"wallet"`
	WalletHistory    []string        `json:"wallet_history"`
	DashboardBalance decimal.Decimal `json:"dashboard_balance"`
	ExternalBalance  decimal.Decimal `json:"external_balance"`
}

// TokenRequestRecord represents a token request in the account's history
type TokenRequestRecord struct {
	Id        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Plan      string          `json:"plan"`
	Rate      decimal.Decimal `json:"rate"`
	Fee       decimal.Decimal `json:"fee"`
	CreatedAt time.Time       `json:"created_at"`
}

// FeeQuote is the result of pricing an amount without recording it
type FeeQuote struct {
	Amount decimal.Decimal `json:"amount"`
	Plan   string          `json:"plan"`
	Rate   decimal.Decimal `json:"rate"`
	Fee    decimal.Decimal `json:"fee"`
}

// AdjustmentRecord represents a balance change in the account's audit trail
type AdjustmentRecord struct {
	Id            string          `json:"id"`
	Kind          string          `json:"kind"`
	Delta         decimal.Decimal `json:"delta"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Reference     string          `json:"reference,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewDashboard builds the dashboard view of an account
func NewDashboard(a *Account) Dashboard {
	d := Dashboard{
		AccountId:        a.Id,
		WalletHistory:    append([]string{}, a.WalletHistory...),
		DashboardBalance: a.DashboardBalance,
		ExternalBalance:  a.ExternalBalance,
	}
	if a.WalletAddress != "" {
		wallet := a.WalletAddress
		d.Wallet = &wallet
	}
	return d
}

// NewTokenRequestRecord converts a stored token request to its API form
func NewTokenRequestRecord(r TokenRequest) TokenRequestRecord {
	return TokenRequestRecord{
		Id:        r.Id,
		Amount:    r.Amount,
		Plan:      r.Plan.String(),
		Rate:      r.Rate,
		Fee:       r.Fee,
		CreatedAt: r.CreatedAt,
	}
}

// NewAdjustmentRecord converts a stored adjustment to its API form
func NewAdjustmentRecord(a BalanceAdjustment) AdjustmentRecord {
	return AdjustmentRecord{
		Id:            a.Id,
		Kind:          string(a.Kind),
		Delta:         a.Delta,
		BalanceBefore: a.BalanceBefore,
		BalanceAfter:  a.BalanceAfter,
		Reference:     a.Reference,
		CreatedAt:     a.CreatedAt,
	}
}
