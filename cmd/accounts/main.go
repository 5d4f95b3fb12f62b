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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"wallet-token-ledger-go/internal/common"
	"wallet-token-ledger-go/internal/config"
	"wallet-token-ledger-go/internal/models"
	"wallet-token-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type reportStats struct {
	totalAccounts     int
	fundedAccounts    int
	totalTokenRequest int
	totalDashboard    decimal.Decimal
	totalExternal     decimal.Decimal
	totalQuotedFees   decimal.Decimal
}

func (s *reportStats) add(acct models.Account) {
	s.totalAccounts++
	if acct.DashboardBalance.IsPositive() || acct.ExternalBalance.IsPositive() {
		s.fundedAccounts++
	}
	s.totalDashboard = s.totalDashboard.Add(acct.DashboardBalance)
	s.totalExternal = s.totalExternal.Add(acct.ExternalBalance)
	s.totalTokenRequest += len(acct.TokenRequests)
	for _, r := range acct.TokenRequests {
		s.totalQuotedFees = s.totalQuotedFees.Add(r.Fee)
	}
}

type reconciler interface {
	Reconcile(ctx context.Context, accountId string) error
}

// reconcileAccounts returns the ids whose balances disagree with their
// adjustment history. Any other failure aborts the run.
func reconcileAccounts(ctx context.Context, r reconciler, accounts []models.Account) ([]string, error) {
	var mismatched []string
	for _, acct := range accounts {
		err := r.Reconcile(ctx, acct.Id)
		switch {
		case err == nil:
		case errors.Is(err, store.ErrBalanceMismatch):
			mismatched = append(mismatched, acct.Id)
		default:
			return nil, fmt.Errorf("reconcile %s: %w", acct.Id, err)
		}
	}
	return mismatched, nil
}

func printAccount(acct models.Account, showRequests bool) {
	wallet := acct.WalletAddress
	if wallet == "" {
		wallet = "not connected"
	}

	fmt.Printf("\n┌─ Account: %s\n", acct.Id)
	fmt.Printf("│  Wallet: %s (%d connections)\n", wallet, len(acct.WalletHistory))
	fmt.Printf("│  Version: %d, updated %s\n", acct.Version, common.FormatTimestamp(acct.UpdatedAt))
	common.PrintBoxSeparator(78)

	lines := []string{
		fmt.Sprintf("%-15s: %24s", "dashboard", common.FormatAmount(acct.DashboardBalance, 2)),
		fmt.Sprintf("%-15s: %24s", "external", common.FormatAmount(acct.ExternalBalance, 2)),
	}
	if showRequests {
		for _, r := range acct.TokenRequests {
			lines = append(lines, fmt.Sprintf("%-15s: %24s (%s @ %s, fee %s, %s)",
				"token request", common.FormatAmount(r.Amount, 2), r.Plan, r.Rate.String(),
				common.FormatAmount(r.Fee, 2), common.ShortId(r.Id)))
		}
	} else {
		lines = append(lines, fmt.Sprintf("%-15s: %24d", "token requests", len(acct.TokenRequests)))
	}

	for i, line := range lines {
		fmt.Printf("%s %s\n", common.BoxPrefix(i == len(lines)-1), line)
	}
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	// Parse command line flags
	idFlag := flag.String("id", "", "Filter by specific account id (optional)")
	requestsFlag := flag.Bool("requests", false, "List every token request instead of a count")
	reconcileFlag := flag.Bool("reconcile", false, "Check balances against their adjustment history")
	flag.Parse()

	logger.Info("Starting account report")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Connecting to store", zap.String("backend", cfg.Database.Backend), zap.String("path", cfg.Database.Path))
	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	accounts, err := common.InitializeAccounts(ctx, services.Ledger, *idFlag, logger)
	if err != nil {
		logger.Fatal("Failed to load accounts", zap.Error(err))
	}

	common.PrintHeader("ACCOUNT BALANCE REPORT", common.DefaultWidth)

	stats := reportStats{}
	for _, acct := range accounts {
		stats.add(acct)
		printAccount(acct, *requestsFlag)
	}

	summary := fmt.Sprintf("SUMMARY: %d accounts (%d funded), dashboard %s, external %s, %d token requests quoting %s in fees",
		stats.totalAccounts, stats.fundedAccounts,
		common.FormatAmount(stats.totalDashboard, 2), common.FormatAmount(stats.totalExternal, 2),
		stats.totalTokenRequest, common.FormatAmount(stats.totalQuotedFees, 2))
	common.PrintFooter(summary, common.WideWidth)

	if *reconcileFlag {
		mismatched, err := reconcileAccounts(ctx, services.Ledger, accounts)
		if err != nil {
			logger.Fatal("Reconciliation failed", zap.Error(err))
		}
		if len(mismatched) > 0 {
			logger.Fatal("Balances do not reconcile", zap.Strings("account_ids", mismatched))
		}
		logger.Info("All balances reconcile", zap.Int("accounts", len(accounts)))
	}

	logger.Info("Account report completed",
		zap.Int("accounts", stats.totalAccounts),
		zap.Int("funded_accounts", stats.fundedAccounts),
		zap.Int("token_requests", stats.totalTokenRequest))
}
