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
	"os"

	"wallet-token-ledger-go/internal/common"
	"wallet-token-ledger-go/internal/config"
	"wallet-token-ledger-go/internal/models"
	"wallet-token-ledger-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type adjustmentRequest struct {
	accountId string
	kind      models.BalanceKind
	delta     decimal.Decimal
	reference string
	reset     bool
}

func parseAndValidateFlags(args []string) (*adjustmentRequest, error) {
	fs := flag.NewFlagSet("adjust", flag.ContinueOnError)
	idFlag := fs.String("id", "", "Account id (required)")
	kindFlag := fs.String("kind", "", "Balance to adjust: dashboard or external")
	deltaFlag := fs.String("delta", "", "Signed amount to apply, e.g. 25 or -10.5")
	referenceFlag := fs.String("reference", "", "Free-form reference recorded with the adjustment")
	resetFlag := fs.Bool("reset", false, "Zero both balances instead of applying a delta")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *idFlag == "" {
		return nil, fmt.Errorf("--id is required")
	}

	req := &adjustmentRequest{
		accountId: *idFlag,
		reference: *referenceFlag,
		reset:     *resetFlag,
	}
	if req.reset {
		if *kindFlag != "" || *deltaFlag != "" {
			return nil, fmt.Errorf("--reset cannot be combined with --kind or --delta")
		}
		return req, nil
	}

	if *kindFlag == "" || *deltaFlag == "" {
		return nil, fmt.Errorf("--kind and --delta are required unless --reset is set")
	}

	kind, err := models.ParseBalanceKind(*kindFlag)
	if err != nil {
		return nil, err
	}
	delta, err := decimal.NewFromString(*deltaFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid delta %q: %w", *deltaFlag, err)
	}
	if delta.IsZero() {
		return nil, fmt.Errorf("delta must be non-zero")
	}

	req.kind = kind
	req.delta = delta
	return req, nil
}

func printAdjustments(title string, adjustments []models.BalanceAdjustment) {
	common.PrintHeader(title, common.DefaultWidth)
	for i, adj := range adjustments {
		fmt.Printf("%s %-10s %16s -> %16s (delta %s, %s)\n",
			common.BoxPrefix(i == len(adjustments)-1),
			adj.Kind,
			common.FormatAmount(adj.BalanceBefore, 2),
			common.FormatAmount(adj.BalanceAfter, 2),
			adj.Delta.String(),
			common.ShortId(adj.Id))
	}
	common.PrintSeparator("=", common.DefaultWidth)
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	req, err := parseAndValidateFlags(os.Args[1:])
	if err != nil {
		zap.L().Fatal("Invalid flags", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	zap.L().Info("Initializing services")
	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	if req.reset {
		adjustments, err := services.Ledger.ResetBalances(ctx, req.accountId, req.reference)
		if err != nil {
			zap.L().Fatal("Failed to reset balances", zap.String("account_id", req.accountId), zap.Error(err))
		}
		printAdjustments("BALANCES RESET", adjustments)
		return
	}

	adj, err := services.Ledger.AdjustBalance(ctx, req.accountId, req.kind, req.delta, req.reference)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientBalance) {
			common.PrintHeader("ADJUSTMENT FAILED", common.DefaultWidth)
			fmt.Printf("Account:  %s\n", req.accountId)
			fmt.Printf("Balance:  %s\n", req.kind)
			fmt.Printf("Delta:    %s\n", req.delta.String())
			common.PrintSeparator("=", common.DefaultWidth)
			fmt.Println("\n❌ Insufficient balance")
		}
		zap.L().Fatal("Balance adjustment failed", zap.String("account_id", req.accountId), zap.Error(err))
	}

	printAdjustments("BALANCE ADJUSTED", []models.BalanceAdjustment{*adj})
}
