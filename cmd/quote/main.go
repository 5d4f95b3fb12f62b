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
	"flag"
	"fmt"

	"wallet-token-ledger-go/internal/common"
	"wallet-token-ledger-go/internal/config"
	"wallet-token-ledger-go/internal/fees"

	"go.uber.org/zap"
)

func main() {
	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	amountFlag := flag.String("amount", "", "Amount to price (required)")
	planFlag := flag.String("plan", "", "Pricing plan: temporary or lifetime (required)")
	tableFlag := flag.Bool("table", false, "Print the full tier table")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	schedule, err := fees.LoadSchedule(cfg.Ledger.FeeScheduleFile)
	if err != nil {
		zap.L().Fatal("Failed to load fee schedule", zap.Error(err))
	}

	if *tableFlag {
		printTiers(schedule)
		if *amountFlag == "" {
			return
		}
	}

	if *amountFlag == "" || *planFlag == "" {
		zap.L().Fatal("Both flags are required: --amount and --plan")
	}

	amount, err := fees.ParseAmount(*amountFlag)
	if err != nil {
		zap.L().Fatal("Invalid amount", zap.String("amount", *amountFlag), zap.Error(err))
	}
	plan, err := fees.ParsePlan(*planFlag)
	if err != nil {
		zap.L().Fatal("Invalid plan", zap.String("plan", *planFlag), zap.Error(err))
	}

	quote, err := schedule.Quote(amount, plan)
	if err != nil {
		zap.L().Fatal("Failed to price amount", zap.Error(err))
	}

	common.PrintHeader("FEE QUOTE", common.DefaultWidth)
	fmt.Printf("Amount:  %s\n", common.FormatAmount(quote.Amount, 2))
	fmt.Printf("Plan:    %s\n", quote.Plan)
	fmt.Printf("Rate:    %s\n", quote.Rate.String())
	fmt.Printf("Fee:     %s\n", common.FormatAmount(quote.Fee, 2))
	common.PrintSeparator("=", common.DefaultWidth)
}

func printTiers(schedule *fees.Schedule) {
	common.PrintHeader("FEE TIERS", common.DefaultWidth)
	fmt.Printf("%-24s %12s %12s\n", "Up to", fees.PlanTemporary, fees.PlanLifetime)
	for _, tier := range schedule.Tiers() {
		bound := "unbounded"
		if tier.UpTo != nil {
			bound = common.FormatAmount(*tier.UpTo, 0)
		}
		fmt.Printf("%-24s %12s %12s\n", bound,
			tier.Rates[fees.PlanTemporary].String(), tier.Rates[fees.PlanLifetime].String())
	}
	common.PrintSeparator("=", common.DefaultWidth)
}
