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
	"regexp"

	"wallet-token-ledger-go/internal/common"
	"wallet-token-ledger-go/internal/config"
	"wallet-token-ledger-go/internal/store"

	"go.uber.org/zap"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// validateAccountId requires an email-shaped id, matching how accounts are keyed
func validateAccountId(id string) error {
	if id == "" {
		return fmt.Errorf("account id cannot be empty")
	}
	if !emailRegex.MatchString(id) {
		return fmt.Errorf("invalid email format: %s", id)
	}
	return nil
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	// Parse command line flags
	idFlag := flag.String("id", "", "Account id, usually the owner's email (required)")
	flag.Parse()

	if err := validateAccountId(*idFlag); err != nil {
		zap.L().Fatal("Invalid account id", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}
	if cfg.Database.Backend == config.BackendMemory {
		zap.L().Fatal("addaccount needs a persistent backend; DATABASE_BACKEND is memory")
	}

	zap.L().Info("Initializing services")
	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	acct, err := services.Ledger.CreateAccount(ctx, *idFlag)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateAccount) {
			zap.L().Fatal("Account already exists", zap.String("account_id", *idFlag))
		}
		zap.L().Fatal("Failed to create account", zap.Error(err))
	}

	fmt.Println()
	common.PrintHeader("ACCOUNT CREATED", common.DefaultWidth)
	fmt.Printf("ID:                 %s\n", acct.Id)
	fmt.Printf("Dashboard balance:  %s\n", common.FormatAmount(acct.DashboardBalance, 2))
	fmt.Printf("External balance:   %s\n", common.FormatAmount(acct.ExternalBalance, 2))
	fmt.Printf("Created:            %s\n", common.FormatTimestamp(acct.CreatedAt))
	common.PrintSeparator("=", common.DefaultWidth)
	fmt.Println()

	zap.L().Info("Account created successfully", zap.String("id", acct.Id))
}
