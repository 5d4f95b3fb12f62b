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
	"log"
	"strings"

	"wallet-token-ledger-go/internal/auth"
	"wallet-token-ledger-go/internal/config"
	"wallet-token-ledger-go/internal/database"
	"wallet-token-ledger-go/internal/fees"
	"wallet-token-ledger-go/internal/ledger"
	"wallet-token-ledger-go/internal/memory"
	"wallet-token-ledger-go/internal/models"
	"wallet-token-ledger-go/internal/store"
	"wallet-token-ledger-go/internal/wallet"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Try to load .env file - if it doesn't exist, that's okay
	// Environment variables can be set via other means (shell export, docker, etc.)
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	Store  store.AccountStore
	Ledger *ledger.Service
	// Resolver is nil when no JWT secret is configured
	Resolver *auth.JWTResolver
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices opens the configured store and builds the ledger on top
// of it with the configured fee schedule and wallet formats.
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	st, err := InitializeStoreOnly(ctx, cfg)
	if err != nil {
		return nil, err
	}

	zap.L().Info("Loading fee schedule", zap.String("file", cfg.Ledger.FeeScheduleFile))
	schedule, err := fees.LoadSchedule(cfg.Ledger.FeeScheduleFile)
	if err != nil {
		st.Close()
		return nil, err
	}

	validator, err := wallet.FromFormats(cfg.Ledger.WalletFormats)
	if err != nil {
		st.Close()
		return nil, err
	}

	var resolver *auth.JWTResolver
	if cfg.Auth.JWTSecret != "" {
		if resolver, err = auth.NewJWTResolver(cfg.Auth.JWTSecret, cfg.Auth.Issuer); err != nil {
			st.Close()
			return nil, err
		}
	} else {
		zap.L().Warn("JWT_SECRET not set; authenticated routes will reject every request")
	}

	return &Services{
		Store:    st,
		Ledger:   ledger.NewService(st, ledger.WithCalculator(schedule), ledger.WithValidator(validator)),
		Resolver: resolver,
	}, nil
}

// InitializeStoreOnly opens just the account store.
// Useful for read-only operations like balance reports
func InitializeStoreOnly(ctx context.Context, cfg *models.Config) (store.AccountStore, error) {
	switch cfg.Database.Backend {
	case config.BackendMemory:
		return memory.NewStore(), nil
	case config.BackendSQLite, "":
		dbService, err := database.NewService(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return dbService, nil
	default:
		return nil, fmt.Errorf("unsupported database backend: %s", cfg.Database.Backend)
	}
}

func (cs *Services) Close() {
	if cs.Store != nil {
		cs.Store.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
