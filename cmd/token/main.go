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
	"time"

	"wallet-token-ledger-go/internal/auth"
	"wallet-token-ledger-go/internal/common"
	"wallet-token-ledger-go/internal/config"

	"go.uber.org/zap"
)

func main() {
	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	idFlag := flag.String("id", "", "Account id the token is issued for (required)")
	adminFlag := flag.Bool("admin", false, "Grant admin privileges")
	ttlFlag := flag.Duration("ttl", 0, "Token lifetime (default TOKEN_TTL)")
	flag.Parse()

	if *idFlag == "" {
		zap.L().Fatal("--id is required")
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	resolver, err := auth.NewJWTResolver(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		zap.L().Fatal("Cannot issue tokens", zap.Error(err))
	}

	ttl := *ttlFlag
	if ttl <= 0 {
		ttl = cfg.Auth.TokenTTL
	}

	token, err := resolver.Issue(*idFlag, *adminFlag, ttl, time.Now())
	if err != nil {
		zap.L().Fatal("Failed to issue token", zap.Error(err))
	}

	zap.L().Info("Issued access token",
		zap.String("account_id", *idFlag),
		zap.Bool("admin", *adminFlag),
		zap.Duration("ttl", ttl))
	fmt.Println(token)
}
