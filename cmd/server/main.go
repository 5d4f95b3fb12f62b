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
	"os"
	"os/signal"
	"syscall"

	"wallet-token-ledger-go/internal/auth"
	"wallet-token-ledger-go/internal/common"
	"wallet-token-ledger-go/internal/config"
	"wallet-token-ledger-go/internal/server"

	"go.uber.org/zap"
)

func main() {
	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zap.L().Info("Starting wallet token ledger",
		zap.String("backend", cfg.Database.Backend),
		zap.String("listen_addr", cfg.Server.ListenAddr))

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	var resolver auth.PrincipalResolver
	if services.Resolver != nil {
		resolver = services.Resolver
	}
	srv := server.New(services.Ledger, resolver, cfg.Server)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Listen(cfg.Server.ListenAddr)
	}()

	zap.L().Info("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			zap.L().Error("HTTP server stopped", zap.Error(err))
		}
		return
	case <-sigChan:
	}

	zap.L().Info("Shutdown signal received, draining HTTP server...")
	if err := srv.Shutdown(); err != nil {
		zap.L().Warn("Forced shutdown after timeout", zap.Error(err))
		return
	}
	zap.L().Info("HTTP server stopped gracefully")
}
