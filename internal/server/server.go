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

// Package server exposes the ledger over HTTP.
package server

import (
	"errors"
	"time"

	"wallet-token-ledger-go/internal/auth"
	"wallet-token-ledger-go/internal/ledger"
	"wallet-token-ledger-go/internal/metrics"
	"wallet-token-ledger-go/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

type Server struct {
	app      *fiber.App
	ledger   *ledger.Service
	resolver auth.PrincipalResolver
	cfg      models.ServerConfig
}

// New wires the routes. A nil resolver rejects every authenticated request.
func New(ledgerService *ledger.Service, resolver auth.PrincipalResolver, cfg models.ServerConfig) *Server {
	s := &Server{
		ledger:   ledgerService,
		resolver: resolver,
		cfg:      cfg,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "wallet-token-ledger",
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	allowedOrigins := cfg.AllowedOrigins
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}

	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,OPTIONS",
	}))
	s.app.Use(requestLogger)

	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/health", s.health)
	if s.cfg.EnableMetrics {
		s.app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	}
	s.app.Get("/quote", s.quote)

	s.app.Get("/dashboard-data", s.authenticate, s.dashboard)
	s.app.Post("/connect-wallet", s.authenticate, s.connectWallet)
	s.app.Post("/request-token", s.authenticate, s.requestToken)
	s.app.Get("/token-requests", s.authenticate, s.tokenRequests)

	admin := s.app.Group("/admin", s.authenticate, requireAdmin)
	admin.Get("/accounts", s.listAccounts)
	admin.Post("/accounts", s.createAccount)
	admin.Get("/accounts/:id", s.getAccount)
	admin.Post("/accounts/:id/adjust-balance", s.adjustBalance)
	admin.Post("/accounts/:id/reset-balances", s.resetBalances)
	admin.Get("/accounts/:id/adjustments", s.adjustments)
}

// App returns the underlying fiber app, mainly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	zap.L().Info("HTTP server listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return s.app.ShutdownWithTimeout(timeout)
}

// requestLogger logs and counts every request against its matched route
func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = statusFor(err)
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
	}

	route := c.Route().Path
	duration := time.Since(start)
	metrics.RecordHTTPRequest(c.Method(), route, status, duration)

	zap.L().Info("HTTP request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.String("route", route),
		zap.Int("status", status),
		zap.Duration("latency", duration))
	return err
}
