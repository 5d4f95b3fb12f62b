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

// Package ledger owns the account mutation rules: wallet connection, token
// request recording and balance adjustment. Persistence is delegated to a
// store.AccountStore; every mutating call maps to one atomic store operation.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-token-ledger-go/internal/fees"
	"wallet-token-ledger-go/internal/metrics"
	"wallet-token-ledger-go/internal/store"
	"wallet-token-ledger-go/internal/wallet"
)

var (
	ErrInvalidWalletAddress = errors.New("invalid wallet address")
	ErrInvalidAccountId     = errors.New("invalid account id")
)

// Clock timestamps ledger records
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Service is the balance ledger
type Service struct {
	store     store.AccountStore
	fees      fees.Calculator
	validator wallet.Validator
	clock     Clock
}

// Option customises a Service
type Option func(*Service)

func WithCalculator(c fees.Calculator) Option { return func(s *Service) { s.fees = c } }

func WithValidator(v wallet.Validator) Option { return func(s *Service) { s.validator = v } }

func WithClock(c Clock) Option { return func(s *Service) { s.clock = c } }

// NewService builds a ledger over st. Without options it prices with the
// default fee schedule, accepts any non-blank wallet address and stamps
// records with SystemClock.
func NewService(st store.AccountStore, opts ...Option) *Service {
	s := &Service{
		store:     st,
		fees:      fees.DefaultSchedule(),
		validator: wallet.NonEmpty,
		clock:     SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("store health check failed: %w", err)
	}
	return nil
}

// observe records the outcome of one ledger operation
func observe(operation string, start time.Time, err error) {
	metrics.RecordOperation(operation, time.Since(start), err)
}
