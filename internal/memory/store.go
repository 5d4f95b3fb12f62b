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

// Package memory is an AccountStore kept entirely in process memory. Each
// account carries its own mutex, so writers on different accounts never wait on
// each other.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"wallet-token-ledger-go/internal/models"
	"wallet-token-ledger-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Compile-time check: *Store must satisfy store.AccountStore.
var _ store.AccountStore = (*Store)(nil)

type entry struct {
	mu          sync.Mutex
	account     models.Account
	adjustments []models.BalanceAdjustment
}

type Store struct {
	mu       sync.RWMutex
	accounts map[string]*entry
}

func NewStore() *Store {
	zap.L().Info("Using in-memory account store")
	return &Store{accounts: make(map[string]*entry)}
}

func (s *Store) lookup(accountId string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.accounts[accountId]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrAccountNotFound, accountId)
	}
	return e, nil
}

func (s *Store) CreateAccount(_ context.Context, accountId string, at time.Time) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[accountId]; exists {
		return nil, fmt.Errorf("%w: %s", store.ErrDuplicateAccount, accountId)
	}

	e := &entry{account: models.Account{
		Id:               accountId,
		DashboardBalance: decimal.Zero,
		ExternalBalance:  decimal.Zero,
		WalletHistory:    []string{},
		TokenRequests:    []models.TokenRequest{},
		Version:          1,
		CreatedAt:        at,
		UpdatedAt:        at,
	}}
	s.accounts[accountId] = e

	zap.L().Debug("Account created", zap.String("account_id", accountId))
	return e.account.Clone(), nil
}

func (s *Store) GetAccount(_ context.Context, accountId string) (*models.Account, error) {
	e, err := s.lookup(accountId)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.account.Clone(), nil
}

func (s *Store) ListAccounts(_ context.Context) ([]models.Account, error) {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.accounts))
	for _, e := range s.accounts {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	accounts := make([]models.Account, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		accounts = append(accounts, *e.account.Clone())
		e.mu.Unlock()
	}

	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].Id < accounts[j].Id
		}
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (s *Store) ConnectWallet(_ context.Context, params store.ConnectWalletParams) (*models.Account, error) {
	e, err := s.lookup(params.AccountId)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.account.WalletAddress = params.Address
	e.account.WalletHistory = append(e.account.WalletHistory, params.Address)
	e.touch(params.At)

	return e.account.Clone(), nil
}

func (s *Store) AppendTokenRequest(_ context.Context, request models.TokenRequest) error {
	e, err := s.lookup(request.AccountId)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if request.Id == "" {
		request.Id = uuid.New().String()
	}
	e.account.TokenRequests = append(e.account.TokenRequests, request)
	e.touch(request.CreatedAt)
	return nil
}

func (s *Store) GetTokenRequests(_ context.Context, accountId string, limit, offset int) ([]models.TokenRequest, error) {
	e, err := s.lookup(accountId)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	lo, hi := window(len(e.account.TokenRequests), limit, offset)
	return append([]models.TokenRequest{}, e.account.TokenRequests[lo:hi]...), nil
}

func (s *Store) AdjustBalance(_ context.Context, params store.AdjustBalanceParams) (*models.BalanceAdjustment, error) {
	e, err := s.lookup(params.AccountId)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	before, err := e.account.Balance(params.Kind)
	if err != nil {
		return nil, err
	}
	after := before.Add(params.Delta)
	if after.IsNegative() {
		return nil, fmt.Errorf("%w: %s balance %s cannot absorb %s",
			store.ErrInsufficientBalance, params.Kind, before.String(), params.Delta.String())
	}

	adj := e.apply(params.Kind, before, after, params.Delta, params.Reference, params.At)
	return &adj, nil
}

func (s *Store) ResetBalances(_ context.Context, accountId, reference string, at time.Time) ([]models.BalanceAdjustment, error) {
	e, err := s.lookup(accountId)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	var adjustments []models.BalanceAdjustment
	for _, kind := range []models.BalanceKind{models.BalanceDashboard, models.BalanceExternal} {
		before, _ := e.account.Balance(kind)
		adjustments = append(adjustments, e.apply(kind, before, decimal.Zero, before.Neg(), reference, at))
	}
	return adjustments, nil
}

func (s *Store) GetAdjustments(_ context.Context, accountId string, limit, offset int) ([]models.BalanceAdjustment, error) {
	e, err := s.lookup(accountId)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	lo, hi := window(len(e.adjustments), limit, offset)
	return append([]models.BalanceAdjustment{}, e.adjustments[lo:hi]...), nil
}

// ReconcileBalance checks the balance against the sum of its recorded
// adjustments. Accounts start at zero, so the two only diverge if the
// balance was changed outside apply.
func (s *Store) ReconcileBalance(_ context.Context, accountId string, kind models.BalanceKind) error {
	e, err := s.lookup(accountId)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	current, err := e.account.Balance(kind)
	if err != nil {
		return err
	}
	calculated := decimal.Zero
	for _, adj := range e.adjustments {
		if adj.Kind == kind {
			calculated = calculated.Add(adj.Delta)
		}
	}
	if !current.Equal(calculated) {
		return fmt.Errorf("%w: %s %s current=%s, calculated=%s",
			store.ErrBalanceMismatch, accountId, kind, current.String(), calculated.String())
	}
	return nil
}

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Close() {}

// apply must be called with e.mu held
func (e *entry) apply(kind models.BalanceKind, before, after, delta decimal.Decimal, reference string, at time.Time) models.BalanceAdjustment {
	_ = e.account.SetBalance(kind, after)
	e.touch(at)

	adj := models.BalanceAdjustment{
		Id:            uuid.New().String(),
		AccountId:     e.account.Id,
		Kind:          kind,
		Delta:         delta,
		BalanceBefore: before,
		BalanceAfter:  after,
		Reference:     reference,
		CreatedAt:     at,
	}
	e.adjustments = append(e.adjustments, adj)
	return adj
}

func (e *entry) touch(at time.Time) {
	e.account.Version++
	e.account.UpdatedAt = at
}

// window returns slice bounds for a page; limit <= 0 means no limit.
func window(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && limit < n-offset {
		end = offset + limit
	}
	return offset, end
}
