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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wallet-token-ledger-go/internal/models"
	"wallet-token-ledger-go/internal/store"

	"go.uber.org/zap"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var acct models.Account
	var dashboardStr, externalStr string
	var wallet sql.NullString

	if err := row.Scan(&acct.Id, &dashboardStr, &externalStr, &wallet, &acct.Version, &acct.CreatedAt, &acct.UpdatedAt); err != nil {
		return nil, err
	}

	var err error
	if acct.DashboardBalance, err = parseDecimal("dashboard_balance", dashboardStr); err != nil {
		return nil, err
	}
	if acct.ExternalBalance, err = parseDecimal("external_balance", externalStr); err != nil {
		return nil, err
	}
	acct.WalletAddress = wallet.String
	acct.WalletHistory = []string{}
	acct.TokenRequests = []models.TokenRequest{}
	return &acct, nil
}

func (s *Service) CreateAccount(ctx context.Context, accountId string, at time.Time) (*models.Account, error) {
	zap.L().Info("Creating account", zap.String("account_id", accountId))

	result, err := s.db.ExecContext(ctx, queryInsertAccount, accountId, at, at)
	if err != nil {
		zap.L().Error("Failed to insert account", zap.String("account_id", accountId), zap.Error(err))
		return nil, fmt.Errorf("unable to insert account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%w: %s", store.ErrDuplicateAccount, accountId)
	}

	zap.L().Info("Account created successfully", zap.String("account_id", accountId))
	return s.GetAccount(ctx, accountId)
}

// GetAccount reads the account row and both histories inside one transaction
// so the snapshot is consistent.
func (s *Service) GetAccount(ctx context.Context, accountId string) (*models.Account, error) {
	zap.L().Debug("Querying account", zap.String("account_id", accountId))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	acct, err := scanAccount(tx.QueryRowContext(ctx, queryGetAccount, accountId))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrAccountNotFound, accountId)
	}
	if err != nil {
		zap.L().Error("Failed to query account", zap.String("account_id", accountId), zap.Error(err))
		return nil, fmt.Errorf("unable to query account: %w", err)
	}

	if acct.WalletHistory, err = walletHistory(ctx, tx, accountId); err != nil {
		return nil, err
	}
	if acct.TokenRequests, err = tokenRequests(ctx, tx, accountId, -1, 0); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return acct, nil
}

// ListAccounts returns every account with its histories, read in one
// transaction so WalletAddress always matches the last history entry.
func (s *Service) ListAccounts(ctx context.Context) ([]models.Account, error) {
	zap.L().Debug("Querying accounts")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	accounts, err := listAccountRows(ctx, tx)
	if err != nil {
		return nil, err
	}

	// Rows are closed by now; the pinned :memory: connection cannot serve
	// nested queries while a result set is open.
	for i := range accounts {
		id := accounts[i].Id
		if accounts[i].WalletHistory, err = walletHistory(ctx, tx, id); err != nil {
			return nil, err
		}
		if accounts[i].TokenRequests, err = tokenRequests(ctx, tx, id, -1, 0); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Debug("Retrieved accounts", zap.Int("count", len(accounts)))
	return accounts, nil
}

func listAccountRows(ctx context.Context, tx *sql.Tx) ([]models.Account, error) {
	rows, err := tx.QueryContext(ctx, queryListAccounts)
	if err != nil {
		zap.L().Error("Failed to query accounts", zap.Error(err))
		return nil, fmt.Errorf("unable to query accounts: %w", err)
	}
	defer closeRows(rows)

	var accounts []models.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			zap.L().Error("Failed to scan account row", zap.Error(err))
			return nil, fmt.Errorf("unable to scan account row: %w", err)
		}
		accounts = append(accounts, *acct)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during account row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// bumpVersion checks the account exists, then advances its version under
// optimistic locking. Callers run it inside the transaction that makes the change.
func bumpVersion(ctx context.Context, tx *sql.Tx, accountId string, at time.Time) error {
	var version int64
	err := tx.QueryRowContext(ctx, queryGetAccountVersion, accountId).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", store.ErrAccountNotFound, accountId)
	}
	if err != nil {
		return fmt.Errorf("failed to read account version: %w", err)
	}

	result, err := tx.ExecContext(ctx, queryTouchAccount, at, accountId, version)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return expectOneRow(result)
}

func expectOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("account update failed - %w", store.ErrConcurrentModification)
	}
	return nil
}

func requireAccount(ctx context.Context, tx *sql.Tx, accountId string) error {
	var version int64
	err := tx.QueryRowContext(ctx, queryGetAccountVersion, accountId).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", store.ErrAccountNotFound, accountId)
	}
	if err != nil {
		return fmt.Errorf("failed to read account version: %w", err)
	}
	return nil
}
