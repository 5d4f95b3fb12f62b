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

const (
	// Migration bookkeeping
	queryCreateMigrationsTable = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`

	queryGetSchemaVersion = `
		SELECT COALESCE(MAX(version), 0) FROM schema_migrations`

	queryInsertSchemaVersion = `
		INSERT INTO schema_migrations (version) VALUES (?)`

	// Account queries
	queryInsertAccount = `
		INSERT OR IGNORE INTO accounts (id, dashboard_balance, external_balance, version, created_at, updated_at)
		VALUES (?, '0', '0', 1, ?, ?)`

	queryGetAccount = `
		SELECT id, dashboard_balance, external_balance, wallet_address, version, created_at, updated_at
		FROM accounts
		WHERE id = ?`

	queryListAccounts = `
		SELECT id, dashboard_balance, external_balance, wallet_address, version, created_at, updated_at
		FROM accounts
		ORDER BY created_at, id`

	queryGetAccountVersion = `
		SELECT version FROM accounts WHERE id = ?`

	queryTouchAccount = `
		UPDATE accounts
		SET version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`

	// Wallet queries
	queryInsertWalletEvent = `
		INSERT INTO wallet_events (id, account_id, address, created_at)
		VALUES (?, ?, ?, ?)`

	queryUpdateWalletAddress = `
		UPDATE accounts
		SET wallet_address = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`

	queryGetWalletHistory = `
		SELECT address
		FROM wallet_events
		WHERE account_id = ?
		ORDER BY seq`

	// Token request queries
	queryInsertTokenRequest = `
		INSERT INTO token_requests (id, account_id, amount, plan, rate, fee, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryGetTokenRequests = `
		SELECT id, account_id, amount, plan, rate, fee, created_at
		FROM token_requests
		WHERE account_id = ?
		ORDER BY seq
		LIMIT ? OFFSET ?`

	// Balance queries
	queryGetAccountBalances = `
		SELECT dashboard_balance, external_balance, version
		FROM accounts
		WHERE id = ?`

	queryUpdateDashboardBalance = `
		UPDATE accounts
		SET dashboard_balance = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`

	queryUpdateExternalBalance = `
		UPDATE accounts
		SET external_balance = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`

	queryResetBalances = `
		UPDATE accounts
		SET dashboard_balance = '0', external_balance = '0', version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`

	queryInsertAdjustment = `
		INSERT INTO balance_adjustments (id, account_id, balance_kind, delta, balance_before, balance_after, reference, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetAdjustments = `
		SELECT id, account_id, balance_kind, delta, balance_before, balance_after, reference, created_at
		FROM balance_adjustments
		WHERE account_id = ?
		ORDER BY seq
		LIMIT ? OFFSET ?`

	queryGetAdjustmentDeltas = `
		SELECT delta
		FROM balance_adjustments
		WHERE account_id = ? AND balance_kind = ?`
)
