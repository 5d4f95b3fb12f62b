package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wallet-token-ledger-go/internal/models"
	"wallet-token-ledger-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConnectWallet sets the current wallet and appends a wallet event in one
// transaction. Reconnecting the current address still records an event.
func (s *Service) ConnectWallet(ctx context.Context, params store.ConnectWalletParams) (*models.Account, error) {
	zap.L().Info("Connecting wallet",
		zap.String("account_id", params.AccountId),
		zap.String("address", params.Address))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var version int64
	err = tx.QueryRowContext(ctx, queryGetAccountVersion, params.AccountId).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		zap.L().Warn("Wallet connect for unknown account", zap.String("account_id", params.AccountId))
		return nil, fmt.Errorf("%w: %s", store.ErrAccountNotFound, params.AccountId)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read account version: %w", err)
	}

	eventId := uuid.New().String()
	if _, err := tx.ExecContext(ctx, queryInsertWalletEvent, eventId, params.AccountId, params.Address, params.At); err != nil {
		return nil, fmt.Errorf("failed to insert wallet event: %w", err)
	}

	result, err := tx.ExecContext(ctx, queryUpdateWalletAddress, params.Address, params.At, params.AccountId, version)
	if err != nil {
		return nil, fmt.Errorf("failed to update wallet address: %w", err)
	}
	if err := expectOneRow(result); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Wallet connected successfully",
		zap.String("account_id", params.AccountId),
		zap.String("event_id", eventId))

	return s.GetAccount(ctx, params.AccountId)
}

func walletHistory(ctx context.Context, tx *sql.Tx, accountId string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, queryGetWalletHistory, accountId)
	if err != nil {
		return nil, fmt.Errorf("unable to query wallet history: %w", err)
	}
	defer closeRows(rows)

	history := []string{}
	for rows.Next() {
		var address string
		if err := rows.Scan(&address); err != nil {
			return nil, fmt.Errorf("unable to scan wallet event row: %w", err)
		}
		history = append(history, address)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallet event rows: %w", err)
	}
	return history, nil
}
