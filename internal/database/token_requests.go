package database

import (
	"context"
	"database/sql"
	"fmt"

	"wallet-token-ledger-go/internal/fees"
	"wallet-token-ledger-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AppendTokenRequest stores a priced request. Balances are not touched.
func (s *Service) AppendTokenRequest(ctx context.Context, request models.TokenRequest) error {
	zap.L().Info("Recording token request",
		zap.String("account_id", request.AccountId),
		zap.String("plan", request.Plan.String()),
		zap.String("amount", request.Amount.String()),
		zap.String("fee", request.Fee.String()))

	if request.Id == "" {
		request.Id = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := bumpVersion(ctx, tx, request.AccountId, request.CreatedAt); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, queryInsertTokenRequest,
		request.Id, request.AccountId, request.Amount.String(), request.Plan.String(),
		request.Rate.String(), request.Fee.String(), request.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert token request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetTokenRequests returns the account's requests oldest first
func (s *Service) GetTokenRequests(ctx context.Context, accountId string, limit, offset int) ([]models.TokenRequest, error) {
	zap.L().Debug("Getting token requests",
		zap.String("account_id", accountId),
		zap.Int("limit", limit),
		zap.Int("offset", offset))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireAccount(ctx, tx, accountId); err != nil {
		return nil, err
	}
	requests, err := tokenRequests(ctx, tx, accountId, limit, offset)
	if err != nil {
		return nil, err
	}
	return requests, tx.Commit()
}

func tokenRequests(ctx context.Context, tx *sql.Tx, accountId string, limit, offset int) ([]models.TokenRequest, error) {
	limit, offset = pageArgs(limit, offset)

	rows, err := tx.QueryContext(ctx, queryGetTokenRequests, accountId, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get token requests: %w", err)
	}
	defer closeRows(rows)

	requests := []models.TokenRequest{}
	for rows.Next() {
		var r models.TokenRequest
		var amountStr, planStr, rateStr, feeStr string
		if err := rows.Scan(&r.Id, &r.AccountId, &amountStr, &planStr, &rateStr, &feeStr, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan token request: %w", err)
		}

		if r.Amount, err = parseDecimal("amount", amountStr); err != nil {
			return nil, err
		}
		if r.Rate, err = parseDecimal("rate", rateStr); err != nil {
			return nil, err
		}
		if r.Fee, err = parseDecimal("fee", feeStr); err != nil {
			return nil, err
		}
		r.Plan = fees.Plan(planStr)

		requests = append(requests, r)
	}

	// Check for errors during iteration
	if err := rows.Err(); err != nil {
		zap.L().Error("Error during token request row iteration", zap.Error(err))
		return nil, fmt.Errorf("error iterating token request rows: %w", err)
	}
	return requests, nil
}
