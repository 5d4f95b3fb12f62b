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

package ledger

import (
	"context"
	"time"

	"wallet-token-ledger-go/internal/fees"
	"wallet-token-ledger-go/internal/metrics"
	"wallet-token-ledger-go/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RequestToken prices amount under plan and appends the record to the
// account's request history. No balance is debited or credited.
func (s *Service) RequestToken(ctx context.Context, accountId string, amount decimal.Decimal, plan fees.Plan) (req *models.TokenRequest, err error) {
	defer func(start time.Time) { observe("request_token", start, err) }(time.Now())

	if _, err := s.store.GetAccount(ctx, accountId); err != nil {
		return nil, err
	}

	quote, err := s.fees.Quote(amount, plan)
	if err != nil {
		zap.L().Info("Token request rejected",
			zap.String("account_id", accountId),
			zap.String("amount", amount.String()),
			zap.String("plan", plan.String()),
			zap.Error(err))
		return nil, err
	}

	request := models.TokenRequest{
		Id:        uuid.New().String(),
		AccountId: accountId,
		Amount:    quote.Amount,
		Plan:      quote.Plan,
		Rate:      quote.Rate,
		Fee:       quote.Fee,
		CreatedAt: s.clock.Now(),
	}
	if err := s.store.AppendTokenRequest(ctx, request); err != nil {
		return nil, err
	}

	metrics.RecordTokenRequest(request.Plan, request.Fee)
	zap.L().Info("Token request recorded",
		zap.String("request_id", request.Id),
		zap.String("account_id", accountId),
		zap.String("amount", request.Amount.String()),
		zap.String("plan", request.Plan.String()),
		zap.String("fee", request.Fee.String()))

	return &request, nil
}

// TokenRequestHistory pages through an account's token requests oldest first.
// A limit of zero or less returns everything from offset on.
func (s *Service) TokenRequestHistory(ctx context.Context, accountId string, limit, offset int) ([]models.TokenRequest, error) {
	return s.store.GetTokenRequests(ctx, accountId, limit, offset)
}

// QuoteFee prices an amount without touching any account
func (s *Service) QuoteFee(amount decimal.Decimal, plan fees.Plan) (models.FeeQuote, error) {
	quote, err := s.fees.Quote(amount, plan)
	if err != nil {
		return models.FeeQuote{}, err
	}
	return models.FeeQuote{
		Amount: quote.Amount,
		Plan:   quote.Plan.String(),
		Rate:   quote.Rate,
		Fee:    quote.Fee,
	}, nil
}
