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

package server

import (
	"errors"

	"wallet-token-ledger-go/internal/fees"
	"wallet-token-ledger-go/internal/ledger"
	"wallet-token-ledger-go/internal/models"
	"wallet-token-ledger-go/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// statusFor maps ledger errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrAccountNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, store.ErrDuplicateAccount),
		errors.Is(err, store.ErrConcurrentModification):
		return fiber.StatusConflict
	case errors.Is(err, store.ErrInsufficientBalance):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, fees.ErrInvalidAmount),
		errors.Is(err, fees.ErrUnknownPlan),
		errors.Is(err, ledger.ErrInvalidWalletAddress),
		errors.Is(err, ledger.ErrInvalidAccountId),
		errors.Is(err, models.ErrUnknownBalanceKind):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	status := statusFor(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		zap.L().Error("Request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		message = "internal server error"
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}
