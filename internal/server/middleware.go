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
	"strings"

	"wallet-token-ledger-go/internal/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const principalKey = "principal"

// authenticate resolves the bearer token to a principal and stores it on the
// request for handlers.
func (s *Server) authenticate(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization format")
	}

	if s.resolver == nil {
		zap.L().Warn("Rejecting request: no principal resolver configured")
		return fiber.NewError(fiber.StatusUnauthorized, "authentication is not configured")
	}

	principal, err := s.resolver.Resolve(c.UserContext(), strings.TrimSpace(token))
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredential) && !errors.Is(err, auth.ErrMissingCredential) {
			zap.L().Error("Principal resolution failed", zap.Error(err))
		}
		return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

func requireAdmin(c *fiber.Ctx) error {
	if !principalFrom(c).Admin {
		return fiber.NewError(fiber.StatusForbidden, "admin privileges required")
	}
	return c.Next()
}

func principalFrom(c *fiber.Ctx) auth.Principal {
	p, _ := c.Locals(principalKey).(auth.Principal)
	return p
}
