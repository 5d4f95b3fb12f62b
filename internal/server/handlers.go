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
	"strings"

	"wallet-token-ledger-go/internal/fees"
	"wallet-token-ledger-go/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type connectWalletRequest struct {
	WalletAddress string `json:"wallet_address"`
}

type requestTokenRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Plan   string          `json:"plan"`
}

type createAccountRequest struct {
	AccountId string `json:"account_id"`
}

type adjustBalanceRequest struct {
	Kind      string          `json:"kind"`
	Delta     decimal.Decimal `json:"delta"`
	Reference string          `json:"reference"`
}

type resetBalancesRequest struct {
	Reference string `json:"reference"`
}

func (s *Server) health(c *fiber.Ctx) error {
	if err := s.ledger.HealthCheck(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) quote(c *fiber.Ctx) error {
	amount, err := fees.ParseAmount(c.Query("amount"))
	if err != nil {
		return err
	}
	plan, err := fees.ParsePlan(c.Query("plan"))
	if err != nil {
		return err
	}

	q, err := s.ledger.QuoteFee(amount, plan)
	if err != nil {
		return err
	}
	return c.JSON(q)
}

func (s *Server) dashboard(c *fiber.Ctx) error {
	d, err := s.ledger.Dashboard(c.UserContext(), principalFrom(c).AccountId)
	if err != nil {
		return err
	}
	return c.JSON(d)
}

func (s *Server) connectWallet(c *fiber.Ctx) error {
	var req connectWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	acct, err := s.ledger.ConnectWallet(c.UserContext(), principalFrom(c).AccountId, strings.TrimSpace(req.WalletAddress))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":   "Wallet connected successfully",
		"dashboard": models.NewDashboard(acct),
	})
}

func (s *Server) requestToken(c *fiber.Ctx) error {
	var req requestTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	plan, err := fees.ParsePlan(req.Plan)
	if err != nil {
		return err
	}

	tokenRequest, err := s.ledger.RequestToken(c.UserContext(), principalFrom(c).AccountId, req.Amount, plan)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.NewTokenRequestRecord(*tokenRequest))
}

func (s *Server) tokenRequests(c *fiber.Ctx) error {
	requests, err := s.ledger.TokenRequestHistory(c.UserContext(), principalFrom(c).AccountId,
		c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}

	records := make([]models.TokenRequestRecord, 0, len(requests))
	for _, r := range requests {
		records = append(records, models.NewTokenRequestRecord(r))
	}
	return c.JSON(fiber.Map{"token_requests": records})
}

func (s *Server) listAccounts(c *fiber.Ctx) error {
	accounts, err := s.ledger.ListAccounts(c.UserContext())
	if err != nil {
		return err
	}

	dashboards := make([]models.Dashboard, 0, len(accounts))
	for i := range accounts {
		dashboards = append(dashboards, models.NewDashboard(&accounts[i]))
	}
	return c.JSON(fiber.Map{"accounts": dashboards})
}

func (s *Server) createAccount(c *fiber.Ctx) error {
	var req createAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	acct, err := s.ledger.CreateAccount(c.UserContext(), strings.TrimSpace(req.AccountId))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.NewDashboard(acct))
}

func (s *Server) getAccount(c *fiber.Ctx) error {
	d, err := s.ledger.Dashboard(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(d)
}

func (s *Server) adjustBalance(c *fiber.Ctx) error {
	var req adjustBalanceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	kind, err := models.ParseBalanceKind(req.Kind)
	if err != nil {
		return err
	}

	adj, err := s.ledger.AdjustBalance(c.UserContext(), c.Params("id"), kind, req.Delta, req.Reference)
	if err != nil {
		return err
	}
	return c.JSON(models.NewAdjustmentRecord(*adj))
}

func (s *Server) resetBalances(c *fiber.Ctx) error {
	var req resetBalancesRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}
	if req.Reference == "" {
		req.Reference = "reset by " + principalFrom(c).AccountId
	}

	adjustments, err := s.ledger.ResetBalances(c.UserContext(), c.Params("id"), req.Reference)
	if err != nil {
		return err
	}

	records := make([]models.AdjustmentRecord, 0, len(adjustments))
	for _, a := range adjustments {
		records = append(records, models.NewAdjustmentRecord(a))
	}
	return c.JSON(fiber.Map{"adjustments": records})
}

func (s *Server) adjustments(c *fiber.Ctx) error {
	history, err := s.ledger.AdjustmentHistory(c.UserContext(), c.Params("id"),
		c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}

	records := make([]models.AdjustmentRecord, 0, len(history))
	for _, a := range history {
		records = append(records, models.NewAdjustmentRecord(a))
	}
	return c.JSON(fiber.Map{"adjustments": records})
}
