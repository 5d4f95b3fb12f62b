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

// Package fees prices token requests against an amount-tiered rate table.
package fees

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrUnknownPlan   = errors.New("unknown pricing plan")
)

// Plan selects which column of the tier table applies
type Plan string

const (
	PlanTemporary Plan = "temporary"
	PlanLifetime  Plan = "lifetime"
)

var knownPlans = []Plan{PlanTemporary, PlanLifetime}

func (p Plan) String() string { return string(p) }

// Valid reports whether p is one of the known plans
func (p Plan) Valid() bool {
	for _, known := range knownPlans {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePlan maps "temporary" / "lifetime" (any case) to a Plan. Anything else is
// rejected; there is no default plan.
func ParsePlan(s string) (Plan, error) {
	plan := Plan(strings.ToLower(strings.TrimSpace(s)))
	if !plan.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlan, s)
	}
	return plan, nil
}

// ParseAmount parses a decimal string and requires it to be strictly positive
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if err := checkAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// AmountFromFloat converts a float amount, rejecting NaN, infinities and
// non-positive values.
func AmountFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("%w: %v is not finite", ErrInvalidAmount, f)
	}
	amount := decimal.NewFromFloat(f)
	if err := checkAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

func checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s must be greater than zero", ErrInvalidAmount, amount.String())
	}
	return nil
}
