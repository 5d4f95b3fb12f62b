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

package fees

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Calculator prices an amount under a plan
type Calculator interface {
	Quote(amount decimal.Decimal, plan Plan) (Quote, error)
}

// Quote is a priced amount. Fee is Rate * Amount, computed exactly.
type Quote struct {
	Amount decimal.Decimal
	Plan   Plan
	Rate   decimal.Decimal
	Fee    decimal.Decimal
}

// Tier is one row of the rate table. A nil UpTo marks the unbounded last tier.
type Tier struct {
	UpTo  *decimal.Decimal
	Rates map[Plan]decimal.Decimal
}

// Schedule is an ascending list of tiers. An amount falls into the first tier
// whose UpTo it does not exceed, so a boundary value takes that tier's rate.
type Schedule struct {
	tiers []Tier
}

var _ Calculator = (*Schedule)(nil)

func bound(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func rate(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var defaultSchedule = &Schedule{tiers: []Tier{
	{UpTo: bound(25_000_000), Rates: map[Plan]decimal.Decimal{PlanTemporary: rate("0.20"), PlanLifetime: rate("0.40")}},
	{UpTo: bound(45_000_000), Rates: map[Plan]decimal.Decimal{PlanTemporary: rate("0.15"), PlanLifetime: rate("0.35")}},
	{UpTo: bound(100_000_000), Rates: map[Plan]decimal.Decimal{PlanTemporary: rate("0.12"), PlanLifetime: rate("0.30")}},
	{UpTo: bound(200_000_000), Rates: map[Plan]decimal.Decimal{PlanTemporary: rate("0.10"), PlanLifetime: rate("0.25")}},
	{UpTo: nil, Rates: map[Plan]decimal.Decimal{PlanTemporary: rate("0.05"), PlanLifetime: rate("0.20")}},
}}

// DefaultSchedule returns the built-in token request rate table
func DefaultSchedule() *Schedule {
	return defaultSchedule
}

// ComputeFee prices amount with the default schedule
func ComputeFee(amount decimal.Decimal, plan Plan) (decimal.Decimal, error) {
	q, err := defaultSchedule.Quote(amount, plan)
	if err != nil {
		return decimal.Zero, err
	}
	return q.Fee, nil
}

// NewSchedule validates tiers and builds a Schedule. Bounds must be strictly
// ascending, only the last tier may be unbounded (and it must be), every tier
// must price every known plan, and rates may not rise as amounts grow.
func NewSchedule(tiers []Tier) (*Schedule, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("schedule needs at least one tier")
	}

	var prevBound *decimal.Decimal
	prevRates := map[Plan]decimal.Decimal{}
	copied := make([]Tier, len(tiers))

	for i, tier := range tiers {
		last := i == len(tiers)-1
		switch {
		case tier.UpTo == nil && !last:
			return nil, fmt.Errorf("tier %d: only the last tier may be unbounded", i)
		case tier.UpTo != nil && last:
			return nil, fmt.Errorf("tier %d: last tier must be unbounded", i)
		case tier.UpTo != nil && !tier.UpTo.IsPositive():
			return nil, fmt.Errorf("tier %d: bound %s must be positive", i, tier.UpTo.String())
		case tier.UpTo != nil && prevBound != nil && !tier.UpTo.GreaterThan(*prevBound):
			return nil, fmt.Errorf("tier %d: bound %s is not above %s", i, tier.UpTo.String(), prevBound.String())
		}

		rates := make(map[Plan]decimal.Decimal, len(knownPlans))
		for _, plan := range knownPlans {
			r, ok := tier.Rates[plan]
			if !ok {
				return nil, fmt.Errorf("tier %d: missing rate for plan %s", i, plan)
			}
			if r.IsNegative() {
				return nil, fmt.Errorf("tier %d: negative rate %s for plan %s", i, r.String(), plan)
			}
			if prev, ok := prevRates[plan]; ok && r.GreaterThan(prev) {
				return nil, fmt.Errorf("tier %d: rate %s for plan %s rises above %s", i, r.String(), plan, prev.String())
			}
			rates[plan] = r
			prevRates[plan] = r
		}
		for plan := range tier.Rates {
			if !plan.Valid() {
				return nil, fmt.Errorf("tier %d: %w: %q", i, ErrUnknownPlan, plan)
			}
		}

		copied[i] = Tier{Rates: rates}
		if tier.UpTo != nil {
			upTo := *tier.UpTo
			copied[i].UpTo = &upTo
			prevBound = &upTo
		}
	}

	return &Schedule{tiers: copied}, nil
}

// Tiers returns a copy of the schedule's tiers
func (s *Schedule) Tiers() []Tier {
	out := make([]Tier, len(s.tiers))
	for i, tier := range s.tiers {
		rates := make(map[Plan]decimal.Decimal, len(tier.Rates))
		for plan, r := range tier.Rates {
			rates[plan] = r
		}
		out[i] = Tier{UpTo: tier.UpTo, Rates: rates}
	}
	return out
}

// Rate returns the per-unit rate that applies to amount under plan
func (s *Schedule) Rate(amount decimal.Decimal, plan Plan) (decimal.Decimal, error) {
	if !plan.Valid() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownPlan, plan)
	}
	if err := checkAmount(amount); err != nil {
		return decimal.Zero, err
	}

	for _, tier := range s.tiers {
		if tier.UpTo == nil || amount.LessThanOrEqual(*tier.UpTo) {
			return tier.Rates[plan], nil
		}
	}
	// NewSchedule guarantees an unbounded last tier
	return decimal.Zero, fmt.Errorf("no tier covers amount %s", amount.String())
}

// Quote prices amount under plan
func (s *Schedule) Quote(amount decimal.Decimal, plan Plan) (Quote, error) {
	r, err := s.Rate(amount, plan)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Amount: amount,
		Plan:   plan,
		Rate:   r,
		Fee:    r.Mul(amount),
	}, nil
}
