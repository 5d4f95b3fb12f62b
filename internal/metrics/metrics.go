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

package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"wallet-token-ledger-go/internal/fees"
	"wallet-token-ledger-go/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

var (
	// Registry holds the ledger's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	ledgerOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wallet_ledger",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Total number of ledger operations by outcome.",
		},
		[]string{"operation", "result"},
	)

	ledgerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wallet_ledger",
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Duration of ledger operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		},
		[]string{"operation"},
	)

	tokenRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wallet_ledger",
			Subsystem: "tokens",
			Name:      "requests_total",
			Help:      "Total number of recorded token requests.",
		},
		[]string{"plan"},
	)

	tokenFees = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wallet_ledger",
			Subsystem: "tokens",
			Name:      "fees_total",
			Help:      "Sum of fees quoted on recorded token requests.",
		},
		[]string{"plan"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wallet_ledger",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wallet_ledger",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)
)

func init() {
	Registry.MustRegister(
		ledgerOperations,
		ledgerDuration,
		tokenRequests,
		tokenFees,
		httpRequests,
		httpDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Result buckets an operation error into a low-cardinality label value
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, store.ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, store.ErrDuplicateAccount):
		return "duplicate"
	case errors.Is(err, store.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, store.ErrConcurrentModification):
		return "conflict"
	case errors.Is(err, fees.ErrInvalidAmount), errors.Is(err, fees.ErrUnknownPlan):
		return "invalid"
	default:
		return "error"
	}
}

// RecordOperation records the outcome and latency of a ledger operation
func RecordOperation(operation string, duration time.Duration, err error) {
	ledgerOperations.WithLabelValues(operation, Result(err)).Inc()
	ledgerDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordTokenRequest counts a recorded token request and its fee. The fee
// counter is a float and only approximates very large totals.
func RecordTokenRequest(plan fees.Plan, fee decimal.Decimal) {
	tokenRequests.WithLabelValues(plan.String()).Inc()
	tokenFees.WithLabelValues(plan.String()).Add(fee.InexactFloat64())
}

// RecordHTTPRequest records a handled request. route is the matched route
// pattern, not the raw path.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
