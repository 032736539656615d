package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeCommitted         = "committed"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeFailed            = "failed"
)

// CheckoutMetrics records till activity. A nil receiver is a no-op so tests
// and tools can run without a registry.
type CheckoutMetrics struct {
	commitDuration prometheus.Histogram
	commits        *prometheus.CounterVec
	linesAdded     *prometheus.CounterVec
	saleAmount     prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	commitDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_commit_duration_seconds",
		Help:    "Duration of the sale commit transaction in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	commits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_commits_total",
		Help: "Sale commit attempts by outcome.",
	}, []string{"outcome"})
	linesAdded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_lines_added_total",
		Help: "Cart additions by unit kind (piece or weight).",
	}, []string{"unit_kind"})
	saleAmount := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_sale_amount",
		Help:    "Grand total of committed sales.",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})
	reg.MustRegister(commitDuration, commits, linesAdded, saleAmount)
	return &CheckoutMetrics{
		commitDuration: commitDuration,
		commits:        commits,
		linesAdded:     linesAdded,
		saleAmount:     saleAmount,
	}
}

// ObserveCommit records one commit attempt.
func (c *CheckoutMetrics) ObserveCommit(outcome string, duration time.Duration) {
	if c == nil || c.commits == nil {
		return
	}
	c.commits.WithLabelValues(normalizeLabel(outcome)).Inc()
	c.commitDuration.Observe(duration.Seconds())
}

// ObserveSaleAmount records the total of a committed sale.
func (c *CheckoutMetrics) ObserveSaleAmount(total float64) {
	if c == nil || c.saleAmount == nil {
		return
	}
	c.saleAmount.Observe(total)
}

// IncLineAdded counts a successful cart addition.
func (c *CheckoutMetrics) IncLineAdded(unitKind string) {
	if c == nil || c.linesAdded == nil {
		return
	}
	c.linesAdded.WithLabelValues(normalizeLabel(unitKind)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
