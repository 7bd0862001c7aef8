// Package metrics provides Prometheus collectors for moderation, voting, and
// visit logging. A nil *Moderation is valid and records nothing.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Classifier outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeCached   = "cached"
	OutcomeDisabled = "disabled"
)

// Vote results.
const (
	VoteAccepted  = "accepted"
	VoteDuplicate = "duplicate"
	VoteNotFound  = "not_found"
	VoteError     = "error"
)

// Moderation holds the service's domain metrics.
type Moderation struct {
	classifierRequests *prometheus.CounterVec
	classifierDuration prometheus.Histogram
	reviewsSubmitted   *prometheus.CounterVec
	votes              *prometheus.CounterVec
	visitsRecorded     *prometheus.CounterVec
}

// NewModeration creates the collectors and registers them with registry.
func NewModeration(registry prometheus.Registerer) (*Moderation, error) {
	m := &Moderation{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("register moderation metrics: %w", err)
	}
	return m, nil
}

func (m *Moderation) initMetrics() {
	m.classifierRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vouch_classifier_requests_total",
			Help: "Classification requests by outcome",
		},
		[]string{"outcome"},
	)

	m.classifierDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vouch_classifier_duration_seconds",
			Help:    "Latency of remote classification calls",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	m.reviewsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vouch_reviews_submitted_total",
			Help: "Submitted reviews by auto-confirmation result",
		},
		[]string{"auto_confirmed"},
	)

	m.votes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vouch_votes_total",
			Help: "Vote attempts by direction and result",
		},
		[]string{"direction", "result"},
	)

	m.visitsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vouch_visits_recorded_total",
			Help: "Visit log rows written by entity kind",
		},
		[]string{"kind"},
	)
}

// RecordClassification counts a classification and, for remote calls, its latency.
func (m *Moderation) RecordClassification(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.classifierRequests.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess || outcome == OutcomeFallback {
		m.classifierDuration.Observe(duration.Seconds())
	}
}

// RecordSubmission counts a persisted review.
func (m *Moderation) RecordSubmission(autoConfirmed bool) {
	if m == nil {
		return
	}
	m.reviewsSubmitted.WithLabelValues(strconv.FormatBool(autoConfirmed)).Inc()
}

// RecordVote counts a vote attempt.
func (m *Moderation) RecordVote(direction, result string) {
	if m == nil {
		return
	}
	m.votes.WithLabelValues(direction, result).Inc()
}

// RecordVisit counts a written visit row.
func (m *Moderation) RecordVisit(kind string) {
	if m == nil {
		return
	}
	m.visitsRecorded.WithLabelValues(kind).Inc()
}

// Describe implements prometheus.Collector.
func (m *Moderation) Describe(ch chan<- *prometheus.Desc) {
	m.classifierRequests.Describe(ch)
	m.classifierDuration.Describe(ch)
	m.reviewsSubmitted.Describe(ch)
	m.votes.Describe(ch)
	m.visitsRecorded.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Moderation) Collect(ch chan<- prometheus.Metric) {
	m.classifierRequests.Collect(ch)
	m.classifierDuration.Collect(ch)
	m.reviewsSubmitted.Collect(ch)
	m.votes.Collect(ch)
	m.visitsRecorded.Collect(ch)
}
