package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordClassification(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewModeration(registry)
	require.NoError(t, err)

	m.RecordClassification(OutcomeSuccess, 120*time.Millisecond)
	m.RecordClassification(OutcomeFallback, 5*time.Second)
	m.RecordClassification(OutcomeCached, 0)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.classifierRequests.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.classifierRequests.WithLabelValues(OutcomeFallback)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.classifierRequests.WithLabelValues(OutcomeCached)))
	assert.Equal(t, uint64(2), durationSamples(t, registry))
}

func durationSamples(t *testing.T, registry *prometheus.Registry) uint64 {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "vouch_classifier_duration_seconds" {
			return f.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	t.Fatal("duration histogram not gathered")
	return 0
}

func TestRecordDomainEvents(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewModeration(registry)
	require.NoError(t, err)

	m.RecordSubmission(true)
	m.RecordSubmission(false)
	m.RecordSubmission(false)
	m.RecordVote("down", VoteAccepted)
	m.RecordVote("down", VoteDuplicate)
	m.RecordVisit("review")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.reviewsSubmitted.WithLabelValues("true")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.reviewsSubmitted.WithLabelValues("false")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.votes.WithLabelValues("down", VoteDuplicate)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.visitsRecorded.WithLabelValues("review")))
}

func TestDuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewModeration(registry)
	require.NoError(t, err)

	_, err = NewModeration(registry)
	assert.Error(t, err)
}

func TestNilModerationIsNoop(t *testing.T) {
	var m *Moderation
	assert.NotPanics(t, func() {
		m.RecordClassification(OutcomeSuccess, time.Second)
		m.RecordSubmission(true)
		m.RecordVote("up", VoteAccepted)
		m.RecordVisit("provider")
	})
}
