package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveSession(t *testing.T) {
	m := Init("sessiond_test", prometheus.NewRegistry())

	m.ObserveSession("completed", 90*time.Second)
	m.ObserveSession("completed", 30*time.Second)
	m.ObserveSession("timed_out", 2*time.Hour)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.sessionsTotal.WithLabelValues("completed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.sessionsTotal.WithLabelValues("timed_out")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.sessionsTotal.WithLabelValues("failed")))
}

func TestIncCycleCompleted(t *testing.T) {
	m := Init("sessiond_test", prometheus.NewRegistry())

	m.IncCycleCompleted()
	m.IncCycleCompleted()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.cyclesCompleted))
}

func TestIncCollaboratorError(t *testing.T) {
	m := Init("sessiond_test", prometheus.NewRegistry())

	m.IncCollaboratorError("notices")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.collaboratorErrors.WithLabelValues("notices")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.collaboratorErrors.WithLabelValues("diary")))
}

func TestSessionDurationHistogramCount(t *testing.T) {
	m := Init("sessiond_test", prometheus.NewRegistry())

	m.ObserveSession("completed", time.Minute)
	m.ObserveSession("completed", 5*time.Minute)

	count := testutil.CollectAndCount(m.sessionDuration, "sessiond_test_session_duration_seconds")
	assert.Equal(t, 1, count, "one series for the completed outcome")
}
