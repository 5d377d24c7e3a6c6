package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("hotel", reg)

	m.CheckIns.WithLabelValues("ok").Inc()
	m.Transitions.WithLabelValues("checked_in").Add(3)
	m.ObserveSince("check_in", time.Now())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CheckIns.WithLabelValues("ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Transitions.WithLabelValues("checked_in")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["hotel_check_ins_total"])
	assert.True(t, names["hotel_operation_duration_seconds"])

	// A second set on a fresh registry must not panic on duplicate names.
	assert.NotPanics(t, func() { NewMetrics("hotel", prometheus.NewRegistry()) })
}
