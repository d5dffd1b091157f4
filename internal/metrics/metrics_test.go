package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	require.NoError(t, m.Register())
	require.NoError(t, m.Register())

	// a second set of collectors with the same names reuses the registration
	other := New(reg)
	require.NoError(t, other.Register())
}

func TestMetrics_Record(t *testing.T) {
	m := New(prometheus.NewRegistry())
	require.NoError(t, m.Register())

	m.TransactionGenerated()
	m.TransactionGenerated()
	m.PublishCompleted(ResultSuccess, 3)
	m.PublishCompleted(ResultFailure, 1)
	m.SelfHealed()
	m.Tick(TickSkipped)
	m.Seeded(10, 20)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.generatedTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.publishTotal.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.publishTotal.WithLabelValues(ResultFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.selfHealTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ticksTotal.WithLabelValues(TickSkipped)))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.seededCustomers))
	assert.Equal(t, 20.0, testutil.ToFloat64(m.seededCards))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.TransactionGenerated()
		m.PublishCompleted(ResultSuccess, 1)
		m.SelfHealed()
		m.Tick(TickFailed)
		m.Seeded(1, 1)
	})
}
