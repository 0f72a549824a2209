package metrics_test

import (
	"errors"
	"testing"

	"github.com/2beens/gymstats/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_AnalyticsFailed(t *testing.T) {
	m, reg := metrics.NewTestManagerAndRegistry()

	m.AnalyticsFailed("insights", errors.New("boom"))
	m.AnalyticsFailed("insights", errors.New("boom again"))
	m.AnalyticsFailed("weekly_metrics", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterAnalyticsFailures.WithLabelValues("insights")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterAnalyticsFailures.WithLabelValues("weekly_metrics")))

	count, err := testutil.GatherAndCount(reg, "gymstats_test_server_analytics_failures")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNewRegistry(t *testing.T) {
	m := metrics.NewTestManager()
	reg := metrics.NewRegistry("abc123", m.CounterWorkoutsAdded)

	m.CounterWorkoutsAdded.Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]*dto.MetricFamily{}
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	added := byName["gymstats_test_server_workouts_added"]
	require.NotNil(t, added)
	require.Len(t, added.GetMetric(), 1)
	assert.Equal(t, 1.0, added.GetMetric()[0].GetCounter().GetValue())

	buildInfo := byName["gymstats_build_info"]
	require.NotNil(t, buildInfo)
	require.Len(t, buildInfo.GetMetric(), 1)
	assert.Equal(t, 1.0, buildInfo.GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, "version", buildInfo.GetMetric()[0].GetLabel()[0].GetName())
	assert.Equal(t, "abc123", buildInfo.GetMetric()[0].GetLabel()[0].GetValue())

	assert.Contains(t, byName, "go_goroutines")
}

func TestNewRegistry_unknownVersion(t *testing.T) {
	count, err := testutil.GatherAndCount(metrics.NewRegistry(""), "gymstats_build_info")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
