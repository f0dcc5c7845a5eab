package metrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomasfarkasovsky/trailhead/internal/config"
	"github.com/tomasfarkasovsky/trailhead/internal/metrics"
)

func TestCollector_Observations(t *testing.T) {
	c := metrics.New(config.MetricsConfig{}, nil)
	c.ObserveUser(metrics.ResultSuccess, 100*time.Millisecond)
	c.ObserveUser(metrics.ResultSuccess, 200*time.Millisecond)
	c.ObserveUser(metrics.ResultFailure, time.Second)
	c.ObserveRun(true, 3, 2, 1, 2*time.Second)

	mfs, err := c.Registry().Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "{" + lp.GetName() + "=" + lp.GetValue() + "}"
			}
			switch {
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[key] = m.GetGauge().GetValue()
			}
		}
	}

	assert.Equal(t, 2.0, values["trailhead_sync_users_total{result=success}"])
	assert.Equal(t, 1.0, values["trailhead_sync_users_total{result=failure}"])
	assert.Equal(t, 3.0, values["trailhead_sync_last_run_users{state=total}"])
	assert.Equal(t, 1.0, values["trailhead_sync_last_run_users{state=failed}"])
	assert.Equal(t, 1.0, values["trailhead_sync_last_run_success"])
	assert.Equal(t, 2.0, values["trailhead_sync_last_run_duration_seconds"])
}

func TestCollector_PushWithoutURLIsNoop(t *testing.T) {
	c := metrics.New(config.MetricsConfig{}, nil)
	assert.NoError(t, c.Push(context.Background()))
}

func TestCollector_Push(t *testing.T) {
	var path, method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, method = r.URL.Path, r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := metrics.New(config.MetricsConfig{PushgatewayURL: srv.URL, Job: "trailhead_test"}, nil)
	c.ObserveRun(true, 1, 1, 0, time.Second)
	require.NoError(t, c.Push(context.Background()))

	assert.Equal(t, http.MethodPut, method)
	assert.True(t, strings.HasSuffix(path, "/metrics/job/trailhead_test"), "unexpected path %s", path)
}

func TestCollector_PushError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := metrics.New(config.MetricsConfig{PushgatewayURL: srv.URL}, nil)
	assert.Error(t, c.Push(context.Background()))
}
