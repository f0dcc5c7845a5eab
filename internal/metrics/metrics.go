package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"

	"github.com/tomasfarkasovsky/trailhead/internal/config"
	"github.com/tomasfarkasovsky/trailhead/internal/logging"
)

// Result labels for per-user observations.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Collector holds the batch metrics of one process. A batch job is short
// lived, so values are pushed to a Pushgateway rather than scraped.
type Collector struct {
	registry *prometheus.Registry
	pushURL  string
	job      string
	logger   *zap.Logger

	users       *prometheus.CounterVec
	userSeconds *prometheus.HistogramVec
	runUsers    *prometheus.GaugeVec
	runSeconds  prometheus.Gauge
	runSuccess  prometheus.Gauge
	lastRun     prometheus.Gauge
}

func New(cfg config.MetricsConfig, logger *zap.Logger) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		pushURL:  cfg.PushgatewayURL,
		job:      cfg.Job,
		logger:   logging.OrNop(logger),
		users: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trailhead_sync_users_total",
			Help: "Usernames processed, by result.",
		}, []string{"result"}),
		userSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trailhead_sync_user_duration_seconds",
			Help:    "Time spent fetching and reconciling one username.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"result"}),
		runUsers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "trailhead_sync_last_run_users",
			Help: "Usernames in the last run, by state.",
		}, []string{"state"}),
		runSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trailhead_sync_last_run_duration_seconds",
			Help: "Wall time of the last run.",
		}),
		runSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trailhead_sync_last_run_success",
			Help: "1 when the last run completed, 0 when it aborted.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trailhead_sync_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
	}
	if c.job == "" {
		c.job = "trailhead_sync"
	}

	c.registry.MustRegister(c.users, c.userSeconds, c.runUsers, c.runSeconds, c.runSuccess, c.lastRun)
	return c
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) ObserveUser(result string, elapsed time.Duration) {
	c.users.WithLabelValues(result).Inc()
	c.userSeconds.WithLabelValues(result).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveRun(completed bool, total, succeeded, failed int, elapsed time.Duration) {
	c.runUsers.WithLabelValues("total").Set(float64(total))
	c.runUsers.WithLabelValues("succeeded").Set(float64(succeeded))
	c.runUsers.WithLabelValues("failed").Set(float64(failed))
	c.runSeconds.Set(elapsed.Seconds())
	if completed {
		c.runSuccess.Set(1)
	} else {
		c.runSuccess.Set(0)
	}
	c.lastRun.SetToCurrentTime()
}

// Push sends the registry to the configured Pushgateway. Without a URL it
// does nothing.
func (c *Collector) Push(ctx context.Context) error {
	if c.pushURL == "" {
		return nil
	}
	if err := push.New(c.pushURL, c.job).Gatherer(c.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	c.logger.Debug("metrics pushed", zap.String("url", c.pushURL), zap.String("job", c.job))
	return nil
}
