package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/amelfit-backend/internal/platform/envutil"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	upstreamRequests *CounterVec
	upstreamLatency  *HistogramVec

	aggregateOps       *CounterVec
	aggregateLatency   *HistogramVec
	aggregateConflicts *CounterVec
	aggregateRetries   *CounterVec

	mealsLogged         *CounterVec
	classifierFallbacks *Counter
	sessionsCompleted   *Counter
	purchases           *CounterVec

	pgStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge

	all []collector
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

// Current returns the process metrics, or nil when metrics are disabled. All methods are nil-safe.
func Current() *Metrics {
	return instance
}

func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = newMetrics()
		if log != nil {
			log.Info("metrics initialized")
		}
	})
	return instance
}

func newMetrics() *Metrics {
	latency := []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}
	m := &Metrics{
		apiRequests: NewCounterVec("af_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency:  NewHistogramVec("af_api_request_duration_seconds", "API request latency in seconds.", []string{"method", "route", "status"}, latency),
		apiInflight: NewGauge("af_api_inflight_requests", "In-flight API requests."),

		upstreamRequests: NewCounterVec("af_upstream_requests_total", "Outbound provider requests.", []string{"provider", "endpoint", "status"}),
		upstreamLatency:  NewHistogramVec("af_upstream_request_duration_seconds", "Outbound provider latency in seconds.", []string{"provider", "endpoint"}, latency),

		aggregateOps:       NewCounterVec("af_aggregate_operations_total", "Aggregate write operations by outcome.", []string{"aggregate", "operation", "outcome"}),
		aggregateLatency:   NewHistogramVec("af_aggregate_operation_duration_seconds", "Aggregate write latency in seconds.", []string{"aggregate", "operation"}, latency),
		aggregateConflicts: NewCounterVec("af_aggregate_conflicts_total", "Aggregate CAS/unique conflicts.", []string{"aggregate", "operation"}),
		aggregateRetries:   NewCounterVec("af_aggregate_retries_total", "Aggregate retry attempts.", []string{"aggregate", "operation"}),

		mealsLogged:         NewCounterVec("af_meals_logged_total", "Meal entries appended by source.", []string{"source"}),
		classifierFallbacks: NewCounter("af_meal_classifier_fallbacks_total", "Meal analyses that used the fallback estimate."),
		sessionsCompleted:   NewCounter("af_training_sessions_completed_total", "Completed training sessions."),
		purchases:           NewCounterVec("af_purchases_total", "Completed purchases by provider.", []string{"provider"}),

		pgStats:   NewGaugeVec("af_postgres_pool", "Postgres connection pool stats.", []string{"stat"}),
		redisUp:   NewGauge("af_redis_up", "Redis reachability (1 up, 0 down)."),
		redisPing: NewGauge("af_redis_ping_seconds", "Last Redis ping latency in seconds."),
	}
	m.all = []collector{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.upstreamRequests, m.upstreamLatency,
		m.aggregateOps, m.aggregateLatency, m.aggregateConflicts, m.aggregateRetries,
		m.mealsLogged, m.classifierFallbacks, m.sessionsCompleted, m.purchases,
		m.pgStats, m.redisUp, m.redisPing,
	}
	return m
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed && log != nil {
			log.Error("metrics server failed", "error", err, "addr", addr)
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range m.all {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Add(1)
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Add(-1)
}

func (m *Metrics) ObserveUpstream(provider, endpoint, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.Inc(provider, endpoint, status)
	m.upstreamLatency.Observe(dur.Seconds(), provider, endpoint)
}

func (m *Metrics) ObserveAggregateOperation(aggregate, operation, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aggregateOps.Inc(aggregate, operation, outcome)
	m.aggregateLatency.Observe(dur.Seconds(), aggregate, operation)
}

func (m *Metrics) IncAggregateConflict(aggregate, operation string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.Inc(aggregate, operation)
}

func (m *Metrics) IncAggregateRetry(aggregate, operation string) {
	if m == nil {
		return
	}
	m.aggregateRetries.Inc(aggregate, operation)
}

func (m *Metrics) IncMealLogged(source string) {
	if m == nil {
		return
	}
	m.mealsLogged.Inc(source)
}

func (m *Metrics) IncClassifierFallback() {
	if m == nil {
		return
	}
	m.classifierFallbacks.Add(1)
}

func (m *Metrics) IncSessionCompleted() {
	if m == nil {
		return
	}
	m.sessionsCompleted.Add(1)
}

func (m *Metrics) IncPurchase(provider string) {
	if m == nil {
		return
	}
	m.purchases.Inc(provider)
}

func scrapeInterval() time.Duration {
	return envutil.Duration("METRICS_SCRAPE_INTERVAL_SECONDS", 10*time.Second)
}

func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: postgres stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.pgStats.Set(float64(stats.OpenConnections), "open_connections")
				m.pgStats.Set(float64(stats.InUse), "in_use")
				m.pgStats.Set(float64(stats.Idle), "idle")
				m.pgStats.Set(float64(stats.WaitCount), "wait_count")
				m.pgStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
			}
		}
	}()
}

// StartRedisCollector pings the shared client used by the stats locker.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

// StatusLabel renders an HTTP status code as a metric label.
func StatusLabel(code int) string {
	if code <= 0 {
		return "0"
	}
	return strconv.Itoa(code)
}
