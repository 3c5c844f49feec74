package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shenikar/sos_rescue_system/internal/models"
)

const namespace = "sos"

// Metrics - набор метрик сервиса, регистрируется в переданном реестре
type Metrics struct {
	registry *prometheus.Registry

	SignalsCreated      *prometheus.CounterVec
	ClassifierFallbacks prometheus.Counter
	ClassifierDuration  prometheus.Histogram
	Transitions         *prometheus.CounterVec
	LocationReports     *prometheus.CounterVec
	SignalsByStatus     *prometheus.GaugeVec
	SignalsByDanger     *prometheus.GaugeVec
	StatsRefreshedAt    prometheus.Gauge
	RequestDuration     *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.SignalsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signals_created_total",
		Help:      "Number of SOS signals created by assigned danger level",
	}, []string{"danger_level"})
	m.ClassifierFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "classifier_fallbacks_total",
		Help:      "Signals that got the conservative red level because the classifier failed",
	})
	m.ClassifierDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "classifier_duration_seconds",
		Help:      "Time spent waiting for the danger classifier",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10},
	})
	m.Transitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Status transition attempts by target status and result",
	}, []string{"to_status", "result"})
	m.LocationReports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rescuer_location_reports_total",
		Help:      "Rescuer position reports by result",
	}, []string{"result"})
	m.SignalsByStatus = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "signals",
		Help:      "Current number of signals by status",
	}, []string{"status"})
	m.SignalsByDanger = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "signals_by_danger_level",
		Help:      "Current number of signals by danger level",
	}, []string{"danger_level"})
	m.StatsRefreshedAt = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stats_last_refresh_timestamp_seconds",
		Help:      "Unix timestamp of the last successful signal gauge refresh",
	})
	m.RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status code",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "code"})

	m.registry.MustRegister(
		m.SignalsCreated, m.ClassifierFallbacks, m.ClassifierDuration,
		m.Transitions, m.LocationReports,
		m.SignalsByStatus, m.SignalsByDanger, m.StatsRefreshedAt,
		m.RequestDuration,
	)
	return m
}

// Registry отдается тестам и /metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler - обработчик /metrics для этого реестра
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveStats выставляет gauge-метрики по снимку статистики
func (m *Metrics) ObserveStats(stats *models.DashboardStats) {
	m.SignalsByStatus.WithLabelValues(string(models.StatusPending)).Set(float64(stats.Pending))
	m.SignalsByStatus.WithLabelValues(string(models.StatusInProgress)).Set(float64(stats.InProgress))
	m.SignalsByStatus.WithLabelValues(string(models.StatusCompleted)).Set(float64(stats.Completed))
	m.SignalsByDanger.WithLabelValues(string(models.DangerRed)).Set(float64(stats.Red))
	m.SignalsByDanger.WithLabelValues(string(models.DangerYellow)).Set(float64(stats.Yellow))
	m.SignalsByDanger.WithLabelValues(string(models.DangerGreen)).Set(float64(stats.Green))
	m.StatsRefreshedAt.SetToCurrentTime()
}

// GinMiddleware замеряет длительность запросов; route берется из шаблона маршрута, а не из URL
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
