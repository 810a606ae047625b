package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the club ledger Prometheus collectors.
	Registry = prometheus.NewRegistry()

	ledgerMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "club",
			Subsystem: "ledger",
			Name:      "mutations_total",
			Help:      "Total number of balance changes applied.",
		},
		[]string{"direction", "clamped"},
	)

	bets = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "club",
			Subsystem: "games",
			Name:      "bets_total",
			Help:      "Total number of accepted bets.",
		},
		[]string{"game", "outcome"},
	)

	rejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "club",
			Subsystem: "engine",
			Name:      "rejections_total",
			Help:      "Total number of rejected requests by kind.",
		},
		[]string{"kind"},
	)

	draws = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "club",
			Subsystem: "drawing",
			Name:      "draws_total",
			Help:      "Total number of completed drawings.",
		},
		[]string{"outcome"},
	)

	poolBalance = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "club",
			Subsystem: "drawing",
			Name:      "pool_balance",
			Help:      "Current value of the drawing pool.",
		},
	)

	sinkFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "club",
			Subsystem: "events",
			Name:      "sink_failures_total",
			Help:      "Total number of mutation events a downstream sink failed to handle.",
		},
		[]string{"sink"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "club",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "club",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path"},
	)
)

func init() {
	Registry.MustRegister(
		ledgerMutations,
		bets,
		rejections,
		draws,
		poolBalance,
		sinkFailures,
		httpRequests,
		httpDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordLedgerMutation counts one balance change.
func RecordLedgerMutation(amount int64, clamped bool) {
	direction := "credit"
	if amount < 0 {
		direction = "debit"
	}
	ledgerMutations.WithLabelValues(direction, strconv.FormatBool(clamped)).Inc()
}

// RecordBet counts one accepted bet.
func RecordBet(game string, won bool) {
	outcome := "loss"
	if won {
		outcome = "win"
	}
	bets.WithLabelValues(game, outcome).Inc()
}

// RecordRejection counts a refused request. kind is one of the rejection sentinels.
func RecordRejection(kind error) {
	label := "unknown"
	if kind != nil {
		label = strings.ReplaceAll(kind.Error(), " ", "_")
	}
	rejections.WithLabelValues(label).Inc()
}

// RecordDraw counts a completed drawing and updates the pool gauge.
func RecordDraw(rolledOver bool, poolAfter int64) {
	outcome := "won"
	if rolledOver {
		outcome = "rolled_over"
	}
	draws.WithLabelValues(outcome).Inc()
	poolBalance.Set(float64(poolAfter))
}

// SetPoolBalance updates the pool gauge.
func SetPoolBalance(balance int64) {
	poolBalance.Set(float64(balance))
}

// RecordSinkFailure counts an event a sink could not apply.
func RecordSinkFailure(sink string) {
	sinkFailures.WithLabelValues(sink).Inc()
}

// InstrumentHandler wraps the router with HTTP metrics collection.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		path := routeTemplate(r)
		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	})
}

// routeTemplate keeps label cardinality bounded by using the matched mux template.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
