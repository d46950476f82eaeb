package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ducminhle1904/mtf-signal-backtest/internal/backtest"
	bterrors "github.com/ducminhle1904/mtf-signal-backtest/internal/errors"
)

var (
	// Run metrics
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backtest_runs_total",
			Help: "Total number of completed strategy runs",
		},
		[]string{"strategy"},
	)

	runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "backtest_run_duration_seconds",
			Help:    "Distribution of strategy run durations",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		},
	)

	// Trade metrics
	tradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backtest_trades_total",
			Help: "Total number of simulated trades",
		},
		[]string{"strategy", "exit_reason"},
	)

	// Data metrics
	candlesLoaded = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "backtest_candles_loaded",
			Help: "Number of candles in the series under test",
		},
		[]string{"symbol", "interval"},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backtest_errors_total",
			Help: "Total number of errors by category",
		},
		[]string{"category"},
	)
)

func init() {
	prometheus.MustRegister(runsTotal)
	prometheus.MustRegister(runDuration)
	prometheus.MustRegister(tradesTotal)
	prometheus.MustRegister(candlesLoaded)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordRun records a completed run and its trades by exit reason
func RecordRun(result backtest.Result) {
	runsTotal.WithLabelValues(result.Name).Inc()
	runDuration.Observe(result.Duration.Seconds())
	for _, t := range result.Trades {
		tradesTotal.WithLabelValues(result.Name, t.ExitReason.String()).Inc()
	}
}

// SetCandlesLoaded records the size of the loaded series
func SetCandlesLoaded(symbol, interval string, n int) {
	candlesLoaded.WithLabelValues(symbol, interval).Set(float64(n))
}

// RecordError counts an error under its category. Uncategorised errors are
// classified by message.
func RecordError(err error) {
	if err == nil {
		return
	}
	category := bterrors.CategorizeError(err, "monitoring", "record").Category
	errorsTotal.WithLabelValues(string(category)).Inc()
}
