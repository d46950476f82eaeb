package monitoring

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/mtf-signal-backtest/internal/backtest"
	bterrors "github.com/ducminhle1904/mtf-signal-backtest/internal/errors"
)

func TestRecordRun(t *testing.T) {
	result := backtest.Result{
		Name:     "metrics-test-run",
		Duration: 3 * time.Millisecond,
		Trades: []backtest.Trade{
			{ExitReason: backtest.ExitTakeProfit},
			{ExitReason: backtest.ExitTakeProfit},
			{ExitReason: backtest.ExitStopLoss},
		},
	}

	RecordRun(result)
	RecordRun(result)

	assert.Equal(t, 2.0, testutil.ToFloat64(runsTotal.WithLabelValues("metrics-test-run")))
	assert.Equal(t, 4.0, testutil.ToFloat64(tradesTotal.WithLabelValues("metrics-test-run", "TAKE_PROFIT")))
	assert.Equal(t, 2.0, testutil.ToFloat64(tradesTotal.WithLabelValues("metrics-test-run", "STOP_LOSS")))
	assert.Equal(t, 0.0, testutil.ToFloat64(tradesTotal.WithLabelValues("metrics-test-run", "TIME_EXIT")))
}

func TestSetCandlesLoadedAndErrors(t *testing.T) {
	SetCandlesLoaded("TESTUSDT", "1h", 4200)
	assert.Equal(t, 4200.0, testutil.ToFloat64(candlesLoaded.WithLabelValues("TESTUSDT", "1h")))

	before := testutil.ToFloat64(errorsTotal.WithLabelValues("DATA"))
	RecordError(bterrors.NewDataError("csv", "open", errors.New("missing")))
	RecordError(nil)
	assert.Equal(t, before+1, testutil.ToFloat64(errorsTotal.WithLabelValues("DATA")))

	beforeExchange := testutil.ToFloat64(errorsTotal.WithLabelValues("EXCHANGE"))
	RecordError(errors.New("dial tcp 10.0.0.1:443: connection refused"))
	assert.Equal(t, beforeExchange+1, testutil.ToFloat64(errorsTotal.WithLabelValues("EXCHANGE")))

	beforeConfig := testutil.ToFloat64(errorsTotal.WithLabelValues("CONFIG"))
	RecordError(errors.New("yaml: unmarshal errors"))
	assert.Equal(t, beforeConfig+1, testutil.ToFloat64(errorsTotal.WithLabelValues("CONFIG")))
}

func TestMetricsEndpoint(t *testing.T) {
	RecordRun(backtest.Result{Name: "endpoint-run"})

	rec := httptest.NewRecorder()
	NewServeMux(NewStatusTracker()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `backtest_runs_total{strategy="endpoint-run"} 1`)
	assert.Contains(t, body, "backtest_run_duration_seconds_bucket")
}

// TestStatusTracker tests the sweep lifecycle as seen through /status
func TestStatusTracker(t *testing.T) {
	tracker := NewStatusTracker()
	assert.Equal(t, "idle", tracker.Snapshot().Status)

	tracker.Start(2)
	tracker.RunCompleted("a")
	snap := tracker.Snapshot()
	assert.Equal(t, "running", snap.Status)
	assert.Equal(t, 1, snap.Completed)
	assert.Equal(t, "a", snap.LastRun)

	tracker.RunCompleted("b")
	assert.Equal(t, "done", tracker.Snapshot().Status)

	rec := httptest.NewRecorder()
	NewServeMux(tracker).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))

	var decoded SweepStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, 2, decoded.Total)
	assert.Equal(t, "b", decoded.LastRun)

	tracker.RecordError(errors.New("exchange down"))
	rec = httptest.NewRecorder()
	tracker.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "exchange down")

	tracker.Start(1)
	assert.Equal(t, "running", tracker.Snapshot().Status)
	assert.Empty(t, tracker.Snapshot().Errors)
}
