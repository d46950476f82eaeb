package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// StatusTracker reports sweep progress over HTTP next to /metrics
type StatusTracker struct {
	mu        sync.RWMutex
	startTime time.Time
	total     int
	completed int
	lastRun   string
	lastRunAt time.Time
	errors    []string
}

// SweepStatus is the JSON body served by StatusTracker
type SweepStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Total     int       `json:"total"`
	Completed int       `json:"completed"`
	LastRun   string    `json:"last_run,omitempty"`
	LastRunAt time.Time `json:"last_run_at,omitempty"`
	Uptime    string    `json:"uptime"`
	Errors    []string  `json:"errors,omitempty"`
}

// NewStatusTracker creates an idle tracker
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{
		startTime: time.Now(),
		errors:    make([]string, 0),
	}
}

// Start resets the tracker for a sweep of total runs
func (s *StatusTracker) Start(total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total = total
	s.completed = 0
	s.lastRun = ""
	s.errors = s.errors[:0]
}

// RunCompleted marks one run as finished
func (s *StatusTracker) RunCompleted(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed++
	s.lastRun = name
	s.lastRunAt = time.Now()
}

// RecordError keeps err for the status report
func (s *StatusTracker) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, err.Error())
}

// Snapshot returns the current status
func (s *StatusTracker) Snapshot() SweepStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := "idle"
	switch {
	case len(s.errors) > 0:
		status = "failed"
	case s.total > 0 && s.completed >= s.total:
		status = "done"
	case s.total > 0:
		status = "running"
	}

	return SweepStatus{
		Status:    status,
		Timestamp: time.Now(),
		Total:     s.total,
		Completed: s.completed,
		LastRun:   s.lastRun,
		LastRunAt: s.lastRunAt,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Errors:    append([]string(nil), s.errors...),
	}
}

// ServeHTTP answers 200 unless the sweep failed
func (s *StatusTracker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snapshot := s.Snapshot()

	w.Header().Set("Content-Type", "application/json")
	if snapshot.Status == "failed" {
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(snapshot)
}

// NewServeMux exposes /metrics and /status
func NewServeMux(status *StatusTracker) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", NewMetricsHandler())
	mux.Handle("/status", status)
	return mux
}
