package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ducminhle1904/mtf-signal-backtest/internal/backtest"
)

// Logger writes one backtest session to logs/<SYMBOL>_<interval>_<date>.log.
// It is safe for concurrent use by sweep workers.
type Logger struct {
	symbol   string
	interval string
	logFile  *os.File
	logger   *log.Logger
	mu       sync.Mutex
	logPath  string
	runs     int
}

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
	LogLevelTrade   LogLevel = "TRADE"
	LogLevelRun     LogLevel = "RUN"
)

// NewLogger creates a new file logger for the specified symbol and interval
// under logDir ("logs" when empty).
func NewLogger(logDir, symbol, interval string) (*Logger, error) {
	if logDir == "" {
		logDir = "logs"
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	symbol = strings.ToUpper(symbol)
	filename := fmt.Sprintf("%s_%s_%s.log", symbol, interval, time.Now().Format("2006-01-02"))
	logPath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := &Logger{
		symbol:   symbol,
		interval: interval,
		logFile:  file,
		logger:   log.New(file, "", 0),
		logPath:  logPath,
	}
	l.writeSessionHeader()

	return l, nil
}

func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
🚀 BACKTEST SESSION STARTED
================================================================================
Symbol: %s | Interval: %s
Started: %s
Log File: %s
================================================================================
`, l.symbol, l.interval, time.Now().Format("2006-01-02 15:04:05"), filepath.Base(l.logPath))

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.println(level, fmt.Sprintf(format, args...))
}

// println expects l.mu to be held
func (l *Logger) println(level LogLevel, message string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	l.logger.Printf("[%s] [%s] %s\n", timestamp, level, message)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// LogError logs error with context
func (l *Logger) LogError(context string, err error) {
	l.Error("%s: %v", context, err)
}

// LogTrade logs one closed trade of a strategy
func (l *Logger) LogTrade(strategyName string, t backtest.Trade) {
	l.Log(LogLevelTrade, "%s | %s @ %.4f -> %s @ %.4f | %s | %+.2f%% | %d bars | signals %s",
		strategyName,
		t.EntryTime.UTC().Format("2006-01-02 15:04"), t.EntryPrice,
		t.ExitTime.UTC().Format("2006-01-02 15:04"), t.ExitPrice,
		t.ExitReason, t.ProfitPct, t.HoldBars,
		strings.Join(t.Signals.ActiveNames(), "+"))
}

// LogRun logs the summary of a completed strategy run followed by its trades.
// It satisfies backtest.RunLogger.
func (l *Logger) LogRun(result backtest.Result) {
	rep := result.Report

	l.mu.Lock()
	l.runs++
	l.println(LogLevelRun, fmt.Sprintf("%s [%s] | %s | %s | required %d | %d bars | %v",
		result.Name, result.ID, result.Strategy.Describe(), result.Strategy.Exit,
		result.Strategy.RequiredSignals, result.Bars, result.Duration.Round(time.Microsecond)))
	l.println(LogLevelRun, fmt.Sprintf("%s | trades %d | win %.2f%% | avg %.2f%% | return %.2f%% | max dd %.2f%% | sharpe %.2f | pf %.2f",
		result.Name, rep.TotalTrades, rep.WinRate, rep.AvgProfit, rep.TotalReturn,
		rep.MaxDrawdown, rep.SharpeRatio, rep.ProfitFactor))
	l.mu.Unlock()

	for _, t := range result.Trades {
		l.LogTrade(result.Name, t)
	}
}

// Runs returns the number of runs logged so far
func (l *Logger) Runs() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.runs
}

// Close writes the session footer and closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile == nil {
		return nil
	}

	footer := fmt.Sprintf(`
================================================================================
🛑 BACKTEST SESSION ENDED
================================================================================
Runs: %d
Ended: %s
================================================================================

`, l.runs, time.Now().Format("2006-01-02 15:04:05"))
	l.logger.Print(footer)

	err := l.logFile.Close()
	l.logFile = nil
	return err
}

// GetLogPath returns the current log file path
func (l *Logger) GetLogPath() string {
	return l.logPath
}
