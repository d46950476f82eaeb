package main

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/mtf-signal-backtest/pkg/config"
)

func parseFlags(t *testing.T, args ...string) *Flags {
	t.Helper()
	fs := flag.NewFlagSet("backtest", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := NewFlags(fs)
	require.NoError(t, fs.Parse(args))
	return f
}

func TestResolveSymbol(t *testing.T) {
	assert.Equal(t, "BTCUSDT", ResolveSymbol("btc"))
	assert.Equal(t, "ETHUSDT", ResolveSymbol(" ETH "))
	assert.Equal(t, "SOLUSDT", ResolveSymbol("solusdt"))
}

func TestValidateFlags(t *testing.T) {
	require.NoError(t, ValidateFlags(parseFlags(t)))

	tests := []struct {
		name string
		args []string
	}{
		{"bad interval", []string{"-interval", "7x"}},
		{"bad source", []string{"-source", "ftp"}},
		{"zero pages", []string{"-pages", "0"}},
		{"negative workers", []string{"-workers", "-1"}},
		{"bad htf mode", []string{"-htf-mode", "maybe"}},
		{"bad ranking", []string{"-rank-by", "luck"}},
		{"bad period", []string{"-period", "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateFlags(parseFlags(t, tt.args...)))
		})
	}
}

// TestApplyTo_NoConfigFile tests that every flag applies without a suite file
func TestApplyTo_NoConfigFile(t *testing.T) {
	f := parseFlags(t, "-symbol", "eth", "-interval", "4h", "-htf-mode", "confirm", "-period", "30d")

	cfg := config.NewDefaultSuiteConfig()
	f.ApplyTo(cfg, false)

	assert.Equal(t, "ETHUSDT", cfg.Backtest.Symbol)
	assert.Equal(t, "4h", cfg.Backtest.Interval)
	assert.Equal(t, "confirm", cfg.Backtest.HTFMode)
	assert.Equal(t, "30d", cfg.Backtest.Period)
	assert.Equal(t, config.DefaultWorkers, cfg.Backtest.Workers)
	assert.Equal(t, "win_rate", cfg.Backtest.RankBy)
	assert.Empty(t, cfg.Backtest.OutputDir)
}

// TestApplyTo_ConfigFile tests that only explicit flags override file settings
func TestApplyTo_ConfigFile(t *testing.T) {
	cfg, err := config.Parse([]byte("backtest:\n  symbol: SOLUSDT\n  interval: 15m\n  workers: 2\n"))
	require.NoError(t, err)

	f := parseFlags(t, "-workers", "8", "-out", "tmp/out")
	f.ApplyTo(cfg, true)

	assert.Equal(t, "SOLUSDT", cfg.Backtest.Symbol)
	assert.Equal(t, "15m", cfg.Backtest.Interval)
	assert.Equal(t, 8, cfg.Backtest.Workers)
	assert.Equal(t, "tmp/out", cfg.Backtest.OutputDir)
	assert.True(t, f.IsSet("workers"))
	assert.False(t, f.IsSet("symbol"))
}
