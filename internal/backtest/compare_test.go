package backtest

import (
	"testing"

	"github.com/ducminhle1904/mtf-signal-backtest/internal/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultWith(name, group string, rep Report) Result {
	return Result{Name: name, Strategy: strategy.Strategy{Name: name, Group: group}, Report: rep}
}

func TestBest(t *testing.T) {
	results := []Result{
		resultWith("a", strategy.GroupCombination, Report{WinRate: 60, SharpeRatio: 1.2, TotalReturn: 4}),
		resultWith("b", strategy.GroupCombination, Report{WinRate: 55, SharpeRatio: 2.5, TotalReturn: 3}),
		resultWith("c", strategy.GroupCombination, Report{WinRate: 60, SharpeRatio: 0.4, TotalReturn: 9}),
	}

	best, ok := Best(results, ByWinRate)
	require.True(t, ok)
	assert.Equal(t, "c", best.Name, "ties go to the later result")

	best, _ = Best(results, BySharpe)
	assert.Equal(t, "b", best.Name)

	best, _ = Best(results, ByTotalReturn)
	assert.Equal(t, "c", best.Name)

	_, ok = Best(nil, ByWinRate)
	assert.False(t, ok)
}

func TestFilterGroupAndFind(t *testing.T) {
	results := []Result{
		resultWith("All 3 Signals", strategy.GroupCombination, Report{}),
		resultWith("RSI < 20", strategy.GroupRSI, Report{}),
		resultWith("CCI + RSI", strategy.GroupCombination, Report{}),
	}

	combos := FilterGroup(results, strategy.GroupCombination)
	require.Len(t, combos, 2)
	assert.Equal(t, "CCI + RSI", combos[1].Name)

	r, ok := FindByName(results, "RSI < 20")
	assert.True(t, ok)
	assert.Equal(t, strategy.GroupRSI, r.Strategy.Group)

	_, ok = FindByName(results, "missing")
	assert.False(t, ok)
}

func TestParseRankBy(t *testing.T) {
	r, err := ParseRankBy("Sharpe")
	require.NoError(t, err)
	assert.Equal(t, BySharpe, r)
	assert.Equal(t, "total_return", ByTotalReturn.String())

	_, err = ParseRankBy("profit")
	assert.Error(t, err)
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name string
		all  Report
		two  Report
		want Recommendation
	}{
		{
			name: "strong all-signal run",
			all:  Report{WinRate: 60, TotalTrades: 12},
			two:  Report{WinRate: 70, TotalTrades: 40},
			want: RecommendAllSignals,
		},
		{
			name: "too few all-signal trades, two of three adds frequency",
			all:  Report{WinRate: 80, TotalTrades: 4},
			two:  Report{WinRate: 52, TotalTrades: 7},
			want: RecommendTwoSignals,
		},
		{
			name: "two of three below 50 percent",
			all:  Report{WinRate: 40, TotalTrades: 20},
			two:  Report{WinRate: 49, TotalTrades: 60},
			want: RecommendAdjust,
		},
		{
			name: "not enough extra trades",
			all:  Report{WinRate: 40, TotalTrades: 20},
			two:  Report{WinRate: 60, TotalTrades: 30},
			want: RecommendAdjust,
		},
		{
			name: "no trades anywhere",
			want: RecommendAdjust,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Recommend(tt.all, tt.two))
		})
	}
}
