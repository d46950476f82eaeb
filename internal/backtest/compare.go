package backtest

import (
	"fmt"
	"strings"
)

// RankBy selects the statistic used to pick the best result
type RankBy int

const (
	ByWinRate RankBy = iota
	BySharpe
	ByTotalReturn
)

func (r RankBy) String() string {
	switch r {
	case ByWinRate:
		return "win_rate"
	case BySharpe:
		return "sharpe"
	case ByTotalReturn:
		return "total_return"
	default:
		return "unknown"
	}
}

// ParseRankBy parses "win_rate", "sharpe" or "total_return"
func ParseRankBy(s string) (RankBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "win_rate", "winrate":
		return ByWinRate, nil
	case "sharpe":
		return BySharpe, nil
	case "total_return", "return":
		return ByTotalReturn, nil
	default:
		return ByWinRate, fmt.Errorf("unknown ranking %q", s)
	}
}

func (r RankBy) value(rep Report) float64 {
	switch r {
	case BySharpe:
		return rep.SharpeRatio
	case ByTotalReturn:
		return rep.TotalReturn
	default:
		return rep.WinRate
	}
}

// Best returns the result with the highest statistic. On ties the later
// result wins. ok is false for an empty slice.
func Best(results []Result, by RankBy) (best Result, ok bool) {
	for i, r := range results {
		if i == 0 || by.value(r.Report) >= by.value(best.Report) {
			best = r
			ok = true
		}
	}
	return best, ok
}

// FilterGroup returns the results whose strategy belongs to group
func FilterGroup(results []Result, group string) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Strategy.Group == group {
			out = append(out, r)
		}
	}
	return out
}

// FindByName returns the first result with the given strategy name
func FindByName(results []Result, name string) (Result, bool) {
	for _, r := range results {
		if r.Name == name {
			return r, true
		}
	}
	return Result{}, false
}

// Recommendation is the suggested number of required signals
type Recommendation int

const (
	RecommendAllSignals Recommendation = iota
	RecommendTwoSignals
	RecommendAdjust
)

func (r Recommendation) String() string {
	switch r {
	case RecommendAllSignals:
		return "Use all 3 conditions (high win rate and stability)"
	case RecommendTwoSignals:
		return "Use 2 of 3 conditions (balanced entry frequency and win rate)"
	default:
		return "Adjust the number of required conditions to market conditions"
	}
}

// Recommend compares the all-signals and two-of-three runs. All signals are
// preferred above 55% win rate with more than 10 trades; two of three when it
// adds more than 50% extra trades while keeping win rate above 50%.
func Recommend(all, two Report) Recommendation {
	if all.WinRate > 55 && all.TotalTrades > 10 {
		return RecommendAllSignals
	}
	extraTrades := float64(two.TotalTrades - all.TotalTrades)
	if extraTrades > float64(all.TotalTrades)*0.5 && two.WinRate > 50 {
		return RecommendTwoSignals
	}
	return RecommendAdjust
}
