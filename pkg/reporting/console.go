package reporting

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/mtf-signal-backtest/internal/backtest"
	"github.com/ducminhle1904/mtf-signal-backtest/internal/strategy"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/types"
)

// SampleTradeCount is the number of trades shown per run on the console
const SampleTradeCount = 5

// ConsoleReporter renders comparison tables
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter writes to out, or stdout when out is nil
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleReporter{out: out}
}

func (r *ConsoleReporter) newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	return t
}

// PrintDataSummary shows the candle range being tested
func (r *ConsoleReporter) PrintDataSummary(symbol, interval string, data []types.OHLCV) {
	t := r.newTable("DATA")
	t.AppendRows([]table.Row{
		{"📊 Symbol", symbol},
		{"⏰ Interval", interval},
		{"🕯️ Candles", len(data)},
	})
	if len(data) > 0 {
		first, last := data[0], data[len(data)-1]
		t.AppendSeparator()
		t.AppendRows([]table.Row{
			{"📅 From", first.Timestamp.UTC().Format("2006-01-02 15:04")},
			{"📅 To", last.Timestamp.UTC().Format("2006-01-02 15:04")},
			{"💲 Price", fmt.Sprintf("%.4f → %.4f", first.Close, last.Close)},
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 15, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, Align: text.AlignLeft},
	})
	t.Render()
	fmt.Fprintln(r.out)
}

// PrintComparison renders one row per result in input order
func (r *ConsoleReporter) PrintComparison(results []backtest.Result) {
	t := r.newTable("STRATEGY COMPARISON")
	t.AppendHeader(table.Row{"Strategy", "Group", "Trades", "Win %", "Avg %", "Return %", "Max DD %", "Sharpe", "PF", "Hold", "Trades/Mo"})
	for _, res := range results {
		rep := res.Report
		t.AppendRow(table.Row{
			res.Name,
			res.Strategy.Group,
			rep.TotalTrades,
			fmt.Sprintf("%.2f", rep.WinRate),
			fmt.Sprintf("%.2f", rep.AvgProfit),
			fmt.Sprintf("%.2f", rep.TotalReturn),
			fmt.Sprintf("%.2f", rep.MaxDrawdown),
			fmt.Sprintf("%.2f", rep.SharpeRatio),
			fmt.Sprintf("%.2f", rep.ProfitFactor),
			fmt.Sprintf("%.1f", rep.AvgHoldBars),
			fmt.Sprintf("%.1f", rep.TradesPerMonth),
		})
	}
	numeric := make([]table.ColumnConfig, 0, 9)
	for col := 3; col <= 11; col++ {
		numeric = append(numeric, table.ColumnConfig{Number: col, Align: text.AlignRight})
	}
	t.SetColumnConfigs(numeric)
	t.Render()
	fmt.Fprintln(r.out)
}

// PrintSampleTrades shows the first SampleTradeCount trades of a run
func (r *ConsoleReporter) PrintSampleTrades(result backtest.Result) {
	t := r.newTable(fmt.Sprintf("SAMPLE TRADES: %s", result.Name))
	t.AppendHeader(table.Row{"#", "Entry", "Entry Price", "Exit", "Exit Price", "Reason", "Profit %", "Bars", "Signals"})
	for i, trade := range result.Trades {
		if i == SampleTradeCount {
			break
		}
		t.AppendRow(table.Row{
			i + 1,
			trade.EntryTime.UTC().Format("2006-01-02 15:04"),
			fmt.Sprintf("%.4f", trade.EntryPrice),
			trade.ExitTime.UTC().Format("2006-01-02 15:04"),
			fmt.Sprintf("%.4f", trade.ExitPrice),
			trade.ExitReason.String(),
			fmt.Sprintf("%+.2f", trade.ProfitPct),
			trade.HoldBars,
			strings.Join(trade.Signals.ActiveNames(), "+"),
		})
	}
	if len(result.Trades) == 0 {
		t.AppendRow(table.Row{"-", "no trades"})
	}
	t.Render()
	fmt.Fprintln(r.out)
}

// PrintSummary prints the best combination runs and the recommendation
func (r *ConsoleReporter) PrintSummary(results []backtest.Result) {
	combos := backtest.FilterGroup(results, strategy.GroupCombination)

	t := r.newTable("BEST COMBINATIONS")
	for _, by := range []backtest.RankBy{backtest.ByWinRate, backtest.BySharpe, backtest.ByTotalReturn} {
		best, ok := backtest.Best(combos, by)
		if !ok {
			continue
		}
		t.AppendRow(table.Row{bestLabel(by), best.Name, fmt.Sprintf("win %.2f%% | sharpe %.2f | return %.2f%%",
			best.Report.WinRate, best.Report.SharpeRatio, best.Report.TotalReturn)})
	}

	if rec, ok := RecommendationFor(results); ok {
		t.AppendSeparator()
		t.AppendRow(table.Row{"💡 Recommendation", rec.String(), ""})
	}
	t.Render()
	fmt.Fprintln(r.out)
}

// RecommendationFor compares the all-signals and two-of-three runs when both are present
func RecommendationFor(results []backtest.Result) (backtest.Recommendation, bool) {
	all, okAll := backtest.FindByName(results, strategy.NameAllSignals)
	two, okTwo := backtest.FindByName(results, strategy.NameTwoOfThree)
	if !okAll || !okTwo {
		return backtest.RecommendAdjust, false
	}
	return backtest.Recommend(all.Report, two.Report), true
}

func bestLabel(by backtest.RankBy) string {
	switch by {
	case backtest.BySharpe:
		return "📊 Best Sharpe"
	case backtest.ByTotalReturn:
		return "📈 Best Return"
	default:
		return "🎯 Best Win Rate"
	}
}
