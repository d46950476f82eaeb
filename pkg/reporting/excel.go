package reporting

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/mtf-signal-backtest/internal/backtest"
	bterrors "github.com/ducminhle1904/mtf-signal-backtest/internal/errors"
)

// Sheet names in results.xlsx
const (
	SummarySheet = "Summary"
	TradesSheet  = "Trades"
)

var summaryHeaders = []string{
	"Strategy", "Group", "Conditions", "Exit", "Required", "Trades", "Wins", "Losses",
	"Win %", "Avg %", "Avg Win %", "Avg Loss %", "Return %", "Max DD %", "Sharpe", "PF", "Avg Hold", "Trades/Mo",
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle      int
	BaseStyle        int
	NumberStyle      int
	GreenNumberStyle int
	RedNumberStyle   int
	HighlightStyle   int
}

// WriteResultsXLSX writes a workbook with a Summary sheet (one row per run)
// and a Trades sheet (one row per trade).
func WriteResultsXLSX(results []backtest.Result, path string) error {
	if err := ensureParentDir(path); err != nil {
		return bterrors.NewReportError("excel", "write_results", err)
	}

	fx := excelize.NewFile()
	defer fx.Close()

	if err := fx.SetSheetName(fx.GetSheetName(0), SummarySheet); err != nil {
		return bterrors.NewReportError("excel", "write_results", err)
	}
	if _, err := fx.NewSheet(TradesSheet); err != nil {
		return bterrors.NewReportError("excel", "write_results", err)
	}

	styles, err := createExcelStyles(fx)
	if err != nil {
		return bterrors.NewReportError("excel", "styles", err)
	}
	if err := writeSummarySheet(fx, results, styles); err != nil {
		return bterrors.NewReportError("excel", "summary_sheet", err)
	}
	if err := writeTradesSheet(fx, results, styles); err != nil {
		return bterrors.NewReportError("excel", "trades_sheet", err)
	}

	if err := fx.SaveAs(path); err != nil {
		return bterrors.NewReportError("excel", "save", err).WithContext("file", path)
	}
	return nil
}

func createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	border := []excelize.Border{
		{Type: "left", Color: "E0E0E0", Style: 1},
		{Type: "right", Color: "E0E0E0", Style: 1},
		{Type: "bottom", Color: "E0E0E0", Style: 1},
	}

	// Dark slate header with white text
	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF", Family: "Calibri"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	styles.BaseStyle, err = fx.NewStyle(&excelize.Style{Border: border})
	if err != nil {
		return styles, err
	}

	styles.NumberStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    2, // 0.00
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	styles.GreenNumberStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    2,
		Font:      &excelize.Font{Color: "008000"},
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	styles.RedNumberStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    2,
		Font:      &excelize.Font{Color: "CC0000"},
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	styles.HighlightStyle, err = fx.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
		Border: border,
	})
	return styles, err
}

func writeHeader(fx *excelize.File, sheet string, headers []string, styles ExcelStyles) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, "A1", last, styles.HeaderStyle); err != nil {
		return err
	}
	return fx.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

// setRow writes values starting at column 1. Float cells are styled green
// or red by sign; other cells use the base style.
func setRow(fx *excelize.File, sheet string, row int, values []interface{}, styles ExcelStyles, signed map[int]bool) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, cell, v); err != nil {
			return err
		}

		style := styles.BaseStyle
		if f, ok := v.(float64); ok {
			style = styles.NumberStyle
			if signed[i] {
				switch {
				case f > 0:
					style = styles.GreenNumberStyle
				case f < 0:
					style = styles.RedNumberStyle
				}
			}
		}
		if err := fx.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(fx *excelize.File, results []backtest.Result, styles ExcelStyles) error {
	if err := writeHeader(fx, SummarySheet, summaryHeaders, styles); err != nil {
		return err
	}

	// Avg %, Avg Win %, Avg Loss % and Return % are colored by sign
	signed := map[int]bool{9: true, 10: true, 11: true, 12: true}
	for i, res := range results {
		rep := res.Report
		row := []interface{}{
			res.Name,
			res.Strategy.Group,
			res.Strategy.Describe(),
			res.Strategy.Exit.String(),
			res.Strategy.RequiredSignals,
			rep.TotalTrades,
			rep.WinningTrades,
			rep.LosingTrades,
			rep.WinRate,
			rep.AvgProfit,
			rep.AvgWin,
			rep.AvgLoss,
			rep.TotalReturn,
			rep.MaxDrawdown,
			rep.SharpeRatio,
			rep.ProfitFactor,
			rep.AvgHoldBars,
			rep.TradesPerMonth,
		}
		if err := setRow(fx, SummarySheet, i+2, row, styles, signed); err != nil {
			return err
		}
	}

	if rec, ok := RecommendationFor(results); ok {
		row := len(results) + 3
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(SummarySheet, cell, "Recommendation: "+rec.String()); err != nil {
			return err
		}
		if err := fx.SetCellStyle(SummarySheet, cell, cell, styles.HighlightStyle); err != nil {
			return err
		}
	}

	if err := fx.SetColWidth(SummarySheet, "A", "A", 18); err != nil {
		return err
	}
	if err := fx.SetColWidth(SummarySheet, "C", "D", 40); err != nil {
		return err
	}
	return fx.SetColWidth(SummarySheet, "E", "R", 11)
}

func writeTradesSheet(fx *excelize.File, results []backtest.Result, styles ExcelStyles) error {
	if err := writeHeader(fx, TradesSheet, tradeHeaders, styles); err != nil {
		return err
	}

	// Profit_% is colored by sign
	signed := map[int]bool{8: true}
	row := 2
	for _, res := range results {
		for _, t := range res.Trades {
			values := []interface{}{
				res.Name,
				t.EntryIndex,
				t.EntryTime.UTC().Format("2006-01-02 15:04:05"),
				t.EntryPrice,
				t.ExitIndex,
				t.ExitTime.UTC().Format("2006-01-02 15:04:05"),
				t.ExitPrice,
				t.ExitReason.String(),
				t.ProfitPct,
				t.HoldBars,
				strings.Join(t.Signals.ActiveNames(), "+"),
			}
			if err := setRow(fx, TradesSheet, row, values, styles, signed); err != nil {
				return err
			}
			row++
		}
	}

	if err := fx.SetColWidth(TradesSheet, "A", "A", 18); err != nil {
		return err
	}
	return fx.SetColWidth(TradesSheet, "B", "K", 14)
}
