package reporting

import (
	"encoding/json"
	"os"

	"github.com/ducminhle1904/mtf-signal-backtest/internal/backtest"
	bterrors "github.com/ducminhle1904/mtf-signal-backtest/internal/errors"
)

// ResultDocument is the JSON form of a run, with the strategy flattened to
// readable fields.
type ResultDocument struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Group           string           `json:"group"`
	Conditions      string           `json:"conditions"`
	Exit            string           `json:"exit"`
	RequiredSignals int              `json:"required_signals"`
	Bars            int              `json:"bars"`
	Report          backtest.Report  `json:"report"`
	Trades          []backtest.Trade `json:"trades"`
}

// ResultsFile is the top level of results.json
type ResultsFile struct {
	Symbol         string           `json:"symbol"`
	Interval       string           `json:"interval"`
	Recommendation string           `json:"recommendation,omitempty"`
	Results        []ResultDocument `json:"results"`
}

// NewResultsFile builds the JSON document for a sweep
func NewResultsFile(symbol, interval string, results []backtest.Result) ResultsFile {
	doc := ResultsFile{
		Symbol:   symbol,
		Interval: interval,
		Results:  make([]ResultDocument, 0, len(results)),
	}
	if rec, ok := RecommendationFor(results); ok {
		doc.Recommendation = rec.String()
	}
	for _, res := range results {
		trades := res.Trades
		if trades == nil {
			trades = []backtest.Trade{}
		}
		doc.Results = append(doc.Results, ResultDocument{
			ID:              res.ID,
			Name:            res.Name,
			Group:           res.Strategy.Group,
			Conditions:      res.Strategy.Describe(),
			Exit:            res.Strategy.Exit.String(),
			RequiredSignals: res.Strategy.RequiredSignals,
			Bars:            res.Bars,
			Report:          res.Report,
			Trades:          trades,
		})
	}
	return doc
}

// WriteResultsJSON writes the sweep as indented JSON
func WriteResultsJSON(symbol, interval string, results []backtest.Result, path string) error {
	data, err := json.MarshalIndent(NewResultsFile(symbol, interval, results), "", "  ")
	if err != nil {
		return bterrors.NewReportError("json", "write_results", err)
	}
	if err := ensureParentDir(path); err != nil {
		return bterrors.NewReportError("json", "write_results", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return bterrors.NewReportError("json", "write_results", err).WithContext("file", path)
	}
	return nil
}
