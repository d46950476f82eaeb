package data

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"

	bterrors "github.com/ducminhle1904/mtf-signal-backtest/internal/errors"
	"github.com/ducminhle1904/mtf-signal-backtest/internal/exchange/bybit"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/types"
)

// KlineFetcher returns one page of klines, newest first
type KlineFetcher interface {
	GetKlines(ctx context.Context, params bybit.KlineParams) ([]bybit.Kline, error)
}

// BybitProviderConfig controls paginated history downloads
type BybitProviderConfig struct {
	Category          string
	Interval          string
	Pages             int
	Limit             int
	RequestsPerSecond float64
}

// DefaultBybitProviderConfig fetches up to five pages of 1000 hourly spot
// candles, one request every 200ms.
func DefaultBybitProviderConfig() BybitProviderConfig {
	return BybitProviderConfig{
		Category:          "spot",
		Interval:          "1h",
		Pages:             5,
		Limit:             bybit.MaxKlineLimit,
		RequestsPerSecond: 5,
	}
}

// BybitProvider implements DataProvider by downloading klines. The source
// passed to LoadData is the symbol.
type BybitProvider struct {
	fetcher  KlineFetcher
	config   BybitProviderConfig
	interval bybit.KlineInterval
	limiter  *rate.Limiter
	filter   *DefaultDataFilter
}

// NewBybitProvider creates a provider. Zero config fields take defaults.
func NewBybitProvider(fetcher KlineFetcher, config BybitProviderConfig) (*BybitProvider, error) {
	defaults := DefaultBybitProviderConfig()
	if config.Category == "" {
		config.Category = defaults.Category
	}
	if config.Interval == "" {
		config.Interval = defaults.Interval
	}
	if config.Pages <= 0 {
		config.Pages = defaults.Pages
	}
	if config.Limit <= 0 || config.Limit > bybit.MaxKlineLimit {
		config.Limit = defaults.Limit
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = defaults.RequestsPerSecond
	}

	interval, err := types.BybitInterval(config.Interval)
	if err != nil {
		return nil, bterrors.NewConfigurationError("bybit_provider", "new", err.Error()).
			WithContext("interval", config.Interval)
	}

	return &BybitProvider{
		fetcher:  fetcher,
		config:   config,
		interval: bybit.KlineInterval(interval),
		limiter:  rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		filter:   NewDefaultDataFilter(),
	}, nil
}

// GetName returns the name of the data provider
func (p *BybitProvider) GetName() string {
	return "Bybit Provider"
}

// LoadData downloads history for symbol
func (p *BybitProvider) LoadData(source string) ([]types.OHLCV, error) {
	return p.Fetch(context.Background(), source)
}

// ValidateData validates the integrity of the loaded data
func (p *BybitProvider) ValidateData(data []types.OHLCV) error {
	return validateSeries(data)
}

// Fetch walks backwards from the latest candle, one page per request, until
// the page budget is spent or the exchange returns an empty page. The result
// is ascending with duplicates removed.
func (p *BybitProvider) Fetch(ctx context.Context, symbol string) ([]types.OHLCV, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, bterrors.NewValidationError("bybit_provider", "fetch", "symbol is required")
	}

	log.Printf("📡 Fetching %s %s klines from Bybit (%d pages max)", symbol, p.config.Interval, p.config.Pages)

	var candles []types.OHLCV
	var end *time.Time
	for page := 0; page < p.config.Pages; page++ {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		klines, err := p.fetcher.GetKlines(ctx, bybit.KlineParams{
			Category: p.config.Category,
			Symbol:   symbol,
			Interval: p.interval,
			End:      end,
			Limit:    p.config.Limit,
		})
		if err != nil {
			return nil, bterrors.NewExchangeError("bybit_provider", "fetch", err).
				WithContext("symbol", symbol).
				WithContext("page", page+1)
		}
		if len(klines) == 0 {
			break
		}

		oldest := klines[0].StartTime
		for _, k := range klines {
			candles = append(candles, k.ToOHLCV())
			if k.StartTime.Before(oldest) {
				oldest = k.StartTime
			}
		}
		log.Printf("   page %d: %d candles, oldest %s", page+1, len(klines), oldest.Format(time.RFC3339))

		if end != nil && !oldest.Before(*end) {
			break
		}
		next := oldest.Add(-time.Millisecond)
		end = &next
	}

	if len(candles) == 0 {
		return nil, bterrors.NewDataError("bybit_provider", "fetch", fmt.Errorf("no klines returned for %s", symbol))
	}

	candles = p.filter.Normalize(candles)
	log.Printf("✅ Downloaded %d candles for %s", len(candles), symbol)
	return candles, nil
}
