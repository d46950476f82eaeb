package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/mtf-signal-backtest/internal/exchange/bybit"
	"github.com/ducminhle1904/mtf-signal-backtest/pkg/data"
)

func main() {
	var (
		symbol     = flag.String("symbol", "BTCUSDT", "Trading symbol (e.g. BTCUSDT)")
		interval   = flag.String("interval", "1h", "Kline interval (5m, 15m, 1h, 4h, 1d or Bybit codes 60, 240, D)")
		category   = flag.String("category", "spot", "Market category (spot, linear, inverse)")
		symbols    = flag.String("symbols", "", "Comma-separated list of symbols (overrides -symbol if provided)")
		intervals  = flag.String("intervals", "", "Comma-separated list of intervals (overrides -interval if provided)")
		categories = flag.String("categories", "", "Comma-separated list of categories (overrides -category if provided)")
		dataRoot   = flag.String("data-root", "data", "Root directory of the data layout")
		output     = flag.String("output", "", "Explicit output file path (only for single symbol/interval/category)")
		pages      = flag.Int("pages", 10, "Pages of klines to fetch, newest first")
		limit      = flag.Int("limit", bybit.MaxKlineLimit, "Number of klines per request (max 1000)")
		rps        = flag.Float64("rps", 5, "Requests per second")
		envFile    = flag.String("env", ".env", "Environment file with BYBIT_API_KEY/BYBIT_API_SECRET")
	)
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("ℹ️ No %s file loaded, using process environment", *envFile)
	}

	symList := splitList(*symbols, *symbol, strings.ToUpper)
	intList := splitList(*intervals, *interval, strings.TrimSpace)
	catList := splitList(*categories, *category, strings.ToLower)

	singleMode := len(symList) == 1 && len(intList) == 1 && len(catList) == 1
	if *output != "" && !singleMode {
		log.Fatalf("❌ -output requires a single symbol, interval and category")
	}

	fmt.Println("🚀 Bybit Historical Data Downloader")
	fmt.Println("====================================")
	fmt.Printf("📊 Categories: %s\n", strings.Join(catList, ", "))
	fmt.Printf("🎯 Symbols: %s\n", strings.Join(symList, ", "))
	fmt.Printf("⏱️  Intervals: %s\n", strings.Join(intList, ", "))
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := bybit.NewClient(bybit.Config{
		APIKey:    os.Getenv("BYBIT_API_KEY"),
		APISecret: os.Getenv("BYBIT_API_SECRET"),
	})
	locator := data.NewDefaultFileLocator()

	failed := 0
	for _, cat := range catList {
		for _, sym := range symList {
			for _, ival := range intList {
				path := *output
				if path == "" {
					path = locator.DataFilePath(*dataRoot, "bybit", cat, sym, ival)
				}
				cfg := data.BybitProviderConfig{
					Category:          cat,
					Interval:          ival,
					Pages:             *pages,
					Limit:             *limit,
					RequestsPerSecond: *rps,
				}
				if err := downloadOne(ctx, client, cfg, sym, path); err != nil {
					log.Printf("❌ Failed to download %s %s %s: %v", cat, sym, ival, err)
					failed++
				}
				if ctx.Err() != nil {
					log.Fatalf("❌ Interrupted")
				}
			}
		}
	}

	if failed > 0 {
		log.Fatalf("❌ %d download(s) failed", failed)
	}
	fmt.Println("\n🎉 All downloads completed!")
}

func downloadOne(ctx context.Context, fetcher data.KlineFetcher, cfg data.BybitProviderConfig, symbol, path string) error {
	fmt.Printf("\n📊 Downloading %s %s data for %s\n", cfg.Category, cfg.Interval, symbol)
	fmt.Printf("📁 Output: %s\n", path)

	provider, err := data.NewBybitProvider(fetcher, cfg)
	if err != nil {
		return err
	}
	candles, err := provider.Fetch(ctx, symbol)
	if err != nil {
		return err
	}
	if err := data.SaveCSV(path, candles); err != nil {
		return err
	}

	first, last := candles[0], candles[len(candles)-1]
	fmt.Printf("💾 Saved %d candles\n", len(candles))
	fmt.Printf("  First: %s\n", first.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Last:  %s\n", last.Timestamp.Format("2006-01-02 15:04:05"))
	return nil
}

// splitList returns the comma-separated values of list, or fallback when list is blank
func splitList(list, fallback string, normalize func(string) string) []string {
	if strings.TrimSpace(list) == "" {
		return []string{normalize(strings.TrimSpace(fallback))}
	}
	var out []string
	for _, item := range strings.Split(list, ",") {
		if v := normalize(strings.TrimSpace(item)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
