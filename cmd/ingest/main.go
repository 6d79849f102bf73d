package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"history_backend/internal/app/di"
	"history_backend/internal/feature/bars/domain/entity"
	infradb "history_backend/internal/platform/db"
	"history_backend/internal/platform/logging"
)

func main() {
	ticker := flag.String("ticker", "", "ticker symbol to ingest (e.g. IBM)")
	start := flag.String("start", "", "first month, YYYY-MM")
	end := flag.String("end", "", "last month, YYYY-MM (defaults to -start)")
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}
	logging.SetupFromEnv()

	if *ticker == "" || *start == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *end == "" {
		*end = *start
	}
	startMonth, err := entity.ParseMonthKey(*start)
	if err != nil {
		log.Fatal(err)
	}
	endMonth, err := entity.ParseMonthKey(*end)
	if err != nil {
		log.Fatal(err)
	}

	settings, err := di.LoadSettings()
	if err != nil {
		log.Fatalf("invalid settings: %v", err)
	}
	db, err := infradb.Open(infradb.LoadConfigFromEnv())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	market, marketCfg, err := di.NewMarket()
	if err != nil {
		log.Fatalf("failed to configure market data client: %v", err)
	}
	// CLI ではキャッシュを使わない
	c := di.NewContainer(db, nil, market, marketCfg.Location, settings)

	// Ctrl-C で中断するとトランザクションはロールバックされる
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := c.Ingest.Ingest(ctx, strings.ToUpper(strings.TrimSpace(*ticker)), startMonth, endMonth)
	if err != nil {
		log.Fatal(err)
	}
	slog.Info("ingest ok", "ticker", res.Ticker, "months", len(res.Months), "minute_bars", res.MinuteBars,
		"daily_bars", res.DailyBars, "remaining_calls", res.Remaining)
}
