// Package main is the entry point for the fill simulation engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tathienbao/fillsim/internal/backtest"
	"github.com/tathienbao/fillsim/internal/config"
	"github.com/tathienbao/fillsim/internal/feed"
	"github.com/tathienbao/fillsim/internal/fill"
	"github.com/tathienbao/fillsim/internal/metrics"
	"github.com/tathienbao/fillsim/internal/persistence"
)

// Version information (set by build flags).
var (
	Version   = "0.2.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Parse command
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version", "-v", "--version":
		cmdVersion()
	case "help", "-h", "--help":
		printUsage()
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "validate":
		cmdValidate(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Fillsim - Deterministic Order Fill Simulation Engine

Usage:
  fillsim <command> [options]

Commands:
  simulate   Replay market data against an orders file
  validate   Validate configuration file
  version    Show version information
  help       Show this help message

Examples:
  fillsim simulate --config config.yaml --orders orders.yaml
  fillsim simulate --config config.yaml --orders orders.yaml --data data/MES_5m.csv
  fillsim validate --config config.yaml

Use "fillsim <command> --help" for more information about a command.`)
}

func cmdVersion() {
	fmt.Printf("fillsim version %s\n", Version)
	fmt.Printf("  Build time: %s\n", BuildTime)
	fmt.Printf("  Git commit: %s\n", GitCommit)
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to configuration file")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration is valid!")
	fmt.Printf("  Instruments: %d\n", len(cfg.Instruments))
	for _, inst := range cfg.Instruments {
		fmt.Printf("    %s (tick size %s)\n", inst.Symbol, inst.TickSize)
	}
	fmt.Printf("  Open window: %s\n", cfg.OpenWindow())
	fmt.Printf("  Close window: %s\n", cfg.CloseWindow())
	fmt.Printf("  Staleness threshold: %s\n", cfg.StalenessThreshold())
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to configuration file")
	ordersPath := fs.String("orders", "", "Path to orders YAML file (required)")
	dataPath := fs.String("data", "", "Path to CSV data file (overrides config)")
	symbol := fs.String("symbol", "", "Instrument symbol (overrides config)")
	verbose := fs.Bool("verbose", false, "Verbose output")
	fs.Parse(args)

	if *ordersPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --orders is required")
		fs.Usage()
		os.Exit(1)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	sym := cfg.Backtest.Symbol
	if *symbol != "" {
		sym = *symbol
	}
	data := cfg.Backtest.Data
	if *dataPath != "" {
		data = *dataPath
	}
	if sym == "" || data == "" {
		slog.Error("simulate needs a symbol and a data file, via config or flags")
		os.Exit(1)
	}

	spec, ok := cfg.InstrumentSpec(sym)
	if !ok {
		slog.Error("symbol is not a configured instrument", "symbol", sym)
		os.Exit(1)
	}

	hrs, err := cfg.BuildHours()
	if err != nil {
		slog.Error("failed to build session hours", "err", err)
		os.Exit(1)
	}

	orders, err := loadOrders(*ordersPath)
	if err != nil {
		slog.Error("failed to load orders", "err", err)
		os.Exit(1)
	}

	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recorder := metrics.NewRecorder()
	recorder.SetBuildInfo(Version)

	dataFeed := feed.NewCSVFeed(data, sym, cfg.BarPeriod())

	var repo persistence.Repository
	var journal *persistence.SQLiteRepository
	if cfg.Persistence.Enabled {
		journal, err = persistence.NewSQLiteRepository(cfg.Persistence.Path)
		if err != nil {
			slog.Error("failed to open fill journal", "err", err)
			os.Exit(1)
		}
		defer func() { _ = journal.Close() }()
		repo = journal
	}

	var server *metrics.Server
	if cfg.Metrics.Enabled {
		serverCfg := metrics.DefaultServerConfig()
		serverCfg.Port = cfg.Metrics.Port
		serverCfg.MetricsPath = cfg.Metrics.Path
		server = metrics.NewServer(serverCfg, logger)
		server.RegisterHealthCheck("feed", metrics.FeedCheck(dataFeed))
		if journal != nil {
			server.RegisterHealthCheck("journal", metrics.JournalCheck(journal))
		}
		if err := server.Start(); err != nil {
			slog.Error("failed to start metrics server", "err", err)
			os.Exit(1)
		}
	}

	runner := backtest.NewRunner(backtest.Config{
		Symbol:        sym,
		Spec:          spec,
		Hours:         hrs,
		Subscriptions: cfg.BuildSubscriptions(),
		Model: fill.Config{
			OpenWindow:         cfg.OpenWindow(),
			CloseWindow:        cfg.CloseWindow(),
			StalenessThreshold: cfg.StalenessThreshold(),
		},
		PacePerSec: cfg.Backtest.PacePerSec,
	}, dataFeed, recorder, repo, logger)

	slog.Info("starting simulation",
		"version", Version,
		"symbol", sym,
		"data", data,
		"orders", len(orders),
	)

	result, err := runner.Run(ctx, orders)
	if err != nil {
		slog.Error("simulation failed", "err", err)
		os.Exit(1)
	}

	printResult(result)

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown error", "err", err)
		}
	}
}

func printResult(result *backtest.Result) {
	fmt.Println("\n=== SIMULATION RESULTS ===")
	fmt.Printf("Snapshots:        %d\n", result.Snapshots)
	if result.Snapshots > 0 {
		fmt.Printf("Data range:       %s .. %s\n",
			result.FirstTime.Format(time.RFC3339),
			result.LastTime.Format(time.RFC3339))
	}
	fmt.Printf("Orders filled:    %d\n", len(result.Fills))
	fmt.Printf("Orders pending:   %d\n", len(result.Pending))
	fmt.Printf("Fill rate:        %.1f%%\n", result.FillRate()*100)
	fmt.Printf("Stale fills:      %d\n", result.StaleFills)
	fmt.Printf("Elapsed:          %s\n", result.Elapsed)

	if len(result.Fills) > 0 {
		fmt.Println("\nFills:")
		for _, f := range result.Fills {
			line := fmt.Sprintf("  %s  order=%s  qty=%s  price=%s",
				f.Time.Format("2006-01-02 15:04:05"), f.OrderID, f.Quantity, f.Price)
			if f.Message != "" {
				line += "  (" + f.Message + ")"
			}
			fmt.Println(line)
		}
	}

	if len(result.Pending) > 0 {
		fmt.Println("\nStill pending:")
		for _, o := range result.Pending {
			fmt.Printf("  order=%s  type=%s  qty=%s\n", o.ID, o.Type, o.Quantity)
		}
	}
}
