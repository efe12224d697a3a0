package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/runelens/internal/adapters/export"
	"github.com/okian/runelens/internal/adapters/http/api"
	"github.com/okian/runelens/internal/adapters/http/hiscores"
	"github.com/okian/runelens/internal/adapters/http/wiki"
	app "github.com/okian/runelens/internal/app"
	"github.com/okian/runelens/internal/config"
	"github.com/okian/runelens/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

const usage = `usage: runelens <command> [arguments]

commands:
  stats <username>                 collect and export a player's hiscore stats
  prices                           snapshot the full item price feed
  item <query> [-timestep 24h]     collect one item's timeseries and history
  compare <query>... [-timestep]   fetch several items' series concurrently
  search <query>                   search the item catalog by name
  serve                            run the HTTP API
`

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("runelens: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// Disable default Go metrics collection; the custom registry carries
	// its own collectors.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	timeout := time.Duration(cfg.FetchTimeoutMS) * time.Millisecond
	wikiClient := wiki.NewClient(
		wiki.WithBaseURL(cfg.WikiBaseURL),
		wiki.WithGraphBaseURL(cfg.GraphBaseURL),
		wiki.WithUserAgent(cfg.UserAgent),
		wiki.WithTimeout(timeout),
	)
	hiscoresClient := hiscores.NewClient(
		hiscores.WithBaseURL(cfg.HiscoresBaseURL),
		hiscores.WithUserAgent(cfg.UserAgent),
		hiscores.WithTimeout(timeout),
	)
	exporter := export.NewWriter(export.WithDataDir(cfg.DataDir))

	svc := app.New(
		wikiClient,
		hiscoresClient,
		exporter,
		app.WithLogger(log),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithMaxSearchResults(cfg.MaxSearchResults),
	)

	args := os.Args[1:]
	if len(args) == 0 {
		os.Stderr.WriteString(usage)
		return errors.New("missing command")
	}

	switch args[0] {
	case "stats":
		return runStats(ctx, svc, args[1:])
	case "prices":
		return runPrices(ctx, svc)
	case "item":
		return runItem(ctx, svc, args[1:])
	case "compare":
		return runCompare(ctx, svc, args[1:])
	case "search":
		return runSearch(ctx, svc, args[1:])
	case "serve":
		return runServe(ctx, cfg, svc, log)
	case "help", "-h", "--help":
		os.Stdout.WriteString(usage)
		return nil
	default:
		os.Stderr.WriteString(usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runStats(ctx context.Context, svc *app.Service, args []string) error {
	if len(args) != 1 {
		return errors.New("stats requires exactly one username")
	}
	result, err := svc.PlayerStats(ctx, args[0])
	if err != nil {
		return err
	}
	printPlayerStats(result.Stats)
	fmt.Printf("\nartifacts:\n  %s\n  %s\n  %s\n  %s\n",
		result.Artifacts.CompleteJSON,
		result.Artifacts.SkillsCSV,
		result.Artifacts.ActivitiesCSV,
		result.Artifacts.BossesCSV,
	)
	return nil
}

func runPrices(ctx context.Context, svc *app.Service) error {
	result, err := svc.SnapshotPrices(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("snapshot %s: %d records\n", result.Artifacts.RunID, len(result.Records))
	fmt.Printf("artifacts:\n  %s\n  %s\n  %s\n",
		result.Artifacts.TimestampJSON,
		result.Artifacts.LatestJSON,
		result.Artifacts.CSV,
	)
	return nil
}

func runItem(ctx context.Context, svc *app.Service, args []string) error {
	fs := flag.NewFlagSet("item", flag.ContinueOnError)
	timestep := fs.String("timestep", "24h", "bucket width: 5m, 1h, 6h, or 24h")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing item flags: %w", err)
	}
	if fs.NArg() != 1 {
		return errors.New("item requires exactly one query")
	}

	result, err := svc.ItemTimeseries(ctx, fs.Arg(0), *timestep)
	if err != nil {
		return suggestOnAmbiguity(ctx, svc, fs.Arg(0), err)
	}
	printSeriesSummary(result, *timestep)
	fmt.Printf("\nartifacts:\n  %s\n  %s\n", result.TimeseriesPath, result.HistoryPath)
	return nil
}

func runCompare(ctx context.Context, svc *app.Service, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	timestep := fs.String("timestep", "24h", "bucket width: 5m, 1h, 6h, or 24h")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing compare flags: %w", err)
	}
	if fs.NArg() < 2 {
		return errors.New("compare requires at least two queries")
	}

	results, err := svc.CompareTimeseries(ctx, fs.Args(), *timestep)
	if err != nil {
		return err
	}
	printComparison(results, *timestep)
	return nil
}

func runSearch(ctx context.Context, svc *app.Service, args []string) error {
	if len(args) != 1 {
		return errors.New("search requires exactly one query")
	}
	matches, err := svc.SearchItems(ctx, args[0])
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Printf("no items match %q\n", args[0])
		return nil
	}
	printItemTable(matches)
	return nil
}

// suggestOnAmbiguity prints candidate matches when a query resolves to
// more than one item, so the user can retry with an id.
func suggestOnAmbiguity(ctx context.Context, svc *app.Service, query string, cause error) error {
	res, err := svc.ResolveItem(ctx, query)
	if err == nil && len(res.Matches) > 1 {
		fmt.Printf("%q is ambiguous; retry with an item id:\n", query)
		printItemTable(res.Matches)
	}
	return cause
}

func runServe(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) error {
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info(ctx, "server stopped")
	return nil
}
