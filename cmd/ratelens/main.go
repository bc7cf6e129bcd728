package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spektr-org/ratelens/config"
	"github.com/spektr-org/ratelens/engine"
	"github.com/spektr-org/ratelens/fallback"
	"github.com/spektr-org/ratelens/ingest"
	"github.com/spektr-org/ratelens/intent"
	"github.com/spektr-org/ratelens/logging"
	"github.com/spektr-org/ratelens/server"
)

// ============================================================================
// RATELENS CLI — Ask questions about car rental rate-shopping exports
// ============================================================================

const version = "0.1.0"

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	filePath := flag.String("file", "", "Path to CSV or XLSX rate export")
	queryStr := flag.String("query", "", "Question to answer")
	summary := flag.Bool("summary", false, "Print the dataset summary and exit")
	serve := flag.Bool("serve", false, "Run the HTTP server")
	configPath := flag.String("config", "", "Path to YAML config file")
	format := flag.String("format", "text", "Output format: json, pretty, text, csv")
	outFile := flag.String("out", "", "Write output to file instead of stdout")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `RateLens — answers about car rental rates

Usage:
  ratelens --file rates.csv --query "which supplier has the lowest prices"
  ratelens --file rates.csv --query "plot price trends" --format csv --out trend.csv
  ratelens --file rates.xlsx --summary --format pretty
  ratelens --serve [--config ratelens.yaml] [--file rates.csv]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment (or .env):
  RATELENS_SERVER_ADDR        Listen address (default :5000)
  RATELENS_FALLBACK_ENABLED   Send unrecognized questions to Ollama (default true)
  RATELENS_FALLBACK_MODEL     Ollama model (default llama3.2)
  RATELENS_LOG_LEVEL          debug, info, warn, error

Formats:
  text      The answer only (default)
  json      Answer, chart directive and chart data as JSON
  pretty    Indented JSON
  csv       Chart data as CSV (ready for Sheets/Excel)
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("ratelens %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	log := logging.Must(cfg.Log.Level, cfg.Log.Dev)
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if *serve {
		if err := runServer(cfg, *filePath, log); err != nil {
			fatalf("Server error: %v", err)
		}
		return
	}

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required")
		flag.Usage()
		os.Exit(1)
	}
	if !*summary && *queryStr == "" {
		fmt.Fprintln(os.Stderr, "Error: either --summary or --query is required")
		flag.Usage()
		os.Exit(1)
	}

	// ── Output writer ─────────────────────────────────────────────────────
	writer := os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		writer = f
	}

	ds, err := ingest.NewLoader(log).LoadFile(*filePath)
	if err != nil {
		fatalf("Failed to load data: %v", err)
	}

	// ── Summary mode ──────────────────────────────────────────────────────
	if *summary {
		writeSummary(writer, ds, *format)
		return
	}

	// ── Query mode ────────────────────────────────────────────────────────
	out := ask(context.Background(), cfg, ds, *queryStr, log)
	writeAnswer(writer, out, *format)
	if *outFile != "" {
		log.Info("📄 output written", zap.String("path", *outFile))
	}
}

// ask answers one question, building chart data or delegating as needed.
func ask(ctx context.Context, cfg *config.Config, ds *engine.Dataset, question string, log *zap.Logger) cliOutput {
	a := intent.NewRouter(intent.WithLogger(log)).Answer(ds, question)
	out := cliOutput{Question: question, Answer: a}

	switch a.Kind {
	case intent.KindChart:
		chart, err := engine.BuildChart(ds, *a.Chart)
		if err != nil {
			log.Warn("⚠️ chart not built", zap.String("type", string(a.Chart.Type)), zap.Error(err))
			out.ChartError = err.Error()
		}
		out.ChartData = chart
	case intent.KindUnhandled:
		if !cfg.Fallback.Enabled {
			out.Answer.Text = fallback.Canned
			break
		}
		sum := ds.Summary()
		text, err := fallback.NewOllama(cfg.Fallback.Responder(), log).Respond(ctx, question, &sum)
		if err != nil {
			log.Warn("⚠️ fallback failed", zap.Error(err))
			text = fallback.Canned
		}
		out.Answer.Text = text
	}
	return out
}

// runServer serves HTTP until SIGINT or SIGTERM.
func runServer(cfg *config.Config, preload string, log *zap.Logger) error {
	store := engine.NewStore(log)
	if preload != "" {
		ds, err := ingest.NewLoader(log).LoadFile(preload)
		if err != nil {
			return err
		}
		store.Swap(ds)
	}

	opts := []server.Option{server.WithLogger(log)}
	if cfg.Fallback.Enabled {
		opts = append(opts, server.WithResponder(fallback.NewOllama(cfg.Fallback.Responder(), log)))
	}
	srv := server.New(cfg.Server, store, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("👋 shutdown requested")
		return nil
	})
	return g.Wait()
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
