package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/spektr-org/ratelens/config"
	"github.com/spektr-org/ratelens/fallback"
	"github.com/spektr-org/ratelens/ingest"
	"github.com/spektr-org/ratelens/intent"
)

func main() {
	filePath := flag.String("file", "", "Path to CSV or XLSX rate export (required)")
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logs would draw over the alt screen.
	log := zap.NewNop()

	ds, err := ingest.NewLoader(log).LoadFile(*filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load data: %v\n", err)
		os.Exit(1)
	}

	var responder fallback.Responder
	if cfg.Fallback.Enabled {
		responder = fallback.NewOllama(cfg.Fallback.Responder(), log)
	}

	m := newModel(ds, intent.NewRouter(), responder)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting program: %v\n", err)
		os.Exit(1)
	}
}
