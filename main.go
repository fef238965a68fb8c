package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/spacearound404/planboard/internal/api"
	"github.com/spacearound404/planboard/internal/bus"
	"github.com/spacearound404/planboard/internal/cache"
	"github.com/spacearound404/planboard/internal/config"
	"github.com/spacearound404/planboard/internal/importer"
	"github.com/spacearound404/planboard/internal/logging"
	"github.com/spacearound404/planboard/internal/storage"
	"github.com/spacearound404/planboard/internal/ui"
)

func main() {
	importFile := flag.String("import", "", "import tasks from a YAML file and exit")
	dbPath := flag.String("db", "", "path to the local database (default: XDG data dir)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	kv, err := storage.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer kv.Close()

	client := api.NewClient(api.Options{
		BaseURL:  cfg.APIBaseURL,
		Store:    kv,
		DevToken: cfg.DevToken,
		InitData: cfg.InitData,
		Logger:   logger,
	})

	if *importFile != "" {
		runImport(client, *importFile)
		return
	}

	b := bus.New()
	deps := ui.Deps{
		API:    client,
		Cache:  cache.New(kv, b, logger),
		Bus:    b,
		Log:    logger,
		Config: cfg,
		Now:    time.Now,
	}

	p := tea.NewProgram(ui.NewModel(deps), tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		logger.Error("program failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func runImport(client *api.Client, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	count, err := importer.Import(ctx, client, string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Import failed after %d entries: %v\n", count, err)
		os.Exit(1)
	}
	fmt.Printf("Imported %d entries\n", count)
}
