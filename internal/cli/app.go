package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"skylaunch/internal/config"
	"skylaunch/internal/controller"
	"skylaunch/internal/discovery"
	"skylaunch/internal/eventbus"
	"skylaunch/internal/history"
	"skylaunch/internal/instance"
	"skylaunch/internal/launch"
	"skylaunch/internal/search"
	"skylaunch/internal/ui"
)

// uiEvents are forwarded from the bus into the bubbletea loop
var uiEvents = []eventbus.EventType{
	eventbus.EventCatalogDiscovered,
	eventbus.EventScanStarted,
	eventbus.EventScanCompleted,
	eventbus.EventHistoryUpdated,
	eventbus.EventActionLaunched,
	eventbus.EventError,
}

// loadConfig reads the config selected by --config and applies source overrides
func loadConfig(bus eventbus.EventBus) (config.ConfigService, *config.Config, error) {
	svc := config.NewConfigServiceWithBus(bus, flagConfig)
	cfg, err := svc.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot load config %s: %w", svc.Path(), err)
	}
	if len(flagDesktopDirs) > 0 {
		cfg.Catalog.DesktopDirs = flagDesktopDirs
	}
	if flagNoPath {
		cfg.Catalog.IncludePath = false
	}
	return svc, cfg, nil
}

func discoveryOptions(cfg *config.Config) discovery.Options {
	return discovery.Options{
		DesktopDirs:   cfg.Catalog.DesktopDirs,
		PathDirs:      discovery.PathDirs(),
		IncludePath:   cfg.Catalog.IncludePath,
		DesktopWeight: cfg.Catalog.DesktopWeight,
		PathWeight:    cfg.Catalog.PathWeight,
		BuiltinWeight: cfg.Catalog.BuiltinWeight,
	}
}

func controllerOptions(cfg *config.Config) controller.Options {
	return controller.Options{
		Limit:          cfg.Search.Limit,
		PageSize:       cfg.Search.PageSize,
		AsyncThreshold: cfg.Search.AsyncThreshold,
	}
}

// setupLogging sends the standard logger to a file in the state dir, or
// discards it when the file cannot be opened. The returned func closes it.
func setupLogging() func() {
	dir := config.StateDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	logFile, err := os.OpenFile(filepath.Join(dir, "skylaunch.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	log.SetOutput(logFile)
	return func() { _ = logFile.Close() }
}

// openHistory opens the launch history, or returns nil when it is disabled or
// unavailable. A missing history never stops the launcher.
func openHistory(cfg *config.Config) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(cfg.History.Path, false)
	if err != nil {
		log.Printf("History disabled: %v", err)
		return nil
	}
	return store
}

func runTUI(cmd *cobra.Command, args []string) error {
	lock, err := instance.Acquire(config.StateDir())
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()
	log.Printf("Holding instance lock %s", lock.Path())

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bus := eventbus.New()
	defer bus.Close()

	configSvc, cfg, err := loadConfig(bus)
	if err != nil {
		return err
	}
	log.Printf("Loaded config from %s", configSvc.Path())

	ctrl := controller.New(bus, cfg.Weights(), controllerOptions(cfg))
	defer ctrl.Close()

	model := ui.NewModel(bus, ctrl, ui.Options{
		ConfigPath:    configSvc.Path(),
		ShowScores:    cfg.UI.ShowScores,
		ShowSubtitles: cfg.UI.ShowSubtitles,
		CloseOnLaunch: cfg.UI.CloseOnLaunch,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	if err := ctrl.EnableAsync(cfg.Search.Workers, func(r search.Result) {
		p.Send(ui.AsyncResultMsg{Result: r})
	}); err != nil {
		log.Printf("Async search unavailable, searching inline: %v", err)
	}

	for _, t := range uiEvents {
		bus.Subscribe(t, func(e eventbus.DomainEvent) {
			p.Send(ui.EventMsg{Event: e})
		})
	}

	// Launcher and history subscribe to the bus on construction
	_ = launch.NewLauncher(bus)
	if store := openHistory(cfg); store != nil {
		defer func() { _ = store.Close() }()
		history.NewService(bus, store, cfg.History.Recent).PublishRecent()
	}

	discoverySvc := discovery.NewDiscoveryService(bus, discoveryOptions(cfg))
	defer discoverySvc.StopScan()
	if err := discoverySvc.StartScan(ctx); err != nil {
		log.Printf("Initial scan failed: %v", err)
	}

	if cfg.Catalog.Watch {
		w, err := discovery.NewWatcher(bus, discoverySvc.Roots(), cfg.RescanDelay())
		if err != nil {
			log.Printf("Watcher disabled: %v", err)
		} else {
			defer func() { _ = w.Close() }()
			go w.Run(ctx)
		}
	}

	log.Printf("Starting UI...")
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running program: %w", err)
	}
	log.Printf("UI exited normally")
	return nil
}

// scanCatalog runs one synchronous discovery pass for the non-interactive commands
func scanCatalog(ctx context.Context, cfg *config.Config) discovery.ScanResult {
	ds := discovery.NewDiscoveryService(eventbus.NullBus{}, discoveryOptions(cfg))
	return ds.Scan(ctx)
}
