package discovery

import (
	"cmp"
	"context"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"skylaunch/internal/domain"
	"skylaunch/internal/eventbus"
)

// Discovery sources, in priority order for duplicate ids
const (
	SourceBuiltin = "builtin"
	SourceDesktop = "desktop"
	SourcePath    = "path"
)

// maxParallelRoots bounds concurrent directory reads
const maxParallelRoots = 4

// Options selects the sources to scan
type Options struct {
	DesktopDirs   []string
	PathDirs      []string // ignored unless IncludePath
	IncludePath   bool
	DesktopWeight float64
	PathWeight    float64
	BuiltinWeight float64
}

// root is one directory to scan together with the source it belongs to
type root struct {
	source string
	dir    string
}

// ScanResult is one complete catalog snapshot
type ScanResult struct {
	Entries []domain.CatalogEntry
	Failed  int // roots that could not be read
}

// DiscoveryService builds the catalog from the configured sources
type DiscoveryService interface {
	Scan(ctx context.Context) ScanResult
	StartScan(ctx context.Context) error
	StopScan()
	Roots() []string
}

// discoveryService is the concrete implementation
type discoveryService struct {
	bus        eventbus.EventBus
	opts       Options
	mu         sync.Mutex
	isScanning bool
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewDiscoveryService creates a new discovery service
func NewDiscoveryService(bus eventbus.EventBus, opts Options) DiscoveryService {
	ds := &discoveryService{
		bus:  bus,
		opts: opts,
	}

	bus.Subscribe(eventbus.EventScanRequested, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ScanRequestedEvent); ok {
			log.Printf("Discovery: scan requested (%s)", event.Reason)
			if err := ds.StartScan(context.Background()); err != nil {
				log.Printf("Discovery: %v", err)
			}
		}
	})

	return ds
}

// Roots returns every directory the service reads
func (ds *discoveryService) Roots() []string {
	var dirs []string
	for _, r := range ds.roots() {
		dirs = append(dirs, r.dir)
	}
	return dirs
}

func (ds *discoveryService) roots() []root {
	var roots []root
	for _, d := range ds.opts.DesktopDirs {
		roots = append(roots, root{source: SourceDesktop, dir: d})
	}
	if ds.opts.IncludePath {
		for _, d := range ds.opts.PathDirs {
			roots = append(roots, root{source: SourcePath, dir: d})
		}
	}
	return roots
}

// Scan reads every source and returns the merged catalog. A root that fails to
// read is logged, reported as an ErrorEvent and left out; the rest still count.
func (ds *discoveryService) Scan(ctx context.Context) ScanResult {
	roots := ds.roots()
	perRoot := make([][]domain.CatalogEntry, len(roots))
	var failed int
	var failMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelRoots)
	for i, r := range roots {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			entries, err := ds.scanRoot(r)
			if err != nil {
				log.Printf("Discovery: %v", err)
				ds.bus.Publish(eventbus.ErrorEvent{
					Message: fmt.Sprintf("Failed to scan %s", r.dir),
					Err:     err,
				})
				failMu.Lock()
				failed++
				failMu.Unlock()
				return nil
			}
			perRoot[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("Discovery: scan interrupted: %v", err)
	}

	merged := Builtins(ds.opts.BuiltinWeight)
	for _, entries := range perRoot {
		merged = append(merged, entries...)
	}
	return ScanResult{Entries: dedupe(merged), Failed: failed}
}

func (ds *discoveryService) scanRoot(r root) ([]domain.CatalogEntry, error) {
	switch r.source {
	case SourceDesktop:
		return scanDesktopDir(r.dir, ds.opts.DesktopWeight)
	case SourcePath:
		return scanPathDir(r.dir, ds.opts.PathWeight)
	default:
		return nil, fmt.Errorf("unknown source %q", r.source)
	}
}

// StartScan scans in the background and publishes the snapshot
func (ds *discoveryService) StartScan(ctx context.Context) error {
	ds.mu.Lock()
	if ds.isScanning {
		ds.mu.Unlock()
		return fmt.Errorf("scan already in progress")
	}
	ds.isScanning = true

	scanCtx, cancel := context.WithCancel(ctx)
	ds.cancelFunc = cancel
	ds.mu.Unlock()

	ds.bus.Publish(eventbus.ScanStartedEvent{Roots: ds.Roots()})

	ds.wg.Add(1)
	go func() {
		defer ds.wg.Done()
		defer func() {
			ds.mu.Lock()
			ds.isScanning = false
			ds.cancelFunc = nil
			ds.mu.Unlock()
			cancel()
		}()

		started := time.Now()
		result := ds.Scan(scanCtx)
		if scanCtx.Err() != nil {
			// Cancelled scans never publish a partial snapshot
			return
		}
		ds.bus.Publish(eventbus.CatalogDiscoveredEvent{Entries: result.Entries})
		ds.bus.Publish(eventbus.ScanCompletedEvent{
			EntriesFound: len(result.Entries),
			Failed:       result.Failed,
			Duration:     time.Since(started),
		})
	}()

	return nil
}

// StopScan stops any ongoing scan
func (ds *discoveryService) StopScan() {
	ds.mu.Lock()
	if ds.cancelFunc != nil {
		ds.cancelFunc()
	}
	ds.mu.Unlock()

	ds.wg.Wait()
}

// dedupe keeps the first entry for every id. Input order is the priority
// order; the output is sorted by source then id so snapshots are repeatable.
func dedupe(entries []domain.CatalogEntry) []domain.CatalogEntry {
	seen := make(map[string]bool, len(entries))
	out := make([]domain.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Valid() || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}

	rank := map[string]int{SourceBuiltin: 0, SourceDesktop: 1, SourcePath: 2}
	slices.SortStableFunc(out, func(a, b domain.CatalogEntry) int {
		if c := cmp.Compare(rank[a.Source], rank[b.Source]); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
