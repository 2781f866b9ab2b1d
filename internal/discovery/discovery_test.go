package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skylaunch/internal/domain"
	"skylaunch/internal/eventbus"
)

// chanBus hands every published event to a channel
type chanBus struct {
	events chan eventbus.DomainEvent
}

func newChanBus() *chanBus {
	return &chanBus{events: make(chan eventbus.DomainEvent, 64)}
}

func (b *chanBus) Publish(event eventbus.DomainEvent) { b.events <- event }
func (b *chanBus) Subscribe(eventbus.EventType, eventbus.EventHandler) func() {
	return func() {}
}
func (b *chanBus) Close() {}

// next waits for the next event of type want, skipping others
func (b *chanBus) next(t *testing.T, want eventbus.EventType) eventbus.DomainEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case e := <-b.events:
			if e.Type() == want {
				return e
			}
		case <-deadline:
			t.Fatalf("no %s event", want)
			return nil
		}
	}
}

func ids(entries []domain.CatalogEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestBuiltins(t *testing.T) {
	entries := Builtins(0.9)
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.True(t, e.Valid())
		assert.Equal(t, domain.ActionBuiltin, e.Action.Kind)
		assert.Equal(t, "builtin:"+e.Action.Target, e.ID)
		assert.Equal(t, 0.9, e.BaseWeight)
	}
	assert.ElementsMatch(t,
		[]string{domain.BuiltinQuit, domain.BuiltinReload, domain.BuiltinConfigPath},
		[]string{entries[0].Action.Target, entries[1].Action.Target, entries[2].Action.Target})
}

func TestScanPathDirListsExecutables(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tool", "#!/bin/sh\n", 0755)
	writeFile(t, dir, "readme", "text", 0644)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0755))
	require.NoError(t, os.Symlink(filepath.Join(dir, "tool"), filepath.Join(dir, "tool-link")))

	entries, err := scanPathDir(dir, 0.2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"path:tool", "path:tool-link"}, ids(entries))

	for _, e := range entries {
		assert.Equal(t, SourcePath, e.Source)
		assert.Equal(t, filepath.Join(dir, e.Title), e.Action.Target)
	}
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "/usr/bin/ls", shellQuote("/usr/bin/ls"))
	assert.Equal(t, "'/opt/my app/run'", shellQuote("/opt/my app/run"))
	assert.Equal(t, `'/opt/it'\''s'`, shellQuote("/opt/it's"))
}

func TestPathDirs(t *testing.T) {
	t.Setenv("PATH", "/usr/bin::/bin:/usr/bin")
	assert.Equal(t, []string{"/usr/bin", "/bin"}, PathDirs())
}

func TestDedupeKeepsFirstAndSorts(t *testing.T) {
	entries := []domain.CatalogEntry{
		{ID: "path:b", Title: "b", Source: SourcePath, BaseWeight: 0.2},
		{ID: "desktop:z", Title: "Z", Source: SourceDesktop, BaseWeight: 0.6},
		{ID: "desktop:a", Title: "First", Source: SourceDesktop, BaseWeight: 0.6},
		{ID: "desktop:a", Title: "Second", Source: SourceDesktop, BaseWeight: 0.6},
		{ID: "builtin:quit", Title: "Quit", Source: SourceBuiltin, BaseWeight: 0.9},
		{ID: "broken", Title: "", Source: SourceDesktop, BaseWeight: 0.5},
	}

	out := dedupe(entries)
	assert.Equal(t, []string{"builtin:quit", "desktop:a", "desktop:z", "path:b"}, ids(out))
	assert.Equal(t, "First", out[1].Title)
}

func fixtureRoots(t *testing.T) (desktopDir, pathDir string) {
	t.Helper()
	desktopDir = t.TempDir()
	pathDir = t.TempDir()
	writeFile(t, desktopDir, "google-chrome.desktop", chromeDesktop, 0644)
	writeFile(t, pathDir, "htop", "#!/bin/sh\n", 0755)
	return desktopDir, pathDir
}

func TestScanMergesSources(t *testing.T) {
	desktopDir, pathDir := fixtureRoots(t)
	ds := NewDiscoveryService(eventbus.NullBus{}, Options{
		DesktopDirs:   []string{desktopDir, filepath.Join(desktopDir, "missing")},
		PathDirs:      []string{pathDir},
		IncludePath:   true,
		DesktopWeight: 0.6,
		PathWeight:    0.2,
		BuiltinWeight: 0.9,
	})

	result := ds.Scan(context.Background())
	assert.Zero(t, result.Failed)
	assert.Equal(t, []string{
		"builtin:config-path", "builtin:quit", "builtin:reload",
		"desktop:google-chrome.desktop",
		"path:htop",
	}, ids(result.Entries))
}

func TestScanWithoutPath(t *testing.T) {
	desktopDir, pathDir := fixtureRoots(t)
	ds := NewDiscoveryService(eventbus.NullBus{}, Options{
		DesktopDirs: []string{desktopDir},
		PathDirs:    []string{pathDir},
		IncludePath: false,
	})

	assert.Equal(t, []string{desktopDir}, ds.Roots())
	assert.NotContains(t, ids(ds.Scan(context.Background()).Entries), "path:htop")
}

func TestScanFailingRootKeepsTheRest(t *testing.T) {
	desktopDir, _ := fixtureRoots(t)
	notADir := filepath.Join(desktopDir, "google-chrome.desktop")

	bus := newChanBus()
	ds := NewDiscoveryService(bus, Options{DesktopDirs: []string{notADir, desktopDir}})

	result := ds.Scan(context.Background())
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, ids(result.Entries), "desktop:google-chrome.desktop")

	ev := bus.next(t, eventbus.EventError).(eventbus.ErrorEvent)
	assert.Contains(t, ev.Message, notADir)
	assert.Error(t, ev.Err)
}

func TestStartScanPublishesSnapshot(t *testing.T) {
	desktopDir, _ := fixtureRoots(t)
	bus := newChanBus()
	ds := NewDiscoveryService(bus, Options{DesktopDirs: []string{desktopDir}})

	require.NoError(t, ds.StartScan(context.Background()))
	started := bus.next(t, eventbus.EventScanStarted).(eventbus.ScanStartedEvent)
	assert.Equal(t, []string{desktopDir}, started.Roots)

	discovered := bus.next(t, eventbus.EventCatalogDiscovered).(eventbus.CatalogDiscoveredEvent)
	completed := bus.next(t, eventbus.EventScanCompleted).(eventbus.ScanCompletedEvent)
	assert.Len(t, discovered.Entries, 4)
	assert.Equal(t, 4, completed.EntriesFound)
	assert.Zero(t, completed.Failed)

	ds.StopScan()
}

func TestWatcherCoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	bus := newChanBus()

	w, err := NewWatcher(bus, []string{dir, filepath.Join(dir, "missing")}, 100*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, []string{dir}, w.Dirs())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	for _, name := range []string{"a.desktop", "b.desktop", "c.desktop"} {
		writeFile(t, dir, name, "[Desktop Entry]\n", 0644)
	}

	ev := bus.next(t, eventbus.EventScanRequested).(eventbus.ScanRequestedEvent)
	assert.Equal(t, "filesystem change", ev.Reason)

	select {
	case e := <-bus.events:
		t.Fatalf("burst produced a second event: %v", e.Type())
	case <-time.After(300 * time.Millisecond):
	}
}
