package launch

import (
	"errors"
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"time"

	"github.com/google/shlex"

	"skylaunch/internal/domain"
	"skylaunch/internal/eventbus"
)

// ErrBuiltin is returned for actions the launcher UI handles itself
var ErrBuiltin = errors.New("builtin actions are handled by the launcher")

// Launcher runs the action of an executed catalog entry
type Launcher interface {
	Launch(entry domain.CatalogEntry) error
}

// launcher is the concrete implementation
type launcher struct {
	bus   eventbus.EventBus
	start func(cmd *exec.Cmd) error
	now   func() time.Time
}

// NewLauncher creates a launcher that also serves ExecuteRequestedEvents
func NewLauncher(bus eventbus.EventBus) Launcher {
	l := newLauncher(bus, startDetached)

	bus.Subscribe(eventbus.EventExecuteRequested, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ExecuteRequestedEvent); ok {
			if event.Entry.Action.Kind == domain.ActionBuiltin {
				return
			}
			if err := l.Launch(event.Entry); err != nil {
				log.Printf("Launcher: %v", err)
			}
		}
	})

	return l
}

func newLauncher(bus eventbus.EventBus, start func(*exec.Cmd) error) *launcher {
	return &launcher{bus: bus, start: start, now: time.Now}
}

// Launch starts the entry's action without waiting for it to finish
func (l *launcher) Launch(entry domain.CatalogEntry) error {
	cmd, err := BuildCommand(entry.Action)
	if err != nil {
		return err
	}

	if err := l.start(cmd); err != nil {
		err = fmt.Errorf("failed to launch %s: %w", entry.Title, err)
		l.bus.Publish(eventbus.ErrorEvent{Message: fmt.Sprintf("Could not start %s", entry.Title), Err: err})
		return err
	}

	log.Printf("Launcher: started %s (%s)", entry.ID, entry.Action.Target)
	l.bus.Publish(eventbus.ActionLaunchedEvent{EntryID: entry.ID, At: l.now()})
	return nil
}

// BuildCommand turns an action into a process to start
func BuildCommand(action domain.Action) (*exec.Cmd, error) {
	switch action.Kind {
	case domain.ActionExec:
		args, err := shlex.Split(action.Target)
		if err != nil {
			return nil, fmt.Errorf("failed to parse command %q: %w", action.Target, err)
		}
		if len(args) == 0 {
			return nil, fmt.Errorf("empty command")
		}
		cmd := exec.Command(args[0], args[1:]...)
		cmd.Dir = action.Dir
		return cmd, nil

	case domain.ActionOpen, domain.ActionURL:
		if action.Target == "" {
			return nil, fmt.Errorf("nothing to open")
		}
		return exec.Command(opener(), action.Target), nil

	case domain.ActionBuiltin:
		return nil, ErrBuiltin

	default:
		return nil, fmt.Errorf("unknown action kind %q", action.Kind)
	}
}

func opener() string {
	if runtime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}

// startDetached starts cmd and reaps it in the background
func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
