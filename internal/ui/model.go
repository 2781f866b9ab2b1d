package ui

import (
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"skylaunch/internal/controller"
	"skylaunch/internal/domain"
	"skylaunch/internal/eventbus"
	"skylaunch/internal/selection"
	"skylaunch/internal/ui/views"
)

const statusTimeout = 3 * time.Second

// Options configures the model
type Options struct {
	ConfigPath    string
	ShowScores    bool
	ShowSubtitles bool
	CloseOnLaunch bool
}

// Model represents the UI state. Result state lives in the controller; the
// view pulls it on every render.
type Model struct {
	bus  eventbus.EventBus
	ctrl *controller.Controller

	configPath    string
	closeOnLaunch bool

	width    int
	height   int
	input    textinput.Model
	help     help.Model
	keys     keyMap
	renderer *views.Renderer

	scanning      bool
	ticking       bool
	statusMessage string
	statusIsError bool
	statusSeq     int
	quitting      bool

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, ctrl *controller.Controller, opts Options) *Model {
	if bus == nil {
		bus = eventbus.NullBus{}
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Search applications, commands..."
	ti.CharLimit = 256
	ti.Focus()

	return &Model{
		bus:           bus,
		ctrl:          ctrl,
		configPath:    opts.ConfigPath,
		closeOnLaunch: opts.CloseOnLaunch,
		input:         ti,
		help:          help.New(),
		keys:          newKeyMap(),
		renderer:      views.NewRenderer(opts.ShowScores, opts.ShowSubtitles),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case AsyncResultMsg:
		m.ctrl.ApplyAsync(msg.Result)
		return m, nil

	case tickMsg:
		if m.scanning {
			return m, m.tick()
		}
		m.ticking = false
		return m, nil

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusMessage = ""
			m.statusIsError = false
		}
		return m, nil

	case helpPagerMsg:
		if msg.err != nil {
			log.Printf("Help pager failed: %v", msg.err)
			return m, m.setStatus(fmt.Sprintf("Help failed: %v", msg.err), true)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit

	case key.Matches(msg, m.keys.Clear):
		if m.input.Value() != "" {
			m.resetQuery()
			return nil
		}
		m.quitting = true
		return tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.ctrl.OnNavigate(selection.DirectionPrevious)
	case key.Matches(msg, m.keys.Down):
		m.ctrl.OnNavigate(selection.DirectionNext)
	case key.Matches(msg, m.keys.Home):
		m.ctrl.OnNavigate(selection.DirectionHome)
	case key.Matches(msg, m.keys.End):
		m.ctrl.OnNavigate(selection.DirectionEnd)
	case key.Matches(msg, m.keys.PageUp):
		m.ctrl.OnNavigate(selection.DirectionPageUp)
	case key.Matches(msg, m.keys.PageDown):
		m.ctrl.OnNavigate(selection.DirectionPageDown)

	case key.Matches(msg, m.keys.Execute):
		return m.execute()

	case key.Matches(msg, m.keys.Help):
		return m.showHelpPager()

	case key.Matches(msg, m.keys.ToggleInfo):
		results := m.renderer.Results()
		results.SetShowScores(!results.ShowScores())

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.ctrl.OnTextChanged(m.input.Value())
		return cmd
	}
	return nil
}

// execute runs the selected entry. Builtins are handled here; everything else
// goes to the launcher through the ExecuteRequested event.
func (m *Model) execute() tea.Cmd {
	entry, ok := m.ctrl.OnExecute()
	if !ok {
		return nil
	}

	if entry.Action.Kind != domain.ActionBuiltin {
		m.resetQuery()
		return m.setStatus(fmt.Sprintf("Launching %s...", entry.Title), false)
	}

	switch entry.Action.Target {
	case domain.BuiltinQuit:
		m.quitting = true
		return tea.Quit
	case domain.BuiltinReload:
		m.resetQuery()
		m.bus.Publish(eventbus.ScanRequestedEvent{Reason: "user request"})
		return m.setStatus("Reloading catalog...", false)
	case domain.BuiltinConfigPath:
		m.resetQuery()
		return m.setStatus(fmt.Sprintf("Config: %s", m.configPath), false)
	default:
		log.Printf("Unknown builtin %q", entry.Action.Target)
		return m.setStatus(fmt.Sprintf("Unknown builtin: %s", entry.Action.Target), true)
	}
}

func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.CatalogDiscoveredEvent:
		m.ctrl.Rebuild(e.Entries)

	case eventbus.ScanStartedEvent:
		m.scanning = true
		if !m.ticking {
			m.ticking = true
			return m.tick()
		}

	case eventbus.ScanCompletedEvent:
		m.scanning = false
		if e.Failed > 0 {
			return m.setStatus(fmt.Sprintf("Found %d entries, %d sources failed", e.EntriesFound, e.Failed), true)
		}

	case eventbus.HistoryUpdatedEvent:
		m.ctrl.SetRecent(e.RecentIDs)

	case eventbus.ActionLaunchedEvent:
		if m.closeOnLaunch {
			m.quitting = true
			return tea.Quit
		}

	case eventbus.ErrorEvent:
		return m.setStatus(e.Message, true)
	}
	return nil
}

func (m *Model) resetQuery() {
	m.input.Reset()
	m.ctrl.OnTextChanged("")
}

func (m *Model) setStatus(message string, isError bool) tea.Cmd {
	m.statusSeq++
	m.statusMessage = message
	m.statusIsError = isError
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// View renders the model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	sel, hasSel := m.ctrl.CurrentSelection()
	return m.renderer.Render(views.ViewState{
		Width:         m.width,
		Height:        m.height,
		InputView:     m.input.View(),
		Query:         m.ctrl.Query(),
		Results:       m.ctrl.CurrentResults(),
		SelectedIndex: sel,
		HasSelection:  hasSel,
		CatalogSize:   m.ctrl.CatalogSize(),
		Scanning:      m.scanning,
		Pending:       m.ctrl.Pending(),
		StatusMessage: m.statusMessage,
		StatusIsError: m.statusIsError,
		HelpView:      m.help.View(m.keys),
	})
}
