package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventCatalogDiscovered EventType = "CatalogDiscovered"
	EventScanStarted       EventType = "ScanStarted"
	EventScanCompleted     EventType = "ScanCompleted"
	EventScanRequested     EventType = "ScanRequested"
	EventQueryChanged      EventType = "QueryChanged"
	EventSelectionMoved    EventType = "SelectionMoved"
	EventExecuteRequested  EventType = "ExecuteRequested"
	EventActionLaunched    EventType = "ActionLaunched"
	EventHistoryUpdated    EventType = "HistoryUpdated"
	EventError             EventType = "Error"
	EventConfigLoaded      EventType = "ConfigLoaded"
	EventConfigSaved       EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// CatalogDiscoveredEvent carries a complete catalog snapshot.
// Receivers replace their index with it, never merge.
type CatalogDiscoveredEvent struct {
	Entries []CatalogEntry
}

func (e CatalogDiscoveredEvent) Type() EventType { return EventCatalogDiscovered }

// ScanStartedEvent is emitted when catalog discovery begins
type ScanStartedEvent struct {
	Roots []string
}

func (e ScanStartedEvent) Type() EventType { return EventScanStarted }

// ScanCompletedEvent is emitted when catalog discovery completes
type ScanCompletedEvent struct {
	EntriesFound int
	Failed       int // roots that could not be read
	Duration     time.Duration
}

func (e ScanCompletedEvent) Type() EventType { return EventScanCompleted }

// ScanRequestedEvent is emitted to request a new catalog scan
type ScanRequestedEvent struct {
	Reason string
}

func (e ScanRequestedEvent) Type() EventType { return EventScanRequested }

// QueryChangedEvent is emitted when the controller recomputes results
type QueryChangedEvent struct {
	Query   string
	Results int
	Cached  bool
}

func (e QueryChangedEvent) Type() EventType { return EventQueryChanged }

// SelectionMovedEvent is emitted when the highlighted result changes
type SelectionMovedEvent struct {
	OldIndex int
	NewIndex int
}

func (e SelectionMovedEvent) Type() EventType { return EventSelectionMoved }

// ExecuteRequestedEvent is emitted when the user executes the selected entry
type ExecuteRequestedEvent struct {
	Entry CatalogEntry
}

func (e ExecuteRequestedEvent) Type() EventType { return EventExecuteRequested }

// ActionLaunchedEvent is emitted after the launcher started an action
type ActionLaunchedEvent struct {
	EntryID string
	At      time.Time
}

func (e ActionLaunchedEvent) Type() EventType { return EventActionLaunched }

// HistoryUpdatedEvent carries the most recently launched entry ids, newest first
type HistoryUpdatedEvent struct {
	RecentIDs []string
}

func (e HistoryUpdatedEvent) Type() EventType { return EventHistoryUpdated }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
