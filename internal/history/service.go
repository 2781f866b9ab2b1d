package history

import (
	"log"

	"skylaunch/internal/eventbus"
)

// Service records launches from the bus and announces the new recent list
type Service struct {
	store  *Store
	bus    eventbus.EventBus
	recent int
}

// NewService subscribes the store to ActionLaunchedEvents
func NewService(bus eventbus.EventBus, store *Store, recent int) *Service {
	s := &Service{store: store, bus: bus, recent: recent}

	bus.Subscribe(eventbus.EventActionLaunched, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ActionLaunchedEvent); ok {
			if err := store.Record(event.EntryID, event.At); err != nil {
				log.Printf("History: failed to record %s: %v", event.EntryID, err)
				return
			}
			s.PublishRecent()
		}
	})

	return s
}

// PublishRecent publishes the current recent list
func (s *Service) PublishRecent() {
	ids, err := s.store.RecentIDs(s.recent)
	if err != nil {
		log.Printf("History: %v", err)
		return
	}
	s.bus.Publish(eventbus.HistoryUpdatedEvent{RecentIDs: ids})
}
