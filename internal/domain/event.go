package domain

import (
	"sort"
)

// EventType identifies the kind of CRM timeline event the feed delivered
type EventType string

const (
	EventTypeIncomingMessage  EventType = "incoming_chat_message"
	EventTypeOutgoingMessage  EventType = "outgoing_chat_message"
	EventTypeOwnershipChanged EventType = "entity_responsible_changed"
)

// ReportEventTypes lists the event types the response-time report consumes
var ReportEventTypes = []EventType{
	EventTypeIncomingMessage,
	EventTypeOutgoingMessage,
	EventTypeOwnershipChanged,
}

// Event is a single immutable CRM timeline event. CreatedAt is epoch
// seconds as delivered by the feed. ActorID is the user that produced the
// event; NewResponsibleID is set only for ownership-change events.
type Event struct {
	Type             EventType `json:"type"`
	EntityID         int64     `json:"entity_id"`
	CreatedAt        int64     `json:"created_at"`
	ActorID          int64     `json:"actor_id,omitempty"`
	NewResponsibleID int64     `json:"new_responsible_id,omitempty"`
}

// OwnershipChange records who became responsible for an entity and when
type OwnershipChange struct {
	At     int64 `json:"at"`
	UserID int64 `json:"user_id"`
}

// GroupedEvents partitions a raw event stream by type, then by entity.
// Ownership histories are sorted ascending by At; message lists keep feed
// order because the pairing engine sorts them itself.
type GroupedEvents struct {
	Incoming  map[int64][]Event
	Outgoing  map[int64][]Event
	Ownership map[int64][]OwnershipChange
}

// GroupEvents splits the raw event list into incoming, outgoing and
// ownership channels keyed by entity id. Events of any other type are
// dropped. Duplicates pass through untouched.
func GroupEvents(events []Event) GroupedEvents {
	grouped := GroupedEvents{
		Incoming:  make(map[int64][]Event),
		Outgoing:  make(map[int64][]Event),
		Ownership: make(map[int64][]OwnershipChange),
	}

	for _, event := range events {
		switch event.Type {
		case EventTypeIncomingMessage:
			grouped.Incoming[event.EntityID] = append(grouped.Incoming[event.EntityID], event)
		case EventTypeOutgoingMessage:
			grouped.Outgoing[event.EntityID] = append(grouped.Outgoing[event.EntityID], event)
		case EventTypeOwnershipChanged:
			grouped.Ownership[event.EntityID] = append(grouped.Ownership[event.EntityID], OwnershipChange{
				At:     event.CreatedAt,
				UserID: event.NewResponsibleID,
			})
		}
	}

	// The feed gives no ordering guarantee across pages
	for entityID := range grouped.Ownership {
		history := grouped.Ownership[entityID]
		sort.Slice(history, func(i, j int) bool {
			return history[i].At < history[j].At
		})
	}

	return grouped
}

// EntityIDs returns every entity id that has at least one incoming message.
// Entities without incoming messages can never produce a response pair.
func (g GroupedEvents) EntityIDs() []int64 {
	ids := make([]int64, 0, len(g.Incoming))
	for id := range g.Incoming {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
