package domain

import (
	"testing"
)

func TestGroupEvents(t *testing.T) {
	events := []Event{
		{Type: EventTypeIncomingMessage, EntityID: 1, CreatedAt: 100},
		{Type: EventTypeOutgoingMessage, EntityID: 1, CreatedAt: 200, ActorID: 9},
		{Type: EventTypeIncomingMessage, EntityID: 2, CreatedAt: 150},
		{Type: EventTypeOwnershipChanged, EntityID: 1, CreatedAt: 300, NewResponsibleID: 7},
		{Type: EventTypeOwnershipChanged, EntityID: 1, CreatedAt: 50, NewResponsibleID: 5},
		{Type: "lead_status_changed", EntityID: 1, CreatedAt: 120},
	}

	grouped := GroupEvents(events)

	if len(grouped.Incoming[1]) != 1 || len(grouped.Incoming[2]) != 1 {
		t.Errorf("Unexpected incoming grouping: %+v", grouped.Incoming)
	}
	if len(grouped.Outgoing[1]) != 1 {
		t.Errorf("Unexpected outgoing grouping: %+v", grouped.Outgoing)
	}
	if len(grouped.Ownership[1]) != 2 {
		t.Fatalf("Expected 2 ownership changes for entity 1, got %d", len(grouped.Ownership[1]))
	}

	// Ownership history must be sorted ascending regardless of feed order
	if grouped.Ownership[1][0].At != 50 || grouped.Ownership[1][1].At != 300 {
		t.Errorf("Ownership history not sorted: %+v", grouped.Ownership[1])
	}
	if grouped.Ownership[1][0].UserID != 5 {
		t.Errorf("Expected first ownership change to be user 5, got %d", grouped.Ownership[1][0].UserID)
	}
}

func TestGroupEvents_DropsUnknownTypes(t *testing.T) {
	grouped := GroupEvents([]Event{
		{Type: "note_created", EntityID: 1, CreatedAt: 10},
	})

	if len(grouped.Incoming)+len(grouped.Outgoing)+len(grouped.Ownership) != 0 {
		t.Errorf("Expected unknown event types to be dropped, got %+v", grouped)
	}
}

func TestGroupedEvents_EntityIDs(t *testing.T) {
	grouped := GroupEvents([]Event{
		{Type: EventTypeIncomingMessage, EntityID: 3, CreatedAt: 10},
		{Type: EventTypeIncomingMessage, EntityID: 1, CreatedAt: 20},
		{Type: EventTypeOutgoingMessage, EntityID: 5, CreatedAt: 30},
	})

	ids := grouped.EntityIDs()
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Errorf("Expected sorted ids of entities with incoming messages [1 3], got %v", ids)
	}
}

func TestGroupEvents_KeepsDuplicates(t *testing.T) {
	event := Event{Type: EventTypeIncomingMessage, EntityID: 1, CreatedAt: 100}
	grouped := GroupEvents([]Event{event, event})

	if len(grouped.Incoming[1]) != 2 {
		t.Errorf("Expected duplicates to pass through, got %d events", len(grouped.Incoming[1]))
	}
}
