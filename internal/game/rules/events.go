package rules

import (
	"time"

	"github.com/google/uuid"
)

// EventType indicates the category of a rules event. Passive abilities are
// re-evaluated against these.
type EventType string

const (
	EventCardPlayed     EventType = "CARD_PLAYED"
	EventCardDestroyed  EventType = "CARD_DESTROYED"
	EventCardMoved      EventType = "CARD_MOVED"
	EventCardAttached   EventType = "CARD_ATTACHED"
	EventDetritusScored EventType = "DETRITUS_SCORED"
	EventTurnStarted    EventType = "TURN_STARTED"
	EventTurnEnded      EventType = "TURN_ENDED"
	EventPhaseChanged   EventType = "PHASE_CHANGED"
	EventGameEnded      EventType = "GAME_ENDED"
)

// Event is a single occurrence in a game.
type Event struct {
	Type        EventType
	ID          string
	SourceID    string
	TargetID    string
	PlayerID    string
	Timestamp   time.Time
	Description string
}

// NewEvent creates an event with a fresh id.
func NewEvent(eventType EventType, sourceID, targetID, playerID string) Event {
	return Event{
		Type:      eventType,
		ID:        uuid.NewString(),
		SourceID:  sourceID,
		TargetID:  targetID,
		PlayerID:  playerID,
		Timestamp: time.Now(),
	}
}

// EventHandler receives published events.
type EventHandler func(Event)

// EventBus fans events out to subscribers. The engine is single-threaded
// (one action in flight per game), so no locking is needed here.
type EventBus struct {
	handlers []EventHandler
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a handler for all events.
func (b *EventBus) Subscribe(handler EventHandler) {
	b.handlers = append(b.handlers, handler)
}

// Publish delivers the event to every subscriber in registration order.
func (b *EventBus) Publish(event Event) {
	for _, h := range b.handlers {
		h(event)
	}
}
