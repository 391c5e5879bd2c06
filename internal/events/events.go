package events

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
)

const (
	EventItemAdded     = "item_added"
	EventItemEdited    = "item_edited"
	EventItemDeleted   = "item_deleted"
	EventItemMoved     = "item_moved"
	EventAccessGranted = "access_granted"
	EventAccessRevoked = "access_revoked"
)

// ItemEvents lists the event types that describe a change to an item.
var ItemEvents = []string{EventItemAdded, EventItemEdited, EventItemDeleted, EventItemMoved}

// ItemChangedPayload is a snapshot of an item change taken after commit.
type ItemChangedPayload struct {
	ItemID       int64     `json:"item_id"`
	ItemName     string    `json:"item_name"`
	CategoryID   int64     `json:"category_id"`
	CategoryName string    `json:"category_name"`
	SharingType  string    `json:"sharing_type"`
	ActorID      int64     `json:"actor_id"`
	ActorName    string    `json:"actor_name,omitempty"`
	PhotoRef     string    `json:"photo_ref,omitempty"`
	ChangedAt    time.Time `json:"changed_at"`
}

// AccessChangedPayload describes grants created or removed on a category.
type AccessChangedPayload struct {
	CategoryID   int64   `json:"category_id"`
	CategoryName string  `json:"category_name"`
	SharingType  string  `json:"sharing_type"`
	OwnerID      int64   `json:"owner_id"`
	UserIDs      []int64 `json:"user_ids"`
	CanEdit      bool    `json:"can_edit,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	ID        int64
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Decode unmarshals the event payload into v.
func (e *Event) Decode(v interface{}) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
	seq         int64
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for the given event types.
func (b *EventBus) Subscribe(handler EventHandler, eventTypes ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range eventTypes {
		b.subscribers[t] = append(b.subscribers[t], handler)
	}
}

// Publish runs every subscriber of the event type in registration order.
// A failing handler does not stop the others; their errors are combined.
func (b *EventBus) Publish(event *Event) error {
	b.mu.Lock()
	b.seq++
	event.ID = b.seq
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.Unlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var result *multierror.Error
	for _, handler := range handlers {
		if err := handler(event); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	event, err := NewJSONEvent(eventType, payload)
	if err != nil {
		return err
	}
	return b.Publish(&event)
}

// NewJSONEvent builds an Event with JSON payload for manual publishing.
func NewJSONEvent(eventType string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	return Event{Type: eventType, Payload: raw, CreatedAt: time.Now()}, nil
}
