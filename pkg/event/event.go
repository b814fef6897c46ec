// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Combat event types
const (
	SpacecraftAdded        Type = "spacecraft_added"
	SpacecraftDestroyed    Type = "spacecraft_destroyed"
	SpacecraftRemoved      Type = "spacecraft_removed"
	ProjectileFired        Type = "projectile_fired"
	ProjectileHit          Type = "projectile_hit"
	TargetChanged          Type = "target_changed"
	DamageIndicatorSpawned Type = "damage_indicator_spawned"
	FlightModeChanged      Type = "flight_mode_changed"
	LevelStarted           Type = "level_started"
	LevelEnded             Type = "level_ended"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler
type Subscription struct {
	ID        uint64
	EventType Type
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run
// synchronously on the publishing goroutine, in subscription order.
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})
	return &Subscription{ID: id, EventType: eventType}
}

// Unsubscribe removes a handler. It reports whether the subscription existed.
func (b *Bus) Unsubscribe(sub *Subscription) bool {
	if sub == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.handlers[sub.EventType]
	for i, s := range handlers {
		if s.id == sub.ID {
			b.handlers[sub.EventType] = append(handlers[:i:i], handlers[i+1:]...)
			return true
		}
	}
	return false
}

// Publish sends an event to all subscribed handlers. A nil bus drops the event.
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	handlers := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range handlers {
		s.handler(event)
	}
}

// Specific event implementations

// SpacecraftEvent carries the identity of a spacecraft
type SpacecraftEvent struct {
	BaseEvent
	SpacecraftID uint64
	Class        string
}

// NewSpacecraftEvent creates a new spacecraft event
func NewSpacecraftEvent(eventType Type, source interface{}, spacecraftID uint64, class string) *SpacecraftEvent {
	return &SpacecraftEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		SpacecraftID: spacecraftID,
		Class:        class,
	}
}

// HitEvent describes a projectile hitting a spacecraft
type HitEvent struct {
	BaseEvent
	ProjectileID uint64
	ShooterID    uint64 // 0 when the shooter is gone
	TargetID     uint64
	Damage       float64
	Destroyed    bool
}

// NewHitEvent creates a new hit event
func NewHitEvent(source interface{}, projectileID, shooterID, targetID uint64, damage float64, destroyed bool) *HitEvent {
	return &HitEvent{
		BaseEvent: BaseEvent{
			EventType: ProjectileHit,
			Source:    source,
		},
		ProjectileID: projectileID,
		ShooterID:    shooterID,
		TargetID:     targetID,
		Damage:       damage,
		Destroyed:    destroyed,
	}
}

// TargetEvent describes a target selection change
type TargetEvent struct {
	BaseEvent
	SpacecraftID uint64
	TargetID     uint64 // 0 when the target was cleared
	Auto         bool
}

// NewTargetEvent creates a new target event
func NewTargetEvent(source interface{}, spacecraftID, targetID uint64, auto bool) *TargetEvent {
	return &TargetEvent{
		BaseEvent: BaseEvent{
			EventType: TargetChanged,
			Source:    source,
		},
		SpacecraftID: spacecraftID,
		TargetID:     targetID,
		Auto:         auto,
	}
}
