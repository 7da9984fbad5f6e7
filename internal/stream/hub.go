// Package stream provides real-time event distribution functionality.
package stream

import (
	"context"
	"sync"
	"time"
)

// EventType identifies the kind of event flowing through the hub.
type EventType string

const (
	EventTradeCreated   EventType = "trade_created"
	EventPlanUpdated    EventType = "plan_updated"
	EventPlanCompleted  EventType = "plan_completed"
	EventSlotsGenerated EventType = "slots_generated"
	EventAccountCreated EventType = "account_created"
)

// Event is a single state-change notification. Payload carries the
// changed entity and is serialized as-is to websocket clients.
type Event struct {
	Type      EventType   `json:"type"`
	AccountID string      `json:"accountId,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Consumer is a component that processes every event.
type Consumer interface {
	OnEvent(event Event)
	Name() string
}

// HubConfig holds configuration for the event hub.
type HubConfig struct {
	// BufferSize is the size of the internal event channel buffer.
	BufferSize int
	// SubscriberBufferSize is the size of each subscriber's channel buffer.
	SubscriberBufferSize int
}

// DefaultHubConfig returns the default hub configuration.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		BufferSize:           1000,
		SubscriberBufferSize: 100,
	}
}

// Hub distributes events to multiple consumers. It implements a fan-out
// pattern where events from the service layer are delivered to every
// subscriber via channels. Sends to subscribers never block; a slow
// subscriber drops events rather than stalling the rest.
type Hub struct {
	config      HubConfig
	mu          sync.RWMutex
	subscribers map[*Subscriber]struct{}
	eventChan   chan Event
	done        chan struct{}
	started     bool
	consumers   []Consumer
	consumersMu sync.RWMutex

	// Metrics
	eventsReceived  uint64
	eventsBroadcast uint64
	eventsDropped   uint64
	metricsMu       sync.RWMutex
}

// Subscriber represents a channel subscriber with metadata.
type Subscriber struct {
	ID           string
	Channel      chan Event
	DroppedCount int
	CreatedAt    time.Time
}

// NewHub creates a new event hub with default configuration.
func NewHub() *Hub {
	return NewHubWithConfig(DefaultHubConfig())
}

// NewHubWithConfig creates a new event hub with custom configuration.
func NewHubWithConfig(config HubConfig) *Hub {
	return &Hub{
		config:      config,
		subscribers: make(map[*Subscriber]struct{}),
		eventChan:   make(chan Event, config.BufferSize),
		done:        make(chan struct{}),
		consumers:   make([]Consumer, 0),
	}
}

// Start begins the hub's distribution loop.
func (h *Hub) Start(ctx context.Context) error {
	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		return nil
	}
	h.started = true
	h.mu.Unlock()

	go h.broadcastLoop(ctx)
	return nil
}

// broadcastLoop is the main loop that distributes events to subscribers.
func (h *Hub) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case event := <-h.eventChan:
			h.metricsMu.Lock()
			h.eventsReceived++
			h.metricsMu.Unlock()

			h.broadcast(event)
			h.notifyConsumers(event)
		}
	}
}

// Stop stops the hub and closes all subscriber channels.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.started {
		return
	}

	close(h.done)
	h.started = false

	for sub := range h.subscribers {
		close(sub.Channel)
	}
	h.subscribers = make(map[*Subscriber]struct{})
}

// Subscribe adds a subscriber and returns it. Every event published to
// the hub is delivered to every subscriber.
func (h *Hub) Subscribe(id string) *Subscriber {
	sub := &Subscriber{
		ID:        id,
		Channel:   make(chan Event, h.config.SubscriberBufferSize),
		CreatedAt: time.Now(),
	}

	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[sub]; ok {
		close(sub.Channel)
		delete(h.subscribers, sub)
	}
}

// Publish sends an event to the hub for distribution.
// This is non-blocking - if the internal buffer is full, the event is dropped.
func (h *Hub) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case h.eventChan <- event:
	default:
		// Drop event if channel is full (slow consumer protection)
		h.metricsMu.Lock()
		h.eventsDropped++
		h.metricsMu.Unlock()
	}
}

// broadcast sends an event to all subscribers.
// Uses non-blocking sends to prevent slow consumers from blocking others.
func (h *Hub) broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers {
		select {
		case sub.Channel <- event:
			h.metricsMu.Lock()
			h.eventsBroadcast++
			h.metricsMu.Unlock()
		default:
			// Skip slow consumers - non-blocking
			sub.DroppedCount++
			h.metricsMu.Lock()
			h.eventsDropped++
			h.metricsMu.Unlock()
		}
	}
}

// AddConsumer registers a consumer that receives every event.
func (h *Hub) AddConsumer(c Consumer) {
	h.consumersMu.Lock()
	defer h.consumersMu.Unlock()
	h.consumers = append(h.consumers, c)
}

func (h *Hub) notifyConsumers(event Event) {
	h.consumersMu.RLock()
	defer h.consumersMu.RUnlock()
	for _, c := range h.consumers {
		c.OnEvent(event)
	}
}

// SubscriberCount returns the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Metrics returns received, broadcast and dropped event counts.
func (h *Hub) Metrics() (received, broadcast, dropped uint64) {
	h.metricsMu.RLock()
	defer h.metricsMu.RUnlock()
	return h.eventsReceived, h.eventsBroadcast, h.eventsDropped
}
