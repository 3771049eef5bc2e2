package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeWorkspace    EntityType = "workspace"
	EntityTypeChannel      EntityType = "channel"
	EntityTypeMember       EntityType = "member"
	EntityTypeMessage      EntityType = "message"
	EntityTypeReaction     EntityType = "reaction"
	EntityTypeConversation EntityType = "conversation"
)

// Additional event types for specific events
const (
	EventTypeJoined      EventType = "joined"
	EventTypeRemoved     EventType = "removed"
	EventTypeCodeRotated EventType = "code_rotated"
	EventTypeToggled     EventType = "toggled"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "message.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "message"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WorkspaceUpdated creates a workspace.updated event
func WorkspaceUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeWorkspace, payload)
}

// WorkspaceDeleted creates a workspace.deleted event
func WorkspaceDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeWorkspace, payload)
}

// WorkspaceCodeRotated creates a workspace.code_rotated event.
// The payload must not include the new join code; clients refetch it
// through the authorized endpoint.
func WorkspaceCodeRotated(payload interface{}) Event {
	return NewEvent(EventTypeCodeRotated, EntityTypeWorkspace, payload)
}

// ChannelCreated creates a channel.created event
func ChannelCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeChannel, payload)
}

// ChannelUpdated creates a channel.updated event
func ChannelUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeChannel, payload)
}

// ChannelDeleted creates a channel.deleted event
func ChannelDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeChannel, payload)
}

// MemberJoined creates a member.joined event
func MemberJoined(payload interface{}) Event {
	return NewEvent(EventTypeJoined, EntityTypeMember, payload)
}

// MemberUpdated creates a member.updated event
func MemberUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeMember, payload)
}

// MemberRemoved creates a member.removed event
func MemberRemoved(payload interface{}) Event {
	return NewEvent(EventTypeRemoved, EntityTypeMember, payload)
}

// MessageCreated creates a message.created event
func MessageCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeMessage, payload)
}

// MessageUpdated creates a message.updated event
func MessageUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeMessage, payload)
}

// MessageDeleted creates a message.deleted event
func MessageDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeMessage, payload)
}

// ReactionToggled creates a reaction.toggled event
func ReactionToggled(payload interface{}) Event {
	return NewEvent(EventTypeToggled, EntityTypeReaction, payload)
}

// ConversationCreated creates a conversation.created event
func ConversationCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeConversation, payload)
}
