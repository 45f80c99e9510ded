// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - each event represents something significant
// that happened in the matching domain.
const (
	// User events
	EventUserRegistered      EventType = "user.registered"
	EventUserProfileUpdated  EventType = "user.profile_updated"
	EventUserProfileAnalyzed EventType = "user.profile_analyzed"

	// Rubric events
	EventScoresReplaced EventType = "rubric.scores_replaced"

	// Match events
	EventMatchRequestSent EventType = "match.request_sent"
	EventMatchAccepted    EventType = "match.accepted"
	EventMatchRejected    EventType = "match.rejected"
	EventConnectionFormed EventType = "match.connection_formed"

	// Notification events
	EventNotificationCreated EventType = "notification.created"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// EventPublisher publishes domain events to interested subscribers.
// Publishing is synchronous and best-effort: a failed publish never fails
// the command that produced the event.
type EventPublisher interface {
	Publish(event Event) error
}

// NopPublisher discards all events. Used in tests and minimal deployments.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(Event) error { return nil }

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// User Events
// ═══════════════════════════════════════════════════════════════════════════

// UserRegisteredEvent is emitted when a new user registers.
type UserRegisteredEvent struct {
	BaseEvent
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Payload implements Event interface.
func (e UserRegisteredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"email":     e.Email,
		"full_name": e.FullName,
	}
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent.
func NewUserRegisteredEvent(userID, email, fullName string) UserRegisteredEvent {
	return UserRegisteredEvent{
		BaseEvent: NewBaseEvent(EventUserRegistered, userID),
		Email:     email,
		FullName:  fullName,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Rubric Events
// ═══════════════════════════════════════════════════════════════════════════

// ScoresReplacedEvent is emitted when a user's rubric scores for a category
// are replaced after profile analysis or a preference update.
type ScoresReplacedEvent struct {
	BaseEvent
	Category   string `json:"category"`
	ScoreCount int    `json:"score_count"`
}

// Payload implements Event interface.
func (e ScoresReplacedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"category":    e.Category,
		"score_count": e.ScoreCount,
	}
}

// NewScoresReplacedEvent creates a new ScoresReplacedEvent.
func NewScoresReplacedEvent(userID, category string, scoreCount int) ScoresReplacedEvent {
	return ScoresReplacedEvent{
		BaseEvent:  NewBaseEvent(EventScoresReplaced, userID),
		Category:   category,
		ScoreCount: scoreCount,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Match Events
// ═══════════════════════════════════════════════════════════════════════════

// MatchRequestSentEvent is emitted when a match request is created.
type MatchRequestSentEvent struct {
	BaseEvent
	SenderID           string `json:"sender_id"`
	ReceiverID         string `json:"receiver_id"`
	CompatibilityScore int    `json:"compatibility_score"`
}

// Payload implements Event interface.
func (e MatchRequestSentEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"sender_id":           e.SenderID,
		"receiver_id":         e.ReceiverID,
		"compatibility_score": e.CompatibilityScore,
	}
}

// NewMatchRequestSentEvent creates a new MatchRequestSentEvent.
func NewMatchRequestSentEvent(requestID, senderID, receiverID string, score int) MatchRequestSentEvent {
	return MatchRequestSentEvent{
		BaseEvent:          NewBaseEvent(EventMatchRequestSent, requestID),
		SenderID:           senderID,
		ReceiverID:         receiverID,
		CompatibilityScore: score,
	}
}

// MatchAcceptedEvent is emitted when a match request is accepted.
type MatchAcceptedEvent struct {
	BaseEvent
	SenderID     string `json:"sender_id"`
	ReceiverID   string `json:"receiver_id"`
	ConnectionID string `json:"connection_id"`
	// Mutual is true when the acceptance was triggered by a reciprocal request.
	Mutual bool `json:"mutual"`
}

// Payload implements Event interface.
func (e MatchAcceptedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"sender_id":     e.SenderID,
		"receiver_id":   e.ReceiverID,
		"connection_id": e.ConnectionID,
		"mutual":        e.Mutual,
	}
}

// NewMatchAcceptedEvent creates a new MatchAcceptedEvent.
func NewMatchAcceptedEvent(requestID, senderID, receiverID, connectionID string, mutual bool) MatchAcceptedEvent {
	return MatchAcceptedEvent{
		BaseEvent:    NewBaseEvent(EventMatchAccepted, requestID),
		SenderID:     senderID,
		ReceiverID:   receiverID,
		ConnectionID: connectionID,
		Mutual:       mutual,
	}
}

// MatchRejectedEvent is emitted when a match request is rejected.
type MatchRejectedEvent struct {
	BaseEvent
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
}

// Payload implements Event interface.
func (e MatchRejectedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"sender_id":   e.SenderID,
		"receiver_id": e.ReceiverID,
	}
}

// NewMatchRejectedEvent creates a new MatchRejectedEvent.
func NewMatchRejectedEvent(requestID, senderID, receiverID string) MatchRejectedEvent {
	return MatchRejectedEvent{
		BaseEvent:  NewBaseEvent(EventMatchRejected, requestID),
		SenderID:   senderID,
		ReceiverID: receiverID,
	}
}

// ConnectionFormedEvent is emitted when a permanent connection is created.
type ConnectionFormedEvent struct {
	BaseEvent
	User1ID            string `json:"user1_id"`
	User2ID            string `json:"user2_id"`
	CompatibilityScore int    `json:"compatibility_score"`
}

// Payload implements Event interface.
func (e ConnectionFormedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user1_id":            e.User1ID,
		"user2_id":            e.User2ID,
		"compatibility_score": e.CompatibilityScore,
	}
}

// NewConnectionFormedEvent creates a new ConnectionFormedEvent.
func NewConnectionFormedEvent(connectionID, user1ID, user2ID string, score int) ConnectionFormedEvent {
	return ConnectionFormedEvent{
		BaseEvent:          NewBaseEvent(EventConnectionFormed, connectionID),
		User1ID:            user1ID,
		User2ID:            user2ID,
		CompatibilityScore: score,
	}
}
