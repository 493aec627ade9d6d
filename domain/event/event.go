// Package event defines the immutable facts emitted for every conversation
// state change. Events are write-once: constructed, published, never
// mutated. Consumers rely on per-conversation causal ordering to rebuild
// state.
package event

import (
	"time"

	"github.com/google/uuid"

	"conversation-lab/domain"
)

type DomainEvent interface {
	Name() string
	EventID() uuid.UUID
	ConversationID() uuid.UUID
	OccurredAt() time.Time
	TriggeredBy() uuid.UUID
}

// Header is the envelope shared by every event variant.
type Header struct {
	ID           uuid.UUID
	Conversation uuid.UUID
	At           time.Time
	Actor        uuid.UUID
}

// NewHeader stamps a fresh event id for the given conversation and actor.
func NewHeader(conversationID, actor uuid.UUID, at time.Time) Header {
	return Header{
		ID:           uuid.New(),
		Conversation: conversationID,
		At:           at,
		Actor:        actor,
	}
}

func (h Header) EventID() uuid.UUID        { return h.ID }
func (h Header) ConversationID() uuid.UUID { return h.Conversation }
func (h Header) OccurredAt() time.Time     { return h.At }
func (h Header) TriggeredBy() uuid.UUID    { return h.Actor }

type ConversationCreated struct {
	Header
	Title string
}

func (ConversationCreated) Name() string { return "ConversationCreated" }

type ConversationTitleUpdated struct {
	Header
	NewTitle string
	OldTitle string
}

func (ConversationTitleUpdated) Name() string { return "ConversationTitleUpdated" }

type ConversationArchived struct {
	Header
}

func (ConversationArchived) Name() string { return "ConversationArchived" }

type ConversationUnarchived struct {
	Header
}

func (ConversationUnarchived) Name() string { return "ConversationUnarchived" }

type ConversationDeleted struct {
	Header
}

func (ConversationDeleted) Name() string { return "ConversationDeleted" }

type MessageAdded struct {
	Header
	MessageID   uuid.UUID
	MessageType domain.MessageType
	Content     string
	Metadata    map[string]any
}

func (MessageAdded) Name() string { return "MessageAdded" }
