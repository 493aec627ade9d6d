// Package projection builds local read models from observed events.
// It relies on per-conversation causal ordering: folding the event stream in
// emission order reconstructs the aggregate state. It does not emit events.
package projection

import (
	"context"

	"github.com/google/uuid"

	"conversation-lab/domain"
	"conversation-lab/domain/event"
)

// Timeline is a conversation view rebuilt purely from events.
type Timeline struct {
	Conversation uuid.UUID
	Title        string
	Archived     bool
	Deleted      bool
	Messages     []domain.Message
}

// NewTimeline follows a single conversation; events for other conversations
// are ignored.
func NewTimeline(conversationID uuid.UUID) *Timeline {
	return &Timeline{Conversation: conversationID}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	if e.ConversationID() != t.Conversation {
		return nil
	}
	switch evt := e.(type) {
	case event.ConversationCreated:
		t.Title = evt.Title
	case event.ConversationTitleUpdated:
		t.Title = evt.NewTitle
	case event.ConversationArchived:
		t.Archived = true
	case event.ConversationUnarchived:
		t.Archived = false
	case event.ConversationDeleted:
		t.Deleted = true
	case event.MessageAdded:
		t.Messages = append(t.Messages, fromEvent(evt))
	}
	return nil
}

func fromEvent(evt event.MessageAdded) domain.Message {
	return domain.Message{
		ID:             evt.MessageID,
		ConversationID: evt.ConversationID(),
		SenderID:       evt.TriggeredBy(),
		Type:           evt.MessageType,
		Content:        evt.Content,
		CreatedAt:      evt.OccurredAt(),
		Metadata:       evt.Metadata,
	}
}
