// Package domain contains core concepts of the conversation system.
// This file defines the Message entity and its validation rules.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	derrors "conversation-lab/errors"
)

// MessageType identifies the kind of actor a message originates from.
type MessageType string

const (
	MessageTypeUser   MessageType = "user"
	MessageTypeAI     MessageType = "ai"
	MessageTypeSystem MessageType = "system"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeUser, MessageTypeAI, MessageTypeSystem:
		return true
	}
	return false
}

// Message represents a single turn in a conversation.
// ID, ConversationID, SenderID, Type and CreatedAt are immutable after
// construction; Content changes only through UpdateContent.
type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Type           MessageType
	Content        string
	CreatedAt      time.Time
	Metadata       map[string]any
}

// NewMessage validates and builds a message. Content must not be empty or
// whitespace-only and the type must be one of user/ai/system.
func NewMessage(content string, senderID uuid.UUID, messageType MessageType, conversationID uuid.UUID, now time.Time) (*Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, derrors.Validation("message content cannot be empty")
	}
	if !messageType.Valid() {
		return nil, derrors.Validation("unknown message type %q", messageType)
	}
	return &Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Type:           messageType,
		Content:        content,
		CreatedAt:      now,
		Metadata:       map[string]any{},
	}, nil
}

// UpdateContent replaces the content in place. CreatedAt is left untouched.
func (m *Message) UpdateContent(newContent string) error {
	if strings.TrimSpace(newContent) == "" {
		return derrors.Validation("message content cannot be empty")
	}
	m.Content = newContent
	return nil
}

// AddMetadata upserts a metadata entry. Existing keys are overwritten.
func (m *Message) AddMetadata(key string, value any) {
	if m.Metadata == nil {
		m.Metadata = map[string]any{}
	}
	m.Metadata[key] = value
}

func (m *Message) IsUserMessage() bool {
	return m.Type == MessageTypeUser
}

func (m *Message) IsAIMessage() bool {
	return m.Type == MessageTypeAI
}

func (m *Message) IsSystemMessage() bool {
	return m.Type == MessageTypeSystem
}

// clone returns a deep copy so repository adapters never alias caller state.
func (m Message) clone() Message {
	cp := m
	if m.Metadata != nil {
		cp.Metadata = make(map[string]any, len(m.Metadata))
		for k, v := range m.Metadata {
			cp.Metadata[k] = v
		}
	}
	return cp
}
