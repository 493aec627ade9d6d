//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"time"

	"github.com/google/uuid"

	"conversation-lab/domain"
	"conversation-lab/domain/event"
)

// IConversationRepository is the persistence capability for the Conversation
// aggregate. Implementations must wrap infrastructure failures in
// errors.ErrRepository, treat a missing aggregate as (nil, nil) on reads,
// and keep Save idempotent under retry (upsert by id, last writer wins).
type IConversationRepository interface {
	// Save upserts the aggregate and returns the persisted copy.
	Save(ctx context.Context, conversation *domain.Conversation) (*domain.Conversation, error)
	// GetByID returns (nil, nil) when the id does not resolve.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	// GetByUser pages through a user's conversations, CreatedAt descending.
	// Ordering is stable across calls with the same parameters.
	GetByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Conversation, error)
	// Delete reports whether a record was actually removed. Absence of the
	// target is not an error.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// EventSink accepts emitted domain events for downstream consumption.
// Delivery semantics are the sink's concern; callers only guarantee causal
// emission order per conversation.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IConversationService is the sole API surface of the core. Callers depend
// on it, never on the repository or aggregate internals. Every mutating
// operation follows load, mutate, persist, emit; event emission failure
// after a successful persist surfaces as errors.ErrEventPublishing together
// with the persisted result, never as a rollback.
type IConversationService interface {
	CreateConversation(ctx context.Context, title string, userID uuid.UUID) (*domain.Conversation, error)
	// GetConversation returns (nil, nil) when the id does not resolve.
	GetConversation(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	// UpdateConversation emits ConversationTitleUpdated only when newTitle is
	// supplied and differs from the current title.
	UpdateConversation(ctx context.Context, id, actorID uuid.UUID, newTitle *string) (*domain.Conversation, error)
	ArchiveConversation(ctx context.Context, id, actorID uuid.UUID) (*domain.Conversation, error)
	UnarchiveConversation(ctx context.Context, id, actorID uuid.UUID) (*domain.Conversation, error)
	DeleteConversation(ctx context.Context, id, actorID uuid.UUID) (bool, error)
	AddMessage(ctx context.Context, conversationID uuid.UUID, content string, senderID uuid.UUID, messageType domain.MessageType) (*domain.Message, error)
	// GetMessages returns at most limit messages, newest first. When before
	// is set, only messages strictly earlier are considered.
	GetMessages(ctx context.Context, conversationID uuid.UUID, limit int, before *time.Time) ([]domain.Message, error)
	GetUserConversations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Conversation, error)
}
