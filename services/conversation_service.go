package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"conversation-lab/contract"
	"conversation-lab/domain"
	"conversation-lab/domain/event"
	derrors "conversation-lab/errors"
)

// ConversationService orchestrates the aggregate, the repository and the
// event sinks. Every mutating operation is load, mutate, persist, emit:
// validation failures propagate unchanged, repository failures arrive
// already wrapped, and a sink failure after a successful persist is returned
// as errors.ErrEventPublishing together with the persisted result (the write
// is never rolled back, the sink retries on its own terms).
//
// Events for one conversation are emitted in mutation order; callers must
// not mutate the same conversation concurrently.
type ConversationService struct {
	repository contract.IConversationRepository
	sinks      []contract.EventSink
	clock      domain.Clock
	log        *slog.Logger
}

func NewConversationService(repository contract.IConversationRepository, clock domain.Clock, log *slog.Logger, sinks ...contract.EventSink) *ConversationService {
	return &ConversationService{
		repository: repository,
		sinks:      sinks,
		clock:      clock,
		log:        log,
	}
}

func (s *ConversationService) CreateConversation(ctx context.Context, title string, userID uuid.UUID) (*domain.Conversation, error) {
	now := s.clock.Now()
	conversation, err := domain.NewConversation(title, userID, now)
	if err != nil {
		return nil, err
	}
	saved, err := s.repository.Save(ctx, conversation)
	if err != nil {
		return nil, err
	}
	s.log.Info("conversation created", "conversation", saved.ID, "user", userID)
	evt := event.ConversationCreated{Header: event.NewHeader(saved.ID, userID, now), Title: saved.Title}
	if err := s.publish(ctx, evt); err != nil {
		return saved, err
	}
	return saved, nil
}

// GetConversation returns (nil, nil) when the id does not resolve.
func (s *ConversationService) GetConversation(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	return s.repository.GetByID(ctx, id)
}

// UpdateConversation emits ConversationTitleUpdated only when a new title is
// supplied and differs; an identical title is a read-only round trip.
func (s *ConversationService) UpdateConversation(ctx context.Context, id, actorID uuid.UUID, newTitle *string) (*domain.Conversation, error) {
	conversation, err := s.loadExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	if newTitle == nil || *newTitle == conversation.Title {
		return conversation, nil
	}
	oldTitle := conversation.Title
	now := s.clock.Now()
	if err := conversation.UpdateTitle(*newTitle, now); err != nil {
		return nil, err
	}
	saved, err := s.repository.Save(ctx, conversation)
	if err != nil {
		return nil, err
	}
	evt := event.ConversationTitleUpdated{
		Header:   event.NewHeader(id, actorID, now),
		NewTitle: saved.Title,
		OldTitle: oldTitle,
	}
	if err := s.publish(ctx, evt); err != nil {
		return saved, err
	}
	return saved, nil
}

func (s *ConversationService) ArchiveConversation(ctx context.Context, id, actorID uuid.UUID) (*domain.Conversation, error) {
	conversation, err := s.loadExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	conversation.Archive(now)
	saved, err := s.repository.Save(ctx, conversation)
	if err != nil {
		return nil, err
	}
	if err := s.publish(ctx, event.ConversationArchived{Header: event.NewHeader(id, actorID, now)}); err != nil {
		return saved, err
	}
	return saved, nil
}

func (s *ConversationService) UnarchiveConversation(ctx context.Context, id, actorID uuid.UUID) (*domain.Conversation, error) {
	conversation, err := s.loadExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	conversation.Unarchive(now)
	saved, err := s.repository.Save(ctx, conversation)
	if err != nil {
		return nil, err
	}
	if err := s.publish(ctx, event.ConversationUnarchived{Header: event.NewHeader(id, actorID, now)}); err != nil {
		return saved, err
	}
	return saved, nil
}

// DeleteConversation reports whether a conversation was actually removed.
// Deleting an absent id is (false, nil), not an error.
func (s *ConversationService) DeleteConversation(ctx context.Context, id, actorID uuid.UUID) (bool, error) {
	deleted, err := s.repository.Delete(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}
	s.log.Info("conversation deleted", "conversation", id, "user", actorID)
	if err := s.publish(ctx, event.ConversationDeleted{Header: event.NewHeader(id, actorID, s.clock.Now())}); err != nil {
		return true, err
	}
	return true, nil
}

func (s *ConversationService) AddMessage(ctx context.Context, conversationID uuid.UUID, content string, senderID uuid.UUID, messageType domain.MessageType) (*domain.Message, error) {
	conversation, err := s.loadExisting(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	message, err := domain.NewMessage(content, senderID, messageType, conversationID, now)
	if err != nil {
		return nil, err
	}
	if err := conversation.AddMessage(*message, now); err != nil {
		return nil, err
	}
	if _, err := s.repository.Save(ctx, conversation); err != nil {
		return nil, err
	}
	evt := event.MessageAdded{
		Header:      event.NewHeader(conversationID, senderID, now),
		MessageID:   message.ID,
		MessageType: message.Type,
		Content:     message.Content,
		Metadata:    message.Metadata,
	}
	if err := s.publish(ctx, evt); err != nil {
		return message, err
	}
	return message, nil
}

// GetMessages returns at most limit messages, newest first. When before is
// set, only messages strictly earlier are considered.
func (s *ConversationService) GetMessages(ctx context.Context, conversationID uuid.UUID, limit int, before *time.Time) ([]domain.Message, error) {
	conversation, err := s.loadExisting(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	messages := conversation.Messages()
	if before != nil {
		messages = lo.Filter(messages, func(m domain.Message, _ int) bool {
			return m.CreatedAt.Before(*before)
		})
	}
	return domain.NewestFirst(messages, limit), nil
}

func (s *ConversationService) GetUserConversations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Conversation, error) {
	return s.repository.GetByUser(ctx, userID, limit, offset)
}

func (s *ConversationService) loadExisting(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	conversation, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, derrors.NotFound("conversation %s", id)
	}
	return conversation, nil
}

func (s *ConversationService) publish(ctx context.Context, e event.DomainEvent) error {
	for _, sink := range s.sinks {
		if err := sink.Consume(ctx, e); err != nil {
			s.log.Warn("event delivery failed",
				"event", e.Name(), "conversation", e.ConversationID(), "error", err)
			return derrors.EventPublishing(err, "delivering %s", e.Name())
		}
	}
	return nil
}
