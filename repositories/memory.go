package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"conversation-lab/domain"
)

// InMemoryConversationRepository is a volatile adapter storing aggregates in
// a process-local map. It is safe for concurrent access and best suited for
// tests. Aggregates are cloned on the way in and out so callers never share
// repository-internal state.
type InMemoryConversationRepository struct {
	mu            sync.RWMutex
	conversations map[uuid.UUID]*domain.Conversation
}

func NewInMemoryConversationRepository() *InMemoryConversationRepository {
	return &InMemoryConversationRepository{conversations: make(map[uuid.UUID]*domain.Conversation)}
}

func (r *InMemoryConversationRepository) Save(_ context.Context, conversation *domain.Conversation) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations[conversation.ID] = conversation.Clone()
	return conversation.Clone(), nil
}

func (r *InMemoryConversationRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conversation, ok := r.conversations[id]
	if !ok {
		return nil, nil
	}
	return conversation.Clone(), nil
}

// GetByUser orders by CreatedAt descending, ties broken by id so the order
// is stable across calls with the same parameters.
func (r *InMemoryConversationRepository) GetByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Conversation, error) {
	if limit <= 0 {
		return nil, nil
	}
	r.mu.RLock()
	owned := make([]*domain.Conversation, 0)
	for _, conversation := range r.conversations {
		if conversation.CreatedBy == userID {
			owned = append(owned, conversation.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(owned, func(a, b int) bool {
		if owned[a].CreatedAt.Equal(owned[b].CreatedAt) {
			return owned[a].ID.String() < owned[b].ID.String()
		}
		return owned[a].CreatedAt.After(owned[b].CreatedAt)
	})
	return lo.Subset(owned, offset, uint(limit)), nil
}

func (r *InMemoryConversationRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conversations[id]; !ok {
		return false, nil
	}
	delete(r.conversations, id)
	return true, nil
}
