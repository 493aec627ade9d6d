package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"conversation-lab/domain"
)

func TestInMemoryRepository_CloneIsolation(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewInMemoryConversationRepository()

	base := time.Now().UTC()
	conversation, err := domain.NewConversation("original", uuid.New(), base)
	req.NoError(err)
	_, err = repository.Save(ctx, conversation)
	req.NoError(err)

	// Mutating the aggregate after Save must not affect the stored copy
	req.NoError(conversation.UpdateTitle("mutated after save", base.Add(time.Second)))

	fetched, err := repository.GetByID(ctx, conversation.ID)
	req.NoError(err)
	req.Equal("original", fetched.Title)

	// Mutating a fetched aggregate must not affect the stored copy either
	req.NoError(fetched.UpdateTitle("mutated after get", base.Add(time.Second)))
	again, err := repository.GetByID(ctx, conversation.ID)
	req.NoError(err)
	req.Equal("original", again.Title)
}

func TestInMemoryRepository_GetByUser_StableOrder(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewInMemoryConversationRepository()

	creator := uuid.New()
	base := time.Now().UTC()
	for i, title := range []string{"oldest", "middle", "newest"} {
		conversation, err := domain.NewConversation(title, creator, base.Add(time.Duration(i)*time.Minute))
		req.NoError(err)
		_, err = repository.Save(ctx, conversation)
		req.NoError(err)
	}

	first, err := repository.GetByUser(ctx, creator, 10, 0)
	req.NoError(err)
	second, err := repository.GetByUser(ctx, creator, 10, 0)
	req.NoError(err)
	req.Equal(first, second)
	req.Equal("newest", first[0].Title)
	req.Equal("oldest", first[2].Title)

	page, err := repository.GetByUser(ctx, creator, 2, 2)
	req.NoError(err)
	req.Len(page, 1)
	req.Equal("oldest", page[0].Title)
}

func TestInMemoryRepository_Delete(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewInMemoryConversationRepository()

	conversation, err := domain.NewConversation("ephemeral", uuid.New(), time.Now().UTC())
	req.NoError(err)
	_, err = repository.Save(ctx, conversation)
	req.NoError(err)

	deleted, err := repository.Delete(ctx, conversation.ID)
	req.NoError(err)
	req.True(deleted)

	fetched, err := repository.GetByID(ctx, conversation.ID)
	req.NoError(err)
	req.Nil(fetched)

	deleted, err = repository.Delete(ctx, conversation.ID)
	req.NoError(err)
	req.False(deleted)
}
