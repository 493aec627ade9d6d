package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"conversation-lab/domain"
	derrors "conversation-lab/errors"
)

// ConversationRepository persists whole aggregates in BadgerDB.
//
// Two key families are used:
//  1. "conv:{id}" holds the JSON-encoded aggregate.
//  2. "idx:user:{creator}:{timestamp_padded}:{id}" is a secondary index for
//     per-user listing. The 19-digit zero padding makes lexicographical
//     order match chronological order, and the trailing id disambiguates
//     conversations created at the same nanosecond.
type ConversationRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewConversationRepository(db *badger.DB, log *slog.Logger) ConversationRepository {
	return ConversationRepository{db: db, log: log}
}

type diskMessage struct {
	ID             uuid.UUID      `json:"id"`
	ConversationID uuid.UUID      `json:"conversation_id"`
	SenderID       uuid.UUID      `json:"sender_id"`
	Type           string         `json:"type"`
	Content        string         `json:"content"`
	CreatedAt      time.Time      `json:"created_at"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

type diskConversation struct {
	ID        uuid.UUID     `json:"id"`
	Title     string        `json:"title"`
	CreatedBy uuid.UUID     `json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Archived  bool          `json:"archived"`
	Messages  []diskMessage `json:"messages,omitempty"`
}

func recordKey(id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("conv:%s", id))
}

func userIndexKey(createdBy, id uuid.UUID, createdAt time.Time) []byte {
	return []byte(fmt.Sprintf("idx:user:%s:%019d:%s", createdBy, createdAt.UnixNano(), id))
}

func userIndexPrefix(userID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("idx:user:%s:", userID))
}

// Save upserts the record and its user index entry in one transaction.
// CreatedAt is immutable, so the index key is stable across upserts and the
// write is idempotent under retry.
func (r ConversationRepository) Save(_ context.Context, conversation *domain.Conversation) (*domain.Conversation, error) {
	bytes, err := json.Marshal(fromConversation(conversation))
	if err != nil {
		return nil, derrors.Repository(err, "encoding conversation %s", conversation.ID)
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(recordKey(conversation.ID), bytes); err != nil {
			return err
		}
		return txn.Set(userIndexKey(conversation.CreatedBy, conversation.ID, conversation.CreatedAt), conversation.ID[:])
	})
	if err != nil {
		return nil, derrors.Repository(err, "saving conversation %s", conversation.ID)
	}
	return conversation.Clone(), nil
}

// GetByID returns (nil, nil) when the id does not resolve.
func (r ConversationRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Conversation, error) {
	var record []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(id))
		if err != nil {
			return err
		}
		record, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, derrors.Repository(err, "loading conversation %s", id)
	}
	return decodeConversation(record)
}

// GetByUser walks the user index in reverse, giving CreatedAt descending.
// Offset and limit are applied while iterating so only the requested page is
// decoded.
func (r ConversationRepository) GetByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Conversation, error) {
	if limit <= 0 {
		return nil, nil
	}
	var records [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := userIndexPrefix(userID)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible timestamp, then walk backwards.
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		skipped := 0
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if skipped < offset {
				skipped++
				continue
			}
			if len(records) == limit {
				break
			}
			raw, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			id, err := uuid.FromBytes(raw)
			if err != nil {
				return err
			}
			item, err := txn.Get(recordKey(id))
			if err != nil {
				return fmt.Errorf("dangling index entry %q: %w", it.Item().Key(), err)
			}
			record, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, derrors.Repository(err, "listing conversations of user %s", userID)
	}

	conversations := make([]*domain.Conversation, 0, len(records))
	for _, record := range records {
		conversation, err := decodeConversation(record)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, conversation)
	}
	return conversations, nil
}

// Delete removes the record and its index entry, reporting whether a record
// actually existed.
func (r ConversationRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	deleted := false
	err := r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		record, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		var disk diskConversation
		if err := json.Unmarshal(record, &disk); err != nil {
			return err
		}
		if err := txn.Delete(recordKey(id)); err != nil {
			return err
		}
		if err := txn.Delete(userIndexKey(disk.CreatedBy, disk.ID, disk.CreatedAt)); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, derrors.Repository(err, "deleting conversation %s", id)
	}
	if deleted {
		r.log.Debug("conversation deleted", "conversation", id)
	}
	return deleted, nil
}

func decodeConversation(record []byte) (*domain.Conversation, error) {
	var disk diskConversation
	if err := json.Unmarshal(record, &disk); err != nil {
		return nil, derrors.Repository(err, "decoding conversation record")
	}
	return toConversation(disk), nil
}

func fromConversation(conversation *domain.Conversation) diskConversation {
	return diskConversation{
		ID:        conversation.ID,
		Title:     conversation.Title,
		CreatedBy: conversation.CreatedBy,
		CreatedAt: conversation.CreatedAt,
		UpdatedAt: conversation.UpdatedAt,
		Archived:  conversation.Archived,
		Messages: lo.Map(conversation.Messages(), func(m domain.Message, _ int) diskMessage {
			return diskMessage{
				ID:             m.ID,
				ConversationID: m.ConversationID,
				SenderID:       m.SenderID,
				Type:           string(m.Type),
				Content:        m.Content,
				CreatedAt:      m.CreatedAt,
				Metadata:       m.Metadata,
			}
		}),
	}
}

func toConversation(disk diskConversation) *domain.Conversation {
	messages := lo.Map(disk.Messages, func(m diskMessage, _ int) domain.Message {
		return domain.Message{
			ID:             m.ID,
			ConversationID: m.ConversationID,
			SenderID:       m.SenderID,
			Type:           domain.MessageType(m.Type),
			Content:        m.Content,
			CreatedAt:      m.CreatedAt,
			Metadata:       m.Metadata,
		}
	})
	return domain.Rehydrate(disk.ID, disk.Title, disk.CreatedBy, disk.CreatedAt, disk.UpdatedAt, disk.Archived, messages)
}
