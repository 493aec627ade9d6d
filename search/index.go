// Package search maintains a Bluge full-text index over message content,
// a read model fed from MessageAdded events.
package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

// Entry is one indexed message.
type Entry struct {
	MessageID      uuid.UUID
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Content        string
	At             time.Time
}

// Hit is a search result rebuilt from stored fields.
type Hit struct {
	MessageID      uuid.UUID
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Content        string
}

type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(path string, log *slog.Logger) (*MessageIndex, error) {
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(path))
	if err != nil {
		return nil, err
	}
	return &MessageIndex{writer: writer, log: log}, nil
}

// Index upserts the entry, keyed by message id. Re-indexing the same message
// replaces the previous document.
func (i *MessageIndex) Index(entry Entry) error {
	doc := bluge.NewDocument(entry.MessageID.String()).
		AddField(bluge.NewTextField("content", entry.Content).StoreValue()).
		AddField(bluge.NewKeywordField("conversation_id", entry.ConversationID.String()).StoreValue()).
		AddField(bluge.NewKeywordField("sender_id", entry.SenderID.String()).StoreValue()).
		AddField(bluge.NewDateTimeField("at", entry.At))
	return i.writer.Update(doc.ID(), doc)
}

// Search matches terms against message content, optionally scoped to one
// conversation (pass uuid.Nil to search across all of them).
func (i *MessageIndex) Search(ctx context.Context, conversationID uuid.UUID, terms string, limit int) ([]Hit, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(terms).SetField("content"))
	if conversationID != uuid.Nil {
		query.AddMust(bluge.NewTermQuery(conversationID.String()).SetField("conversation_id"))
	}

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		var hit Hit
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID, _ = uuid.Parse(string(value))
			case "conversation_id":
				hit.ConversationID, _ = uuid.Parse(string(value))
			case "sender_id":
				hit.SenderID, _ = uuid.Parse(string(value))
			case "content":
				hit.Content = string(value)
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func (i *MessageIndex) Close() error {
	return i.writer.Close()
}
