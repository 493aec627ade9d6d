package sink

import (
	"context"
	"fmt"
	"log/slog"

	"conversation-lab/domain/event"
	"conversation-lab/search"
)

// SearchSink feeds the full-text message index from MessageAdded events.
// Other event kinds are ignored.
type SearchSink struct {
	index *search.MessageIndex
	log   *slog.Logger
}

func NewSearchSink(index *search.MessageIndex, log *slog.Logger) SearchSink {
	return SearchSink{index: index, log: log}
}

func (s SearchSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageAdded:
		return s.index.Index(search.Entry{
			MessageID:      evt.MessageID,
			ConversationID: evt.ConversationID(),
			SenderID:       evt.TriggeredBy(),
			Content:        evt.Content,
			At:             evt.OccurredAt(),
		})
	default:
		s.log.Debug(fmt.Sprintf("Not indexed event : %v", e.Name()))
		return nil
	}
}
