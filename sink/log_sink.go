// Package sink provides EventSink implementations: consumers that accept
// emitted domain events for downstream use.
package sink

import (
	"context"
	"log/slog"

	"conversation-lab/domain/event"
)

// LogSink writes every consumed event to the structured log. Useful as an
// audit trail and as the default sink in smoke setups.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) LogSink {
	return LogSink{log: log}
}

func (s LogSink) Consume(_ context.Context, e event.DomainEvent) error {
	s.log.Info("domain event",
		"event", e.Name(),
		"event_id", e.EventID(),
		"conversation", e.ConversationID(),
		"actor", e.TriggeredBy(),
		"at", e.OccurredAt(),
	)
	return nil
}
