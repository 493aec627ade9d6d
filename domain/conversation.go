package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	derrors "conversation-lab/errors"
)

// Conversation is the aggregate root: it owns an ordered, append-only
// sequence of messages and guards the title/timestamp invariants.
// It is not safe for concurrent mutation; callers serialize per aggregate.
type Conversation struct {
	ID        uuid.UUID
	Title     string
	CreatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	Archived  bool
	messages  []Message
}

// NewConversation builds an empty, unarchived conversation with both
// timestamps set to now.
func NewConversation(title string, createdBy uuid.UUID, now time.Time) (*Conversation, error) {
	if strings.TrimSpace(title) == "" {
		return nil, derrors.Validation("conversation title cannot be empty")
	}
	return &Conversation{
		ID:        uuid.New(),
		Title:     title,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Rehydrate rebuilds an aggregate from persisted state. Storage adapters are
// trusted; no invariant re-validation happens here.
func Rehydrate(id uuid.UUID, title string, createdBy uuid.UUID, createdAt, updatedAt time.Time, archived bool, messages []Message) *Conversation {
	return &Conversation{
		ID:        id,
		Title:     title,
		CreatedBy: createdBy,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		Archived:  archived,
		messages:  messages,
	}
}

// AddMessage appends to the history. A message carrying another
// conversation's id is rejected.
func (c *Conversation) AddMessage(message Message, now time.Time) error {
	if message.ConversationID != c.ID {
		return derrors.Validation("message belongs to conversation %s, not %s", message.ConversationID, c.ID)
	}
	c.messages = append(c.messages, message)
	c.touch(now)
	return nil
}

// UpdateTitle replaces the title. On validation failure the previous title
// is kept.
func (c *Conversation) UpdateTitle(newTitle string, now time.Time) error {
	if strings.TrimSpace(newTitle) == "" {
		return derrors.Validation("conversation title cannot be empty")
	}
	c.Title = newTitle
	c.touch(now)
	return nil
}

// Archive marks the conversation archived. Calling it on an already archived
// conversation still bumps UpdatedAt: touch semantics, not a no-op.
func (c *Conversation) Archive(now time.Time) {
	c.Archived = true
	c.touch(now)
}

// Unarchive restores an archived conversation. Same touch semantics as
// Archive.
func (c *Conversation) Unarchive(now time.Time) {
	c.Archived = false
	c.touch(now)
}

// Messages returns the history in insertion order. The slice is a copy.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	for i, m := range c.messages {
		out[i] = m.clone()
	}
	return out
}

// LatestMessages returns at most limit messages, newest first. Equal
// timestamps are ordered by insertion sequence, later insertions ranking as
// more recent, so the result is deterministic.
func (c *Conversation) LatestMessages(limit int) []Message {
	return NewestFirst(c.Messages(), limit)
}

// NewestFirst orders messages by CreatedAt descending and truncates to
// limit. The input slice is taken to be in insertion order; equal timestamps
// keep that order reversed, so later insertions rank as more recent.
func NewestFirst(messages []Message, limit int) []Message {
	if limit <= 0 {
		return nil
	}
	indexes := make([]int, len(messages))
	for i := range indexes {
		indexes[i] = i
	}
	sort.SliceStable(indexes, func(a, b int) bool {
		ma, mb := messages[indexes[a]], messages[indexes[b]]
		if ma.CreatedAt.Equal(mb.CreatedAt) {
			return indexes[a] > indexes[b]
		}
		return ma.CreatedAt.After(mb.CreatedAt)
	})
	if limit > len(indexes) {
		limit = len(indexes)
	}
	out := make([]Message, 0, limit)
	for _, i := range indexes[:limit] {
		out = append(out, messages[i])
	}
	return out
}

// Clone deep-copies the aggregate so adapters never hand out shared state.
func (c *Conversation) Clone() *Conversation {
	cp := *c
	cp.messages = make([]Message, len(c.messages))
	for i, m := range c.messages {
		cp.messages[i] = m.clone()
	}
	return &cp
}

// touch keeps UpdatedAt monotonically non-decreasing even if the caller's
// clock went backwards.
func (c *Conversation) touch(now time.Time) {
	if now.After(c.UpdatedAt) {
		c.UpdatedAt = now
	}
}
