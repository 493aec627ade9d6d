package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	derrors "conversation-lab/errors"
)

func mustMessage(t *testing.T, c *Conversation, content string, at time.Time) Message {
	t.Helper()
	msg, err := NewMessage(content, uuid.New(), MessageTypeUser, c.ID, at)
	require.NoError(t, err)
	require.NoError(t, c.AddMessage(*msg, at))
	return *msg
}

func TestNewConversation(t *testing.T) {
	req := require.New(t)
	creator := uuid.New()
	now := time.Now().UTC()

	c, err := NewConversation("Trip planning", creator, now)
	req.NoError(err)
	req.NotEqual(uuid.Nil, c.ID)
	req.Equal("Trip planning", c.Title)
	req.Equal(creator, c.CreatedBy)
	req.Equal(c.CreatedAt, c.UpdatedAt)
	req.False(c.Archived)
	req.Empty(c.Messages())

	_, err = NewConversation("   ", creator, now)
	req.ErrorIs(err, derrors.ErrValidation)
}

func TestConversation_UpdateTitle(t *testing.T) {
	req := require.New(t)
	now := time.Now().UTC()
	c, err := NewConversation("before", uuid.New(), now)
	req.NoError(err)

	for _, bad := range []string{"", "   "} {
		err := c.UpdateTitle(bad, now.Add(time.Second))
		req.ErrorIs(err, derrors.ErrValidation)
		// Prior title survives a failed update
		req.Equal("before", c.Title)
		req.Equal(now, c.UpdatedAt)
	}

	req.NoError(c.UpdateTitle("after", now.Add(time.Second)))
	req.Equal("after", c.Title)
	req.Equal(now.Add(time.Second), c.UpdatedAt)
}

func TestConversation_AddMessage_AppendOnly(t *testing.T) {
	req := require.New(t)
	base := time.Now().UTC()
	c, err := NewConversation("room", uuid.New(), base)
	req.NoError(err)

	var contents []string
	for i, content := range []string{"one", "two", "three"} {
		mustMessage(t, c, content, base.Add(time.Duration(i+1)*time.Second))
		contents = append(contents, content)
		req.Len(c.Messages(), i+1)
		req.True(c.UpdatedAt.Equal(base.Add(time.Duration(i+1) * time.Second)))
	}
	for i, m := range c.Messages() {
		req.Equal(contents[i], m.Content)
		req.Equal(c.ID, m.ConversationID)
	}
}

func TestConversation_AddMessage_RejectsForeignMessage(t *testing.T) {
	req := require.New(t)
	now := time.Now().UTC()
	c, err := NewConversation("room", uuid.New(), now)
	req.NoError(err)

	foreign, err := NewMessage("hello", uuid.New(), MessageTypeUser, uuid.New(), now)
	req.NoError(err)

	err = c.AddMessage(*foreign, now)
	req.ErrorIs(err, derrors.ErrValidation)
	req.Empty(c.Messages())
}

func TestConversation_ArchiveTouchSemantics(t *testing.T) {
	req := require.New(t)
	base := time.Now().UTC()
	c, err := NewConversation("room", uuid.New(), base)
	req.NoError(err)

	c.Archive(base.Add(1 * time.Second))
	first := c.UpdatedAt
	req.True(c.Archived)

	// Archiving an already archived conversation still bumps UpdatedAt
	c.Archive(base.Add(2 * time.Second))
	req.True(c.Archived)
	req.True(c.UpdatedAt.After(first))

	c.Unarchive(base.Add(3 * time.Second))
	req.False(c.Archived)
	req.True(c.UpdatedAt.After(first))
	req.True(c.UpdatedAt.Sub(c.CreatedAt) >= 0)
}

func TestConversation_TouchIsMonotonic(t *testing.T) {
	req := require.New(t)
	base := time.Now().UTC()
	c, err := NewConversation("room", uuid.New(), base)
	req.NoError(err)

	c.Archive(base.Add(time.Minute))
	// A caller clock that went backwards must not rewind UpdatedAt
	c.Unarchive(base.Add(time.Second))
	req.True(c.UpdatedAt.Equal(base.Add(time.Minute)))
	req.False(c.Archived)
}

func TestConversation_LatestMessages(t *testing.T) {
	req := require.New(t)
	base := time.Now().UTC()
	c, err := NewConversation("room", uuid.New(), base)
	req.NoError(err)

	mustMessage(t, c, "oldest", base.Add(1*time.Second))
	middle := mustMessage(t, c, "middle", base.Add(2*time.Second))
	newest := mustMessage(t, c, "newest", base.Add(3*time.Second))

	latest := c.LatestMessages(2)
	req.Len(latest, 2)
	req.Equal(newest.ID, latest[0].ID)
	req.Equal(middle.ID, latest[1].ID)

	all := c.LatestMessages(10)
	req.Len(all, 3)
	req.Empty(c.LatestMessages(0))
}

func TestConversation_LatestMessages_TieBreak(t *testing.T) {
	req := require.New(t)
	base := time.Now().UTC()
	c, err := NewConversation("room", uuid.New(), base)
	req.NoError(err)

	at := base.Add(time.Second)
	first := mustMessage(t, c, "first", at)
	second := mustMessage(t, c, "second", at)

	// Equal timestamps: later insertions rank as more recent
	latest := c.LatestMessages(2)
	req.Equal(second.ID, latest[0].ID)
	req.Equal(first.ID, latest[1].ID)
}

func TestConversation_CloneIsIndependent(t *testing.T) {
	req := require.New(t)
	base := time.Now().UTC()
	c, err := NewConversation("room", uuid.New(), base)
	req.NoError(err)
	msg := mustMessage(t, c, "hello", base.Add(time.Second))

	cp := c.Clone()
	req.NoError(cp.UpdateTitle("changed", base.Add(time.Minute)))
	cp.messages[0].Content = "tampered"
	cp.messages[0].Metadata = map[string]any{"x": 1}

	req.Equal("room", c.Title)
	req.Equal("hello", c.Messages()[0].Content)
	req.Equal(msg.ID, c.Messages()[0].ID)
}
