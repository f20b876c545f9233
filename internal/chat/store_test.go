package chat

import (
	"fmt"
	"testing"
	"time"

	"github.com/matheus3301/chatkit/internal/bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock returns a fixed time that tests can advance.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func sequentialIDs() func(string) string {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s_%d", prefix, n)
	}
}

func newTestStore(t *testing.T, opts ...Option) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 14, 15, 9, 26, 0, time.Local)}
	base := []Option{WithClock(clock.Now), WithIDGenerator(sequentialIDs())}
	return New(append(base, opts...)...), clock
}

func seededStore(t *testing.T, opts ...Option) (*Store, *fakeClock) {
	t.Helper()
	s, clock := newTestStore(t, opts...)
	require.True(t, s.EnsureSeeded())
	return s, clock
}

func TestEnsureSeededOnlyOnce(t *testing.T) {
	s, _ := newTestStore(t)

	require.True(t, s.EnsureSeeded())
	assert.Len(t, s.Contacts(), 3)
	assert.Len(t, s.Conversations(), 3)
	assert.Len(t, s.Messages("g_1"), 3)
	assert.Len(t, s.Messages("d_1"), 2)
	assert.Len(t, s.Messages("g_2"), 1)

	s.SendText("g_1", "after seed")
	assert.False(t, s.EnsureSeeded(), "second seed must be a no-op")
	assert.Len(t, s.Messages("g_1"), 4)
}

func TestEnsureSeededSkipsWhenOnlyConversationsRemain(t *testing.T) {
	s, _ := newTestStore(t)
	s.Restore(&Snapshot{Conversations: []Conversation{{ID: "x"}}})

	assert.False(t, s.EnsureSeeded())
	assert.Empty(t, s.Contacts())
}

func TestSeedOutgoingMessagesUseLocalIdentity(t *testing.T) {
	s, clock := seededStore(t, WithIdentity("u_me", "Ana"))

	msgs := s.Messages("d_1")
	require.Len(t, msgs, 2)
	assert.True(t, msgs[1].Outgoing)
	assert.Equal(t, "u_me", msgs[1].SenderID)
	assert.Equal(t, "Ana", msgs[1].SenderName)
	assert.Equal(t, clock.Now().Add(-90*time.Minute).UnixMilli(), msgs[1].At)

	conv, ok := s.Conversation("d_1")
	require.True(t, ok)
	assert.Equal(t, "Lin", conv.Title, "direct conversation title comes from the peer")
	assert.Equal(t, "c_1", conv.PeerContactID)
}

func TestLookups(t *testing.T) {
	s, _ := seededStore(t)

	_, ok := s.Conversation("missing")
	assert.False(t, ok)
	_, ok = s.Contact("missing")
	assert.False(t, ok)

	msgs := s.Messages("missing")
	assert.NotNil(t, msgs)
	assert.Empty(t, msgs)

	c, ok := s.Contact("c_3")
	require.True(t, ok)
	assert.Equal(t, "Jiang Ying", c.Name)
}

func TestMessagesReturnsCopy(t *testing.T) {
	s, _ := seededStore(t)

	msgs := s.Messages("g_1")
	msgs[0].Text = "tampered"
	assert.NotEqual(t, "tampered", s.Messages("g_1")[0].Text)
}

func TestReadUnread(t *testing.T) {
	s, _ := seededStore(t)

	conv, ok := s.OpenConversation("g_1")
	require.True(t, ok)
	assert.Equal(t, 0, conv.Unread)

	conv, _ = s.MarkUnread("g_1")
	assert.Equal(t, 1, conv.Unread, "0 -> 1")

	conv, _ = s.MarkUnread("g_2")
	assert.Equal(t, 3, conv.Unread, "positive count is kept")

	conv, _ = s.MarkRead("g_2")
	assert.Equal(t, 0, conv.Unread)

	_, ok = s.MarkUnread("missing")
	assert.False(t, ok)
	_, ok = s.MarkRead("missing")
	assert.False(t, ok)
}

func TestToggles(t *testing.T) {
	s, _ := seededStore(t)

	conv, ok := s.TogglePin("d_1")
	require.True(t, ok)
	assert.True(t, conv.Pinned)
	conv, _ = s.TogglePin("d_1")
	assert.False(t, conv.Pinned)

	conv, ok = s.ToggleMute("g_2")
	require.True(t, ok)
	assert.False(t, conv.Muted)

	before := s.Version()
	_, ok = s.ToggleMute("missing")
	assert.False(t, ok)
	assert.Equal(t, before, s.Version(), "no-op must not bump the version")
}

func TestDeleteConversationRemovesMessages(t *testing.T) {
	s, _ := seededStore(t)
	convs, msgs := s.Stats()
	assert.Equal(t, 3, convs)
	assert.Equal(t, 6, msgs)

	require.True(t, s.DeleteConversation("g_1"))
	convs, msgs = s.Stats()
	assert.Equal(t, 2, convs)
	assert.Equal(t, 3, msgs)
	_, ok := s.Conversation("g_1")
	assert.False(t, ok)
	assert.Empty(t, s.Messages("g_1"))
	assert.Len(t, s.Conversations(), 2)
	assert.NotContains(t, s.Snapshot().MessagesByConvID, "g_1")

	assert.False(t, s.DeleteConversation("g_1"))
	assert.Len(t, s.Conversations(), 2)
}

func TestCreateOrGetDirectConversation(t *testing.T) {
	s, clock := seededStore(t)

	existing, ok := s.CreateOrGetDirectConversation("c_1")
	require.True(t, ok)
	assert.Equal(t, "d_1", existing.ID)

	clock.Advance(time.Minute)
	created, ok := s.CreateOrGetDirectConversation("c_3")
	require.True(t, ok)
	assert.Equal(t, "Jiang Ying", created.Title)
	assert.Equal(t, "c_3", created.PeerContactID)
	assert.Equal(t, 0, created.Unread)
	assert.Empty(t, created.LastMessage)
	assert.Equal(t, clock.Now().UnixMilli(), created.LastMessageAt)
	assert.Equal(t, created.ID, s.Conversations()[0].ID, "new conversation is prepended")
	assert.Contains(t, s.Snapshot().MessagesByConvID, created.ID)

	again, ok := s.CreateOrGetDirectConversation("c_3")
	require.True(t, ok)
	assert.Equal(t, created.ID, again.ID)
	assert.Len(t, s.Conversations(), 4)

	_, ok = s.CreateOrGetDirectConversation("nobody")
	assert.False(t, ok)
	_, ok = s.CreateOrGetDirectConversation("nobody")
	assert.False(t, ok)
	assert.Len(t, s.Conversations(), 4)
}

func TestGroupConversationIsNotDirectMatch(t *testing.T) {
	s, _ := newTestStore(t)
	s.Restore(&Snapshot{
		Contacts:      []Contact{{ID: "c_1", Name: "Lin"}},
		Conversations: []Conversation{{ID: "g", IsGroup: true, PeerContactID: "c_1"}},
	})

	conv, ok := s.CreateOrGetDirectConversation("c_1")
	require.True(t, ok)
	assert.NotEqual(t, "g", conv.ID)
}

func TestSendText(t *testing.T) {
	s, clock := seededStore(t)
	clock.Advance(time.Minute)

	msg, ok := s.SendText("g_2", "  hello there \n")
	require.True(t, ok)
	assert.Equal(t, "hello there", msg.Text)
	assert.True(t, msg.Outgoing)
	assert.Equal(t, DefaultMeID, msg.SenderID)
	assert.Equal(t, DefaultMeName, msg.SenderName)
	assert.Equal(t, MessageText, msg.Type)

	msgs := s.Messages("g_2")
	assert.Equal(t, msg, msgs[len(msgs)-1])

	conv, _ := s.Conversation("g_2")
	assert.Equal(t, "hello there", conv.LastMessage)
	assert.Equal(t, clock.Now().UnixMilli(), conv.LastMessageAt)
	assert.Equal(t, 3, conv.Unread, "own messages do not touch unread")
}

func TestSendTextBlankIsNoop(t *testing.T) {
	s, clock := seededStore(t)
	before, _ := s.Conversation("d_1")
	clock.Advance(time.Hour)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, ok := s.SendText("d_1", text)
		assert.False(t, ok)
	}

	after, _ := s.Conversation("d_1")
	assert.Equal(t, before, after)
	assert.Len(t, s.Messages("d_1"), 2)
}

func TestSendTextUnknownConversationIsNoop(t *testing.T) {
	s, _ := seededStore(t)

	_, ok := s.SendText("missing", "hi")
	assert.False(t, ok)
	assert.NotContains(t, s.Snapshot().MessagesByConvID, "missing")
}

func TestSimulateIncomingGroup(t *testing.T) {
	s, _ := seededStore(t)

	msg, ok := s.SimulateIncomingText("g_1", " ping ")
	require.True(t, ok)
	assert.False(t, msg.Outgoing)
	assert.Equal(t, "u_1", msg.SenderID)
	assert.Equal(t, "Alex", msg.SenderName)

	conv, _ := s.Conversation("g_1")
	assert.Equal(t, "Alex：ping", conv.LastMessage)
	assert.Equal(t, 3, conv.Unread)
}

func TestSimulateIncomingDirect(t *testing.T) {
	s, _ := seededStore(t)

	msg, ok := s.SimulateIncomingText("d_1", "yo")
	require.True(t, ok)
	assert.Equal(t, "c_1", msg.SenderID)
	assert.Equal(t, "Lin", msg.SenderName)

	conv, _ := s.Conversation("d_1")
	assert.Equal(t, "yo", conv.LastMessage)
	assert.Equal(t, 1, conv.Unread)
}

func TestSimulateIncomingMissingPeer(t *testing.T) {
	s, _ := newTestStore(t)
	s.Restore(&Snapshot{Conversations: []Conversation{
		{ID: "d_x", PeerContactID: "gone"},
		{ID: "d_y"},
	}})

	msg, ok := s.SimulateIncomingText("d_x", "hi")
	require.True(t, ok)
	assert.Equal(t, "gone", msg.SenderID)
	assert.Equal(t, "Peer", msg.SenderName)

	msg, ok = s.SimulateIncomingText("d_y", "hi")
	require.True(t, ok)
	assert.Equal(t, "u_1", msg.SenderID)
}

func TestSimulateIncomingNoops(t *testing.T) {
	s, _ := seededStore(t)

	_, ok := s.SimulateIncomingText("g_1", "  ")
	assert.False(t, ok)
	_, ok = s.SimulateIncomingText("missing", "hi")
	assert.False(t, ok)

	conv, _ := s.Conversation("g_1")
	assert.Equal(t, 2, conv.Unread)
}

func TestMessageOrderFollowsCallOrder(t *testing.T) {
	s, clock := seededStore(t)
	conv, _ := s.CreateOrGetDirectConversation("c_2")

	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		if i%2 == 0 {
			s.SendText(conv.ID, fmt.Sprint(i))
		} else {
			s.SimulateIncomingText(conv.ID, fmt.Sprint(i))
		}
	}

	msgs := s.Messages(conv.ID)
	require.Len(t, msgs, 5)
	for i, m := range msgs {
		assert.Equal(t, fmt.Sprint(i), m.Text)
		if i > 0 {
			assert.Greater(t, m.At, msgs[i-1].At)
		}
	}
}

func TestMutationsPublishEvents(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("chat.", 16)
	defer unsub()

	s, _ := seededStore(t, WithBus(b))
	s.SendText("g_1", "hi")
	s.TogglePin("missing")
	s.DeleteConversation("g_2")

	var kinds []string
	for len(ch) > 0 {
		kinds = append(kinds, (<-ch).Kind)
	}
	assert.Equal(t, []string{bus.Seeded, bus.MessageAppended, bus.ConversationDeleted}, kinds)
}

func TestDefaultIDsArePrefixedAndUnique(t *testing.T) {
	s := New()
	s.EnsureSeeded()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		msg, ok := s.SendText("g_1", "x")
		require.True(t, ok)
		assert.Regexp(t, `^m_[0-9a-f-]{36}$`, msg.ID)
		assert.False(t, seen[msg.ID], "duplicate id %s", msg.ID)
		seen[msg.ID] = true
	}
}
