package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortedConversations(t *testing.T) {
	s, _ := newTestStore(t)
	s.Restore(&Snapshot{Conversations: []Conversation{
		{ID: "old", LastMessageAt: 100},
		{ID: "pinned-old", Pinned: true, LastMessageAt: 50},
		{ID: "new", LastMessageAt: 300},
		{ID: "pinned-new", Pinned: true, LastMessageAt: 400},
		{ID: "tie-a", LastMessageAt: 200},
		{ID: "tie-b", LastMessageAt: 200},
	}})

	var ids []string
	for _, c := range s.SortedConversations() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"pinned-new", "pinned-old", "new", "tie-a", "tie-b", "old"}, ids)

	// Stored order is untouched.
	assert.Equal(t, "old", s.Conversations()[0].ID)
}

func TestSortedConversationsIsPermutation(t *testing.T) {
	s, _ := seededStore(t)
	s.CreateOrGetDirectConversation("c_3")
	s.TogglePin("g_2")

	sorted := s.SortedConversations()
	assert.ElementsMatch(t, s.Conversations(), sorted)
	for i := 1; i < len(sorted); i++ {
		a, b := sorted[i-1], sorted[i]
		if a.Pinned == b.Pinned {
			assert.GreaterOrEqual(t, a.LastMessageAt, b.LastMessageAt)
		} else {
			assert.True(t, a.Pinned)
		}
	}
}

func TestTotalUnread(t *testing.T) {
	s, _ := seededStore(t)
	assert.Equal(t, 5, s.TotalUnread())

	s.SimulateIncomingText("d_1", "hi")
	assert.Equal(t, 6, s.TotalUnread())

	s.MarkRead("g_2")
	assert.Equal(t, 3, s.TotalUnread())

	s.DeleteConversation("g_1")
	assert.Equal(t, 1, s.TotalUnread())
}

func TestContactsBySections(t *testing.T) {
	s, _ := newTestStore(t)
	s.Restore(&Snapshot{Contacts: []Contact{
		{ID: "1", Name: "bob"},
		{ID: "2", Name: "190 7542"},
		{ID: "3", Name: "Alice"},
		{ID: "4", Name: "  "},
		{ID: "5", Name: "Ángel"},
		{ID: "6", Name: "ben"},
		{ID: "7", Name: "Zoe"},
		{ID: "8", Name: "alan"},
	}})

	sections := s.ContactsBySections()

	var letters []string
	names := make(map[string][]string)
	for _, sec := range sections {
		letters = append(letters, sec.Letter)
		for _, c := range sec.Contacts {
			names[sec.Letter] = append(names[sec.Letter], c.Name)
		}
	}
	assert.Equal(t, []string{"A", "B", "Z", "#"}, letters)
	assert.Equal(t, []string{"alan", "Alice"}, names["A"])
	assert.Equal(t, []string{"ben", "bob"}, names["B"])
	assert.ElementsMatch(t, []string{"190 7542", "  ", "Ángel"}, names["#"])
}

func TestContactsBySectionsEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Empty(t, s.ContactsBySections())
}

func TestSectionLetter(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"alice", "A"},
		{"Zed", "Z"},
		{"  mike", "M"},
		{"", "#"},
		{"   ", "#"},
		{"9lives", "#"},
		{"Élodie", "#"},
		{"龙", "#"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SectionLetter(tt.name))
		})
	}
}

func TestFormatTimeLabel(t *testing.T) {
	loc := time.FixedZone("test", 8*60*60)
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, loc)
	ms := func(t time.Time) int64 { return t.UnixMilli() }

	tests := []struct {
		name string
		ts   time.Time
		want string
	}{
		{"same day", time.Date(2026, 3, 14, 0, 5, 0, 0, loc), "00:05"},
		{"same day later", time.Date(2026, 3, 14, 23, 59, 0, 0, loc), "23:59"},
		{"yesterday late", time.Date(2026, 3, 13, 23, 59, 0, 0, loc), "yesterday"},
		// More than 24h ago but still the previous calendar day.
		{"yesterday early", time.Date(2026, 3, 13, 0, 1, 0, 0, loc), "yesterday"},
		{"two days", time.Date(2026, 3, 12, 23, 0, 0, 0, loc), "03-12"},
		{"last year", time.Date(2025, 12, 31, 12, 0, 0, 0, loc), "12-31"},
		{"future day", time.Date(2026, 3, 15, 8, 0, 0, 0, loc), "03-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTimeLabel(now, ms(tt.ts), "yesterday"))
		})
	}
}

func TestFormatTimeLabelYesterdayAcrossMonth(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	ts := time.Date(2026, 2, 28, 20, 0, 0, 0, time.UTC).UnixMilli()
	assert.Equal(t, "昨天", FormatTimeLabel(now, ts, "昨天"))
}

func TestConversationTimeLabel(t *testing.T) {
	s, clock := seededStore(t, WithYesterdayLabel("Yesterday"))

	conv, ok := s.Conversation("g_1")
	require.True(t, ok)
	assert.Equal(t, clock.Now().Add(-12*time.Minute).Format("15:04"), s.ConversationTimeLabel(conv))

	clock.Advance(24 * time.Hour)
	assert.Equal(t, "Yesterday", s.ConversationTimeLabel(conv))

	clock.Advance(24 * time.Hour)
	assert.Equal(t, "03-14", s.ConversationTimeLabel(conv))
}
