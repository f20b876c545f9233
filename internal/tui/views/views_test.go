package views

import (
	"strings"
	"testing"

	"github.com/matheus3301/chatkit/internal/chat"
	"github.com/matheus3301/chatkit/internal/tui/ui"
	"github.com/matheus3301/chatkit/internal/wire"
	"github.com/stretchr/testify/assert"
)

func item(id, title, last string, pinned, muted bool, unread int) wire.ConversationItem {
	return wire.ConversationItem{Conversation: chat.Conversation{
		ID: id, Title: title, LastMessage: last, Pinned: pinned, Muted: muted, Unread: unread,
	}}
}

func testList() wire.ConversationList {
	return wire.ConversationList{
		Items: []wire.ConversationItem{
			item("g_1", "Weekend Hike", "Ann：bring water", true, false, 0),
			item("d_1", "Ann Lee", "see you", false, false, 2),
			item("d_2", "Bob", "ok", false, true, 1),
		},
		TotalUnread: 3,
	}
}

func TestConversationListFilter(t *testing.T) {
	cl := NewConversationList(ui.DefaultTheme())
	cl.Update(testList())
	assert.Equal(t, "g_1", cl.ByIndex(1))
	assert.Equal(t, "d_2", cl.ByIndex(3))
	assert.Equal(t, "", cl.ByIndex(4))
	assert.Contains(t, cl.GetTitle(), "3 unread")

	cl.SetFilter("ANN")
	assert.Equal(t, "g_1", cl.ByIndex(1), "matches last message")
	assert.Equal(t, "d_1", cl.ByIndex(2), "matches title")
	assert.Equal(t, "", cl.ByIndex(3))
	assert.Equal(t, 3, cl.GetRowCount())

	cl.SetFilter("")
	assert.Equal(t, 4, cl.GetRowCount())
}

func TestConversationListKeepsSelection(t *testing.T) {
	cl := NewConversationList(ui.DefaultTheme())
	cl.Update(testList())
	cl.Select(2, 0)
	assert.Equal(t, "d_1", cl.Selected())

	reordered := testList()
	reordered.Items[1], reordered.Items[2] = reordered.Items[2], reordered.Items[1]
	cl.Update(reordered)
	assert.Equal(t, "d_1", cl.Selected())
}

func TestMarkers(t *testing.T) {
	assert.Equal(t, " ^ ", markers(item("d", "", "", true, false, 0)))
	assert.Equal(t, "  ~", markers(item("d", "", "", false, true, 0)))

	g := item("g", "", "", false, false, 0)
	g.IsGroup = true
	assert.Equal(t, "  #", markers(g))
}

func TestContactsViewSkipsLetterRows(t *testing.T) {
	cv := NewContactsView(ui.DefaultTheme())
	cv.Update([]chat.Section{
		{Letter: "A", Contacts: []chat.Contact{{ID: "c_1", Name: "Ann"}, {ID: "c_2", Name: "Avi"}}},
		{Letter: "#", Contacts: []chat.Contact{{ID: "c_3", Name: "42"}}},
	})

	id, ok := cv.Selected()
	assert.True(t, ok)
	assert.Equal(t, "c_1", id)
	assert.Contains(t, cv.Table().GetTitle(), "(3)")

	cv.Table().Select(3, 0)
	_, ok = cv.Selected()
	assert.False(t, ok, "row 3 is the # header")
}

func TestMessageThreadRendersOldestFirst(t *testing.T) {
	mt := NewMessageThread(ui.DefaultTheme())
	mt.Update([]chat.Message{
		{ID: "m_1", SenderName: "Ann", Text: "first", At: 1_700_000_000_000},
		{ID: "m_2", SenderName: "Me", Text: "second", At: 1_700_000_060_000, Outgoing: true},
	})
	text := mt.Messages().GetText(true)
	assert.Less(t, strings.Index(text, "first"), strings.Index(text, "second"))
	assert.Contains(t, text, "You")
	assert.NotContains(t, text, "Me ")
}
