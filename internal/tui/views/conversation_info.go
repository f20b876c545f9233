package views

import (
	"fmt"
	"time"

	"github.com/matheus3301/chatkit/internal/chat"
	"github.com/matheus3301/chatkit/internal/tui/ui"
	"github.com/matheus3301/chatkit/internal/wire"
	"github.com/rivo/tview"
)

// ConversationInfo displays detailed information about a conversation.
type ConversationInfo struct {
	*tview.TextView
	theme *ui.Theme
}

// NewConversationInfo creates a new conversation info view.
func NewConversationInfo(theme *ui.Theme) *ConversationInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Details ")
	tv.SetTitleColor(theme.TitleColor)

	return &ConversationInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders conversation details. peer is the other party of a
// direct conversation and is ignored for groups.
func (ci *ConversationInfo) Update(conv wire.ConversationItem, peer *chat.Contact) {
	ci.Clear()

	kind := "Direct"
	if conv.IsGroup {
		kind = "Group"
	}
	last := "-"
	if conv.LastMessageAt > 0 {
		last = time.UnixMilli(conv.LastMessageAt).Format("2006-01-02 15:04")
	}

	rows := [][2]string{
		{"Title", conv.Title},
		{"ID", conv.ID},
		{"Type", kind},
		{"Pinned", yesNo(conv.Pinned)},
		{"Muted", yesNo(conv.Muted)},
		{"Unread", fmt.Sprint(conv.Unread)},
		{"Last active", last},
		{"Last message", conv.LastMessage},
	}
	if peer != nil && !conv.IsGroup {
		rows = append(rows,
			[2]string{"Phone", peer.Phone},
			[2]string{"Username", peer.Username},
			[2]string{"Seen", peer.LastSeenText},
		)
	}
	writeRows(ci.TextView, ci.theme, rows)
	ci.SetTitle(fmt.Sprintf(" %s ", sanitizeLine(conv.Title)))
}

func writeRows(w *tview.TextView, theme *ui.Theme, rows [][2]string) {
	fg, ct := ui.Tag(theme.FgColor), ui.Tag(theme.CounterColor)
	_, _ = fmt.Fprintln(w)
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		_, _ = fmt.Fprintf(w, " [%s::b]%-13s[-:-:-] [%s]%s[-]\n", fg, r[0]+":", ct, sanitizeLine(r[1]))
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
