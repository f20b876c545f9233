package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/chatkit/internal/tui/ui"
	"github.com/matheus3301/chatkit/internal/wire"
	"github.com/rivo/tview"
)

// ConversationList is the main chat list view.
type ConversationList struct {
	*tview.Table
	theme   *ui.Theme
	list    wire.ConversationList
	visible []wire.ConversationItem
	filter  string
}

// NewConversationList creates a new conversation list table.
func NewConversationList(theme *ui.Theme) *ConversationList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitleColor(theme.TitleColor)

	return &ConversationList{Table: table, theme: theme}
}

// Update replaces the list, keeping the cursor on the same conversation
// when it is still visible.
func (cl *ConversationList) Update(list wire.ConversationList) {
	selected := cl.Selected()
	cl.list = list
	cl.render()
	cl.selectID(selected)
}

// SetFilter narrows the list to conversations whose title or last message
// contains filter, ignoring case. An empty filter shows everything.
func (cl *ConversationList) SetFilter(filter string) {
	cl.filter = filter
	cl.render()
	cl.Select(1, 0)
}

func (cl *ConversationList) Filter() string { return cl.filter }

func (cl *ConversationList) matches(it wire.ConversationItem) bool {
	if cl.filter == "" {
		return true
	}
	f := strings.ToLower(cl.filter)
	return strings.Contains(strings.ToLower(it.Title), f) ||
		strings.Contains(strings.ToLower(it.LastMessage), f)
}

func (cl *ConversationList) render() {
	cl.Clear()

	headers := []struct {
		text string
		exp  int
	}{
		{"  ", 0},
		{" NAME", 1},
		{" LAST MESSAGE", 2},
		{" TIME", 0},
		{" UNREAD", 0},
	}
	for col, h := range headers {
		cl.SetCell(0, col, tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(cl.theme.TableHeaderFg).
			SetBackgroundColor(cl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(h.exp))
	}

	cl.visible = cl.visible[:0]
	for _, it := range cl.list.Items {
		if !cl.matches(it) {
			continue
		}
		cl.visible = append(cl.visible, it)
		row := len(cl.visible)

		fg := cl.theme.FgColor
		if it.Muted {
			fg = cl.theme.MutedColor
		}
		cl.SetCell(row, 0, tview.NewTableCell(markers(it)).SetTextColor(cl.theme.TitleColor))
		cl.SetCell(row, 1, tview.NewTableCell(" "+sanitizeLine(it.Title)).SetExpansion(1).SetTextColor(fg))
		cl.SetCell(row, 2, tview.NewTableCell(" "+sanitizeLine(it.LastMessage)).SetExpansion(2).SetMaxWidth(60).SetTextColor(fg))
		cl.SetCell(row, 3, tview.NewTableCell(" "+it.TimeLabel).SetAlign(tview.AlignRight).SetTextColor(fg))

		badge := tview.NewTableCell("").SetAlign(tview.AlignRight)
		if it.Unread > 0 {
			badge.SetText(fmt.Sprintf(" %d ", it.Unread)).SetTextColor(cl.theme.UnreadColor).SetAttributes(tcell.AttrBold)
			if it.Muted {
				badge.SetTextColor(cl.theme.MutedColor)
			}
		}
		cl.SetCell(row, 4, badge)
	}

	title := fmt.Sprintf(" Chats (%d) ", len(cl.list.Items))
	if cl.list.TotalUnread > 0 {
		title = fmt.Sprintf(" Chats (%d) [%s]%d unread[-] ", len(cl.list.Items), ui.Tag(cl.theme.UnreadColor), cl.list.TotalUnread)
	}
	if cl.filter != "" {
		title += fmt.Sprintf("filter: %s (%d) ", tview.Escape(cl.filter), len(cl.visible))
	}
	cl.SetTitle(title)
}

func markers(it wire.ConversationItem) string {
	var b strings.Builder
	b.WriteByte(' ')
	if it.Pinned {
		b.WriteString("^")
	} else {
		b.WriteString(" ")
	}
	if it.Muted {
		b.WriteString("~")
	} else if it.IsGroup {
		b.WriteString("#")
	} else {
		b.WriteString(" ")
	}
	return b.String()
}

// Selected returns the id of the conversation under the cursor.
func (cl *ConversationList) Selected() string {
	row, _ := cl.GetSelection()
	return cl.ByIndex(row)
}

// ByIndex returns the id of the nth visible conversation (1-based).
func (cl *ConversationList) ByIndex(n int) string {
	if n < 1 || n > len(cl.visible) {
		return ""
	}
	return cl.visible[n-1].ID
}

func (cl *ConversationList) selectID(id string) {
	for i, it := range cl.visible {
		if it.ID == id {
			cl.Select(i+1, 0)
			return
		}
	}
	if len(cl.visible) > 0 {
		row, _ := cl.GetSelection()
		cl.Select(min(max(row, 1), len(cl.visible)), 0)
	}
}
