package views

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/chatkit/internal/chat"
	"github.com/matheus3301/chatkit/internal/tui/ui"
	"github.com/matheus3301/chatkit/internal/wire"
	"github.com/rivo/tview"
)

// MessageThread displays messages and a composer for a single conversation.
type MessageThread struct {
	*tview.Flex
	theme    *ui.Theme
	messages *tview.TextView
	composer *tview.InputField
	conv     wire.ConversationItem
	onSend   func(text string)
	onLeave  func()
}

// NewMessageThread creates a new message thread view.
func NewMessageThread(theme *ui.Theme) *MessageThread {
	messages := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	messages.SetBorder(true)
	messages.SetBorderColor(theme.BorderColor)
	messages.SetBackgroundColor(theme.BgColor)
	messages.SetTextColor(theme.FgColor)
	messages.SetTitleColor(theme.TitleColor)

	composer := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)
	composer.SetBorder(true)
	composer.SetBorderColor(theme.BorderColor)
	composer.SetBackgroundColor(theme.BgColor)
	composer.SetFieldBackgroundColor(theme.BgColor)
	composer.SetFieldTextColor(theme.FgColor)
	composer.SetLabelColor(theme.MenuKeyColor)
	composer.SetTitle(" Compose (i) ")
	composer.SetTitleColor(theme.TitleColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(messages, 0, 1, true).
		AddItem(composer, 3, 0, false)

	mt := &MessageThread{
		Flex:     flex,
		theme:    theme,
		messages: messages,
		composer: composer,
	}

	composer.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			if mt.onSend != nil {
				mt.onSend(composer.GetText())
			}
			composer.SetText("")
		case tcell.KeyEscape:
			if mt.onLeave != nil {
				mt.onLeave()
			}
		}
	})

	return mt
}

// SetConversation sets the header for the open conversation.
func (mt *MessageThread) SetConversation(conv wire.ConversationItem) {
	mt.conv = conv
	title := " " + sanitizeLine(conv.Title) + " "
	switch {
	case conv.IsGroup && conv.Muted:
		title += "(group, muted) "
	case conv.IsGroup:
		title += "(group) "
	case conv.Muted:
		title += "(muted) "
	}
	mt.messages.SetTitle(title)
}

func (mt *MessageThread) Conversation() wire.ConversationItem { return mt.conv }

// SetOnSend sets the callback for submitted composer text. Blank text is
// passed through; the daemon decides whether to send it.
func (mt *MessageThread) SetOnSend(fn func(text string)) {
	mt.onSend = fn
}

// SetOnLeaveComposer sets the callback for Esc inside the composer.
func (mt *MessageThread) SetOnLeaveComposer(fn func()) {
	mt.onLeave = fn
}

// Update renders msgs, oldest first.
func (mt *MessageThread) Update(msgs []chat.Message) {
	mt.messages.Clear()

	var lastDay string
	for _, m := range msgs {
		at := time.UnixMilli(m.At)
		if day := at.Format("Mon, 02 Jan 2006"); day != lastDay {
			_, _ = fmt.Fprintf(mt.messages, "[%s::d]-- %s --[-:-:-]\n\n", ui.Tag(mt.theme.MutedColor), day)
			lastDay = day
		}

		sender, color := m.SenderName, mt.theme.CounterColor
		if m.Outgoing {
			sender, color = "You", mt.theme.OutgoingColor
		}
		_, _ = fmt.Fprintf(mt.messages, "[%s::b]%s[-:-:-] [::d]%s[-:-:-]\n%s\n\n",
			ui.Tag(color), sanitizeLine(sender), at.Format("15:04"), sanitize(m.Text))
	}

	mt.messages.ScrollToEnd()
}

// Messages returns the messages text view (for focus management).
func (mt *MessageThread) Messages() *tview.TextView {
	return mt.messages
}

// Composer returns the composer input field (for focus management).
func (mt *MessageThread) Composer() *tview.InputField {
	return mt.composer
}
