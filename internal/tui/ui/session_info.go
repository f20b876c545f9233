package ui

import (
	"fmt"
	"time"

	"github.com/matheus3301/chatkit/internal/wire"
	"github.com/rivo/tview"
)

// SessionInfo displays session metadata in the header.
type SessionInfo struct {
	*tview.TextView
	theme *Theme
}

// NewSessionInfo creates a new session info panel.
func NewSessionInfo(theme *Theme) *SessionInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &SessionInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the daemon status.
func (si *SessionInfo) Update(st wire.Status) {
	si.Clear()
	if st.Session == "" {
		return
	}

	fg, val := Tag(si.theme.FgColor), Tag(si.theme.CounterColor)
	row := func(label, value string) string {
		return fmt.Sprintf("[%s::b]%-8s[-:-:-] [%s]%s[-]\n", fg, label+":", val, tview.Escape(value))
	}

	checkpoint := "never"
	if !st.LastCheckpoint.IsZero() {
		checkpoint = st.LastCheckpoint.Format("15:04:05")
	}
	if st.CheckpointPending {
		checkpoint += " *"
	}

	_, _ = fmt.Fprint(si,
		row("Session", st.Session)+
			row("Me", st.IdentityName)+
			row("Status", st.State)+
			row("Chats", fmt.Sprintf("%d (%d unread)", st.Conversations, st.TotalUnread))+
			row("Msgs", fmt.Sprintf("%d", st.Messages))+
			row("Saved", checkpoint)+
			row("Uptime", formatDuration(st.Uptime)),
	)
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
