package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/matheus3301/chatkit/internal/chat"
	"github.com/matheus3301/chatkit/internal/wire"
)

type printer struct {
	w    io.Writer
	json bool
}

// emit writes v as indented JSON in --json mode, otherwise calls human
// with a tab-aligned writer.
func (p *printer) emit(v any, human func(w io.Writer)) error {
	if p.json {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	human(tw)
	return tw.Flush()
}

func flags(it wire.ConversationItem) string {
	f := []byte("---")
	if it.Pinned {
		f[0] = 'P'
	}
	if it.Muted {
		f[1] = 'M'
	}
	if it.IsGroup {
		f[2] = 'G'
	}
	return string(f)
}

func writeConversations(w io.Writer, list wire.ConversationList) {
	_, _ = fmt.Fprintln(w, "ID\tFLAGS\tUNREAD\tTIME\tTITLE\tLAST MESSAGE")
	for _, it := range list.Items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n", it.ID, flags(it), it.Unread, it.TimeLabel, it.Title, truncate(it.LastMessage, 48))
	}
	_, _ = fmt.Fprintf(w, "\n%d conversations, %d unread\n", len(list.Items), list.TotalUnread)
}

func writeConversation(w io.Writer, it wire.ConversationItem) {
	_, _ = fmt.Fprintf(w, "ID:\t%s\n", it.ID)
	_, _ = fmt.Fprintf(w, "Title:\t%s\n", it.Title)
	_, _ = fmt.Fprintf(w, "Flags:\t%s\n", flags(it))
	_, _ = fmt.Fprintf(w, "Unread:\t%d\n", it.Unread)
	if it.PeerContactID != "" {
		_, _ = fmt.Fprintf(w, "Peer:\t%s\n", it.PeerContactID)
	}
	_, _ = fmt.Fprintf(w, "Last:\t%s %s\n", it.TimeLabel, it.LastMessage)
}

func writeMessage(w io.Writer, m chat.Message) {
	from := m.SenderName
	if m.Outgoing {
		from = "You"
	}
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", time.UnixMilli(m.At).Format("2006-01-02 15:04"), from, m.Text)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
