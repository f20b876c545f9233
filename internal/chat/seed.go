package chat

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/matheus3301/chatkit/internal/bus"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type seedSender struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type seedMessage struct {
	SenderID   string `yaml:"sender_id"`
	SenderName string `yaml:"sender_name"`
	Text       string `yaml:"text"`
	Outgoing   bool   `yaml:"outgoing"`
	MinutesAgo int    `yaml:"minutes_ago"`
}

type seedConversation struct {
	ID            string        `yaml:"id"`
	Title         string        `yaml:"title"`
	Avatar        string        `yaml:"avatar"`
	IsGroup       bool          `yaml:"is_group"`
	Muted         bool          `yaml:"muted"`
	Pinned        bool          `yaml:"pinned"`
	Unread        int           `yaml:"unread"`
	LastMessage   string        `yaml:"last_message"`
	MinutesAgo    int           `yaml:"minutes_ago"`
	PeerContactID string        `yaml:"peer_contact_id"`
	Messages      []seedMessage `yaml:"messages"`
}

type seedFixture struct {
	GroupSender        seedSender         `yaml:"group_sender"`
	FallbackSenderName string             `yaml:"fallback_sender_name"`
	Contacts           []Contact          `yaml:"contacts"`
	Conversations      []seedConversation `yaml:"conversations"`
}

var fixture = mustParseFixture(seedYAML)

func mustParseFixture(data []byte) seedFixture {
	f, err := parseFixture(data)
	if err != nil {
		panic(err)
	}
	return f
}

func parseFixture(data []byte) (seedFixture, error) {
	var f seedFixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse seed fixture: %w", err)
	}
	if f.GroupSender.ID == "" || f.GroupSender.Name == "" || f.FallbackSenderName == "" {
		return f, fmt.Errorf("seed fixture: group_sender and fallback_sender_name are required")
	}
	return f, nil
}

// EnsureSeeded fills an empty store with demo data. It does nothing, and
// reports false, when either contacts or conversations are already present.
func (s *Store) EnsureSeeded() bool {
	s.mu.Lock()
	if len(s.contacts) > 0 || len(s.conversations) > 0 {
		s.mu.Unlock()
		return false
	}

	snap := fixture.materialize(s.now(), s.meID, s.meName, s.newID)
	s.contacts = snap.Contacts
	s.conversations = snap.Conversations
	s.messages = snap.MessagesByConvID
	s.version++
	s.mu.Unlock()

	s.logger.Info("seeded demo data",
		zap.Int("contacts", len(snap.Contacts)),
		zap.Int("conversations", len(snap.Conversations)))
	s.publish(bus.Seeded, "", nil)
	return true
}

func (f seedFixture) materialize(now time.Time, meID, meName string, newID func(string) string) *Snapshot {
	at := func(minutes int) int64 {
		return now.Add(-time.Duration(minutes) * time.Minute).UnixMilli()
	}

	snap := &Snapshot{
		Contacts:         append([]Contact(nil), f.Contacts...),
		MessagesByConvID: make(map[string][]Message, len(f.Conversations)),
	}
	contacts := make(map[string]Contact, len(f.Contacts))
	for _, c := range f.Contacts {
		contacts[c.ID] = c
	}

	for _, sc := range f.Conversations {
		conv := Conversation{
			ID:            sc.ID,
			Title:         sc.Title,
			Avatar:        sc.Avatar,
			IsGroup:       sc.IsGroup,
			Muted:         sc.Muted,
			Pinned:        sc.Pinned,
			Unread:        sc.Unread,
			LastMessage:   sc.LastMessage,
			LastMessageAt: at(sc.MinutesAgo),
			PeerContactID: sc.PeerContactID,
		}
		if peer, ok := contacts[sc.PeerContactID]; ok {
			if conv.Title == "" {
				conv.Title = peer.Name
			}
			if conv.Avatar == "" {
				conv.Avatar = peer.Avatar
			}
		}
		snap.Conversations = append(snap.Conversations, conv)

		msgs := make([]Message, 0, len(sc.Messages))
		for _, sm := range sc.Messages {
			m := Message{
				ID:         newID("m"),
				ConvID:     conv.ID,
				SenderID:   sm.SenderID,
				SenderName: sm.SenderName,
				Type:       MessageText,
				Text:       sm.Text,
				At:         at(sm.MinutesAgo),
				Outgoing:   sm.Outgoing,
			}
			if sm.Outgoing {
				m.SenderID, m.SenderName = meID, meName
			}
			msgs = append(msgs, m)
		}
		snap.MessagesByConvID[conv.ID] = msgs
	}
	return snap
}
