// Package chat holds the local chat state: contacts, conversations and
// per-conversation message lists, plus the views derived from them.
package chat

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/chatkit/internal/bus"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const (
	DefaultMeID           = "me"
	DefaultMeName         = "Me"
	DefaultYesterdayLabel = "yesterday"
)

// Store owns contacts, conversations and messages for one local device.
//
// Every operation is total: unknown ids and empty text are silent no-ops,
// reported only through the boolean results.
type Store struct {
	mu sync.RWMutex

	meID      string
	meName    string
	yesterday string
	locale    language.Tag
	now       func() time.Time
	newID     func(prefix string) string
	bus       *bus.Bus
	logger    *zap.Logger

	contacts      []Contact
	conversations []Conversation
	messages      map[string][]Message
	version       uint64
}

// Option configures a Store.
type Option func(*Store)

// WithIdentity sets the local user's id and display name.
func WithIdentity(id, name string) Option {
	return func(s *Store) {
		if id != "" {
			s.meID = id
		}
		if name != "" {
			s.meName = name
		}
	}
}

// WithClock overrides the wall clock used for timestamps and time labels.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides identifier generation.
func WithIDGenerator(fn func(prefix string) string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithBus publishes an event for every effective mutation.
func WithBus(b *bus.Bus) Option {
	return func(s *Store) { s.bus = b }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithYesterdayLabel sets the label used for timestamps one calendar day back.
func WithYesterdayLabel(label string) Option {
	return func(s *Store) {
		if label != "" {
			s.yesterday = label
		}
	}
}

// WithLocale sets the collation used to order contacts within a section.
func WithLocale(tag language.Tag) Option {
	return func(s *Store) { s.locale = tag }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		meID:      DefaultMeID,
		meName:    DefaultMeName,
		yesterday: DefaultYesterdayLabel,
		locale:    language.Und,
		now:       time.Now,
		newID:     newID,
		logger:    zap.NewNop(),
		messages:  make(map[string][]Message),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newID combines randomness and a millisecond timestamp (UUIDv7).
func newID(prefix string) string {
	return prefix + "_" + uuid.Must(uuid.NewV7()).String()
}

// Me returns the local user's identity.
func (s *Store) Me() (id, name string) {
	return s.meID, s.meName
}

// Version increases on every effective mutation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Stats returns the number of conversations and messages held in memory.
func (s *Store) Stats() (conversations, messages int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, msgs := range s.messages {
		messages += len(msgs)
	}
	return len(s.conversations), messages
}

// Contacts returns the contacts in stored order.
func (s *Store) Contacts() []Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Contact(nil), s.contacts...)
}

// Conversations returns the conversations in stored order.
func (s *Store) Conversations() []Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Conversation(nil), s.conversations...)
}

// Conversation looks up a conversation by id.
func (s *Store) Conversation(id string) (Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.conversations[i], true
	}
	return Conversation{}, false
}

// Contact looks up a contact by id.
func (s *Store) Contact(id string) (Contact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contact(id)
}

// Messages returns the messages of a conversation in chronological order.
// Unknown ids yield an empty slice.
func (s *Store) Messages(convID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Message{}, s.messages[convID]...)
}

// OpenConversation clears the unread counter.
func (s *Store) OpenConversation(convID string) (Conversation, bool) {
	return s.MarkRead(convID)
}

// MarkRead clears the unread counter.
func (s *Store) MarkRead(convID string) (Conversation, bool) {
	return s.update(convID, func(c *Conversation) { c.Unread = 0 })
}

// MarkUnread guarantees at least one unread message without adding to an
// existing count.
func (s *Store) MarkUnread(convID string) (Conversation, bool) {
	return s.update(convID, func(c *Conversation) { c.Unread = max(1, c.Unread) })
}

// TogglePin flips the pinned flag.
func (s *Store) TogglePin(convID string) (Conversation, bool) {
	return s.update(convID, func(c *Conversation) { c.Pinned = !c.Pinned })
}

// ToggleMute flips the muted flag.
func (s *Store) ToggleMute(convID string) (Conversation, bool) {
	return s.update(convID, func(c *Conversation) { c.Muted = !c.Muted })
}

// DeleteConversation removes a conversation together with its message list.
func (s *Store) DeleteConversation(convID string) bool {
	s.mu.Lock()
	i := s.indexOf(convID)
	_, hasMsgs := s.messages[convID]
	if i < 0 && !hasMsgs {
		s.mu.Unlock()
		return false
	}
	if i >= 0 {
		s.conversations = append(s.conversations[:i], s.conversations[i+1:]...)
	}
	delete(s.messages, convID)
	s.version++
	s.mu.Unlock()

	s.publish(bus.ConversationDeleted, convID, nil)
	return i >= 0
}

// CreateOrGetDirectConversation returns the direct conversation with the
// contact, creating it at the front of the list if none exists. It reports
// false when the contact is unknown.
func (s *Store) CreateOrGetDirectConversation(contactID string) (Conversation, bool) {
	s.mu.Lock()
	for _, c := range s.conversations {
		if !c.IsGroup && c.PeerContactID == contactID {
			s.mu.Unlock()
			return c, true
		}
	}
	contact, ok := s.contact(contactID)
	if !ok {
		s.mu.Unlock()
		return Conversation{}, false
	}
	conv := Conversation{
		ID:            s.newID("d"),
		Title:         contact.Name,
		Avatar:        contact.Avatar,
		LastMessageAt: s.now().UnixMilli(),
		PeerContactID: contactID,
	}
	s.conversations = append([]Conversation{conv}, s.conversations...)
	s.messages[conv.ID] = []Message{}
	s.version++
	s.mu.Unlock()

	s.publish(bus.ConversationCreated, conv.ID, conv)
	return conv, true
}

// SendText appends an outgoing message authored by the local user.
func (s *Store) SendText(convID, text string) (Message, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Message{}, false
	}

	s.mu.Lock()
	i := s.indexOf(convID)
	if i < 0 {
		s.mu.Unlock()
		return Message{}, false
	}
	now := s.now().UnixMilli()
	msg := Message{
		ID:         s.newID("m"),
		ConvID:     convID,
		SenderID:   s.meID,
		SenderName: s.meName,
		Type:       MessageText,
		Text:       trimmed,
		At:         now,
		Outgoing:   true,
	}
	s.messages[convID] = append(s.messages[convID], msg)
	s.conversations[i].LastMessage = trimmed
	s.conversations[i].LastMessageAt = now
	s.version++
	s.mu.Unlock()

	s.publish(bus.MessageAppended, convID, msg)
	return msg, true
}

// SimulateIncomingText appends a message as if the peer (or, in a group, a
// fixed member) had sent it, and bumps the unread counter.
func (s *Store) SimulateIncomingText(convID, text string) (Message, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Message{}, false
	}

	s.mu.Lock()
	i := s.indexOf(convID)
	if i < 0 {
		s.mu.Unlock()
		return Message{}, false
	}
	conv := &s.conversations[i]

	senderID, senderName := fixture.GroupSender.ID, fixture.GroupSender.Name
	if !conv.IsGroup {
		senderID = conv.PeerContactID
		if senderID == "" {
			senderID = fixture.GroupSender.ID
		}
		senderName = fixture.FallbackSenderName
		if peer, ok := s.contact(conv.PeerContactID); ok && peer.Name != "" {
			senderName = peer.Name
		}
	}

	now := s.now().UnixMilli()
	msg := Message{
		ID:         s.newID("m"),
		ConvID:     convID,
		SenderID:   senderID,
		SenderName: senderName,
		Type:       MessageText,
		Text:       trimmed,
		At:         now,
	}
	s.messages[convID] = append(s.messages[convID], msg)
	conv.LastMessage = trimmed
	if conv.IsGroup {
		conv.LastMessage = senderName + "：" + trimmed
	}
	conv.LastMessageAt = now
	conv.Unread++
	s.version++
	s.mu.Unlock()

	s.publish(bus.MessageAppended, convID, msg)
	return msg, true
}

func (s *Store) update(convID string, fn func(c *Conversation)) (Conversation, bool) {
	s.mu.Lock()
	i := s.indexOf(convID)
	if i < 0 {
		s.mu.Unlock()
		return Conversation{}, false
	}
	fn(&s.conversations[i])
	s.version++
	out := s.conversations[i]
	s.mu.Unlock()

	s.publish(bus.ConversationUpdated, convID, out)
	return out, true
}

func (s *Store) indexOf(convID string) int {
	for i := range s.conversations {
		if s.conversations[i].ID == convID {
			return i
		}
	}
	return -1
}

func (s *Store) contact(id string) (Contact, bool) {
	for _, c := range s.contacts {
		if c.ID == id {
			return c, true
		}
	}
	return Contact{}, false
}

func (s *Store) publish(kind, convID string, payload any) {
	s.bus.Publish(bus.Event{
		Kind:      kind,
		Timestamp: time.Now(),
		ConvID:    convID,
		Payload:   payload,
	})
}
