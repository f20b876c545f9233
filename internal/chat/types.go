package chat

// MessageType identifies the payload kind of a message.
type MessageType string

const MessageText MessageType = "text"

// Contact is a person the local user can chat with.
type Contact struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Avatar       string `json:"avatar" yaml:"avatar"`
	Username     string `json:"username,omitempty" yaml:"username,omitempty"`
	Phone        string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Bio          string `json:"bio,omitempty" yaml:"bio,omitempty"`
	LastSeenText string `json:"lastSeenText" yaml:"last_seen_text"`
}

// Conversation is a chat thread, either direct (one peer contact) or group.
type Conversation struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Avatar        string `json:"avatar"`
	IsGroup       bool   `json:"isGroup"`
	Muted         bool   `json:"muted"`
	Pinned        bool   `json:"pinned"`
	Unread        int    `json:"unread"`
	LastMessage   string `json:"lastMessage"`
	LastMessageAt int64  `json:"lastMessageAt"` // epoch milliseconds
	PeerContactID string `json:"peerContactId,omitempty"`
}

// Message is a single immutable entry in a conversation.
type Message struct {
	ID         string      `json:"id"`
	ConvID     string      `json:"convId"`
	SenderID   string      `json:"senderId"`
	SenderName string      `json:"senderName"`
	Type       MessageType `json:"type"`
	Text       string      `json:"text"`
	At         int64       `json:"at"`
	Outgoing   bool        `json:"outgoing"`
}

// Section is a group of contacts sharing the same index letter.
type Section struct {
	Letter   string    `json:"letter"`
	Contacts []Contact `json:"list"`
}

// Snapshot is the complete serializable state of a Store.
type Snapshot struct {
	Contacts         []Contact            `json:"contacts"`
	Conversations    []Conversation       `json:"conversations"`
	MessagesByConvID map[string][]Message `json:"messagesByConvId"`
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		Contacts:         append([]Contact(nil), s.Contacts...),
		Conversations:    append([]Conversation(nil), s.Conversations...),
		MessagesByConvID: make(map[string][]Message, len(s.MessagesByConvID)),
	}
	for id, msgs := range s.MessagesByConvID {
		out.MessagesByConvID[id] = append([]Message{}, msgs...)
	}
	return out
}

// Empty reports whether the snapshot holds no contacts and no conversations.
func (s *Snapshot) Empty() bool {
	return s == nil || (len(s.Contacts) == 0 && len(s.Conversations) == 0)
}
