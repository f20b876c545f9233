package wire

import (
	"time"

	"github.com/matheus3301/chatkit/internal/chat"
	"github.com/matheus3301/chatkit/internal/keyboard"
	"google.golang.org/protobuf/types/known/structpb"
)

// ConversationItem is a conversation as listed by the daemon, with its
// rendered time label.
type ConversationItem struct {
	chat.Conversation
	TimeLabel string `json:"timeLabel"`
}

// ConversationList is the sorted conversation list plus the unread badge total.
type ConversationList struct {
	Items       []ConversationItem `json:"conversations"`
	TotalUnread int                `json:"totalUnread"`
}

// Status is the daemon health summary.
type Status struct {
	Session       string        `json:"session"`
	State         string        `json:"state"`
	StateSince    time.Time     `json:"stateSince"`
	Uptime        time.Duration `json:"uptime"`
	Conversations int           `json:"conversations"`
	Messages      int           `json:"messages"`
	TotalUnread   int           `json:"totalUnread"`
	// Stored counts reflect the last checkpoint.
	StoredConversations int64     `json:"storedConversations"`
	StoredMessages      int64     `json:"storedMessages"`
	SchemaVersion       int       `json:"schemaVersion"`
	LastCheckpoint      time.Time `json:"lastCheckpoint"`
	CheckpointPending   bool      `json:"checkpointPending"`
	IdentityID          string    `json:"identityId"`
	IdentityName        string    `json:"identityName"`
}

// SearchHit is a message matching a search query.
type SearchHit struct {
	Message chat.Message `json:"message"`
	Snippet string       `json:"snippet"`
}

// CheckpointResult reports the outcome of a forced checkpoint.
type CheckpointResult struct {
	Saved   bool   `json:"saved"`
	Version uint64 `json:"version"`
}

// Event is a daemon bus event as seen by stream subscribers.
type Event struct {
	Kind   string    `json:"kind"`
	At     time.Time `json:"at"`
	ConvID string    `json:"convId"`
}

// Request helpers.

func IDRequest(key, id string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{key: structpb.NewStringValue(id)}}
}

func Empty() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{}}
}

// Field accessors tolerate missing keys and wrong kinds by returning zero values.

func Str(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func Int(s *structpb.Struct, key string) int64 {
	return int64(s.GetFields()[key].GetNumberValue())
}

func Bool(s *structpb.Struct, key string) bool {
	return s.GetFields()[key].GetBoolValue()
}

func Has(s *structpb.Struct, key string) bool {
	_, ok := s.GetFields()[key]
	return ok
}

func structs(s *structpb.Struct, key string) []*structpb.Struct {
	values := s.GetFields()[key].GetListValue().GetValues()
	out := make([]*structpb.Struct, 0, len(values))
	for _, v := range values {
		if sv := v.GetStructValue(); sv != nil {
			out = append(out, sv)
		}
	}
	return out
}

func num(n int64) *structpb.Value { return structpb.NewNumberValue(float64(n)) }

func list(items []*structpb.Struct) *structpb.Value {
	values := make([]*structpb.Value, len(items))
	for i, it := range items {
		values[i] = structpb.NewStructValue(it)
	}
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// Conversations.

func EncodeConversation(c chat.Conversation, label string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":              structpb.NewStringValue(c.ID),
		"title":           structpb.NewStringValue(c.Title),
		"avatar":          structpb.NewStringValue(c.Avatar),
		"is_group":        structpb.NewBoolValue(c.IsGroup),
		"muted":           structpb.NewBoolValue(c.Muted),
		"pinned":          structpb.NewBoolValue(c.Pinned),
		"unread":          num(int64(c.Unread)),
		"last_message":    structpb.NewStringValue(c.LastMessage),
		"last_message_at": num(c.LastMessageAt),
		"peer_contact_id": structpb.NewStringValue(c.PeerContactID),
		"time_label":      structpb.NewStringValue(label),
	}}
}

func DecodeConversation(s *structpb.Struct) ConversationItem {
	return ConversationItem{
		Conversation: chat.Conversation{
			ID:            Str(s, "id"),
			Title:         Str(s, "title"),
			Avatar:        Str(s, "avatar"),
			IsGroup:       Bool(s, "is_group"),
			Muted:         Bool(s, "muted"),
			Pinned:        Bool(s, "pinned"),
			Unread:        int(Int(s, "unread")),
			LastMessage:   Str(s, "last_message"),
			LastMessageAt: Int(s, "last_message_at"),
			PeerContactID: Str(s, "peer_contact_id"),
		},
		TimeLabel: Str(s, "time_label"),
	}
}

func EncodeConversationList(l ConversationList) *structpb.Struct {
	items := make([]*structpb.Struct, len(l.Items))
	for i, it := range l.Items {
		items[i] = EncodeConversation(it.Conversation, it.TimeLabel)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"conversations": list(items),
		"total_unread":  num(int64(l.TotalUnread)),
	}}
}

func DecodeConversationList(s *structpb.Struct) ConversationList {
	raw := structs(s, "conversations")
	out := ConversationList{
		Items:       make([]ConversationItem, len(raw)),
		TotalUnread: int(Int(s, "total_unread")),
	}
	for i, it := range raw {
		out.Items[i] = DecodeConversation(it)
	}
	return out
}

// EncodeFound wraps an optional conversation in a mutation response.
func EncodeFound(c chat.Conversation, label string, found bool) *structpb.Struct {
	resp := &structpb.Struct{Fields: map[string]*structpb.Value{
		"found": structpb.NewBoolValue(found),
	}}
	if found {
		resp.Fields["conversation"] = structpb.NewStructValue(EncodeConversation(c, label))
	}
	return resp
}

func DecodeFound(s *structpb.Struct) (ConversationItem, bool) {
	if !Bool(s, "found") {
		return ConversationItem{}, false
	}
	return DecodeConversation(s.GetFields()["conversation"].GetStructValue()), true
}

// Messages.

func EncodeMessage(m chat.Message) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":          structpb.NewStringValue(m.ID),
		"conv_id":     structpb.NewStringValue(m.ConvID),
		"sender_id":   structpb.NewStringValue(m.SenderID),
		"sender_name": structpb.NewStringValue(m.SenderName),
		"type":        structpb.NewStringValue(string(m.Type)),
		"text":        structpb.NewStringValue(m.Text),
		"at":          num(m.At),
		"outgoing":    structpb.NewBoolValue(m.Outgoing),
	}}
}

func DecodeMessage(s *structpb.Struct) chat.Message {
	return chat.Message{
		ID:         Str(s, "id"),
		ConvID:     Str(s, "conv_id"),
		SenderID:   Str(s, "sender_id"),
		SenderName: Str(s, "sender_name"),
		Type:       chat.MessageType(Str(s, "type")),
		Text:       Str(s, "text"),
		At:         Int(s, "at"),
		Outgoing:   Bool(s, "outgoing"),
	}
}

func EncodeMessages(msgs []chat.Message) *structpb.Struct {
	items := make([]*structpb.Struct, len(msgs))
	for i, m := range msgs {
		items[i] = EncodeMessage(m)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{"messages": list(items)}}
}

func DecodeMessages(s *structpb.Struct) []chat.Message {
	raw := structs(s, "messages")
	out := make([]chat.Message, len(raw))
	for i, it := range raw {
		out[i] = DecodeMessage(it)
	}
	return out
}

func EncodeSent(m chat.Message, ok bool) *structpb.Struct {
	resp := &structpb.Struct{Fields: map[string]*structpb.Value{"sent": structpb.NewBoolValue(ok)}}
	if ok {
		resp.Fields["message"] = structpb.NewStructValue(EncodeMessage(m))
	}
	return resp
}

func DecodeSent(s *structpb.Struct) (chat.Message, bool) {
	if !Bool(s, "sent") {
		return chat.Message{}, false
	}
	return DecodeMessage(s.GetFields()["message"].GetStructValue()), true
}

func EncodeSearchHits(hits []SearchHit) *structpb.Struct {
	items := make([]*structpb.Struct, len(hits))
	for i, h := range hits {
		it := EncodeMessage(h.Message)
		it.Fields["snippet"] = structpb.NewStringValue(h.Snippet)
		items[i] = it
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{"results": list(items)}}
}

func DecodeSearchHits(s *structpb.Struct) []SearchHit {
	raw := structs(s, "results")
	out := make([]SearchHit, len(raw))
	for i, it := range raw {
		out[i] = SearchHit{Message: DecodeMessage(it), Snippet: Str(it, "snippet")}
	}
	return out
}

// Contacts.

func EncodeContact(c chat.Contact) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":             structpb.NewStringValue(c.ID),
		"name":           structpb.NewStringValue(c.Name),
		"avatar":         structpb.NewStringValue(c.Avatar),
		"username":       structpb.NewStringValue(c.Username),
		"phone":          structpb.NewStringValue(c.Phone),
		"bio":            structpb.NewStringValue(c.Bio),
		"last_seen_text": structpb.NewStringValue(c.LastSeenText),
	}}
}

func DecodeContact(s *structpb.Struct) chat.Contact {
	return chat.Contact{
		ID:           Str(s, "id"),
		Name:         Str(s, "name"),
		Avatar:       Str(s, "avatar"),
		Username:     Str(s, "username"),
		Phone:        Str(s, "phone"),
		Bio:          Str(s, "bio"),
		LastSeenText: Str(s, "last_seen_text"),
	}
}

func EncodeSections(sections []chat.Section) *structpb.Struct {
	items := make([]*structpb.Struct, len(sections))
	for i, sec := range sections {
		contacts := make([]*structpb.Struct, len(sec.Contacts))
		for j, c := range sec.Contacts {
			contacts[j] = EncodeContact(c)
		}
		items[i] = &structpb.Struct{Fields: map[string]*structpb.Value{
			"letter":   structpb.NewStringValue(sec.Letter),
			"contacts": list(contacts),
		}}
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{"sections": list(items)}}
}

func DecodeSections(s *structpb.Struct) []chat.Section {
	raw := structs(s, "sections")
	out := make([]chat.Section, len(raw))
	for i, it := range raw {
		contacts := structs(it, "contacts")
		sec := chat.Section{Letter: Str(it, "letter"), Contacts: make([]chat.Contact, len(contacts))}
		for j, c := range contacts {
			sec.Contacts[j] = DecodeContact(c)
		}
		out[i] = sec
	}
	return out
}

// Keyboard.

func EncodeKeyboardInput(in keyboard.Input) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"prev_base_window_height": num(int64(in.PrevBaseWindowHeight)),
		"raw_keyboard_height":     num(int64(in.RawKeyboardHeight)),
		"current_window_height":   num(int64(in.CurrentWindowHeight)),
		"safe_area_height":        num(int64(in.SafeAreaHeight)),
	}}
}

func DecodeKeyboardInput(s *structpb.Struct) keyboard.Input {
	return keyboard.Input{
		PrevBaseWindowHeight: int(Int(s, "prev_base_window_height")),
		RawKeyboardHeight:    int(Int(s, "raw_keyboard_height")),
		CurrentWindowHeight:  int(Int(s, "current_window_height")),
		SafeAreaHeight:       int(Int(s, "safe_area_height")),
	}
}

func EncodeKeyboardState(st keyboard.State) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"base_window_height":        num(int64(st.BaseWindowHeight)),
		"effective_keyboard_height": num(int64(st.EffectiveKeyboardHeight)),
	}}
}

func DecodeKeyboardState(s *structpb.Struct) keyboard.State {
	return keyboard.State{
		BaseWindowHeight:        int(Int(s, "base_window_height")),
		EffectiveKeyboardHeight: int(Int(s, "effective_keyboard_height")),
	}
}

// Status, checkpoint and events.

func EncodeStatus(st Status) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"session":              structpb.NewStringValue(st.Session),
		"state":                structpb.NewStringValue(st.State),
		"state_since_ms":       num(millis(st.StateSince)),
		"uptime_ms":            num(st.Uptime.Milliseconds()),
		"conversations":        num(int64(st.Conversations)),
		"messages":             num(int64(st.Messages)),
		"stored_conversations": num(st.StoredConversations),
		"stored_messages":      num(st.StoredMessages),
		"total_unread":         num(int64(st.TotalUnread)),
		"schema_version":       num(int64(st.SchemaVersion)),
		"last_checkpoint_ms":   num(millis(st.LastCheckpoint)),
		"checkpoint_pending":   structpb.NewBoolValue(st.CheckpointPending),
		"identity_id":          structpb.NewStringValue(st.IdentityID),
		"identity_name":        structpb.NewStringValue(st.IdentityName),
	}}
}

func DecodeStatus(s *structpb.Struct) Status {
	return Status{
		Session:             Str(s, "session"),
		State:               Str(s, "state"),
		StateSince:          fromMillis(Int(s, "state_since_ms")),
		Uptime:              time.Duration(Int(s, "uptime_ms")) * time.Millisecond,
		Conversations:       int(Int(s, "conversations")),
		Messages:            int(Int(s, "messages")),
		StoredConversations: Int(s, "stored_conversations"),
		StoredMessages:      Int(s, "stored_messages"),
		TotalUnread:         int(Int(s, "total_unread")),
		SchemaVersion:       int(Int(s, "schema_version")),
		LastCheckpoint:      fromMillis(Int(s, "last_checkpoint_ms")),
		CheckpointPending:   Bool(s, "checkpoint_pending"),
		IdentityID:          Str(s, "identity_id"),
		IdentityName:        Str(s, "identity_name"),
	}
}

func EncodeCheckpoint(r CheckpointResult) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"saved":   structpb.NewBoolValue(r.Saved),
		"version": num(int64(r.Version)),
	}}
}

func DecodeCheckpoint(s *structpb.Struct) CheckpointResult {
	return CheckpointResult{Saved: Bool(s, "saved"), Version: uint64(Int(s, "version"))}
}

func EncodeEvent(e Event) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"kind":    structpb.NewStringValue(e.Kind),
		"at_ms":   num(millis(e.At)),
		"conv_id": structpb.NewStringValue(e.ConvID),
	}}
}

func DecodeEvent(s *structpb.Struct) Event {
	return Event{Kind: Str(s, "kind"), At: fromMillis(Int(s, "at_ms")), ConvID: Str(s, "conv_id")}
}
