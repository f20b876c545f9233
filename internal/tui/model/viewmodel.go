package model

import (
	"context"
	"sync"

	"github.com/matheus3301/chatkit/internal/chat"
	"github.com/matheus3301/chatkit/internal/wire"
	"golang.org/x/sync/errgroup"
)

// Backend is the subset of the daemon client the view model needs.
type Backend interface {
	Status(ctx context.Context) (wire.Status, error)
	Conversations(ctx context.Context) (wire.ConversationList, error)
	Mutate(ctx context.Context, method, convID string) (wire.ConversationItem, bool, error)
	DeleteConversation(ctx context.Context, convID string) (bool, error)
	DirectConversation(ctx context.Context, contactID string) (wire.ConversationItem, bool, error)
	Messages(ctx context.Context, convID string) ([]chat.Message, error)
	SendText(ctx context.Context, convID, text string) (chat.Message, bool, error)
	SimulateIncomingText(ctx context.Context, convID, text string) (chat.Message, bool, error)
	Search(ctx context.Context, query, convID string, limit int) ([]wire.SearchHit, error)
	ContactSections(ctx context.Context) ([]chat.Section, error)
	Contact(ctx context.Context, contactID string) (chat.Contact, error)
}

// ViewModel caches daemon state for the views.
type ViewModel struct {
	mu sync.RWMutex

	backend       Backend
	status        wire.Status
	conversations wire.ConversationList
	sections      []chat.Section
	messages      []chat.Message
	activeConvID  string
}

// NewViewModel creates a view model backed by the daemon client.
func NewViewModel(b Backend) *ViewModel {
	return &ViewModel{backend: b}
}

// LoadAll fetches status, conversations and contacts concurrently.
func (vm *ViewModel) LoadAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return vm.LoadStatus(ctx) })
	g.Go(func() error { return vm.LoadConversations(ctx) })
	g.Go(func() error { return vm.LoadContacts(ctx) })
	return g.Wait()
}

func (vm *ViewModel) LoadStatus(ctx context.Context) error {
	st, err := vm.backend.Status(ctx)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.status = st
	vm.mu.Unlock()
	return nil
}

func (vm *ViewModel) LoadConversations(ctx context.Context) error {
	list, err := vm.backend.Conversations(ctx)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.conversations = list
	vm.mu.Unlock()
	return nil
}

func (vm *ViewModel) LoadContacts(ctx context.Context) error {
	sections, err := vm.backend.ContactSections(ctx)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.sections = sections
	vm.mu.Unlock()
	return nil
}

// Open makes convID the active conversation, marks it read and loads its
// messages.
func (vm *ViewModel) Open(ctx context.Context, convID string) (wire.ConversationItem, error) {
	conv, _, err := vm.backend.Mutate(ctx, wire.MethodOpenConversation, convID)
	if err != nil {
		return wire.ConversationItem{}, err
	}
	vm.mu.Lock()
	vm.activeConvID = convID
	vm.mu.Unlock()
	return conv, vm.LoadMessages(ctx)
}

// Close clears the active conversation.
func (vm *ViewModel) Close() {
	vm.mu.Lock()
	vm.activeConvID = ""
	vm.messages = nil
	vm.mu.Unlock()
}

// LoadMessages refreshes the active conversation's messages.
func (vm *ViewModel) LoadMessages(ctx context.Context) error {
	convID := vm.ActiveConvID()
	if convID == "" {
		return nil
	}
	msgs, err := vm.backend.Messages(ctx, convID)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	if vm.activeConvID == convID {
		vm.messages = msgs
	}
	vm.mu.Unlock()
	return nil
}

// Send posts text to the active conversation. sent is false for blank text.
func (vm *ViewModel) Send(ctx context.Context, text string) (bool, error) {
	convID := vm.ActiveConvID()
	if convID == "" {
		return false, nil
	}
	_, sent, err := vm.backend.SendText(ctx, convID, text)
	return sent, err
}

// SimulateReply injects an incoming message into the active conversation.
func (vm *ViewModel) SimulateReply(ctx context.Context, text string) (bool, error) {
	convID := vm.ActiveConvID()
	if convID == "" {
		return false, nil
	}
	_, ok, err := vm.backend.SimulateIncomingText(ctx, convID, text)
	return ok, err
}

// Apply runs a conversation mutation such as TogglePin or MarkUnread.
func (vm *ViewModel) Apply(ctx context.Context, method, convID string) (wire.ConversationItem, bool, error) {
	return vm.backend.Mutate(ctx, method, convID)
}

func (vm *ViewModel) Delete(ctx context.Context, convID string) (bool, error) {
	return vm.backend.DeleteConversation(ctx, convID)
}

// StartDirect opens (creating when needed) the direct conversation with a contact.
func (vm *ViewModel) StartDirect(ctx context.Context, contactID string) (wire.ConversationItem, bool, error) {
	return vm.backend.DirectConversation(ctx, contactID)
}

func (vm *ViewModel) Search(ctx context.Context, query string) ([]wire.SearchHit, error) {
	return vm.backend.Search(ctx, query, "", 50)
}

func (vm *ViewModel) Contact(ctx context.Context, contactID string) (chat.Contact, error) {
	return vm.backend.Contact(ctx, contactID)
}

func (vm *ViewModel) Status() wire.Status {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.status
}

func (vm *ViewModel) Conversations() wire.ConversationList {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.conversations
}

// Conversation finds a cached conversation by id.
func (vm *ViewModel) Conversation(convID string) (wire.ConversationItem, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	for _, it := range vm.conversations.Items {
		if it.ID == convID {
			return it, true
		}
	}
	return wire.ConversationItem{}, false
}

func (vm *ViewModel) Sections() []chat.Section {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.sections
}

func (vm *ViewModel) Messages() []chat.Message {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.messages
}

func (vm *ViewModel) ActiveConvID() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.activeConvID
}
