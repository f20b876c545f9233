package bus

import "time"

// Event kinds published by the chat store.
const (
	ConversationCreated = "chat.conversation_created"
	ConversationUpdated = "chat.conversation_updated"
	ConversationDeleted = "chat.conversation_deleted"
	MessageAppended     = "chat.message_appended"
	Seeded              = "chat.seeded"
	Restored            = "chat.restored"

	// StatusChanged is published by the daemon lifecycle machine.
	StatusChanged = "daemon.status_changed"
	// Checkpointed is published after a snapshot has been persisted.
	Checkpointed = "checkpoint.saved"
)

// Event is a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	// ConvID is set for conversation and message events.
	ConvID  string
	Payload any
}
