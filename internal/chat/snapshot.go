package chat

import (
	"context"
	"fmt"

	"github.com/matheus3301/chatkit/internal/bus"
	"go.uber.org/zap"
)

// Persister saves and restores the complete store state.
type Persister interface {
	// Load returns the last saved snapshot, or nil if nothing was saved yet.
	Load(ctx context.Context) (*Snapshot, error)
	// Save replaces the persisted state with snap.
	Save(ctx context.Context, snap *Snapshot) error
}

// Open creates a store and restores it from p.
func Open(ctx context.Context, p Persister, opts ...Option) (*Store, error) {
	s := New(opts...)
	snap, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	s.Restore(snap)
	return s, nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() *Snapshot {
	snap := &Snapshot{
		Contacts:         s.contacts,
		Conversations:    s.conversations,
		MessagesByConvID: s.messages,
	}
	return snap.Clone()
}

// Restore replaces the whole state with snap. Negative unread counters are
// clamped to zero and message lists without a conversation are dropped.
func (s *Store) Restore(snap *Snapshot) {
	next := snap.Clone()
	if next == nil {
		next = &Snapshot{}
	}
	if next.MessagesByConvID == nil {
		next.MessagesByConvID = make(map[string][]Message)
	}

	known := make(map[string]bool, len(next.Conversations))
	for i := range next.Conversations {
		c := &next.Conversations[i]
		known[c.ID] = true
		if c.Unread < 0 {
			s.logger.Warn("clamping negative unread counter",
				zap.String("conv_id", c.ID), zap.Int("unread", c.Unread))
			c.Unread = 0
		}
	}
	for id, msgs := range next.MessagesByConvID {
		if !known[id] {
			s.logger.Warn("dropping orphan message list",
				zap.String("conv_id", id), zap.Int("messages", len(msgs)))
			delete(next.MessagesByConvID, id)
		}
	}

	s.mu.Lock()
	s.contacts = next.Contacts
	s.conversations = next.Conversations
	s.messages = next.MessagesByConvID
	s.version++
	s.mu.Unlock()

	s.publish(bus.Restored, "", nil)
}

// SaveTo persists the current state and returns the version it captured.
func (s *Store) SaveTo(ctx context.Context, p Persister) (uint64, error) {
	s.mu.RLock()
	snap := s.snapshotLocked()
	version := s.version
	s.mu.RUnlock()

	if err := p.Save(ctx, snap); err != nil {
		return 0, fmt.Errorf("save snapshot: %w", err)
	}
	return version, nil
}
