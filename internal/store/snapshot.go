package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/matheus3301/chatkit/internal/chat"
)

const keySnapshotSavedAt = "snapshot_saved_at"

// Persister adapts the database to chat.Persister.
func (db *DB) Persister() chat.Persister {
	return snapshotPersister{db: db}
}

type snapshotPersister struct {
	db *DB
}

func (p snapshotPersister) Load(ctx context.Context) (*chat.Snapshot, error) {
	return p.db.LoadSnapshot(ctx)
}

func (p snapshotPersister) Save(ctx context.Context, snap *chat.Snapshot) error {
	return p.db.SaveSnapshot(ctx, snap)
}

// SaveSnapshot replaces all chat tables with snap in a single transaction.
// Stored order is kept through the position and seq columns.
func (db *DB) SaveSnapshot(ctx context.Context, snap *chat.Snapshot) error {
	if snap == nil {
		snap = &chat.Snapshot{}
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"messages", "conversations", "contacts"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, c := range snap.Contacts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO contacts (id, position, name, avatar, username, phone, bio, last_seen_text)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, i, c.Name, c.Avatar, c.Username, c.Phone, c.Bio, c.LastSeenText); err != nil {
			return fmt.Errorf("insert contact %q: %w", c.ID, err)
		}
	}

	for i, c := range snap.Conversations {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO conversations (id, position, title, avatar, is_group, muted, pinned, unread, last_message, last_message_at, peer_contact_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, i, c.Title, c.Avatar, c.IsGroup, c.Muted, c.Pinned, c.Unread, c.LastMessage, c.LastMessageAt, c.PeerContactID); err != nil {
			return fmt.Errorf("insert conversation %q: %w", c.ID, err)
		}
	}

	for convID, msgs := range snap.MessagesByConvID {
		for seq, m := range msgs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO messages (id, conv_id, seq, sender_id, sender_name, type, text, at, outgoing)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				m.ID, convID, seq, m.SenderID, m.SenderName, string(m.Type), m.Text, m.At, m.Outgoing); err != nil {
				return fmt.Errorf("insert message %q: %w", m.ID, err)
			}
		}
	}

	now := time.Now().UnixMilli()
	if err := setState(ctx, tx, keySnapshotSavedAt, strconv.FormatInt(now, 10), now); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadSnapshot reads the chat tables back. It returns nil if no snapshot
// was ever saved.
func (db *DB) LoadSnapshot(ctx context.Context) (*chat.Snapshot, error) {
	if _, ok, err := db.State(ctx, keySnapshotSavedAt); err != nil {
		return nil, err
	} else if !ok {
		return nil, nil
	}

	snap := &chat.Snapshot{MessagesByConvID: make(map[string][]chat.Message)}

	contacts, err := db.QueryContext(ctx, `
		SELECT id, name, avatar, username, phone, bio, last_seen_text
		FROM contacts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer func() { _ = contacts.Close() }()
	for contacts.Next() {
		var c chat.Contact
		if err := contacts.Scan(&c.ID, &c.Name, &c.Avatar, &c.Username, &c.Phone, &c.Bio, &c.LastSeenText); err != nil {
			return nil, err
		}
		snap.Contacts = append(snap.Contacts, c)
	}
	if err := contacts.Err(); err != nil {
		return nil, err
	}

	convs, err := db.QueryContext(ctx, `
		SELECT id, title, avatar, is_group, muted, pinned, unread, last_message, last_message_at, peer_contact_id
		FROM conversations ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer func() { _ = convs.Close() }()
	for convs.Next() {
		var c chat.Conversation
		if err := convs.Scan(&c.ID, &c.Title, &c.Avatar, &c.IsGroup, &c.Muted, &c.Pinned, &c.Unread, &c.LastMessage, &c.LastMessageAt, &c.PeerContactID); err != nil {
			return nil, err
		}
		snap.Conversations = append(snap.Conversations, c)
		snap.MessagesByConvID[c.ID] = []chat.Message{}
	}
	if err := convs.Err(); err != nil {
		return nil, err
	}

	msgs, err := db.QueryContext(ctx, `
		SELECT id, conv_id, sender_id, sender_name, type, text, at, outgoing
		FROM messages ORDER BY conv_id, seq`)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer func() { _ = msgs.Close() }()
	for msgs.Next() {
		var m chat.Message
		if err := scanMessage(msgs, &m); err != nil {
			return nil, err
		}
		snap.MessagesByConvID[m.ConvID] = append(snap.MessagesByConvID[m.ConvID], m)
	}
	return snap, msgs.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(row scanner, m *chat.Message, extra ...any) error {
	var typ string
	dest := append([]any{&m.ID, &m.ConvID, &m.SenderID, &m.SenderName, &typ, &m.Text, &m.At, &m.Outgoing}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	m.Type = chat.MessageType(typ)
	return nil
}

// State returns a sync_state value.
func (db *DB) State(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT value FROM sync_state WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read state %q: %w", key, err)
	}
	return v, true, nil
}

// SetState stores a sync_state value.
func (db *DB) SetState(ctx context.Context, key, value string) error {
	return setState(ctx, db, key, value, time.Now().UnixMilli())
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func setState(ctx context.Context, ex execer, key, value string, now int64) error {
	if _, err := ex.ExecContext(ctx, `
		INSERT INTO sync_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now); err != nil {
		return fmt.Errorf("write state %q: %w", key, err)
	}
	return nil
}

// LastSavedAt returns when the last snapshot was written, or the zero time.
func (db *DB) LastSavedAt(ctx context.Context) (time.Time, error) {
	v, ok, err := db.State(ctx, keySnapshotSavedAt)
	if err != nil || !ok {
		return time.Time{}, err
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", keySnapshotSavedAt, err)
	}
	return time.UnixMilli(ms), nil
}
