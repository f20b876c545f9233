package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPersister struct {
	snap    *Snapshot
	loadErr error
	saveErr error
	saves   int
}

func (m *memPersister) Load(context.Context) (*Snapshot, error) {
	return m.snap.Clone(), m.loadErr
}

func (m *memPersister) Save(_ context.Context, snap *Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.snap = snap.Clone()
	return nil
}

func TestSnapshotRoundTripThroughPersister(t *testing.T) {
	s, _ := seededStore(t)
	s.SendText("d_1", "persist me")
	s.TogglePin("g_2")

	p := &memPersister{}
	version, err := s.SaveTo(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, s.Version(), version)

	restored, err := Open(context.Background(), p)
	require.NoError(t, err)

	if diff := cmp.Diff(s.Snapshot(), restored.Snapshot()); diff != "" {
		t.Errorf("restored state mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, restored.EnsureSeeded())
}

func TestOpenEmptyPersister(t *testing.T) {
	s, err := Open(context.Background(), &memPersister{})
	require.NoError(t, err)
	assert.Empty(t, s.Conversations())
	assert.Empty(t, s.Messages("g_1"))
	assert.True(t, s.EnsureSeeded())
}

func TestOpenLoadError(t *testing.T) {
	_, err := Open(context.Background(), &memPersister{loadErr: errors.New("disk gone")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestSaveToError(t *testing.T) {
	s, _ := seededStore(t)
	_, err := s.SaveTo(context.Background(), &memPersister{saveErr: errors.New("read-only")})
	require.Error(t, err)
}

func TestRestoreNormalizes(t *testing.T) {
	s, _ := newTestStore(t)
	s.Restore(&Snapshot{
		Conversations: []Conversation{{ID: "a", Unread: -4}},
		MessagesByConvID: map[string][]Message{
			"a":      {{ID: "m1", ConvID: "a"}},
			"orphan": {{ID: "m2", ConvID: "orphan"}},
		},
	})

	conv, ok := s.Conversation("a")
	require.True(t, ok)
	assert.Equal(t, 0, conv.Unread)
	assert.Len(t, s.Messages("a"), 1)
	assert.Empty(t, s.Messages("orphan"))
	assert.NotContains(t, s.Snapshot().MessagesByConvID, "orphan")
}

func TestRestoreNil(t *testing.T) {
	s, _ := seededStore(t)
	s.Restore(nil)
	assert.Empty(t, s.Conversations())
	assert.Empty(t, s.Contacts())
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s, _ := seededStore(t)
	snap := s.Snapshot()
	snap.Conversations[0].Title = "changed"
	snap.MessagesByConvID["g_1"][0].Text = "changed"

	conv, _ := s.Conversation(snap.Conversations[0].ID)
	assert.NotEqual(t, "changed", conv.Title)
	assert.NotEqual(t, "changed", s.Messages("g_1")[0].Text)
}

func TestParseFixtureValidates(t *testing.T) {
	_, err := parseFixture([]byte("contacts: []\n"))
	assert.Error(t, err)

	_, err = parseFixture([]byte(":::"))
	assert.Error(t, err)
}
