package ui

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFlashExpiry(t *testing.T) {
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	f := NewFlashModel()
	f.now = func() time.Time { return now }

	_, ok := f.Current()
	assert.False(t, ok)

	f.Err(errors.New("boom"))
	msg, ok := f.Current()
	assert.True(t, ok)
	assert.Equal(t, FlashErr, msg.Level)
	assert.Equal(t, "boom", msg.Text)
	assert.Equal(t, msg, <-f.Watch())

	now = now.Add(10 * time.Second)
	_, ok = f.Current()
	assert.False(t, ok)
}

func TestFlashWatchNeverBlocks(t *testing.T) {
	f := NewFlashModel()
	for i := 0; i < 20; i++ {
		f.Infof("n=%d", i)
	}
	msg, ok := f.Current()
	assert.True(t, ok)
	assert.Equal(t, "n=19", msg.Text)
	assert.Len(t, f.Watch(), 8)
}
