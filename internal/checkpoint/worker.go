// Package checkpoint persists the chat store in the background.
package checkpoint

import (
	"context"
	"sync"
	"time"

	"github.com/matheus3301/chatkit/internal/bus"
	"github.com/matheus3301/chatkit/internal/chat"
	"go.uber.org/zap"
)

// DefaultInterval is used when a non-positive interval is configured.
const DefaultInterval = 2 * time.Second

// Worker flushes store snapshots to a persister whenever the store changed
// since the last successful save.
type Worker struct {
	store     *chat.Store
	persister chat.Persister
	bus       *bus.Bus
	logger    *zap.Logger
	interval  time.Duration

	mu        sync.Mutex // serializes flushes
	saved     uint64
	lastError error

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a checkpoint worker. The store's current version is treated as
// already persisted.
func New(store *chat.Store, p chat.Persister, b *bus.Bus, interval time.Duration, logger *zap.Logger) *Worker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Worker{
		store:     store,
		persister: p,
		bus:       b,
		logger:    logger,
		interval:  interval,
		saved:     store.Version(),
	}
}

// Start begins the flush loop. Store events trigger an early flush.
func (w *Worker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})

	var events <-chan bus.Event
	unsub := func() {}
	if w.bus != nil {
		events, unsub = w.bus.Subscribe("chat.", 64)
	}

	go func() {
		defer close(w.done)
		defer unsub()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.flushLogged(ctx)
			case evt := <-events:
				// Deletions are flushed immediately.
				if evt.Kind == bus.ConversationDeleted {
					w.flushLogged(ctx)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the loop and performs a final flush.
func (w *Worker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
	_, err := w.Flush(ctx)
	return err
}

// Dirty reports whether the store has unsaved changes.
func (w *Worker) Dirty() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.store.Version() != w.saved
}

// LastError returns the error of the most recent failed flush, if any.
func (w *Worker) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastError
}

// Flush saves the store if it changed. It reports whether a save happened.
func (w *Worker) Flush(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.store.Version() == w.saved {
		return false, nil
	}
	version, err := w.store.SaveTo(ctx, w.persister)
	if err != nil {
		w.lastError = err
		return false, err
	}
	w.saved = version
	w.lastError = nil

	w.bus.Publish(bus.Event{
		Kind:      bus.Checkpointed,
		Timestamp: time.Now(),
		Payload:   version,
	})
	return true, nil
}

func (w *Worker) flushLogged(ctx context.Context) {
	saved, err := w.Flush(ctx)
	if err != nil {
		w.logger.Error("checkpoint failed", zap.Error(err))
		return
	}
	if saved {
		w.logger.Debug("checkpoint saved", zap.Uint64("version", w.store.Version()))
	}
}
