package keyboard

import "sync"

// Tracker carries the base window height between observations for callers
// that do not want to keep it themselves.
type Tracker struct {
	mu   sync.Mutex
	base int
}

// Observe feeds one platform event and returns the reconciled state.
func (t *Tracker) Observe(rawKeyboardHeight, currentWindowHeight, safeAreaHeight int) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := Update(Input{
		PrevBaseWindowHeight: t.base,
		RawKeyboardHeight:    rawKeyboardHeight,
		CurrentWindowHeight:  currentWindowHeight,
		SafeAreaHeight:       safeAreaHeight,
	})
	t.base = st.BaseWindowHeight
	return st
}

// Base returns the current base window height.
func (t *Tracker) Base() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.base
}

// Reset forgets the base window height, e.g. after an orientation change.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.base = 0
	t.mu.Unlock()
}
