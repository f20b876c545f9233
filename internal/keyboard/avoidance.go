// Package keyboard reconciles on-screen keyboard and window heights so that
// layouts can reserve exactly the space the keyboard still covers.
package keyboard

// Input is one keyboard or resize observation from the platform layer.
type Input struct {
	// PrevBaseWindowHeight is the BaseWindowHeight returned by the previous call.
	PrevBaseWindowHeight int
	RawKeyboardHeight    int
	CurrentWindowHeight  int
	// SafeAreaHeight is optional; zero means unknown.
	SafeAreaHeight int
}

// State is the reconciled layout state.
type State struct {
	// BaseWindowHeight is the largest keyboard-closed window height seen so far.
	BaseWindowHeight int
	// EffectiveKeyboardHeight is the part of the keyboard not already
	// absorbed by the window shrinking.
	EffectiveKeyboardHeight int
}

// EffectiveHeight returns how much of rawHeight still needs to be reserved
// once the window shrink (base - current) has been subtracted. Never negative.
func EffectiveHeight(rawHeight, baseWindowHeight, currentWindowHeight int) int {
	delta := max(baseWindowHeight-currentWindowHeight, 0)
	return max(rawHeight-delta, 0)
}

// Update advances the layout state. The base window height never decreases
// and is never below the safe area or the current window height. A closed
// keyboard (raw height 0) always yields an effective height of 0.
func Update(in Input) State {
	base := max(in.PrevBaseWindowHeight, in.SafeAreaHeight, in.CurrentWindowHeight, 0)
	st := State{BaseWindowHeight: base}
	if in.RawKeyboardHeight != 0 {
		st.EffectiveKeyboardHeight = EffectiveHeight(in.RawKeyboardHeight, base, in.CurrentWindowHeight)
	}
	return st
}
