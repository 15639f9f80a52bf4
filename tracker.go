package kbdecode

import "slices"

// KeyTracker remembers which raw scancodes are currently held, in press
// order. Input devices handed to a Decoder report each key once per press
// and once per release without saying which, so the tracker infers the
// direction: an untracked code is a press, a tracked one a release.
type KeyTracker struct {
	pressed []uint32
}

// Track records a transition of code and returns its direction.
func (t *KeyTracker) Track(code uint32) KeyDirection {
	for i := len(t.pressed) - 1; i >= 0; i-- {
		if t.pressed[i] == code {
			t.pressed = slices.Delete(t.pressed, i, i+1)
			return Up
		}
	}
	t.pressed = append(t.pressed, code)
	return Down
}

// IsPressed reports whether code is currently held.
func (t *KeyTracker) IsPressed(code uint32) bool {
	return slices.Contains(t.pressed, code)
}

// Pressed returns the held codes in press order.
func (t *KeyTracker) Pressed() []uint32 {
	return slices.Clone(t.pressed)
}

// Len returns the number of held codes.
func (t *KeyTracker) Len() int {
	return len(t.pressed)
}

// Reset forgets every held code.
func (t *KeyTracker) Reset() {
	t.pressed = t.pressed[:0]
}
