// Package kbdecode turns raw key scancodes into keysyms and text while
// tracking which keys are held and which modifiers are active.
//
// Scancodes arrive without a direction: the first occurrence of a code is a
// press and the next one its release. A Decoder must therefore see every
// transition exactly once and in the order it happened.
package kbdecode

import "github.com/andresousadotpt/kbdecode/xkb"

// KeyDirection is the direction of a key transition.
type KeyDirection = xkb.KeyDirection

// Directions reported by Decode.
const (
	Up   = xkb.KeyUp
	Down = xkb.KeyDown
)

// EngineKeycode converts a raw evdev scancode to engine numbering.
func EngineKeycode(code uint32) xkb.Keycode {
	return xkb.Keycode(code) + xkb.EvdevOffset
}

// Decoder decodes the key stream of one keyboard. It is not safe for
// concurrent use; independent keyboards should get independent decoders.
type Decoder struct {
	tracker KeyTracker
	layout  *LayoutContext
}

// New returns a decoder for the keymap selected by id.
func New(id Identity, opts ...Option) (*Decoder, error) {
	layout, err := NewLayoutContext(id, opts...)
	if err != nil {
		return nil, err
	}
	return &Decoder{layout: layout}, nil
}

// NewDefault returns a decoder for the system keyboard identity.
func NewDefault(opts ...Option) (*Decoder, error) {
	return New(DetectIdentity(), opts...)
}

// Decode records a transition of the raw scancode code and returns what it
// produced.
func (d *Decoder) Decode(code uint32) Keystroke {
	dir := d.tracker.Track(code)
	kc := EngineKeycode(code)
	d.layout.ApplyTransition(kc, dir)
	return newKeystroke(d.layout, code, kc, dir)
}

// SetLayout switches to another layout, keeping the other identity fields.
// On error the previous keymap stays active.
func (d *Decoder) SetLayout(layout string) error {
	return d.layout.SwitchLayout(layout)
}

// Layout returns the configured layout name.
func (d *Decoder) Layout() string {
	return d.layout.Layout()
}

// Identity returns the identity of the active keymap.
func (d *Decoder) Identity() Identity {
	return d.layout.Identity()
}

// LayoutContext exposes the keymap and live state behind the decoder.
func (d *Decoder) LayoutContext() *LayoutContext {
	return d.layout
}

// Pressed returns the held scancodes in press order.
func (d *Decoder) Pressed() []uint32 {
	return d.tracker.Pressed()
}

// Reset forgets held keys, modifiers and locks, e.g. after the device was
// reopened and transitions may have been missed.
func (d *Decoder) Reset() {
	d.tracker.Reset()
	d.layout.Reset()
}

// ModifierActive reports whether m is currently active.
func (d *Decoder) ModifierActive(m Modifier) bool { return d.layout.ModifierActive(m) }

// IsCtrlPressed and the methods below report whether one modifier is
// currently active.
func (d *Decoder) IsCtrlPressed() bool     { return d.layout.ModifierActive(ModCtrl) }
func (d *Decoder) IsAltPressed() bool      { return d.layout.ModifierActive(ModAlt) }
func (d *Decoder) IsShiftPressed() bool    { return d.layout.ModifierActive(ModShift) }
func (d *Decoder) IsLogoPressed() bool     { return d.layout.ModifierActive(ModLogo) }
func (d *Decoder) IsCapsLockPressed() bool { return d.layout.ModifierActive(ModCapsLock) }
func (d *Decoder) IsNumLockPressed() bool  { return d.layout.ModifierActive(ModNumLock) }
