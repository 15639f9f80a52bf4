package kbdecode

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/andresousadotpt/kbdecode/xkb"
)

// KeysymEvent pairs a keysym with the direction of the transition that
// produced it.
type KeysymEvent struct {
	Sym       xkb.Keysym
	Direction KeyDirection
}

// Keystroke is the result of one Decode call. It is a copy of the state at
// decode time, so it stays valid after later calls.
type Keystroke struct {
	Code      uint32
	Keycode   xkb.Keycode
	Direction KeyDirection

	syms []xkb.Keysym
	text string
	mods ModifierSet
}

func newKeystroke(layout *LayoutContext, code uint32, kc xkb.Keycode, dir KeyDirection) Keystroke {
	k := Keystroke{
		Code:      code,
		Keycode:   kc,
		Direction: dir,
		syms:      layout.Symbols(kc),
		mods:      layout.Modifiers(),
	}
	if dir == Down {
		k.text = layout.Text(kc)
	}
	return k
}

// Keysyms returns the keysyms bound to the key, each with the event
// direction.
func (k Keystroke) Keysyms() []KeysymEvent {
	events := make([]KeysymEvent, len(k.syms))
	for i, sym := range k.syms {
		events[i] = KeysymEvent{Sym: sym, Direction: k.Direction}
	}
	return events
}

// Text returns the text typed by a press, upper-cased while Shift is held.
// Releases type nothing.
func (k Keystroke) Text() string {
	if k.Direction != Down || k.text == "" {
		return ""
	}
	if k.mods.Has(ModShift) {
		return cases.Upper(language.Und).String(k.text)
	}
	return k.text
}

// Chars returns Text as runes.
func (k Keystroke) Chars() []rune {
	return []rune(k.Text())
}

// Modifiers returns the modifiers active right after the transition.
func (k Keystroke) Modifiers() ModifierSet {
	return k.mods
}

// ModifierActive and the Is*Pressed methods answer from the modifiers active
// right after the transition.
func (k Keystroke) ModifierActive(m Modifier) bool { return k.mods.Has(m) }
func (k Keystroke) IsCtrlPressed() bool            { return k.mods.Has(ModCtrl) }
func (k Keystroke) IsAltPressed() bool             { return k.mods.Has(ModAlt) }
func (k Keystroke) IsShiftPressed() bool           { return k.mods.Has(ModShift) }
func (k Keystroke) IsLogoPressed() bool            { return k.mods.Has(ModLogo) }
func (k Keystroke) IsCapsLockPressed() bool        { return k.mods.Has(ModCapsLock) }
func (k Keystroke) IsNumLockPressed() bool         { return k.mods.Has(ModNumLock) }

func (k Keystroke) String() string {
	names := make([]string, len(k.syms))
	for i, sym := range k.syms {
		names[i] = sym.String()
	}
	return fmt.Sprintf("key %d (%d) %s [%s] %q", k.Code, k.Keycode, k.Direction,
		strings.Join(names, " "), k.Text())
}
