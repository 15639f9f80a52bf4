// Package xkb is a small table-driven keyboard translation engine modelled
// on the XKB keymap/state split: a Keymap is compiled once from
// rules/model/layout/variant/options names, and a State tracks the live
// modifier and lock state while keys are pressed and released.
package xkb

import "errors"

// Keycode is an XKB keycode. Evdev scancodes are offset by EvdevOffset.
type Keycode uint32

// EvdevOffset is the distance between evdev and XKB keycodes. XKB keeps the
// historical X11 numbering, which starts at 8.
const EvdevOffset = 8

// KeyDirection is the direction of a key transition.
type KeyDirection int

const (
	KeyUp KeyDirection = iota
	KeyDown
)

func (d KeyDirection) String() string {
	switch d {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	}
	return "unknown"
}

// ModIndex indexes one of the eight core modifiers.
type ModIndex uint

// ModMask is a bitmask of core modifiers.
type ModMask uint32

const (
	ModIndexShift ModIndex = iota
	ModIndexLock
	ModIndexControl
	ModIndexMod1
	ModIndexMod2
	ModIndexMod3
	ModIndexMod4
	ModIndexMod5
	numMods
)

const (
	ModShift   ModMask = 1 << ModIndexShift
	ModLock    ModMask = 1 << ModIndexLock
	ModControl ModMask = 1 << ModIndexControl
	ModMod1    ModMask = 1 << ModIndexMod1
	ModMod2    ModMask = 1 << ModIndexMod2
	ModMod3    ModMask = 1 << ModIndexMod3
	ModMod4    ModMask = 1 << ModIndexMod4
	ModMod5    ModMask = 1 << ModIndexMod5
)

// Modifier names, as understood by State.ModNameIsActive.
const (
	ModNameShift = "Shift"
	ModNameCaps  = "Lock"
	ModNameCtrl  = "Control"
	ModNameAlt   = "Mod1"
	ModNameNum   = "Mod2"
	ModNameLogo  = "Mod4"
)

// LED names, as understood by State.LedNameIsActive.
const (
	LedNameCaps = "Caps Lock"
	LedNameNum  = "Num Lock"
)

var modNames = [numMods]string{"Shift", "Lock", "Control", "Mod1", "Mod2", "Mod3", "Mod4", "Mod5"}

// modLevel3 is the modifier bound to ISO_Level3_Shift.
const modLevel3 = ModMod5

// StateComponent selects parts of a State, and reports which parts changed.
type StateComponent uint32

const (
	StateModsDepressed StateComponent = 1 << iota
	StateModsLocked
	StateModsEffective
	StateLeds
)

var (
	ErrUnknownRules   = errors.New("unknown rules")
	ErrUnknownLayout  = errors.New("unknown layout")
	ErrUnknownVariant = errors.New("unknown variant")
	ErrUnknownMod     = errors.New("unknown modifier name")
	ErrUnknownLed     = errors.New("unknown led name")
)

// ModGetIndex returns the index of the named modifier.
func ModGetIndex(name string) (ModIndex, bool) {
	for i, n := range modNames {
		if n == name {
			return ModIndex(i), true
		}
	}
	return 0, false
}

// ModGetName returns the name of the modifier at idx.
func ModGetName(idx ModIndex) string {
	if idx >= numMods {
		return ""
	}
	return modNames[idx]
}
