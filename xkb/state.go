package xkb

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// heldKey remembers what a pressed key contributed to the state.
type heldKey struct {
	act action
	// unlock is set when the press found the lock already active, so the
	// release has to clear it.
	unlock bool
}

// State is the live modifier and lock state over a keymap. It is not safe
// for concurrent use.
type State struct {
	keymap    *Keymap
	held      map[Keycode]heldKey
	depressed ModMask
	locked    ModMask
}

// NewState returns a state with no keys held and no locks active.
func NewState(keymap *Keymap) *State {
	return &State{
		keymap: keymap,
		held:   make(map[Keycode]heldKey),
	}
}

// Keymap returns the keymap the state was created for.
func (s *State) Keymap() *Keymap {
	return s.keymap
}

func (s *State) effective() ModMask {
	return s.depressed | s.locked
}

func (s *State) leds() ModMask {
	return s.locked & (ModLock | ModMod2)
}

// UpdateKey applies a key transition and reports which components changed.
// Pressing a key that is already held, or releasing one that is not, is a
// no-op.
func (s *State) UpdateKey(kc Keycode, dir KeyDirection) StateComponent {
	depressed, locked := s.depressed, s.locked
	effective, leds := s.effective(), s.leds()

	switch dir {
	case KeyDown:
		if _, ok := s.held[kc]; ok {
			return 0
		}
		h := heldKey{}
		if key, ok := s.keymap.keys[kc]; ok {
			h.act = key.act
		}
		if h.act.kind == actionLockMods {
			if s.locked&h.act.mods == h.act.mods {
				h.unlock = true
			} else {
				s.locked |= h.act.mods
			}
		}
		s.held[kc] = h
	case KeyUp:
		h, ok := s.held[kc]
		if !ok {
			return 0
		}
		delete(s.held, kc)
		if h.act.kind == actionLockMods && h.unlock {
			s.locked &^= h.act.mods
		}
	}

	s.depressed = 0
	for _, h := range s.held {
		if h.act.kind != actionNone {
			s.depressed |= h.act.mods
		}
	}

	var changed StateComponent
	if depressed != s.depressed {
		changed |= StateModsDepressed
	}
	if locked != s.locked {
		changed |= StateModsLocked
	}
	if effective != s.effective() {
		changed |= StateModsEffective
	}
	if leds != s.leds() {
		changed |= StateLeds
	}
	return changed
}

// SerializeMods returns the modifier mask of the given components.
func (s *State) SerializeMods(components StateComponent) ModMask {
	if components&StateModsEffective != 0 {
		return s.effective()
	}
	var mask ModMask
	if components&StateModsDepressed != 0 {
		mask |= s.depressed
	}
	if components&StateModsLocked != 0 {
		mask |= s.locked
	}
	return mask
}

// ModIndexIsActive reports whether the modifier at idx is set in components.
func (s *State) ModIndexIsActive(idx ModIndex, components StateComponent) bool {
	if idx >= numMods {
		return false
	}
	return s.SerializeMods(components)&(1<<idx) != 0
}

// ModNameIsActive reports whether the named modifier is set in components.
func (s *State) ModNameIsActive(name string, components StateComponent) (bool, error) {
	idx, ok := ModGetIndex(name)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownMod, name)
	}
	return s.ModIndexIsActive(idx, components), nil
}

// LedNameIsActive reports whether the named indicator is lit.
func (s *State) LedNameIsActive(name string) (bool, error) {
	switch name {
	case LedNameCaps:
		return s.locked&ModLock != 0, nil
	case LedNameNum:
		return s.locked&ModMod2 != 0, nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownLed, name)
}

// KeyGetLevel returns the shift level kc resolves to, or -1 if unbound.
func (s *State) KeyGetLevel(kc Keycode) int {
	key, ok := s.keymap.keys[kc]
	if !ok {
		return -1
	}
	return key.typ.level(s.effective())
}

// KeyGetSyms returns the symbols kc produces in the current state.
func (s *State) KeyGetSyms(kc Keycode) []Keysym {
	return s.keymap.KeyGetSymsByLevel(kc, s.KeyGetLevel(kc))
}

// KeyGetOneSym returns the single symbol of kc, or NoSymbol.
func (s *State) KeyGetOneSym(kc Keycode) Keysym {
	syms := s.KeyGetSyms(kc)
	if len(syms) != 1 {
		return NoSymbol
	}
	return syms[0]
}

// consumed reports whether the key type of kc used mods to pick its level.
func (s *State) consumed(kc Keycode, mods ModMask) bool {
	key, ok := s.keymap.keys[kc]
	return ok && key.typ.mods()&mods != 0
}

// KeyGetUTF32 returns the character kc produces, or 0.
func (s *State) KeyGetUTF32(kc Keycode) rune {
	sym := s.KeyGetOneSym(kc)
	r := sym.Rune()
	if r != 0 && s.effective()&ModControl != 0 && !s.consumed(kc, ModControl) {
		r = toControl(r)
	}
	return r
}

// KeyGetUTF8 returns the text kc produces. Dead keys and modifiers produce
// none.
func (s *State) KeyGetUTF8(kc Keycode) string {
	syms := s.KeyGetSyms(kc)
	if len(syms) == 1 {
		r := s.KeyGetUTF32(kc)
		if r == 0 || !utf8.ValidRune(r) {
			return ""
		}
		return string(r)
	}
	var b strings.Builder
	for _, sym := range syms {
		if r := sym.Rune(); r != 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// toControl maps a character to its control code, the way a terminal does
// for Ctrl+key.
func toControl(r rune) rune {
	switch {
	case (r >= '@' && r < 0x7f) || r == ' ':
		return r & 0x1f
	case r == '2':
		return 0
	case r >= '3' && r <= '7':
		return r - ('3' - 0x1b)
	case r == '8':
		return 0x7f
	case r == '/':
		return '_' & 0x1f
	}
	return r
}
