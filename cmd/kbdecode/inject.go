package main

import (
	"errors"
	"fmt"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"github.com/rs/zerolog"

	"github.com/andresousadotpt/kbdecode/xkb"
)

var errUnmappable = errors.New("no key types character")

// keyWriter is the part of uinput.Keyboard the injector needs.
type keyWriter interface {
	KeyDown(key int) error
	KeyUp(key int) error
}

// levelMods are the modifiers that select each shift level.
var levelMods = []xkb.ModMask{
	0,
	xkb.ModShift,
	xkb.ModMod5,
	xkb.ModShift | xkb.ModMod5,
}

// Injector types text on a virtual keyboard by looking up, for every
// character, the key and modifiers that produce it in a keymap.
type Injector struct {
	kb     keyWriter
	keymap *xkb.Keymap
	delay  time.Duration
	log    zerolog.Logger
}

func NewInjector(kb keyWriter, keymap *xkb.Keymap, log zerolog.Logger) *Injector {
	return &Injector{kb: kb, keymap: keymap, delay: 8 * time.Millisecond, log: log}
}

// Type sends the key presses for text. It stops at the first character the
// keymap cannot produce.
func (i *Injector) Type(text string) error {
	for _, r := range text {
		if err := i.typeRune(r); err != nil {
			return err
		}
	}
	return nil
}

func (i *Injector) typeRune(r rune) error {
	if r == '\n' {
		r = '\r'
	}
	code, level, ok := i.keymap.KeyFor(r)
	if !ok || level >= len(levelMods) {
		return fmt.Errorf("%w %q", errUnmappable, r)
	}

	var held []evdev.EvCode
	for _, mod := range []xkb.ModMask{xkb.ModShift, xkb.ModMod5} {
		if levelMods[level]&mod == 0 {
			continue
		}
		mk, ok := i.keymap.ModifierKey(mod)
		if !ok {
			return fmt.Errorf("%w %q: no modifier key for level %d", errUnmappable, r, level+1)
		}
		held = append(held, mk)
	}

	i.log.Trace().
		Str("char", string(r)).
		Str("key", evdev.CodeName(evdev.EV_KEY, code)).
		Int("level", level).
		Msg("inject")

	for _, mk := range held {
		if err := i.key(mk, true); err != nil {
			return err
		}
	}
	if err := i.key(code, true); err != nil {
		return err
	}
	if err := i.key(code, false); err != nil {
		return err
	}
	for j := len(held) - 1; j >= 0; j-- {
		if err := i.key(held[j], false); err != nil {
			return err
		}
	}
	return nil
}

func (i *Injector) key(code evdev.EvCode, down bool) error {
	var err error
	if down {
		err = i.kb.KeyDown(int(code))
	} else {
		err = i.kb.KeyUp(int(code))
	}
	if err != nil {
		return fmt.Errorf("send %s: %w", evdev.CodeName(evdev.EV_KEY, code), err)
	}
	if i.delay > 0 {
		time.Sleep(i.delay)
	}
	return nil
}
