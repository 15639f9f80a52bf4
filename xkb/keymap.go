package xkb

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"unicode"

	evdev "github.com/holoplot/go-evdev"
)

// RuleNames are the rules/model/layout/variant/options names a keymap is
// compiled from. Empty fields select the context defaults.
type RuleNames struct {
	Rules   string
	Model   string
	Layout  string
	Variant string
	Options string
}

// Context resolves RuleNames against the built-in layout registry.
type Context struct {
	defaults RuleNames
}

// NewContext returns a context with the usual evdev defaults.
func NewContext() *Context {
	return &Context{
		defaults: RuleNames{
			Rules:  "evdev",
			Model:  "pc105",
			Layout: "us",
		},
	}
}

// Defaults returns the names used for empty fields.
func (c *Context) Defaults() RuleNames {
	return c.defaults
}

// Layouts returns the names of all known layouts, sorted.
func (c *Context) Layouts() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Variants returns the non-basic variants of layout, sorted.
func (c *Context) Variants(layout string) []string {
	var names []string
	for name := range registry[layout] {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Options returns every option the engine understands, sorted.
func (c *Context) Options() []string {
	names := make([]string, 0, len(optionRegistry))
	for name := range optionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the human readable name of a layout variant.
func (c *Context) Describe(layout, variant string) (string, bool) {
	def, ok := registry[layout][variant]
	if !ok {
		return "", false
	}
	return def.description, true
}

// resolve fills empty fields from the defaults. A default variant only
// applies together with the default layout.
func (c *Context) resolve(names RuleNames) RuleNames {
	if names.Rules == "" {
		names.Rules = c.defaults.Rules
	}
	if names.Model == "" {
		names.Model = c.defaults.Model
	}
	if names.Layout == "" {
		names.Layout = c.defaults.Layout
		if names.Variant == "" {
			names.Variant = c.defaults.Variant
		}
	}
	if names.Options == "" {
		names.Options = c.defaults.Options
	}
	return names
}

type keyType int

const (
	typeOneLevel keyType = iota
	typeTwoLevel
	typeAlphabetic
	typeKeypad
	typeFourLevel
	typeFourLevelAlphabetic
)

// mods returns the modifiers a key type uses to pick a level.
func (t keyType) mods() ModMask {
	switch t {
	case typeTwoLevel:
		return ModShift
	case typeAlphabetic:
		return ModShift | ModLock
	case typeKeypad:
		return ModShift | ModMod2
	case typeFourLevel:
		return ModShift | modLevel3
	case typeFourLevelAlphabetic:
		return ModShift | ModLock | modLevel3
	}
	return 0
}

// level picks the shift level for the effective modifiers.
func (t keyType) level(mods ModMask) int {
	shift := mods&ModShift != 0
	lock := mods&ModLock != 0
	lv3 := mods&modLevel3 != 0
	switch t {
	case typeTwoLevel:
		if shift {
			return 1
		}
	case typeAlphabetic:
		if shift != lock {
			return 1
		}
	case typeKeypad:
		if shift != (mods&ModMod2 != 0) {
			return 1
		}
	case typeFourLevel:
		level := 0
		if shift {
			level++
		}
		if lv3 {
			level += 2
		}
		return level
	case typeFourLevelAlphabetic:
		if lv3 {
			if shift {
				return 3
			}
			return 2
		}
		if shift != lock {
			return 1
		}
	}
	return 0
}

func isAlphabetic(lower, upper Keysym) bool {
	l, u := lower.Rune(), upper.Rune()
	return l != u && unicode.IsLower(l) && unicode.ToUpper(l) == u
}

func keyTypeFor(syms []Keysym) keyType {
	switch {
	case len(syms) <= 1:
		return typeOneLevel
	case len(syms) == 2 && (syms[0].IsKeypad() || syms[1].IsKeypad()):
		return typeKeypad
	case isAlphabetic(syms[0], syms[1]):
		if len(syms) > 2 {
			return typeFourLevelAlphabetic
		}
		return typeAlphabetic
	case len(syms) > 2:
		return typeFourLevel
	}
	return typeTwoLevel
}

type actionKind int

const (
	actionNone actionKind = iota
	actionSetMods
	actionLockMods
)

type action struct {
	kind actionKind
	mods ModMask
}

// interpret binds the modifier action of a key from its first keysym.
func interpret(sym Keysym) action {
	switch sym {
	case KeyShiftL, KeyShiftR:
		return action{actionSetMods, ModShift}
	case KeyControlL, KeyControlR:
		return action{actionSetMods, ModControl}
	case KeyAltL, KeyAltR, KeyMetaL, KeyMetaR:
		return action{actionSetMods, ModMod1}
	case KeySuperL, KeySuperR:
		return action{actionSetMods, ModMod4}
	case KeyISOLevel3Shift:
		return action{actionSetMods, modLevel3}
	case KeyCapsLock:
		return action{actionLockMods, ModLock}
	case KeyShiftLock:
		return action{actionLockMods, ModShift}
	case KeyNumLock:
		return action{actionLockMods, ModMod2}
	}
	return action{}
}

type key struct {
	syms []Keysym
	typ  keyType
	act  action
}

// Keymap is an immutable compiled keymap.
type Keymap struct {
	names       RuleNames
	description string
	keys        map[Keycode]*key
	ignored     []string
}

// NewKeymapFromNames compiles a keymap. Unknown rules, layouts or variants
// are errors; unknown options are skipped and listed by IgnoredOptions.
func (c *Context) NewKeymapFromNames(names RuleNames) (*Keymap, error) {
	names = c.resolve(names)

	if !knownRules[names.Rules] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRules, names.Rules)
	}

	layouts := strings.Split(names.Layout, ",")
	variants := strings.Split(names.Variant, ",")
	var def *layoutDef
	for i, layout := range layouts {
		layout = strings.TrimSpace(layout)
		known, ok := registry[layout]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, layout)
		}
		variant := ""
		if i < len(variants) {
			variant = strings.TrimSpace(variants[i])
		}
		d, ok := known[variant]
		if !ok {
			return nil, fmt.Errorf("%w: %q for layout %q", ErrUnknownVariant, variant, layout)
		}
		if def == nil {
			def = d
		}
	}

	symbols := with(pcKeys, def.keys)
	if def.lv3 {
		symbols[evdev.KEY_RIGHTALT] = []Keysym{KeyISOLevel3Shift}
	}

	km := &Keymap{
		names:       names,
		description: def.description,
		keys:        make(map[Keycode]*key, len(symbols)),
	}

	for _, opt := range strings.Split(names.Options, ",") {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		apply, ok := optionRegistry[opt]
		if !ok {
			km.ignored = append(km.ignored, opt)
			continue
		}
		apply(symbols)
	}

	for code, syms := range symbols {
		if len(syms) == 0 {
			continue
		}
		km.keys[Keycode(code)+EvdevOffset] = &key{
			syms: syms,
			typ:  keyTypeFor(syms),
			act:  interpret(syms[0]),
		}
	}
	return km, nil
}

// Names returns the names the keymap was compiled from, defaults filled in.
func (k *Keymap) Names() RuleNames {
	return k.names
}

// Description returns the human readable name of the compiled layout.
func (k *Keymap) Description() string {
	return k.description
}

// IgnoredOptions lists the options that were not understood.
func (k *Keymap) IgnoredOptions() []string {
	return slices.Clone(k.ignored)
}

// NumLevelsForKey returns how many shift levels kc has, 0 if it is unbound.
func (k *Keymap) NumLevelsForKey(kc Keycode) int {
	if key, ok := k.keys[kc]; ok {
		return len(key.syms)
	}
	return 0
}

// KeyGetSymsByLevel returns the symbols bound to kc at level.
func (k *Keymap) KeyGetSymsByLevel(kc Keycode, level int) []Keysym {
	key, ok := k.keys[kc]
	if !ok || level < 0 || level >= len(key.syms) || key.syms[level] == NoSymbol {
		return nil
	}
	return []Keysym{key.syms[level]}
}

// keycodes returns the bound keycodes in ascending order.
func (k *Keymap) keycodes() []Keycode {
	codes := make([]Keycode, 0, len(k.keys))
	for kc := range k.keys {
		codes = append(codes, kc)
	}
	slices.Sort(codes)
	return codes
}

// KeyFor finds the key and level that type r, preferring the lowest level
// and keys outside the keypad.
func (k *Keymap) KeyFor(r rune) (evdev.EvCode, int, bool) {
	var (
		best      Keycode
		bestLevel = -1
		bestPad   bool
	)
	for _, kc := range k.keycodes() {
		key := k.keys[kc]
		for level, sym := range key.syms {
			if sym.Rune() != r {
				continue
			}
			pad := sym.IsKeypad()
			if bestLevel < 0 || (bestPad && !pad) || (bestPad == pad && level < bestLevel) {
				best, bestLevel, bestPad = kc, level, pad
			}
			break
		}
	}
	if bestLevel < 0 {
		return 0, 0, false
	}
	return evdev.EvCode(best - EvdevOffset), bestLevel, true
}

// ModifierKey returns a key whose action sets mods while held.
func (k *Keymap) ModifierKey(mods ModMask) (evdev.EvCode, bool) {
	for _, kc := range k.keycodes() {
		act := k.keys[kc].act
		if act.kind == actionSetMods && act.mods == mods {
			return evdev.EvCode(kc - EvdevOffset), true
		}
	}
	return 0, false
}
