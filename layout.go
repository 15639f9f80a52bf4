package kbdecode

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/andresousadotpt/kbdecode/xkb"
)

// ErrInvalidIdentity is returned when no keymap can be built from an
// Identity.
var ErrInvalidIdentity = errors.New("invalid keyboard identity")

// Modifier is one of the modifiers and locks a Decoder reports.
type Modifier int

const (
	ModCtrl Modifier = iota
	ModAlt
	ModShift
	ModLogo
	ModCapsLock
	ModNumLock
)

// Modifiers lists every Modifier in declaration order.
var Modifiers = []Modifier{ModCtrl, ModAlt, ModShift, ModLogo, ModCapsLock, ModNumLock}

var modifierNames = map[Modifier]struct {
	name   string
	engine string
}{
	ModCtrl:     {"ctrl", xkb.ModNameCtrl},
	ModAlt:      {"alt", xkb.ModNameAlt},
	ModShift:    {"shift", xkb.ModNameShift},
	ModLogo:     {"logo", xkb.ModNameLogo},
	ModCapsLock: {"caps_lock", xkb.ModNameCaps},
	ModNumLock:  {"num_lock", xkb.ModNameNum},
}

func (m Modifier) String() string {
	if n, ok := modifierNames[m]; ok {
		return n.name
	}
	return fmt.Sprintf("Modifier(%d)", int(m))
}

// ModifierSet is a set of active modifiers.
type ModifierSet uint8

// Has reports whether m is in the set.
func (s ModifierSet) Has(m Modifier) bool {
	return s&(1<<m) != 0
}

// Names returns the names of the modifiers in the set.
func (s ModifierSet) Names() []string {
	var names []string
	for _, m := range Modifiers {
		if s.Has(m) {
			names = append(names, m.String())
		}
	}
	return names
}

type options struct {
	logger zerolog.Logger
	ctx    *xkb.Context
}

// Option configures a LayoutContext or Decoder.
type Option func(*options)

// WithLogger sets the logger used for keymap changes.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithContext sets the engine context keymaps are compiled in.
func WithContext(ctx *xkb.Context) Option {
	return func(o *options) {
		o.ctx = ctx
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ctx == nil {
		o.ctx = xkb.NewContext()
	}
	return o
}

// LayoutContext owns the compiled keymap and the live translation state.
// It is the only part of the package that talks to the engine.
type LayoutContext struct {
	ctx      *xkb.Context
	log      zerolog.Logger
	identity Identity
	keymap   *xkb.Keymap
	state    *xkb.State
}

// NewLayoutContext compiles a keymap for id. It fails if the engine rejects
// the identity.
func NewLayoutContext(id Identity, opts ...Option) (*LayoutContext, error) {
	o := newOptions(opts)
	c := &LayoutContext{
		ctx:      o.ctx,
		log:      o.logger,
		identity: id,
	}
	keymap, err := c.compile(id)
	if err != nil {
		return nil, err
	}
	c.keymap = keymap
	c.state = xkb.NewState(keymap)
	c.log.Debug().
		Str("identity", id.String()).
		Str("keymap", keymap.Description()).
		Msg("keymap compiled")
	return c, nil
}

func (c *LayoutContext) compile(id Identity) (*xkb.Keymap, error) {
	keymap, err := c.ctx.NewKeymapFromNames(id.ruleNames())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIdentity, err)
	}
	if ignored := keymap.IgnoredOptions(); len(ignored) > 0 {
		c.log.Warn().Strs("options", ignored).Msg("ignoring unknown keymap options")
	}
	return keymap, nil
}

// Identity returns the identity of the active keymap.
func (c *LayoutContext) Identity() Identity {
	return c.identity
}

// Layout returns the active layout name as configured.
func (c *LayoutContext) Layout() string {
	return c.identity.Layout
}

// Keymap returns the active keymap.
func (c *LayoutContext) Keymap() *xkb.Keymap {
	return c.keymap
}

// SwitchLayout recompiles the keymap with layout replaced and every other
// identity field unchanged. The translation state starts over. On error
// nothing changes.
func (c *LayoutContext) SwitchLayout(layout string) error {
	id := c.identity
	id.Layout = layout

	keymap, err := c.compile(id)
	if err != nil {
		c.log.Warn().Err(err).Str("layout", layout).Msg("layout switch rejected")
		return err
	}

	c.identity = id
	c.keymap = keymap
	c.state = xkb.NewState(keymap)
	c.log.Info().
		Str("layout", layout).
		Str("keymap", keymap.Description()).
		Msg("layout switched")
	return nil
}

// Reset drops all held keys and locks.
func (c *LayoutContext) Reset() {
	c.state = xkb.NewState(c.keymap)
}

// ApplyTransition feeds one key transition, in engine numbering, into the
// live state and returns the state components it changed.
func (c *LayoutContext) ApplyTransition(code xkb.Keycode, dir KeyDirection) xkb.StateComponent {
	return c.state.UpdateKey(code, dir)
}

// ModifierActive reports whether m is in the effective modifier state.
func (c *LayoutContext) ModifierActive(m Modifier) bool {
	n, ok := modifierNames[m]
	if !ok {
		return false
	}
	active, err := c.state.ModNameIsActive(n.engine, xkb.StateModsEffective)
	return err == nil && active
}

// Modifiers returns the effective modifiers.
func (c *LayoutContext) Modifiers() ModifierSet {
	var s ModifierSet
	for _, m := range Modifiers {
		if c.ModifierActive(m) {
			s |= 1 << m
		}
	}
	return s
}

// LedActive reports whether the named indicator (xkb.LedNameCaps,
// xkb.LedNameNum) is lit.
func (c *LayoutContext) LedActive(name string) bool {
	active, err := c.state.LedNameIsActive(name)
	return err == nil && active
}

// Symbols returns the keysyms code produces in the current state.
func (c *LayoutContext) Symbols(code xkb.Keycode) []xkb.Keysym {
	return c.state.KeyGetSyms(code)
}

// Text returns the text code produces in the current state.
func (c *LayoutContext) Text(code xkb.Keycode) string {
	return c.state.KeyGetUTF8(code)
}
