package xkb

import (
	"testing"

	evdev "github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kc(code evdev.EvCode) Keycode {
	return Keycode(code) + EvdevOffset
}

func mustKeymap(t *testing.T, names RuleNames) *Keymap {
	t.Helper()
	km, err := NewContext().NewKeymapFromNames(names)
	require.NoError(t, err)
	return km
}

func TestNewKeymapFromNames_Defaults(t *testing.T) {
	km := mustKeymap(t, RuleNames{})

	assert.Equal(t, RuleNames{Rules: "evdev", Model: "pc105", Layout: "us"}, km.Names())
	assert.Equal(t, "English (US)", km.Description())
	assert.Equal(t, []Keysym{'a'}, km.KeyGetSymsByLevel(kc(evdev.KEY_A), 0))
	assert.Equal(t, []Keysym{'A'}, km.KeyGetSymsByLevel(kc(evdev.KEY_A), 1))
	assert.Nil(t, km.KeyGetSymsByLevel(kc(evdev.KEY_A), 2))
}

func TestNewKeymapFromNames_Errors(t *testing.T) {
	tests := []struct {
		name  string
		names RuleNames
		want  error
	}{
		{
			name:  "unknown layout",
			names: RuleNames{Layout: "xx-invalid"},
			want:  ErrUnknownLayout,
		},
		{
			name:  "unknown variant",
			names: RuleNames{Layout: "us", Variant: "klingon"},
			want:  ErrUnknownVariant,
		},
		{
			name:  "unknown rules",
			names: RuleNames{Rules: "xorg-classic"},
			want:  ErrUnknownRules,
		},
		{
			name:  "bad second layout",
			names: RuleNames{Layout: "us,zz"},
			want:  ErrUnknownLayout,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			km, err := NewContext().NewKeymapFromNames(tt.names)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, km)
		})
	}
}

func TestNewKeymapFromNames_MultipleLayoutsUseFirst(t *testing.T) {
	km := mustKeymap(t, RuleNames{Layout: "de,us", Variant: "nodeadkeys,"})

	assert.Equal(t, "German (no dead keys)", km.Description())
	assert.Equal(t, []Keysym{'z'}, km.KeyGetSymsByLevel(kc(evdev.KEY_Y), 0))
}

func TestNewKeymapFromNames_Options(t *testing.T) {
	km := mustKeymap(t, RuleNames{Options: "ctrl:nocaps, bogus:option,altwin:swap_alt_win"})

	assert.Equal(t, []string{"bogus:option"}, km.IgnoredOptions())
	assert.Equal(t, []Keysym{KeyControlL}, km.KeyGetSymsByLevel(kc(evdev.KEY_CAPSLOCK), 0))
	assert.Equal(t, []Keysym{KeySuperL}, km.KeyGetSymsByLevel(kc(evdev.KEY_LEFTALT), 0))
	assert.Equal(t, []Keysym{KeyAltL}, km.KeyGetSymsByLevel(kc(evdev.KEY_LEFTMETA), 0))

	key, ok := km.ModifierKey(ModControl)
	require.True(t, ok)
	assert.Equal(t, evdev.EvCode(evdev.KEY_LEFTCTRL), key)
}

func TestNewKeymapFromNames_SwapEscape(t *testing.T) {
	km := mustKeymap(t, RuleNames{Options: "caps:swapescape"})

	assert.Equal(t, []Keysym{KeyEscape}, km.KeyGetSymsByLevel(kc(evdev.KEY_CAPSLOCK), 0))
	assert.Equal(t, []Keysym{KeyCapsLock}, km.KeyGetSymsByLevel(kc(evdev.KEY_ESC), 0))

	// the registry must not be modified by options
	plain := mustKeymap(t, RuleNames{})
	assert.Equal(t, []Keysym{KeyCapsLock}, plain.KeyGetSymsByLevel(kc(evdev.KEY_CAPSLOCK), 0))
}

func TestKeyTypeFor(t *testing.T) {
	tests := []struct {
		name string
		syms []Keysym
		want keyType
	}{
		{"single", []Keysym{KeyEscape}, typeOneLevel},
		{"digit", []Keysym{'1', '!'}, typeTwoLevel},
		{"letter", []Keysym{'a', 'A'}, typeAlphabetic},
		{"latin1 letter", []Keysym{0xe4, 0xc4}, typeAlphabetic},
		{"keypad", []Keysym{KeyKPHome, KeyKP0 + 7}, typeKeypad},
		{"four level", []Keysym{'1', '!', 0xb9}, typeFourLevel},
		{"four level letter", []Keysym{'q', 'Q', '@'}, typeFourLevelAlphabetic},
		{"eszett", []Keysym{0xdf, '?', '\\'}, typeFourLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keyTypeFor(tt.syms))
		})
	}
}

func TestKeymap_KeyFor(t *testing.T) {
	tests := []struct {
		name      string
		names     RuleNames
		r         rune
		wantCode  evdev.EvCode
		wantLevel int
	}{
		{"lower", RuleNames{}, 'a', evdev.KEY_A, 0},
		{"upper", RuleNames{}, 'A', evdev.KEY_A, 1},
		{"digit prefers main row", RuleNames{}, '7', evdev.KEY_7, 0},
		{"shifted symbol", RuleNames{}, '@', evdev.KEY_2, 1},
		{"altgr", RuleNames{Layout: "de"}, '@', evdev.KEY_Q, 2},
		{"dvorak", RuleNames{Variant: "dvorak"}, 'o', evdev.KEY_S, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, level, ok := mustKeymap(t, tt.names).KeyFor(tt.r)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantLevel, level)
		})
	}

	_, _, ok := mustKeymap(t, RuleNames{}).KeyFor('ж')
	assert.False(t, ok)
}

func TestContext_Registry(t *testing.T) {
	ctx := NewContext()

	assert.Equal(t, []string{"de", "fr", "gb", "us"}, ctx.Layouts())
	assert.Equal(t, []string{"colemak", "dvorak", "intl"}, ctx.Variants("us"))
	assert.Empty(t, ctx.Variants("fr"))
	assert.Contains(t, ctx.Options(), "ctrl:nocaps")

	desc, ok := ctx.Describe("de", "nodeadkeys")
	assert.True(t, ok)
	assert.Equal(t, "German (no dead keys)", desc)

	_, ok = ctx.Describe("de", "dvorak")
	assert.False(t, ok)
}

func TestContext_EveryLayoutCompiles(t *testing.T) {
	ctx := NewContext()

	for _, layout := range ctx.Layouts() {
		for _, variant := range append([]string{""}, ctx.Variants(layout)...) {
			km, err := ctx.NewKeymapFromNames(RuleNames{Layout: layout, Variant: variant})
			require.NoError(t, err, "%s(%s)", layout, variant)

			// every alphanumeric key is bound
			for _, row := range alphanumRows {
				for _, code := range row {
					assert.NotZero(t, km.NumLevelsForKey(kc(code)), "%s(%s) %d", layout, variant, code)
				}
			}
		}
	}
}
