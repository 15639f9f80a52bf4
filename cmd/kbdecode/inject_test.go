package main

import (
	"errors"
	"testing"

	evdev "github.com/holoplot/go-evdev"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresousadotpt/kbdecode"
)

type keyOp struct {
	code evdev.EvCode
	down bool
}

type fakeKeyboard struct {
	ops  []keyOp
	fail error
}

func (f *fakeKeyboard) KeyDown(key int) error {
	f.ops = append(f.ops, keyOp{evdev.EvCode(key), true})
	return f.fail
}

func (f *fakeKeyboard) KeyUp(key int) error {
	f.ops = append(f.ops, keyOp{evdev.EvCode(key), false})
	return f.fail
}

func newTestInjector(t *testing.T, id kbdecode.Identity) (*Injector, *fakeKeyboard) {
	t.Helper()
	layout, err := kbdecode.NewLayoutContext(id)
	require.NoError(t, err)
	kb := &fakeKeyboard{}
	inj := NewInjector(kb, layout.Keymap(), zerolog.Nop())
	inj.delay = 0
	return inj, kb
}

// replay decodes the injected key stream and returns the typed text.
func replay(t *testing.T, id kbdecode.Identity, ops []keyOp) string {
	t.Helper()
	d, err := kbdecode.New(id)
	require.NoError(t, err)

	var text string
	for _, op := range ops {
		k := d.Decode(uint32(op.code))
		want := kbdecode.Up
		if op.down {
			want = kbdecode.Down
		}
		require.Equal(t, want, k.Direction)
		text += k.Text()
	}
	assert.Empty(t, d.Pressed())
	return text
}

func TestInjector_RoundTrip(t *testing.T) {
	tests := []struct {
		id   kbdecode.Identity
		text string
	}{
		{kbdecode.Identity{Layout: "us"}, "Hello, World! 42"},
		{kbdecode.Identity{Layout: "us", Variant: "dvorak"}, "the quick brown fox"},
		{kbdecode.Identity{Layout: "de"}, "Grüße @ 10€"},
		{kbdecode.Identity{Layout: "fr"}, "àéè #1"},
	}
	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			inj, kb := newTestInjector(t, tt.id)
			require.NoError(t, inj.Type(tt.text))
			assert.Equal(t, tt.text, replay(t, tt.id, kb.ops))
		})
	}
}

func TestInjector_ModifierOrder(t *testing.T) {
	inj, kb := newTestInjector(t, kbdecode.Identity{Layout: "de"})

	require.NoError(t, inj.Type("Q@"))

	assert.Equal(t, []keyOp{
		{evdev.KEY_LEFTSHIFT, true},
		{evdev.KEY_Q, true},
		{evdev.KEY_Q, false},
		{evdev.KEY_LEFTSHIFT, false},
		{evdev.KEY_RIGHTALT, true},
		{evdev.KEY_Q, true},
		{evdev.KEY_Q, false},
		{evdev.KEY_RIGHTALT, false},
	}, kb.ops)
}

func TestInjector_Newline(t *testing.T) {
	inj, kb := newTestInjector(t, kbdecode.Identity{Layout: "us"})

	require.NoError(t, inj.Type("\n"))
	assert.Equal(t, []keyOp{{evdev.KEY_ENTER, true}, {evdev.KEY_ENTER, false}}, kb.ops)
}

func TestInjector_Unmappable(t *testing.T) {
	inj, kb := newTestInjector(t, kbdecode.Identity{Layout: "us"})

	err := inj.Type("a☃b")
	assert.ErrorIs(t, err, errUnmappable)
	assert.Equal(t, []keyOp{{evdev.KEY_A, true}, {evdev.KEY_A, false}}, kb.ops)
}

func TestInjector_WriteError(t *testing.T) {
	inj, kb := newTestInjector(t, kbdecode.Identity{Layout: "us"})
	kb.fail = errors.New("device gone")

	err := inj.Type("a")
	assert.ErrorIs(t, err, kb.fail)
}
