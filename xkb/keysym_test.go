package xkb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeysym_Names(t *testing.T) {
	tests := []struct {
		sym  Keysym
		name string
	}{
		{'a', "a"},
		{'Z', "Z"},
		{'7', "7"},
		{' ', "space"},
		{'@', "at"},
		{KeyShiftL, "Shift_L"},
		{KeyUpArrow, "Up"},
		{KeyDownArrow, "Down"},
		{KeyF1 + 4, "F5"},
		{KeyKP0 + 3, "KP_3"},
		{KeyDeadAcute, "dead_acute"},
		{0xe4, "adiaeresis"},
		{0xe2, "U00E2"},
		{KeyEuroSign, "EuroSign"},
		{KeysymFromRune('ж'), "U0436"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.sym.String())
			sym, ok := KeysymFromName(tt.name)
			assert.True(t, ok)
			assert.Equal(t, tt.sym, sym)
		})
	}

	_, ok := KeysymFromName("not_a_keysym")
	assert.False(t, ok)
}

func TestKeysym_Runes(t *testing.T) {
	tests := []struct {
		name string
		sym  Keysym
		want rune
	}{
		{"ascii", 'q', 'q'},
		{"latin1", 0xdf, 'ß'},
		{"unicode", 0x01000436, 'ж'},
		{"euro", KeyEuroSign, '€'},
		{"return", KeyReturn, '\r'},
		{"keypad digit", KeyKP0 + 5, '5'},
		{"keypad op", KeyKPAdd, '+'},
		{"modifier", KeyShiftL, 0},
		{"dead", KeyDeadGrave, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sym.Rune())
		})
	}

	assert.Equal(t, Keysym('q'), KeysymFromRune('q'))
	assert.Equal(t, Keysym(0x01000436), KeysymFromRune('ж'))
	assert.Equal(t, KeyEuroSign, KeysymFromRune('€'))
}

func TestKeysym_Classes(t *testing.T) {
	assert.True(t, KeyControlR.IsModifier())
	assert.True(t, KeyISOLevel3Shift.IsModifier())
	assert.False(t, Keysym('a').IsModifier())
	assert.True(t, KeyDeadTilde.IsDead())
	assert.True(t, KeyKPEnter.IsKeypad())
	assert.False(t, KeyReturn.IsKeypad())
}
