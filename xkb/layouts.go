package xkb

import (
	"fmt"
	"strings"

	evdev "github.com/holoplot/go-evdev"
)

// layoutDef is one compiled-in layout variant: the alphanumeric block plus
// whatever it changes in the shared pc block.
type layoutDef struct {
	description string
	keys        map[evdev.EvCode][]Keysym
	// lv3 binds the right Alt key to ISO_Level3_Shift (AltGr).
	lv3 bool
}

// alphanumRows lists the evdev codes of the four alphanumeric rows, left to
// right, in the order used by the row strings below.
var alphanumRows = [4][]evdev.EvCode{
	{
		evdev.KEY_GRAVE, evdev.KEY_1, evdev.KEY_2, evdev.KEY_3, evdev.KEY_4,
		evdev.KEY_5, evdev.KEY_6, evdev.KEY_7, evdev.KEY_8, evdev.KEY_9,
		evdev.KEY_0, evdev.KEY_MINUS, evdev.KEY_EQUAL,
	},
	{
		evdev.KEY_Q, evdev.KEY_W, evdev.KEY_E, evdev.KEY_R, evdev.KEY_T,
		evdev.KEY_Y, evdev.KEY_U, evdev.KEY_I, evdev.KEY_O, evdev.KEY_P,
		evdev.KEY_LEFTBRACE, evdev.KEY_RIGHTBRACE,
	},
	{
		evdev.KEY_A, evdev.KEY_S, evdev.KEY_D, evdev.KEY_F, evdev.KEY_G,
		evdev.KEY_H, evdev.KEY_J, evdev.KEY_K, evdev.KEY_L,
		evdev.KEY_SEMICOLON, evdev.KEY_APOSTROPHE, evdev.KEY_BACKSLASH,
	},
	{
		evdev.KEY_102ND, evdev.KEY_Z, evdev.KEY_X, evdev.KEY_C, evdev.KEY_V,
		evdev.KEY_B, evdev.KEY_N, evdev.KEY_M, evdev.KEY_COMMA, evdev.KEY_DOT,
		evdev.KEY_SLASH,
	},
}

// Combining marks in row strings stand for the matching dead keysym.
var deadKeys = map[rune]Keysym{
	'\u0300': KeyDeadGrave,
	'\u0301': KeyDeadAcute,
	'\u0302': KeyDeadCircumflex,
	'\u0303': KeyDeadTilde,
	'\u0308': KeyDeadDiaeresis,
	'\u0327': KeyDeadCedilla,
}

// rows builds an alphanumeric block from four whitespace separated rows.
// Each token lists the symbols of one key, one rune per shift level.
func rows(r0, r1, r2, r3 string) map[evdev.EvCode][]Keysym {
	keys := make(map[evdev.EvCode][]Keysym, 48)
	for i, row := range [4]string{r0, r1, r2, r3} {
		tokens := strings.Fields(row)
		if len(tokens) != len(alphanumRows[i]) {
			panic(fmt.Sprintf("xkb: row %d has %d keys, want %d", i, len(tokens), len(alphanumRows[i])))
		}
		for j, tok := range tokens {
			var syms []Keysym
			for _, r := range tok {
				if dead, ok := deadKeys[r]; ok {
					syms = append(syms, dead)
					continue
				}
				syms = append(syms, KeysymFromRune(r))
			}
			keys[alphanumRows[i][j]] = syms
		}
	}
	return keys
}

// with returns a copy of base with the given keys replaced.
func with(base map[evdev.EvCode][]Keysym, overrides map[evdev.EvCode][]Keysym) map[evdev.EvCode][]Keysym {
	keys := make(map[evdev.EvCode][]Keysym, len(base)+len(overrides))
	for code, syms := range base {
		keys[code] = syms
	}
	for code, syms := range overrides {
		keys[code] = syms
	}
	return keys
}

// pcKeys is the block shared by every layout: modifiers, editing and
// navigation keys, function keys and the keypad.
var pcKeys = map[evdev.EvCode][]Keysym{
	evdev.KEY_ESC:        {KeyEscape},
	evdev.KEY_BACKSPACE:  {KeyBackSpace},
	evdev.KEY_TAB:        {KeyTab, KeyISOLeftTab},
	evdev.KEY_ENTER:      {KeyReturn},
	evdev.KEY_SPACE:      {' '},
	evdev.KEY_LEFTCTRL:   {KeyControlL},
	evdev.KEY_RIGHTCTRL:  {KeyControlR},
	evdev.KEY_LEFTSHIFT:  {KeyShiftL},
	evdev.KEY_RIGHTSHIFT: {KeyShiftR},
	evdev.KEY_LEFTALT:    {KeyAltL, KeyMetaL},
	evdev.KEY_RIGHTALT:   {KeyAltR, KeyMetaR},
	evdev.KEY_LEFTMETA:   {KeySuperL},
	evdev.KEY_RIGHTMETA:  {KeySuperR},
	evdev.KEY_CAPSLOCK:   {KeyCapsLock},
	evdev.KEY_NUMLOCK:    {KeyNumLock},
	evdev.KEY_SCROLLLOCK: {KeyScrollLock},
	evdev.KEY_COMPOSE:    {KeyMenu},
	evdev.KEY_SYSRQ:      {KeyPrint, KeySysReq},
	evdev.KEY_PAUSE:      {KeyPause},

	evdev.KEY_INSERT:   {KeyInsert},
	evdev.KEY_DELETE:   {KeyDelete},
	evdev.KEY_HOME:     {KeyHome},
	evdev.KEY_END:      {KeyEnd},
	evdev.KEY_PAGEUP:   {KeyPrior},
	evdev.KEY_PAGEDOWN: {KeyNext},
	evdev.KEY_UP:       {KeyUpArrow},
	evdev.KEY_DOWN:     {KeyDownArrow},
	evdev.KEY_LEFT:     {KeyLeft},
	evdev.KEY_RIGHT:    {KeyRight},

	evdev.KEY_F1:  {KeyF1},
	evdev.KEY_F2:  {KeyF1 + 1},
	evdev.KEY_F3:  {KeyF1 + 2},
	evdev.KEY_F4:  {KeyF1 + 3},
	evdev.KEY_F5:  {KeyF1 + 4},
	evdev.KEY_F6:  {KeyF1 + 5},
	evdev.KEY_F7:  {KeyF1 + 6},
	evdev.KEY_F8:  {KeyF1 + 7},
	evdev.KEY_F9:  {KeyF1 + 8},
	evdev.KEY_F10: {KeyF1 + 9},
	evdev.KEY_F11: {KeyF1 + 10},
	evdev.KEY_F12: {KeyF12},

	evdev.KEY_KP7:        {KeyKPHome, KeyKP0 + 7},
	evdev.KEY_KP8:        {KeyKPUp, KeyKP0 + 8},
	evdev.KEY_KP9:        {KeyKPPrior, KeyKP9},
	evdev.KEY_KP4:        {KeyKPLeft, KeyKP0 + 4},
	evdev.KEY_KP5:        {KeyKPBegin, KeyKP0 + 5},
	evdev.KEY_KP6:        {KeyKPRight, KeyKP0 + 6},
	evdev.KEY_KP1:        {KeyKPEnd, KeyKP0 + 1},
	evdev.KEY_KP2:        {KeyKPDown, KeyKP0 + 2},
	evdev.KEY_KP3:        {KeyKPNext, KeyKP0 + 3},
	evdev.KEY_KP0:        {KeyKPInsert, KeyKP0},
	evdev.KEY_KPDOT:      {KeyKPDelete, KeyKPDecimal},
	evdev.KEY_KPENTER:    {KeyKPEnter},
	evdev.KEY_KPPLUS:     {KeyKPAdd},
	evdev.KEY_KPMINUS:    {KeyKPSubtract},
	evdev.KEY_KPASTERISK: {KeyKPMultiply},
	evdev.KEY_KPSLASH:    {KeyKPDivide},
	evdev.KEY_KPEQUAL:    {KeyKPEqual},
}

var (
	usBasic = rows(
		"`~ 1! 2@ 3# 4$ 5% 6^ 7& 8* 9( 0) -_ =+",
		"qQ wW eE rR tT yY uU iI oO pP [{ ]}",
		"aA sS dD fF gG hH jJ kK lL ;: '\" \\|",
		"<> zZ xX cC vV bB nN mM ,< .> /?",
	)

	deBasic = rows(
		"\u0302° 1!¹ 2\"² 3§³ 4$¼ 5%½ 6&¬ 7/{ 8([ 9)] 0=} ß?\\ \u0301\u0300",
		"qQ@ wW eE€ rR tT zZ uU iI oO pP üÜ +*~",
		"aA sS dD fF gG hH jJ kK lL öÖ äÄ #'",
		"<>| yY xX cC vV bB nN mMµ ,; .: -_",
	)
)

// registry holds every layout the engine knows, keyed by layout then
// variant. The empty variant is the basic one.
var registry = map[string]map[string]*layoutDef{
	"us": {
		"": {
			description: "English (US)",
			keys:        usBasic,
		},
		"dvorak": {
			description: "English (Dvorak)",
			keys: rows(
				"`~ 1! 2@ 3# 4$ 5% 6^ 7& 8* 9( 0) [{ ]}",
				"'\" ,< .> pP yY fF gG cC rR lL /? =+",
				"aA oO eE uU iI dD hH tT nN sS -_ \\|",
				"<> ;: qQ jJ kK xX bB mM wW vV zZ",
			),
		},
		"colemak": {
			description: "English (Colemak)",
			keys: with(rows(
				"`~ 1! 2@ 3# 4$ 5% 6^ 7& 8* 9( 0) -_ =+",
				"qQ wW fF pP gG jJ lL uU yY ;: [{ ]}",
				"aA rR sS tT dD hH nN eE iI oO '\" \\|",
				"<> zZ xX cC vV bB kK mM ,< .> /?",
			), map[evdev.EvCode][]Keysym{
				evdev.KEY_CAPSLOCK: {KeyBackSpace},
			}),
		},
		"intl": {
			description: "English (US, intl., with dead keys)",
			lv3:         true,
			keys: rows(
				"\u0300\u0303 1!¡¹ 2@² 3#³ 4$¤£ 5%€ 6\u0302¼ 7&½ 8*¾ 9(‘ 0)’ -_¥ =+×÷",
				"qQäÄ wWåÅ eEéÉ rR® tTþÞ yYüÜ uUúÚ iIíÍ oOóÓ pPöÖ [{«“ ]}»”",
				"aAáÁ sSß§ dDðÐ fF gG hH jJ kK lLøØ ;:¶° \u0301\u0308 \\|¬¦",
				"\\| zZæÆ xX cC©¢ vV bB nNñÑ mMµ ,<çÇ .> /?¿",
			),
		},
	},
	"gb": {
		"": {
			description: "English (UK)",
			lv3:         true,
			keys: rows(
				"`¬¦ 1! 2\" 3£ 4$€ 5% 6^ 7& 8* 9( 0) -_ =+",
				"qQ wW eE rR tT yY uU iI oO pP [{ ]}",
				"aA sS dD fF gG hH jJ kK lL ;: '@ #~",
				"\\| zZ xX cC vV bB nN mM ,< .> /?",
			),
		},
	},
	"de": {
		"": {
			description: "German",
			lv3:         true,
			keys:        deBasic,
		},
		"nodeadkeys": {
			description: "German (no dead keys)",
			lv3:         true,
			keys: with(deBasic, map[evdev.EvCode][]Keysym{
				evdev.KEY_GRAVE: {'^', 0xb0},
				evdev.KEY_EQUAL: {0xb4, '`'},
			}),
		},
	},
	"fr": {
		"": {
			description: "French",
			lv3:         true,
			keys: rows(
				"² &1 é2\u0303 \"3# '4{ (5[ -6| è7` _8\\ ç9^ à0@ )°] =+}",
				"aA zZ eE€ rR tT yY uU iI oO pP \u0302\u0308 $£¤",
				"qQ sS dD fF gG hH jJ kK lL mM ù% *µ",
				"<> wW xX cC vV bB nN ,? ;. :/ !§",
			),
		},
	},
}

// optionFunc rewrites the symbols of a keymap being compiled.
type optionFunc func(keys map[evdev.EvCode][]Keysym)

func setKey(code evdev.EvCode, syms ...Keysym) optionFunc {
	return func(keys map[evdev.EvCode][]Keysym) {
		keys[code] = syms
	}
}

func swapKeys(pairs ...[2]evdev.EvCode) optionFunc {
	return func(keys map[evdev.EvCode][]Keysym) {
		for _, p := range pairs {
			keys[p[0]], keys[p[1]] = keys[p[1]], keys[p[0]]
		}
	}
}

var keypadCodes = []evdev.EvCode{
	evdev.KEY_KP0, evdev.KEY_KP1, evdev.KEY_KP2, evdev.KEY_KP3, evdev.KEY_KP4,
	evdev.KEY_KP5, evdev.KEY_KP6, evdev.KEY_KP7, evdev.KEY_KP8, evdev.KEY_KP9,
	evdev.KEY_KPDOT,
}

var optionRegistry = map[string]optionFunc{
	"caps:escape":     setKey(evdev.KEY_CAPSLOCK, KeyEscape),
	"caps:backspace":  setKey(evdev.KEY_CAPSLOCK, KeyBackSpace),
	"caps:swapescape": swapKeys([2]evdev.EvCode{evdev.KEY_CAPSLOCK, evdev.KEY_ESC}),
	"ctrl:nocaps":     setKey(evdev.KEY_CAPSLOCK, KeyControlL),
	"ctrl:swapcaps":   swapKeys([2]evdev.EvCode{evdev.KEY_CAPSLOCK, evdev.KEY_LEFTCTRL}),
	"altwin:swap_alt_win": swapKeys(
		[2]evdev.EvCode{evdev.KEY_LEFTALT, evdev.KEY_LEFTMETA},
		[2]evdev.EvCode{evdev.KEY_RIGHTALT, evdev.KEY_RIGHTMETA},
	),
	"lv3:ralt_switch": setKey(evdev.KEY_RIGHTALT, KeyISOLevel3Shift),
	"lv3:ralt_alt":    setKey(evdev.KEY_RIGHTALT, KeyAltR, KeyMetaR),
	"numpad:mac": func(keys map[evdev.EvCode][]Keysym) {
		for _, code := range keypadCodes {
			if syms := keys[code]; len(syms) == 2 {
				keys[code] = syms[1:]
			}
		}
	},
}

var knownRules = map[string]bool{
	"evdev": true,
	"base":  true,
}
