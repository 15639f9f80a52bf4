package xkb

import (
	"fmt"
	"strconv"
	"strings"
)

// Keysym is an X11 keysym value.
type Keysym uint32

const unicodeOffset = 0x01000000

// X11/keysymdef.h
const (
	NoSymbol Keysym = 0x000000

	KeyBackSpace  Keysym = 0xff08
	KeyTab        Keysym = 0xff09
	KeyLinefeed   Keysym = 0xff0a
	KeyClear      Keysym = 0xff0b
	KeyReturn     Keysym = 0xff0d
	KeyPause      Keysym = 0xff13
	KeyScrollLock Keysym = 0xff14
	KeySysReq     Keysym = 0xff15
	KeyEscape     Keysym = 0xff1b
	KeyDelete     Keysym = 0xffff

	KeyHome      Keysym = 0xff50
	KeyLeft      Keysym = 0xff51
	KeyUpArrow   Keysym = 0xff52
	KeyRight     Keysym = 0xff53
	KeyDownArrow Keysym = 0xff54
	KeyPrior     Keysym = 0xff55
	KeyNext      Keysym = 0xff56
	KeyEnd       Keysym = 0xff57
	KeyBegin     Keysym = 0xff58
	KeyPrint     Keysym = 0xff61
	KeyInsert    Keysym = 0xff63
	KeyMenu      Keysym = 0xff67

	KeyNumLock     Keysym = 0xff7f
	KeyKPSpace     Keysym = 0xff80
	KeyKPTab       Keysym = 0xff89
	KeyKPEnter     Keysym = 0xff8d
	KeyKPHome      Keysym = 0xff95
	KeyKPLeft      Keysym = 0xff96
	KeyKPUp        Keysym = 0xff97
	KeyKPRight     Keysym = 0xff98
	KeyKPDown      Keysym = 0xff99
	KeyKPPrior     Keysym = 0xff9a
	KeyKPNext      Keysym = 0xff9b
	KeyKPEnd       Keysym = 0xff9c
	KeyKPBegin     Keysym = 0xff9d
	KeyKPInsert    Keysym = 0xff9e
	KeyKPDelete    Keysym = 0xff9f
	KeyKPMultiply  Keysym = 0xffaa
	KeyKPAdd       Keysym = 0xffab
	KeyKPSeparator Keysym = 0xffac
	KeyKPSubtract  Keysym = 0xffad
	KeyKPDecimal   Keysym = 0xffae
	KeyKPDivide    Keysym = 0xffaf
	KeyKP0         Keysym = 0xffb0
	KeyKP9         Keysym = 0xffb9
	KeyKPEqual     Keysym = 0xffbd

	KeyF1  Keysym = 0xffbe
	KeyF12 Keysym = 0xffc9

	KeyShiftL    Keysym = 0xffe1
	KeyShiftR    Keysym = 0xffe2
	KeyControlL  Keysym = 0xffe3
	KeyControlR  Keysym = 0xffe4
	KeyCapsLock  Keysym = 0xffe5
	KeyShiftLock Keysym = 0xffe6
	KeyMetaL     Keysym = 0xffe7
	KeyMetaR     Keysym = 0xffe8
	KeyAltL      Keysym = 0xffe9
	KeyAltR      Keysym = 0xffea
	KeySuperL    Keysym = 0xffeb
	KeySuperR    Keysym = 0xffec

	KeyISOLevel3Shift Keysym = 0xfe03
	KeyISOLeftTab     Keysym = 0xfe20

	KeyDeadGrave      Keysym = 0xfe50
	KeyDeadAcute      Keysym = 0xfe51
	KeyDeadCircumflex Keysym = 0xfe52
	KeyDeadTilde      Keysym = 0xfe53
	KeyDeadDiaeresis  Keysym = 0xfe57
	KeyDeadCedilla    Keysym = 0xfe5b

	KeyEuroSign Keysym = 0x20ac
)

var keysymNames = map[Keysym]string{
	KeyBackSpace:      "BackSpace",
	KeyTab:            "Tab",
	KeyLinefeed:       "Linefeed",
	KeyClear:          "Clear",
	KeyReturn:         "Return",
	KeyPause:          "Pause",
	KeyScrollLock:     "Scroll_Lock",
	KeySysReq:         "Sys_Req",
	KeyEscape:         "Escape",
	KeyDelete:         "Delete",
	KeyHome:           "Home",
	KeyLeft:           "Left",
	KeyUpArrow:        "Up",
	KeyRight:          "Right",
	KeyDownArrow:      "Down",
	KeyPrior:          "Prior",
	KeyNext:           "Next",
	KeyEnd:            "End",
	KeyBegin:          "Begin",
	KeyPrint:          "Print",
	KeyInsert:         "Insert",
	KeyMenu:           "Menu",
	KeyNumLock:        "Num_Lock",
	KeyKPSpace:        "KP_Space",
	KeyKPTab:          "KP_Tab",
	KeyKPEnter:        "KP_Enter",
	KeyKPHome:         "KP_Home",
	KeyKPLeft:         "KP_Left",
	KeyKPUp:           "KP_Up",
	KeyKPRight:        "KP_Right",
	KeyKPDown:         "KP_Down",
	KeyKPPrior:        "KP_Prior",
	KeyKPNext:         "KP_Next",
	KeyKPEnd:          "KP_End",
	KeyKPBegin:        "KP_Begin",
	KeyKPInsert:       "KP_Insert",
	KeyKPDelete:       "KP_Delete",
	KeyKPMultiply:     "KP_Multiply",
	KeyKPAdd:          "KP_Add",
	KeyKPSeparator:    "KP_Separator",
	KeyKPSubtract:     "KP_Subtract",
	KeyKPDecimal:      "KP_Decimal",
	KeyKPDivide:       "KP_Divide",
	KeyKPEqual:        "KP_Equal",
	KeyShiftL:         "Shift_L",
	KeyShiftR:         "Shift_R",
	KeyControlL:       "Control_L",
	KeyControlR:       "Control_R",
	KeyCapsLock:       "Caps_Lock",
	KeyShiftLock:      "Shift_Lock",
	KeyMetaL:          "Meta_L",
	KeyMetaR:          "Meta_R",
	KeyAltL:           "Alt_L",
	KeyAltR:           "Alt_R",
	KeySuperL:         "Super_L",
	KeySuperR:         "Super_R",
	KeyISOLevel3Shift: "ISO_Level3_Shift",
	KeyISOLeftTab:     "ISO_Left_Tab",
	KeyDeadGrave:      "dead_grave",
	KeyDeadAcute:      "dead_acute",
	KeyDeadCircumflex: "dead_circumflex",
	KeyDeadTilde:      "dead_tilde",
	KeyDeadDiaeresis:  "dead_diaeresis",
	KeyDeadCedilla:    "dead_cedilla",
	KeyEuroSign:       "EuroSign",

	' ': "space", '!': "exclam", '"': "quotedbl", '#': "numbersign",
	'$': "dollar", '%': "percent", '&': "ampersand", '\'': "apostrophe",
	'(': "parenleft", ')': "parenright", '*': "asterisk", '+': "plus",
	',': "comma", '-': "minus", '.': "period", '/': "slash",
	':': "colon", ';': "semicolon", '<': "less", '=': "equal",
	'>': "greater", '?': "question", '@': "at", '[': "bracketleft",
	'\\': "backslash", ']': "bracketright", '^': "asciicircum",
	'_': "underscore", '`': "grave", '{': "braceleft", '|': "bar",
	'}': "braceright", '~': "asciitilde",

	0xa1: "exclamdown", 0xa2: "cent", 0xa3: "sterling", 0xa4: "currency",
	0xa6: "brokenbar", 0xa7: "section", 0xa8: "diaeresis", 0xa9: "copyright",
	0xac: "notsign", 0xb0: "degree", 0xb2: "twosuperior", 0xb3: "threesuperior",
	0xb4: "acute", 0xb5: "mu", 0xb9: "onesuperior", 0xbf: "questiondown",
	0xc1: "Aacute", 0xc4: "Adiaeresis", 0xc9: "Eacute", 0xcd: "Iacute",
	0xd1: "Ntilde", 0xd3: "Oacute", 0xd6: "Odiaeresis", 0xda: "Uacute",
	0xdc: "Udiaeresis", 0xdf: "ssharp", 0xe0: "agrave", 0xe1: "aacute",
	0xe4: "adiaeresis", 0xe7: "ccedilla", 0xe8: "egrave", 0xe9: "eacute",
	0xed: "iacute", 0xf1: "ntilde", 0xf3: "oacute", 0xf6: "odiaeresis",
	0xf9: "ugrave", 0xfa: "uacute", 0xfc: "udiaeresis",
}

var keysymByName = func() map[string]Keysym {
	m := make(map[string]Keysym, len(keysymNames)+64)
	for sym, name := range keysymNames {
		m[name] = sym
	}
	for c := '0'; c <= '9'; c++ {
		m[string(c)] = Keysym(c)
	}
	for c := 'a'; c <= 'z'; c++ {
		m[string(c)] = Keysym(c)
		m[string(c-'a'+'A')] = Keysym(c - 'a' + 'A')
	}
	for i := 0; i < 12; i++ {
		m["F"+strconv.Itoa(i+1)] = KeyF1 + Keysym(i)
	}
	for i := 0; i < 10; i++ {
		m["KP_"+strconv.Itoa(i)] = KeyKP0 + Keysym(i)
	}
	return m
}()

// String returns the keysym name, e.g. "a", "Shift_L" or "U20AC".
func (k Keysym) String() string {
	if name, ok := keysymNames[k]; ok {
		return name
	}
	switch {
	case k == NoSymbol:
		return "NoSymbol"
	case k >= '0' && k <= '9', k >= 'a' && k <= 'z', k >= 'A' && k <= 'Z':
		return string(rune(k))
	case k >= KeyF1 && k <= KeyF12:
		return "F" + strconv.Itoa(int(k-KeyF1)+1)
	case k >= KeyKP0 && k <= KeyKP9:
		return "KP_" + strconv.Itoa(int(k-KeyKP0))
	case k >= 0xa0 && k <= 0xff, k > unicodeOffset && k <= unicodeOffset+0x10ffff:
		return fmt.Sprintf("U%04X", uint32(k.Rune()))
	}
	return fmt.Sprintf("0x%08x", uint32(k))
}

// KeysymFromName parses a keysym name as produced by String.
func KeysymFromName(name string) (Keysym, bool) {
	if sym, ok := keysymByName[name]; ok {
		return sym, true
	}
	if hex, ok := strings.CutPrefix(name, "U"); ok && len(hex) >= 4 {
		v, err := strconv.ParseUint(hex, 16, 32)
		if err == nil && v <= 0x10ffff {
			return KeysymFromRune(rune(v)), true
		}
	}
	if hex, ok := strings.CutPrefix(name, "0x"); ok {
		v, err := strconv.ParseUint(hex, 16, 32)
		if err == nil {
			return Keysym(v), true
		}
	}
	return NoSymbol, false
}

// KeysymFromRune returns the keysym that represents r.
func KeysymFromRune(r rune) Keysym {
	switch {
	case r >= 0x20 && r <= 0x7e, r >= 0xa0 && r <= 0xff:
		return Keysym(r)
	case r == 0x20ac:
		return KeyEuroSign
	case r < 0 || r > 0x10ffff:
		return NoSymbol
	}
	return Keysym(unicodeOffset + r)
}

// Rune returns the character a keysym produces, or 0 if it produces none.
func (k Keysym) Rune() rune {
	switch {
	case k >= 0x20 && k <= 0x7e, k >= 0xa0 && k <= 0xff:
		return rune(k)
	case k > unicodeOffset && k <= unicodeOffset+0x10ffff:
		return rune(k - unicodeOffset)
	case k >= KeyKP0 && k <= KeyKP9:
		return '0' + rune(k-KeyKP0)
	}
	switch k {
	case KeyBackSpace:
		return '\b'
	case KeyTab, KeyKPTab:
		return '\t'
	case KeyLinefeed:
		return '\n'
	case KeyClear:
		return '\v'
	case KeyReturn, KeyKPEnter:
		return '\r'
	case KeyEscape:
		return 0x1b
	case KeyDelete:
		return 0x7f
	case KeyKPSpace:
		return ' '
	case KeyKPMultiply:
		return '*'
	case KeyKPAdd:
		return '+'
	case KeyKPSeparator:
		return ','
	case KeyKPSubtract:
		return '-'
	case KeyKPDecimal:
		return '.'
	case KeyKPDivide:
		return '/'
	case KeyKPEqual:
		return '='
	case KeyEuroSign:
		return 0x20ac
	}
	return 0
}

// IsModifier reports whether k is a modifier keysym.
func (k Keysym) IsModifier() bool {
	return (k >= KeyShiftL && k <= KeySuperR) || k == KeyISOLevel3Shift || k == KeyNumLock
}

// IsDead reports whether k is a dead (combining) keysym.
func (k Keysym) IsDead() bool {
	return k >= KeyDeadGrave && k <= 0xfe8f
}

// IsKeypad reports whether k lives on the numeric keypad.
func (k Keysym) IsKeypad() bool {
	return k >= KeyKPSpace && k <= KeyKPEqual
}
