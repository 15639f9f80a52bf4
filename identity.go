package kbdecode

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/andresousadotpt/kbdecode/xkb"
)

// DefaultKeyboardFile is the Debian-style system keyboard configuration.
const DefaultKeyboardFile = "/etc/default/keyboard"

// Environment variables that override the system keyboard configuration.
const (
	EnvRules   = "XKB_DEFAULT_RULES"
	EnvModel   = "XKB_DEFAULT_MODEL"
	EnvLayout  = "XKB_DEFAULT_LAYOUT"
	EnvVariant = "XKB_DEFAULT_VARIANT"
	EnvOptions = "XKB_DEFAULT_OPTIONS"
)

// Identity selects a keymap by rules, model, layout, variant and options
// (RMLVO). Empty fields let the engine pick its default.
type Identity struct {
	Rules   string `yaml:"rules"`
	Model   string `yaml:"model"`
	Layout  string `yaml:"layout"`
	Variant string `yaml:"variant"`
	Options string `yaml:"options"`
}

func (id Identity) String() string {
	return fmt.Sprintf("rules=%q model=%q layout=%q variant=%q options=%q",
		id.Rules, id.Model, id.Layout, id.Variant, id.Options)
}

func (id Identity) ruleNames() xkb.RuleNames {
	return xkb.RuleNames{
		Rules:   id.Rules,
		Model:   id.Model,
		Layout:  id.Layout,
		Variant: id.Variant,
		Options: id.Options,
	}
}

// Merge returns id with every non-empty field of other applied on top.
func (id Identity) Merge(other Identity) Identity {
	if other.Rules != "" {
		id.Rules = other.Rules
	}
	if other.Model != "" {
		id.Model = other.Model
	}
	if other.Layout != "" {
		id.Layout = other.Layout
	}
	if other.Variant != "" {
		id.Variant = other.Variant
	}
	if other.Options != "" {
		id.Options = other.Options
	}
	return id
}

// defaultKeyboardLine matches an optionally exported assignment with a
// double quoted, single quoted or bare value. Anything after the value, such
// as a trailing comment, is ignored.
var defaultKeyboardLine = regexp.MustCompile(`^\s*(?:export\s+)?(XKB[A-Z]+)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'#;]*))`)

// ParseDefaultKeyboard reads KEY="value" lines in the format of
// /etc/default/keyboard into id. Only the first of several comma separated
// layouts is kept. Unknown keys, comments and empty values are skipped.
func ParseDefaultKeyboard(r io.Reader, id *Identity) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m := defaultKeyboardLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		value := m[2] + m[3] + m[4]
		if value == "" {
			continue
		}
		switch m[1] {
		case "XKBRULES":
			id.Rules = value
		case "XKBMODEL":
			id.Model = value
		case "XKBLAYOUT":
			id.Layout, _, _ = strings.Cut(value, ",")
		case "XKBVARIANT":
			id.Variant = value
		case "XKBOPTIONS":
			id.Options = value
		}
	}
	return scanner.Err()
}

// ApplyEnv overrides the fields of id whose XKB_DEFAULT_* variable is set.
func (id *Identity) ApplyEnv(lookup func(string) (string, bool)) {
	fields := []struct {
		name string
		dst  *string
	}{
		{EnvRules, &id.Rules},
		{EnvModel, &id.Model},
		{EnvLayout, &id.Layout},
		{EnvVariant, &id.Variant},
		{EnvOptions, &id.Options},
	}
	for _, f := range fields {
		if v, ok := lookup(f.name); ok {
			*f.dst = v
		}
	}
}

// LoadIdentity resolves the identity from the keyboard file at path and the
// environment, the environment taking precedence. A missing file is not an
// error.
func LoadIdentity(path string, lookup func(string) (string, bool)) (Identity, error) {
	var id Identity

	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return id, fmt.Errorf("open %s: %w", path, err)
	default:
		defer f.Close()
		if err := ParseDefaultKeyboard(f, &id); err != nil {
			return id, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	id.ApplyEnv(lookup)
	return id, nil
}

// DetectIdentity resolves the system keyboard identity. An unreadable
// keyboard file is treated like a missing one.
func DetectIdentity() Identity {
	id, err := LoadIdentity(DefaultKeyboardFile, os.LookupEnv)
	if err != nil {
		id = Identity{}
		id.ApplyEnv(os.LookupEnv)
	}
	return id
}
