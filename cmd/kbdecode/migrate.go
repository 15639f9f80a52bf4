package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const latestConfigVersion = 1

// migration is a named config migration step.
type migration struct {
	version int
	name    string
	run     func(path string, log zerolog.Logger) error
}

var migrations = []migration{
	{version: 1, name: "nest_keyboard_fields", run: nestKeyboardFields},
}

// flatKeyboardKeys are the identity keys LoadConfig also accepts at the top
// level of config.yml.
var flatKeyboardKeys = []string{"rules", "model", "layout", "variant", "options"}

// migrateConfig runs all pending migrations on dir/config.yml.
func migrateConfig(dir string, log zerolog.Logger) error {
	path := filepath.Join(dir, configFileName)

	current, err := readConfigVersion(path)
	if err != nil {
		return err
	}
	if current >= latestConfigVersion {
		log.Info().Int("config_version", current).Msg("config already up to date")
		return nil
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		log.Info().Int("version", m.version).Str("name", m.name).Msg("running migration")
		if err := m.run(path, log); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
	}

	// yaml.Node keeps the comments of the file
	if err := setConfigVersion(path, latestConfigVersion); err != nil {
		return fmt.Errorf("set config_version: %w", err)
	}

	log.Info().Int("config_version", latestConfigVersion).Msg("migration complete")
	return nil
}

// readConfigVersion reads config_version without validating the rest of the
// file, which may still be in an old shape.
func readConfigVersion(path string) (int, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var v struct {
		ConfigVersion int `yaml:"config_version"`
	}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	return v.ConfigVersion, nil
}

// loadDocument parses path into its root mapping node. It returns a nil
// mapping for empty documents.
func loadDocument(path string) (*yaml.Node, *yaml.Node, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return &doc, nil, data, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil, nil, fmt.Errorf("%s root is not a mapping", filepath.Base(path))
	}
	return &doc, root, data, nil
}

// setConfigVersion updates or inserts config_version in config.yml,
// preserving existing comments and formatting.
func setConfigVersion(path string, version int) error {
	doc, root, _, err := loadDocument(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && root == nil) {
		content := fmt.Sprintf("config_version: %d\n", version)
		return os.WriteFile(path, []byte(content), 0644)
	}
	if err != nil {
		return err
	}

	if val := mappingValue(root, "config_version"); val != nil {
		val.Kind = yaml.ScalarNode
		val.Value = strconv.Itoa(version)
		val.Tag = "!!int"
	} else {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: "config_version", Tag: "!!str"}
		valNode := &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.Itoa(version), Tag: "!!int"}
		root.Content = append([]*yaml.Node{keyNode, valNode}, root.Content...)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal config.yml: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}

// nestKeyboardFields moves top level rules/model/layout/variant/options keys
// into the keyboard mapping, turning the shorthand form into the canonical
// one. Keys already under keyboard win over the shorthand ones. The original
// file is kept as config.yml.bak.
func nestKeyboardFields(path string, log zerolog.Logger) error {
	doc, root, data, err := loadDocument(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info().Msg("skip, no config.yml")
		return nil
	}
	if err != nil {
		return err
	}
	if root == nil {
		log.Info().Msg("skip, config.yml is empty")
		return nil
	}

	moved := takeKeysFromMapping(root, flatKeyboardKeys...)
	if len(moved) == 0 {
		log.Info().Msg("skip, nothing to migrate")
		return nil
	}

	keyboard := mappingValue(root, "keyboard")
	if keyboard == nil || keyboard.Kind != yaml.MappingNode {
		if keyboard != nil {
			// "keyboard:" with no value parses as a null scalar
			keyboard.Kind = yaml.MappingNode
			keyboard.Tag = "!!map"
			keyboard.Value = ""
		} else {
			keyboard = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			root.Content = append(root.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "keyboard"},
				keyboard)
		}
	}

	for i := 0; i < len(moved)-1; i += 2 {
		if mappingValue(keyboard, moved[i].Value) != nil {
			log.Warn().Str("key", moved[i].Value).Msg("dropping shorthand key, keyboard section already sets it")
			continue
		}
		keyboard.Content = append(keyboard.Content, moved[i], moved[i+1])
	}

	bakPath := path + ".bak"
	if err := os.WriteFile(bakPath, data, 0644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	log.Info().Int("keys", len(moved)/2).Str("backup", bakPath).Msg("moved keyboard fields")
	return nil
}

// mappingValue returns the value node of key in a mapping node, or nil.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// takeKeysFromMapping removes the key/value pairs whose key is one of keys
// and returns them, in file order.
func takeKeysFromMapping(node *yaml.Node, keys ...string) []*yaml.Node {
	var taken []*yaml.Node
	filtered := make([]*yaml.Node, 0, len(node.Content))
	for i := 0; i < len(node.Content)-1; i += 2 {
		key := node.Content[i]
		val := node.Content[i+1]
		if slices.Contains(keys, key.Value) {
			taken = append(taken, key, val)
			continue
		}
		filtered = append(filtered, key, val)
	}
	// odd trailing node, not produced by valid YAML
	if len(node.Content)%2 != 0 {
		filtered = append(filtered, node.Content[len(node.Content)-1])
	}
	node.Content = filtered
	return taken
}
