package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/tagcloud/pkg/errors"
)

// Load resolves and reads the settings. It returns the path the settings
// came from, or "" for built-in defaults.
// Search order: customPath -> ~/.config/tagcloud/config.{toml,yaml,yml} -> ./tagcloud.toml -> defaults
func Load(customPath string) (Settings, string, error) {
	if customPath != "" {
		s, err := LoadFile(customPath)
		return s, customPath, err
	}

	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		s, err := LoadFile(path)
		return s, path, err
	}
	return Default(), "", nil
}

// SearchPaths lists the files Load tries, in order, when no path is given.
func SearchPaths() []string {
	return append(userConfigPaths(), "tagcloud.toml")
}

// LoadFile reads one settings file. The decoder is chosen by extension.
func LoadFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return Settings{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	s, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return Settings{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Decode parses data as TOML (.toml) or YAML (.yaml, .yml) on top of the
// defaults.
func Decode(data []byte, ext string) (Settings, error) {
	s := Default()
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(string(data), &s)
		if err != nil {
			return Settings{}, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Settings{}, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil && err != io.EOF {
			return Settings{}, err
		}
	default:
		return Settings{}, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}
	return s, nil
}

// WriteTOML encodes s as TOML.
func WriteTOML(w io.Writer, s Settings) error {
	return toml.NewEncoder(w).Encode(s)
}

// WriteYAML encodes s as YAML.
func WriteYAML(w io.Writer, s Settings) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// Dir returns the user configuration directory, e.g. ~/.config/tagcloud.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tagcloud")
}

func userConfigPaths() []string {
	dir := Dir()
	if dir == "" {
		return nil
	}
	return []string{
		filepath.Join(dir, "config.toml"),
		filepath.Join(dir, "config.yaml"),
		filepath.Join(dir, "config.yml"),
	}
}
