package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/tagcloud/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		data string
	}{
		{"toml", ".toml", "[canvas]\nwidth = 1024\n\n[layout]\nalgorithm = \"rows\"\n\n[output]\nformats = [\"svg\", \"json\"]\n"},
		{"yaml", ".yaml", "canvas:\n  width: 1024\nlayout:\n  algorithm: rows\noutput:\n  formats: [svg, json]\n"},
		{"yml uppercase", ".YML", "canvas:\n  width: 1024\nlayout:\n  algorithm: rows\noutput:\n  formats: [svg, json]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Decode([]byte(tt.data), tt.ext)
			if err != nil {
				t.Fatal(err)
			}
			if s.Canvas.Width != 1024 {
				t.Errorf("Canvas.Width = %d, want 1024", s.Canvas.Width)
			}
			if s.Canvas.Height != Default().Canvas.Height {
				t.Errorf("Canvas.Height = %d, want default", s.Canvas.Height)
			}
			if s.Layout.Algorithm != "rows" {
				t.Errorf("Layout.Algorithm = %q", s.Layout.Algorithm)
			}
			if len(s.Output.Formats) != 2 || s.Output.Formats[1] != "json" {
				t.Errorf("Output.Formats = %v", s.Output.Formats)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		data string
	}{
		{"unknown toml key", ".toml", "[canvas]\ncolour = 1\n"},
		{"unknown yaml key", ".yaml", "canvas:\n  colour: 1\n"},
		{"bad toml", ".toml", "[canvas\n"},
		{"bad extension", ".ini", "width=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data), tt.ext); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"zero width", func(s *Settings) { s.Canvas.Width = 0 }},
		{"scale too large", func(s *Settings) { s.Canvas.Scale = 10 }},
		{"negative padding", func(s *Settings) { s.Canvas.Padding = -1 }},
		{"bad overflow", func(s *Settings) { s.Canvas.Overflow = "wrap" }},
		{"bad algorithm", func(s *Settings) { s.Layout.Algorithm = "hex" }},
		{"zero angle step", func(s *Settings) { s.Layout.AngleStep = 0 }},
		{"negative samples", func(s *Settings) { s.Layout.MaxSamples = -1 }},
		{"tiny angle step", func(s *Settings) { s.Layout.AngleStep = 1e-9 }},
		{"too many samples", func(s *Settings) { s.Layout.MaxSamples = 1 << 40 }},
		{"tiny grid cell", func(s *Settings) { s.Layout.GridCell = 0.05 }},
		{"tiny compaction", func(s *Settings) { s.Layout.Compaction = 0.001 }},
		{"bad palette", func(s *Settings) { s.Palette.Name = "rainbow" }},
		{"bad color", func(s *Settings) { s.Palette.Background = "not-a-color" }},
		{"bad output", func(s *Settings) { s.Output.Path = "cloud.webp" }},
		{"bad format", func(s *Settings) { s.Output.Formats = []string{"pdf"} }},
		{"negative ttl", func(s *Settings) { s.Cache.TTLHours = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.modify(&s)
			err := s.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != errors.ErrCodeInvalidConfig {
				t.Errorf("code = %s, want %s", got, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestValidateLeavesFontRangeToRender(t *testing.T) {
	s := Default()
	s.Font.Min, s.Font.Max = 40, 10
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil for inverted font range", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cloud.toml")
	if err := os.WriteFile(path, []byte("[font]\nmin = 10\nmax = 50\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, from, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if from != path {
		t.Errorf("source = %q, want %q", from, path)
	}
	if s.Font.Min != 10 || s.Font.Max != 50 {
		t.Errorf("Font = %+v", s.Font)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if got := errors.GetCode(err); got != errors.ErrCodeFileNotFound {
		t.Errorf("code = %s, want %s", got, errors.ErrCodeFileNotFound)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	s, from, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if from != "" || s.Canvas.Width != Default().Canvas.Width {
		t.Fatalf("expected defaults, got %q", from)
	}

	if err := os.WriteFile("tagcloud.toml", []byte("[canvas]\nwidth = 300\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if s, from, _ = Load(""); from != "tagcloud.toml" || s.Canvas.Width != 300 {
		t.Fatalf("local file: from %q width %d", from, s.Canvas.Width)
	}

	dir := filepath.Join(home, ".config", "tagcloud")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("canvas:\n  width: 500\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if s, from, _ = Load(""); !strings.HasSuffix(from, "config.yaml") || s.Canvas.Width != 500 {
		t.Fatalf("user file: from %q width %d", from, s.Canvas.Width)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	want := Default()
	want.Palette.Name = "wheel"
	want.Output.Formats = []string{"svg"}

	for _, tt := range []struct {
		ext   string
		write func(*bytes.Buffer, Settings) error
	}{
		{".toml", func(b *bytes.Buffer, s Settings) error { return WriteTOML(b, s) }},
		{".yaml", func(b *bytes.Buffer, s Settings) error { return WriteYAML(b, s) }},
	} {
		t.Run(tt.ext, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.write(&buf, want); err != nil {
				t.Fatal(err)
			}
			got, err := Decode(buf.Bytes(), tt.ext)
			if err != nil {
				t.Fatalf("Decode: %v\n%s", err, buf.String())
			}
			if got.Palette.Name != "wheel" || len(got.Output.Formats) != 1 {
				t.Errorf("round trip lost fields: %+v", got)
			}
		})
	}
}
