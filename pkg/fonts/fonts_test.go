package fonts

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/tagcloud/pkg/errors"
)

func TestBuiltin(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"regular", Regular},
		{"Arial", Regular},
		{" gobold ", Bold},
		{"monospace", Mono},
		{"italic", Italic},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			src, err := Builtin(tt.input)
			if err != nil {
				t.Fatalf("Builtin(%q): %v", tt.input, err)
			}
			if src.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", src.Name(), tt.want)
			}
		})
	}

	if _, err := Builtin("comic sans"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown font error = %v, want INVALID_INPUT", err)
	}
}

func TestFaceIsCachedPerSize(t *testing.T) {
	src, err := Builtin(Default)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	a, err := src.Face(20)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := src.Face(20)
	if a != b {
		t.Error("Face(20) returned different faces")
	}
	c, _ := src.Face(30)
	if a == c {
		t.Error("Face(30) returned the 20pt face")
	}
	if a.Metrics().Ascent >= c.Metrics().Ascent {
		t.Error("30pt face should have a larger ascent than 20pt")
	}

	if _, err := src.Face(0); !errors.Is(err, errors.ErrCodeInvalidFontRange) {
		t.Errorf("Face(0) error = %v, want INVALID_FONT_RANGE", err)
	}
}

func TestCloneHasOwnCache(t *testing.T) {
	src, _ := Builtin(Default)
	a, _ := src.Face(12)
	clone := src.Clone()
	b, _ := clone.Face(12)
	if a == b {
		t.Error("clone shares faces with the original")
	}
	if clone.Name() != src.Name() || !bytes.Equal(clone.TTF(), src.TTF()) {
		t.Error("clone should share the font data")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "MyFont.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q): %v", path, err)
	}
	if src.Name() != "MyFont" {
		t.Errorf("Name() = %q, want MyFont", src.Name())
	}
	if _, err := src.Face(16); err != nil {
		t.Errorf("Face(16): %v", err)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.ttf")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}

	junk := filepath.Join(dir, "junk.ttf")
	os.WriteFile(junk, []byte("not a font"), 0o644)
	if _, err := LoadFile(junk); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("junk file error = %v, want INVALID_INPUT", err)
	}
}

func TestLoadDefault(t *testing.T) {
	src, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if src.Name() != Default {
		t.Errorf("Load(\"\").Name() = %q, want %q", src.Name(), Default)
	}
}

func TestRegularTTFBase64(t *testing.T) {
	data, err := base64.StdEncoding.DecodeString(RegularTTFBase64())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, goregular.TTF) {
		t.Error("decoded font does not match goregular.TTF")
	}
	if RegularTTFBase64() != RegularTTFBase64() {
		t.Error("RegularTTFBase64 is not stable")
	}
}
