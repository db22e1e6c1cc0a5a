// Package fonts provides the font faces used to measure and draw tags.
//
// The Go font family is embedded through golang.org/x/image/font/gofont, so
// the built-in faces need no files on disk. User fonts are loaded from
// TrueType files.
//
// A [Source] is a parsed font plus a per-size cache of faces. Faces are not
// safe for concurrent use; goroutines that render in parallel should each
// work on their own [Source.Clone].
package fonts

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/tagcloud/pkg/errors"
)

// Built-in font names.
const (
	Regular = "regular"
	Bold    = "bold"
	Mono    = "mono"
	Italic  = "italic"

	Default = Regular
)

// FontFamily is the CSS font-family name of the embedded regular font.
const FontFamily = "Go"

// FallbackFontFamily is used in SVG output after the embedded family.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

var builtin = map[string][]byte{
	Regular: goregular.TTF,
	Bold:    gobold.TTF,
	Mono:    gomono.TTF,
	Italic:  goitalic.TTF,
}

var aliases = map[string]string{
	"goregular": Regular,
	"sans":      Regular,
	"arial":     Regular,
	"gobold":    Bold,
	"gomono":    Mono,
	"monospace": Mono,
	"goitalic":  Italic,
}

// Names returns the built-in font names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Source is a parsed font with a cache of faces per point size.
type Source struct {
	name    string
	data    []byte
	newFace func(size float64) (font.Face, error)

	mu    sync.Mutex
	faces map[float64]font.Face
}

// Builtin returns the embedded Go font with the given name or alias.
func Builtin(name string) (*Source, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if a, ok := aliases[key]; ok {
		key = a
	}
	data, ok := builtin[key]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown font %q (built-in fonts: %s)", name, strings.Join(Names(), ", "))
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse embedded font %s", key)
	}
	return &Source{
		name: key,
		data: data,
		newFace: func(size float64) (font.Face, error) {
			return opentype.NewFace(f, &opentype.FaceOptions{
				Size:    size,
				DPI:     72,
				Hinting: font.HintingNone,
			})
		},
		faces: make(map[float64]font.Face),
	}, nil
}

// LoadFile parses a TrueType font file.
func LoadFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "font file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read font file %s", path)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse font file %s", path)
	}
	return &Source{
		name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		data: data,
		newFace: func(size float64) (font.Face, error) {
			return truetype.NewFace(f, &truetype.Options{
				Size:    size,
				DPI:     72,
				Hinting: font.HintingFull,
			}), nil
		},
		faces: make(map[float64]font.Face),
	}, nil
}

// Load resolves a built-in name, or a path to a .ttf file.
func Load(nameOrPath string) (*Source, error) {
	if nameOrPath == "" {
		return Builtin(Default)
	}
	switch strings.ToLower(filepath.Ext(nameOrPath)) {
	case ".ttf", ".otf":
		return LoadFile(nameOrPath)
	}
	return Builtin(nameOrPath)
}

// Name returns the font name (built-in name or file base name).
func (s *Source) Name() string { return s.name }

// TTF returns the raw font file bytes.
func (s *Source) TTF() []byte { return s.data }

// Face returns the face for the given point size, creating it on first use.
func (s *Source) Face(size float64) (font.Face, error) {
	if !(size > 0) {
		return nil, errors.New(errors.ErrCodeInvalidFontRange, "font size must be positive, got %v", size)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if face, ok := s.faces[size]; ok {
		return face, nil
	}
	face, err := s.newFace(size)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create %s face at %vpt", s.name, size)
	}
	s.faces[size] = face
	return face, nil
}

// Clone returns a Source sharing the parsed font but with an empty face cache.
func (s *Source) Clone() *Source {
	return &Source{
		name:    s.name,
		data:    s.data,
		newFace: s.newFace,
		faces:   make(map[float64]font.Face),
	}
}

// Close releases all cached faces.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for size, face := range s.faces {
		face.Close()
		delete(s.faces, size)
	}
	return nil
}

// Cache for the base64-encoded regular font (computed once on first access).
var (
	regularBase64     string
	regularBase64Once sync.Once
)

// RegularTTFBase64 returns the embedded regular font as a base64 string.
// The result is cached after first computation.
func RegularTTFBase64() string {
	regularBase64Once.Do(func() {
		regularBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return regularBase64
}
