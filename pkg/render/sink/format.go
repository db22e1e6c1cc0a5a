package sink

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/tagcloud/pkg/errors"
)

// Format is an output encoding.
type Format string

// Supported formats.
const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	SVG  Format = "svg"
	JSON Format = "json"
)

var aliases = map[string]Format{
	"png":  PNG,
	"jpg":  JPEG,
	"jpeg": JPEG,
	"gif":  GIF,
	"bmp":  BMP,
	"tif":  TIFF,
	"tiff": TIFF,
	"svg":  SVG,
	"json": JSON,
}

var contentTypes = map[Format]string{
	PNG:  "image/png",
	JPEG: "image/jpeg",
	GIF:  "image/gif",
	BMP:  "image/bmp",
	TIFF: "image/tiff",
	SVG:  "image/svg+xml",
	JSON: "application/json",
}

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{PNG, JPEG, GIF, BMP, TIFF, SVG, JSON}
}

// ParseFormat resolves a format name such as "jpg" or "TIFF".
func ParseFormat(name string) (Format, error) {
	if f, ok := aliases[strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unsupported format %q (must be one of: png, jpg, gif, bmp, tiff, svg, json)", name)
}

// ResolveFormat picks the format from a file name's extension.
func ResolveFormat(filename string) (Format, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot determine format of %q: no extension", filename)
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type.
func (f Format) ContentType() string {
	if ct, ok := contentTypes[f]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Raster reports whether f encodes pixels.
func (f Format) Raster() bool {
	switch f {
	case PNG, JPEG, GIF, BMP, TIFF:
		return true
	}
	return false
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + string(f)
}
