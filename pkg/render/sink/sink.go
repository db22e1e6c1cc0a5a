package sink

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/render"
)

// JPEGQuality is used for JPEG output.
const JPEGQuality = 92

var rasterFormats = map[Format]imaging.Format{
	PNG:  imaging.PNG,
	JPEG: imaging.JPEG,
	GIF:  imaging.GIF,
	BMP:  imaging.BMP,
	TIFF: imaging.TIFF,
}

// Encode writes c to w in the given format.
func Encode(w io.Writer, c *render.Cloud, f Format) error {
	switch f {
	case SVG:
		_, err := w.Write(RenderSVG(c))
		return err
	case JSON:
		data, err := RenderJSON(c)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	rf, ok := rasterFormats[f]
	if !ok {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
	}
	if c.Image == nil {
		return errors.New(errors.ErrCodeInternal, "cloud has no image to encode")
	}
	return imaging.Encode(w, c.Image, rf, imaging.JPEGQuality(JPEGQuality))
}

// Bytes encodes c into memory.
func Bytes(c *render.Cloud, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, c, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes c to path, choosing the format from the extension. Missing
// parent directories are created.
func Save(path string, c *render.Cloud) error {
	f, err := ResolveFormat(path)
	if err != nil {
		return err
	}
	data, err := Bytes(c, f)
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}

// WriteFile writes already encoded data to path.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeSaveFailed, err, "create directory for %s", path)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeSaveFailed, err, "write %s", path)
	}
	return nil
}
