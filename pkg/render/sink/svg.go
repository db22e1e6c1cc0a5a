package sink

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/tagcloud/pkg/fonts"
	"github.com/matzehuels/tagcloud/pkg/render"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	embedFont bool
	boxes     bool
}

// WithoutEmbeddedFont references the font by family name only, producing a
// much smaller file that depends on the viewer having the font.
func WithoutEmbeddedFont() SVGOption { return func(r *svgRenderer) { r.embedFont = false } }

// WithBoxes outlines each tag's layout rectangle, useful for debugging.
func WithBoxes() SVGOption { return func(r *svgRenderer) { r.boxes = true } }

// RenderSVG draws the cloud as SVG text elements.
func RenderSVG(c *render.Cloud, opts ...SVGOption) []byte {
	r := svgRenderer{embedFont: true}
	for _, opt := range opts {
		opt(&r)
	}

	family := c.Font
	if family == "" || family == fonts.Regular {
		family = fonts.FontFamily
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		c.Width, c.Height, c.Width, c.Height)

	if r.embedFont {
		buf.WriteString("  <defs><style>\n")
		fmt.Fprintf(&buf, "    @font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }\n",
			family, fontBase64(c))
		buf.WriteString("  </style></defs>\n")
	}

	if c.Background != nil {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", hex(c.Background))
	}

	fmt.Fprintf(&buf, `  <g font-family="'%s', %s">`+"\n", family, fonts.FallbackFontFamily)
	for _, t := range c.Tags {
		if r.boxes {
			fmt.Fprintf(&buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#ccc" stroke-width="0.5"/>`+"\n",
				t.Rect.X, t.Rect.Y, t.Rect.Width, t.Rect.Height)
		}
		fmt.Fprintf(&buf, `    <text x="%.2f" y="%.2f" font-size="%.2f" fill="%s">`, t.Origin.X, t.Origin.Y, t.FontSize, hex(t.Color))
		xml.EscapeText(&buf, []byte(t.Word))
		buf.WriteString("</text>\n")
	}
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func fontBase64(c *render.Cloud) string {
	if len(c.FontTTF) == 0 || c.Font == fonts.Regular {
		return fonts.RegularTTFBase64()
	}
	return base64.StdEncoding.EncodeToString(c.FontTTF)
}

func hex(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	cf, _ := colorful.MakeColor(c)
	return cf.Clamped().Hex()
}
