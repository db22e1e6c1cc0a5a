package render

import (
	"image"
	"image/color"

	"github.com/matzehuels/tagcloud/pkg/cloud/geom"
)

// Tag is one word placed in a cloud.
type Tag struct {
	Word     string
	Count    int
	FontSize float64

	// Rect is the box reserved by the layouter, padding included.
	Rect geom.Rect

	// Origin is where the text is drawn: left edge and baseline.
	Origin geom.Point

	Color color.Color
}

// Cloud is a rendered tag cloud.
type Cloud struct {
	Width, Height int
	Background    color.Color
	Tags          []Tag

	// Image is the painted canvas, Width x Height pixels.
	Image image.Image

	// Font is the name of the font the tags were measured with, FontTTF its
	// file contents (for embedding in vector output).
	Font    string
	FontTTF []byte

	// Dropped lists words left out under OverflowSkip, in size order.
	Dropped []string
}

// Placements returns the tag rectangles in placement order.
func (c *Cloud) Placements() []geom.Rect {
	out := make([]geom.Rect, len(c.Tags))
	for i, t := range c.Tags {
		out[i] = t.Rect
	}
	return out
}
