package sink

import (
	"encoding/json"

	"github.com/matzehuels/tagcloud/pkg/render"
)

type jsonOutput struct {
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Background string    `json:"background,omitempty"`
	Font       string    `json:"font,omitempty"`
	Tags       []jsonTag `json:"tags"`
	Dropped    []string  `json:"dropped,omitempty"`
}

type jsonTag struct {
	Word     string  `json:"word"`
	Count    int     `json:"count"`
	FontSize float64 `json:"font_size"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Color    string  `json:"color"`
}

// RenderJSON exports the cloud's placements.
func RenderJSON(c *render.Cloud) ([]byte, error) {
	out := jsonOutput{
		Width:   c.Width,
		Height:  c.Height,
		Font:    c.Font,
		Tags:    make([]jsonTag, 0, len(c.Tags)),
		Dropped: c.Dropped,
	}
	if c.Background != nil {
		out.Background = hex(c.Background)
	}
	for _, t := range c.Tags {
		out.Tags = append(out.Tags, jsonTag{
			Word:     t.Word,
			Count:    t.Count,
			FontSize: t.FontSize,
			X:        t.Rect.X,
			Y:        t.Rect.Y,
			Width:    t.Rect.Width,
			Height:   t.Rect.Height,
			Color:    hex(t.Color),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
