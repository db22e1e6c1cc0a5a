// Package render draws word statistics as a tag cloud image.
//
// # Overview
//
// A [Visualizer] turns a list of [words.Stat] into a [Cloud]:
//
//  1. Each word gets a font size interpolated from its count
//     (see [sizing.Scale]) and is measured with that face.
//  2. Words are sorted by font size, largest first, and handed to a
//     [layout.Layouter] centered on the canvas.
//  3. Every placement must lie inside the canvas. Depending on the
//     [Overflow] policy a word that does not fit aborts the render with
//     OUT_OF_CANVAS or is dropped and reported in [Cloud.Dropped].
//  4. The tags are painted onto a drawing surface that only lives for the
//     duration of the call.
//
// Encoding the result as PNG, JPEG, SVG, JSON and friends is done by the
// [sink] subpackage; colors come from the [palette] subpackage.
//
//	v, err := render.New(render.Options{Width: 800, Height: 600})
//	cloud, err := v.Render(ctx, stats)
//	err = sink.Save("cloud.png", cloud)
//
// A Visualizer holds no per-render state and may be shared by goroutines.
//
// [sink]: github.com/matzehuels/tagcloud/pkg/render/sink
// [palette]: github.com/matzehuels/tagcloud/pkg/render/palette
package render
