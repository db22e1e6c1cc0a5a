// Package pkg provides the core libraries for tagcloud.
//
// # Overview
//
// Tagcloud counts the words of a text and draws them as a tag cloud: the
// most frequent words are drawn largest and packed around the center of the
// canvas. The pkg directory is organized into four main areas:
//
//  1. [cloud] - Layout (geometry, the spiral, the occupancy index, layouters)
//  2. [render] - Visualization (sizing, palettes, the visualizer, encoders)
//  3. [pipeline] - Orchestration (parse → render → encode, with caching)
//  4. Infrastructure - [cache], [config], [history], [httputil], [fonts]
//
// # Architecture
//
// The typical data flow through tagcloud:
//
//	Text file, URL or request body
//	         ↓
//	    [words] package (tokenize, filter, count)
//	         ↓
//	    [sizing] package (font size per word)
//	         ↓
//	    [cloud/layout] package (place each word's box without overlap)
//	         ↓
//	    [render/sink] package (PNG/JPEG/GIF/BMP/TIFF/SVG/JSON)
//
// # Quick Start
//
// Lay out rectangles directly:
//
//	import (
//	    "github.com/matzehuels/tagcloud/pkg/cloud/geom"
//	    "github.com/matzehuels/tagcloud/pkg/cloud/layout"
//	)
//
//	l, _ := layout.NewCircular()
//	l.RefreshWith(geom.Pt(400, 300))
//	r, err := l.PutNextRectangle(geom.Size{Width: 120, Height: 40})
//
// Or render a whole cloud through the pipeline:
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "speech.txt",
//	    Formats: []string{"png", "svg"},
//	})
//
// # Error Handling
//
// Errors carry machine-readable codes from package [errors], shared by the
// CLI (exit status) and the HTTP server (status code).
package pkg
