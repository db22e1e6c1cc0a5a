// Package sink encodes rendered tag clouds.
//
// Raster formats (PNG, JPEG, GIF, BMP, TIFF) encode the cloud's image.
// SVG redraws the tags as text elements with the font embedded, so the
// output scales cleanly. JSON exports the placements for other tools.
//
// The output format of [Save] is resolved from the file extension:
//
//	err := sink.Save("out/cloud.svg", cloud)
//
// Unknown extensions fail with INVALID_FORMAT; write failures with
// SAVE_FAILED.
package sink
