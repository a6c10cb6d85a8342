package raster

import (
	"image"
	"math"
)

// Canvas is the reference page size every template is authored against
// (A4 at 300 DPI).
const (
	CanvasWidth  = 2481
	CanvasHeight = 3509
)

// ScaleFactors maps template coordinates onto an image with bounds b.
// A raster that came out of Rasterize is already canonical and yields 1,1.
func ScaleFactors(b image.Rectangle) (sx, sy float64) {
	return float64(b.Dx()) / CanvasWidth, float64(b.Dy()) / CanvasHeight
}

// ScaleRect converts a template box into pixel coordinates. Each component is
// rounded independently, then the result is clipped to bounds. An empty
// rectangle means the box lies entirely outside the page.
func ScaleRect(x, y, w, h int, sx, sy float64, bounds image.Rectangle) image.Rectangle {
	left := int(math.Round(float64(x) * sx))
	top := int(math.Round(float64(y) * sy))
	width := int(math.Round(float64(w) * sx))
	height := int(math.Round(float64(h) * sy))
	r := image.Rect(left, top, left+width, top+height).Add(bounds.Min)
	return r.Intersect(bounds)
}
