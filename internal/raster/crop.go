package raster

import (
	"errors"
	"image"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

var ErrEmptyCrop = errors.New("crop rectangle outside page")

// CropToFile writes the region r of img as a PNG at path, optionally
// converted to grayscale.
func CropToFile(img image.Image, r image.Rectangle, path string, gray bool) error {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return ErrEmptyCrop
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var out image.Image = imaging.Crop(img, r)
	if gray {
		out = imaging.Grayscale(out)
	}
	return imaging.Save(out, path)
}

// HeaderFooterBands returns the top and bottom strips used when a bill's
// text layer carries no utility name: min(400, 25% of height) tall, the
// footer starting at 75% of the height.
func HeaderFooterBands(b image.Rectangle) (header, footer image.Rectangle) {
	h := b.Dy()
	band := int(math.Min(400, math.Round(float64(h)*0.25)))
	footerTop := int(math.Round(float64(h) * 0.75))
	header = image.Rect(0, 0, b.Dx(), band).Add(b.Min).Intersect(b)
	footer = image.Rect(0, footerTop, b.Dx(), footerTop+band).Add(b.Min).Intersect(b)
	return header, footer
}
