package raster

import (
	"context"
	"image"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/joseph-ayodele/waterbills/constants"
)

// Document is one bill being processed. The page raster is produced on first
// use and shared by classification and extraction for the rest of the run.
type Document struct {
	Path string // source PDF or image
	Dir  string // per-run scratch directory

	rasterizer *Rasterizer

	mu        sync.Mutex
	imagePath string
	img       image.Image
	err       error
	done      bool
}

func NewDocument(path, dir string, r *Rasterizer) *Document {
	return &Document{Path: path, Dir: dir, rasterizer: r}
}

// Name is the source file name without directories.
func (d *Document) Name() string { return filepath.Base(d.Path) }

// IsPDF reports whether the source is a PDF rather than an image.
func (d *Document) IsPDF() bool {
	return constants.MapExtToFormat(filepath.Ext(d.Path)) == constants.PDF
}

// Raster returns the canonical page image path and its decoded pixels.
// The first error is sticky.
func (d *Document) Raster(ctx context.Context) (string, image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done {
		return d.imagePath, d.img, d.err
	}
	d.done = true
	d.imagePath, d.err = d.rasterizer.Rasterize(ctx, d.Path, d.Dir)
	if d.err != nil {
		return "", nil, d.err
	}
	d.img, d.err = imaging.Open(d.imagePath)
	return d.imagePath, d.img, d.err
}
