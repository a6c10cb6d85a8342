package raster

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/joseph-ayodele/waterbills/constants"
	"github.com/joseph-ayodele/waterbills/internal/common"
	"github.com/joseph-ayodele/waterbills/internal/ocr"
)

// Rasterizer renders the first page of a bill into a canonical PNG.
type Rasterizer struct {
	pdftoppm string
	dpi      int
	runner   ocr.Runner
	logger   *slog.Logger
}

func NewRasterizer(pdftoppm string, dpi int, runner ocr.Runner, logger *slog.Logger) *Rasterizer {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ocr.ExecRunner{}
	}
	if pdftoppm == "" {
		pdftoppm = "pdftoppm"
	}
	if dpi <= 0 {
		dpi = 300
	}
	return &Rasterizer{pdftoppm: pdftoppm, dpi: dpi, runner: runner, logger: logger}
}

// Rasterize writes <outDir>/<base>.png sized exactly CanvasWidth x CanvasHeight
// and returns its path. Image inputs skip pdftoppm and are resized directly.
// Failures are reported as RASTERIZATION_FAILURE.
func (r *Rasterizer) Rasterize(ctx context.Context, src, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", common.RasterizationError("create output dir", err)
	}
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	out := filepath.Join(outDir, base+".png")

	format := constants.MapExtToFormat(filepath.Ext(src))
	if format == constants.IMAGE {
		if err := resizeToCanvas(src, out); err != nil {
			return "", common.RasterizationError("resize image input", err)
		}
		r.logger.Debug("image input normalized", "src", src, "out", out)
		return out, nil
	}

	// pdftoppm -r 300 -singlefile -png <src> <prefix> -> <prefix>.png
	prefix := filepath.Join(outDir, base+"_raw")
	_, errb, err := r.runner.Run(ctx, r.pdftoppm, r.logger,
		"-r", strconv.Itoa(r.dpi), "-singlefile", "-png", src, prefix)
	if err != nil {
		return "", common.RasterizationError(
			fmt.Sprintf("pdftoppm: %s", strings.TrimSpace(string(errb))), err)
	}
	raw := prefix + ".png"
	defer os.Remove(raw)

	if err := resizeToCanvas(raw, out); err != nil {
		return "", common.RasterizationError("resize raster", err)
	}
	r.logger.Debug("pdf rasterized", "src", src, "out", out, "dpi", r.dpi)
	return out, nil
}

// resizeToCanvas stretches src to the canvas without preserving aspect ratio,
// matching how templates were measured.
func resizeToCanvas(src, dst string) error {
	img, err := imaging.Open(src)
	if err != nil {
		return err
	}
	b := img.Bounds()
	if b.Dx() != CanvasWidth || b.Dy() != CanvasHeight {
		img = imaging.Resize(img, CanvasWidth, CanvasHeight, imaging.Lanczos)
	}
	return imaging.Save(img, dst)
}
