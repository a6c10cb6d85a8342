package raster

import (
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/joseph-ayodele/waterbills/internal/common"
)

type fakeRunner struct {
	calls int
	write func(prefix string) error
	err   error
}

func (f *fakeRunner) Run(_ context.Context, _ string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	f.calls++
	if f.err != nil {
		return nil, []byte("Syntax Error: Couldn't read xref table"), f.err
	}
	prefix := args[len(args)-1]
	return nil, nil, f.write(prefix)
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := imaging.New(w, h, color.White)
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save: %v", err)
	}
}

func TestScaleRect(t *testing.T) {
	bounds := image.Rect(0, 0, CanvasWidth, CanvasHeight)
	tests := []struct {
		name       string
		x, y, w, h int
		sx, sy     float64
		want       image.Rectangle
	}{
		{"identity", 100, 200, 300, 50, 1, 1, image.Rect(100, 200, 400, 250)},
		{"half", 101, 201, 300, 51, 0.5, 0.5, image.Rect(51, 101, 201, 127)},
		{"clipped", 2400, 3500, 200, 200, 1, 1, image.Rect(2400, 3500, CanvasWidth, CanvasHeight)},
		{"outside", 3000, 100, 10, 10, 1, 1, image.Rectangle{}},
		{"negative offset", 10, -40, 100, 100, 1, 1, image.Rect(10, 0, 110, 60)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScaleRect(tt.x, tt.y, tt.w, tt.h, tt.sx, tt.sy, bounds)
			if got.Empty() && tt.want.Empty() {
				return
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRasterizePDF(t *testing.T) {
	dir := t.TempDir()
	r := &fakeRunner{write: func(prefix string) error {
		writePNG(t, prefix+".png", 1240, 1754)
		return nil
	}}
	rz := NewRasterizer("", 150, r, nil)

	out, err := rz.Rasterize(context.Background(), "/in/bill-01.pdf", dir)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if filepath.Base(out) != "bill-01.png" {
		t.Errorf("out = %s", out)
	}
	img, err := imaging.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != CanvasWidth || b.Dy() != CanvasHeight {
		t.Errorf("size = %v", b)
	}
	if _, err := os.Stat(filepath.Join(dir, "bill-01_raw.png")); !os.IsNotExist(err) {
		t.Errorf("raw raster not removed: %v", err)
	}
}

func TestRasterizeFailure(t *testing.T) {
	r := &fakeRunner{err: errors.New("exit status 1")}
	rz := NewRasterizer("", 300, r, nil)
	_, err := rz.Rasterize(context.Background(), "/in/corrupt.pdf", t.TempDir())
	if !errors.Is(err, common.ErrRasterization) {
		t.Fatalf("want rasterization error, got %v", err)
	}
	if common.ErrorCode(err) != common.CodeRasterization {
		t.Errorf("code = %q", common.ErrorCode(err))
	}
	if !strings.Contains(err.Error(), "xref") {
		t.Errorf("stderr missing from %v", err)
	}
}

func TestDocumentRasterMemoized(t *testing.T) {
	dir := t.TempDir()
	r := &fakeRunner{write: func(prefix string) error {
		writePNG(t, prefix+".png", 100, 140)
		return nil
	}}
	doc := NewDocument("/in/a.pdf", dir, NewRasterizer("", 300, r, nil))
	for i := 0; i < 3; i++ {
		if _, _, err := doc.Raster(context.Background()); err != nil {
			t.Fatalf("Raster: %v", err)
		}
	}
	if r.calls != 1 {
		t.Errorf("rasterized %d times, want 1", r.calls)
	}
	if !doc.IsPDF() || doc.Name() != "a.pdf" {
		t.Errorf("IsPDF=%v Name=%s", doc.IsPDF(), doc.Name())
	}
}

func TestImageInputSkipsPdftoppm(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "scan.jpg")
	if err := imaging.Save(imaging.New(600, 800, color.White), src); err != nil {
		t.Fatal(err)
	}
	r := &fakeRunner{}
	out, err := NewRasterizer("", 300, r, nil).Rasterize(context.Background(), src, filepath.Join(dir, "run"))
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if r.calls != 0 {
		t.Errorf("pdftoppm called for image input")
	}
	img, _ := imaging.Open(out)
	if img.Bounds().Dx() != CanvasWidth {
		t.Errorf("width = %d", img.Bounds().Dx())
	}
}

func TestCropAndBands(t *testing.T) {
	img := imaging.New(CanvasWidth, CanvasHeight, color.White)
	header, footer := HeaderFooterBands(img.Bounds())
	if header != image.Rect(0, 0, CanvasWidth, 400) {
		t.Errorf("header = %v", header)
	}
	if footer != image.Rect(0, 2632, CanvasWidth, 3032) {
		t.Errorf("footer = %v", footer)
	}

	small := image.Rect(0, 0, 100, 1000)
	h, f := HeaderFooterBands(small)
	if h.Dy() != 250 || f.Min.Y != 750 {
		t.Errorf("small bands = %v %v", h, f)
	}

	path := filepath.Join(t.TempDir(), "crops", "No._Akaun.png")
	if err := CropToFile(img, image.Rect(10, 10, 60, 30), path, true); err != nil {
		t.Fatalf("CropToFile: %v", err)
	}
	out, _ := imaging.Open(path)
	if out.Bounds().Dx() != 50 || out.Bounds().Dy() != 20 {
		t.Errorf("crop size = %v", out.Bounds())
	}
	if err := CropToFile(img, image.Rect(5000, 0, 5100, 10), path, false); !errors.Is(err, ErrEmptyCrop) {
		t.Errorf("want ErrEmptyCrop, got %v", err)
	}
}
