package extract

import (
	"context"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/waterbills/constants"
	"github.com/joseph-ayodele/waterbills/internal/entity"
	"github.com/joseph-ayodele/waterbills/internal/raster"
	"github.com/joseph-ayodele/waterbills/internal/template"
)

// fakeRecognizer answers by crop file name.
type fakeRecognizer struct {
	mu    sync.Mutex
	texts map[string]string
	fail  map[string]bool
	seen  []string
}

func (f *fakeRecognizer) Recognize(_ context.Context, path string) (string, error) {
	name := filepath.Base(path)
	f.mu.Lock()
	f.seen = append(f.seen, name)
	f.mu.Unlock()
	if f.fail[name] {
		return "", errors.New("engine crashed")
	}
	return f.texts[name], nil
}

func box(name string, x, y, w, h int) template.FieldBox {
	return template.FieldBox{Name: name, X: x, Y: y, W: w, H: h}
}

func tmplOf(boxes ...template.FieldBox) template.Template {
	t := template.Template{Region: constants.Selangor, Fields: map[string]template.FieldBox{}}
	for _, b := range boxes {
		t.Fields[b.Name] = b
	}
	return t
}

func TestExtract(t *testing.T) {
	img := imaging.New(raster.CanvasWidth/10, raster.CanvasHeight/10, color.White)
	tmpl := tmplOf(
		box("Address", 100, 500, 900, 400),
		box("No. Akaun", 1500, 400, 600, 80),
		box("Bil Semasa", 1800, 1500, 400, 80),
		box("Cagaran", 1800, 1700, 400, 80),
		box("Jumlah Perlu Dibayar", 1800, 1600, 400, 80),
		box(KeyPeriodStart, 300, 1300, 300, 80),
		box(KeyPeriodEnd, 700, 1300, 300, 80),
		box("No. Meter", 300, 1200, 400, 80),
		box("Off Page", 5000, 100, 100, 100),
	)
	rec := &fakeRecognizer{
		texts: map[string]string{
			"Address.png":               "JANE DOE\n12 JALAN X\n40000 SHAH ALAM SELANGOR\nNO. AKAUN 1234\n",
			"No._Akaun.png":             "  1234567890 \n",
			"Bil_Semasa.png":            "RM 1.234,56",
			"Jumlah_Perlu_Dibayar.png":  "RM45.10",
			"Bilangan_Hari_-_Start.png": "1/1/24",
			"Bilangan_Hari_-_End.png":   "31-01-2024",
			"No._Meter.png":             "",
		},
		fail: map[string]bool{"Cagaran.png": true},
	}
	cropDir := t.TempDir()

	got, err := NewExtractor(rec, 3, nil).Extract(context.Background(), img, cropDir, tmpl)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := entity.Fields{
		"Address":              "JANE DOE\n12 JALAN X\n40000 SHAH ALAM SELANGOR",
		"No. Akaun":            "1234567890",
		"Bil Semasa":           "1234.56",
		"Jumlah Perlu Dibayar": "45.10",
		"Cagaran":              "",
		"No. Meter":            "",
		"Off Page":             "",
		"Tempoh Bil":           "01/01/2024 - 31/01/2024",
		"Bilangan Hari":        "30",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fields (-want +got):\n%s", diff)
	}
	if rec.seen[0] != "Address.png" {
		t.Errorf("address not recognized first: %v", rec.seen)
	}
	for _, n := range []string{"Address.png", "No._Akaun.png", "Bil_Semasa.png"} {
		if _, err := imaging.Open(filepath.Join(cropDir, n)); err != nil {
			t.Errorf("crop %s not written: %v", n, err)
		}
	}
}

func TestExtractMissingDateOmitsPeriod(t *testing.T) {
	img := imaging.New(248, 350, color.White)
	tmpl := tmplOf(
		box(KeyPeriodStartAlt, 300, 1300, 300, 80),
		box(KeyPeriodEnd, 700, 1300, 300, 80),
	)
	rec := &fakeRecognizer{texts: map[string]string{
		"Bilangan_Hari_-_Start.png": "05/03/2024",
		"Bilangan_Hari_-_End.png":   "smudge",
	}}
	got, err := NewExtractor(rec, 2, nil).Extract(context.Background(), img, t.TempDir(), tmpl)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(entity.Fields{}, got); diff != "" {
		t.Errorf("expected no period keys (-want +got):\n%s", diff)
	}
}

func TestFieldRectOffset(t *testing.T) {
	bounds := image.Rect(0, 0, raster.CanvasWidth, raster.CanvasHeight)
	b := box("No. Meter", 300, 1200, 400, 80)

	// three address lines: boxes move up by 150 canonical pixels
	got := fieldRect(b, AddressOffset(3), 1, 1, bounds)
	if want := image.Rect(300, 1050, 700, 1130); got != want {
		t.Errorf("offset rect = %v, want %v", got, want)
	}
	got = fieldRect(b, AddressOffset(3), 0.5, 0.5, bounds)
	if want := image.Rect(150, 525, 350, 565); got != want {
		t.Errorf("scaled rect = %v, want %v", got, want)
	}
}

func TestExtractCancelled(t *testing.T) {
	img := imaging.New(248, 350, color.White)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewExtractor(&fakeRecognizer{}, 1, nil).Extract(ctx, img, t.TempDir(), tmplOf(box("No. Bil", 10, 10, 100, 100)))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled, got %v", err)
	}
}

func TestCropFileName(t *testing.T) {
	tests := map[string]string{
		"No. Akaun":             "No._Akaun.png",
		"Bilangan Hari - Start": "Bilangan_Hari_-_Start.png",
		"Penggunaan (m3)":       "Penggunaan_(m3).png",
		"A/B":                   "A_B.png",
	}
	for in, want := range tests {
		if got := CropFileName(in); got != want {
			t.Errorf("CropFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
