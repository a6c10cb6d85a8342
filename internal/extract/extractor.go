package extract

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/waterbills/internal/common"
	"github.com/joseph-ayodele/waterbills/internal/entity"
	"github.com/joseph-ayodele/waterbills/internal/ocr"
	"github.com/joseph-ayodele/waterbills/internal/raster"
	"github.com/joseph-ayodele/waterbills/internal/template"
)

// Billing-period inputs. Both spellings occur in older templates.
const (
	KeyPeriodStart    = "Bilangan Hari - Start"
	KeyPeriodStartAlt = "Bilangan_Hari_-_Start"
	KeyPeriodEnd      = "Bilangan Hari - End"
	KeyPeriodEndAlt   = "Bilangan_Hari_-_End"

	KeyTempohBil    = "Tempoh Bil"
	KeyBilanganHari = "Bilangan Hari"
)

// Boxes printed below the address block; they move with its length.
var addressDependent = map[string]bool{
	"No. Meter":            true,
	KeyPeriodStart:         true,
	KeyPeriodEnd:           true,
	"Baki Terdahulu":       true,
	"Bil Semasa":           true,
	"Jumlah Perlu Dibayar": true,
	"Penggunaan (m3)":      true,
}

// Currency and quantity boxes that get CleanNumeric.
var numericFields = map[string]bool{
	"Bil Semasa":           true,
	"Jumlah Perlu Dibayar": true,
	"Baki Terdahulu":       true,
	"Cagaran":              true,
	"Penggunaan (m3)":      true,
}

var reUnsafeName = regexp.MustCompile(`[\s/\\]+`)

// Extractor crops every template box out of a page raster and recognizes it.
type Extractor struct {
	recognizer  ocr.Recognizer
	concurrency int
	logger      *slog.Logger

	// Grayscale converts field crops before recognition.
	Grayscale bool
}

func NewExtractor(rec ocr.Recognizer, concurrency int, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Extractor{recognizer: rec, concurrency: concurrency, logger: logger}
}

// Extract returns the raw text of every template field. The address is read
// first because its line count shifts the address-dependent boxes. A field
// that cannot be cropped or recognized resolves to "" without failing the
// document; only context cancellation is returned as an error.
func (e *Extractor) Extract(ctx context.Context, img image.Image, cropDir string, tmpl template.Template) (entity.Fields, error) {
	logger := common.LoggerFrom(ctx, e.logger).With("region", tmpl.Region)
	start := time.Now()
	sx, sy := raster.ScaleFactors(img.Bounds())
	fields := entity.Fields{}

	var address string
	if box, ok := tmpl.Address(); ok {
		text, err := e.recognizeBox(ctx, img, box, 0, sx, sy, cropDir)
		if err != nil {
			logger.Warn("address recognition failed", "error", err)
		} else {
			address = CleanAddress(strings.TrimSpace(text))
		}
		fields[template.AddressField] = address
	}
	lines := CountAddressLines(address)
	offsetY := AddressOffset(lines)
	logger.Debug("address measured", "lines", lines, "offset_y", offsetY)

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(e.concurrency)
	for _, box := range tmpl.Boxes() {
		box := box
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			shift := 0
			if addressDependent[box.Name] {
				shift = offsetY
			}
			text, err := e.recognizeBox(ctx, img, box, shift, sx, sy, cropDir)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Warn("field recognition failed", "field", box.Name, "error", err)
				text = ""
			} else {
				text = strings.TrimSpace(text)
				if numericFields[box.Name] {
					text = CleanNumeric(text)
				}
			}
			mu.Lock()
			fields[box.Name] = text
			mu.Unlock()
			logger.Debug("field recognized", "field", box.Name, "text", text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	applyPeriod(fields, logger)
	logger.Info("fields extracted", "count", len(fields), "duration_ms", time.Since(start).Milliseconds())
	return fields, nil
}

// fieldRect places box on an image with the given scale, shifting it
// vertically by offsetY canonical pixels first.
func fieldRect(box template.FieldBox, offsetY int, sx, sy float64, bounds image.Rectangle) image.Rectangle {
	return raster.ScaleRect(box.X, box.Y+offsetY, box.W, box.H, sx, sy, bounds)
}

func (e *Extractor) recognizeBox(ctx context.Context, img image.Image, box template.FieldBox, offsetY int, sx, sy float64, cropDir string) (string, error) {
	r := fieldRect(box, offsetY, sx, sy, img.Bounds())
	path := filepath.Join(cropDir, CropFileName(box.Name))
	if err := raster.CropToFile(img, r, path, e.Grayscale); err != nil {
		return "", fmt.Errorf("%w: crop %s: %w", common.ErrFieldRecognition, box.Name, err)
	}
	text, err := e.recognizer.Recognize(ctx, path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrFieldRecognition, err)
	}
	return text, nil
}

// CropFileName is the debug crop name for a field: whitespace becomes "_".
func CropFileName(field string) string {
	return reUnsafeName.ReplaceAllString(field, "_") + ".png"
}

// applyPeriod turns the raw start/end boxes into "Tempoh Bil" and
// "Bilangan Hari". If either date is unreadable neither key is set. The raw
// boxes are always removed.
func applyPeriod(f entity.Fields, logger *slog.Logger) {
	start, okStart := firstDate(f, KeyPeriodStart, KeyPeriodStartAlt)
	end, okEnd := firstDate(f, KeyPeriodEnd, KeyPeriodEndAlt)
	for _, k := range []string{KeyPeriodStart, KeyPeriodStartAlt, KeyPeriodEnd, KeyPeriodEndAlt} {
		delete(f, k)
	}
	if !okStart || !okEnd {
		logger.Debug("billing period incomplete", "start", start, "end", end)
		return
	}
	period, days, ok := Period(start, end)
	if !ok {
		logger.Debug("billing period unparseable", "start", start, "end", end)
		return
	}
	f[KeyTempohBil] = period
	f[KeyBilanganHari] = strconv.Itoa(days)
}

func firstDate(f entity.Fields, keys ...string) (string, bool) {
	for _, k := range keys {
		if d, ok := NormalizeDate(f[k]); ok {
			return d, true
		}
	}
	return "", false
}
