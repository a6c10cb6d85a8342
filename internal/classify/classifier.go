// Package classify decides which utility issued a bill.
package classify

import (
	"context"
	"image"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/waterbills/constants"
	"github.com/joseph-ayodele/waterbills/internal/common"
	"github.com/joseph-ayodele/waterbills/internal/ocr"
	"github.com/joseph-ayodele/waterbills/internal/raster"
)

// minTextChars is the shortest text layer trusted before falling back to OCR.
const minTextChars = 100

// selangorLayoutRect is where the two Air Selangor layouts differ, in canvas pixels.
var selangorLayoutRect = image.Rect(1600, 250, 1600+800, 250+250)

// PDFTextReader reads a PDF's embedded text layer.
type PDFTextReader interface {
	PDFText(ctx context.Context, path string) (string, error)
}

type Classifier struct {
	text       PDFTextReader
	recognizer ocr.Recognizer
	logger     *slog.Logger
}

func New(text PDFTextReader, rec ocr.Recognizer, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{text: text, recognizer: rec, logger: logger}
}

// Classify returns the document's region. Unknown with a nil error is the
// terminal "no provider matched" outcome; errors are rasterization failures.
func (c *Classifier) Classify(ctx context.Context, doc *raster.Document) (constants.Region, error) {
	logger := common.LoggerFrom(ctx, c.logger)

	text, err := c.DocumentText(ctx, doc)
	if err != nil {
		return constants.Unknown, err
	}

	region := MatchKeywords(text)
	if region == constants.Unknown {
		logger.Info("keyword scan failed, probing header and footer")
		region = c.scanHeaderFooter(ctx, doc, logger)
	}
	if region == constants.Unknown {
		logger.Warn("region unknown")
		return constants.Unknown, nil
	}

	if region == constants.Selangor {
		region, err = c.selangorLayout(ctx, doc, logger)
		if err != nil {
			return constants.Unknown, err
		}
	}
	logger.Info("region classified", "region", region)
	return region, nil
}

// DocumentText returns the full text used by the keyword phase: the PDF text
// layer when it is long enough, otherwise OCR of the whole page.
func (c *Classifier) DocumentText(ctx context.Context, doc *raster.Document) (string, error) {
	logger := common.LoggerFrom(ctx, c.logger)
	if doc.IsPDF() && c.text != nil {
		text, err := c.text.PDFText(ctx, doc.Path)
		switch {
		case err != nil:
			logger.Debug("pdf text unavailable", "error", err)
		case len(strings.TrimSpace(text)) >= minTextChars:
			return text, nil
		default:
			logger.Debug("pdf text too short, using ocr", "chars", len(strings.TrimSpace(text)))
		}
	}

	path, _, err := doc.Raster(ctx)
	if err != nil {
		return "", err
	}
	text, err := c.recognizer.Recognize(ctx, path)
	if err != nil {
		logger.Warn("full page ocr failed", "error", err)
		return "", nil
	}
	return text, nil
}

// scanHeaderFooter OCRs the top and bottom bands of the page and applies
// the Johor banner pattern. Any failure yields Unknown.
func (c *Classifier) scanHeaderFooter(ctx context.Context, doc *raster.Document, logger *slog.Logger) constants.Region {
	_, img, err := doc.Raster(ctx)
	if err != nil {
		logger.Warn("header/footer OCR failed", "error", err)
		return constants.Unknown
	}
	header, footer := raster.HeaderFooterBands(img.Bounds())

	bands := []struct {
		name string
		r    image.Rectangle
	}{{"header", header}, {"footer", footer}}

	var combined []string
	for _, b := range bands {
		text, err := c.recognizeRect(ctx, img, b.r, filepath.Join(doc.Dir, "bands", b.name+".png"))
		if err != nil {
			logger.Warn("header/footer OCR failed", "band", b.name, "error", err)
			return constants.Unknown
		}
		combined = append(combined, text)
	}
	if MatchJohorBanner(strings.Join(combined, " ")) {
		logger.Info("johor keywords found in header/footer")
		return constants.Johor
	}
	return constants.Unknown
}

// selangorLayout distinguishes the two Air Selangor layouts. If the layout
// region cannot be read, the original layout is kept.
func (c *Classifier) selangorLayout(ctx context.Context, doc *raster.Document, logger *slog.Logger) (constants.Region, error) {
	_, img, err := doc.Raster(ctx)
	if err != nil {
		return constants.Unknown, err
	}
	sx, sy := raster.ScaleFactors(img.Bounds())
	r := raster.ScaleRect(selangorLayoutRect.Min.X, selangorLayoutRect.Min.Y, selangorLayoutRect.Dx(), selangorLayoutRect.Dy(), sx, sy, img.Bounds())
	text, err := c.recognizeRect(ctx, img, r, filepath.Join(doc.Dir, "bands", "layout.png"))
	if err != nil {
		logger.Warn("selangor layout OCR failed", "error", err)
		return constants.Selangor, nil
	}
	if isSelangor2(text) {
		return constants.Selangor2, nil
	}
	return constants.Selangor, nil
}

func (c *Classifier) recognizeRect(ctx context.Context, img image.Image, r image.Rectangle, path string) (string, error) {
	if err := raster.CropToFile(img, r, path, false); err != nil {
		return "", err
	}
	return c.recognizer.Recognize(ctx, path)
}
