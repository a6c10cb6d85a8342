package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// TextExtractor reads the embedded text layer of a PDF.
type TextExtractor struct {
	pdftotext string
	runner    Runner
	logger    *slog.Logger
}

func NewTextExtractor(pdftotext string, runner Runner, logger *slog.Logger) *TextExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if pdftotext == "" {
		pdftotext = "pdftotext"
	}
	return &TextExtractor{pdftotext: pdftotext, runner: runner, logger: logger}
}

// PDFText returns the text layer of every page, one line per page. The pure-Go
// reader is tried first, then pdftotext. Scanned bills usually have no text
// layer at all, in which case the result is empty and the caller falls back
// to OCR.
func (e *TextExtractor) PDFText(ctx context.Context, path string) (string, error) {
	text, err := nativeText(path)
	if err == nil && strings.TrimSpace(text) != "" {
		e.logger.Debug("pdf text layer read", "path", path, "method", "native", "bytes", len(text))
		return text, nil
	}
	if err != nil {
		e.logger.Debug("native pdf text failed", "path", path, "error", err)
	}

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, rerr := e.runner.Run(ctx, e.pdftotext, e.logger, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if rerr != nil {
		if err != nil {
			return "", fmt.Errorf("pdf text: native: %v; pdftotext: %w: %s", err, rerr, clip(string(errb), 512))
		}
		// native reader worked but found nothing; that is a valid answer
		return text, nil
	}
	e.logger.Debug("pdf text layer read", "path", path, "method", "pdftotext", "bytes", len(out))
	return strings.ReplaceAll(string(out), "\f", "\n"), nil
}

func nativeText(path string) (text string, err error) {
	// the reader panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pt, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		b.WriteString(pt)
		b.WriteString("\n")
	}
	return b.String(), nil
}
