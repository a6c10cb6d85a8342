//go:build tessapi

// Package tessapi recognizes text through the Tesseract C API via gosseract.
// It needs libtesseract and cgo at build time, so it only builds with
// -tags tessapi; select it at runtime with OCR_ENGINE=api.
package tessapi

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/joseph-ayodele/waterbills/internal/ocr"
)

// Recognizer wraps a single gosseract client. The client is not safe for
// concurrent use, so calls are serialized.
type Recognizer struct {
	mu     sync.Mutex
	client *gosseract.Client
	logger *slog.Logger
}

var _ ocr.Recognizer = (*Recognizer)(nil)

func New(cfg ocr.Config, logger *slog.Logger) (*Recognizer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := gosseract.NewClient()
	lang := cfg.Lang
	if lang == "" {
		lang = "eng"
	}
	if err := c.SetLanguage(lang); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("set language %q: %w", lang, err)
	}
	if cfg.PSM > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(cfg.PSM)); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("set psm %d: %w", cfg.PSM, err)
		}
	}
	if cfg.TessdataDir != "" {
		if err := c.SetTessdataPrefix(cfg.TessdataDir); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	logger.Info("tesseract api ready", "lang", lang, "psm", cfg.PSM, "version", gosseract.Version())
	return &Recognizer{client: c, logger: logger}, nil
}

func (r *Recognizer) Recognize(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := r.client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract api: %w", err)
	}
	r.logger.Debug("api ocr ok", "path", imagePath, "chars", len(text))
	return ocr.Normalize(text), nil
}

// Close releases the underlying Tesseract handle.
func (r *Recognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.client.Close()
}
