//go:build !tessapi

package app

import (
	"log/slog"

	"github.com/joseph-ayodele/waterbills/internal/common"
	"github.com/joseph-ayodele/waterbills/internal/ocr"
)

func newRecognizer(cfg common.OCRConfig, runner ocr.Runner, logger *slog.Logger) (ocr.Recognizer, error) {
	if cfg.Engine == "api" {
		return nil, common.NewAppError(common.CodeConfig, "OCR_ENGINE=api requires a build with -tags tessapi", common.ErrInvalidInput)
	}
	return ocr.NewTesseractCLI(ocrConfig(cfg), runner, logger), nil
}
