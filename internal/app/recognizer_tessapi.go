//go:build tessapi

package app

import (
	"log/slog"

	"github.com/joseph-ayodele/waterbills/internal/common"
	"github.com/joseph-ayodele/waterbills/internal/ocr"
	"github.com/joseph-ayodele/waterbills/internal/ocr/tessapi"
)

func newRecognizer(cfg common.OCRConfig, runner ocr.Runner, logger *slog.Logger) (ocr.Recognizer, error) {
	oc := ocrConfig(cfg)
	if cfg.Engine == "api" {
		r, err := tessapi.New(oc, logger)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return ocr.NewTesseractCLI(oc, runner, logger), nil
}
