// Package app assembles the extraction pipeline and its optional store from
// configuration. Both binaries share it.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/joseph-ayodele/waterbills/internal/classify"
	"github.com/joseph-ayodele/waterbills/internal/common"
	"github.com/joseph-ayodele/waterbills/internal/extract"
	"github.com/joseph-ayodele/waterbills/internal/ocr"
	"github.com/joseph-ayodele/waterbills/internal/pipeline"
	"github.com/joseph-ayodele/waterbills/internal/raster"
	"github.com/joseph-ayodele/waterbills/internal/repository"
	"github.com/joseph-ayodele/waterbills/internal/template"
)

// App is the wired component graph. Store is nil when no database is configured.
type App struct {
	Processor *pipeline.Processor
	Store     repository.OutcomeStore

	closers []func() error
	logger  *slog.Logger
}

// Build wires every stage from cfg. Close must be called when done.
func Build(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{logger: logger}
	runner := ocr.ExecRunner{Timeout: cfg.OCR.ToolTimeout}

	rec, err := newRecognizer(cfg.OCR, runner, logger)
	if err != nil {
		return nil, err
	}
	if c, ok := rec.(interface{ Close() error }); ok {
		a.closers = append(a.closers, c.Close)
	}

	templates, err := template.NewStore(cfg.Pipeline.TemplateDir, cfg.Pipeline.CreateMissingTemplates, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	if missing := templates.Missing(); len(missing) > 0 {
		logger.Warn("regions without templates", "regions", missing, "dir", cfg.Pipeline.TemplateDir)
	}

	extractor := extract.NewExtractor(rec, cfg.Pipeline.FieldConcurrency, logger)
	extractor.Grayscale = cfg.Pipeline.GrayscaleCrops

	a.Processor = pipeline.NewProcessor(
		cfg.Pipeline,
		raster.NewRasterizer(cfg.OCR.Pdftoppm, cfg.Pipeline.DPI, runner, logger),
		classify.New(ocr.NewTextExtractor(cfg.OCR.Pdftotext, runner, logger), rec, logger),
		templates,
		extractor,
		logger,
	)

	if cfg.Database.Driver != "" {
		store, err := repository.Open(ctx, cfg.Database.Driver, repository.ConfigFrom(cfg.Database), logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Store = store
		a.closers = append(a.closers, func() error { store.Close(); return nil })
	}

	logger.Info("pipeline ready",
		"ocr_engine", cfg.OCR.Engine,
		"template_dir", cfg.Pipeline.TemplateDir,
		"scratch_dir", cfg.Pipeline.ScratchRoot,
		"db_driver", cfg.Database.Driver)
	return a, nil
}

// Close releases the recognizer and the store in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn("close failed", "error", err)
		return err
	}
	return nil
}

func ocrConfig(cfg common.OCRConfig) ocr.Config {
	return ocr.Config{Tesseract: cfg.Tesseract, Lang: cfg.Lang, PSM: cfg.PSM, TessdataDir: cfg.TessdataDir}
}
