// Package pipeline runs one bill through rasterize → classify → extract →
// parse → standardize.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/waterbills/constants"
	"github.com/joseph-ayodele/waterbills/internal/common"
	"github.com/joseph-ayodele/waterbills/internal/entity"
	"github.com/joseph-ayodele/waterbills/internal/parsers"
	"github.com/joseph-ayodele/waterbills/internal/raster"
	"github.com/joseph-ayodele/waterbills/internal/standardize"
	"github.com/joseph-ayodele/waterbills/internal/template"
)

type RegionClassifier interface {
	Classify(ctx context.Context, doc *raster.Document) (constants.Region, error)
}

type TemplateSource interface {
	Load(region constants.Region) (template.Template, error)
}

type FieldExtractor interface {
	Extract(ctx context.Context, img image.Image, cropDir string, tmpl template.Template) (entity.Fields, error)
}

// Processor owns the per-document flow. Each run gets its own scratch
// directory <ScratchRoot>/<run id>, so documents may be processed
// concurrently.
type Processor struct {
	cfg        common.PipelineConfig
	rasterizer *raster.Rasterizer
	classifier RegionClassifier
	templates  TemplateSource
	extractor  FieldExtractor
	logger     *slog.Logger
}

func NewProcessor(cfg common.PipelineConfig, rasterizer *raster.Rasterizer, classifier RegionClassifier,
	templates TemplateSource, extractor FieldExtractor, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		cfg:        cfg,
		rasterizer: rasterizer,
		classifier: classifier,
		templates:  templates,
		extractor:  extractor,
		logger:     logger,
	}
}

// ProcessDocument returns the canonical record for the bill at path.
// An unrecognized provider is a failed Outcome with a nil error. Rasterization
// failures and missing templates are returned as errors.
func (p *Processor) ProcessDocument(ctx context.Context, path string) (entity.Outcome, error) {
	fileName := filepath.Base(path)
	runID := uuid.NewString()
	ctx = common.WithFileName(common.WithRunID(ctx, runID), fileName)
	logger := common.LoggerFrom(ctx, p.logger)
	start := time.Now()

	dir := filepath.Join(p.cfg.ScratchRoot, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return entity.Outcome{}, fmt.Errorf("create scratch dir: %w", err)
	}
	if !p.cfg.KeepScratch {
		defer func() {
			if err := os.RemoveAll(dir); err != nil {
				logger.Warn("scratch cleanup failed", "dir", dir, "error", err)
			}
		}()
	}
	logger.Info("processing document", "path", path)

	doc := raster.NewDocument(path, dir, p.rasterizer)
	region, err := p.classifier.Classify(ctx, doc)
	if err != nil {
		logger.Error("processor.classify.failed", "error", err)
		return entity.Outcome{}, err
	}
	if region == constants.Unknown {
		logger.Warn("unknown region")
		return entity.Failure(fileName, constants.StatusUnknownRegion, constants.UnknownRegionMessage), nil
	}

	tmpl, err := p.templates.Load(region)
	if err != nil {
		logger.Error("processor.template.failed", "region", region, "error", err)
		return entity.Outcome{}, err
	}

	_, img, err := doc.Raster(ctx)
	if err != nil {
		logger.Error("processor.raster.failed", "error", err)
		return entity.Outcome{}, err
	}

	raw, err := p.extractor.Extract(ctx, img, filepath.Join(dir, "crops"), tmpl)
	if err != nil {
		logger.Error("processor.extract.failed", "region", region, "error", err)
		return entity.Outcome{}, err
	}

	fields := parsers.For(region).Parse(raw)
	fields["File Name"] = fileName
	fields["Region"] = region.String()
	rec := standardize.Standardize(fields)

	logger.Info("document processed",
		"region", region,
		"fields", len(raw),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return entity.Success(fileName, region, rec), nil
}

// ProcessBatch processes paths one after another. A document that fails is
// reported in its slot and never stops the batch.
func (p *Processor) ProcessBatch(ctx context.Context, paths []string) entity.BatchResult {
	results := make([]entity.Outcome, 0, len(paths))
	for _, path := range paths {
		out, err := p.ProcessDocument(ctx, path)
		if err != nil {
			out = entity.Failure(filepath.Base(path), constants.StatusFailed, err.Error())
		}
		results = append(results, out)
	}
	b := entity.NewBatchResult(results)
	p.logger.Info("batch processed", "total", b.Total, "succeeded", b.Succeeded())
	return b
}
