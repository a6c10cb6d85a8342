package app

import (
	"context"
	"errors"
	"testing"

	"github.com/joseph-ayodele/waterbills/internal/common"
	"github.com/joseph-ayodele/waterbills/internal/entity"
)

func testConfig(t *testing.T) *common.Config {
	t.Helper()
	return &common.Config{
		Pipeline: common.PipelineConfig{
			ScratchRoot:      t.TempDir(),
			TemplateDir:      t.TempDir(),
			DPI:              300,
			FieldConcurrency: 2,
		},
		OCR: common.OCRConfig{Engine: "cli", Tesseract: "tesseract", Pdftoppm: "pdftoppm", Pdftotext: "pdftotext", Lang: "eng", PSM: 6},
	}
}

func TestBuildWithoutStore(t *testing.T) {
	a, err := Build(context.Background(), testConfig(t), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer a.Close()
	if a.Processor == nil {
		t.Error("processor not wired")
	}
	if a.Store != nil {
		t.Error("store wired without a driver")
	}
}

func TestBuildWithSQLite(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database = common.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}

	a, err := Build(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer a.Close()
	if err := a.Store.SaveOutcome(context.Background(), entity.Failure("x.pdf", "FAILED", "boom")); err != nil {
		t.Errorf("SaveOutcome: %v", err)
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.OCR.Engine = "cloud"
	_, err := Build(context.Background(), cfg, nil)
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}
