package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
)

// Recognizer turns an image file into text.
// Implementations must be safe for concurrent use.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// Config configures the tesseract command-line recognizer.
type Config struct {
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	Lang        string // default "eng"
	PSM         int    // 6 = assume a uniform block of text
	TessdataDir string
}

// TesseractCLI shells out to the tesseract binary once per image. Every call
// is an independent process, so concurrent use is safe.
type TesseractCLI struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewTesseractCLI(cfg Config, runner Runner, logger *slog.Logger) *TesseractCLI {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	return &TesseractCLI{cfg: cfg, runner: runner, logger: logger}
}

func (t *TesseractCLI) Recognize(ctx context.Context, imagePath string) (string, error) {
	// tesseract <file> stdout -l <lang> [--psm N]
	args := []string{imagePath, "stdout", "-l", t.cfg.Lang}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.cfg.PSM))
	}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	out, errb, err := t.runner.Run(ctx, t.cfg.Tesseract, t.logger, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, clip(string(errb), 512))
	}
	return Normalize(string(out)), nil
}
