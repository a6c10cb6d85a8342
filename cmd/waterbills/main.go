package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joseph-ayodele/waterbills/internal/app"
	"github.com/joseph-ayodele/waterbills/internal/common"
	"github.com/joseph-ayodele/waterbills/internal/export"
	"github.com/joseph-ayodele/waterbills/internal/ingest"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory to scan for bills (recursive)")
		out     = flag.String("out", "", "write JSON results to this file instead of stdout")
		xlsx    = flag.String("xlsx", "", "also export extracted records to this XLSX file")
		inmem   = flag.Bool("inmem", false, "persist outcomes to an in-memory SQLite database")
		keep    = flag.Bool("keep-scratch", false, "keep rasters and crops after each document")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Usage = func() {
		printError("usage: waterbills [flags] [file ...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	paths := flag.Args()
	if *dir == "" && len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	// logs go to stderr so stdout stays valid JSON
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := common.LoadConfig()
	if *keep {
		cfg.Pipeline.KeepScratch = true
	}
	if *inmem {
		cfg.Database.Driver = "sqlite"
		cfg.Database.DSN = ":memory:"
	}

	if *dir != "" {
		found, stats, err := ingest.ScanDirectory(*dir, true)
		if err != nil {
			logger.Error("failed to scan directory", "dir", *dir, "error", err)
			os.Exit(1)
		}
		logger.Info("scan complete", "dir", *dir, "scanned", stats.Scanned, "matched", stats.Matched, "failed", stats.Failed)
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		logger.Warn("no bill files found")
	}

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	batch := a.Processor.ProcessBatch(ctx, paths)

	if a.Store != nil {
		for _, o := range batch.Results {
			if err := a.Store.SaveOutcome(ctx, o); err != nil {
				logger.Error("failed to save outcome", "file", o.FileName, "error", err)
			}
		}
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Error("failed to create output file", "path", *out, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	// a single document prints its record directly
	var payload any = batch
	if len(batch.Results) == 1 {
		payload = batch.Results[0]
	}
	if err := enc.Encode(payload); err != nil {
		logger.Error("failed to write results", "error", err)
		os.Exit(1)
	}

	if *xlsx != "" {
		data, err := export.WriteXLSX(batch.Results)
		if err != nil {
			logger.Error("failed to build workbook", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsx, data, 0o644); err != nil {
			logger.Error("failed to write workbook", "path", *xlsx, "error", err)
			os.Exit(1)
		}
		logger.Info("export.xlsx.ok", "path", *xlsx, "bytes", len(data))
	}

	logger.Info("batch processing complete",
		"total", batch.Total,
		"succeeded", batch.Succeeded(),
		"failed", batch.Total-batch.Succeeded())
}
