package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/waterbills/internal/common"
	"github.com/joseph-ayodele/waterbills/internal/entity"
)

const banner = "Water Bill Extractor API running."

// DocumentProcessor runs the extraction pipeline for one file on disk.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, path string) (entity.Outcome, error)
}

// OutcomeSaver persists outcomes produced by uploads.
type OutcomeSaver interface {
	SaveOutcome(ctx context.Context, out entity.Outcome) error
}

// Exporter renders stored outcomes as a workbook.
type Exporter interface {
	ExportXLSX(ctx context.Context, limit int) ([]byte, error)
}

type Server struct {
	cfg      common.ServerConfig
	proc     DocumentProcessor
	saver    OutcomeSaver
	exporter Exporter
	logger   *slog.Logger
}

type Option func(*Server)

func WithSaver(s OutcomeSaver) Option { return func(srv *Server) { srv.saver = s } }

func WithExporter(e Exporter) Option { return func(srv *Server) { srv.exporter = e } }

func New(cfg common.ServerConfig, proc DocumentProcessor, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{cfg: cfg, proc: proc, logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Router builds the gin engine. The upload directory is created here so the
// handlers can assume it exists.
func (s *Server) Router() (*gin.Engine, error) {
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return nil, common.WrapError(err, "create upload dir")
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger), allowCORS())
	if s.cfg.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = s.cfg.MaxUploadBytes
	}

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, banner) })
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "status": "running"})
	})
	r.POST("/extract", s.extract)
	if s.exporter != nil {
		r.GET("/export.xlsx", s.exportXLSX)
	}
	return r, nil
}
