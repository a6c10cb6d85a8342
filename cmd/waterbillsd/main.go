package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/waterbills/internal/app"
	"github.com/joseph-ayodele/waterbills/internal/async"
	"github.com/joseph-ayodele/waterbills/internal/common"
	"github.com/joseph-ayodele/waterbills/internal/entity"
	"github.com/joseph-ayodele/waterbills/internal/export"
	"github.com/joseph-ayodele/waterbills/internal/ingest"
	"github.com/joseph-ayodele/waterbills/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := common.LoadConfig()
	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	var opts []server.Option
	if a.Store != nil {
		opts = append(opts, server.WithSaver(a.Store), server.WithExporter(export.NewService(a.Store, logger)))
	}
	router, err := server.New(cfg.Server, a.Processor, logger, opts...).Router()
	if err != nil {
		logger.Error("failed to build router", "error", err)
		os.Exit(1)
	}
	httpSrv := &http.Server{
		Addr:              listenAddr(cfg.Server.HTTPAddr),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("http serving", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	var grpcServer *grpc.Server
	if cfg.Server.GRPCAddr != "" {
		grpcServer = grpc.NewServer()
		hs := health.NewServer()
		healthpb.RegisterHealthServer(grpcServer, hs)
		hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		reflection.Register(grpcServer)

		lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCAddr))
		if err != nil {
			logger.Error("grpc listen failed", "addr", cfg.Server.GRPCAddr, "error", err)
			os.Exit(1)
		}
		go func() {
			logger.Info("grpc health serving", "addr", lis.Addr().String())
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("grpc serve failed", "error", err)
			}
		}()
	}

	var queue *async.ProcessorQueue
	if len(cfg.Watch.Dirs) > 0 {
		queue = startWatch(ctx, cfg.Watch, a, logger)
	}

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if queue != nil {
		queue.Shutdown(shutdownCtx)
	}
	logger.Info("stopped")
}

// startWatch feeds new bills from the watched directories into a worker
// queue. Identical content is processed once unless its run failed.
func startWatch(ctx context.Context, cfg common.WatchConfig, a *app.App, logger *slog.Logger) *async.ProcessorQueue {
	dedup := ingest.NewDeduper()
	opts := []async.Option{
		async.WithWorkers(cfg.Workers),
		async.WithProcessTimeout(cfg.JobTimeout),
		async.WithOnDone(func(j async.Job, out entity.Outcome) {
			if !out.OK {
				dedup.Forget(j.Hash)
			}
		}),
	}
	if a.Store != nil {
		opts = append(opts, async.WithSaver(a.Store))
	}
	queue := async.NewProcessorQueue(a.Processor, logger, opts...)

	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       cfg.Dirs,
		InitialScan: true,
		Debounce:    cfg.Debounce,
		SkipHidden:  true,
	}, logger)
	if err != nil {
		logger.Error("watcher disabled", "error", err)
		return queue
	}

	go func() {
		for {
			select {
			case p, ok := <-events:
				if !ok {
					return
				}
				hash, first, dup, err := dedup.Check(p)
				if err != nil {
					logger.Warn("hash failed", "path", p, "error", err)
					continue
				}
				if dup {
					logger.Info("skipping duplicate bill", "path", p, "first", first)
					continue
				}
				job := async.NewJob(p)
				job.Hash = hash
				if err := queue.Enqueue(ctx, job); err != nil {
					logger.Warn("enqueue failed", "path", p, "error", err)
					dedup.Forget(hash)
				}
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				logger.Warn("watch error", "error", err)
			}
		}
	}()
	return queue
}

// listenAddr accepts "3000" as shorthand for ":3000".
func listenAddr(addr string) string {
	if addr != "" && !strings.Contains(addr, ":") {
		return ":" + addr
	}
	return addr
}
