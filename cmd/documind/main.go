package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/documind/documind/internal/auth"
	"github.com/documind/documind/internal/common"
	"github.com/documind/documind/internal/document"
	"github.com/documind/documind/internal/export"
	"github.com/documind/documind/internal/lang"
	"github.com/documind/documind/internal/ocr"
	"github.com/documind/documind/internal/pdf"
	"github.com/documind/documind/internal/repository"
	"github.com/documind/documind/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.Storage.UploadsDir, 0o755); err != nil {
		logger.Error("create uploads directory", "dir", cfg.Storage.UploadsDir, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, cfg.Storage.DBPath, logger)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer repository.Close(db, logger)

	keyRepo := repository.NewAPIKeyRepository(db, logger)
	docRepo := repository.NewDocumentRepository(db, logger)

	parser := pdf.StdParser{}
	detector := lang.NewDetector(nil, logger)
	pipeline := document.NewPipeline(
		pdf.NewAnalyzer(parser, logger),
		parser,
		pdf.NewRasterizer(pdf.FitzRenderer{}, logger),
		ocr.NewAggregator(ocr.TesseractEngine{TessdataDir: cfg.OCR.TessdataDir}, detector, logger),
		detector,
		cfg.Storage.UploadsDir,
		logger,
	)

	srv := server.New(
		pipeline,
		auth.NewService(keyRepo, logger),
		docRepo,
		export.NewService(docRepo, logger),
		cfg.Server,
		cfg.Storage,
		logger,
	)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
