package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/klauspost/compress/flate"
	"go.uber.org/zap"

	"github.com/Vovarama1992/image_converter/internal/codec"
	"github.com/Vovarama1992/image_converter/internal/config"
	"github.com/Vovarama1992/image_converter/internal/convert"
	"github.com/Vovarama1992/image_converter/internal/delivery"
	"github.com/Vovarama1992/image_converter/internal/error_notificator"
	"github.com/Vovarama1992/image_converter/internal/ocr"
	"github.com/Vovarama1992/image_converter/internal/ocr/tesseract"
	"github.com/Vovarama1992/image_converter/internal/storage"
)

const serviceName = "image_converter"

func main() {

	// =========================================================================
	// ENV / LOGGER
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	// =========================================================================
	// INFRASTRUCTURE
	// =========================================================================

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := newStore(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("failed to init temp store: %v", err)
	}

	var ocrEngine ocr.Engine
	switch cfg.OCREngine {
	case "openai":
		ocrEngine = ocr.NewOpenAIEngine(cfg.OpenAIKey, cfg.OpenAIModel)
	default:
		ocrEngine = tesseract.NewEngine(cfg.OCRLanguages...)
	}

	// =========================================================================
	// ERROR NOTIFICATION
	// =========================================================================

	var errInfra error_notificator.Notificator = error_notificator.LogInfra{}
	if cfg.AlertToken != "" && cfg.AlertChatID != 0 {
		tg, err := error_notificator.NewTelegramInfra(cfg.AlertToken, cfg.AlertChatID, serviceName)
		if err != nil {
			log.Printf("[error_notificator] telegram disabled: %v", err)
		} else {
			errInfra = tg
		}
	}
	errService := error_notificator.NewService(errInfra)

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	pipeline := convert.NewPipeline(codec.NewImageCodec(cfg.JPEGQuality), flate.BestCompression, zl)
	ocrService := ocr.NewService(ocrEngine, zl)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	}))

	convertHandler := delivery.NewConvertHandler(
		pipeline,
		ocrService,
		store,
		errService,
		delivery.Options{
			MaxUploadSize:  cfg.MaxUploadSize,
			RequestTimeout: cfg.RequestTimeout,
		},
		zl,
	)
	delivery.RegisterRoutes(r, convertHandler, cfg.RateLimit)

	// =========================================================================
	// START SERVER
	// =========================================================================

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		zl.Log(logger.LogEntry{Level: "info", Message: "shutting down", Service: serviceName})

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown error: %v", err)
		}
	}()

	zl.Log(logger.LogEntry{
		Level: "info",
		Message: "listening at " + server.Addr +
			" (store=" + cfg.TempStore + ", ocr=" + ocrEngine.Name() +
			", max upload " + humanize.Bytes(uint64(cfg.MaxUploadSize)) + ")",
		Service: serviceName,
	})

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
	<-shutdownDone
}

func newStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.TempStore == "s3" {
		return storage.NewS3Store(ctx, storage.S3Options{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
		})
	}
	return storage.NewDiskStore(cfg.TempDir)
}
