package main

import (
	"context"
	"errors"
	"fmt"
	stdimage "image"
	"io"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/image-filter/internal/api/handlers/image"
	"github.com/aliskhannn/image-filter/internal/api/router"
	"github.com/aliskhannn/image-filter/internal/api/server"
	"github.com/aliskhannn/image-filter/internal/config"
	"github.com/aliskhannn/image-filter/internal/detector"
	"github.com/aliskhannn/image-filter/internal/infra/kafka/consumer"
	"github.com/aliskhannn/image-filter/internal/infra/kafka/producer"
	sweepmsg "github.com/aliskhannn/image-filter/internal/kafka/handlers/sweep"
	"github.com/aliskhannn/image-filter/internal/processor"
	imagesvc "github.com/aliskhannn/image-filter/internal/service/image"
	"github.com/aliskhannn/image-filter/internal/storage"
	"github.com/aliskhannn/image-filter/internal/storage/file"
	"github.com/aliskhannn/image-filter/internal/storage/minio"
	"github.com/aliskhannn/image-filter/internal/sweeper"
)

// imageStore is everything the application needs from a storage backend.
type imageStore interface {
	Load(ctx context.Context, taskID, imageID string) (stdimage.Image, error)
	Open(ctx context.Context, taskID, imageID string) (io.ReadCloser, error)
	Store(ctx context.Context, taskID string, img stdimage.Image) (string, error)
	Tasks(ctx context.Context) ([]storage.TaskInfo, error)
	RemoveTask(ctx context.Context, taskID string) error
}

// newStore creates the storage backend selected by cfg.Driver.
func newStore(ctx context.Context, cfg config.Storage) (imageStore, error) {
	switch cfg.Driver {
	case "local", "":
		return file.NewStorage(cfg.BaseDir, cfg.JPEGQuality), nil
	case "minio":
		return minio.NewStorage(ctx, cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.BucketName, cfg.UseSSL, cfg.JPEGQuality)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func main() {
	// Context & signals: used for graceful shutdown on system interrupts.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize logger and load application configuration.
	zlog.Init()
	cfg := config.MustLoad("./config/config.yml")

	// Retry strategy for Kafka calls.
	strategy := retry.Strategy{
		Attempts: cfg.Retry.Attempts,
		Delay:    cfg.Retry.Delay,
		Backoff:  cfg.Retry.Backoff,
	}

	store, err := newStore(ctx, cfg.Storage)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	zlog.Logger.Info().Str("driver", cfg.Storage.Driver).Msg("storage ready")

	// Detectors are loaded once and shared by all requests.
	faces, err := detector.NewCascadeDetector(cfg.Detectors.FaceCascadePath)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to load face detector")
	}
	defer faces.Close()
	texts := detector.NewTesseractDetector(cfg.Detectors.TesseractLang, cfg.Detectors.TesseractMinConf)

	imageProcessor := processor.New(store, faces, texts)
	gc := sweeper.New(store, cfg.Sweeper.Retention)

	var wg sync.WaitGroup

	// Sweep requests go through Kafka when it is enabled and run in-process
	// otherwise.
	var (
		p       *producer.Producer
		c       *consumer.Consumer
		service *imagesvc.Service
	)
	if cfg.Kafka.Enabled {
		p = producer.New(&cfg.Kafka, strategy)
		c = consumer.New(&cfg.Kafka, strategy, sweepmsg.NewHandler(gc))
		service = imagesvc.NewService(store, imageProcessor, p, gc)

		wg.Add(1)
		go c.Consume(ctx, &wg)
	} else {
		service = imagesvc.NewService(store, imageProcessor, nil, gc)
	}

	if cfg.Sweeper.Enabled {
		wg.Add(1)
		go gc.Run(ctx, cfg.Sweeper.Interval, &wg)
	}

	// Start HTTP server in a separate goroutine.
	imgHandler := image.NewHandler(service, cfg.Upload.MaxBytes)
	r := router.Setup(imgHandler)
	s := server.New(cfg.Server, r)
	go func() {
		zlog.Logger.Info().Str("addr", cfg.Server.HTTPPort).Msg("starting server")
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Block until context is canceled (SIGINT/SIGTERM).
	<-ctx.Done()
	zlog.Logger.Info().Msg("context done")

	// Graceful shutdown with timeout for HTTP server.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	zlog.Logger.Info().Msg("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}
	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		zlog.Logger.Info().Msg("timeout exceeded, forcing shutdown")
	}

	// Wait for the consumer and the sweeper to finish.
	wg.Wait()

	// Close Kafka producer and consumer clients.
	if p != nil {
		if err := p.Client.Close(); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to close kafka producer client")
		}
	}
	if c != nil {
		if err := c.Client.Close(); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to close kafka consumer client")
		}
	}
}
