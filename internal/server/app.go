// Package server initializes and runs the media storage server. It wires
// the configuration, record stores, blob backend, vault, and HTTP endpoint
// together and handles graceful shutdown.
package server

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/streamsforlab/mediastore/internal/blob"
	"github.com/streamsforlab/mediastore/internal/cryptox"
	"github.com/streamsforlab/mediastore/internal/logging"
	"github.com/streamsforlab/mediastore/internal/server/config"
	"github.com/streamsforlab/mediastore/internal/server/httpapi"
	"github.com/streamsforlab/mediastore/internal/server/models"
	"github.com/streamsforlab/mediastore/internal/server/paths"
	"github.com/streamsforlab/mediastore/internal/server/repositories/repomanager"
	"github.com/streamsforlab/mediastore/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	storage *services.StorageService
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	masterKey, err := hex.DecodeString(c.MasterKeyHex)
	if err != nil {
		return nil, fmt.Errorf("master key is not valid hex: %w", err)
	}
	if len(masterKey) != 32 {
		return nil, fmt.Errorf("master key must be 32 bytes, got %d", len(masterKey))
	}

	rm, err := repomanager.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store, err := newBlobStore(c)
	if err != nil {
		return nil, fmt.Errorf("blob backend init error: %w", err)
	}

	vault, err := cryptox.NewVault(masterKey, store)
	if err != nil {
		return nil, fmt.Errorf("vault init error: %w", err)
	}

	ss := services.NewStorageService(
		rm,
		vault,
		store,
		paths.NewResolver(c.StorageRoot),
		models.QuotaConfig{Max: c.MaxStorageBytes},
		c.EnforceQuota,
		logger,
	)

	return &App{config: c, logger: logger, storage: ss}, nil
}

func newBlobStore(c *config.Config) (blob.Store, error) {
	switch c.BlobBackend {
	case "s3":
		return blob.NewS3Store(context.Background(), blob.S3Config{
			RootUser:     c.S3RootUser,
			RootPassword: c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
	case "local", "":
		return blob.NewLocalStore(), nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", c.BlobBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewHTTPServer(app.config.EndpointAddr, app.logger, app.storage, app.config.SecretKey)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	} else {

		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

}
