// Package bootstrap wires the catalog service together: configuration,
// logging, the MongoDB connection, the websocket hub and the HTTP API, with
// an explicit init/teardown lifecycle.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog/api"
	"catalog/config"
	"catalog/service"
	"catalog/storage"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// shutdownTimeout bounds graceful HTTP server shutdown.
const shutdownTimeout = 10 * time.Second

// App holds every long-lived component of the catalog service. All shared
// state is constructed here and passed down explicitly; nothing is a package
// global.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Sugar  *zap.SugaredLogger

	DB              *storage.MongoDB
	CategoryStorage *storage.CategoryStorage
	ProductStorage  *storage.ProductStorage

	Hub       *api.Hub
	Catalog   *service.CatalogService
	APIServer *api.API

	serverErrCh chan error
}

// InitLogger initializes the zap logger with colored console output.
func InitLogger() (*zap.Logger, *zap.SugaredLogger, error) {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)

	core := zapcore.NewCore(
		consoleEncoder,
		zapcore.AddSync(os.Stdout),
		zapcore.DebugLevel,
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, logger.Sugar(), nil
}

// NewApp creates a new application instance and initializes all components.
func NewApp(ctx context.Context) (*App, error) {
	app := &App{
		serverErrCh: make(chan error, 1),
	}

	logger, sugar, err := InitLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger = logger
	app.Sugar = sugar

	sugar.Info("Catalog service starting...")

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	db, err := storage.NewMongoDB(cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.MongoDB.MaxPoolSize, sugar)
	if err != nil {
		return nil, err
	}
	app.DB = db

	queryTimeout := time.Duration(cfg.MongoDB.QueryTimeout) * time.Second

	categoryStorage, err := storage.NewCategoryStorage(db, cfg.Storage.CategoryCacheSize, queryTimeout, sugar)
	if err != nil {
		return nil, err
	}
	app.CategoryStorage = categoryStorage
	app.ProductStorage = storage.NewProductStorage(db, categoryStorage, queryTimeout, sugar)

	app.Hub = api.NewHub(sugar, ctx)
	app.Catalog = service.NewCatalogService(app.ProductStorage, app.CategoryStorage, app.Hub, sugar)
	app.APIServer = api.NewAPI(app.Catalog, app.Hub, db, cfg, sugar)

	return app, nil
}

// Start runs the hub and the HTTP server.
func (a *App) Start() {
	go a.Hub.Start()

	go func() {
		a.Sugar.Infow("API server listening", "port", a.Config.API.Port)
		if err := a.APIServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.serverErrCh <- err
		}
	}()
}

// WaitForShutdown blocks until a shutdown signal is received or the server
// fails to serve.
func (a *App) WaitForShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	select {
	case <-c:
		a.Sugar.Info("Shutdown signal received")
	case err := <-a.serverErrCh:
		a.Sugar.Errorw("API server failed", "error", err)
	}
}

// Shutdown gracefully tears down all components in reverse start order.
func (a *App) Shutdown() {
	a.Sugar.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.APIServer != nil {
		if err := a.APIServer.Stop(ctx); err != nil {
			a.Sugar.Errorw("API server shutdown failed", "error", err)
		}
	}

	if a.Hub != nil {
		a.Hub.Stop()
	}

	if a.DB != nil {
		if err := a.DB.Close(ctx); err != nil {
			a.Sugar.Errorw("MongoDB disconnect failed", "error", err)
		}
	}

	a.Sugar.Info("Shutdown complete")
	_ = a.Logger.Sync()
}
