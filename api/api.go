package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"catalog/config"
	"catalog/core"
	"catalog/service"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// CatalogService is the catalog core as consumed by the HTTP layer.
type CatalogService interface {
	CreateCategory(ctx context.Context, req service.CreateCategoryRequest) (*core.Category, error)
	CreateProduct(ctx context.Context, req service.ProductRequest) (*core.Product, error)
	GetProduct(ctx context.Context, rawID string) (*core.Product, error)
	ListProducts(ctx context.Context) ([]core.JoinedProduct, error)
	UpdateProduct(ctx context.Context, rawID string, req service.ProductRequest) error
	DeleteProduct(ctx context.Context, rawID string) error
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// API holds the API server
type API struct {
	router  *mux.Router
	server  *http.Server
	catalog CatalogService
	hub     *Hub
	db      HealthChecker
	config  *config.Config
	logger  *zap.SugaredLogger

	rateLimiters   map[string]*rateLimiterEntry
	rateLimitersMu sync.Mutex
	stopCh         chan struct{}
}

// NewAPI creates a new API server
func NewAPI(catalog CatalogService, hub *Hub, db HealthChecker, cfg *config.Config, logger *zap.SugaredLogger) *API {
	api := &API{
		router:       mux.NewRouter(),
		catalog:      catalog,
		hub:          hub,
		db:           db,
		config:       cfg,
		logger:       logger,
		rateLimiters: make(map[string]*rateLimiterEntry),
		stopCh:       make(chan struct{}),
	}
	api.setupRoutes()
	go api.cleanupRateLimiters()
	return api
}

// setupRoutes sets up the API routes
func (a *API) setupRoutes() {
	a.router.Use(a.requestIDMiddleware)
	a.router.Use(a.corsMiddleware)
	a.router.Use(a.rateLimitMiddleware)

	a.router.HandleFunc("/categories", a.createCategory).Methods("POST")
	a.router.HandleFunc("/products", a.createProduct).Methods("POST")
	a.router.HandleFunc("/products", a.getProducts).Methods("GET")
	a.router.HandleFunc("/products/{id}", a.getProduct).Methods("GET")
	a.router.HandleFunc("/products/{id}", a.updateProduct).Methods("PUT")
	a.router.HandleFunc("/products/{id}", a.deleteProduct).Methods("DELETE")

	a.router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(a.hub, a.logger, w, r)
	}).Methods("GET")

	a.router.HandleFunc("/health", a.healthCheck).Methods("GET")
	a.router.Handle("/metrics", promhttp.Handler())

	// Static assets, registered last so API routes take precedence
	if a.config.API.PublicDir != "" {
		a.router.PathPrefix("/").Handler(http.FileServer(http.Dir(a.config.API.PublicDir)))
	}
}

// Start starts the API server
func (a *API) Start() error {
	a.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", a.config.API.Port),
		Handler: a.router,
	}
	return a.server.ListenAndServe()
}

// Stop stops the API server
func (a *API) Stop(ctx context.Context) error {
	close(a.stopCh)
	if a.server != nil {
		return a.server.Shutdown(ctx)
	}
	return nil
}
