// Package service implements the catalog core: validated writes against the
// product and category stores, sequenced with best-effort change broadcasts.
package service

import (
	"context"
	"errors"
	"fmt"

	"catalog/core"
	"catalog/metrics"
	"catalog/storage"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrValidation is returned when a request body fails structural validation.
// Surfaced as 400 at the API boundary, before any store interaction.
var ErrValidation = errors.New("validation failed")

// ProductStorage defines product store operations needed by the service.
// Defined here (consumer package) following Interface Segregation Principle.
type ProductStorage interface {
	CreateProduct(ctx context.Context, draft core.ProductDraft) (*core.Product, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (*core.Product, error)
	ListJoined(ctx context.Context) ([]core.JoinedProduct, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, draft core.ProductDraft) error
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
}

// CategoryStorage defines category store operations needed by the service.
type CategoryStorage interface {
	CreateCategory(ctx context.Context, name string) (*core.Category, error)
}

// Broadcaster delivers change events to all currently connected subscribers.
// Delivery is at-most-once and best-effort: no acknowledgment, no replay of
// missed events. Implementations must not block the caller.
type Broadcaster interface {
	Broadcast(event core.ChangeEvent)
}

// CreateCategoryRequest is the body of POST /categories.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// ProductRequest is the body of POST /products and PUT /products/{id}.
// CategoryIDs must be present (an empty array is valid); each entry must
// decode to a native identifier or the whole write is rejected.
type ProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	About       string   `json:"about" validate:"required"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	CategoryIDs []string `json:"categoryIds" validate:"required"`
}

// CatalogService orchestrates catalog mutations. Each mutating call runs the
// same linear pipeline: validate shape, decode references, apply to store,
// then hand exactly one change event to the notification bus. The event is
// enqueued only after the store write has succeeded, never on failure.
type CatalogService struct {
	products   ProductStorage
	categories CategoryStorage
	bus        Broadcaster
	validate   *validator.Validate
	logger     *zap.SugaredLogger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(products ProductStorage, categories CategoryStorage, bus Broadcaster, logger *zap.SugaredLogger) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		bus:        bus,
		validate:   validator.New(),
		logger:     logger,
	}
}

// CreateCategory validates and stores a new category. Category mutations are
// intentionally not broadcast; only product changes go out on the bus.
func (s *CatalogService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*core.Category, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.categories.CreateCategory(ctx, req.Name)
}

// CreateProduct validates the request, decodes its category references and
// inserts the product. On success the full product is broadcast as a
// "created" event.
func (s *CatalogService) CreateProduct(ctx context.Context, req ProductRequest) (*core.Product, error) {
	draft, err := s.parseProductRequest(req)
	if err != nil {
		return nil, err
	}

	product, err := s.products.CreateProduct(ctx, *draft)
	if err != nil {
		return nil, err
	}

	s.notify(core.ChangeEvent{Action: core.ActionCreated, Product: product})
	return product, nil
}

// GetProduct decodes the external id and retrieves the product.
func (s *CatalogService) GetProduct(ctx context.Context, rawID string) (*core.Product, error) {
	id, err := storage.DecodeID(rawID)
	if err != nil {
		return nil, err
	}
	return s.products.GetProduct(ctx, id)
}

// ListProducts returns every product with its categories resolved.
func (s *CatalogService) ListProducts(ctx context.Context) ([]core.JoinedProduct, error) {
	return s.products.ListJoined(ctx)
}

// UpdateProduct fully replaces an existing product. On success the external
// id is broadcast as an "updated" event.
func (s *CatalogService) UpdateProduct(ctx context.Context, rawID string, req ProductRequest) error {
	id, err := storage.DecodeID(rawID)
	if err != nil {
		return err
	}
	draft, err := s.parseProductRequest(req)
	if err != nil {
		return err
	}

	if err := s.products.UpdateProduct(ctx, id, *draft); err != nil {
		return err
	}

	s.notify(core.ChangeEvent{Action: core.ActionUpdated, ID: rawID})
	return nil
}

// DeleteProduct removes a product. On success the external id is broadcast
// as a "deleted" event.
func (s *CatalogService) DeleteProduct(ctx context.Context, rawID string) error {
	id, err := storage.DecodeID(rawID)
	if err != nil {
		return err
	}

	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.notify(core.ChangeEvent{Action: core.ActionDeleted, ID: rawID})
	return nil
}

// parseProductRequest runs structural validation and reference decoding.
// Both stages reject the whole request before any store interaction.
func (s *CatalogService) parseProductRequest(req ProductRequest) (*core.ProductDraft, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	categoryIDs, err := storage.DecodeIDs(req.CategoryIDs)
	if err != nil {
		return nil, err
	}
	return &core.ProductDraft{
		Name:        req.Name,
		About:       req.About,
		Price:       req.Price,
		CategoryIDs: categoryIDs,
	}, nil
}

// notify hands one event to the bus. The store write has already committed
// at this point; delivery itself is fire-and-forget.
func (s *CatalogService) notify(event core.ChangeEvent) {
	s.bus.Broadcast(event)
	metrics.ProductMutations.WithLabelValues(string(event.Action)).Inc()
	metrics.EventsBroadcast.Inc()

	if event.Product != nil {
		s.logger.Debugw("Change event broadcast", "action", event.Action, "id", event.Product.ID.Hex())
	} else {
		s.logger.Debugw("Change event broadcast", "action", event.Action, "id", event.ID)
	}
}
