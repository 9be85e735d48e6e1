package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog/core"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// CategoryResolver resolves category ids to full records for joined reads.
type CategoryResolver interface {
	GetCategories(ctx context.Context, ids []primitive.ObjectID) ([]core.Category, error)
}

// ProductStorage persists product records in the "products" collection.
// Category references are stored verbatim as ObjectIDs; their existence is
// never checked at write time.
type ProductStorage struct {
	coll       Collection
	categories CategoryResolver
	timeout    time.Duration
	logger     *zap.SugaredLogger
}

// NewProductStorage creates a new product storage handler
func NewProductStorage(db *MongoDB, categories CategoryResolver, timeout time.Duration, logger *zap.SugaredLogger) *ProductStorage {
	return &ProductStorage{
		coll:       &mongoCollection{Collection: db.Database.Collection("products")},
		categories: categories,
		timeout:    timeout,
		logger:     logger,
	}
}

// CreateProduct inserts a new product with a fresh identifier.
func (s *ProductStorage) CreateProduct(ctx context.Context, draft core.ProductDraft) (*core.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	categoryIDs := draft.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []primitive.ObjectID{}
	}
	product := core.Product{
		ID:          primitive.NewObjectID(),
		Name:        draft.Name,
		About:       draft.About,
		Price:       draft.Price,
		CategoryIDs: categoryIDs,
	}
	if _, err := s.coll.InsertOne(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	s.logger.Debugw("Product created", "id", product.ID.Hex(), "name", product.Name)
	return &product, nil
}

// GetProduct retrieves a single product by id.
func (s *ProductStorage) GetProduct(ctx context.Context, id primitive.ObjectID) (*core.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var product core.Product
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

// ListJoined returns every product with its category references resolved.
// Ids that resolve to no category are dropped from the projection; the
// product itself is always included.
func (s *ProductStorage) ListJoined(ctx context.Context) ([]core.JoinedProduct, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	joined := make([]core.JoinedProduct, 0)
	for cursor.Next(ctx) {
		var product core.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		categories, err := s.categories.GetCategories(ctx, product.CategoryIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve categories for product %s: %w", product.ID.Hex(), err)
		}
		joined = append(joined, core.JoinedProduct{Product: product, Categories: categories})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return joined, nil
}

// UpdateProduct fully replaces all mutable fields of an existing product.
func (s *ProductStorage) UpdateProduct(ctx context.Context, id primitive.ObjectID, draft core.ProductDraft) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	categoryIDs := draft.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []primitive.ObjectID{}
	}
	update := bson.M{"$set": bson.M{
		"name":        draft.Name,
		"about":       draft.About,
		"price":       draft.Price,
		"categoryIds": categoryIDs,
	}}
	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}

	s.logger.Debugw("Product updated", "id", id.Hex())
	return nil
}

// DeleteProduct removes a product by id.
func (s *ProductStorage) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}

	s.logger.Debugw("Product deleted", "id", id.Hex())
	return nil
}
