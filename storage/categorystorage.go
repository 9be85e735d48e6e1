package storage

import (
	"context"
	"fmt"
	"time"

	"catalog/core"
	"catalog/metrics"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CategoryStorage persists category records in the "categories" collection.
// Categories are immutable once created, so resolved records are kept in an
// LRU cache that never needs invalidation.
type CategoryStorage struct {
	coll    Collection
	cache   *lru.Cache[primitive.ObjectID, core.Category]
	timeout time.Duration
	logger  *zap.SugaredLogger
}

// NewCategoryStorage creates a new category storage handler
func NewCategoryStorage(db *MongoDB, cacheSize int, timeout time.Duration, logger *zap.SugaredLogger) (*CategoryStorage, error) {
	cache, err := lru.New[primitive.ObjectID, core.Category](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create category cache: %w", err)
	}
	return &CategoryStorage{
		coll:    &mongoCollection{Collection: db.Database.Collection("categories")},
		cache:   cache,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// CreateCategory inserts a new category with a fresh identifier. Existing
// records are never overwritten.
func (s *CategoryStorage) CreateCategory(ctx context.Context, name string) (*core.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cat := core.Category{ID: primitive.NewObjectID(), Name: name}
	if _, err := s.coll.InsertOne(ctx, cat); err != nil {
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}
	s.cache.Add(cat.ID, cat)

	s.logger.Debugw("Category created", "id", cat.ID.Hex(), "name", cat.Name)
	return &cat, nil
}

// GetCategories returns the subset of the requested categories that exist, in
// unspecified order. Unknown ids yield fewer results, never an error.
func (s *CategoryStorage) GetCategories(ctx context.Context, ids []primitive.ObjectID) ([]core.Category, error) {
	found := make([]core.Category, 0, len(ids))
	missing := make([]primitive.ObjectID, 0)
	seen := make(map[primitive.ObjectID]bool, len(ids))

	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if cat, ok := s.cache.Get(id); ok {
			metrics.CategoryCacheHits.Inc()
			found = append(found, cat)
			continue
		}
		metrics.CategoryCacheMisses.Inc()
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return found, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": missing}})
	if err != nil {
		return nil, fmt.Errorf("failed to find categories: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var cat core.Category
		if err := cursor.Decode(&cat); err != nil {
			return nil, fmt.Errorf("failed to decode category: %w", err)
		}
		s.cache.Add(cat.ID, cat)
		found = append(found, cat)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return found, nil
}
