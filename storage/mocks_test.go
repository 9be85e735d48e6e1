package storage

import (
	"context"
	"errors"
	"reflect"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mockCollection is a function-field test double for Collection.
type mockCollection struct {
	insertOneFn func(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	findOneFn   func(ctx context.Context, filter interface{}) SingleResult
	findFn      func(ctx context.Context, filter interface{}) (Cursor, error)
	updateOneFn func(ctx context.Context, filter, update interface{}) (*mongo.UpdateResult, error)
	deleteOneFn func(ctx context.Context, filter interface{}) (*mongo.DeleteResult, error)

	insertCalls int
	findCalls   int
}

func (m *mockCollection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	m.insertCalls++
	return m.insertOneFn(ctx, document)
}

func (m *mockCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) SingleResult {
	return m.findOneFn(ctx, filter)
}

func (m *mockCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error) {
	m.findCalls++
	return m.findFn(ctx, filter)
}

func (m *mockCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return m.updateOneFn(ctx, filter, update)
}

func (m *mockCollection) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return m.deleteOneFn(ctx, filter)
}

// fakeCursor replays a fixed document sequence.
type fakeCursor struct {
	docs []interface{}
	idx  int
}

func (c *fakeCursor) Next(ctx context.Context) bool {
	if c.idx < len(c.docs) {
		c.idx++
		return true
	}
	return false
}

func (c *fakeCursor) Decode(v interface{}) error {
	reflect.ValueOf(v).Elem().Set(reflect.ValueOf(c.docs[c.idx-1]))
	return nil
}

func (c *fakeCursor) All(ctx context.Context, results interface{}) error {
	return errors.New("not implemented")
}

func (c *fakeCursor) Err() error { return nil }

func (c *fakeCursor) Close(ctx context.Context) error { return nil }

// fakeSingleResult returns one document or an error.
type fakeSingleResult struct {
	doc interface{}
	err error
}

func (r *fakeSingleResult) Decode(v interface{}) error {
	if r.err != nil {
		return r.err
	}
	reflect.ValueOf(v).Elem().Set(reflect.ValueOf(r.doc))
	return nil
}
