// Package core defines the shared catalog data model.
package core

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is an immutable named grouping of products. Owned by the
// category collection; never updated or deleted once created.
type Category struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
}

// Product is a catalog entry holding a weak reference set of category ids.
// Referenced categories are format-validated at write time but never
// existence-checked (no foreign key at the store layer).
type Product struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	Name        string               `bson:"name" json:"name"`
	About       string               `bson:"about" json:"about"`
	Price       float64              `bson:"price" json:"price"`
	CategoryIDs []primitive.ObjectID `bson:"categoryIds" json:"categoryIds"`
}

// ProductDraft carries the mutable fields of a product for insert and
// full-replacement updates. Identifiers are assigned by the store.
type ProductDraft struct {
	Name        string
	About       string
	Price       float64
	CategoryIDs []primitive.ObjectID
}

// JoinedProduct is a read-only projection of a product with its category
// references resolved to full records. Category ids that do not resolve are
// absent from Categories; the product itself is always present.
type JoinedProduct struct {
	Product    `bson:",inline"`
	Categories []Category `bson:"categories" json:"categories"`
}

// ChangeAction identifies the kind of catalog mutation a ChangeEvent carries.
type ChangeAction string

const (
	ActionCreated ChangeAction = "created"
	ActionUpdated ChangeAction = "updated"
	ActionDeleted ChangeAction = "deleted"
)

// ChangeEvent is the ephemeral payload broadcast to subscribers after a
// product mutation has been committed. Creates carry the full product;
// updates and deletes carry the external id only.
type ChangeEvent struct {
	Action  ChangeAction `json:"action"`
	Product *Product     `json:"product,omitempty"`
	ID      string       `json:"id,omitempty"`
}
