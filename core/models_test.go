package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProductJSONShape(t *testing.T) {
	catID := primitive.NewObjectID()
	p := Product{
		ID:          primitive.NewObjectID(),
		Name:        "Hammer",
		About:       "Steel",
		Price:       9.99,
		CategoryIDs: []primitive.ObjectID{catID},
	}

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, p.ID.Hex(), got["id"], "identifiers serialize as hex strings")
	assert.Equal(t, []interface{}{catID.Hex()}, got["categoryIds"])
	assert.NotContains(t, got, "_id")
}

func TestChangeEventJSONShape(t *testing.T) {
	t.Run("created carries the full product", func(t *testing.T) {
		p := &Product{ID: primitive.NewObjectID(), Name: "Hammer", About: "Steel", Price: 9.99, CategoryIDs: []primitive.ObjectID{}}
		raw, err := json.Marshal(ChangeEvent{Action: ActionCreated, Product: p})
		require.NoError(t, err)

		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "created", got["action"])
		assert.Contains(t, got, "product")
		assert.NotContains(t, got, "id", "the id field is omitted when the product is present")
	})

	t.Run("deleted carries only the id", func(t *testing.T) {
		id := primitive.NewObjectID().Hex()
		raw, err := json.Marshal(ChangeEvent{Action: ActionDeleted, ID: id})
		require.NoError(t, err)

		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "deleted", got["action"])
		assert.Equal(t, id, got["id"])
		assert.NotContains(t, got, "product")
	})
}
