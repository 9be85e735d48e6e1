package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDecodeID_RoundTrip(t *testing.T) {
	id := primitive.NewObjectID()

	decoded, err := DecodeID(EncodeID(id))

	require.NoError(t, err)
	assert.Equal(t, id, decoded)
}

func TestDecodeID_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"not-an-id",
		"123",
		"zzzzzzzzzzzzzzzzzzzzzzzz",    // right length, not hex
		"64b0c8a1f1d2e3a4b5c6d7e8ff",  // too long
		"64b0c8a1f1d2e3a4b5c6d7",      // too short
		"64b0c8a1-f1d2-e3a4-b5c6d7e8", // separators
	} {
		_, err := DecodeID(raw)

		assert.ErrorIs(t, err, ErrInvalidID, "input %q", raw)
	}
}

func TestDecodeIDs_PreservesOrder(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()
	third := primitive.NewObjectID()

	ids, err := DecodeIDs([]string{first.Hex(), second.Hex(), third.Hex()})

	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{first, second, third}, ids)
}

func TestDecodeIDs_AllOrNothing(t *testing.T) {
	valid := primitive.NewObjectID()

	ids, err := DecodeIDs([]string{valid.Hex(), "bogus"})

	assert.ErrorIs(t, err, ErrInvalidID)
	assert.Nil(t, ids)
}

func TestDecodeIDs_Empty(t *testing.T) {
	ids, err := DecodeIDs([]string{})

	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}
