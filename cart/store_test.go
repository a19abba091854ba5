package cart

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client), mr
}

func TestStoreRoundTrip(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	c := AddItem(Clear(), line(primitive.NewObjectID(), primitive.NewObjectID(), "S1", 12.5))
	c = AddItem(c, line(primitive.NewObjectID(), primitive.NewObjectID(), "S2", 3))

	require.NoError(t, store.Save(ctx, "device-1", c))

	loaded, err := store.Load(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, c.Items, loaded.Items)
	assert.Equal(t, c.ItemCount, loaded.ItemCount)
	assert.Equal(t, c.Total, loaded.Total)
}

func TestStoreMissingKeyYieldsEmptyCart(t *testing.T) {
	store, _ := setupTestStore(t)

	c, err := store.Load(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.ItemCount)
}

func TestStoreCorruptBlobYieldsEmptyCart(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	cases := map[string]string{
		"not json":          `{{{`,
		"items not a list":  `{"items": 42}`,
		"line missing qty":  `{"items": [{"product_id": "aaaaaaaaaaaaaaaaaaaaaaaa", "unit_price": 5}]}`,
		"line zero price":   `{"items": [{"product_id": "aaaaaaaaaaaaaaaaaaaaaaaa", "quantity": 2}]}`,
		"line zero product": `{"items": [{"quantity": 2, "unit_price": 5}]}`,
	}

	for name, blob := range cases {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, mr.Set("cart:dev", blob))

			c, err := store.Load(ctx, "dev")
			require.NoError(t, err)
			assert.Empty(t, c.Items)
			assert.Equal(t, 0, c.ItemCount)
			assert.Equal(t, 0.0, c.Total)
		})
	}
}

func TestStoreRecomputesDerivedFields(t *testing.T) {
	store, mr := setupTestStore(t)

	productID := primitive.NewObjectID()
	shopID := primitive.NewObjectID()
	blob, err := json.Marshal(map[string]any{
		"items": []map[string]any{{
			"product_id": productID.Hex(),
			"shop_id":    shopID.Hex(),
			"shop_name":  "S1",
			"unit_price": 10.0,
			"quantity":   2,
		}},
		// Stale derived fields must not be trusted.
		"item_count": 99,
		"total":      9999.0,
	})
	require.NoError(t, err)
	require.NoError(t, mr.Set("cart:dev", string(blob)))

	c, err := store.Load(context.Background(), "dev")
	require.NoError(t, err)
	assert.Equal(t, 2, c.ItemCount)
	assert.Equal(t, 20.0, c.Total)
}

func TestStoreDelete(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	c := AddItem(Clear(), line(primitive.NewObjectID(), primitive.NewObjectID(), "S1", 5))
	require.NoError(t, store.Save(ctx, "dev", c))
	require.NoError(t, store.Delete(ctx, "dev"))

	loaded, err := store.Load(ctx, "dev")
	require.NoError(t, err)
	assert.Empty(t, loaded.Items)
}
