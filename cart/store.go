package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"localmart/models"
)

// Store persists cart snapshots as JSON blobs in redis, one per cart key
// (account id, or a device id for anonymous shoppers). Carts are low-value
// per-device state: concurrent writers resolve to last-writer-wins, and a
// blob that fails shape validation degrades to an empty cart rather than an
// error.
type Store struct {
	client  *redis.Client
	baseTTL time.Duration
	sfg     singleflight.Group // Prevents load stampede on one key
}

func NewStore(client *redis.Client) *Store {
	return &Store{
		client:  client,
		baseTTL: 30 * 24 * time.Hour,
	}
}

// Load returns the snapshot stored under key. A missing or corrupt blob
// yields an empty cart; derived fields are always recomputed from the lines
// rather than trusted from the blob.
func (s *Store) Load(ctx context.Context, key string) (models.Cart, error) {
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		data, err := s.client.Get(ctx, cartKey(key)).Bytes()
		if err == redis.Nil {
			return Clear(), nil
		}
		if err != nil {
			return models.Cart{}, fmt.Errorf("redis get failed: %w", err)
		}
		return decode(key, data), nil
	})
	if err != nil {
		return models.Cart{}, err
	}
	return v.(models.Cart), nil
}

// Save persists the snapshot under key, refreshing the TTL.
func (s *Store) Save(ctx context.Context, key string, c models.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(60)) * time.Minute
	if err := s.client.Set(ctx, cartKey(key), data, s.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Delete drops the blob under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, cartKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// decode validates the blob's shape. Any failure (not JSON, items not an
// array, a line missing its quantity or price) coerces the whole cart to
// empty; cart corruption is not worth failing a page load over.
func decode(key string, data []byte) models.Cart {
	var c models.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		log.Printf("cart %s: dropping corrupt blob: %v", key, err)
		return Clear()
	}
	for _, line := range c.Items {
		if line.Quantity < 1 || line.UnitPrice <= 0 || line.ProductID.IsZero() {
			log.Printf("cart %s: dropping blob with malformed line", key)
			return Clear()
		}
	}
	return Recompute(c.Items)
}

func cartKey(key string) string {
	return fmt.Sprintf("cart:%s", key)
}
