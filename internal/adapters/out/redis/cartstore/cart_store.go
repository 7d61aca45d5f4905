// Package cartstore keeps shopping carts in Redis, one hash per user keyed
// by line key.
package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"takeout/internal/core/domain/model/customer"
	"takeout/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "cart:"

	// carts nobody touched for this long are dropped by Redis
	DefaultTTL = 7 * 24 * time.Hour

	maxWatchRetries = 5
)

var ErrCartContended = errors.New("cart was modified concurrently")

type lineJSON struct {
	ItemID     string `json:"itemId"`
	Name       string `json:"name"`
	Flavor     string `json:"flavor,omitempty"`
	Quantity   int    `json:"quantity"`
	UnitAmount string `json:"unitAmount"`
}

type RedisCartStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisCartStore(client redis.UniversalClient, ttl time.Duration) *RedisCartStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCartStore{client: client, ttl: ttl}
}

func cartKey(userID kernel.UUID) string {
	return keyPrefix + userID.String()
}

// List returns the cart lines ordered by line key.
func (s *RedisCartStore) List(ctx context.Context, userID kernel.UUID) ([]customer.CartLine, error) {
	fields, err := s.client.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]customer.CartLine, 0, len(keys))
	for _, k := range keys {
		line, decodeErr := decode(fields[k])
		if decodeErr != nil {
			return nil, fmt.Errorf("cart line %q: %w", k, decodeErr)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Add merges lines into the cart under WATCH, so two concurrent adds of the
// same item both count.
func (s *RedisCartStore) Add(ctx context.Context, userID kernel.UUID, lines ...customer.CartLine) error {
	if len(lines) == 0 {
		return nil
	}
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return err
		}
	}

	key := cartKey(userID)
	merge := func(tx *redis.Tx) error {
		current, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}

		updates := make(map[string]any, len(lines))
		for _, l := range lines {
			if raw, ok := current[l.Key()]; ok {
				existing, decodeErr := decode(raw)
				if decodeErr != nil {
					return decodeErr
				}
				l.Quantity += existing.Quantity
				if err = l.Validate(); err != nil {
					return err
				}
			}
			encoded, encodeErr := encode(l)
			if encodeErr != nil {
				return encodeErr
			}
			updates[l.Key()] = encoded
			current[l.Key()] = encoded
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, updates)
			pipe.Expire(ctx, key, s.ttl)
			return nil
		})
		return err
	}

	for range maxWatchRetries {
		err := s.client.Watch(ctx, merge, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("update cart: %w", err)
		}
		return nil
	}
	return ErrCartContended
}

func (s *RedisCartStore) Clear(ctx context.Context, userID kernel.UUID) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func encode(l customer.CartLine) (string, error) {
	b, err := json.Marshal(lineJSON{
		ItemID:     l.ItemID,
		Name:       l.Name,
		Flavor:     l.Flavor,
		Quantity:   l.Quantity,
		UnitAmount: l.UnitAmount.String(),
	})
	return string(b), err
}

func decode(raw string) (customer.CartLine, error) {
	var j lineJSON
	if err := json.Unmarshal([]byte(raw), &j); err != nil {
		return customer.CartLine{}, err
	}
	amount, err := kernel.MoneyFromString(j.UnitAmount)
	if err != nil {
		return customer.CartLine{}, err
	}
	return customer.NewCartLine(j.ItemID, j.Name, j.Flavor, j.Quantity, amount)
}
