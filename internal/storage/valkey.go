// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Valkey stores slots as plain string keys in Valkey (Redis-compatible).
type Valkey struct {
	client *redis.Client
	prefix string
	ttl    time.Duration // 0 = no expiry
}

// NewValkey returns a Valkey-backed storage. prefix namespaces the keys
// (e.g. "slot:"); ttl of zero keeps values forever.
func NewValkey(client *redis.Client, prefix string, ttl time.Duration) *Valkey {
	return &Valkey{client: client, prefix: prefix, ttl: ttl}
}

func (v *Valkey) GetItem(ctx context.Context, key string) (string, bool, error) {
	val, err := v.client.Get(ctx, v.prefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("valkey get %s: %w", key, err)
	}
	return val, true, nil
}

func (v *Valkey) SetItem(ctx context.Context, key, value string) error {
	if err := v.client.Set(ctx, v.prefix+key, value, v.ttl).Err(); err != nil {
		return fmt.Errorf("valkey set %s: %w", key, err)
	}
	return nil
}

func (v *Valkey) RemoveItem(ctx context.Context, key string) error {
	if err := v.client.Del(ctx, v.prefix+key).Err(); err != nil {
		return fmt.Errorf("valkey del %s: %w", key, err)
	}
	return nil
}
