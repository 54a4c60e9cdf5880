// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides named-slot key-value storage, the server-side
// counterpart of a browser's local storage. Each slot holds one complete
// serialized value; writes overwrite, last writer wins.
//
// Backends: in-memory, Valkey, PostgreSQL and S3-compatible object storage.
package storage

import (
	"context"
	"strings"
)

// Storage reads and writes whole values by key.
type Storage interface {
	// GetItem returns the value stored under key. ok is false when the
	// slot is empty; that is not an error.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)

	// SetItem stores value under key, replacing anything already there.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem empties the slot. Removing an empty slot is not an error.
	RemoveItem(ctx context.Context, key string) error
}

// scoped prefixes every key with a namespace.
type scoped struct {
	inner  Storage
	prefix string
}

// Scope returns a view of s where every key lives under namespace. It is
// how one browser's slots are kept apart from another's.
func Scope(s Storage, namespace string) Storage {
	return &scoped{inner: s, prefix: strings.TrimSuffix(namespace, ":") + ":"}
}

func (s *scoped) GetItem(ctx context.Context, key string) (string, bool, error) {
	return s.inner.GetItem(ctx, s.prefix+key)
}

func (s *scoped) SetItem(ctx context.Context, key, value string) error {
	return s.inner.SetItem(ctx, s.prefix+key, value)
}

func (s *scoped) RemoveItem(ctx context.Context, key string) error {
	return s.inner.RemoveItem(ctx, s.prefix+key)
}
