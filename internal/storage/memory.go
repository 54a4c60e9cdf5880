// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"sync"
	"time"
)

// sweepEvery is how many writes an expiring Memory takes between sweeps.
const sweepEvery = 128

type memoryItem struct {
	value   string
	expires time.Time // zero = never
}

// Memory is a process-local Storage. Values are lost on restart.
type Memory struct {
	mu     sync.RWMutex
	items  map[string]memoryItem
	ttl    time.Duration
	now    func() time.Time
	writes int
}

// NewMemory returns an empty in-memory storage whose values never expire.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]memoryItem), now: time.Now}
}

// NewExpiringMemory returns an in-memory storage where each value expires
// ttl after its last write, like a Valkey key set with a TTL. Expired
// values are dropped by a sweep every few writes.
func NewExpiringMemory(ttl time.Duration) *Memory {
	m := NewMemory()
	m.ttl = ttl
	return m
}

func (m *Memory) live(it memoryItem, now time.Time) bool {
	return it.expires.IsZero() || now.Before(it.expires)
}

func (m *Memory) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[key]
	if !ok || !m.live(it, m.now()) {
		return "", false, nil
	}
	return it.value, true, nil
}

func (m *Memory) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it := memoryItem{value: value}
	if m.ttl > 0 {
		it.expires = m.now().Add(m.ttl)
	}
	m.items[key] = it

	m.writes++
	if m.ttl > 0 && m.writes%sweepEvery == 0 {
		m.sweepLocked()
	}
	return nil
}

func (m *Memory) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// Sweep drops expired values and returns how many were removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked()
}

func (m *Memory) sweepLocked() int {
	now := m.now()
	n := 0
	for key, it := range m.items {
		if !m.live(it, now) {
			delete(m.items, key)
			n++
		}
	}
	return n
}

// Len returns the number of values held, expired or not, until the next sweep.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
