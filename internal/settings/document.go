// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package settings loads and saves the organization settings documents
// (profile and brand guidelines). Each document lives whole in one storage
// slot: Load replaces the in-memory value with the stored one, Save
// overwrites the slot with the in-memory value.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"promptlib/internal/models"
	"promptlib/internal/storage"
)

// Slot names, kept identical to what earlier front ends wrote.
const (
	SlotProfile    = "orgProfile"
	SlotGuidelines = "brandGuidelines"
)

// DefaultSaveFeedback is how long a document reports itself as saving.
const DefaultSaveFeedback = time.Second

// Document is an editable settings document bound to a storage slot.
type Document[T any] struct {
	Slot    string    `json:"slot"`
	Value   T         `json:"value"`
	Loaded  bool      `json:"loaded"`
	SavedAt time.Time `json:"saved_at"`
}

// Profile is the organization profile document.
type Profile = Document[models.OrganizationProfile]

// Guidelines is the brand guidelines document.
type Guidelines = Document[models.BrandGuidelines]

// NewProfile returns the default profile document, not yet loaded.
func NewProfile() *Profile {
	return &Profile{Slot: SlotProfile, Value: models.DefaultOrganizationProfile()}
}

// NewGuidelines returns the default guidelines document, not yet loaded.
func NewGuidelines() *Guidelines {
	return &Guidelines{Slot: SlotGuidelines, Value: models.DefaultBrandGuidelines()}
}

// normalizer is implemented by documents that repair decoded values.
type normalizer interface {
	Normalize()
}

// Load reads the slot. An empty slot keeps the current value. A stored
// value that does not decode is logged and ignored, leaving the current
// value in place; only storage failures are returned.
func (d *Document[T]) Load(ctx context.Context, s storage.Storage) error {
	raw, ok, err := s.GetItem(ctx, d.Slot)
	if err != nil {
		return fmt.Errorf("load %s: %w", d.Slot, err)
	}
	d.Loaded = true
	if !ok {
		return nil
	}

	// A stored null decodes without error; it leaves v nil.
	var v *T
	err = json.Unmarshal([]byte(raw), &v)
	if err == nil && v == nil {
		err = errors.New("document is null")
	}
	if err != nil {
		slog.Warn("stored settings document is malformed, keeping current value",
			"slot", d.Slot,
			"error", err,
		)
		return nil
	}
	if n, ok := any(v).(normalizer); ok {
		n.Normalize()
	}
	d.Value = *v
	return nil
}

// EnsureLoaded loads the document the first time it is used in a session.
func (d *Document[T]) EnsureLoaded(ctx context.Context, s storage.Storage) error {
	if d.Loaded {
		return nil
	}
	return d.Load(ctx, s)
}

// Save serializes the whole value into the slot, overwriting what was there.
func (d *Document[T]) Save(ctx context.Context, s storage.Storage, now time.Time) error {
	raw, err := d.Marshal()
	if err != nil {
		return err
	}
	if err := s.SetItem(ctx, d.Slot, string(raw)); err != nil {
		return fmt.Errorf("save %s: %w", d.Slot, err)
	}
	d.SavedAt = now
	return nil
}

// Marshal returns the serialized form written by Save.
func (d *Document[T]) Marshal() ([]byte, error) {
	raw, err := json.Marshal(d.Value)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", d.Slot, err)
	}
	return raw, nil
}

// Saving reports whether the last save happened within feedback of now.
// It is user feedback only; the write itself finished inside Save.
func (d *Document[T]) Saving(now time.Time, feedback time.Duration) bool {
	if d.SavedAt.IsZero() {
		return false
	}
	return now.Sub(d.SavedAt) < feedback
}
