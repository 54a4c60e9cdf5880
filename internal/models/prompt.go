// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"fmt"
)

// Category groups prompt templates in the library.
type Category string

const (
	CategorySupport   Category = "Support"
	CategoryMarketing Category = "Marketing"
	CategorySales     Category = "Sales"
	CategoryGeneral   Category = "General"
)

// DefaultCategory is preselected in the creation form.
const DefaultCategory = CategorySupport

// ErrUnknownCategory is returned when a category name is not one of the
// fixed prompt categories.
var ErrUnknownCategory = errors.New("unknown category")

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategorySupport, CategoryMarketing, CategorySales, CategoryGeneral}
}

// ParseCategory converts a category name into a Category. Matching is exact.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Prompt is a prompt template in the library. Variables is derived from
// Template and never edited on its own; whoever changes Template must
// recompute it.
type Prompt struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Template  string   `json:"template"`
	Variables []string `json:"variables"`
	Category  Category `json:"category"`
}
