package handlers

import (
	"promptlib/internal/models"
)

// parseCategory resolves a submitted category. An empty value selects the
// default category.
func parseCategory(s string) (models.Category, error) {
	if s == "" {
		return models.DefaultCategory, nil
	}
	return models.ParseCategory(s)
}
