// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"slices"

	"promptlib/internal/placeholder"
)

// Placeholder names filled from the organization settings during preview.
const (
	KeyCompanyName  = "companyName"
	KeySupportNames = "supportNames"
	KeySupportName  = "supportName"
	KeyBrandVoice   = "brandVoice"
)

// OrganizationSettings holds the session-local values used to preview
// prompt templates. It is never persisted.
type OrganizationSettings struct {
	CompanyName  string   `json:"companyName"`
	SupportNames []string `json:"supportNames"`
	BrandVoice   string   `json:"brandVoice"`
}

// DefaultOrganizationSettings returns the settings a new page session starts with.
func DefaultOrganizationSettings() OrganizationSettings {
	return OrganizationSettings{
		CompanyName:  "Acme Corp",
		SupportNames: []string{"Sarah", "John", "Maria"},
		BrandVoice:   "friendly and professional",
	}
}

// Values maps each known placeholder name to its setting. Both the plural
// field name and the singular supportName resolve to the first support name.
func (s OrganizationSettings) Values() placeholder.Values {
	return placeholder.Values{
		KeyCompanyName:  placeholder.Scalar(s.CompanyName),
		KeySupportNames: placeholder.List(s.SupportNames...),
		KeySupportName:  placeholder.List(s.SupportNames...),
		KeyBrandVoice:   placeholder.Scalar(s.BrandVoice),
	}
}

// Clone returns a deep copy so callers can mutate the support name list freely.
func (s OrganizationSettings) Clone() OrganizationSettings {
	c := s
	c.SupportNames = slices.Clone(s.SupportNames)
	return c
}
