// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// SocialMediaHandles holds the organization's handle on each supported platform.
type SocialMediaHandles struct {
	Twitter   string `json:"twitter"`
	LinkedIn  string `json:"linkedin"`
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
}

// OrganizationProfile is the persisted identity document of the
// organization. No field is format-validated.
type OrganizationProfile struct {
	// Basic information
	CompanyName  string `json:"companyName"`
	Website      string `json:"website"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
	Industry     string `json:"industry"`

	// Visual identity
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	LogoURL        string `json:"logoUrl"`

	SocialMediaHandles SocialMediaHandles `json:"socialMediaHandles"`

	// Brand voice
	BrandPersonality string `json:"brandPersonality"`
	CoreTone         string `json:"coreTone"`
	ValueProposition string `json:"valueProposition"`
}

// DefaultOrganizationProfile returns the empty profile shown before anything
// has been saved.
func DefaultOrganizationProfile() OrganizationProfile {
	return OrganizationProfile{
		PrimaryColor:   "#000000",
		SecondaryColor: "#ffffff",
	}
}
