// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Section names a group of string lists inside BrandGuidelines.
type Section string

const (
	SectionToneGuidelines     Section = "toneGuidelines"
	SectionApprovedPhrasing   Section = "approvedPhrasing"
	SectionProhibitedPhrasing Section = "prohibitedPhrasing"
	SectionStyleRules         Section = "styleRules"
)

// ListKey names one string list within a Section.
type ListKey string

const (
	ListFormal    ListKey = "formal"
	ListCasual    ListKey = "casual"
	ListTechnical ListKey = "technical"

	ListGreetings         ListKey = "greetings"
	ListClosings          ListKey = "closings"
	ListTransitions       ListKey = "transitions"
	ListProductReferences ListKey = "productReferences"
	ListCompanyReferences ListKey = "companyReferences"

	ListWords   ListKey = "words"
	ListPhrases ListKey = "phrases"

	ListCapitalization ListKey = "capitalization"
	ListPunctuation    ListKey = "punctuation"
	ListFormatting     ListKey = "formatting"
)

// EntryKind names a list of structured entries inside BrandGuidelines.
type EntryKind string

const (
	EntryContexts      EntryKind = "contexts"
	EntryExamples      EntryKind = "examples"
	EntryIndustryTerms EntryKind = "industryTerms"
)

var (
	ErrUnknownSection   = errors.New("unknown guidelines section")
	ErrUnknownListKey   = errors.New("unknown guidelines list")
	ErrUnknownEntryKind = errors.New("unknown guidelines entry kind")
)

// ToneGuidelines holds writing rules per tone.
type ToneGuidelines struct {
	Formal    []string `json:"formal"`
	Casual    []string `json:"casual"`
	Technical []string `json:"technical"`
}

// ApprovedPhrasing holds phrasing the organization wants used.
type ApprovedPhrasing struct {
	Greetings         []string `json:"greetings"`
	Closings          []string `json:"closings"`
	Transitions       []string `json:"transitions"`
	ProductReferences []string `json:"productReferences"`
	CompanyReferences []string `json:"companyReferences"`
}

// ProhibitedContext explains why a phrase must not be used and what to say instead.
type ProhibitedContext struct {
	Phrase               string `json:"phrase"`
	Reason               string `json:"reason"`
	SuggestedAlternative string `json:"suggestedAlternative"`
}

// ProhibitedPhrasing holds words and phrases to avoid.
type ProhibitedPhrasing struct {
	Words    []string            `json:"words"`
	Phrases  []string            `json:"phrases"`
	Contexts []ProhibitedContext `json:"contexts"`
}

// StyleRules holds mechanical writing rules.
type StyleRules struct {
	Capitalization []string `json:"capitalization"`
	Punctuation    []string `json:"punctuation"`
	Formatting     []string `json:"formatting"`
}

// UsageExample contrasts a good and a bad answer for a scenario.
type UsageExample struct {
	Scenario    string `json:"scenario"`
	GoodExample string `json:"goodExample"`
	BadExample  string `json:"badExample"`
	Explanation string `json:"explanation"`
}

// IndustryTerm documents a domain term and how to use it.
type IndustryTerm struct {
	Term         string   `json:"term"`
	Definition   string   `json:"definition"`
	Usage        string   `json:"usage"`
	Alternatives []string `json:"alternatives"`
}

// BrandGuidelines is the persisted tone and style document.
type BrandGuidelines struct {
	ToneGuidelines     ToneGuidelines     `json:"toneGuidelines"`
	ApprovedPhrasing   ApprovedPhrasing   `json:"approvedPhrasing"`
	ProhibitedPhrasing ProhibitedPhrasing `json:"prohibitedPhrasing"`
	StyleRules         StyleRules         `json:"styleRules"`
	Examples           []UsageExample     `json:"examples"`
	IndustryTerms      []IndustryTerm     `json:"industryTerms"`
}

// DefaultBrandGuidelines returns a document where every list is empty (not nil),
// so it serializes with [] everywhere.
func DefaultBrandGuidelines() BrandGuidelines {
	var g BrandGuidelines
	g.Normalize()
	return g
}

// Normalize replaces nil lists with empty ones. Documents decoded from
// storage may carry null or missing lists.
func (g *BrandGuidelines) Normalize() {
	for _, l := range g.allLists() {
		if *l == nil {
			*l = []string{}
		}
	}
	if g.ProhibitedPhrasing.Contexts == nil {
		g.ProhibitedPhrasing.Contexts = []ProhibitedContext{}
	}
	if g.Examples == nil {
		g.Examples = []UsageExample{}
	}
	if g.IndustryTerms == nil {
		g.IndustryTerms = []IndustryTerm{}
	}
	for i := range g.IndustryTerms {
		if g.IndustryTerms[i].Alternatives == nil {
			g.IndustryTerms[i].Alternatives = []string{}
		}
	}
}

// Clone returns a deep copy of the document.
func (g BrandGuidelines) Clone() BrandGuidelines {
	c := g
	for _, l := range c.allLists() {
		*l = slices.Clone(*l)
	}
	c.ProhibitedPhrasing.Contexts = slices.Clone(g.ProhibitedPhrasing.Contexts)
	c.Examples = slices.Clone(g.Examples)
	c.IndustryTerms = slices.Clone(g.IndustryTerms)
	for i := range c.IndustryTerms {
		c.IndustryTerms[i].Alternatives = slices.Clone(c.IndustryTerms[i].Alternatives)
	}
	return c
}

func (g *BrandGuidelines) allLists() []*[]string {
	return []*[]string{
		&g.ToneGuidelines.Formal, &g.ToneGuidelines.Casual, &g.ToneGuidelines.Technical,
		&g.ApprovedPhrasing.Greetings, &g.ApprovedPhrasing.Closings, &g.ApprovedPhrasing.Transitions,
		&g.ApprovedPhrasing.ProductReferences, &g.ApprovedPhrasing.CompanyReferences,
		&g.ProhibitedPhrasing.Words, &g.ProhibitedPhrasing.Phrases,
		&g.StyleRules.Capitalization, &g.StyleRules.Punctuation, &g.StyleRules.Formatting,
	}
}

// List returns a pointer to the string list addressed by section and key.
func (g *BrandGuidelines) List(section Section, key ListKey) (*[]string, error) {
	switch section {
	case SectionToneGuidelines:
		switch key {
		case ListFormal:
			return &g.ToneGuidelines.Formal, nil
		case ListCasual:
			return &g.ToneGuidelines.Casual, nil
		case ListTechnical:
			return &g.ToneGuidelines.Technical, nil
		}
	case SectionApprovedPhrasing:
		switch key {
		case ListGreetings:
			return &g.ApprovedPhrasing.Greetings, nil
		case ListClosings:
			return &g.ApprovedPhrasing.Closings, nil
		case ListTransitions:
			return &g.ApprovedPhrasing.Transitions, nil
		case ListProductReferences:
			return &g.ApprovedPhrasing.ProductReferences, nil
		case ListCompanyReferences:
			return &g.ApprovedPhrasing.CompanyReferences, nil
		}
	case SectionProhibitedPhrasing:
		switch key {
		case ListWords:
			return &g.ProhibitedPhrasing.Words, nil
		case ListPhrases:
			return &g.ProhibitedPhrasing.Phrases, nil
		}
	case SectionStyleRules:
		switch key {
		case ListCapitalization:
			return &g.StyleRules.Capitalization, nil
		case ListPunctuation:
			return &g.StyleRules.Punctuation, nil
		case ListFormatting:
			return &g.StyleRules.Formatting, nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	return nil, fmt.Errorf("%w: %q in %q", ErrUnknownListKey, key, section)
}

// AddItem appends text to the addressed list. Blank text is ignored and
// reported as false.
func (g *BrandGuidelines) AddItem(section Section, key ListKey, text string) (bool, error) {
	l, err := g.List(section, key)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(text) == "" {
		return false, nil
	}
	*l = append(*l, text)
	return true, nil
}

// RemoveItem deletes the element at index from the addressed list. An
// out-of-range index leaves the list unchanged and reports false.
func (g *BrandGuidelines) RemoveItem(section Section, key ListKey, index int) (bool, error) {
	l, err := g.List(section, key)
	if err != nil {
		return false, err
	}
	if index < 0 || index >= len(*l) {
		return false, nil
	}
	*l = slices.Delete(slices.Clone(*l), index, index+1)
	return true, nil
}

// AddContext appends a prohibited-phrase explanation. Ignored when Phrase is blank.
func (g *BrandGuidelines) AddContext(c ProhibitedContext) bool {
	if strings.TrimSpace(c.Phrase) == "" {
		return false
	}
	g.ProhibitedPhrasing.Contexts = append(g.ProhibitedPhrasing.Contexts, c)
	return true
}

// AddExample appends a usage example. Ignored when Scenario is blank.
func (g *BrandGuidelines) AddExample(e UsageExample) bool {
	if strings.TrimSpace(e.Scenario) == "" {
		return false
	}
	g.Examples = append(g.Examples, e)
	return true
}

// AddIndustryTerm appends a term definition. Ignored when Term is blank.
func (g *BrandGuidelines) AddIndustryTerm(t IndustryTerm) bool {
	if strings.TrimSpace(t.Term) == "" {
		return false
	}
	if t.Alternatives == nil {
		t.Alternatives = []string{}
	}
	g.IndustryTerms = append(g.IndustryTerms, t)
	return true
}

// RemoveEntry deletes the structured entry at index. Out-of-range indexes
// are a no-op reported as false.
func (g *BrandGuidelines) RemoveEntry(kind EntryKind, index int) (bool, error) {
	switch kind {
	case EntryContexts:
		return removeAt(&g.ProhibitedPhrasing.Contexts, index), nil
	case EntryExamples:
		return removeAt(&g.Examples, index), nil
	case EntryIndustryTerms:
		return removeAt(&g.IndustryTerms, index), nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownEntryKind, kind)
}

func removeAt[T any](s *[]T, index int) bool {
	if index < 0 || index >= len(*s) {
		return false
	}
	*s = slices.Delete(slices.Clone(*s), index, index+1)
	return true
}
