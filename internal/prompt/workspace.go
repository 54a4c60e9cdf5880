// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package prompt holds the prompt library of a single page session: the
// prompt list, the selected prompt with its unsaved draft, the creation form
// and the organization settings used for previews.
//
// A Workspace is owned by one session. It has no locking; callers load it,
// apply operations, and store it back.
package prompt

import (
	"errors"
	"slices"
	"strings"

	"promptlib/internal/models"
	"promptlib/internal/placeholder"
)

var (
	// ErrNotFound is returned when no prompt has the requested ID.
	ErrNotFound = errors.New("prompt not found")

	// ErrConfirmationRequired is returned when a deletion was not confirmed.
	ErrConfirmationRequired = errors.New("deletion not confirmed")
)

// Form is the state of the new-prompt form.
type Form struct {
	Open     bool            `json:"open"`
	Title    string          `json:"title"`
	Template string          `json:"template"`
	Category models.Category `json:"category"`
}

// Selection is the prompt loaded into the edit pane. Draft holds the
// template text being edited; it only reaches the prompt on Save.
type Selection struct {
	ID    int64  `json:"id"`
	Draft string `json:"draft"`
}

// Workspace is the serializable state of the prompt editor.
type Workspace struct {
	Prompts   []models.Prompt             `json:"prompts"`
	NextID    int64                       `json:"next_id"`
	Selection *Selection                  `json:"selection,omitempty"`
	Form      Form                        `json:"form"`
	Settings  models.OrganizationSettings `json:"settings"`
}

// NewWorkspace returns the state a fresh page session starts with.
func NewWorkspace() *Workspace {
	w := &Workspace{
		Form:     defaultForm(),
		Settings: models.DefaultOrganizationSettings(),
	}
	for _, p := range samplePrompts() {
		w.insert(p.Title, p.Template, p.Category)
	}
	return w
}

func samplePrompts() []models.Prompt {
	return []models.Prompt{
		{
			Title:    "Customer Support - General Response",
			Template: "As a {{companyName}} support representative, provide a {{brandVoice}} response to: {{customerQuery}}",
			Category: models.CategorySupport,
		},
		{
			Title:    "Feature Request Acknowledgment",
			Template: "Thank you for your suggestion to improve {{companyName}}! I'm {{supportName}}, and I'll make sure our product team hears about this.",
			Category: models.CategorySupport,
		},
	}
}

func defaultForm() Form {
	return Form{Category: models.DefaultCategory}
}

// insert appends a prompt with the next ID. IDs are never reused, even
// after deletions.
func (w *Workspace) insert(title, template string, category models.Category) models.Prompt {
	w.NextID++
	p := models.Prompt{
		ID:        w.NextID,
		Title:     title,
		Template:  template,
		Variables: placeholder.Variables(template),
		Category:  category,
	}
	w.Prompts = append(w.Prompts, p)
	return p
}

func (w *Workspace) indexOf(id int64) int {
	return slices.IndexFunc(w.Prompts, func(p models.Prompt) bool { return p.ID == id })
}

// Find returns the prompt with the given ID.
func (w *Workspace) Find(id int64) (models.Prompt, error) {
	i := w.indexOf(id)
	if i < 0 {
		return models.Prompt{}, ErrNotFound
	}
	return w.Prompts[i], nil
}

// Create adds a prompt. When title or template is blank nothing happens
// and ok is false. Variables are derived from the template.
func (w *Workspace) Create(title, template string, category models.Category) (p models.Prompt, ok bool) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(template) == "" {
		return models.Prompt{}, false
	}
	return w.insert(title, template, category), true
}

// Update replaces the template of a prompt and re-derives its variables.
func (w *Workspace) Update(id int64, template string) (models.Prompt, error) {
	i := w.indexOf(id)
	if i < 0 {
		return models.Prompt{}, ErrNotFound
	}
	w.Prompts[i].Template = template
	w.Prompts[i].Variables = placeholder.Variables(template)
	return w.Prompts[i], nil
}

// Confirmer decides whether a destructive action on p may proceed.
type Confirmer func(p models.Prompt) bool

// Confirmed is a Confirmer that always agrees.
func Confirmed(models.Prompt) bool { return true }

// Delete removes a prompt once confirm agrees. A declined confirmation
// leaves the workspace untouched. Deleting the selected prompt clears the
// selection.
func (w *Workspace) Delete(id int64, confirm Confirmer) error {
	i := w.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	if confirm == nil || !confirm(w.Prompts[i]) {
		return ErrConfirmationRequired
	}
	w.Prompts = slices.Delete(w.Prompts, i, i+1)
	if w.Selection != nil && w.Selection.ID == id {
		w.Selection = nil
	}
	return nil
}

// Select loads a prompt into the edit pane, replacing any previous draft.
func (w *Workspace) Select(id int64) (models.Prompt, error) {
	p, err := w.Find(id)
	if err != nil {
		return models.Prompt{}, err
	}
	w.Selection = &Selection{ID: p.ID, Draft: p.Template}
	return p, nil
}

// Deselect returns the edit pane to its empty state.
func (w *Workspace) Deselect() {
	w.Selection = nil
}

// Selected returns the selected prompt, or false when nothing is selected.
func (w *Workspace) Selected() (models.Prompt, bool) {
	if w.Selection == nil {
		return models.Prompt{}, false
	}
	p, err := w.Find(w.Selection.ID)
	if err != nil {
		return models.Prompt{}, false
	}
	return p, true
}

// EditDraft changes the draft template of the selection.
func (w *Workspace) EditDraft(template string) error {
	if w.Selection == nil {
		return ErrNotFound
	}
	w.Selection.Draft = template
	return nil
}

// SaveSelection writes the draft back to the selected prompt.
func (w *Workspace) SaveSelection() (models.Prompt, error) {
	if w.Selection == nil {
		return models.Prompt{}, ErrNotFound
	}
	return w.Update(w.Selection.ID, w.Selection.Draft)
}

// Preview renders template with the workspace's organization settings.
func (w *Workspace) Preview(template string) string {
	return placeholder.Substitute(template, w.Settings.Values())
}

// PreviewSelection renders the selection's draft.
func (w *Workspace) PreviewSelection() (string, error) {
	if w.Selection == nil {
		return "", ErrNotFound
	}
	return w.Preview(w.Selection.Draft), nil
}

// OpenForm shows the creation form, keeping whatever was typed before.
func (w *Workspace) OpenForm() {
	w.Form.Open = true
}

// CloseForm hides the creation form without clearing its fields.
func (w *Workspace) CloseForm() {
	w.Form.Open = false
}

// EditForm overwrites the form fields.
func (w *Workspace) EditForm(title, template string, category models.Category) {
	w.Form.Title = title
	w.Form.Template = template
	w.Form.Category = category
}

// SubmitForm creates a prompt from the form. On success the form closes and
// resets; otherwise it stays open with its fields intact.
func (w *Workspace) SubmitForm() (models.Prompt, bool) {
	p, ok := w.Create(w.Form.Title, w.Form.Template, w.Form.Category)
	if !ok {
		return models.Prompt{}, false
	}
	w.Form = defaultForm()
	return p, true
}

// SetSettings replaces the preview settings.
func (w *Workspace) SetSettings(s models.OrganizationSettings) {
	w.Settings = s.Clone()
}
