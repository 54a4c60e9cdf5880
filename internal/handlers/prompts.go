// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"promptlib/internal/models"
	"promptlib/internal/placeholder"
	"promptlib/internal/prompt"
	"promptlib/internal/render"
	"promptlib/internal/session"
)

// Prompts groups the prompt library handlers.
type Prompts struct {
	sessions *session.Store
}

// NewPrompts creates the prompt library handlers.
func NewPrompts(sessions *session.Store) *Prompts {
	return &Prompts{sessions: sessions}
}

// promptInput is the body of create and form edit requests.
type promptInput struct {
	Title    string `json:"title"`
	Template string `json:"template"`
	Category string `json:"category"`
}

// templateInput is the body of requests that carry only a template.
type templateInput struct {
	Template string `json:"template"`
}

// selectionView is the edit pane: the selected prompt, its draft, and the
// draft rendered with the organization settings.
type selectionView struct {
	Prompt    models.Prompt `json:"prompt"`
	Draft     string        `json:"draft"`
	Variables []string      `json:"variables"`
	Preview   string        `json:"preview"`
}

// previewView is a rendered template.
type previewView struct {
	Template  string   `json:"template"`
	Variables []string `json:"variables"`
	Preview   string   `json:"preview"`
}

// workspaceView is the full state of the prompt editor page.
type workspaceView struct {
	Prompts    []models.Prompt             `json:"prompts"`
	Selection  *selectionView              `json:"selection"`
	Form       prompt.Form                 `json:"form"`
	Settings   models.OrganizationSettings `json:"settings"`
	Categories []models.Category           `json:"categories"`
}

// createResult reports the outcome of a create or form submit.
type createResult struct {
	Created bool           `json:"created"`
	Prompt  *models.Prompt `json:"prompt,omitempty"`
	Form    prompt.Form    `json:"form"`
}

func selectionOf(ws *prompt.Workspace) *selectionView {
	p, ok := ws.Selected()
	if !ok {
		return nil
	}
	return &selectionView{
		Prompt:    p,
		Draft:     ws.Selection.Draft,
		Variables: placeholder.Variables(ws.Selection.Draft),
		Preview:   ws.Preview(ws.Selection.Draft),
	}
}

func previewOf(ws *prompt.Workspace, template string) previewView {
	return previewView{
		Template:  template,
		Variables: placeholder.Variables(template),
		Preview:   ws.Preview(template),
	}
}

// Workspace returns the whole editor state.
func (h *Prompts) Workspace(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(w, r)
	if sess == nil {
		return
	}
	ws := sess.Workspace
	render.JSON(w, http.StatusOK, workspaceView{
		Prompts:    ws.Prompts,
		Selection:  selectionOf(ws),
		Form:       ws.Form,
		Settings:   ws.Settings,
		Categories: models.Categories(),
	})
}

// List returns the prompts in creation order.
func (h *Prompts) List(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(w, r)
	if sess == nil {
		return
	}
	render.JSON(w, http.StatusOK, sess.Workspace.Prompts)
}

// Create adds a prompt directly. The creation form is left as it is; a
// blank title or template creates nothing and answers 200.
func (h *Prompts) Create(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(w, r)
	if sess == nil {
		return
	}

	var in promptInput
	if err := render.Decode(r, &in); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	category, err := parseCategory(in.Category)
	if err != nil {
		writeError(w, err)
		return
	}

	p, ok := sess.Workspace.Create(in.Title, in.Template, category)
	if !ok {
		render.JSON(w, http.StatusOK, createResult{Created: false, Form: sess.Workspace.Form})
		return
	}
	if !persist(w, r, h.sessions, sess) {
		return
	}
	render.JSON(w, http.StatusCreated, createResult{Created: true, Prompt: &p, Form: sess.Workspace.Form})
}

// submit runs the form submission and writes the outcome.
func (h *Prompts) submit(w http.ResponseWriter, r *http.Request, sess *session.Data) {
	p, ok := sess.Workspace.SubmitForm()
	if !persist(w, r, h.sessions, sess) {
		return
	}
	if !ok {
		render.JSON(w, http.StatusOK, createResult{Created: false, Form: sess.Workspace.Form})
		return
	}
	render.JSON(w, http.StatusCreated, createResult{Created: true, Prompt: &p, Form: sess.Workspace.Form})
}

// Get returns one prompt.
func (h *Prompts) Get(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(w, r)
	if sess == nil {
		return
	}
	id, err := intParam(r, "id")
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid prompt id")
		return
	}
	p, err := sess.Workspace.Find(id)
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, http.StatusOK, p)
}

// Update replaces a prompt's template.
func (h *Prompts) Update(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(w, r)
	if sess == nil {
		return
	}
	id, err := intParam(r, "id")
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid prompt id")
		return
	}
	var in templateInput
	if err := render.Decode(r, &in); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := sess.Workspace.Update(id, in.Template)
	if err != nil {
		writeError(w, err)
		return
	}
	if !persist(w, r, h.sessions, sess) {
		return
	}
	render.JSON(w, http.StatusOK, p)
}

// Delete removes a prompt. The client confirms with ?confirm=true;
// without it nothing is removed and 409 is returned.
func (h *Prompts) Delete(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(w, r)
	if sess == nil {
		return
	}
	id, err := intParam(r, "id")
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid prompt id")
		return
	}

	confirmed := r.URL.Query().Get("confirm") == "true"
	err = sess.Workspace.Delete(id, func(models.Prompt) bool { return confirmed })
	if err != nil {
		writeError(w, err)
		return
	}
	if !persist(w, r, h.sessions, sess) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Preview renders a stored prompt's template.
func (h *Prompts) Preview(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(w, r)
	if sess == nil {
		return
	}
	id, err := intParam(r, "id")
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid prompt id")
		return
	}
	p, err := sess.Workspace.Find(id)
	if err != nil {
		writeError(w, err)
		return
	}
	render.JSON(w, http.StatusOK, previewOf(sess.Workspace, p.Template))
}

// Select loads a prompt into the edit pane.
func (h *Prompts) Select(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(w, r)
	if sess == nil {
		return
	}
	id, err := intParam(r, "id")
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid prompt id")
		return
	}
	if _, err := sess.Workspace.Select(id); err != nil {
		writeError(w, err)
		return
	}
	if !persist(w, r, h.sessions, sess) {
		return
	}
	render.JSON(w, http.StatusOK, selectionOf(sess.Workspace))
}

// Deselect empties the edit pane.
func (h *Prompts) Deselect(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(w, r)
	if sess == nil {
		return
	}
	sess.Workspace.Deselect()
	if !persist(w, r, h.sessions, sess) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Selection returns the edit pane.
func (h *Prompts) Selection(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(w, r)
	if sess == nil {
		return
	}
	sel := selectionOf(sess.Workspace)
	if sel == nil {
		writeError(w, prompt.ErrNotFound)
		return
	}
	render.JSON(w, http.StatusOK, sel)
}

// EditDraft changes the draft of the selected prompt.
func (h *Prompts) EditDraft(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(w, r)
	if sess == nil {
		return
	}
	var in templateInput
	if err := render.Decode(r, &in); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := sess.Workspace.EditDraft(in.Template); err != nil {
		writeError(w, err)
		return
	}
	if !persist(w, r, h.sessions, sess) {
		return
	}
	render.JSON(w, http.StatusOK, selectionOf(sess.Workspace))
}

// SaveSelection writes the draft into the selected prompt.
func (h *Prompts) SaveSelection(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(w, r)
	if sess == nil {
		return
	}
	if _, err := sess.Workspace.SaveSelection(); err != nil {
		writeError(w, err)
		return
	}
	if !persist(w, r, h.sessions, sess) {
		return
	}
	render.JSON(w, http.StatusOK, selectionOf(sess.Workspace))
}

// PreviewSelection renders the draft of the selected prompt.
func (h *Prompts) PreviewSelection(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(w, r)
	if sess == nil {
		return
	}
	ws := sess.Workspace
	if ws.Selection == nil {
		writeError(w, prompt.ErrNotFound)
		return
	}
	render.JSON(w, http.StatusOK, previewOf(ws, ws.Selection.Draft))
}

// OpenForm shows the creation form.
func (h *Prompts) OpenForm(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(w, r)
	if sess == nil {
		return
	}
	sess.Workspace.OpenForm()
	if !persist(w, r, h.sessions, sess) {
		return
	}
	render.JSON(w, http.StatusOK, sess.Workspace.Form)
}

// EditForm overwrites the creation form fields.
func (h *Prompts) EditForm(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(w, r)
	if sess == nil {
		return
	}
	var in promptInput
	if err := render.Decode(r, &in); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	category, err := parseCategory(in.Category)
	if err != nil {
		writeError(w, err)
		return
	}
	sess.Workspace.EditForm(in.Title, in.Template, category)
	if !persist(w, r, h.sessions, sess) {
		return
	}
	render.JSON(w, http.StatusOK, sess.Workspace.Form)
}

// CloseForm hides the creation form, keeping its fields.
func (h *Prompts) CloseForm(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(w, r)
	if sess == nil {
		return
	}
	sess.Workspace.CloseForm()
	if !persist(w, r, h.sessions, sess) {
		return
	}
	render.JSON(w, http.StatusOK, sess.Workspace.Form)
}

// SubmitForm creates a prompt from the creation form.
func (h *Prompts) SubmitForm(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(w, r)
	if sess == nil {
		return
	}
	h.submit(w, r, sess)
}

// OrgSettings returns the organization settings used for previews.
func (h *Prompts) OrgSettings(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(w, r)
	if sess == nil {
		return
	}
	render.JSON(w, http.StatusOK, sess.Workspace.Settings)
}

// UpdateOrgSettings replaces the organization settings used for previews.
func (h *Prompts) UpdateOrgSettings(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(w, r)
	if sess == nil {
		return
	}
	in := sess.Workspace.Settings.Clone()
	if err := render.Decode(r, &in); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.SupportNames == nil {
		in.SupportNames = []string{}
	}
	sess.Workspace.SetSettings(in)
	if !persist(w, r, h.sessions, sess) {
		return
	}
	render.JSON(w, http.StatusOK, sess.Workspace.Settings)
}

// PreviewTemplate renders an arbitrary template without storing it.
func (h *Prompts) PreviewTemplate(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(w, r)
	if sess == nil {
		return
	}
	var in templateInput
	if err := render.Decode(r, &in); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	render.JSON(w, http.StatusOK, previewOf(sess.Workspace, in.Template))
}
