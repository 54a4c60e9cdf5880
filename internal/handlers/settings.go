// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"promptlib/internal/models"
	"promptlib/internal/render"
	"promptlib/internal/session"
	"promptlib/internal/settings"
	"promptlib/internal/storage"
)

// Settings groups the organization profile and brand guidelines handlers.
// Documents are edited inside the page session and written to the
// browser's slots on save.
type Settings struct {
	sessions *session.Store
	slots    storage.Storage
	feedback time.Duration
	now      func() time.Time
}

// NewSettings creates the settings handlers. slots is the shared slot
// storage; each browser gets its own namespace in it. feedback is how
// long a saved document reports itself as saving.
func NewSettings(sessions *session.Store, slots storage.Storage, feedback time.Duration) *Settings {
	if feedback <= 0 {
		feedback = settings.DefaultSaveFeedback
	}
	return &Settings{sessions: sessions, slots: slots, feedback: feedback, now: time.Now}
}

// documentView is the response of every settings endpoint.
type documentView[T any] struct {
	Document T    `json:"document"`
	Saving   bool `json:"saving"`
}

// itemInput is the body of a guideline list addition.
type itemInput struct {
	Section  models.Section `json:"section"`
	Category models.ListKey `json:"category"`
	Text     string         `json:"text"`
}

// browserSlots returns the slot storage of the session's browser.
func (h *Settings) browserSlots(sess *session.Data) storage.Storage {
	return storage.Scope(h.slots, sess.BrowserID)
}

// prepare loads the session's documents on first use in the session.
func (h *Settings) prepare(w http.ResponseWriter, r *http.Request) *session.Data {
	sess := currentSession(w, r)
	if sess == nil {
		return nil
	}
	if sess.Profile.Loaded && sess.Guidelines.Loaded {
		return sess
	}
	slots := h.browserSlots(sess)
	if err := sess.Profile.EnsureLoaded(r.Context(), slots); err != nil {
		writeError(w, err)
		return nil
	}
	if err := sess.Guidelines.EnsureLoaded(r.Context(), slots); err != nil {
		writeError(w, err)
		return nil
	}
	if !persist(w, r, h.sessions, sess) {
		return nil
	}
	return sess
}

func (h *Settings) writeProfile(w http.ResponseWriter, status int, doc *settings.Profile) {
	render.JSON(w, status, documentView[models.OrganizationProfile]{
		Document: doc.Value,
		Saving:   doc.Saving(h.now(), h.feedback),
	})
}

func (h *Settings) writeGuidelines(w http.ResponseWriter, status int, doc *settings.Guidelines) {
	render.JSON(w, status, documentView[models.BrandGuidelines]{
		Document: doc.Value,
		Saving:   doc.Saving(h.now(), h.feedback),
	})
}

// Profile returns the organization profile being edited.
func (h *Settings) Profile(w http.ResponseWriter, r *http.Request) {
	sess := h.prepare(w, r)
	if sess == nil {
		return
	}
	h.writeProfile(w, http.StatusOK, sess.Profile)
}

// UpdateProfile replaces the profile being edited. Nothing is written to
// the browser's slot until SaveProfile.
func (h *Settings) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess := h.prepare(w, r)
	if sess == nil {
		return
	}
	var in models.OrganizationProfile
	if err := render.Decode(r, &in); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	sess.Profile.Value = in
	if !persist(w, r, h.sessions, sess) {
		return
	}
	h.writeProfile(w, http.StatusOK, sess.Profile)
}

// LoadProfile rereads the profile from the browser's slot.
func (h *Settings) LoadProfile(w http.ResponseWriter, r *http.Request) {
	sess := h.prepare(w, r)
	if sess == nil {
		return
	}
	if err := sess.Profile.Load(r.Context(), h.browserSlots(sess)); err != nil {
		writeError(w, err)
		return
	}
	if !persist(w, r, h.sessions, sess) {
		return
	}
	h.writeProfile(w, http.StatusOK, sess.Profile)
}

// SaveProfile writes the profile to the browser's slot.
func (h *Settings) SaveProfile(w http.ResponseWriter, r *http.Request) {
	sess := h.prepare(w, r)
	if sess == nil {
		return
	}
	if err := sess.Profile.Save(r.Context(), h.browserSlots(sess), h.now()); err != nil {
		writeError(w, err)
		return
	}
	if !persist(w, r, h.sessions, sess) {
		return
	}
	h.writeProfile(w, http.StatusOK, sess.Profile)
}

// Guidelines returns the brand guidelines being edited.
func (h *Settings) Guidelines(w http.ResponseWriter, r *http.Request) {
	sess := h.prepare(w, r)
	if sess == nil {
		return
	}
	h.writeGuidelines(w, http.StatusOK, sess.Guidelines)
}

// UpdateGuidelines replaces the guidelines being edited.
func (h *Settings) UpdateGuidelines(w http.ResponseWriter, r *http.Request) {
	sess := h.prepare(w, r)
	if sess == nil {
		return
	}
	var in models.BrandGuidelines
	if err := render.Decode(r, &in); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	in.Normalize()
	sess.Guidelines.Value = in
	if !persist(w, r, h.sessions, sess) {
		return
	}
	h.writeGuidelines(w, http.StatusOK, sess.Guidelines)
}

// LoadGuidelines rereads the guidelines from the browser's slot.
func (h *Settings) LoadGuidelines(w http.ResponseWriter, r *http.Request) {
	sess := h.prepare(w, r)
	if sess == nil {
		return
	}
	if err := sess.Guidelines.Load(r.Context(), h.browserSlots(sess)); err != nil {
		writeError(w, err)
		return
	}
	if !persist(w, r, h.sessions, sess) {
		return
	}
	h.writeGuidelines(w, http.StatusOK, sess.Guidelines)
}

// SaveGuidelines writes the guidelines to the browser's slot.
func (h *Settings) SaveGuidelines(w http.ResponseWriter, r *http.Request) {
	sess := h.prepare(w, r)
	if sess == nil {
		return
	}
	if err := sess.Guidelines.Save(r.Context(), h.browserSlots(sess), h.now()); err != nil {
		writeError(w, err)
		return
	}
	if !persist(w, r, h.sessions, sess) {
		return
	}
	h.writeGuidelines(w, http.StatusOK, sess.Guidelines)
}

// AddItem appends text to one guideline list. Blank text changes nothing.
func (h *Settings) AddItem(w http.ResponseWriter, r *http.Request) {
	sess := h.prepare(w, r)
	if sess == nil {
		return
	}
	var in itemInput
	if err := render.Decode(r, &in); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	changed, err := sess.Guidelines.Value.AddItem(in.Section, in.Category, in.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	h.finishGuidelineEdit(w, r, sess, changed)
}

// RemoveItem deletes one entry of a guideline list. An index outside the
// list changes nothing.
func (h *Settings) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess := h.prepare(w, r)
	if sess == nil {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid index")
		return
	}
	section := models.Section(chi.URLParam(r, "section"))
	key := models.ListKey(chi.URLParam(r, "category"))
	changed, err := sess.Guidelines.Value.RemoveItem(section, key, index)
	if err != nil {
		writeError(w, err)
		return
	}
	h.finishGuidelineEdit(w, r, sess, changed)
}

// AddEntry appends a structured entry (prohibited context, usage example
// or industry term). The body shape depends on the kind.
func (h *Settings) AddEntry(w http.ResponseWriter, r *http.Request) {
	sess := h.prepare(w, r)
	if sess == nil {
		return
	}
	g := &sess.Guidelines.Value

	var changed bool
	switch kind := models.EntryKind(chi.URLParam(r, "kind")); kind {
	case models.EntryContexts:
		var in models.ProhibitedContext
		if err := render.Decode(r, &in); err != nil {
			render.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		changed = g.AddContext(in)
	case models.EntryExamples:
		var in models.UsageExample
		if err := render.Decode(r, &in); err != nil {
			render.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		changed = g.AddExample(in)
	case models.EntryIndustryTerms:
		var in models.IndustryTerm
		if err := render.Decode(r, &in); err != nil {
			render.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		changed = g.AddIndustryTerm(in)
	default:
		render.Error(w, http.StatusBadRequest, models.ErrUnknownEntryKind.Error()+": "+string(kind))
		return
	}
	h.finishGuidelineEdit(w, r, sess, changed)
}

// RemoveEntry deletes a structured entry by index.
func (h *Settings) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	sess := h.prepare(w, r)
	if sess == nil {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid index")
		return
	}
	changed, err := sess.Guidelines.Value.RemoveEntry(models.EntryKind(chi.URLParam(r, "kind")), index)
	if err != nil {
		writeError(w, err)
		return
	}
	h.finishGuidelineEdit(w, r, sess, changed)
}

// finishGuidelineEdit stores the session when a list edit changed the
// document and answers with the document either way.
func (h *Settings) finishGuidelineEdit(w http.ResponseWriter, r *http.Request, sess *session.Data, changed bool) {
	if changed && !persist(w, r, h.sessions, sess) {
		return
	}
	h.writeGuidelines(w, http.StatusOK, sess.Guidelines)
}
