// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint. The end-to-end tests drive the full
// stack through a test server and a cookie jar, like a browser would.
package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"promptlib/internal/handlers"
	"promptlib/internal/middleware"
	"promptlib/internal/models"
	"promptlib/internal/session"
	"promptlib/internal/storage"
)

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

// server is a running router with in-memory backends.
type server struct {
	*httptest.Server
	slots *storage.Memory
}

func newServer(t *testing.T, rl *middleware.RateLimiter) *server {
	t.Helper()
	sessions := session.NewStore(storage.NewMemory(), time.Hour, false)
	slots := storage.NewMemory()
	h := New(sessions, handlers.NewPrompts(sessions), handlers.NewSettings(sessions, slots, time.Second), rl, false)

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return &server{Server: ts, slots: slots}
}

// browser is an HTTP client with its own cookie jar.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (s *server) newBrowser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &browser{t: t, base: s.URL, client: &http.Client{Jar: jar}}
}

func (b *browser) cookie(name string) string {
	u, _ := url.Parse(b.base)
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// do sends a request, echoing the CSRF cookie in the header when withToken is set.
func (b *browser) do(method, path, body string, withToken bool) (*http.Response, []byte) {
	b.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, b.base+path, r)
	if err != nil {
		b.t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if withToken {
		req.Header.Set(middleware.CSRFHeaderName, b.cookie(middleware.CSRFCookieName))
	}
	resp, err := b.client.Do(req)
	if err != nil {
		b.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		b.t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func (b *browser) send(method, path, body string, want int) []byte {
	b.t.Helper()
	resp, raw := b.do(method, path, body, true)
	if resp.StatusCode != want {
		b.t.Fatalf("%s %s: got %d, want %d (body %s)", method, path, resp.StatusCode, want, raw)
	}
	return raw
}

func unmarshal[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func TestHealthRoute(t *testing.T) {
	s := newServer(t, nil)
	b := s.newBrowser(t)

	resp, _ := b.do(http.MethodGet, "/health", "", false)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
	if resp.Header.Get("Cache-Control") == "no-store" {
		t.Error("health check marked no-store; only /api is")
	}
	if b.cookie(session.CookieName) != "" {
		t.Error("health check started a session")
	}
}

func TestFirstVisitIssuesCookies(t *testing.T) {
	s := newServer(t, nil)
	b := s.newBrowser(t)

	raw := b.send(http.MethodGet, "/api/workspace", "", http.StatusOK)
	for _, name := range []string{session.CookieName, session.BrowserCookieName, middleware.CSRFCookieName} {
		if b.cookie(name) == "" {
			t.Errorf("cookie %s not issued", name)
		}
	}

	ws := unmarshal[struct {
		Prompts    []models.Prompt   `json:"prompts"`
		Categories []models.Category `json:"categories"`
	}](t, raw)
	if len(ws.Prompts) == 0 {
		t.Error("fresh workspace has no sample prompts")
	}
	if len(ws.Categories) != len(models.Categories()) {
		t.Errorf("categories = %v", ws.Categories)
	}
}

func TestStateChangeRequiresCSRFToken(t *testing.T) {
	s := newServer(t, nil)
	b := s.newBrowser(t)
	b.send(http.MethodGet, "/api/workspace", "", http.StatusOK)

	resp, _ := b.do(http.MethodPost, "/api/prompts", `{"title":"T","template":"x"}`, false)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("POST without token: got %d, want 403", resp.StatusCode)
	}

	raw := b.send(http.MethodGet, "/api/prompts", "", http.StatusOK)
	if n := len(unmarshal[[]models.Prompt](t, raw)); n != 2 {
		t.Errorf("rejected request changed the library: %d prompts", n)
	}
}

func TestPromptLifecycle(t *testing.T) {
	s := newServer(t, nil)
	b := s.newBrowser(t)
	b.send(http.MethodGet, "/api/workspace", "", http.StatusOK)

	raw := b.send(http.MethodPost, "/api/prompts",
		`{"title":"Upsell","template":"Hi {{customer}}, {{companyName}} has a deal","category":"Sales"}`,
		http.StatusCreated)
	created := unmarshal[struct {
		Created bool          `json:"created"`
		Prompt  models.Prompt `json:"prompt"`
	}](t, raw)
	if !created.Created || created.Prompt.Category != models.CategorySales {
		t.Fatalf("create result = %+v", created)
	}
	id := created.Prompt.ID
	path := "/api/prompts/" + strconv.FormatInt(id, 10)

	raw = b.send(http.MethodGet, path+"/preview", "", http.StatusOK)
	preview := unmarshal[struct {
		Preview string `json:"preview"`
	}](t, raw)
	if preview.Preview != "Hi {{customer}}, Acme Corp has a deal" {
		t.Errorf("preview = %q", preview.Preview)
	}

	b.send(http.MethodPost, path+"/select", "", http.StatusOK)
	b.send(http.MethodPut, "/api/selection/draft", `{"template":"Bye {{supportName}}"}`, http.StatusOK)
	b.send(http.MethodPost, "/api/selection/save", "", http.StatusOK)

	raw = b.send(http.MethodGet, path, "", http.StatusOK)
	if got := unmarshal[models.Prompt](t, raw); got.Template != "Bye {{supportName}}" {
		t.Errorf("saved template = %q", got.Template)
	}

	b.send(http.MethodDelete, path, "", http.StatusConflict)
	b.send(http.MethodDelete, path+"?confirm=true", "", http.StatusNoContent)
	b.send(http.MethodGet, path, "", http.StatusNotFound)

	// Another browser has its own library.
	other := s.newBrowser(t)
	raw = other.send(http.MethodGet, "/api/prompts", "", http.StatusOK)
	if n := len(unmarshal[[]models.Prompt](t, raw)); n != 2 {
		t.Errorf("other browser sees %d prompts, want the 2 samples", n)
	}
}

func TestSettingsSurviveNewSession(t *testing.T) {
	s := newServer(t, nil)
	b := s.newBrowser(t)
	b.send(http.MethodGet, "/api/settings/profile", "", http.StatusOK)

	b.send(http.MethodPut, "/api/settings/profile", `{"companyName":"Persisted Inc"}`, http.StatusOK)
	raw := b.send(http.MethodPost, "/api/settings/profile/save", "", http.StatusOK)
	if !unmarshal[struct {
		Saving bool `json:"saving"`
	}](t, raw).Saving {
		t.Error("save response should report saving")
	}
	if s.slots.Len() != 1 {
		t.Errorf("slots stored = %d, want 1", s.slots.Len())
	}

	// Same browser, new page session: only the browser and CSRF cookies carry over.
	next := s.newBrowser(t)
	u, _ := url.Parse(s.URL)
	next.client.Jar.SetCookies(u, []*http.Cookie{
		{Name: session.BrowserCookieName, Value: b.cookie(session.BrowserCookieName), Path: "/"},
		{Name: middleware.CSRFCookieName, Value: b.cookie(middleware.CSRFCookieName), Path: "/"},
	})
	raw = next.send(http.MethodGet, "/api/settings/profile", "", http.StatusOK)
	got := unmarshal[struct {
		Document models.OrganizationProfile `json:"document"`
	}](t, raw)
	if got.Document.CompanyName != "Persisted Inc" {
		t.Errorf("new session profile = %+v", got.Document)
	}
	if next.cookie(session.CookieName) == b.cookie(session.CookieName) {
		t.Error("new page session reused the old session id")
	}

	// A different browser starts from the default document.
	stranger := s.newBrowser(t)
	raw = stranger.send(http.MethodGet, "/api/settings/profile", "", http.StatusOK)
	if name := unmarshal[struct {
		Document models.OrganizationProfile `json:"document"`
	}](t, raw).Document.CompanyName; name != "" {
		t.Errorf("other browser sees %q", name)
	}
}

func TestGuidelineRoutes(t *testing.T) {
	s := newServer(t, nil)
	b := s.newBrowser(t)
	b.send(http.MethodGet, "/api/settings/guidelines", "", http.StatusOK)

	b.send(http.MethodPost, "/api/settings/guidelines/items",
		`{"section":"prohibitedPhrasing","category":"words","text":"cheap"}`, http.StatusOK)
	b.send(http.MethodPost, "/api/settings/guidelines/entries/industryTerms",
		`{"term":"ARR","definition":"Annual recurring revenue"}`, http.StatusOK)

	raw := b.send(http.MethodDelete, "/api/settings/guidelines/items/prohibitedPhrasing/words/0", "", http.StatusOK)
	doc := unmarshal[struct {
		Document models.BrandGuidelines `json:"document"`
	}](t, raw).Document
	if len(doc.ProhibitedPhrasing.Words) != 0 || len(doc.IndustryTerms) != 1 {
		t.Errorf("guidelines = %+v", doc)
	}

	raw = b.send(http.MethodDelete, "/api/settings/guidelines/entries/industryTerms/0", "", http.StatusOK)
	if n := len(unmarshal[struct {
		Document models.BrandGuidelines `json:"document"`
	}](t, raw).Document.IndustryTerms); n != 0 {
		t.Errorf("industry terms after remove = %d", n)
	}

	b.send(http.MethodPost, "/api/settings/guidelines/entries/logos", `{}`, http.StatusBadRequest)
}

func TestRateLimitedAPI(t *testing.T) {
	rl := middleware.NewRateLimiter(2, time.Minute, false)
	t.Cleanup(rl.Stop)
	s := newServer(t, rl)
	b := s.newBrowser(t)

	b.send(http.MethodGet, "/api/workspace", "", http.StatusOK)
	b.send(http.MethodGet, "/api/workspace", "", http.StatusOK)
	resp, _ := b.do(http.MethodGet, "/api/workspace", "", false)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("third request: got %d, want 429", resp.StatusCode)
	}
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err != nil || secs < 1 || secs > 60 {
		t.Errorf("Retry-After: got %q, want 1..60 seconds", resp.Header.Get("Retry-After"))
	}

	// The health check is outside the limited group.
	if resp, _ := b.do(http.MethodGet, "/health", "", false); resp.StatusCode != http.StatusOK {
		t.Errorf("health: got %d, want 200", resp.StatusCode)
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newServer(t, nil)
	b := s.newBrowser(t)
	resp, _ := b.do(http.MethodGet, "/api/nope", "", false)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}
