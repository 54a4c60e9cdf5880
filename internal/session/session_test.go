package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"promptlib/internal/models"
	"promptlib/internal/storage"
)

// testValkeyStore returns a session store over the test Valkey.
// Skips the test if Valkey is unavailable.
func testValkeyStore(t *testing.T) *Store {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15, // Use DB 15 for tests to isolate from dev data.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "test-session:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return NewStore(storage.NewValkey(client, "test-", time.Minute), time.Minute, false)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func findCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestSessionCreateAndGet(t *testing.T) {
	store := NewStore(storage.NewMemory(), 0, false)
	w := httptest.NewRecorder()
	ctx := context.Background()

	data := NewData(uuid.NewString())
	data.Workspace.Create("Greeting", "Hello {{name}}", models.CategoryGeneral)
	data.Profile.Value.CompanyName = "Acme"

	sessionID, err := store.Create(ctx, w, data)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sessionID == "" || data.ID != sessionID {
		t.Errorf("session id = %q, data.ID = %q", sessionID, data.ID)
	}

	sessionCookie := findCookie(t, w, CookieName)
	if !sessionCookie.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}
	if sessionCookie.Secure {
		t.Error("expected Secure=false for non-secure store")
	}
	if sessionCookie.MaxAge != int(DefaultTTL.Seconds()) {
		t.Errorf("MaxAge = %d, want default TTL", sessionCookie.MaxAge)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(sessionCookie)

	retrieved, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if retrieved == nil {
		t.Fatal("expected session data, got nil")
	}
	if retrieved.ID != sessionID || retrieved.BrowserID != data.BrowserID {
		t.Errorf("ids = %q/%q, want %q/%q", retrieved.ID, retrieved.BrowserID, sessionID, data.BrowserID)
	}
	if diff := cmp.Diff(data.Workspace, retrieved.Workspace); diff != "" {
		t.Errorf("workspace mismatch (-want +got):\n%s", diff)
	}
	if retrieved.Profile.Value.CompanyName != "Acme" {
		t.Errorf("profile draft lost: %q", retrieved.Profile.Value.CompanyName)
	}
}

func TestSessionGetNoCookie(t *testing.T) {
	store := NewStore(storage.NewMemory(), 0, false)

	req := httptest.NewRequest("GET", "/", nil)
	data, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get (no cookie): %v", err)
	}
	if data != nil {
		t.Error("expected nil for request without session cookie")
	}
}

func TestSessionGetExpired(t *testing.T) {
	store := NewStore(storage.NewMemory(), 0, false)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "nonexistent-session-id"})

	data, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get (expired): %v", err)
	}
	if data != nil {
		t.Error("expected nil for expired/nonexistent session")
	}
}

func TestSessionGetFillsMissingParts(t *testing.T) {
	mem := storage.NewMemory()
	store := NewStore(mem, 0, false)
	ctx := context.Background()
	mem.SetItem(ctx, keyPrefix+"old", `{"browser_id":"b"}`)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "old"})

	data, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data.Workspace == nil || data.Profile == nil || data.Guidelines == nil {
		t.Fatal("missing parts not filled")
	}
	if len(data.Workspace.Prompts) != 2 {
		t.Errorf("filled workspace has %d prompts, want the 2 samples", len(data.Workspace.Prompts))
	}
}

func TestSessionGetMalformed(t *testing.T) {
	mem := storage.NewMemory()
	store := NewStore(mem, 0, false)
	ctx := context.Background()
	mem.SetItem(ctx, keyPrefix+"bad", "{nope")

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "bad"})

	if _, err := store.Get(ctx, req); err == nil {
		t.Error("expected error for malformed session payload")
	}
}

func TestSessionSave(t *testing.T) {
	store := NewStore(storage.NewMemory(), 0, false)
	w := httptest.NewRecorder()
	ctx := context.Background()

	data := NewData("browser")
	store.Create(ctx, w, data)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(findCookie(t, w, CookieName))

	if _, err := data.Workspace.Select(1); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if err := store.Save(ctx, data); err != nil {
		t.Fatalf("Save: %v", err)
	}

	retrieved, _ := store.Get(ctx, req)
	if retrieved == nil {
		t.Fatal("expected session after save")
	}
	if p, ok := retrieved.Workspace.Selected(); !ok || p.ID != 1 {
		t.Errorf("selection not persisted: %v %v", p, ok)
	}
}

func TestSessionSaveWithoutID(t *testing.T) {
	store := NewStore(storage.NewMemory(), 0, false)
	if err := store.Save(context.Background(), NewData("b")); err == nil {
		t.Error("expected error when saving a session that was never created")
	}
}

func TestSessionDestroy(t *testing.T) {
	store := NewStore(storage.NewMemory(), 0, false)
	w := httptest.NewRecorder()
	ctx := context.Background()

	store.Create(ctx, w, NewData("b"))
	cookie := findCookie(t, w, CookieName)

	w2 := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)

	if err := store.Destroy(ctx, w2, req); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if c := findCookie(t, w2, CookieName); c.MaxAge != -1 {
		t.Error("expected MaxAge=-1 on destroyed cookie")
	}

	retrieved, _ := store.Get(ctx, req)
	if retrieved != nil {
		t.Error("expected nil after destroy")
	}
}

func TestSessionDestroyNoCookie(t *testing.T) {
	store := NewStore(storage.NewMemory(), 0, false)

	err := store.Destroy(context.Background(), httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Errorf("Destroy (no cookie): %v", err)
	}
}

func TestSessionSecureCookie(t *testing.T) {
	store := NewStore(storage.NewMemory(), 0, true)

	w := httptest.NewRecorder()
	store.Create(context.Background(), w, NewData("b"))

	if c := findCookie(t, w, CookieName); !c.Secure {
		t.Error("expected Secure=true for secure store")
	}
}

func TestBrowser(t *testing.T) {
	store := NewStore(storage.NewMemory(), 0, false)

	t.Run("issues a new id", func(t *testing.T) {
		w := httptest.NewRecorder()
		id := store.Browser(w, httptest.NewRequest("GET", "/", nil))
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("browser id %q is not a uuid", id)
		}
		c := findCookie(t, w, BrowserCookieName)
		if c.Value != id || c.MaxAge <= int(DefaultTTL.Seconds()) {
			t.Errorf("cookie = %q max-age %d", c.Value, c.MaxAge)
		}
	})

	t.Run("keeps an existing id", func(t *testing.T) {
		existing := uuid.NewString()
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: BrowserCookieName, Value: existing})
		w := httptest.NewRecorder()

		if got := store.Browser(w, req); got != existing {
			t.Errorf("Browser = %q, want %q", got, existing)
		}
		if len(w.Result().Cookies()) != 0 {
			t.Error("cookie re-issued for a known browser")
		}
	})

	t.Run("replaces a forged id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: BrowserCookieName, Value: "../../etc"})

		if got := store.Browser(httptest.NewRecorder(), req); got == "../../etc" {
			t.Error("invalid browser id accepted")
		}
	})
}

func TestLockSerializesSameSession(t *testing.T) {
	store := NewStore(storage.NewMemory(), 0, false)

	unlock := store.Lock("abc")
	acquired := make(chan struct{})
	go func() {
		release := store.Lock("abc")
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock acquired while the first was held")
	case <-time.After(50 * time.Millisecond):
	}
	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Lock never acquired")
	}
}

func TestSessionValkeyBackend(t *testing.T) {
	store := testValkeyStore(t)
	ctx := context.Background()
	w := httptest.NewRecorder()

	data := NewData(uuid.NewString())
	if _, err := store.Create(ctx, w, data); err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(findCookie(t, w, CookieName))
	retrieved, err := store.Get(ctx, req)
	if err != nil || retrieved == nil {
		t.Fatalf("Get = %v, %v", retrieved, err)
	}
	if retrieved.BrowserID != data.BrowserID {
		t.Errorf("browser id = %q, want %q", retrieved.BrowserID, data.BrowserID)
	}
}
