// Package session provides storage-backed HTTP page sessions.
// A session holds one page session's editing state (the prompt workspace
// and the two settings documents) and is identified by a random cookie.
// A second, long-lived cookie identifies the browser; it names the
// namespace the settings documents are saved under.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"promptlib/internal/prompt"
	"promptlib/internal/settings"
	"promptlib/internal/storage"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "pl_session"

	// BrowserCookieName identifies the browser across sessions.
	BrowserCookieName = "pl_browser"

	// DefaultTTL is how long an idle session lives before expiry.
	DefaultTTL = 24 * time.Hour

	// browserTTL keeps the browser id for a year.
	browserTTL = 365 * 24 * time.Hour

	// keyPrefix namespaces session keys in the backing storage.
	keyPrefix = "session:"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32

	// lockStripes bounds the per-session lock table.
	lockStripes = 64
)

// Data holds the session payload. ID is not serialized; Load and Create set it.
type Data struct {
	ID         string               `json:"-"`
	BrowserID  string               `json:"browser_id"`
	Workspace  *prompt.Workspace    `json:"workspace"`
	Profile    *settings.Profile    `json:"profile"`
	Guidelines *settings.Guidelines `json:"guidelines"`
	CreatedAt  time.Time            `json:"created_at"`
}

// NewData returns the state a fresh page session starts with.
func NewData(browserID string) *Data {
	return &Data{
		BrowserID:  browserID,
		Workspace:  prompt.NewWorkspace(),
		Profile:    settings.NewProfile(),
		Guidelines: settings.NewGuidelines(),
	}
}

// fill replaces missing parts with their defaults, so payloads written
// before a part existed still decode into a usable session.
func (d *Data) fill() {
	if d.Workspace == nil {
		d.Workspace = prompt.NewWorkspace()
	}
	if d.Profile == nil {
		d.Profile = settings.NewProfile()
	}
	if d.Guidelines == nil {
		d.Guidelines = settings.NewGuidelines()
	}
}

// Store manages session lifecycle in a storage backend. Expiry is the
// backend's job: Valkey-backed stores are built with a key TTL.
type Store struct {
	backend storage.Storage
	ttl     time.Duration
	secure  bool
	locks   [lockStripes]sync.Mutex
}

// NewStore creates a session store over backend. secure marks cookies
// Secure and should be set when serving over TLS.
func NewStore(backend storage.Storage, ttl time.Duration, secure bool) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{backend: backend, ttl: ttl, secure: secure}
}

// Lock serializes requests of one session within this process. The
// returned function releases the lock.
func (s *Store) Lock(id string) func() {
	h := fnv.New32a()
	h.Write([]byte(id))
	mu := &s.locks[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}

// Browser returns the browser id from the request cookie, issuing a new
// one when the cookie is missing or not a valid id.
func (s *Store) Browser(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(BrowserCookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     BrowserCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(browserTTL.Seconds()),
	})
	return id
}

// Create generates a new session, stores it, and sets the session cookie
// on the response. Returns the session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data.ID = id
	data.CreatedAt = time.Now()
	data.fill()

	if err := s.Save(ctx, data); err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})

	return id, nil
}

// Get retrieves session data using the session ID from the request
// cookie. Returns nil if no valid session exists.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil // No cookie = no session (not an error)
	}

	return s.Load(ctx, cookie.Value)
}

// Load retrieves the session with the given ID. Returns nil if it does
// not exist.
func (s *Store) Load(ctx context.Context, id string) (*Data, error) {
	payload, ok, err := s.backend.GetItem(ctx, keyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	if !ok {
		return nil, nil // Session expired or doesn't exist
	}

	var data Data
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	data.ID = id
	data.fill()

	return &data, nil
}

// Save writes the session back under its ID. With a TTL backend this
// also renews the expiry.
func (s *Store) Save(ctx context.Context, data *Data) error {
	if data.ID == "" {
		return fmt.Errorf("session save: missing id")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}

	if err := s.backend.SetItem(ctx, keyPrefix+data.ID, string(payload)); err != nil {
		return fmt.Errorf("session save: %w", err)
	}

	return nil
}

// Destroy removes the session and clears the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil // No cookie, nothing to destroy
	}

	if err := s.backend.RemoveItem(ctx, keyPrefix+cookie.Value); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}

	// Expire the cookie immediately.
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		MaxAge:   -1,
	})

	return nil
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
