package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/zamazon/internal/client/models"
	"github.com/dmitrijs2005/zamazon/internal/logging"
)

type memCookieStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCookieStore() *memCookieStore { return &memCookieStore{data: map[string][]byte{}} }

func (m *memCookieStore) ReplacePrefix(_ context.Context, prefix string, values map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	for k, v := range values {
		m.data[k] = v
	}
	return nil
}

func (m *memCookieStore) List(context.Context) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out, nil
}

// sessionBackend issues a "session" cookie on login and checks it on
// auth-check, the way the marketplace backend does.
func sessionBackend() http.Handler {
	r := chi.NewRouter()
	r.Post("/login", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/", HttpOnly: true})
		writeJSON(w, 200, map[string]string{"message": "Login successful"})
	})
	r.Post("/logout", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "", Path: "/", MaxAge: -1})
		writeJSON(w, 200, map[string]string{"message": "Logged out successfully"})
	})
	r.Get("/auth-check", func(w http.ResponseWriter, req *http.Request) {
		if ck, err := req.Cookie("session"); err == nil && ck.Value == "abc" {
			writeJSON(w, 200, map[string]string{"message": "User is authenticated"})
			return
		}
		writeJSON(w, 401, map[string]string{"message": "User not authenticated"})
	})
	return r
}

func TestCookieCredential_CarriesSessionBetweenRequests(t *testing.T) {
	srv := httptest.NewServer(sessionBackend())
	defer srv.Close()
	ctx := context.Background()

	cred, err := NewCookieCredential(ctx, srv.URL, nil, logging.Discard())
	require.NoError(t, err)
	c, err := New(Options{BaseURL: srv.URL, Credential: cred})
	require.NoError(t, err)

	require.ErrorIs(t, c.AuthCheck(ctx), ErrUnauthorized)
	require.NoError(t, c.Login(ctx, models.Credentials{Email: "a@b.c", Password: "pw"}))
	require.NoError(t, c.AuthCheck(ctx))
	assert.Equal(t, []string{"session"}, cred.Names())

	require.NoError(t, c.Logout(ctx))
	require.ErrorIs(t, c.AuthCheck(ctx), ErrUnauthorized)
	assert.Empty(t, cred.Names())
}

func TestCookieCredential_PersistsAcrossRestarts(t *testing.T) {
	srv := httptest.NewServer(sessionBackend())
	defer srv.Close()
	ctx := context.Background()
	store := newMemCookieStore()

	cred, err := NewCookieCredential(ctx, srv.URL, store, logging.Discard())
	require.NoError(t, err)
	c, err := New(Options{BaseURL: srv.URL, Credential: cred})
	require.NoError(t, err)
	require.NoError(t, c.Login(ctx, models.Credentials{Email: "a@b.c", Password: "pw"}))
	require.Contains(t, store.data, "credential.cookies.session")

	restored, err := NewCookieCredential(ctx, srv.URL, store, logging.Discard())
	require.NoError(t, err)
	c2, err := New(Options{BaseURL: srv.URL, Credential: restored})
	require.NoError(t, err)
	require.NoError(t, c2.AuthCheck(ctx))

	require.NoError(t, c2.Logout(ctx))
	assert.NotContains(t, store.data, "credential.cookies.session")
}

func TestCookieCredential_SkipsExpiredAndForeignKeys(t *testing.T) {
	ctx := context.Background()
	store := newMemCookieStore()
	store.data["isAuthenticated"] = []byte("true")
	store.data["credential.cookies.old"] = []byte(`{"Name":"old","Value":"x","Expires":"` + time.Now().Add(-time.Hour).Format(time.RFC3339) + `"}`)
	store.data["credential.cookies.broken"] = []byte(`{`)

	cred, err := NewCookieCredential(ctx, "http://127.0.0.1:1", store, logging.Discard())
	require.NoError(t, err)
	assert.Empty(t, cred.Names())
}

func TestAnonymous_SendsNoCookies(t *testing.T) {
	var got []*http.Cookie
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got = req.Cookies()
		writeJSON(w, 200, map[string]string{})
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)
	require.NoError(t, c.AuthCheck(context.Background()))
	assert.Empty(t, got)
}
