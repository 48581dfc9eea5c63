package services

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/zamazon/internal/client/client"
	"github.com/dmitrijs2005/zamazon/internal/client/models"
	"github.com/dmitrijs2005/zamazon/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/zamazon/internal/client/session"
	"github.com/dmitrijs2005/zamazon/internal/client/storage"
	"github.com/dmitrijs2005/zamazon/internal/logging"
	"github.com/dmitrijs2005/zamazon/internal/testserver"
)

// ---- fakes ----

type fakeAPI struct {
	AuthCheckErr error
	LoginErr     error
	LogoutErr    error
	RegisterRet  models.Registration
	RegisterErr  error

	AuthChecks   int
	LastCreds    models.Credentials
	LastRegister models.RegisterRequest
	LogoutCalls  int

	// sessionAtLogout captures the session value seen when Logout reaches
	// the backend.
	session         *fakeSession
	sessionAtLogout *bool
}

func (f *fakeAPI) AuthCheck(context.Context) error {
	f.AuthChecks++
	return f.AuthCheckErr
}

func (f *fakeAPI) Login(_ context.Context, c models.Credentials) error {
	f.LastCreds = c
	return f.LoginErr
}

func (f *fakeAPI) Logout(context.Context) error {
	f.LogoutCalls++
	if f.session != nil {
		v := f.session.value
		f.sessionAtLogout = &v
	}
	return f.LogoutErr
}

func (f *fakeAPI) Register(_ context.Context, r models.RegisterRequest) (models.Registration, error) {
	f.LastRegister = r
	return f.RegisterRet, f.RegisterErr
}

type fakeSession struct {
	value  bool
	writes []bool
}

func (f *fakeSession) Write(_ context.Context, v bool) {
	f.value = v
	f.writes = append(f.writes, v)
}

// ---- tests ----

func TestVerify_WritesServerAnswer(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"confirmed", nil, true},
		{"unauthorized", client.ErrUnauthorized, false},
		{"network", client.ErrUnavailable, false},
		{"server error", &client.APIError{Status: 500}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeAPI{AuthCheckErr: tc.err}
			s := &fakeSession{value: !tc.want}
			svc := NewAuthService(api, s, logging.Discard())

			assert.Equal(t, tc.want, svc.Verify(ctx))
			assert.Equal(t, []bool{tc.want}, s.writes)
		})
	}
}

func TestVerify_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	s := &fakeSession{}
	svc := NewAuthService(api, s, logging.Discard())

	for i := 0; i < 5; i++ {
		require.True(t, svc.Verify(ctx))
		require.True(t, s.value, "call %d", i)
	}
	assert.Equal(t, []bool{true, true, true, true, true}, s.writes)
	assert.Equal(t, 5, api.AuthChecks)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success writes true", func(t *testing.T) {
		api := &fakeAPI{}
		s := &fakeSession{}
		require.NoError(t, NewAuthService(api, s, logging.Discard()).Login(ctx, "ann@example.com", "pw"))
		assert.Equal(t, models.Credentials{Email: "ann@example.com", Password: "pw"}, api.LastCreds)
		assert.Equal(t, []bool{true}, s.writes)
	})

	t.Run("failure leaves session alone", func(t *testing.T) {
		api := &fakeAPI{LoginErr: &client.APIError{Status: 401, Message: "Invalid email or password"}}
		s := &fakeSession{}
		err := NewAuthService(api, s, logging.Discard()).Login(ctx, "ann@example.com", "bad")
		require.ErrorIs(t, err, client.ErrUnauthorized)
		assert.Equal(t, "Invalid email or password", client.Message(err))
		assert.Empty(t, s.writes)
	})
}

func TestLogout_IsOptimistic(t *testing.T) {
	ctx := context.Background()

	for _, backendErr := range []error{nil, client.ErrUnavailable, &client.APIError{Status: 500}} {
		s := &fakeSession{value: true}
		api := &fakeAPI{LogoutErr: backendErr, session: s}
		svc := NewAuthService(api, s, logging.Discard())

		err := svc.Logout(ctx)
		if backendErr == nil {
			require.NoError(t, err)
		} else {
			require.Error(t, err)
		}

		assert.False(t, s.value, "local state flips regardless of backend result")
		require.NotNil(t, api.sessionAtLogout)
		assert.False(t, *api.sessionAtLogout, "false is written before the backend call")
		assert.Equal(t, 1, api.LogoutCalls)
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	form := RegisterForm{
		RegisterRequest: models.RegisterRequest{Firstname: "Ann", Lastname: "Lee", Email: "ann@example.com", Address: "1 Elm", Password: "pw1"},
		ConfirmPassword: "pw1",
	}

	t.Run("mismatch is rejected locally", func(t *testing.T) {
		api := &fakeAPI{}
		bad := form
		bad.ConfirmPassword = "pw2"
		_, err := NewAuthService(api, &fakeSession{}, logging.Discard()).Register(ctx, bad)
		require.ErrorIs(t, err, ErrPasswordMismatch)
		assert.Empty(t, api.LastRegister.Email, "backend must not be called")
	})

	t.Run("relays backend answer", func(t *testing.T) {
		api := &fakeAPI{RegisterRet: models.Registration{Message: "Registration successful", UserID: 12}}
		reg, err := NewAuthService(api, &fakeSession{}, logging.Discard()).Register(ctx, form)
		require.NoError(t, err)
		assert.Equal(t, 12, reg.UserID)
		assert.Equal(t, form.RegisterRequest, api.LastRegister)
	})

	t.Run("backend rejection keeps its message", func(t *testing.T) {
		api := &fakeAPI{RegisterErr: &client.APIError{Status: 400, Message: "An account with this email already exists."}}
		_, err := NewAuthService(api, &fakeSession{}, logging.Discard()).Register(ctx, form)
		require.ErrorIs(t, err, client.ErrValidation)
		assert.Equal(t, "An account with this email already exists.", client.Message(err))
	})
}

// The remaining tests run the service against the fake backend and a real
// session store.

func newStack(t *testing.T) (*session.Store, *client.Client, AuthService, *testserver.Server) {
	t.Helper()
	ctx := context.Background()

	backend := testserver.New()
	backend.AddUser(testserver.User{ID: 1, Email: "ann@example.com", Password: "secret", Firstname: "Ann", Lastname: "Lee"})
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := metadata.NewSQLiteRepository(db)

	cred, err := client.NewCookieCredential(ctx, srv.URL, repo, logging.Discard())
	require.NoError(t, err)
	api, err := client.New(client.Options{BaseURL: srv.URL, Credential: cred})
	require.NoError(t, err)

	store := session.Load(ctx, repo, logging.Discard())
	return store, api, NewAuthService(api, store, logging.Discard()), backend
}

func TestAuthFlow_AgainstBackend(t *testing.T) {
	ctx := context.Background()
	store, _, svc, _ := newStack(t)

	assert.False(t, svc.Verify(ctx))
	assert.False(t, store.Read())

	err := svc.Login(ctx, "ann@example.com", "wrong")
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.False(t, store.Read())

	require.NoError(t, svc.Login(ctx, "ann@example.com", "secret"))
	assert.True(t, store.Read())
	assert.True(t, svc.Verify(ctx))
	assert.True(t, svc.Verify(ctx))

	require.NoError(t, svc.Logout(ctx))
	assert.False(t, store.Read())
	assert.False(t, svc.Verify(ctx))
}

func TestLogout_BackendDownStillSignsOut(t *testing.T) {
	ctx := context.Background()
	store, _, svc, backend := newStack(t)

	require.NoError(t, svc.Login(ctx, "ann@example.com", "secret"))
	backend.FailNext("/logout", 500)

	err := svc.Logout(ctx)
	require.Error(t, err)
	assert.False(t, store.Read())
}

func TestReconcileUnauthorized(t *testing.T) {
	ctx := context.Background()

	t.Run("baseline keeps stale session", func(t *testing.T) {
		store, api, svc, backend := newStack(t)
		require.NoError(t, svc.Login(ctx, "ann@example.com", "secret"))
		backend.ExpireSessions()

		_, err := api.Account(ctx)
		require.ErrorIs(t, err, client.ErrUnauthorized)
		assert.True(t, store.Read())
	})

	t.Run("hardened flips to false", func(t *testing.T) {
		store, api, svc, backend := newStack(t)
		ReconcileUnauthorized(api, store, logging.Discard())
		require.NoError(t, svc.Login(ctx, "ann@example.com", "secret"))
		backend.ExpireSessions()

		_, err := api.Account(ctx)
		require.True(t, errors.Is(err, client.ErrUnauthorized))
		assert.False(t, store.Read())
	})
}
