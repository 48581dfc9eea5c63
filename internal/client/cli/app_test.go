package cli

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/zamazon/internal/client/client"
	"github.com/dmitrijs2005/zamazon/internal/client/metrics"
	"github.com/dmitrijs2005/zamazon/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/zamazon/internal/client/services"
	"github.com/dmitrijs2005/zamazon/internal/client/session"
	"github.com/dmitrijs2005/zamazon/internal/client/storage"
	"github.com/dmitrijs2005/zamazon/internal/logging"
	"github.com/dmitrijs2005/zamazon/internal/testserver"
)

type shell struct {
	backend *testserver.Server
	url     string
	dbPath  string

	// onFirstRead, when set, runs just before the shell reads its first
	// line of input, after the home page has been drawn.
	onFirstRead func(ctx context.Context, auth services.AuthService)
}

type firstRead struct {
	r    io.Reader
	fn   func()
	done bool
}

func (f *firstRead) Read(p []byte) (int, error) {
	if !f.done {
		f.done = true
		f.fn()
	}
	return f.r.Read(p)
}

func newShell(t *testing.T) *shell {
	t.Helper()

	old := startVerifier
	startVerifier = func(ctx context.Context, auth services.AuthService) { auth.Verify(ctx) }
	t.Cleanup(func() { startVerifier = old })

	backend := testserver.New()
	backend.AddUser(testserver.User{ID: 1, Email: "ann@example.com", Password: "secret", Firstname: "Ann", Lastname: "Lee", Balance: 100})
	backend.AddUser(testserver.User{ID: 2, Email: "sam@example.com", Password: "seller", Firstname: "Sam", Lastname: "Green", Seller: true})
	backend.AddProduct(testserver.Product{ID: 10, Name: "Red Rose", Category: "Flowers", Price: 12.5, Quantity: 3, SellerID: 2})

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	return &shell{backend: backend, url: srv.URL, dbPath: filepath.Join(t.TempDir(), "state.db")}
}

func (s *shell) openDB(t *testing.T) (*sql.DB, *metadata.SQLiteRepository) {
	t.Helper()
	db, err := storage.Open(context.Background(), s.dbPath)
	require.NoError(t, err)
	return db, metadata.NewSQLiteRepository(db)
}

// run starts a fresh process against the same state file and feeds it
// lines. It returns everything printed and the session store.
func (s *shell) run(t *testing.T, lines ...string) (string, *session.Store) {
	t.Helper()
	ctx := context.Background()
	logger := logging.Discard()

	db, repo := s.openDB(t)
	defer db.Close()

	store := session.Load(ctx, repo, logger)
	cred, err := client.NewCookieCredential(ctx, s.url, repo, logger)
	require.NoError(t, err)

	collector := metrics.NewCollector(prometheus.NewRegistry())
	api, err := client.New(client.Options{
		BaseURL:    s.url,
		Timeout:    5 * time.Second,
		Credential: cred,
		Logger:     logger,
		Observer:   collector,
	})
	require.NoError(t, err)

	auth := services.NewAuthService(api, store, logger)
	var in io.Reader = strings.NewReader(strings.Join(lines, "\n") + "\n")
	if s.onFirstRead != nil {
		in = &firstRead{r: in, fn: func() { s.onFirstRead(ctx, auth) }}
	}

	var out bytes.Buffer
	app := NewApp(Deps{
		API:     api,
		Auth:    auth,
		Session: store,
		Metrics: collector,
		Logger:  logger,
		In:      in,
		Out:     &out,
	})
	require.NoError(t, app.Run(ctx))
	return out.String(), store
}

// between returns the output from the first from up to the next to.
func between(t *testing.T, out, from, to string) string {
	t.Helper()
	i := strings.Index(out, from)
	require.GreaterOrEqual(t, i, 0, "marker %q not in output:\n%s", from, out)
	j := strings.Index(out[i:], to)
	require.GreaterOrEqual(t, j, 0, "marker %q not after %q:\n%s", to, from, out)
	return out[i : i+j]
}

func TestApp_ShoppingScenario(t *testing.T) {
	s := newShell(t)

	out, store := s.run(t,
		"cart",
		"ann@example.com",
		"secret",
		"product Red Rose",
		"buy 1",
		"cart",
		"order",
		"stats",
		"logout",
		"cart",
	)

	// anonymous home page
	assert.Contains(t, out, "Welcome to Zamazon")
	assert.Contains(t, out, "home | users | account | cart | login | register")
	assert.Contains(t, out, "category: [all] flowers succulents herbs fruit-veg")

	// protected page redirects, login lands on home
	assert.Contains(t, out, "Please login to continue.")
	assert.Contains(t, out, "Logged in.")
	assert.Contains(t, out, "home | users | account | cart | logout")

	product := between(t, out, "Logged in.", "Added to cart.")
	assert.Contains(t, product, "Red Rose")
	assert.Contains(t, product, "Green")
	assert.Contains(t, product, "3 left")
	assert.NotContains(t, product, "Login to purchase")
	assert.Contains(t, out, "Added to cart.")
	assert.Contains(t, out, "$12.50 x 1")

	assert.Regexp(t, `Order \d+ placed on`, out)
	assert.Contains(t, out, "Your cart is empty")
	assert.Contains(t, out, "zamazon_client_requests_total")

	// logout is followed by the guard again
	tail := out[strings.Index(out, "Logged out."):]
	assert.Contains(t, tail, "Please login to continue.")
	assert.Contains(t, tail, "Email")

	assert.False(t, store.Read())
	assert.Len(t, s.backend.Requests("/place-order"), 1)
	assert.Len(t, s.backend.Requests("/logout"), 1)
}

func TestApp_SessionSurvivesRestart(t *testing.T) {
	s := newShell(t)

	_, store := s.run(t, "login", "ann@example.com", "secret", "exit")
	require.True(t, store.Read())

	out, store := s.run(t, "cart", "exit")
	assert.True(t, store.Read())
	assert.NotContains(t, out, "Please login to continue.")
	assert.Contains(t, out, "Your cart is empty")
	assert.Contains(t, out, "Bye!")
}

func TestApp_VerifierSignsOutExpiredSession(t *testing.T) {
	s := newShell(t)

	_, store := s.run(t, "login", "ann@example.com", "secret", "exit")
	require.True(t, store.Read())

	s.backend.ExpireSessions()

	out, store := s.run(t, "account")
	assert.False(t, store.Read())
	assert.Contains(t, out, "Please login to continue.")
}

func TestApp_LoginFailures(t *testing.T) {
	s := newShell(t)

	out, store := s.run(t,
		"login",
		"ann@example.com",
		"wrong",
		"submit",
		"",
		"",
		"exit",
	)

	assert.Contains(t, out, "Invalid email or password")
	assert.Contains(t, out, "email: This field is required.")
	assert.Contains(t, out, "password: This field is required.")
	assert.False(t, store.Read())
}

func TestApp_Register(t *testing.T) {
	s := newShell(t)

	out, store := s.run(t,
		"register",
		"Bea", "Cho", "bea@example.com", "2 Side St", "pw1", "pw2",
		"submit",
		"Bea", "Cho", "bea@example.com", "2 Side St", "pw1", "pw1",
		"bea@example.com",
		"pw1",
		"exit",
	)

	assert.Contains(t, out, "passwords do not match")
	assert.Contains(t, out, "Registration successful")
	assert.Contains(t, out, "Logged in.")
	assert.True(t, store.Read())
	assert.Len(t, s.backend.Requests("/register"), 1)
}

func TestApp_Commands(t *testing.T) {
	s := newShell(t)

	out, _ := s.run(t,
		"help",
		"frobnicate",
		"go /nowhere",
		"category trees",
		"user abc",
		"category herbs",
		"go /products/fruit-veg",
		"exit",
	)

	assert.Contains(t, out, "go <path>")
	assert.Contains(t, out, "/account/update-product/:name")
	assert.Contains(t, out, "filter")
	assert.Contains(t, out, "Unknown command: frobnicate")
	assert.Contains(t, out, "no such page")
	assert.Contains(t, out, "category is one of")
	assert.Contains(t, out, "user <id>")
	assert.Contains(t, out, "category: all flowers succulents [herbs] fruit-veg")
	assert.Contains(t, out, "zamazon /products/fruit-veg> ")
	assert.Contains(t, out, "Bye!")
}

func TestApp_LateVerifierKeepsPageState(t *testing.T) {
	s := newShell(t)
	startVerifier = func(context.Context, services.AuthService) {}
	s.onFirstRead = func(ctx context.Context, auth services.AuthService) { auth.Verify(ctx) }
	for i := 0; i < 12; i++ {
		s.backend.AddProduct(testserver.Product{ID: 100 + i, Name: fmt.Sprintf("Fern %02d", i), Category: "Flowers", Price: 3, Quantity: 1, SellerID: 2})
	}

	out, store := s.run(t, "next", "exit")

	assert.False(t, store.Read())
	assert.Len(t, s.backend.Requests("/auth-check"), 1)
	last := out[strings.LastIndex(out, "page "):]
	assert.True(t, strings.HasPrefix(last, "page 2 of 4"), "last page counter: %q", last)
	assert.NotContains(t, out, "Please login to continue.")
}
