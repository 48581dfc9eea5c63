package testserver

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func post(t *testing.T, c *http.Client, url, body string) *http.Response {
	t.Helper()
	resp, err := c.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, c *http.Client, url string) *http.Response {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_LoginSessionLifecycle(t *testing.T) {
	backend := New()
	backend.AddUser(User{ID: 1, Email: "ann@example.com", Password: "secret", Firstname: "Ann", Lastname: "Lee"})
	srv := httptest.NewServer(backend)
	defer srv.Close()

	c := newClient(t)

	assert.Equal(t, http.StatusUnauthorized, get(t, c, srv.URL+"/auth-check").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, post(t, c, srv.URL+"/login", `{"email":"ann@example.com","password":"nope"}`).StatusCode)
	assert.Equal(t, http.StatusOK, post(t, c, srv.URL+"/login", `{"email":"ann@example.com","password":"secret"}`).StatusCode)
	assert.Equal(t, http.StatusOK, get(t, c, srv.URL+"/auth-check").StatusCode)

	backend.ExpireSessions()
	assert.Equal(t, http.StatusUnauthorized, get(t, c, srv.URL+"/auth-check").StatusCode)
}

func TestServer_LoginMissingFields(t *testing.T) {
	srv := httptest.NewServer(New())
	defer srv.Close()

	resp := post(t, newClient(t), srv.URL+"/login", `{"email":""}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Errors, "email")
	assert.Contains(t, body.Errors, "password")
}

func TestServer_FailNextIsOneShot(t *testing.T) {
	backend := New()
	srv := httptest.NewServer(backend)
	defer srv.Close()

	backend.FailNext("/products", http.StatusServiceUnavailable)
	c := newClient(t)

	assert.Equal(t, http.StatusServiceUnavailable, get(t, c, srv.URL+"/products").StatusCode)
	assert.Equal(t, http.StatusOK, get(t, c, srv.URL+"/products").StatusCode)
	assert.Len(t, backend.Requests("/products"), 2)
}

func TestServer_ProductsPagination(t *testing.T) {
	backend := New()
	for i := 1; i <= 6; i++ {
		backend.AddProduct(Product{ID: i, Name: "Rose " + string(rune('A'+i-1)), Category: "flowers", Price: float64(i)})
	}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	resp := get(t, newClient(t), srv.URL+"/products?category=flowers&page=2&filter=price_high_low")
	var page struct {
		Products []struct {
			Name string `json:"product_name"`
		} `json:"products"`
		TotalPages int `json:"totalPages"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))

	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "Rose B", page.Products[0].Name)
}

func TestServer_PlaceOrderChargesBalance(t *testing.T) {
	backend := New()
	backend.AddUser(User{ID: 1, Email: "ann@example.com", Password: "secret", Balance: 10})
	backend.AddProduct(Product{ID: 7, Name: "Basil", Category: "herbs", Price: 4, Quantity: 3})
	srv := httptest.NewServer(backend)
	defer srv.Close()

	c := newClient(t)
	post(t, c, srv.URL+"/login", `{"email":"ann@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, post(t, c, srv.URL+"/add-to-cart/7", "").StatusCode)
	require.Equal(t, http.StatusOK, post(t, c, srv.URL+"/add-to-cart/7", "").StatusCode)
	require.Equal(t, http.StatusOK, post(t, c, srv.URL+"/place-order", "").StatusCode)

	var acct struct {
		Balance float64 `json:"balance"`
	}
	require.NoError(t, json.NewDecoder(get(t, c, srv.URL+"/account").Body).Decode(&acct))
	assert.InDelta(t, 2.0, acct.Balance, 1e-9)

	assert.Equal(t, http.StatusBadRequest, post(t, c, srv.URL+"/place-order", "").StatusCode)
}
