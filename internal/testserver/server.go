// Package testserver is an in-memory stand-in for the marketplace backend,
// used by tests across the client. It speaks the same JSON shapes and
// session cookie protocol as the real service for the endpoints the shell
// exercises end to end: auth, account, catalog, cart and purchase history.
package testserver

import (
	"crypto/rand"
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

const SessionCookie = "session"

type User struct {
	ID        int
	Email     string
	Password  string
	Firstname string
	Lastname  string
	Address   string
	Balance   float64
	Seller    bool
}

type Product struct {
	ID          int
	Name        string
	Category    string
	Description string
	Price       float64
	Quantity    int
	SellerID    int
	AvgRating   float64
}

type account struct {
	User
	hash []byte
}

type cartLine struct {
	productID int
	quantity  int
}

type purchase struct {
	id    int
	at    string
	lines []cartLine
	total float64
}

// Request is one request as seen by the server.
type Request struct {
	Method string
	Path   string
	Query  string
}

type Server struct {
	router chi.Router

	mu        sync.Mutex
	key       []byte
	users     map[int]*account
	products  []Product
	carts     map[int][]cartLine
	purchases map[int][]purchase
	nextPID   int
	failures  map[string]int
	requests  []Request
}

func New() *Server {
	s := &Server{
		key:       newKey(),
		users:     make(map[int]*account),
		carts:     make(map[int][]cartLine),
		purchases: make(map[int][]purchase),
		failures:  make(map[string]int),
		nextPID:   100,
	}
	s.router = s.routes()
	return s
}

func newKey() []byte {
	k := make([]byte, 32)
	_, _ = rand.Read(k)
	return k
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery})
	status, fail := s.failures[r.URL.Path]
	if fail {
		delete(s.failures, r.URL.Path)
	}
	s.mu.Unlock()

	if fail {
		writeJSON(w, status, map[string]string{"message": "injected failure"})
		return
	}
	s.router.ServeHTTP(w, r)
}

func (s *Server) AddUser(u User) {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = &account{User: u, hash: hash}
}

func (s *Server) AddProduct(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
}

// FailNext makes the next request to path answer with status.
func (s *Server) FailNext(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = status
}

// ExpireSessions invalidates every issued session cookie.
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = newKey()
}

// Requests returns the requests seen so far whose path starts with prefix.
func (s *Server) Requests(prefix string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, r := range s.requests {
		if strings.HasPrefix(r.Path, prefix) {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/auth-check", s.authCheck)
	r.Post("/login", s.login)
	r.Post("/logout", s.logout)
	r.Post("/register", s.register)

	r.Get("/products", s.listProducts)
	r.Get("/products/{name}", s.productByName)
	r.Get("/products_listings/{name}", s.listingsByName)
	r.Get("/get_product_rating_summary/{name}", s.productRatingSummary)
	r.Get("/get_paginated_reviews_for_product/{name}", s.productReviews)

	r.Group(func(r chi.Router) {
		r.Use(s.requireUser)

		r.Get("/account", s.account)
		r.Patch("/account/update/{field}", s.updateAccount)
		r.Get("/is_seller", s.isSeller)

		r.Get("/get-paginated-carts", s.cart)
		r.Post("/add-to-cart/{id}", s.addToCart)
		r.Patch("/decrease-quantity/{id}", s.decreaseQuantity)
		r.Delete("/delete-item/{id}", s.deleteItem)
		r.Delete("/clear-cart", s.clearCart)
		r.Post("/place-order", s.placeOrder)

		r.Get("/purchase_history", s.purchaseHistory)
		r.Get("/buys-by-order/{id}", s.orderItems)

		r.Get("/count_fulfilled_purchases_of_product/{name}", s.countFulfilledPurchases)
		r.Get("/get_product_review/{name}", s.myProductReview)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func intQuery(r *http.Request, name string, def int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil && v > 0 {
		return v
	}
	return def
}

func pageBounds(n, page, per int) (int, int) {
	start := (page - 1) * per
	if start > n {
		start = n
	}
	end := start + per
	if end > n {
		end = n
	}
	return start, end
}

func totalPages(n, per int) int {
	return int(math.Ceil(float64(n) / float64(per)))
}

func now() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05")
}

// productLocked returns the product with id. s.mu must be held.
func (s *Server) productLocked(id int) (Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (s *Server) sortedProducts(filter string) []Product {
	out := append([]Product(nil), s.products...)
	switch filter {
	case "price_low_high":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case "price_high_low":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case "avg_rating":
		sort.SliceStable(out, func(i, j int) bool { return out[i].AvgRating > out[j].AvgRating })
	}
	return out
}
