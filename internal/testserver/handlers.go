package testserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

type ctxKey struct{}

func (s *Server) currentUser(r *http.Request) (int, bool) {
	ck, err := r.Cookie(SessionCookie)
	if err != nil {
		return 0, false
	}
	s.mu.Lock()
	key := s.key
	s.mu.Unlock()

	id, err := parseToken(ck.Value, key)
	if err != nil {
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[id]
	return id, ok
}

func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.currentUser(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func userID(r *http.Request) int {
	return r.Context().Value(ctxKey{}).(int)
}

func (s *Server) authCheck(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.currentUser(r); ok {
		writeJSON(w, http.StatusOK, map[string]string{"message": "User is authenticated"})
		return
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "User not authenticated"})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	fields := map[string][]string{}
	if in.Email == "" {
		fields["email"] = []string{"This field is required."}
	}
	if in.Password == "" {
		fields["password"] = []string{"This field is required."}
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid form submission", "errors": fields})
		return
	}

	s.mu.Lock()
	var found *account
	for _, u := range s.users {
		if strings.EqualFold(u.Email, in.Email) {
			found = u
		}
	}
	key := s.key
	s.mu.Unlock()

	if found == nil || bcrypt.CompareHashAndPassword(found.hash, []byte(in.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
		return
	}

	token, err := issueToken(found.ID, key, time.Hour)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: token, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Login successful"})
}

func (s *Server) logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Firstname, Lastname, Email, Address, Password string
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	if in.Firstname == "" || in.Lastname == "" || in.Email == "" || in.Address == "" || in.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing fields in request data"})
		return
	}

	s.mu.Lock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, in.Email) {
			s.mu.Unlock()
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "An account with this email already exists."})
			return
		}
	}
	id := len(s.users) + 1
	for s.users[id] != nil {
		id++
	}
	s.mu.Unlock()

	s.AddUser(User{ID: id, Email: in.Email, Password: in.Password, Firstname: in.Firstname, Lastname: in.Lastname, Address: in.Address})
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Registration successful", "user_id": id})
}

func (s *Server) account(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	u := s.users[userID(r)].User
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": u.ID, "email": u.Email, "address": u.Address,
		"balance": u.Balance, "firstname": u.Firstname, "lastname": u.Lastname,
	})
}

func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request) {
	field := chi.URLParam(r, "field")
	var in struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || len(in.Value) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing value to update"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userID(r)]

	var str string
	_ = json.Unmarshal(in.Value, &str)

	switch field {
	case "firstname":
		u.Firstname = str
	case "lastname":
		u.Lastname = str
	case "address":
		u.Address = str
	case "email":
		for _, other := range s.users {
			if other.ID != u.ID && strings.EqualFold(other.Email, str) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": "An account with this email already exists."})
				return
			}
		}
		u.Email = str
	case "password":
		hash, _ := bcrypt.GenerateFromPassword([]byte(str), bcrypt.MinCost)
		u.hash = hash
	case "balance":
		var v float64
		if err := json.Unmarshal(in.Value, &v); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing value to update"})
			return
		}
		u.Balance = v
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Unknown field"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": field + " updated successfully", "updated_field": field})
}

func (s *Server) isSeller(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	seller := s.users[userID(r)].Seller
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"seller_status": seller})
}

const productsPerPage = 4

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := q.Get("category")
	search := strings.ToLower(q.Get("search"))
	page := intQuery(r, "page", 1)

	s.mu.Lock()
	var matched []Product
	for _, p := range s.sortedProducts(q.Get("filter")) {
		if category != "" && category != "all" && p.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		matched = append(matched, p)
	}
	s.mu.Unlock()

	start, end := pageBounds(len(matched), page, productsPerPage)
	cards := make([]map[string]any, 0, end-start)
	for _, p := range matched[start:end] {
		cards = append(cards, map[string]any{
			"product_id": p.ID, "product_name": p.Name, "min_price": p.Price, "category": p.Category,
			"description": p.Description, "image_url": "", "avg_rating": p.AvgRating,
			"total_reviews": 0, "total_purchases": 0,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": cards, "totalPages": totalPages(len(matched), productsPerPage)})
}

func (s *Server) productByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []map[string]any{}
	for _, p := range s.products {
		if p.Name == name {
			out = append(out, map[string]any{
				"product_id": p.ID, "product_name": p.Name, "price": p.Price, "quantity": p.Quantity,
				"category": p.Category, "description": p.Description, "seller_id": p.SellerID, "avg_rating": p.AvgRating,
			})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listingsByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []map[string]any{}
	for _, p := range s.products {
		if p.Name != name {
			continue
		}
		seller := ""
		if u, ok := s.users[p.SellerID]; ok {
			seller = u.Firstname + " " + u.Lastname
		}
		out = append(out, map[string]any{
			"product_id": p.ID, "product_name": p.Name, "seller_id": p.SellerID, "seller_name": seller,
			"price": p.Price, "quantity": p.Quantity, "active": true,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) cart(w http.ResponseWriter, r *http.Request) {
	page := intQuery(r, "page", 1)
	per := intQuery(r, "itemsPerPage", 5)

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID(r)]
	if len(lines) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"message": "Your cart is empty", "items": []any{}, "total_price": 0, "total_pages": 0})
		return
	}

	total := 0.0
	for _, l := range lines {
		p, _ := s.productLocked(l.productID)
		total += p.Price * float64(l.quantity)
	}

	start, end := pageBounds(len(lines), page, per)
	items := make([]map[string]any, 0, end-start)
	for _, l := range lines[start:end] {
		p, _ := s.productLocked(l.productID)
		items = append(items, map[string]any{
			"product_id": p.ID, "product_name": p.Name, "image_url": "",
			"price": strconv.FormatFloat(p.Price, 'f', 2, 64), "seller_id": p.SellerID, "quantity": l.quantity,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total_price": total, "total_pages": totalPages(len(lines), per)})
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.productLocked(id); !ok || !exists {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "Failed to add"})
		return
	}

	uid := userID(r)
	for i, l := range s.carts[uid] {
		if l.productID == id {
			s.carts[uid][i].quantity++
			writeJSON(w, http.StatusOK, map[string]string{"status": "Item added successfully"})
			return
		}
	}
	s.carts[uid] = append(s.carts[uid], cartLine{productID: id, quantity: 1})
	writeJSON(w, http.StatusOK, map[string]string{"status": "Item added successfully"})
}

func (s *Server) decreaseQuantity(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	uid := userID(r)
	lines := s.carts[uid]
	for i, l := range lines {
		if l.productID != id {
			continue
		}
		if l.quantity <= 1 {
			s.carts[uid] = append(lines[:i:i], lines[i+1:]...)
			writeJSON(w, http.StatusOK, 0)
			return
		}
		lines[i].quantity--
		writeJSON(w, http.StatusOK, lines[i].quantity)
		return
	}
	writeJSON(w, http.StatusOK, 0)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	uid := userID(r)
	lines := s.carts[uid]
	for i, l := range lines {
		if l.productID == id {
			s.carts[uid] = append(lines[:i:i], lines[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"status": "Item removed successfully"})
			return
		}
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "Failed to remove"})
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID(r))
	writeJSON(w, http.StatusOK, map[string]string{"status": "Cart is cleared"})
}

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uid := userID(r)
	lines := s.carts[uid]
	if len(lines) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "Failed to place order", "error": "Cart is empty"})
		return
	}

	total := 0.0
	for _, l := range lines {
		p, _ := s.productLocked(l.productID)
		if p.Quantity < l.quantity {
			writeJSON(w, http.StatusBadRequest, map[string]string{"status": "Failed to place order", "error": "Not enough stock for " + p.Name})
			return
		}
		total += p.Price * float64(l.quantity)
	}

	u := s.users[uid]
	if u.Balance < total {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "Failed to place order", "error": "Insufficient balance"})
		return
	}
	u.Balance -= total

	s.nextPID++
	p := purchase{id: s.nextPID, at: now(), lines: lines, total: total}
	s.purchases[uid] = append(s.purchases[uid], p)
	delete(s.carts, uid)

	writeJSON(w, http.StatusOK, map[string]any{"status": "Order added successfully", "purchase_id": p.id, "date_time": p.at})
}

func (s *Server) purchaseHistory(w http.ResponseWriter, r *http.Request) {
	page := intQuery(r, "page", 1)
	per := intQuery(r, "items_per_page", 3)

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.purchases[userID(r)]
	start, end := pageBounds(len(all), page, per)
	out := make([]map[string]any, 0, end-start)
	for _, p := range all[start:end] {
		n := 0
		for _, l := range p.lines {
			n += l.quantity
		}
		out = append(out, map[string]any{
			"order_id": p.id, "purchase_date": p.at, "total_amount": p.total,
			"number_of_items": n, "fulfillment_status": false,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"purchases": out, "total_pages": totalPages(len(all), per), "total_orders": len(all)})
}

func (s *Server) orderItems(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	items := []map[string]any{}
	for _, p := range s.purchases[userID(r)] {
		if p.id != id {
			continue
		}
		for _, l := range p.lines {
			prod, _ := s.productLocked(l.productID)
			items = append(items, map[string]any{
				"product_id": prod.ID, "product_name": prod.Name, "image_url": "", "quantity": l.quantity,
				"price_at_purchase": prod.Price, "seller_id": prod.SellerID, "at_balance": -p.total,
				"purchase_date": p.at, "fulfillment_status": false,
			})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
