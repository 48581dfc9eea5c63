package session

import "io"

// LoginPath is where the guard sends unauthenticated users.
const LoginPath = "/login"

// Reader is the read side of Store.
type Reader interface {
	Read() bool
}

// Decision is the outcome of a guard check. Redirect is set when not allowed.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Guard gates protected content on the session flag. It has no loading
// state: until the verifier answers it trusts whatever the store holds.
type Guard struct {
	session Reader
}

// NewGuard returns a guard reading the flag from r.
func NewGuard(r Reader) *Guard {
	return &Guard{session: r}
}

// Check allows protected content while the session is authenticated and
// otherwise redirects to the login page.
func (g *Guard) Check() Decision {
	if g.session.Read() {
		return Decision{Allowed: true}
	}
	return Decision{Redirect: LoginPath}
}

// Render calls render with w when the session is authenticated. Otherwise
// render is not called and the login path is returned.
func (g *Guard) Render(w io.Writer, render func(io.Writer) error) (redirect string, err error) {
	d := g.Check()
	if !d.Allowed {
		return d.Redirect, nil
	}
	return "", render(w)
}
