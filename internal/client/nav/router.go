// Package nav maps route paths to pages. Routes are patterns such as
// "/product/:name"; a protected route is only built when the access guard
// lets the session through, otherwise resolution yields the guard's
// redirect.
package nav

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/zamazon/internal/client/session"
	"github.com/dmitrijs2005/zamazon/internal/client/views"
)

var ErrNoRoute = errors.New("no such page")

// Params are the values of a route's :name segments, unescaped.
type Params map[string]string

type Factory func(p Params) (views.Page, error)

type route struct {
	pattern   string
	segments  []string
	protected bool
	build     Factory
}

type Router struct {
	guard  *session.Guard
	routes []route
}

func NewRouter(guard *session.Guard) *Router {
	return &Router{guard: guard}
}

// Handle adds a route. Routes are matched in the order they were added.
func (r *Router) Handle(pattern string, protected bool, build Factory) {
	r.routes = append(r.routes, route{
		pattern:   pattern,
		segments:  split(pattern),
		protected: protected,
		build:     build,
	})
}

// Resolution is the result of resolving a path: either a page to show or a
// path to go to instead. Protected reports whether the matched route is
// behind the guard.
type Resolution struct {
	Path      string
	Page      views.Page
	Redirect  string
	Protected bool
}

func (r *Router) Resolve(path string) (Resolution, error) {
	u, err := url.Parse(path)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %s", ErrNoRoute, path)
	}
	segs := split(u.EscapedPath())

	for _, rt := range r.routes {
		params, ok := match(rt.segments, segs)
		if !ok {
			continue
		}
		if rt.protected {
			if d := r.guard.Check(); !d.Allowed {
				return Resolution{Path: path, Redirect: d.Redirect, Protected: true}, nil
			}
		}
		page, err := rt.build(params)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Path: path, Page: page, Protected: rt.protected}, nil
	}
	return Resolution{}, fmt.Errorf("%w: %s", ErrNoRoute, path)
}

// Patterns lists the registered route patterns.
func (r *Router) Patterns() []string {
	out := make([]string, 0, len(r.routes))
	for _, rt := range r.routes {
		out = append(out, rt.pattern)
	}
	return out
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func match(pattern, segs []string) (Params, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	params := Params{}
	for i, p := range pattern {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			v, err := url.PathUnescape(segs[i])
			if err != nil || v == "" {
				return nil, false
			}
			params[name] = v
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}
