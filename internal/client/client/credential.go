package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/dmitrijs2005/zamazon/internal/logging"
)

// Credential carries the server-issued session between requests. The client
// never looks inside it.
type Credential interface {
	// Attach adds the credential to an outgoing request.
	Attach(req *http.Request)
	// Update records whatever the server sent back (Set-Cookie).
	Update(ctx context.Context, resp *http.Response)
}

// Anonymous sends no credential.
type Anonymous struct{}

func (Anonymous) Attach(*http.Request)                    {}
func (Anonymous) Update(context.Context, *http.Response) {}

// CookieStore persists cookies between runs.
type CookieStore interface {
	ReplacePrefix(ctx context.Context, prefix string, values map[string][]byte) error
	List(ctx context.Context) (map[string][]byte, error)
}

const cookieKeyPrefix = "credential.cookies."

// CookieCredential keeps the backend's session cookie in a public-suffix
// aware jar and mirrors the cookies it received into a CookieStore.
type CookieCredential struct {
	base   *url.URL
	store  CookieStore
	logger logging.Logger

	mu   sync.Mutex
	jar  *cookiejar.Jar
	seen map[string]*http.Cookie
}

// NewCookieCredential restores previously saved, unexpired cookies for
// baseURL. store may be nil for an in-memory credential.
func NewCookieCredential(ctx context.Context, baseURL string, store CookieStore, logger logging.Logger) (*CookieCredential, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	c := &CookieCredential{
		base:   base,
		store:  store,
		logger: logger,
		jar:    jar,
		seen:   make(map[string]*http.Cookie),
	}

	if store == nil {
		return c, nil
	}

	saved, err := store.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var restored []*http.Cookie
	for key, raw := range saved {
		if !strings.HasPrefix(key, cookieKeyPrefix) {
			continue
		}
		var ck http.Cookie
		if err := json.Unmarshal(raw, &ck); err != nil {
			logger.Warn(ctx, "credential: drop unreadable cookie", "key", key)
			continue
		}
		if !ck.Expires.IsZero() && ck.Expires.Before(now) {
			continue
		}
		c.seen[ck.Name] = &ck
		restored = append(restored, &ck)
	}
	jar.SetCookies(base, restored)

	return c, nil
}

func (c *CookieCredential) Attach(req *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ck := range c.jar.Cookies(req.URL) {
		req.AddCookie(ck)
	}
}

func (c *CookieCredential) Update(ctx context.Context, resp *http.Response) {
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return
	}

	c.mu.Lock()
	u := c.base
	if resp.Request != nil {
		u = resp.Request.URL
	}
	c.jar.SetCookies(u, cookies)

	for _, ck := range cookies {
		if ck.MaxAge < 0 || (!ck.Expires.IsZero() && ck.Expires.Before(time.Now())) {
			delete(c.seen, ck.Name)
			continue
		}
		c.seen[ck.Name] = ck
	}
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	if err := c.store.ReplacePrefix(ctx, cookieKeyPrefix, snapshot); err != nil {
		c.logger.Error(ctx, "credential: persist cookies", "error", err)
	}
}

// Names lists the cookies currently held, for diagnostics.
func (c *CookieCredential) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []string
	for _, ck := range c.jar.Cookies(c.base) {
		out = append(out, ck.Name)
	}
	return out
}

func (c *CookieCredential) snapshotLocked() map[string][]byte {
	out := make(map[string][]byte, len(c.seen))
	for name, ck := range c.seen {
		raw, err := json.Marshal(ck)
		if err != nil {
			continue
		}
		out[cookieKeyPrefix+name] = raw
	}
	return out
}
