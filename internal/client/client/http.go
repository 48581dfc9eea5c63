package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/zamazon/internal/client/models"
	"github.com/dmitrijs2005/zamazon/internal/logging"
)

const (
	RequestIDHeader = "X-Request-ID"
	maxBodyBytes    = 4 << 20
)

// Observer receives one call per completed round trip. route is the
// endpoint pattern, not the expanded path. status is 0 when no response
// arrived.
type Observer interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

type Options struct {
	BaseURL string
	Timeout time.Duration

	// RequestsPerSecond <= 0 disables limiting.
	RequestsPerSecond float64
	Burst             int

	Credential Credential
	Logger     logging.Logger
	Observer   Observer

	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	http       *http.Client
	limiter    *rate.Limiter
	credential Credential
	logger     logging.Logger
	observer   Observer

	mu             sync.RWMutex
	onUnauthorized func(ctx context.Context)
}

func New(opts Options) (*Client, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q: scheme must be http or https", opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		http:       hc,
		limiter:    limiter,
		credential: opts.Credential,
		logger:     opts.Logger,
		observer:   opts.Observer,
	}
	if c.credential == nil {
		c.credential = Anonymous{}
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}

	return c, nil
}

// OnUnauthorized registers fn to run whenever the backend answers 401.
func (c *Client) OnUnauthorized(fn func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// call describes one request. route is the endpoint pattern with {param}
// placeholders; path is route with the placeholders filled in and escaped.
type call struct {
	method   string
	route    string
	path     string
	query    url.Values
	body     any
	required []string
}

func endpoint(method, route string, params ...string) call {
	path := route
	for _, p := range params {
		start := strings.IndexByte(path, '{')
		end := strings.IndexByte(path, '}')
		if start < 0 || end < start {
			panic("client: too many params for " + route)
		}
		path = path[:start] + url.PathEscape(p) + path[end+1:]
	}
	if strings.IndexByte(path, '{') >= 0 {
		panic("client: missing params for " + route)
	}
	return call{method: method, route: route, path: path}
}

func (cl call) withQuery(q url.Values) call {
	cl.query = q
	return cl
}

func (cl call) withBody(b any) call {
	cl.body = b
	return cl
}

// expect lists top-level keys that must be present in the response object.
func (cl call) expect(keys ...string) call {
	cl.required = keys
	return cl
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		raw, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", cl.route, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return err
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.credential.Attach(req)

	log := c.logger.With("method", cl.method, "route", cl.route, "request_id", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.observe(cl, 0, elapsed)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.Warn(ctx, "request failed", "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.credential.Update(ctx, resp)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.observe(cl, resp.StatusCode, elapsed)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	log.Debug(ctx, "request done", "path", cl.path, "status", resp.StatusCode, "elapsed", elapsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, data)
		if resp.StatusCode == http.StatusUnauthorized {
			c.unauthorized(ctx)
		}
		if resp.StatusCode >= 500 {
			log.Error(ctx, "backend error", "status", resp.StatusCode, "message", apiErr.Message)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := decode(data, cl.required, out); err != nil {
		log.Warn(ctx, "response rejected", "error", err)
		return fmt.Errorf("%s: %w", cl.route, err)
	}
	return nil
}

func (c *Client) observe(cl call, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(cl.method, cl.route, status, elapsed)
	}
}

func (c *Client) unauthorized(ctx context.Context) {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn(ctx)
	}
}

// decode unmarshals data into out after checking that every required key is
// present, then runs out's Validate when it has one.
func decode(data []byte, required []string, out any) error {
	if len(required) > 0 {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		for _, k := range required {
			if _, ok := obj[k]; !ok {
				return fmt.Errorf("%w: missing %q", ErrInvalidResponse, k)
			}
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if v, ok := out.(models.Validator); ok {
		if err := v.Validate(); err != nil {
			return errors.Join(ErrInvalidResponse, err)
		}
	}
	return nil
}
