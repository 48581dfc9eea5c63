// Package client is the HTTP transport to the marketplace backend.
//
// # Overview
//
// Client exposes one typed method per backend endpoint. Requests carry the
// session credential through an explicit Credential value configured in
// Options; nothing relies on ambient cookie handling. Successful responses
// are decoded into the schemas of package models and checked at the
// boundary: missing required keys or failed Validate calls return
// ErrInvalidResponse.
//
// # Error Handling
//
// Failures map to sentinel errors that callers match with errors.Is:
// ErrUnavailable (no response), ErrUnauthorized (401/403), ErrValidation
// (400), ErrNotFound (404) and ErrInvalidResponse. Every non-2xx response
// is an *APIError carrying the backend's message and field errors; it
// unwraps to the matching sentinel.
//
// # Concurrency & Contexts
//
// Client is safe for concurrent use. All methods accept a context and
// honour its cancellation; an optional rate limiter is waited on before
// each request.
package client
