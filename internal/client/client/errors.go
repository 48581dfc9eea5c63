package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrInvalidResponse = errors.New("invalid response")
)

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
	// Fields holds per-field validation messages (login form errors).
	Fields map[string][]string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%d %s", e.Status, msg)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return ErrUnauthorized
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status >= 400 && e.Status < 500:
		return ErrValidation
	default:
		return nil
	}
}

// FieldErrors renders Fields as "field: message" lines in a stable order.
func (e *APIError) FieldErrors() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []string
	for _, k := range keys {
		for _, m := range e.Fields[k] {
			out = append(out, k+": "+m)
		}
	}
	return out
}

// messageKeys are tried in order; backend handlers disagree on the name.
var messageKeys = []string{"message", "error", "description", "status"}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return e
	}

	for _, k := range messageKeys {
		var s string
		if raw, ok := payload[k]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
			e.Message = s
			break
		}
	}

	if raw, ok := payload["errors"]; ok {
		var fields map[string][]string
		if json.Unmarshal(raw, &fields) == nil {
			e.Fields = fields
		} else {
			var single map[string]string
			if json.Unmarshal(raw, &single) == nil {
				e.Fields = make(map[string][]string, len(single))
				for k, v := range single {
					e.Fields[k] = []string{v}
				}
			}
		}
	}

	return e
}

// Message returns the text to show a user for err: the backend's own
// message when there is one, otherwise err's text.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			if fe := apiErr.FieldErrors(); len(fe) > 0 {
				return apiErr.Message + " (" + strings.Join(fe, "; ") + ")"
			}
			return apiErr.Message
		}
	}
	return err.Error()
}
