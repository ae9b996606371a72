package marketapi

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Kind classifies a failed call so call sites handle failure as data.
type Kind string

const (
	// KindTransport: the request never produced an HTTP response
	// (connection refused, DNS failure, context cancelled).
	KindTransport Kind = "transport"
	// KindHTTP: the upstream answered with a non-2xx status.
	KindHTTP Kind = "http"
	// KindDecode: a 2xx response carried a body we could not decode.
	KindDecode Kind = "decode"
)

// Error is the single failure shape the client returns. Message prefers the
// server's structured message/error field, then the raw body text, then the
// HTTP status text.
type Error struct {
	Kind    Kind
	Status  int    // 0 for transport failures
	Body    string // raw response body, possibly truncated
	Message string
}

func (e *Error) Error() string { return e.Message }

func IsNotFound(err error) bool     { return statusOf(err) == http.StatusNotFound }
func IsUnauthorized(err error) bool { return statusOf(err) == http.StatusUnauthorized }
func IsForbidden(err error) bool    { return statusOf(err) == http.StatusForbidden }

func statusOf(err error) int {
	if e, ok := err.(*Error); ok {
		return e.Status
	}
	return 0
}

// httpError builds the Error for a non-2xx response body. JSON bodies with a
// "message" (preferred) or "error" field surface that text verbatim.
func httpError(status int, body []byte) *Error {
	text := strings.TrimSpace(string(body))
	msg := ""
	if len(text) > 0 && (text[0] == '{' || text[0] == '[') {
		var payload struct {
			Message string `json:"message"`
			Err     string `json:"error"`
		}
		if json.Unmarshal(body, &payload) == nil {
			if payload.Message != "" {
				msg = payload.Message
			} else if payload.Err != "" {
				msg = payload.Err
			}
		}
	}
	if msg == "" {
		msg = text
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Kind: KindHTTP, Status: status, Body: text, Message: msg}
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: "request failed: " + err.Error()}
}
