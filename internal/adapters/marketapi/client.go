// Package marketapi is the outbound client for the marketplace REST API
// (base path /api/v1). It is a thin wrapper: one request per call, no
// retries, no circuit breaking. Authenticated calls attach a bearer token;
// public calls strip Authorization unconditionally so endpoints that must
// stay unauthenticated never leak a cached token.
package marketapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"makazi/internal/adapters/observability"
)

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, timeout time.Duration, rps int) *Client {
	if rps <= 0 {
		rps = 10
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// call describes one upstream request.
type call struct {
	method string
	path   string // e.g. "/properties/42"
	query  url.Values
	body   any                           // JSON-encoded when non-nil
	form   func(*multipart.Writer) error // multipart body, exclusive with body
	token  string
	public bool // never send Authorization, even if the caller set one
	header http.Header
}

// do performs a single attempt and decodes a 2xx JSON body into out (out may
// be nil for action endpoints whose body we discard).
func (c *Client) do(ctx context.Context, cl call, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return transportError(err)
	}

	u := c.base + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var rd io.Reader
	contentType := ""
	switch {
	case cl.form != nil:
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		if err := cl.form(mw); err != nil {
			return transportError(err)
		}
		if err := mw.Close(); err != nil {
			return transportError(err)
		}
		rd = &buf
		contentType = mw.FormDataContentType()
	case cl.body != nil:
		b, err := json.Marshal(cl.body)
		if err != nil {
			return transportError(err)
		}
		rd = bytes.NewReader(b)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, rd)
	if err != nil {
		return transportError(err)
	}
	for k, vs := range cl.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "makazi-gateway/1.0")

	if cl.public {
		req.Header.Del("Authorization")
	} else if cl.token != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveUpstream(endpointLabel(cl.method, cl.path), 0, time.Since(start))
		if ctx.Err() != nil {
			return transportError(ctx.Err())
		}
		log.Warn().Str("url", u).Err(err).
			Msg("upstream request failed; is the API server running?")
		return transportError(err)
	}
	defer resp.Body.Close()
	observability.ObserveUpstream(endpointLabel(cl.method, cl.path), resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return httpError(resp.StatusCode, body)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindDecode, Status: resp.StatusCode, Message: "decode response: " + err.Error()}
	}
	return nil
}

// endpointLabel collapses path segments that look like identifiers so metric
// cardinality stays bounded.
func endpointLabel(method, path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if s == "" {
			continue
		}
		if _, err := strconv.ParseInt(s, 10, 64); err == nil || looksLikeRef(s) {
			segs[i] = ":id"
		}
	}
	return method + " " + strings.Join(segs, "/")
}

// looksLikeRef matches provider checkout references (long mixed tokens).
func looksLikeRef(s string) bool {
	if len(s) < 16 {
		return false
	}
	for _, r := range s {
		if !(r == '-' || r == '_' || (r >= '0' && r <= '9') ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return strings.ContainsAny(s, "0123456789")
}
