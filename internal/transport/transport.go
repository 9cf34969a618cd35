/* cups4j - HTTP transport: request/response exchange and auth challenge handling.
 *
 * See LICENSE for license terms and conditions
 */

// Package transport implements the HTTP transport layer IPP operations
// are built on: a single POST per call, content negotiation for
// application/ipp, and the single post-401 credential retry mandated by
// the protocol, answering whichever auth scheme the server challenges
// with (Basic or Digest).
package transport

import (
	"bytes"
	"context"
	"crypto/md5"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/oboehm/cups4j/internal/cupslog"
)

// ContentType is the MIME type carried by both the request and response
// body of every IPP exchange.
const ContentType = "application/ipp"

// Credentials carries the username/password pair used to answer an HTTP
// Basic or Digest authentication challenge.
type Credentials struct {
	User     string
	Password string
}

// Transport sends one IPP request body (optionally followed by a
// streamed document payload) and returns the raw response body. It is
// safe for concurrent use by multiple goroutines, mirroring
// http.Client's own concurrency contract.
type Transport struct {
	Client *http.Client // nil means http.DefaultClient
	Log    *zap.Logger  // nil means cupslog.Nop()
}

// New returns a Transport using client (or http.DefaultClient when nil)
// and logger (or a no-op logger when nil).
func New(client *http.Client, logger *zap.Logger) *Transport {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = cupslog.Nop()
	}
	return &Transport{Client: client, Log: logger}
}

// HTTPError is returned for a non-200 response after the auth retry has
// been exhausted or did not apply; internal/transport keeps it
// dependency-free, and cups/client.go converts it into cups.Error.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("transport: unexpected HTTP status %d", e.StatusCode)
}

// AuthRequiredError is returned when a second 401 follows the
// credential retry, or when the server challenged but no credentials
// were configured.
type AuthRequiredError struct{}

func (*AuthRequiredError) Error() string { return "transport: authentication required" }

// UnsupportedAuthSchemeError is returned when the server's
// WWW-Authenticate challenge names a scheme (or a Digest algorithm)
// this package does not know how to answer.
type UnsupportedAuthSchemeError struct {
	Scheme string
}

func (e *UnsupportedAuthSchemeError) Error() string {
	return fmt.Sprintf("transport: unsupported authentication scheme %q", e.Scheme)
}

// Exchange posts body (length bytes, or -1 if unknown, in which case
// chunked transfer encoding is used) to url and returns the full
// response body. If the server answers 401, its WWW-Authenticate
// challenge is inspected and, when creds is non-nil, the request is
// retried once with a Basic or Digest Authorization header built to
// match the challenged scheme.
//
// bodyFn is called once per attempt rather than body being passed
// directly, so Exchange can rebuild the request body for the retry
// without buffering a potentially large document stream in memory.
func (t *Transport) Exchange(ctx context.Context, url string, bodyFn func() (io.Reader, int64), creds *Credentials) ([]byte, error) {
	requestID, _ := ctx.Value(ctxKeyRequestID{}).(string)
	log := t.Log.With(zap.String("request_id", requestID), zap.String("url", url))

	resp, err := t.do(ctx, url, bodyFn, "")
	if err != nil {
		log.Error("transport exchange failed", zap.Error(err))
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		challenge := resp.Header.Get("WWW-Authenticate")
		resp.Body.Close()

		if creds == nil {
			log.Warn("server requires authentication, no credentials configured")
			return nil, &AuthRequiredError{}
		}

		authHeader, err := authorization(parseChallenge(challenge), creds, http.MethodPost, url)
		if err != nil {
			log.Warn("cannot answer authentication challenge", zap.Error(err))
			return nil, err
		}

		log.Debug("retrying after 401 with an authenticated request")
		resp, err = t.do(ctx, url, bodyFn, authHeader)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			log.Warn("authentication retry exhausted")
			return nil, &AuthRequiredError{}
		}
	}

	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		log.Error("reading response body failed", zap.Error(err))
		return nil, fmt.Errorf("transport: reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Warn("unexpected HTTP status", zap.Int("status", resp.StatusCode))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: data}
	}

	log.Debug("exchange complete", zap.Int("response_bytes", len(data)))
	return data, nil
}

func (t *Transport) do(ctx context.Context, url string, bodyFn func() (io.Reader, int64), authHeader string) (*http.Response, error) {
	body, length := bodyFn()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("transport: building request: %w", err)
	}

	req.Header.Set("Content-Type", ContentType)
	req.Header.Set("Accept", ContentType)
	if length >= 0 {
		req.ContentLength = length
	} else {
		req.ContentLength = -1
	}

	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transport: %w", err)
	}
	return resp, nil
}

// challenge is a parsed WWW-Authenticate header (RFC 7235 §4.1).
type challenge struct {
	Scheme    string
	Realm     string
	Nonce     string
	QOP       string
	Opaque    string
	Algorithm string
}

// parseChallenge parses header into a challenge. A missing or empty
// header falls back to Basic, matching servers (including CUPS itself,
// historically) that expect Basic credentials without formally
// challenging for them.
func parseChallenge(header string) challenge {
	header = strings.TrimSpace(header)
	if header == "" {
		return challenge{Scheme: "Basic"}
	}

	scheme, rest, hasParams := strings.Cut(header, " ")
	c := challenge{Scheme: scheme}
	if !hasParams {
		return c
	}

	for _, param := range splitChallengeParams(rest) {
		key, value, ok := strings.Cut(param, "=")
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "realm":
			c.Realm = value
		case "nonce":
			c.Nonce = value
		case "qop":
			c.QOP = preferredQOP(value)
		case "opaque":
			c.Opaque = value
		case "algorithm":
			c.Algorithm = value
		}
	}
	return c
}

// splitChallengeParams splits a comma-separated auth-param list,
// respecting quoted commas (e.g. within a quoted nonce).
func splitChallengeParams(s string) []string {
	var params []string
	var cur strings.Builder
	quoted := false

	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			cur.WriteRune(r)
		case r == ',' && !quoted:
			params = append(params, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		params = append(params, strings.TrimSpace(cur.String()))
	}
	return params
}

// preferredQOP picks "auth" out of a comma-separated qop-options list
// when offered, else the first listed option.
func preferredQOP(value string) string {
	opts := strings.Split(value, ",")
	for _, opt := range opts {
		if strings.TrimSpace(opt) == "auth" {
			return "auth"
		}
	}
	if len(opts) > 0 {
		return strings.TrimSpace(opts[0])
	}
	return ""
}

// authorization builds the Authorization header value answering c, or
// an *UnsupportedAuthSchemeError if c names a scheme or Digest algorithm
// this package cannot answer.
func authorization(c challenge, creds *Credentials, method, rawURL string) (string, error) {
	switch strings.ToLower(c.Scheme) {
	case "basic":
		token := base64.StdEncoding.EncodeToString([]byte(creds.User + ":" + creds.Password))
		return "Basic " + token, nil
	case "digest":
		return digestAuthorization(c, creds, method, rawURL)
	default:
		return "", &UnsupportedAuthSchemeError{Scheme: c.Scheme}
	}
}

// digestAuthorization builds an RFC 2617/7616 Digest Authorization
// header. Only the MD5 algorithm is supported, with or without a
// server-offered "auth" qop; SHA-256 and auth-int are not implemented.
func digestAuthorization(c challenge, creds *Credentials, method, rawURL string) (string, error) {
	if c.Nonce == "" {
		return "", errors.New("transport: digest challenge carries no nonce")
	}
	if c.Algorithm != "" && !strings.EqualFold(c.Algorithm, "MD5") {
		return "", &UnsupportedAuthSchemeError{Scheme: "Digest algorithm=" + c.Algorithm}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("transport: parsing request URL for digest auth: %w", err)
	}
	uri := u.RequestURI()

	ha1 := md5Hex(creds.User + ":" + c.Realm + ":" + creds.Password)
	ha2 := md5Hex(method + ":" + uri)

	var response, nc, cnonce string
	if c.QOP != "" {
		cnonce, err = randomNonce(8)
		if err != nil {
			return "", err
		}
		nc = "00000001"
		response = md5Hex(strings.Join([]string{ha1, c.Nonce, nc, cnonce, c.QOP, ha2}, ":"))
	} else {
		response = md5Hex(strings.Join([]string{ha1, c.Nonce, ha2}, ":"))
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Digest username="%s", realm="%s", nonce="%s", uri="%s", response="%s"`,
		creds.User, c.Realm, c.Nonce, uri, response)
	if c.QOP != "" {
		fmt.Fprintf(&b, `, qop=%s, nc=%s, cnonce="%s"`, c.QOP, nc, cnonce)
	}
	if c.Opaque != "" {
		fmt.Fprintf(&b, `, opaque="%s"`, c.Opaque)
	}
	if c.Algorithm != "" {
		fmt.Fprintf(&b, `, algorithm=%s`, c.Algorithm)
	}
	return b.String(), nil
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func randomNonce(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("transport: generating digest cnonce: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ctxKeyRequestID is the context key used by cups/client.go to attach a
// per-call correlation id (distinct from the wire request-id field) for
// log correlation.
type ctxKeyRequestID struct{}

// WithRequestID returns a context carrying id for log correlation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID{}, id)
}

// StaticBody returns a bodyFn for a fixed, already-in-memory byte slice.
func StaticBody(data []byte) func() (io.Reader, int64) {
	return func() (io.Reader, int64) {
		return bytes.NewReader(data), int64(len(data))
	}
}

// StreamingBody returns a bodyFn that concatenates header (the encoded
// IPP message) with a document stream of unknown length, forcing chunked
// transfer encoding (length == -1) per spec §4.2/§9.
func StreamingBody(header []byte, document io.Reader) func() (io.Reader, int64) {
	return func() (io.Reader, int64) {
		return io.MultiReader(bytes.NewReader(header), document), -1
	}
}
