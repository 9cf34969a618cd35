/* cups4j - Tests for the HTTP transport layer.
 *
 * See LICENSE for license terms and conditions
 */

package transport

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExchangeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != ContentType {
			t.Errorf("Content-Type = %q, want %q", ct, ContentType)
		}
		body, _ := ioutil.ReadAll(r.Body)
		w.Write(append([]byte("echo:"), body...))
	}))
	defer srv.Close()

	tr := New(nil, nil)
	data, err := tr.Exchange(context.Background(), srv.URL, StaticBody([]byte("hello")), nil)
	if err != nil {
		t.Fatalf("Exchange: %s", err)
	}
	if string(data) != "echo:hello" {
		t.Errorf("got %q, want %q", data, "echo:hello")
	}
}

func TestExchangeNoCredentialsOn401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tr := New(nil, nil)
	_, err := tr.Exchange(context.Background(), srv.URL, StaticBody([]byte("x")), nil)
	if _, ok := err.(*AuthRequiredError); !ok {
		t.Fatalf("got %T (%v), want *AuthRequiredError", err, err)
	}
}

func TestExchangeRetriesOnceWithCredentials(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "bob" || pass != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	tr := New(nil, nil)
	data, err := tr.Exchange(context.Background(), srv.URL, StaticBody([]byte("x")), &Credentials{User: "bob", Password: "hunter2"})
	if err != nil {
		t.Fatalf("Exchange: %s", err)
	}
	if string(data) != "ok" {
		t.Errorf("got %q, want %q", data, "ok")
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestExchangeExhaustsRetry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tr := New(nil, nil)
	_, err := tr.Exchange(context.Background(), srv.URL, StaticBody([]byte("x")), &Credentials{User: "bob", Password: "wrong"})
	if _, ok := err.(*AuthRequiredError); !ok {
		t.Fatalf("got %T (%v), want *AuthRequiredError", err, err)
	}
}

func TestExchangeNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	tr := New(nil, nil)
	_, err := tr.Exchange(context.Background(), srv.URL, StaticBody([]byte("x")), nil)
	herr, ok := err.(*HTTPError)
	if !ok {
		t.Fatalf("got %T (%v), want *HTTPError", err, err)
	}
	if herr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want %d", herr.StatusCode, http.StatusInternalServerError)
	}
}

// TestExchangeDigestChallenge validates a full RFC 2617 qop=auth
// exchange: the server issues a Digest challenge, and the client's
// retry must carry a response hash the server independently recomputes
// and accepts.
func TestExchangeDigestChallenge(t *testing.T) {
	const realm, nonce = "cups", "abc123nonce"
	attempts := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		auth := r.Header.Get("Authorization")
		if auth == "" {
			w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Digest realm="%s", nonce="%s", qop="auth"`, realm, nonce))
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		params := parseDigestHeader(t, auth)
		ha1 := testMD5Hex("carol:" + realm + ":secret")
		ha2 := testMD5Hex("POST:" + r.URL.RequestURI())
		want := testMD5Hex(strings.Join([]string{ha1, nonce, params["nc"], params["cnonce"], "auth", ha2}, ":"))
		if params["response"] != want {
			t.Errorf("digest response = %q, want %q", params["response"], want)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	tr := New(nil, nil)
	data, err := tr.Exchange(context.Background(), srv.URL, StaticBody([]byte("x")), &Credentials{User: "carol", Password: "secret"})
	if err != nil {
		t.Fatalf("Exchange: %s", err)
	}
	if string(data) != "ok" {
		t.Errorf("got %q, want %q", data, "ok")
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestExchangeUnsupportedAuthScheme(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("WWW-Authenticate", `Negotiate`)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tr := New(nil, nil)
	_, err := tr.Exchange(context.Background(), srv.URL, StaticBody([]byte("x")), &Credentials{User: "carol", Password: "secret"})
	if _, ok := err.(*UnsupportedAuthSchemeError); !ok {
		t.Fatalf("got %T (%v), want *UnsupportedAuthSchemeError", err, err)
	}
}

// parseDigestHeader extracts the key="value" (or key=value) params from
// a Digest Authorization header for the test server to recompute against.
func parseDigestHeader(t *testing.T, header string) map[string]string {
	t.Helper()
	header = strings.TrimPrefix(header, "Digest ")
	params := map[string]string{}
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		params[strings.TrimSpace(k)] = strings.Trim(strings.TrimSpace(v), `"`)
	}
	return params
}

func testMD5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestStreamingBodyForcesChunked(t *testing.T) {
	header := []byte("HEADER")
	document := bytes.NewReader([]byte("DOCUMENT"))
	bodyFn := StreamingBody(header, document)

	_, length := bodyFn()
	if length != -1 {
		t.Errorf("length = %d, want -1", length)
	}
}
