/* cups4j - Client facade tying transport, encoding, and error classification together.
 *
 * See LICENSE for license terms and conditions
 */

package cups

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oboehm/cups4j/config"
	"github.com/oboehm/cups4j/internal/cupslog"
	"github.com/oboehm/cups4j/internal/transport"
	"github.com/oboehm/cups4j/ipp"
)

// Client is a stateless handle bundling a target CUPS server, a default
// user identity, and optional credentials (spec §4.4). A Client is safe
// for concurrent use by multiple goroutines: the only shared mutable
// state is the request-id counter in prelude.go, which is atomic.
type Client struct {
	cfg       config.Config
	transport *transport.Transport
}

// NewClient builds a Client from cfg. cfg.User (resolved once, either
// programmatically or via config.Load) becomes the default
// requesting-user-name; it is never re-read per call.
func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:       cfg,
		transport: transport.New(http.DefaultClient, cupslog.Nop()),
	}
}

// WithLogger attaches a structured logger to the client's transport,
// replacing the default no-op logger.
func (c *Client) WithLogger(log *zap.Logger) *Client {
	c.transport = transport.New(c.transport.Client, log)
	return c
}

// WithHTTPClient replaces the underlying http.Client (e.g. to configure
// TLS or timeouts), preserving the configured logger.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.transport = transport.New(httpClient, c.transport.Log)
	return c
}

func (c *Client) credentials() *transport.Credentials {
	if c.cfg.CredentialsUser == "" {
		return nil
	}
	return &transport.Credentials{
		User:     c.cfg.CredentialsUser,
		Password: c.cfg.CredentialsPassword,
	}
}

// userName returns userName if non-empty, else the client's configured
// default user.
func (c *Client) userName(userName string) string {
	if userName != "" {
		return userName
	}
	return c.cfg.User
}

// serverURL is the request target server-scoped operations (Get-Printers,
// Get-Default) target, honoring a configured base path.
func (c *Client) serverURL() string {
	return c.cfg.TargetURL()
}

// printerURL builds the request target for a printer- or job-scoped
// operation. The request always goes to the client's configured server:
// an absolute printer or job URI contributes only its path, appended to
// the configured scheme://host:port; a relative path is resolved against
// the configured host and base path.
func (c *Client) printerURL(printerURI string) string {
	if u, err := url.Parse(printerURI); err == nil && u.Scheme != "" {
		return c.cfg.BaseURL() + u.EscapedPath()
	}
	return c.cfg.ResolvePath(printerURI)
}

// exchange encodes msg, performs one HTTP POST to url, decodes the
// response, and returns it. It does not itself classify the IPP status
// code — callers call checkStatus on the result.
func (c *Client) exchange(ctx context.Context, url string, msg *ipp.Message) (*ipp.Message, error) {
	header, err := msg.EncodeBytes()
	if err != nil {
		return nil, wrapError(KindInvalidArgument, err, "encoding request")
	}
	return c.exchangeBytes(ctx, url, transport.StaticBody(header))
}

// exchangeWithDocument is exchange's Print-Job variant: it streams
// document immediately after msg's encoded bytes, with no separator
// other than the end-of-attributes tag already written by msg.Encode.
func (c *Client) exchangeWithDocument(ctx context.Context, url string, msg *ipp.Message, document io.Reader) (*ipp.Message, error) {
	header, err := msg.EncodeBytes()
	if err != nil {
		return nil, wrapError(KindInvalidArgument, err, "encoding request")
	}
	return c.exchangeBytes(ctx, url, transport.StreamingBody(header, document))
}

func (c *Client) exchangeBytes(ctx context.Context, url string, bodyFn func() (io.Reader, int64)) (*ipp.Message, error) {
	requestID := uuid.New().String()
	ctx = transport.WithRequestID(ctx, requestID)

	respData, err := c.transport.Exchange(ctx, url, bodyFn, c.credentials())
	if err != nil {
		return nil, classifyTransportError(err)
	}

	resp := &ipp.Message{}
	if err := resp.DecodeBytes(respData); err != nil {
		return nil, protocolError(err)
	}

	return resp, nil
}

// classifyTransportError maps a transport-layer error onto the §7
// taxonomy.
func classifyTransportError(err error) error {
	switch e := err.(type) {
	case *transport.HTTPError:
		return &Error{Kind: KindHTTPStatus, HTTPStatus: e.StatusCode, Msg: fmt.Sprintf("unexpected HTTP status %d", e.StatusCode), Err: err}
	case *transport.AuthRequiredError:
		return &Error{Kind: KindAuthRequired, Msg: "authentication required", Err: err}
	case *transport.UnsupportedAuthSchemeError:
		return &Error{Kind: KindAuthRequired, Msg: fmt.Sprintf("server requires an unsupported authentication scheme: %s", e.Scheme), Err: err}
	default:
		var te interface{ Timeout() bool }
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &te) && te.Timeout()) {
			return &Error{Kind: KindTimeout, Msg: err.Error(), Err: err}
		}
		return &Error{Kind: KindTransport, Msg: err.Error(), Err: err}
	}
}
