// Package gateway invokes the notes API with SigV4-signed requests on
// behalf of an authenticated session.
package gateway

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mbaxter/notes-serverless/pkg/auth"
)

// GatewayError is a non-200 response from the API, carrying the
// response body text as the error detail.
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway returned HTTP %d: %s", e.StatusCode, e.Body)
}

// IsGatewayError reports whether err is (or wraps) a *GatewayError.
func IsGatewayError(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge)
}

// Authenticator is the session surface the client needs: an
// ensure-authenticated check and access to the cached credentials.
type Authenticator interface {
	EnsureAuthenticated(ctx context.Context) (auth.Status, error)
	Credentials() (auth.Credentials, bool)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request describes one API invocation.
type Request struct {
	Path    string
	Method  string
	Headers map[string]string
	Query   url.Values
	// Body is JSON-serialized when non-nil.
	Body any
}

// Client calls the notes API endpoint.
type Client struct {
	session  Authenticator
	signer   RequestSigner
	client   httpDoer
	endpoint string
}

// NewClient creates an API client for the given endpoint URL, for
// example "https://api.example.com/prod".
func NewClient(session Authenticator, region, endpoint string) *Client {
	return newClient(session, NewSigV4Signer(region), &http.Client{Timeout: 30 * time.Second}, endpoint)
}

func newClient(session Authenticator, signer RequestSigner, client httpDoer, endpoint string) *Client {
	return &Client{
		session:  session,
		signer:   signer,
		client:   client,
		endpoint: strings.TrimSuffix(endpoint, "/"),
	}
}

// Invoke authenticates, signs and performs one API request, returning
// the raw JSON response body. An unauthenticated session fails with
// *auth.NotAuthenticatedError before the signer or transport is
// touched; a non-200 response fails with *GatewayError.
func (c *Client) Invoke(ctx context.Context, req Request) (json.RawMessage, error) {
	status, err := c.session.EnsureAuthenticated(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}
	if status != auth.StatusAuthenticated {
		return nil, &auth.NotAuthenticatedError{}
	}

	var payload []byte
	if req.Body != nil {
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	target := c.endpoint + "/" + strings.TrimPrefix(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	creds, ok := c.session.Credentials()
	if !ok {
		return nil, &auth.NotAuthenticatedError{}
	}

	hash := sha256.Sum256(payload)
	if err := c.signer.Sign(ctx, httpReq, hex.EncodeToString(hash[:]), creds); err != nil {
		return nil, fmt.Errorf("failed to sign request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s %s: %w", method, req.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return json.RawMessage(body), nil
}
