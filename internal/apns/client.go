// Package apns is a token-authenticated client for the Apple Push
// Notification service HTTP/2 API. It signs and caches the ES256 provider
// token, builds the apns-* header set, serializes the notification payload
// with APNs' field-presence rules and classifies the response into a typed
// error taxonomy. It never retries and never logs; every failure is returned
// to the caller.
package apns

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Config identifies the sending client. Immutable once the client is built.
type Config struct {
	// TeamID is the Apple developer team identifier (iss claim).
	TeamID string

	// KeyID identifies the signing key (kid header).
	KeyID string

	// SigningKey is the PEM-encoded .p8 private key downloaded from the
	// developer portal.
	SigningKey []byte

	// Endpoint defaults to Production when zero.
	Endpoint Endpoint
}

// Receipt is the response to an accepted or rejected push: the apns-id
// header APNs always sets, and the apns-unique-id it sometimes adds in the
// development environment. UniqueID is empty when absent.
type Receipt struct {
	ID       string
	UniqueID string
}

// errorResponse is the JSON body of every non-200 answer.
type errorResponse struct {
	Reason    string `json:"reason"`
	Timestamp *int64 `json:"timestamp"`
}

// Client pushes notifications for a single identity. It owns its token
// cache and HTTP transport. Push mutates the cache, so a Client is not safe
// for concurrent use; guard shared instances with a mutex or give each
// worker its own. Distinct clients are fully independent.
type Client struct {
	baseURL string
	tokens  *tokenSource
	http    *http.Client
}

// NewClient parses the signing key and builds a client. A key that does not
// parse fails here with ErrInitialize, not on the first push.
func NewClient(cfg Config) (*Client, error) {
	tokens, err := newTokenSource(cfg.TeamID, cfg.KeyID, cfg.SigningKey)
	if err != nil {
		return nil, err
	}
	endpoint := cfg.Endpoint
	if endpoint == (Endpoint{}) {
		endpoint = Production()
	}
	return &Client{
		baseURL: endpoint.baseURL(),
		tokens:  tokens,
		// No client-level timeout: APNs wants long-lived HTTP/2
		// connections and cancellation belongs to the caller's ctx.
		http: &http.Client{},
	}, nil
}

// Push submits one notification to one device and interprets the answer.
// A *ServiceError means APNs rejected the push; a *TransportError means it
// was never answered. Nothing is retried.
func (c *Client) Push(ctx context.Context, payload *Payload, deviceToken string, opts PushOptions) (*Receipt, error) {
	token, err := c.tokens.bearer()
	if err != nil {
		return nil, err
	}
	headers, err := opts.headers()
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("serialize payload: %w", err)
	}

	url := fmt.Sprintf("%s/3/device/%s", c.baseURL, deviceToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build push request: %w", err)
	}
	req.Header = headers
	req.Header.Set("authorization", "Bearer "+token)
	req.Header.Set("content-type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer res.Body.Close()

	receipt, err := readReceipt(res.Header)
	if err != nil {
		return nil, err
	}
	if res.StatusCode == http.StatusOK {
		return receipt, nil
	}

	var svcErr errorResponse
	if err := json.NewDecoder(res.Body).Decode(&svcErr); err != nil {
		return nil, fmt.Errorf("%w: error body for status %d: %v", ErrInvalidResponse, res.StatusCode, err)
	}
	return nil, &ServiceError{
		StatusCode: res.StatusCode,
		Reason:     svcErr.Reason,
		Timestamp:  svcErr.Timestamp,
		Receipt:    *receipt,
	}
}

// readReceipt pulls the id headers off the response. apns-id is mandatory:
// APNs sets it on every answer, so its absence means the response did not
// come from APNs at all.
func readReceipt(h http.Header) (*Receipt, error) {
	id := h.Get("apns-id")
	if id == "" {
		return nil, fmt.Errorf("%w: missing apns-id header", ErrInvalidResponse)
	}
	if !validHeaderValue(id) {
		return nil, fmt.Errorf("%w: apns-id", ErrHeaderDecode)
	}
	uniqueID := h.Get("apns-unique-id")
	if uniqueID != "" && !validHeaderValue(uniqueID) {
		return nil, fmt.Errorf("%w: apns-unique-id", ErrHeaderDecode)
	}
	return &Receipt{ID: id, UniqueID: uniqueID}, nil
}
