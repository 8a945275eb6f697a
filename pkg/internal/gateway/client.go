package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Client talks to the Social Connect backend. It carries no feed state of its
// own; the feed store owns that. The token may be swapped by a login while
// other requests are in flight.
type Client struct {
	baseURL string

	tokenMu sync.RWMutex
	token   string

	http *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// UseToken attaches a bearer token to every following request.
func (v *Client) UseToken(token string) {
	v.tokenMu.Lock()
	v.token = token
	v.tokenMu.Unlock()
}

func (v *Client) bearerToken() string {
	v.tokenMu.RLock()
	defer v.tokenMu.RUnlock()
	return v.token
}

func (v *Client) url(path string) string {
	return v.baseURL + path
}

func (v *Client) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := jsoniter.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("unable to encode request body: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, v.url(path), body)
	if err != nil {
		return 0, nil, fmt.Errorf("unable to build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := v.bearerToken(); len(token) > 0 {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := v.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request to %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %v", err)
	}

	return resp.StatusCode, raw, nil
}
