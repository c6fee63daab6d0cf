package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// httpClient wraps net/http for authenticated JSON calls to the processor.
type httpClient struct {
	client  *http.Client
	baseURL string
	creds   CredentialSource
}

func newHTTPClient(baseURL string, creds CredentialSource, timeoutSec int) *httpClient {
	if timeoutSec == 0 {
		timeoutSec = 30 // default timeout
	}
	return &httpClient{
		client: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
		baseURL: baseURL,
		creds:   creds,
	}
}

// postJSON makes a POST request with a JSON payload.
func (c *httpClient) postJSON(ctx context.Context, endpoint string, payload interface{}) (*httpResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
	}

	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.creds())

	log.Debug().
		Str("method", "POST").
		Str("url", url).
		Msg("gateway request")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error().Str("url", url).Err(err).Msg("gateway request failed")
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	return c.handleResponse(resp)
}

// get makes a GET request.
func (c *httpClient) get(ctx context.Context, endpoint string) (*httpResponse, error) {
	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.creds())

	log.Debug().
		Str("method", "GET").
		Str("url", url).
		Msg("gateway request")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error().Str("url", url).Err(err).Msg("gateway request failed")
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	return c.handleResponse(resp)
}

func (c *httpClient) handleResponse(resp *http.Response) (*httpResponse, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	log.Debug().
		Int("status_code", resp.StatusCode).
		Int("body_length", len(body)).
		Msg("gateway response")

	return &httpResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

type httpResponse struct {
	StatusCode int
	Body       []byte
}

// isSuccess checks for a 2xx status code.
func (r *httpResponse) isSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *httpResponse) unmarshal(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}
