// Package faceverify is the HTTP client for the external face matching
// service.
package faceverify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrServiceUnavailable marks failures worth retrying: transport errors,
// timeouts and non-2xx answers.
var ErrServiceUnavailable = errors.New("face verification service unavailable")

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type verifyRequest struct {
	CapturedImageURL  string `json:"captured_image_url"`
	ReferenceImageURL string `json:"reference_image_url"`
}

type verifyResponse struct {
	Match bool `json:"match"`
}

// Verify asks the service whether both images show the same face.
func (c *Client) Verify(ctx context.Context, capturedImageURL, referenceImageURL string) (bool, error) {
	body, err := json.Marshal(verifyRequest{
		CapturedImageURL:  capturedImageURL,
		ReferenceImageURL: referenceImageURL,
	})
	if err != nil {
		return false, fmt.Errorf("failed to encode verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/verify", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("%w: status %d: %s", ErrServiceUnavailable, resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("%w: invalid response: %v", ErrServiceUnavailable, err)
	}
	return out.Match, nil
}
