// Package clients wraps the backend provisioning gateway: simple JSON
// request/response endpoints keyed by subscriber id.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Ruwbdy/Operation-portal-sub000/internal/config"
)

// GatewayClient wraps the HTTP client for the provisioning gateway
type GatewayClient struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// NewGatewayClient creates a gateway client from configuration.
func NewGatewayClient(cfg config.GatewayConfig) *GatewayClient {
	return &GatewayClient{
		baseURL:  cfg.BaseURL,
		username: cfg.Username,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SubscriberProfile is the gateway's view of one subscriber's state.
type SubscriberProfile struct {
	MSISDN       string  `json:"msisdn"`
	Status       string  `json:"status"`
	VoiceProfile string  `json:"voiceProfile"`
	APNProfile   string  `json:"apnProfile"`
	VoLTEEnabled bool    `json:"volteEnabled"`
	MainBalance  string  `json:"mainBalance"`
	Offers       []Offer `json:"offers"`
}

// Offer is one active offer on a subscriber's profile.
type Offer struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ExpiryDate string `json:"expiryDate"`
}

// BatchJobRequest submits one provisioning operation over many subscribers.
type BatchJobRequest struct {
	Operation string   `json:"operation"`
	MSISDNs   []string `json:"msisdns"`
}

// BatchJobResponse acknowledges an accepted batch job.
type BatchJobResponse struct {
	JobID    string `json:"jobId"`
	Accepted int    `json:"accepted"`
}

// gatewayError is the gateway's error envelope.
type gatewayError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetProfile fetches the full subscriber profile.
func (c *GatewayClient) GetProfile(ctx context.Context, msisdn string) (*SubscriberProfile, error) {
	var profile SubscriberProfile
	err := c.call(ctx, http.MethodGet, "/api/subscribers/"+msisdn+"/profile", nil, &profile)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile for %s: %w", msisdn, err)
	}
	return &profile, nil
}

// SetVoLTE activates or deactivates VoLTE for a subscriber.
func (c *GatewayClient) SetVoLTE(ctx context.Context, msisdn string, enabled bool) error {
	body := map[string]bool{"enabled": enabled}
	if err := c.call(ctx, http.MethodPost, "/api/subscribers/"+msisdn+"/volte", body, nil); err != nil {
		return fmt.Errorf("failed to set VoLTE for %s: %w", msisdn, err)
	}
	return nil
}

// ResetAPN resets the subscriber's browsing/APN profile to defaults.
func (c *GatewayClient) ResetAPN(ctx context.Context, msisdn string) error {
	if err := c.call(ctx, http.MethodPost, "/api/subscribers/"+msisdn+"/apn/reset", nil, nil); err != nil {
		return fmt.Errorf("failed to reset APN for %s: %w", msisdn, err)
	}
	return nil
}

// SubmitBatchJob submits a batch provisioning job.
func (c *GatewayClient) SubmitBatchJob(ctx context.Context, req BatchJobRequest) (*BatchJobResponse, error) {
	var resp BatchJobResponse
	if err := c.call(ctx, http.MethodPost, "/api/batch-jobs", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to submit batch job: %w", err)
	}
	return &resp, nil
}

// call performs one JSON request against the gateway. A non-2xx response
// is surfaced as an error carrying the gateway's message when one is
// present.
func (c *GatewayClient) call(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var ge gatewayError
		if err := json.NewDecoder(resp.Body).Decode(&ge); err == nil && ge.Message != "" {
			return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, ge.Message)
		}
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
