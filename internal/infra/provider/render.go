package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/craftly/craftd/internal/resilience/apperr"
)

const renderServiceName = "render"

// RenderClient calls the image rendering service over REST.
type RenderClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewRenderClient creates an image render client.
func NewRenderClient(endpoint, apiKey string) *RenderClient {
	return &RenderClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (p *RenderClient) Name() string { return renderServiceName }

// RenderImage submits a render job and returns the hosted image URL.
// Per-attempt deadlines come from the caller's context; the client itself
// sets no timeout so the executor owns the time budget.
func (p *RenderClient) RenderImage(ctx context.Context, req ImageRequest) (string, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("marshal render request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/v1/render", bytes.NewReader(jsonData))
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("create render request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", apperr.ExternalAPI(renderServiceName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperr.ExternalAPI(renderServiceName, fmt.Errorf("read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == 401 || resp.StatusCode == 403:
		return "", apperr.Unauthorized("render service rejected the configured API key")
	case resp.StatusCode == 429:
		retryAfter := resp.Header.Get("Retry-After")
		return "", apperr.ExternalAPI(renderServiceName,
			fmt.Errorf("rate limited (429), retry after: %s", retryAfter)).WithMeta("throttled", true)
	case resp.StatusCode >= 500:
		return "", apperr.Unavailable(renderServiceName, fmt.Errorf("http %d: %s", resp.StatusCode, body))
	default:
		return "", apperr.ExternalAPI(renderServiceName, fmt.Errorf("http %d: %s", resp.StatusCode, body))
	}

	var renderResp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &renderResp); err != nil {
		return "", apperr.ExternalAPI(renderServiceName, fmt.Errorf("decode response: %w", err))
	}
	if renderResp.URL == "" {
		return "", apperr.ExternalAPI(renderServiceName, fmt.Errorf("render response missing url"))
	}
	return renderResp.URL, nil
}
