package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ankek/terraform-provider-sketch/internal/scene"
)

// maxSceneBytes bounds the size of a fetched scene document
const maxSceneBytes = 32 << 20

// RemoteSceneConfig holds configuration for fetching a scene over HTTP
type RemoteSceneConfig struct {
	URL      string
	Token    string        // Sent as a bearer token when set
	RetryMax int           // Defaults to 3
	Timeout  time.Duration // Per-attempt timeout, defaults to 30s
}

// FetchScene retrieves a scene document from an HTTP(S) endpoint.
func FetchScene(ctx context.Context, config RemoteSceneConfig) ([]byte, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("scene URL cannot be empty")
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 3
	if config.RetryMax > 0 {
		client.RetryMax = config.RetryMax
	}
	client.HTTPClient.Timeout = 30 * time.Second
	if config.Timeout > 0 {
		client.HTTPClient.Timeout = config.Timeout
	}
	client.Logger = nil
	defer client.HTTPClient.CloseIdleConnections()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create scene request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+config.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scene: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("failed to fetch scene (status %d): %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSceneBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read scene response: %w", err)
	}
	if len(data) > maxSceneBytes {
		return nil, fmt.Errorf("scene document exceeds %d bytes", maxSceneBytes)
	}

	return data, nil
}

// LoadRemoteScene fetches and parses a JSON scene document.
func LoadRemoteScene(ctx context.Context, config RemoteSceneConfig) (*scene.Scene, error) {
	data, err := FetchScene(ctx, config)
	if err != nil {
		return nil, err
	}

	s, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse remote scene: %w", err)
	}
	return s, nil
}
