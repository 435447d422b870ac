package illustrations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"courseware/config"
)

// Client talks to an external text-to-image API and returns the rendered
// image bytes for a prompt.
type Client struct {
	APIURL     string
	APIKey     string
	httpClient *http.Client
}

var ErrDisabled = errors.New("illustration generation is disabled")

const maxImageSize = 10 * 1024 * 1024

func NewClient() *Client {
	return &Client{
		APIURL: config.ILLUSTRATION_API_URL,
		APIKey: config.ILLUSTRATION_API_KEY,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (c *Client) Enabled() bool {
	return config.ILLUSTRATION_ENABLED && c.APIURL != ""
}

func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	body, err := json.Marshal(map[string]string{"inputs": prompt})
	if err != nil {
		return nil, err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		request.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		message, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return nil, fmt.Errorf("illustration API returned %d: %s", response.StatusCode, message)
	}
	return io.ReadAll(io.LimitReader(response.Body, maxImageSize))
}
