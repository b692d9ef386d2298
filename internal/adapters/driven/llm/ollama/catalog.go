package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/askdoc-labs/askdoc-cli/internal/core/domain"
)

// Catalog lists models available on an Ollama server. The listing is
// fetched lazily on first use and cached until Invalidate is called,
// so repeated lookups during a session don't hit the server.
type Catalog struct {
	client  *http.Client
	baseURL string

	mu     sync.Mutex
	models []string
	loaded bool
}

// tagsResponse is the Ollama /api/tags response format.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// NewCatalog creates a model catalog for the given Ollama base URL.
func NewCatalog(baseURL string, timeout time.Duration) *Catalog {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Catalog{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Models returns the names of models installed on the server.
func (c *Catalog) Models(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.models, nil
	}

	models, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.models = models
	c.loaded = true
	return c.models, nil
}

// Invalidate discards the cached listing so the next call refetches.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models = nil
	c.loaded = false
}

func (c *Catalog) fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("ollama: failed to create tags request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: listing models: %v", domain.ErrLLMUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: API returned status %d: %s", domain.ErrLLMUnavailable, resp.StatusCode, string(body))
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("ollama: decode tags response: %w", err)
	}

	models := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		models = append(models, m.Name)
	}
	return models, nil
}
