package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"concierge/app/config"

	"github.com/samber/do"
	"github.com/samber/oops"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	requestTimeout = 30 * time.Second
)

// Client queries a hosted vector store for document snippets. The endpoint is
// not covered by the completion SDK, so requests are issued directly.
type Client struct {
	cfg        *config.Config
	baseURL    string
	httpClient *http.Client
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	baseURL := defaultBaseURL
	if cfg.OpenAI.BaseURL != "" {
		baseURL = strings.TrimRight(cfg.OpenAI.BaseURL, "/")
	}

	return &Client{
		cfg:     cfg,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}, nil
}

// Search returns ranked snippets for the query, best match first.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if c.cfg.Search.VectorStoreID == "" {
		return nil, oops.Errorf("vector store id is not configured")
	}

	body, err := json.Marshal(searchRequest{
		Query:         query,
		MaxNumResults: c.cfg.Search.MaxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	url := fmt.Sprintf("%s/vector_stores/%s/search", c.baseURL, c.cfg.Search.VectorStoreID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.OpenAI.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, oops.Code("upstream_unavailable").Wrapf(err, "search request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return nil, oops.Code("upstream_unavailable").Errorf("search API returned %d: %s", resp.StatusCode, string(data))
	}

	var parsed searchResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, oops.Code("malformed_output").Wrapf(err, "failed to decode search response")
	}

	results := make([]Result, 0, len(parsed.Data))
	for _, item := range parsed.Data {
		results = append(results, Result{
			FileID:   item.FileID,
			Filename: item.Filename,
			Score:    item.Score,
			Text:     item.joinedText(),
		})
	}

	return results, nil
}
