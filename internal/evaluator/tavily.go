package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/launchlens/startup-meter/internal/types"
)

const (
	tavilySearchDepth = "basic"
	tavilyMaxResults  = 3
)

// tavilyClient calls the web-search API. Search is strictly best-effort:
// any failure is logged and surfaces as an empty result set, never as an
// error to the caller.
type tavilyClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func newTavilyClient(apiKey, baseURL string) *tavilyClient {
	return &tavilyClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type searchRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type searchResponse struct {
	Results []types.SearchSnippet `json:"results"`
}

// Search runs a single query and returns its snippets in result order.
func (t *tavilyClient) Search(ctx context.Context, query string) []types.SearchSnippet {
	body, err := json.Marshal(searchRequest{
		Query:       query,
		SearchDepth: tavilySearchDepth,
		MaxResults:  tavilyMaxResults,
	})
	if err != nil {
		slog.Warn("Failed to encode search request", "query", query, "error", err)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL, bytes.NewReader(body))
	if err != nil {
		slog.Warn("Failed to build search request", "query", query, "error", err)
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		slog.Warn("Search request failed", "query", query, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("Search API returned non-OK status", "query", query, "status", resp.StatusCode)
		return nil
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		slog.Warn("Failed to decode search response", "query", query, "error", err)
		return nil
	}

	return decoded.Results
}

// searchAll fans the queries out concurrently and flattens the results in
// query order. A failed query contributes nothing; a slow one delays the
// batch since there is no partial short-circuit.
func (t *tavilyClient) searchAll(ctx context.Context, queries []string) []types.SearchSnippet {
	results := make([][]types.SearchSnippet, len(queries))

	done := make(chan struct{})
	for i, query := range queries {
		go func(i int, query string) {
			results[i] = t.Search(ctx, query)
			done <- struct{}{}
		}(i, query)
	}
	for range queries {
		<-done
	}

	var flattened []types.SearchSnippet
	for _, r := range results {
		flattened = append(flattened, r...)
	}
	return flattened
}
