package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var (
	scriptStyleRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagRe         = regexp.MustCompile(`(?s)<[^>]*>`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// WebSearchTool queries an external web-search API. The API key is a
// platform configuration value; its absence is a tool error, not a crash.
type WebSearchTool struct {
	APIKey     string
	APIBase    string
	MaxResults int
	httpClient *http.Client
}

// NewWebSearchTool creates a WebSearchTool against a Brave-compatible API.
func NewWebSearchTool(apiKey, apiBase string, maxResults int) *WebSearchTool {
	if apiBase == "" {
		apiBase = "https://api.search.brave.com/res/v1"
	}
	if maxResults == 0 {
		maxResults = 5
	}
	return &WebSearchTool{
		APIKey:     apiKey,
		APIBase:    strings.TrimSuffix(apiBase, "/"),
		MaxResults: maxResults,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *WebSearchTool) Name() string { return "web_search" }

func (t *WebSearchTool) Description() string {
	return "Search the web and return titles, URLs, and snippets for the top results."
}

func (t *WebSearchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The search query",
			},
			"count": map[string]any{
				"type":        "integer",
				"description": "Number of results to return",
				"minimum":     1,
				"maximum":     10,
			},
		},
		"required": []string{"query"},
	}
}

func (t *WebSearchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	query := GetString(params, "query", "")
	if query == "" {
		return "", fmt.Errorf("query is required")
	}
	if strings.TrimSpace(t.APIKey) == "" {
		return "", fmt.Errorf("web search is not configured: missing search API key")
	}
	count := GetInt(params, "count", t.MaxResults)
	if count <= 0 || count > 10 {
		count = t.MaxResults
	}

	reqURL := fmt.Sprintf("%s/web/search?q=%s&count=%d", t.APIBase, url.QueryEscape(query), count)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", t.APIKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search API error (status %d): %s", resp.StatusCode, truncate(string(body), 500))
	}

	var parsed struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Web.Results) == 0 {
		return "No results found.", nil
	}

	var sb strings.Builder
	for i, r := range parsed.Web.Results {
		if i >= count {
			break
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n   %s\n   %s\n", i+1, r.Title, r.URL, r.Description))
	}
	return sb.String(), nil
}

// WebFetchTool fetches a URL and returns its visible text: markup stripped,
// whitespace collapsed, truncated to a character budget.
type WebFetchTool struct {
	MaxChars   int
	httpClient *http.Client
}

func NewWebFetchTool(maxChars int) *WebFetchTool {
	if maxChars == 0 {
		maxChars = 20000
	}
	return &WebFetchTool{
		MaxChars:   maxChars,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *WebFetchTool) Name() string { return "web_fetch" }

func (t *WebFetchTool) Description() string {
	return "Fetch a URL and return its text content with markup removed."
}

func (t *WebFetchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "The URL to fetch",
			},
		},
		"required": []string{"url"},
	}
}

func (t *WebFetchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	rawURL := GetString(params, "url", "")
	if rawURL == "" {
		return "", fmt.Errorf("url is required")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("invalid url: %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "crewboard-agent/1.0")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch error (status %d)", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return truncate(StripMarkup(string(body)), t.MaxChars), nil
}

// StripMarkup removes script/style blocks and tags, then collapses
// whitespace.
func StripMarkup(html string) string {
	text := scriptStyleRe.ReplaceAllString(html, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
