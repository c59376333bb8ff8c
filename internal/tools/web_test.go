package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStripMarkup(t *testing.T) {
	html := `<html><head><style>body{color:red}</style><script>alert(1)</script></head>
	<body><h1>Title</h1><p>Hello   <b>world</b></p></body></html>`
	got := StripMarkup(html)
	if got != "Title Hello world" {
		t.Fatalf("StripMarkup = %q", got)
	}
}

func TestWebFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>fetched content</p></body></html>"))
	}))
	defer srv.Close()

	tool := NewWebFetchTool(0)
	out, err := tool.Execute(context.Background(), map[string]any{"url": srv.URL})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "fetched content" {
		t.Fatalf("output = %q", out)
	}
}

func TestWebFetchRejectsBadScheme(t *testing.T) {
	tool := NewWebFetchTool(0)
	if _, err := tool.Execute(context.Background(), map[string]any{"url": "file:///etc/passwd"}); err == nil {
		t.Fatal("expected invalid url error")
	}
}

func TestWebFetchTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("word ", 200)))
	}))
	defer srv.Close()

	tool := NewWebFetchTool(50)
	out, err := tool.Execute(context.Background(), map[string]any{"url": srv.URL})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "(output truncated)") {
		t.Fatalf("expected truncation, got %q", out)
	}
}

func TestWebSearchMissingKey(t *testing.T) {
	tool := NewWebSearchTool("", "", 5)
	_, err := tool.Execute(context.Background(), map[string]any{"query": "golang"})
	if err == nil || !strings.Contains(err.Error(), "missing search API key") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestWebSearchParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Subscription-Token") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"web":{"results":[{"title":"Go","url":"https://go.dev","description":"The Go site"}]}}`))
	}))
	defer srv.Close()

	tool := NewWebSearchTool("test-key", srv.URL, 5)
	out, err := tool.Execute(context.Background(), map[string]any{"query": "golang"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "https://go.dev") {
		t.Fatalf("output = %q", out)
	}
}
