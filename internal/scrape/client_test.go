package scrape

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ainav/content-jobs/internal/domain"
	"github.com/ainav/content-jobs/pkg/errors"
	"go.uber.org/zap"
)

type fakeCache struct {
	entries map[string]json.RawMessage
	sets    []string
}

func (f *fakeCache) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if f.entries == nil {
		f.entries = make(map[string]json.RawMessage)
	}
	f.entries[key] = raw
	f.sets = append(f.sets, key)
	return nil
}

func TestCrawlReturnsEnvelopeOnSuccess(t *testing.T) {
	var gotAuth, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req struct {
			URL  string   `json:"url"`
			Tags []string `json:"tags"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		gotBody = req.URL

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"msg":"success","data":{"name":"Tool","url":"https://tool.example.com"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 5*time.Second, []string{"chatbot"}, nil, zap.NewNop())

	result := client.Crawl(context.Background(), "https://tool.example.com")
	if result == nil {
		t.Fatal("expected a result, got nil")
	}
	if result.Code != 200 || result.Msg != "success" {
		t.Errorf("unexpected envelope: %+v", result)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotBody != "https://tool.example.com" {
		t.Errorf("request url = %q", gotBody)
	}
}

func TestCrawlSoftFailsOnBadEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"code":500,"msg":"error","data":null}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", 5*time.Second, nil, nil, zap.NewNop())

	if result := client.Crawl(context.Background(), "https://x.example.com"); result != nil {
		t.Fatalf("expected nil result for bad envelope, got %+v", result)
	}
}

func TestCrawlSoftFailsOnHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", 5*time.Second, nil, nil, zap.NewNop())

	if result := client.Crawl(context.Background(), "https://x.example.com"); result != nil {
		t.Fatalf("expected nil result for HTTP 502, got %+v", result)
	}
}

func TestCrawlSoftFailsOnNetworkFault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // refuse all connections

	client := NewClient(server.URL, "k", time.Second, nil, nil, zap.NewNop())

	if result := client.Crawl(context.Background(), "https://x.example.com"); result != nil {
		t.Fatalf("expected nil result for network fault, got %+v", result)
	}
}

func TestCrawlReportsStatusInAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", 5*time.Second, nil, nil, zap.NewNop())

	_, err := client.crawl(context.Background(), "https://x.example.com")

	var apiErr *errors.APIError
	if !stderrors.As(err, &apiErr) {
		t.Fatalf("got %T, want *errors.APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want 502", apiErr.StatusCode)
	}
}

func TestCrawlReportsEnvelopeInAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"code":500,"msg":"error","data":null}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", 5*time.Second, nil, nil, zap.NewNop())

	_, err := client.crawl(context.Background(), "https://x.example.com")

	var apiErr *errors.APIError
	if !stderrors.As(err, &apiErr) {
		t.Fatalf("got %T, want *errors.APIError", err)
	}
	if apiErr.Context["code"] != 500 {
		t.Errorf("error context code = %v, want 500", apiErr.Context["code"])
	}
}

func TestCrawlUsesCache(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Write([]byte(`{"code":200,"msg":"success","data":{"url":"https://tool.example.com"}}`))
	}))
	defer server.Close()

	cache := &fakeCache{}
	client := NewClient(server.URL, "k", 5*time.Second, nil, cache, zap.NewNop())

	first := client.Crawl(context.Background(), "https://tool.example.com")
	second := client.Crawl(context.Background(), "https://tool.example.com")

	if first == nil || second == nil {
		t.Fatal("expected results from both calls")
	}
	if calls != 1 {
		t.Errorf("API called %d times, want 1 (second should hit cache)", calls)
	}

	var cached domain.ScrapeResult
	hit, err := cache.Get(context.Background(), cacheKey("https://tool.example.com"), &cached)
	if err != nil || !hit {
		t.Fatalf("expected cached envelope, hit=%v err=%v", hit, err)
	}
	if cached.Code != 200 {
		t.Errorf("cached envelope code = %d", cached.Code)
	}
}
