package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"RoboticsDaily/internal/config"
	"RoboticsDaily/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *DeepSeekClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewDeepSeekClient(config.DeepSeekConfig{
		Endpoint: srv.URL + "/chat/completions",
		Model:    "deepseek-chat",
		APIKey:   "secret",
	}, srv.Client())
	if err != nil {
		t.Fatalf("NewDeepSeekClient returned error: %v", err)
	}
	return client
}

func reply(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
	})
}

func TestSummarizeSendsChatRequest(t *testing.T) {
	t.Parallel()

	var got chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("missing bearer token: %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		reply(w, "  Agility ships Digit to a new warehouse.  ")
	})

	summary, err := client.Summarize(context.Background(), domain.Article{
		Title:   "Digit goes to work",
		Excerpt: strings.Repeat("x", 2500),
	})
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if summary != "Agility ships Digit to a new warehouse." {
		t.Fatalf("unexpected summary %q", summary)
	}
	if got.Model != "deepseek-chat" || got.MaxTokens != 150 || got.Temperature != summaryTemperature {
		t.Fatalf("unexpected request %+v", got)
	}
	if len(got.Messages) != 2 || !strings.Contains(got.Messages[1].Content, strings.Repeat("x", 2000)+"...") {
		t.Fatal("expected excerpt clipped to 2000 runes with ellipsis")
	}
	if strings.Contains(got.Messages[1].Content, strings.Repeat("x", 2001)) {
		t.Fatal("excerpt not clipped")
	}
}

func TestCategorizeParsesJSON(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		reply(w, "```json\n{\"categories\": [{\"name\": \"Humanoid Robots\", \"confidence\": 0.92}, {\"name\": \"Business & Funding\", \"confidence\": 0.6}]}\n```")
	})

	scores, err := client.Categorize(context.Background(), domain.Article{Title: "Figure raises $1B"})
	if err != nil {
		t.Fatalf("Categorize returned error: %v", err)
	}
	if len(scores) != 2 || scores[0].Name != "Humanoid Robots" || scores[0].Confidence != 0.92 {
		t.Fatalf("unexpected scores %+v", scores)
	}
}

func TestCategorizeFallsBackToNameMatching(t *testing.T) {
	t.Parallel()

	scores := parseCategories("I would pick Drones & Aerial Systems and maybe Agricultural Robotics.", domain.CategoryNames())
	if len(scores) != 2 {
		t.Fatalf("expected 2 matches, got %+v", scores)
	}
	if scores[0].Confidence != 0.9 || scores[1].Confidence != 0.7 {
		t.Fatalf("unexpected confidences %+v", scores)
	}
}

func TestErrorStatusIncludesBody(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	})

	_, err := client.Summarize(context.Background(), domain.Article{Title: "t"})
	if err == nil || !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestEmptyChoicesIsError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	if _, err := client.Categorize(context.Background(), domain.Article{Title: "t"}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestMisconfiguredClient(t *testing.T) {
	t.Parallel()

	if _, err := NewDeepSeekClient(config.DeepSeekConfig{Endpoint: "http://x", Model: "m"}, nil); err == nil {
		t.Fatal("expected error without api key")
	}
}
