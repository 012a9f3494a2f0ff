package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"RoboticsDaily/internal/config"
	"RoboticsDaily/internal/domain"
	"RoboticsDaily/internal/ports"
)

const (
	summaryContentLimit  = 2000
	categoryContentLimit = 500

	summaryTemperature  = 0.5
	categoryTemperature = 0.3

	errorBodyLimit = 1024
)

var errNoChoices = errors.New("completion returned no choices")

// DeepSeekClient implements ports.AIClient backed by an OpenAI-compatible chat completions API.
type DeepSeekClient struct {
	endpoint          string
	model             string
	apiKey            string
	summaryMaxTokens  int
	categoryMaxTokens int
	vocabulary        []string
	httpClient        *http.Client
}

var _ ports.AIClient = (*DeepSeekClient)(nil)

// NewDeepSeekClient builds a client from configuration.
func NewDeepSeekClient(cfg config.DeepSeekConfig, httpClient *http.Client) (*DeepSeekClient, error) {
	if cfg.APIKey == "" || cfg.Endpoint == "" || cfg.Model == "" {
		return nil, fmt.Errorf("deepseek client misconfigured")
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &DeepSeekClient{
		endpoint:          cfg.Endpoint,
		model:             cfg.Model,
		apiKey:            cfg.APIKey,
		summaryMaxTokens:  positiveOr(cfg.SummaryMaxTokens, 150),
		categoryMaxTokens: positiveOr(cfg.CategoryMaxTokens, 150),
		vocabulary:        domain.CategoryNames(),
		httpClient:        httpClient,
	}, nil
}

// Model names the completion model used.
func (c *DeepSeekClient) Model() string {
	return c.model
}

// Summarize asks for a two to three sentence summary of the article.
func (c *DeepSeekClient) Summarize(ctx context.Context, article domain.Article) (string, error) {
	content := article.Excerpt
	if content == "" {
		content = article.Title
	}

	prompt := fmt.Sprintf(`Summarize this robotics news article in 2-3 clear, informative sentences.
Focus on the key development, who is involved, and why it matters for the robotics industry.

Title: %s

Content: %s

Summary:`, article.Title, clip(content, summaryContentLimit))

	text, err := c.complete(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are an expert robotics journalist who writes concise, informative summaries of robotics news."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.summaryMaxTokens,
		Temperature: summaryTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return text, nil
}

// Categorize asks for up to three labels from the fixed category vocabulary.
func (c *DeepSeekClient) Categorize(ctx context.Context, article domain.Article) ([]domain.CategoryScore, error) {
	content := strings.TrimSpace(article.Title + ". " + article.Excerpt)

	var list strings.Builder
	for _, name := range c.vocabulary {
		list.WriteString("- ")
		list.WriteString(name)
		list.WriteByte('\n')
	}

	prompt := fmt.Sprintf(`Assign this robotics news article to 1-3 of the following categories:

%s
Article: %s

Respond with JSON only, in this exact shape:
{"categories": [{"name": "<category>", "confidence": <0.0-1.0>}]}`, list.String(), clip(content, categoryContentLimit))

	text, err := c.complete(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are an expert robotics analyst who categorizes robotics news articles."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.categoryMaxTokens,
		Temperature: categoryTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("categorize: %w", err)
	}

	return parseCategories(text, c.vocabulary), nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *DeepSeekClient) complete(ctx context.Context, payload chatRequest) (string, error) {
	var resp chatResponse
	if err := c.post(ctx, payload, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *DeepSeekClient) post(ctx context.Context, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return fmt.Errorf("deepseek error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseCategories reads the JSON answer, falling back to name matching on free text.
func parseCategories(text string, vocabulary []string) []domain.CategoryScore {
	var parsed struct {
		Categories []domain.CategoryScore `json:"categories"`
	}
	if raw := jsonObject(text); raw != "" {
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			return parsed.Categories
		}
	}

	lower := strings.ToLower(text)
	var out []domain.CategoryScore
	for _, name := range vocabulary {
		if !strings.Contains(lower, strings.ToLower(name)) {
			continue
		}
		confidence := 0.7
		if len(out) == 0 {
			confidence = 0.9
		}
		out = append(out, domain.CategoryScore{Name: name, Confidence: confidence})
		if len(out) == 3 {
			break
		}
	}
	return out
}

// jsonObject trims code fences and prose around the outermost JSON object.
func jsonObject(text string) string {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

func clip(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
