package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"RoboticsDaily/internal/domain"
)

const defaultAPIBase = "https://api.telegram.org"

// Telegram posts run digests to a chat via the bot API.
type Telegram struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

// NewTelegram registers bot token and chat identifier.
func NewTelegram(botToken, chatID string) *Telegram {
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Configured reports whether both token and chat are set.
func (t *Telegram) Configured() bool {
	return t != nil && t.botToken != "" && t.chatID != ""
}

// PublishRun posts a Markdown digest of summary.
func (t *Telegram) PublishRun(ctx context.Context, summary domain.RunSummary) error {
	if !t.Configured() {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botToken)
	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", Digest(summary))
	form.Set("parse_mode", "Markdown")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

// Digest renders the run totals and per-source counts.
func Digest(summary domain.RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Robotics Daily* run `%s` (%s)\n", summary.RunID, summary.Trigger)
	fmt.Fprintf(&b, "new %d, duplicates %d, enriched %d, failed %d\n",
		summary.Totals.New, summary.Totals.Duplicates, summary.Totals.Enriched, summary.Totals.Failed)
	for _, src := range summary.Sources {
		if src.Status == domain.SourceFailed {
			fmt.Fprintf(&b, "- %s: failed\n", src.Source)
			continue
		}
		fmt.Fprintf(&b, "- %s: %d new of %d\n", src.Source, src.New, src.Fetched)
	}
	if summary.TrendingCount > 0 {
		fmt.Fprintf(&b, "trending topics: %d\n", summary.TrendingCount)
	}
	return b.String()
}
