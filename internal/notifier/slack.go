package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/boardscan/internal/model"
	"github.com/amishk599/boardscan/internal/textutil"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// MaxDigestJobs caps how many jobs are listed in one Slack message.
const MaxDigestJobs = 20

// SlackNotifier sends a scan digest to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
	sleep      func(time.Duration)
}

// NewSlackNotifier returns a notifier that posts scan digests to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
		sleep:      time.Sleep,
	}
}

// Notify sends all jobs as a single Block Kit message. Nothing is sent for an
// empty list.
func (s *SlackNotifier) Notify(jobs []model.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	body, err := json.Marshal(buildPayload(jobs))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	status, retryAfter, err := s.post(body)
	if err != nil {
		return err
	}
	if status == http.StatusTooManyRequests {
		s.logger.Warn("slack rate limited, retrying", "retry_after", retryAfter)
		s.sleep(retryAfter)

		status, _, err = s.post(body)
		if err != nil {
			return fmt.Errorf("retry: %w", err)
		}
		if status != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", status)
		}
		s.logger.Info("slack digest sent", "jobs", len(jobs), "retried", true)
		return nil
	}
	if status != http.StatusOK {
		return fmt.Errorf("slack returned %d", status)
	}
	s.logger.Info("slack digest sent", "jobs", len(jobs))
	return nil
}

func (s *SlackNotifier) post(body []byte) (int, time.Duration, error) {
	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
	if secs <= 0 {
		secs = 1
	}
	return resp.StatusCode, time.Duration(secs) * time.Second, nil
}

// Block Kit payload types.

type slackPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type      string        `json:"type"`
	Text      *slackText    `json:"text,omitempty"`
	Elements  []slackText   `json:"elements,omitempty"`
	Accessory *slackElement `json:"accessory,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type string    `json:"type"`
	Text slackText `json:"text"`
	URL  string    `json:"url"`
}

// SendTestMessage sends a dummy match to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	testJob := model.Job{
		Title:    "Test Notification: Integration Verified",
		Company:  "boardscan",
		Location: "Remote",
		URL:      "https://jobs.lever.co/",
		PostedAt: time.Now().UTC().Format(time.RFC3339),
		Source:   model.SourceLever,
		Tags:     []string{},
	}
	return n.Notify([]model.Job{testJob})
}

func buildPayload(jobs []model.Job) slackPayload {
	summary := fmt.Sprintf("boardscan: %d new match", len(jobs))
	if len(jobs) != 1 {
		summary += "es"
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: summary},
		},
	}

	shown := jobs
	if len(shown) > MaxDigestJobs {
		shown = shown[:MaxDigestJobs]
	}
	for _, j := range shown {
		blocks = append(blocks, jobBlock(j))
	}

	if extra := len(jobs) - len(shown); extra > 0 {
		blocks = append(blocks, slackBlock{
			Type:     "context",
			Elements: []slackText{{Type: "mrkdwn", Text: fmt.Sprintf("…and %d more. Run `boardscan scan` to see them all.", extra)}},
		})
	}
	blocks = append(blocks, slackBlock{Type: "divider"})

	return slackPayload{Text: summary, Blocks: blocks}
}

func jobBlock(j model.Job) slackBlock {
	location := j.Location
	if location == "" {
		location = "n/a"
	}
	lines := []string{
		"*" + escape(j.Title) + "*",
		escape(j.Company) + " · " + escape(location) + " · " + string(j.Source),
	}
	if j.PostedAt != "" {
		lines = append(lines, "Posted: "+escape(j.PostedAt))
	}

	b := slackBlock{
		Type: "section",
		Text: &slackText{Type: "mrkdwn", Text: strings.Join(lines, "\n")},
	}
	if j.URL != "" {
		b.Accessory = &slackElement{
			Type: "button",
			Text: slackText{Type: "plain_text", Text: "Open"},
			URL:  j.URL,
		}
	}
	return b
}

// escape applies Slack's mrkdwn escaping and keeps text to one line.
func escape(s string) string {
	s = textutil.Truncate(strings.Join(strings.Fields(s), " "), 150)
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
