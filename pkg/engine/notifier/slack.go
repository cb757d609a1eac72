package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/DrSkyle/drifthound/pkg/engine/report"
)

// SlackClient handles Slack notifications.
type SlackClient struct {
	WebhookURL string
	Channel    string // Optional: Override default channel
}

// NewSlackClient initializes the Slack integration.
func NewSlackClient(webhookURL string, channel string) *SlackClient {
	return &SlackClient{
		WebhookURL: webhookURL,
		Channel:    channel,
	}
}

// SendDriftReport posts a run summary to the configured webhook.
func (s *SlackClient) SendDriftReport(summary report.Summary) error {
	if s.WebhookURL == "" {
		return nil
	}
	return s.send(s.constructPayload(summary))
}

// constructPayload builds the message blocks.
func (s *SlackClient) constructPayload(summary report.Summary) map[string]interface{} {
	// Determine status icon.
	statusIcon := "🟢"
	if len(summary.FailedChecks) > 0 {
		statusIcon = "🔴"
	} else if summary.Total > 0 {
		statusIcon = "🟡"
	}

	blocks := []map[string]interface{}{
		// Header
		{
			"type": "header",
			"text": map[string]interface{}{
				"type": "plain_text",
				"text": fmt.Sprintf("%s Terraform Drift Report", statusIcon),
			},
		},
		// Context: Date & Source
		{
			"type": "context",
			"elements": []map[string]interface{}{
				{
					"type": "mrkdwn",
					"text": fmt.Sprintf("*Run Date:* %s | *State Source:* %s | *Run ID:* %s", time.Now().Format("2006-01-02"), summary.Source, summary.RunID),
				},
			},
		},
		// Divider
		{
			"type": "divider",
		},
		// Section: Quick Stats
		{
			"type": "section",
			"fields": []map[string]interface{}{
				{
					"type": "mrkdwn",
					"text": fmt.Sprintf("*Unmanaged Resources:*\n%d", summary.Total),
				},
				{
					"type": "mrkdwn",
					"text": fmt.Sprintf("*Ignored by Policy:*\n%d", summary.Ignored),
				},
				{
					"type": "mrkdwn",
					"text": fmt.Sprintf("*Run Duration:*\n%s", summary.Duration.Round(time.Millisecond)),
				},
			},
		},
	}

	if summary.Total > 0 {
		blocks = append(blocks, map[string]interface{}{
			"type": "section",
			"text": map[string]interface{}{
				"type": "mrkdwn",
				"text": "*Drift by Check:*\n" + checkBreakdown(summary.ByCheck),
			},
		})
	}

	// Add partial-result alert.
	if len(summary.FailedChecks) > 0 {
		names := make([]string, 0, len(summary.FailedChecks))
		for _, ce := range summary.FailedChecks {
			names = append(names, ce.Check)
		}
		blocks = append(blocks, map[string]interface{}{
			"type": "section",
			"text": map[string]interface{}{
				"type": "mrkdwn",
				"text": fmt.Sprintf("⚠️ *Partial Result*\nSome checks could not enumerate live state: %v. Drift may be under-reported.", names),
			},
		})
	}

	payload := map[string]interface{}{
		"blocks": blocks,
	}

	if s.Channel != "" {
		payload["channel"] = s.Channel
	}

	return payload
}

func checkBreakdown(byCheck map[string]int) string {
	names := make([]string, 0, len(byCheck))
	for name := range byCheck {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	for _, name := range names {
		fmt.Fprintf(&buf, "• `%s`: %d\n", name, byCheck[name])
	}
	return buf.String()
}

// SendRegressionAlert fires when drift grew since the previous run.
func (s *SlackClient) SendRegressionAlert(previous, current int) error {
	if s.WebhookURL == "" {
		return nil
	}

	payload := map[string]interface{}{
		"blocks": []map[string]interface{}{
			{
				"type": "header",
				"text": map[string]interface{}{
					"type": "plain_text",
					"text": "🔥 Drift Regression Alert",
				},
			},
			{
				"type": "section",
				"text": map[string]interface{}{
					"type": "mrkdwn",
					"text": fmt.Sprintf("Unmanaged resources increased since the last run.\n*Previous:* %d\n*Current:* %d", previous, current),
				},
			},
		},
	}

	if s.Channel != "" {
		payload["channel"] = s.Channel
	}

	return s.send(payload)
}

func (s *SlackClient) send(payload map[string]interface{}) error {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal slack payload: %w", err)
	}

	req, err := http.NewRequest("POST", s.WebhookURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("received non-200 status from slack: %d", resp.StatusCode)
	}

	return nil
}
