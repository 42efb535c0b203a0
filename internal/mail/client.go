// Package mail sends transactional email through a Resend-compatible HTTP API.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultBaseURL is the hosted provider endpoint.
const DefaultBaseURL = "https://api.resend.com"

// Message is one outbound email.
type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string

	// Attachments carries base64-encoded file content, e.g. a calendar invite.
	Attachments []Attachment
}

// Attachment is one base64-encoded file attached to a Message.
type Attachment struct {
	Filename      string
	ContentBase64 string
	ContentType   string
}

// SendResult reports the provider's message ID and whether test-mode
// redirection was applied.
type SendResult struct {
	ID       string
	TestMode bool
}

// Sender is the interface services depend on; Client is the production
// implementation.
type Sender interface {
	Send(ctx context.Context, msg Message) (SendResult, error)
}

// Client talks to the email provider's REST API.
// In test mode every message is redirected to the configured test inbox and
// the real intended recipients are logged instead of mailed.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	from       string
	testMode   bool
	testInbox  string
	log        *slog.Logger
}

// NewClient constructs a Client. baseURL is the provider root, e.g.
// "https://api.resend.com". Pass testMode=true in development to keep real
// client inboxes untouched.
func NewClient(baseURL, apiKey, from string, testMode bool, testInbox string, log *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		from:       from,
		testMode:   testMode,
		testInbox:  testInbox,
		log:        log,
	}
}

type sendPayload struct {
	From        string           `json:"from"`
	To          []string         `json:"to"`
	Subject     string           `json:"subject"`
	Text        string           `json:"text,omitempty"`
	HTML        string           `json:"html,omitempty"`
	Attachments []attachmentJSON `json:"attachments,omitempty"`
}

type attachmentJSON struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	ContentType string `json:"content_type,omitempty"`
}

// Send delivers one message. Any non-2xx provider response or transport
// failure is returned as an error carrying the provider's message; callers
// decide whether that is fatal — no retry happens here.
func (c *Client) Send(ctx context.Context, msg Message) (SendResult, error) {
	to := msg.To
	if c.testMode {
		c.log.Info("test mode: redirecting email",
			"intended_to", msg.To,
			"redirected_to", c.testInbox,
			"subject", msg.Subject,
		)
		to = []string{c.testInbox}
	}

	payload := sendPayload{
		From:    c.from,
		To:      to,
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	}
	for _, a := range msg.Attachments {
		payload.Attachments = append(payload.Attachments, attachmentJSON{
			Filename:    a.Filename,
			Content:     a.ContentBase64,
			ContentType: a.ContentType,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return SendResult{}, fmt.Errorf("mail.Client.Send: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return SendResult{}, fmt.Errorf("mail.Client.Send: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("mail.Client.Send: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return SendResult{}, fmt.Errorf("mail.Client.Send: provider returned %d: %s", resp.StatusCode, providerMessage(raw))
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return SendResult{}, fmt.Errorf("mail.Client.Send: decode response: %w", err)
	}

	return SendResult{ID: out.ID, TestMode: c.testMode}, nil
}

// providerMessage extracts a human-readable error from a provider response
// body, falling back to the raw body.
func providerMessage(raw []byte) string {
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &e); err == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	return string(raw)
}
