package slacklog

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
)

// Transport is the delivery capability: send one serialized notification
// document, report success or failure. Implementations make exactly one
// attempt; retrying or queuing is out of scope.
type Transport interface {
	Post(ctx context.Context, body []byte) error
}

// Client posts notification documents to a Slack incoming-webhook URL.
type Client struct {
	url    string
	client *http.Client
}

/**
 * NewClient creates the default webhook transport.
 *
 * @param url Slack incoming-webhook URL
 * @return *Client Ready-to-use transport with a 10 second request timeout
 */
func NewClient(url string) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Post sends the serialized document. Any transport failure, including a
// non-2xx response, comes back as a generic error; the caller decides how to
// report it.
func (c *Client) Post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slacklog: create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("slacklog: send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("slacklog: webhook returned status %d", resp.StatusCode)
	}

	return nil
}
