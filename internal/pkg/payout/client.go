package payout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gojek/heimdall/v7/httpclient"
)

// Client delivers gold transfers to the external settlement service. Retries
// are the HTTP client's concern; callers treat Send as a single attempt.
type Client struct {
	endpoint string
	http     *httpclient.Client
}

func NewClient(endpoint string) (*Client, error) {
	client := httpclient.NewClient(
		httpclient.WithHTTPTimeout(10*time.Second),
		httpclient.WithRetryCount(2),
	)
	return &Client{endpoint: endpoint, http: client}, nil
}

type transferRequest struct {
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

func (c *Client) Send(ctx context.Context, recipient string, amount int64) error {
	body, err := json.Marshal(transferRequest{Recipient: recipient, Amount: amount})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/transfers", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("transfer to %s rejected: %s", recipient, resp.Status)
	}
	return nil
}
