package push

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

	"github.com/dimasprakoso/lokalive-backend/pkg/config"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
)

const (
	sendPath                  = "/v1/notifications"
	responseBodyLimit   int64 = 1024
	defaultClientTimeout      = 5 * time.Second
)

var errEndpointRequired = errors.New("push endpoint is required")

// Client talks to the buyer-app push gateway. Delivery is best effort; callers
// treat every error as non-fatal.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the push gateway client from config.
func NewClient(cfg config.PushConfig, opts ...Option) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errEndpointRequired
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}

	client := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Notification is the message sent to a single device token.
type Notification struct {
	Token string            `json:"token"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// Send delivers one notification to the gateway.
func (c *Client) Send(ctx context.Context, notification Notification) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "push client not configured")
	}
	if strings.TrimSpace(notification.Token) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "push token is required")
	}
	if strings.TrimSpace(notification.Body) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification body is required")
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal notification")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+sendPath, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build notification request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute notification request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
		return pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"notification request failed",
		)
	}

	return nil
}
