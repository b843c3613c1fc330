package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"wayne-chat/pkg/api"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
)

const DefaultTimeout = 10 * time.Second

// Client asks the inference endpoint for completions. Each attempt has its
// own deadline and failed attempts are retried according to the policy.
type Client struct {
	client   *resty.Client
	endpoint string
	timeout  time.Duration
	policy   RetryPolicy
	newTimer func() backoff.Timer
}

type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) { c.policy = policy }
}

// WithTimer replaces the timer used to wait between attempts.
func WithTimer(newTimer func() backoff.Timer) Option {
	return func(c *Client) { c.newTimer = newTimer }
}

func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		client: resty.New().
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
		endpoint: endpoint,
		timeout:  DefaultTimeout,
		policy:   DefaultRetryPolicy,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ask sends prompt to the endpoint and returns the full response text. After
// the retry policy is exhausted the last failure is returned.
func (c *Client) Ask(ctx context.Context, prompt, language, conversationID string) (string, error) {
	req := api.ChatRequest{Prompt: prompt, Language: language, ChatID: conversationID}

	var timer backoff.Timer
	if c.newTimer != nil {
		timer = c.newTimer()
	}

	response, err := Retry(ctx, c.policy, timer, func(ctx context.Context, attempt int) (string, error) {
		return c.attempt(ctx, req)
	})
	if err != nil {
		slog.Error("inference request failed", "chat_id", conversationID, "error", err)
		return "", err
	}
	return response, nil
}

func (c *Client) attempt(ctx context.Context, req api.ChatRequest) (string, error) {
	start := time.Now()
	response, err := c.post(ctx, req)
	attemptDuration.Observe(time.Since(start).Seconds())
	attemptsTotal.WithLabelValues(outcome(err)).Inc()
	return response, err
}

func (c *Client) post(ctx context.Context, req api.ChatRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post(c.endpoint)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: no response within %s", ErrTimeout, c.timeout)
		}
		return "", fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}

	if !res.IsSuccess() {
		return "", fmt.Errorf("%w: status %d", ErrServerError, res.StatusCode())
	}

	var body api.ChatResponse
	if err := json.Unmarshal(res.Body(), &body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponseFormat, err)
	}
	if body.Response == "" {
		return "", fmt.Errorf("%w: missing response field", ErrInvalidResponseFormat)
	}

	return body.Response, nil
}
