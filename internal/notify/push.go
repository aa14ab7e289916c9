package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
)

// ErrNoDeviceTokens is returned when a learner has no registered devices.
var ErrNoDeviceTokens = errors.New("no device tokens registered")

// PushConfig configures the push gateway client.
type PushConfig struct {
	GatewayURL  string
	APIKey      string
	Timeout     time.Duration
	MaxAttempts uint
	RetryDelay  time.Duration
}

// PushClient sends notifications to a push gateway over HTTP. Transient
// gateway failures (transport errors and 5xx responses) are retried a
// bounded number of times per device.
type PushClient struct {
	client      *resty.Client
	tokens      *DeviceTokenStore
	maxAttempts uint
	retryDelay  time.Duration
}

type pushRequest struct {
	DeviceToken string `json:"device_token"`
	Title       string `json:"title"`
	Body        string `json:"body"`
}

// NewPushClient creates a PushClient backed by the given token store.
func NewPushClient(config PushConfig, tokens *DeviceTokenStore) *PushClient {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	maxAttempts := config.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = 3
	}
	retryDelay := config.RetryDelay
	if retryDelay == 0 {
		retryDelay = time.Second
	}

	client := resty.New().
		SetBaseURL(config.GatewayURL).
		SetTimeout(timeout).
		SetHeader("Authorization", "Bearer "+config.APIKey)

	return &PushClient{
		client:      client,
		tokens:      tokens,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
	}
}

// Send implements Notifier. The notification is pushed to every device the
// learner has registered; the first device failure fails the send so the
// caller can count it against this learner.
func (c *PushClient) Send(ctx context.Context, notification Notification) error {
	deviceTokens := c.tokens.Tokens(notification.LearnerID)
	if len(deviceTokens) == 0 {
		return fmt.Errorf("learner %d: %w", notification.LearnerID, ErrNoDeviceTokens)
	}

	for _, token := range deviceTokens {
		if err := c.push(ctx, token, notification); err != nil {
			return fmt.Errorf("c.push(learner %d) > %w", notification.LearnerID, err)
		}
	}
	return nil
}

// retryableStatus reports whether a gateway response is worth retrying.
func retryableStatus(code int) bool {
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}

func (c *PushClient) push(ctx context.Context, deviceToken string, notification Notification) error {
	return retry.Do(
		func() error {
			res, err := c.client.R().
				SetContext(ctx).
				SetBody(pushRequest{
					DeviceToken: deviceToken,
					Title:       notification.Title,
					Body:        notification.Body,
				}).
				Post("/v1/notifications")
			if err != nil {
				return fmt.Errorf("client.R.Post > %w", err)
			}
			if res.IsError() {
				err := fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
				if !retryableStatus(res.StatusCode()) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.maxAttempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
	)
}
