package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	pushEndpoint  = "/v2/bot/message/push"
	replyEndpoint = "/v2/bot/message/reply"

	defaultSendTimeout = 10 * time.Second

	// The messaging API caps messages per push/reply call.
	maxMessagesPerCall = 5
)

type pushRequest struct {
	To       string    `json:"to"`
	Messages []Message `json:"messages"`
}

type replyRequest struct {
	ReplyToken string    `json:"replyToken"`
	Messages   []Message `json:"messages"`
}

var _ Gateway = (*LineClient)(nil)

// LineClient talks to the LINE Messaging API over HTTPS.
type LineClient struct {
	client        *resty.Client
	channelSecret string
}

func NewLineClient(baseURL, channelToken, channelSecret string) (*LineClient, error) {
	client := resty.New()
	client.SetTimeout(defaultSendTimeout)
	client.SetRetryCount(0)

	return NewLineClientWithClient(baseURL, channelToken, channelSecret, client)
}

func NewLineClientWithClient(baseURL, channelToken, channelSecret string, client *resty.Client) (*LineClient, error) {
	trimmedBase := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmedBase == "" {
		return nil, fmt.Errorf("messaging api base url is required")
	}
	if _, err := url.ParseRequestURI(trimmedBase); err != nil {
		return nil, fmt.Errorf("invalid messaging api base url: %w", err)
	}
	if strings.TrimSpace(channelToken) == "" {
		return nil, fmt.Errorf("channel access token is required")
	}
	if strings.TrimSpace(channelSecret) == "" {
		return nil, fmt.Errorf("channel secret is required")
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(defaultSendTimeout)
	}
	client.SetRetryCount(0)
	client.SetBaseURL(trimmedBase)
	client.SetAuthToken(strings.TrimSpace(channelToken))

	return &LineClient{
		client:        client,
		channelSecret: strings.TrimSpace(channelSecret),
	}, nil
}

func (c *LineClient) PushMessage(ctx context.Context, to string, messages []Message) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("push recipient is required")
	}
	if err := validateMessages(messages); err != nil {
		return err
	}

	return c.send(ctx, pushEndpoint, pushRequest{To: to, Messages: messages})
}

func (c *LineClient) ReplyMessage(ctx context.Context, replyToken string, messages []Message) error {
	if strings.TrimSpace(replyToken) == "" {
		return fmt.Errorf("reply token is required")
	}
	if err := validateMessages(messages); err != nil {
		return err
	}

	return c.send(ctx, replyEndpoint, replyRequest{ReplyToken: replyToken, Messages: messages})
}

// ValidateSignature checks the platform signature header against the raw
// webhook body: base64(HMAC-SHA256(channelSecret, body)).
func (c *LineClient) ValidateSignature(body []byte, signature string) bool {
	decoded, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.channelSecret))
	mac.Write(body)
	return hmac.Equal(decoded, mac.Sum(nil))
}

func (c *LineClient) send(ctx context.Context, endpoint string, body any) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("gateway client is not initialized")
	}

	response, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(endpoint)
	if err != nil {
		return &GatewayError{
			Message:   "messaging api request failed",
			Transient: !errors.Is(err, context.Canceled),
			Cause:     err,
		}
	}
	if response == nil {
		return &GatewayError{
			Message:   "messaging api returned empty response",
			Transient: true,
		}
	}

	statusCode := response.StatusCode()
	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		return nil
	}

	return &GatewayError{
		StatusCode: statusCode,
		Message:    sendErrorMessage(statusCode, strings.TrimSpace(response.String())),
		Transient:  isTransientHTTPStatus(statusCode),
	}
}

func validateMessages(messages []Message) error {
	if len(messages) == 0 {
		return fmt.Errorf("at least one message is required")
	}
	if len(messages) > maxMessagesPerCall {
		return fmt.Errorf("at most %d messages per call, got %d", maxMessagesPerCall, len(messages))
	}
	return nil
}

func isTransientHTTPStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || (statusCode >= http.StatusInternalServerError && statusCode <= 599)
}

func sendErrorMessage(statusCode int, body string) string {
	base := fmt.Sprintf("messaging api returned status %d", statusCode)
	if body == "" {
		return base
	}
	return fmt.Sprintf("%s: %s", base, body)
}
