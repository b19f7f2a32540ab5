package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLineClientPushMessageSuccess(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	var gotBody struct {
		To       string `json:"to"`
		Messages []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, err := NewLineClient(server.URL, "token-abc", "secret")
	if err != nil {
		t.Fatalf("NewLineClient() error = %v", err)
	}

	err = client.PushMessage(context.Background(), "U123", []Message{NewTextMessage("hello")})
	if err != nil {
		t.Fatalf("PushMessage() unexpected error: %v", err)
	}

	if gotPath != pushEndpoint {
		t.Fatalf("path = %q, want %q", gotPath, pushEndpoint)
	}
	if gotAuth != "Bearer token-abc" {
		t.Fatalf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotBody.To != "U123" {
		t.Fatalf("request.to = %q, want U123", gotBody.To)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Type != "text" || gotBody.Messages[0].Text != "hello" {
		t.Fatalf("request.messages = %+v, want single text message", gotBody.Messages)
	}
}

func TestLineClientReplyMessageSuccess(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody struct {
		ReplyToken string `json:"replyToken"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewLineClient(server.URL, "token", "secret")
	if err != nil {
		t.Fatalf("NewLineClient() error = %v", err)
	}

	err = client.ReplyMessage(context.Background(), "rt-1", []Message{NewTextMessage("hi")})
	if err != nil {
		t.Fatalf("ReplyMessage() unexpected error: %v", err)
	}

	if gotPath != replyEndpoint {
		t.Fatalf("path = %q, want %q", gotPath, replyEndpoint)
	}
	if gotBody.ReplyToken != "rt-1" {
		t.Fatalf("request.replyToken = %q, want rt-1", gotBody.ReplyToken)
	}
}

func TestLineClientStatusClassification(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		statusCode    int
		wantTransient bool
	}{
		{name: "too many requests is transient", statusCode: http.StatusTooManyRequests, wantTransient: true},
		{name: "bad request is permanent", statusCode: http.StatusBadRequest, wantTransient: false},
		{name: "expired reply token is permanent", statusCode: http.StatusForbidden, wantTransient: false},
		{name: "internal server error is transient", statusCode: http.StatusInternalServerError, wantTransient: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
				_, _ = w.Write([]byte(`{"message":"send failed"}`))
			}))
			defer server.Close()

			client, err := NewLineClient(server.URL, "token", "secret")
			if err != nil {
				t.Fatalf("NewLineClient() error = %v", err)
			}

			err = client.PushMessage(context.Background(), "U123", []Message{NewTextMessage("x")})
			if err == nil {
				t.Fatal("expected error")
			}

			if got := IsTransient(err); got != tc.wantTransient {
				t.Fatalf("IsTransient() = %v, want %v", got, tc.wantTransient)
			}

			var gatewayErr *GatewayError
			if !errors.As(err, &gatewayErr) {
				t.Fatalf("expected GatewayError, got %T", err)
			}
			if gatewayErr.StatusCode != tc.statusCode {
				t.Fatalf("GatewayError.StatusCode = %d, want %d", gatewayErr.StatusCode, tc.statusCode)
			}
		})
	}
}

func TestLineClientInputValidation(t *testing.T) {
	t.Parallel()

	client, err := NewLineClient("https://api.line.me", "token", "secret")
	if err != nil {
		t.Fatalf("NewLineClient() error = %v", err)
	}

	if err := client.PushMessage(context.Background(), "", []Message{NewTextMessage("x")}); err == nil {
		t.Fatal("expected error for empty recipient")
	}
	if err := client.ReplyMessage(context.Background(), "", []Message{NewTextMessage("x")}); err == nil {
		t.Fatal("expected error for empty reply token")
	}
	if err := client.PushMessage(context.Background(), "U1", nil); err == nil {
		t.Fatal("expected error for empty message list")
	}

	tooMany := make([]Message, maxMessagesPerCall+1)
	for i := range tooMany {
		tooMany[i] = NewTextMessage("x")
	}
	if err := client.PushMessage(context.Background(), "U1", tooMany); err == nil {
		t.Fatal("expected error for too many messages")
	}
}

func TestNewLineClientValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewLineClient("", "token", "secret"); err == nil {
		t.Fatal("expected error for empty base url")
	}
	if _, err := NewLineClient("https://api.line.me", "", "secret"); err == nil {
		t.Fatal("expected error for empty channel token")
	}
	if _, err := NewLineClient("https://api.line.me", "token", ""); err == nil {
		t.Fatal("expected error for empty channel secret")
	}
}

func TestValidateSignature(t *testing.T) {
	t.Parallel()

	client, err := NewLineClient("https://api.line.me", "token", "secret-key")
	if err != nil {
		t.Fatalf("NewLineClient() error = %v", err)
	}

	body := []byte(`{"events":[]}`)
	mac := hmac.New(sha256.New, []byte("secret-key"))
	mac.Write(body)
	valid := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !client.ValidateSignature(body, valid) {
		t.Fatal("valid signature rejected")
	}
	if client.ValidateSignature(body, "not-base64!!!") {
		t.Fatal("malformed signature accepted")
	}
	if client.ValidateSignature([]byte(`{"events":[{}]}`), valid) {
		t.Fatal("signature over different body accepted")
	}

	otherMac := hmac.New(sha256.New, []byte("other-secret"))
	otherMac.Write(body)
	other := base64.StdEncoding.EncodeToString(otherMac.Sum(nil))
	if client.ValidateSignature(body, other) {
		t.Fatal("signature from wrong secret accepted")
	}
}

func TestIsTriggerText(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		event WebhookEvent
		want  bool
	}{
		{
			name: "matching text message",
			event: WebhookEvent{
				Type:    EventTypeMessage,
				Message: &WebhookMessage{Type: MessageTypeText, Text: "remind"},
			},
			want: true,
		},
		{
			name: "different text",
			event: WebhookEvent{
				Type:    EventTypeMessage,
				Message: &WebhookMessage{Type: MessageTypeText, Text: "hello"},
			},
			want: false,
		},
		{
			name: "sticker message",
			event: WebhookEvent{
				Type:    EventTypeMessage,
				Message: &WebhookMessage{Type: "sticker"},
			},
			want: false,
		},
		{
			name:  "follow event without message",
			event: WebhookEvent{Type: "follow"},
			want:  false,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := tc.event.IsTriggerText("remind"); got != tc.want {
				t.Fatalf("IsTriggerText() = %v, want %v", got, tc.want)
			}
		})
	}
}
