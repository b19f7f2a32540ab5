package gateway

// Webhook wire types for inbound platform events. Only message/text events
// matter to the reminder trigger; everything else is acknowledged and
// ignored.

const (
	// SignatureHeader carries base64(HMAC-SHA256(channelSecret, body)).
	SignatureHeader = "X-Line-Signature"

	EventTypeMessage = "message"
	MessageTypeText  = "text"
)

type WebhookRequest struct {
	Destination string         `json:"destination"`
	Events      []WebhookEvent `json:"events"`
}

type WebhookEvent struct {
	Type       string          `json:"type"`
	ReplyToken string          `json:"replyToken"`
	Timestamp  int64           `json:"timestamp"`
	Source     *WebhookSource  `json:"source,omitempty"`
	Message    *WebhookMessage `json:"message,omitempty"`
}

type WebhookSource struct {
	Type    string `json:"type"`
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
}

type WebhookMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// IsTriggerText reports whether the event is a text message exactly matching
// the trigger keyword.
func (e *WebhookEvent) IsTriggerText(keyword string) bool {
	if e == nil || e.Message == nil {
		return false
	}
	return e.Type == EventTypeMessage &&
		e.Message.Type == MessageTypeText &&
		e.Message.Text == keyword
}
