package gateway

import "context"

// Gateway is the outbound chat-platform port. Push addresses a durable
// recipient; Reply answers one inbound event through its single-use token.
type Gateway interface {
	PushMessage(ctx context.Context, to string, messages []Message) error
	ReplyMessage(ctx context.Context, replyToken string, messages []Message) error
}

// Message is one channel-ready payload item.
type Message interface {
	messageType() string
}

type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func NewTextMessage(text string) TextMessage {
	return TextMessage{Type: "text", Text: text}
}

func (TextMessage) messageType() string { return "text" }

// FlexMessage is a structured rich card. Contents follow the platform's
// constrained bubble schema, so field values need no markup escaping.
type FlexMessage struct {
	Type     string     `json:"type"`
	AltText  string     `json:"altText"`
	Contents FlexBubble `json:"contents"`
}

func NewFlexMessage(altText string, contents FlexBubble) FlexMessage {
	return FlexMessage{Type: "flex", AltText: altText, Contents: contents}
}

func (FlexMessage) messageType() string { return "flex" }

type FlexBubble struct {
	Type   string   `json:"type"`
	Header *FlexBox `json:"header,omitempty"`
	Body   *FlexBox `json:"body,omitempty"`
}

type FlexBox struct {
	Type            string     `json:"type"`
	Layout          string     `json:"layout"`
	BackgroundColor string     `json:"backgroundColor,omitempty"`
	Contents        []FlexText `json:"contents"`
}

type FlexText struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Weight string `json:"weight,omitempty"`
	Size   string `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
	Margin string `json:"margin,omitempty"`
	Wrap   bool   `json:"wrap,omitempty"`
}
