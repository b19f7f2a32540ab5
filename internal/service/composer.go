package service

import (
	"fmt"
	"strings"

	"github.com/naphat-v/visawatch/internal/domain"
	"github.com/naphat-v/visawatch/internal/gateway"
)

// ComposeMode selects the rendering of a reminder payload. The trigger and
// delivery context pick the mode, never the record content.
type ComposeMode string

const (
	ComposeText ComposeMode = "text"
	ComposeCard ComposeMode = "card"
)

const (
	// fieldPlaceholder renders in place of absent optional fields so every
	// recipient sees a structurally identical message.
	fieldPlaceholder = "-"

	cardTitle       = "แจ้งเตือนวีซ่าใกล้หมดอายุ"
	cardTitleColor  = "#FFFFFF"
	cardHeaderColor = "#1E3A8A"

	expiryDateLayout = "2006-01-02"
)

// ComposedMessage is one record's channel-ready payload.
type ComposedMessage struct {
	PassportID string
	Messages   []gateway.Message
}

// ComposeReminder renders one passport into a reminder payload. It is pure:
// the same record and mode always produce an identical payload, and absent
// optional fields render the placeholder instead of failing.
func ComposeReminder(p domain.Passport, mode ComposeMode) ComposedMessage {
	name := orPlaceholder(p.FullName())
	number := orPlaceholder(p.PassportNumber)
	expiry := fieldPlaceholder
	if !p.ExpiryDate.IsZero() {
		expiry = p.ExpiryDate.UTC().Format(expiryDateLayout)
	}
	agency := orPlaceholder(p.Agency)

	var msg gateway.Message
	switch mode {
	case ComposeCard:
		msg = composeCard(name, number, expiry, agency)
	default:
		msg = composeText(name, number, expiry, agency)
	}

	return ComposedMessage{
		PassportID: p.ID,
		Messages:   []gateway.Message{msg},
	}
}

func composeText(name, number, expiry, agency string) gateway.TextMessage {
	text := fmt.Sprintf(
		"แจ้งเตือนวีซ่า %s ใกล้หมดอายุ\nName-Surname: %s\nPassport No.: %s\nExpired date: %s\nAgent: %s",
		number, name, number, expiry, agency,
	)
	return gateway.NewTextMessage(text)
}

func composeCard(name, number, expiry, agency string) gateway.FlexMessage {
	bubble := gateway.FlexBubble{
		Type: "bubble",
		Header: &gateway.FlexBox{
			Type:            "box",
			Layout:          "vertical",
			BackgroundColor: cardHeaderColor,
			Contents: []gateway.FlexText{
				{Type: "text", Text: cardTitle, Weight: "bold", Size: "md", Color: cardTitleColor, Wrap: true},
			},
		},
		Body: &gateway.FlexBox{
			Type:   "box",
			Layout: "vertical",
			Contents: []gateway.FlexText{
				{Type: "text", Text: "Name-Surname: " + name, Size: "sm", Wrap: true},
				{Type: "text", Text: "Passport No.: " + number, Size: "sm", Margin: "sm", Wrap: true},
				{Type: "text", Text: "Expired date: " + expiry, Size: "sm", Margin: "sm", Wrap: true},
				{Type: "text", Text: "Agent: " + agency, Size: "sm", Margin: "sm", Wrap: true},
			},
		},
	}

	altText := fmt.Sprintf("แจ้งเตือนวีซ่า %s ใกล้หมดอายุ", number)
	return gateway.NewFlexMessage(altText, bubble)
}

func orPlaceholder(v string) string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return fieldPlaceholder
	}
	return trimmed
}
