package chat

import (
	"context"
	"strings"
)

// Messenger is the outbound adapter of the chat gateway.
type Messenger interface {
	SendText(ctx context.Context, chatID, text string) error
	SendReply(ctx context.Context, chatID, replyToID, text string) error
}

// InlineButton is a numbered option rendered as text on WhatsApp.
type InlineButton struct {
	Text string
	Data string
}

const groupChatSuffix = "@g.us"

// InboundMessage is a normalized message delivered by the gateway webhook.
type InboundMessage struct {
	ID        string
	From      string // sender JID
	ChatID    string // conversation JID, a group when it ends with @g.us
	FromName  string
	Body      string
	Caption   string // image caption
	ImagePath string
}

// Text returns the body, or the image caption for media messages.
func (m InboundMessage) Text() string {
	if m.Body != "" {
		return m.Body
	}
	return m.Caption
}

// IsGroup reports whether the message was posted in a group chat.
func (m InboundMessage) IsGroup() bool {
	return IsGroupChat(m.ChatID)
}

// ReplyTo is where error replies for this message go: the group or the sender.
func (m InboundMessage) ReplyTo() string {
	if m.ChatID != "" {
		return m.ChatID
	}
	return m.From
}

func IsGroupChat(chatID string) bool {
	return strings.Contains(chatID, groupChatSuffix)
}
