package whatsapp

import "context"

// MessageSender is the outbound side of the WhatsApp gateway.
type MessageSender interface {
	SendMessage(ctx context.Context, recipient, text string) error
	SendReply(ctx context.Context, recipient, replyToID, text string) error
}

// Messenger implements chat.Messenger for WhatsApp.
type Messenger struct {
	sender MessageSender
}

func NewMessenger(sender MessageSender) *Messenger {
	return &Messenger{sender: sender}
}

func (m *Messenger) SendText(ctx context.Context, chatID, text string) error {
	return m.sender.SendMessage(ctx, chatID, text)
}

func (m *Messenger) SendReply(ctx context.Context, chatID, replyToID, text string) error {
	if replyToID == "" {
		return m.sender.SendMessage(ctx, chatID, text)
	}
	return m.sender.SendReply(ctx, chatID, replyToID, text)
}
